package ranking

import (
	"errors"

	"github.com/google/uuid"
)

// Períodos aceitos pelo ranking.
const (
	PeriodoGeral = "geral"
	PeriodoMes   = "mes"
)

var (
	// ErrPeriodoInvalido indica período fora de {geral, mes}.
	ErrPeriodoInvalido = errors.New("período inválido. Use 'geral' ou 'mes'")
)

// PeriodoValido informa se o valor é um período reconhecido.
func PeriodoValido(periodo string) bool {
	return periodo == PeriodoGeral || periodo == PeriodoMes
}

// NinhoPontuavel é a linha mínima necessária para pontuar um ninho:
// identificação do dono ativo, risco e presença de foto.
type NinhoPontuavel struct {
	UsuarioID    uuid.UUID
	Username     string
	NomeCompleto string
	Risco        string
	TemFoto      bool
}

// Entrada é uma posição do ranking já ordenado.
type Entrada struct {
	Posicao      int    `json:"posicao"`
	UsuarioID    string `json:"user_id"`
	Username     string `json:"username"`
	NomeCompleto string `json:"nome_completo"`
	TotalNinhos  int    `json:"total_ninhos"`
	TotalPontos  int    `json:"total_pontos"`
}

// RegiaoContagem agrega uma região à sua quantidade de ninhos.
type RegiaoContagem struct {
	Regiao      string `json:"regiao"`
	TotalNinhos int64  `json:"total_ninhos"`
}

// Resumo descreve o panorama geral exibido junto do ranking.
type Resumo struct {
	TotalUsuarios int64            `json:"total_usuarios"`
	TotalNinhos   int64            `json:"total_ninhos"`
	RegioesTop    []RegiaoContagem `json:"regioes_top"`
}

package ninho

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Valores de risco conhecidos. O campo é um enum aberto: valores fora da
// lista são aceitos e apenas não pontuam no ranking.
const (
	RiscoCritico       = "crítico"
	RiscoSobObservacao = "sob observação"
	RiscoEstavel       = "estável"
)

// Valores de status conhecidos (enum aberto, como o risco).
const (
	StatusEstavel    = "estável"
	StatusDanificado = "danificado"
)

// DiasEclosaoIminente define o corte de "prestes a eclodir" nas estatísticas.
const DiasEclosaoIminente = 5

var (
	ErrNotFound = errors.New("ninho não encontrado")
)

// Ninho representa uma observação de ninho registrada por um voluntário.
type Ninho struct {
	ID              uuid.UUID `json:"id"`
	Regiao          string    `json:"regiao"`
	QuantidadeOvos  int       `json:"quantidade_ovos"`
	Status          string    `json:"status"`
	Risco           string    `json:"risco"`
	DiasParaEclosao int       `json:"dias_para_eclosao"`
	Predadores      bool      `json:"predadores"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	FotoPath        *string   `json:"foto_path"`
	DataRegistro    time.Time `json:"data_registro"`
	UsuarioID       uuid.UUID `json:"usuario_id"`
}

// NinhoComDono agrega o ninho ao nome de quem o registrou (relatórios).
type NinhoComDono struct {
	Ninho
	UsuarioNome string `json:"usuario_nome"`
}

// CreateInput encapsula os campos de criação de um ninho.
type CreateInput struct {
	Regiao          string
	QuantidadeOvos  int
	Status          string
	Risco           string
	DiasParaEclosao int
	Predadores      bool
	Latitude        *float64
	Longitude       *float64
	FotoPath        *string
	UsuarioID       uuid.UUID
}

// Estatisticas descreve os agregados calculados sobre toda a tabela de ninhos.
type Estatisticas struct {
	TotalNinhos           int64            `json:"total_ninhos"`
	PorStatus             map[string]int64 `json:"ninhos_por_status"`
	PorRisco              map[string]int64 `json:"ninhos_por_risco"`
	PrestesEclodir        int64            `json:"ninhos_prestes_eclodir"`
	MediaOvosCritico      float64          `json:"media_ovos_critico"`
	RegiaoMaisCriticos    *string          `json:"regiao_mais_criticos"`
	PredadoresDanificados int64            `json:"ninhos_predadores_danificados"`
}

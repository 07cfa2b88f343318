package ranking

import "github.com/guardiaotartarugas/api/internal/ninho"

// Pontuação por nível de risco. Valores fora da tabela não pontuam, mas o
// ninho ainda conta no total e no bônus de foto.
const (
	PontosCritico       = 10
	PontosSobObservacao = 5
	PontosEstavel       = 2
	BonusFoto           = 1
)

var pontosPorRisco = map[string]int{
	ninho.RiscoCritico:       PontosCritico,
	ninho.RiscoSobObservacao: PontosSobObservacao,
	ninho.RiscoEstavel:       PontosEstavel,
}

// PontosPorRisco devolve a pontuação base do nível de risco (0 para
// valores desconhecidos).
func PontosPorRisco(risco string) int {
	return pontosPorRisco[risco]
}

// PontosNinho calcula a pontuação total de um ninho: base pelo risco mais
// bônus por foto, independente do risco.
func PontosNinho(risco string, temFoto bool) int {
	pontos := PontosPorRisco(risco)
	if temFoto {
		pontos += BonusFoto
	}
	return pontos
}

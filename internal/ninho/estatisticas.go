package ninho

import "math"

// estatisticasBrutas agrupa os agregados crus lidos do banco, antes de
// qualquer arredondamento ou normalização.
type estatisticasBrutas struct {
	total                 int64
	porStatus             map[string]int64
	porRisco              map[string]int64
	prestesEclodir        int64
	mediaOvosCritico      float64
	regiaoMaisCriticos    *string
	predadoresDanificados int64
}

// montarEstatisticas normaliza os agregados crus no formato da API: mapas
// sempre não-nulos (tabela vazia devolve {} em vez de null no JSON) e média
// arredondada em duas casas.
func montarEstatisticas(b estatisticasBrutas) *Estatisticas {
	porStatus := b.porStatus
	if porStatus == nil {
		porStatus = make(map[string]int64)
	}
	porRisco := b.porRisco
	if porRisco == nil {
		porRisco = make(map[string]int64)
	}

	return &Estatisticas{
		TotalNinhos:           b.total,
		PorStatus:             porStatus,
		PorRisco:              porRisco,
		PrestesEclodir:        b.prestesEclodir,
		MediaOvosCritico:      arredondar2(b.mediaOvosCritico),
		RegiaoMaisCriticos:    b.regiaoMaisCriticos,
		PredadoresDanificados: b.predadoresDanificados,
	}
}

func arredondar2(v float64) float64 {
	return math.Round(v*100) / 100
}

package ranking

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// topRegioesLimit é o tamanho da lista de regiões no resumo.
const topRegioesLimit = 5

// RepositoryProvider define o acesso a dados usado pelo serviço.
type RepositoryProvider interface {
	ListPontuaveis(ctx context.Context, desde *time.Time) ([]NinhoPontuavel, error)
	CountUsuariosAtivos(ctx context.Context) (int64, error)
	CountNinhos(ctx context.Context) (int64, error)
	TopRegioes(ctx context.Context, limit int) ([]RegiaoContagem, error)
}

// Service calcula o ranking de voluntários e o resumo geral.
type Service struct {
	repo RepositoryProvider
	now  func() time.Time
}

// NewService cria o serviço usando o relógio do sistema.
func NewService(repo RepositoryProvider) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceWithClock permite injetar o relógio (testes do filtro mensal).
func NewServiceWithClock(repo RepositoryProvider, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// ComputeRanking monta o placar do período pedido.
// O chamador valida o período antes; aqui um valor desconhecido também é
// rejeitado para nunca degradar silenciosamente para o ranking geral.
func (s *Service) ComputeRanking(ctx context.Context, periodo string) ([]Entrada, error) {
	if !PeriodoValido(periodo) {
		return nil, ErrPeriodoInvalido
	}

	var desde *time.Time
	if periodo == PeriodoMes {
		inicio := inicioDoMes(s.now())
		desde = &inicio
	}

	itens, err := s.repo.ListPontuaveis(ctx, desde)
	if err != nil {
		return nil, err
	}

	return montarRanking(itens), nil
}

// ComputeResumo devolve o panorama de usuários, ninhos e regiões.
func (s *Service) ComputeResumo(ctx context.Context) (*Resumo, error) {
	totalUsuarios, err := s.repo.CountUsuariosAtivos(ctx)
	if err != nil {
		return nil, err
	}

	totalNinhos, err := s.repo.CountNinhos(ctx)
	if err != nil {
		return nil, err
	}

	regioes, err := s.repo.TopRegioes(ctx, topRegioesLimit)
	if err != nil {
		return nil, err
	}
	if regioes == nil {
		regioes = []RegiaoContagem{}
	}

	return &Resumo{
		TotalUsuarios: totalUsuarios,
		TotalNinhos:   totalNinhos,
		RegioesTop:    regioes,
	}, nil
}

// inicioDoMes devolve o primeiro dia do mês corrente, à meia-noite local.
func inicioDoMes(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
}

type acumulado struct {
	usuarioID    uuid.UUID
	username     string
	nomeCompleto string
	ninhos       int
	pontos       int
}

// montarRanking agrega por usuário, ordena e numera as posições.
// Ordenação: pontos DESC, ninhos DESC e, para empate total, usuário ASC —
// o último critério garante resultado determinístico entre chamadas.
func montarRanking(itens []NinhoPontuavel) []Entrada {
	porUsuario := make(map[uuid.UUID]*acumulado)
	for _, item := range itens {
		acc, ok := porUsuario[item.UsuarioID]
		if !ok {
			acc = &acumulado{
				usuarioID:    item.UsuarioID,
				username:     item.Username,
				nomeCompleto: item.NomeCompleto,
			}
			porUsuario[item.UsuarioID] = acc
		}
		acc.ninhos++
		acc.pontos += PontosNinho(item.Risco, item.TemFoto)
	}

	ordenado := make([]*acumulado, 0, len(porUsuario))
	for _, acc := range porUsuario {
		ordenado = append(ordenado, acc)
	}
	sort.Slice(ordenado, func(i, j int) bool {
		if ordenado[i].pontos != ordenado[j].pontos {
			return ordenado[i].pontos > ordenado[j].pontos
		}
		if ordenado[i].ninhos != ordenado[j].ninhos {
			return ordenado[i].ninhos > ordenado[j].ninhos
		}
		return ordenado[i].usuarioID.String() < ordenado[j].usuarioID.String()
	})

	entradas := make([]Entrada, 0, len(ordenado))
	for i, acc := range ordenado {
		entradas = append(entradas, Entrada{
			Posicao:      i + 1,
			UsuarioID:    acc.usuarioID.String(),
			Username:     acc.username,
			NomeCompleto: acc.nomeCompleto,
			TotalNinhos:  acc.ninhos,
			TotalPontos:  acc.pontos,
		})
	}
	return entradas
}

package ninho

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrValidacao marca toda falha de validação de entrada. Os handlers usam
// errors.Is contra este sentinela para distinguir dado inválido (400) de
// falha de armazenamento (500).
var ErrValidacao = errors.New("entrada inválida")

type erroValidacao struct{ msg string }

func (e erroValidacao) Error() string { return e.msg }

func (e erroValidacao) Is(target error) bool { return target == ErrValidacao }

func validacao(msg string) error { return erroValidacao{msg: msg} }

// RepositoryProvider define o acesso a dados usado pelo serviço.
type RepositoryProvider interface {
	Create(ctx context.Context, input CreateInput) (*Ninho, error)
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]Ninho, error)
	ListAllComDono(ctx context.Context) ([]NinhoComDono, error)
	Estatisticas(ctx context.Context) (*Estatisticas, error)
}

// Service reúne regras de negócio dos ninhos.
type Service struct {
	repo RepositoryProvider
}

// NewService cria uma nova instância do serviço.
func NewService(repo RepositoryProvider) *Service {
	return &Service{repo: repo}
}

// Create valida os campos obrigatórios e registra o ninho.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Ninho, error) {
	input.Regiao = strings.TrimSpace(input.Regiao)
	input.Status = strings.TrimSpace(input.Status)
	input.Risco = strings.TrimSpace(input.Risco)

	if input.Regiao == "" {
		return nil, validacao("regiao obrigatória")
	}
	if input.QuantidadeOvos < 0 {
		return nil, validacao("quantidade_ovos não pode ser negativa")
	}
	if input.Status == "" {
		return nil, validacao("status obrigatório")
	}
	if input.Risco == "" {
		return nil, validacao("risco obrigatório")
	}
	if input.UsuarioID == uuid.Nil {
		return nil, validacao("usuario_id obrigatório")
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, validacao("latitude e longitude devem vir juntas")
	}
	if input.FotoPath != nil && strings.TrimSpace(*input.FotoPath) == "" {
		input.FotoPath = nil
	}

	return s.repo.Create(ctx, input)
}

// ListByUsuario lista os ninhos do voluntário autenticado.
func (s *Service) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]Ninho, error) {
	return s.repo.ListByUsuario(ctx, usuarioID)
}

// ListAllComDono lista todos os ninhos com o nome do dono (admin).
func (s *Service) ListAllComDono(ctx context.Context) ([]NinhoComDono, error) {
	return s.repo.ListAllComDono(ctx)
}

// Estatisticas devolve os agregados globais da tabela de ninhos.
func (s *Service) Estatisticas(ctx context.Context) (*Estatisticas, error) {
	return s.repo.Estatisticas(ctx)
}

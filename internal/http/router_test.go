package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/guardiaotartarugas/api/internal/auth"
	"github.com/guardiaotartarugas/api/internal/mailer"
	"github.com/guardiaotartarugas/api/internal/repo"
	"github.com/guardiaotartarugas/api/internal/service"
)

type cadastroRepoStub struct {
	byUsernameErr error
	existente     *repo.Usuario
}

func (s *cadastroRepoStub) CreateUsuario(ctx context.Context, username, email, senhaHash, nomeCompleto string) (repo.Usuario, error) {
	return repo.Usuario{ID: uuid.New(), Username: username, Email: email, NomeCompleto: nomeCompleto, Ativo: true}, nil
}

func (s *cadastroRepoStub) GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	return repo.Usuario{}, repo.ErrNotFound
}

func (s *cadastroRepoStub) GetUsuarioByUsername(ctx context.Context, username string) (repo.Usuario, error) {
	if s.byUsernameErr != nil {
		return repo.Usuario{}, s.byUsernameErr
	}
	if s.existente != nil {
		return *s.existente, nil
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (s *cadastroRepoStub) GetUsuarioByEmail(ctx context.Context, email string) (repo.Usuario, error) {
	return repo.Usuario{}, repo.ErrNotFound
}

func (s *cadastroRepoStub) UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string) error {
	return nil
}

func (s *cadastroRepoStub) InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error) {
	return repo.TokenRefresh{}, nil
}

func (s *cadastroRepoStub) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error) {
	return repo.TokenRefresh{}, repo.ErrNotFound
}

func (s *cadastroRepoStub) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return nil
}

func (s *cadastroRepoStub) InvalidateOtherRefreshTokens(ctx context.Context, usuarioID uuid.UUID, keepHash string) error {
	return nil
}

func registerHandler(repoStub *cadastroRepoStub) *Handler {
	jwtMgr := auth.NewJWTManager("segredo-de-teste-bem-longo-0123456789", 15*time.Minute)
	svc := service.NewAuthService(repoStub, nil, jwtMgr, mailer.NoopMailer{}, 24*time.Hour, 30*time.Minute, "")
	return &Handler{authService: svc}
}

func TestRegisterErroDeBancoRespondeInterno(t *testing.T) {
	h := registerHandler(&cadastroRepoStub{
		byUsernameErr: errors.New("FATAL: connection to server was lost (pgx)"),
	})

	body := strings.NewReader(`{"username":"tartarugo","email":"t@praia.org","password":"senha-segura-123","nome_completo":"Tartarugo Silva"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"code":"INTERNAL"`) {
		t.Fatalf("expected INTERNAL error code, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "pgx") || strings.Contains(rec.Body.String(), "FATAL") {
		t.Fatalf("mensagem do driver vazou na resposta: %s", rec.Body.String())
	}
}

func TestRegisterEntradaInvalidaRespondeValidacao(t *testing.T) {
	h := registerHandler(&cadastroRepoStub{})

	body := strings.NewReader(`{"username":"ab","email":"t@praia.org","password":"senha-segura-123","nome_completo":"Tartarugo Silva"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"code":"VALIDATION"`) {
		t.Fatalf("expected VALIDATION error code, got %s", rec.Body.String())
	}
}

func TestRegisterUsernameDuplicadoRespondeConflito(t *testing.T) {
	existente := repo.Usuario{ID: uuid.New(), Username: "tartarugo"}
	h := registerHandler(&cadastroRepoStub{existente: &existente})

	body := strings.NewReader(`{"username":"tartarugo","email":"t@praia.org","password":"senha-segura-123","nome_completo":"Tartarugo Silva"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d: %s", rec.Code, rec.Body.String())
	}
}

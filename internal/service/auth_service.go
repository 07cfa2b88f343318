package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guardiaotartarugas/api/internal/auth"
	"github.com/guardiaotartarugas/api/internal/mailer"
	"github.com/guardiaotartarugas/api/internal/repo"
	"github.com/guardiaotartarugas/api/internal/util"
)

var (
	// ErrCredenciaisInvalidas indica falha na autenticação.
	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")
	// ErrContaDesativada indica conta desativada.
	ErrContaDesativada = errors.New("conta desativada")
	// ErrRefreshInvalid indica refresh token inválido ou expirado.
	ErrRefreshInvalid = errors.New("refresh token inválido")
	// ErrUsernameEmUso indica username já cadastrado.
	ErrUsernameEmUso = errors.New("username já existe")
	// ErrEmailEmUso indica e-mail já cadastrado.
	ErrEmailEmUso = errors.New("email já está cadastrado")
	// ErrResetUsado indica que o link de redefinição já foi consumido.
	ErrResetUsado = errors.New("link de redefinição já utilizado")
	// ErrValidacao marca falha de validação de entrada. Handlers comparam
	// com errors.Is para responder 400 em vez de 500.
	ErrValidacao = errors.New("entrada inválida")
)

type erroValidacao struct{ err error }

func (e erroValidacao) Error() string { return e.err.Error() }

func (e erroValidacao) Unwrap() error { return e.err }

func (e erroValidacao) Is(target error) bool { return target == ErrValidacao }

type authRepository interface {
	CreateUsuario(ctx context.Context, username, email, senhaHash, nomeCompleto string) (repo.Usuario, error)
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
	GetUsuarioByUsername(ctx context.Context, username string) (repo.Usuario, error)
	GetUsuarioByEmail(ctx context.Context, email string) (repo.Usuario, error)
	UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string) error
	InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	InvalidateOtherRefreshTokens(ctx context.Context, usuarioID uuid.UUID, keepHash string) error
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// AuthService concentra cadastro, autenticação e recuperação de senha.
type AuthService struct {
	repo       authRepository
	redis      redisCommander
	jwt        *auth.JWTManager
	mail       mailer.Mailer
	refreshTTL time.Duration
	resetTTL   time.Duration
	resetURL   string
}

// NewAuthService cria novo serviço.
func NewAuthService(r authRepository, redisClient redisCommander, jwtMgr *auth.JWTManager, mail mailer.Mailer, refreshTTL, resetTTL time.Duration, resetURL string) *AuthService {
	return &AuthService{
		repo:       r,
		redis:      redisClient,
		jwt:        jwtMgr,
		mail:       mail,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
		resetURL:   resetURL,
	}
}

// JWT expõe gerenciador de JWT (útil em middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// PerfilUsuario é a visão pública de um usuário.
type PerfilUsuario struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	NomeCompleto string    `json:"nome_completo"`
	Ativo        bool      `json:"ativo"`
	IsAdmin      bool      `json:"is_admin"`
	CriadoEm     time.Time `json:"criado_em"`
}

// NewPerfilUsuario converte o modelo persistido em perfil público.
func NewPerfilUsuario(u repo.Usuario) PerfilUsuario {
	return PerfilUsuario{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		NomeCompleto: u.NomeCompleto,
		Ativo:        u.Ativo,
		IsAdmin:      u.IsAdmin,
		CriadoEm:     u.CriadoEm,
	}
}

// LoginResult representa retorno padrão de autenticações.
type LoginResult struct {
	AccessToken   string
	RefreshToken  string
	Subject       uuid.UUID
	Profile       PerfilUsuario
	RefreshHash   string
	RefreshExpiry time.Time
}

// Register valida e cria um novo voluntário.
func (s *AuthService) Register(ctx context.Context, username, email, senha, nomeCompleto string) (PerfilUsuario, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	nomeCompleto = strings.TrimSpace(nomeCompleto)

	if err := util.ValidateUsername(username); err != nil {
		return PerfilUsuario{}, erroValidacao{err}
	}
	if err := util.ValidateEmail(email); err != nil {
		return PerfilUsuario{}, erroValidacao{err}
	}
	if err := util.ValidatePassword(senha); err != nil {
		return PerfilUsuario{}, erroValidacao{err}
	}
	if err := util.RequireString(nomeCompleto, "nome_completo"); err != nil {
		return PerfilUsuario{}, erroValidacao{err}
	}

	if _, err := s.repo.GetUsuarioByUsername(ctx, username); err == nil {
		return PerfilUsuario{}, ErrUsernameEmUso
	} else if !errors.Is(err, repo.ErrNotFound) {
		return PerfilUsuario{}, err
	}
	if _, err := s.repo.GetUsuarioByEmail(ctx, email); err == nil {
		return PerfilUsuario{}, ErrEmailEmUso
	} else if !errors.Is(err, repo.ErrNotFound) {
		return PerfilUsuario{}, err
	}

	hash, err := auth.Hash(senha)
	if err != nil {
		return PerfilUsuario{}, err
	}

	user, err := s.repo.CreateUsuario(ctx, username, email, hash, nomeCompleto)
	if err != nil {
		return PerfilUsuario{}, err
	}

	return NewPerfilUsuario(user), nil
}

// Login autentica por username e senha.
func (s *AuthService) Login(ctx context.Context, username, senha string) (*LoginResult, error) {
	user, err := s.repo.GetUsuarioByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn().Msg("login: usuário não encontrado")
			return nil, ErrCredenciaisInvalidas
		}
		return nil, err
	}

	ok, err := auth.Verify(senha, user.SenhaHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: verificação de senha falhou")
		return nil, ErrCredenciaisInvalidas
	}
	if !ok {
		log.Warn().Msg("login: senha inválida")
		return nil, ErrCredenciaisInvalidas
	}

	if !user.Ativo {
		return nil, ErrContaDesativada
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) issueSession(ctx context.Context, user repo.Usuario) (*LoginResult, error) {
	token, _, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Username, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expires := time.Now().UTC().Add(s.refreshTTL)
	if err := s.persistRefresh(ctx, user.ID, refreshHash, expires); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:   token,
		RefreshToken:  rawRefresh,
		Subject:       user.ID,
		Profile:       NewPerfilUsuario(user),
		RefreshHash:   refreshHash,
		RefreshExpiry: expires,
	}, nil
}

func (s *AuthService) persistRefresh(ctx context.Context, usuarioID uuid.UUID, hash string, expires time.Time) error {
	if _, err := s.repo.InsertRefreshToken(ctx, repo.InsertRefreshTokenParams{
		UsuarioID: usuarioID,
		TokenHash: hash,
		Expiracao: expires,
	}); err != nil {
		return err
	}

	ttl := time.Until(expires)
	if ttl <= 0 {
		return auth.ErrInvalidRefresh
	}
	return s.redis.Set(ctx, auth.RefreshRedisKey(hash), "active", ttl).Err()
}

// Refresh troca refresh token válido por uma sessão nova.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	if rawToken == "" {
		return nil, ErrRefreshInvalid
	}

	hash := auth.HashRefreshToken(rawToken)
	record, err := s.repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	if record.Revogado || time.Now().UTC().After(record.Expiracao) {
		return nil, ErrRefreshInvalid
	}

	status, err := s.redis.Get(ctx, auth.RefreshRedisKey(hash)).Result()
	if err == redis.Nil {
		return nil, ErrRefreshInvalid
	}
	if err != nil {
		return nil, err
	}
	if status != "active" {
		return nil, ErrRefreshInvalid
	}

	user, err := s.repo.GetUsuarioByID(ctx, record.UsuarioID)
	if err != nil {
		return nil, err
	}
	if !user.Ativo {
		return nil, ErrContaDesativada
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return nil, err
	}
	_ = s.redis.Del(ctx, auth.RefreshRedisKey(hash))

	return s.issueSession(ctx, user)
}

// Logout revoga o refresh token atual.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	hash := auth.HashRefreshToken(rawToken)
	_ = s.redis.Del(ctx, auth.RefreshRedisKey(hash))
	return s.repo.RevokeRefreshToken(ctx, hash)
}

// GetMe devolve o perfil do usuário autenticado.
func (s *AuthService) GetMe(ctx context.Context, id uuid.UUID) (PerfilUsuario, error) {
	user, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return PerfilUsuario{}, err
	}
	if !user.Ativo {
		return PerfilUsuario{}, ErrContaDesativada
	}
	return NewPerfilUsuario(user), nil
}

// ForgotPassword envia link de redefinição quando o e-mail existe.
// A resposta é idêntica nos dois casos para não revelar cadastros.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUsuarioByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}

	token, _, err := s.jwt.GenerateResetToken(user.ID.String(), s.resetTTL)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s?token=%s", s.resetURL, token)
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Redefinição de Senha - Guardião das Tartaruguinhas",
		Body: fmt.Sprintf(
			"Para redefinir sua senha, clique no link a seguir: %s\n\nSe você não solicitou isso, ignore este e-mail.",
			link,
		),
	}

	if err := s.mail.Send(ctx, msg); err != nil {
		log.Error().Err(err).Msg("forgot-password: envio de e-mail falhou")
		return err
	}
	return nil
}

// ResetPassword valida o token de redefinição e troca a senha.
// Cada token só pode ser usado uma vez; o jti fica marcado no Redis até expirar.
func (s *AuthService) ResetPassword(ctx context.Context, token, novaSenha string) error {
	if err := util.ValidatePassword(novaSenha); err != nil {
		return erroValidacao{err}
	}

	subject, jti, err := s.jwt.ParseResetToken(token)
	if err != nil {
		return err
	}

	usuarioID, err := uuid.Parse(subject)
	if err != nil {
		return auth.ErrResetInvalid
	}

	firstUse, err := s.redis.SetNX(ctx, auth.ResetRedisKey(jti), "used", s.resetTTL).Result()
	if err != nil {
		return err
	}
	if !firstUse {
		return ErrResetUsado
	}

	hash, err := auth.Hash(novaSenha)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateSenha(ctx, usuarioID, hash); err != nil {
		return err
	}

	// Senha trocada invalida sessões abertas.
	return s.repo.InvalidateOtherRefreshTokens(ctx, usuarioID, "")
}

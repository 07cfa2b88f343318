package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardiaotartarugas/api/internal/auth"
	"github.com/guardiaotartarugas/api/internal/mailer"
	"github.com/guardiaotartarugas/api/internal/repo"
)

const testSecret = "segredo-de-teste-com-32-caracteres!!"

type stubRepo struct {
	usuarios map[string]repo.Usuario // por username
	emails   map[string]repo.Usuario
	porID    map[uuid.UUID]repo.Usuario
	tokens   map[string]repo.TokenRefresh
	senhas   map[uuid.UUID]string

	criados     int
	invalidados []uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		usuarios: map[string]repo.Usuario{},
		emails:   map[string]repo.Usuario{},
		porID:    map[uuid.UUID]repo.Usuario{},
		tokens:   map[string]repo.TokenRefresh{},
		senhas:   map[uuid.UUID]string{},
	}
}

func (s *stubRepo) add(u repo.Usuario) {
	s.usuarios[u.Username] = u
	s.emails[u.Email] = u
	s.porID[u.ID] = u
}

func (s *stubRepo) CreateUsuario(ctx context.Context, username, email, senhaHash, nomeCompleto string) (repo.Usuario, error) {
	u := repo.Usuario{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		SenhaHash:    senhaHash,
		NomeCompleto: nomeCompleto,
		Ativo:        true,
		CriadoEm:     time.Now(),
	}
	s.add(u)
	s.criados++
	return u, nil
}

func (s *stubRepo) GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	if u, ok := s.porID[id]; ok {
		return u, nil
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (s *stubRepo) GetUsuarioByUsername(ctx context.Context, username string) (repo.Usuario, error) {
	if u, ok := s.usuarios[username]; ok {
		return u, nil
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (s *stubRepo) GetUsuarioByEmail(ctx context.Context, email string) (repo.Usuario, error) {
	if u, ok := s.emails[email]; ok {
		return u, nil
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (s *stubRepo) UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string) error {
	s.senhas[id] = senhaHash
	return nil
}

func (s *stubRepo) InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error) {
	t := repo.TokenRefresh{
		ID:        uuid.New(),
		UsuarioID: arg.UsuarioID,
		TokenHash: arg.TokenHash,
		Expiracao: arg.Expiracao,
	}
	s.tokens[arg.TokenHash] = t
	return t, nil
}

func (s *stubRepo) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error) {
	if t, ok := s.tokens[tokenHash]; ok {
		return t, nil
	}
	return repo.TokenRefresh{}, repo.ErrNotFound
}

func (s *stubRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	if t, ok := s.tokens[tokenHash]; ok {
		t.Revogado = true
		s.tokens[tokenHash] = t
	}
	return nil
}

func (s *stubRepo) InvalidateOtherRefreshTokens(ctx context.Context, usuarioID uuid.UUID, keepHash string) error {
	s.invalidados = append(s.invalidados, usuarioID)
	return nil
}

// stubRedis implementa redisCommander em memória.
type stubRedis struct {
	valores map[string]string
}

func newStubRedis() *stubRedis {
	return &stubRedis{valores: map[string]string{}}
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	s.valores[key] = value.(string)
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if v, ok := s.valores[key]; ok {
		cmd.SetVal(v)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(s.valores, k)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func (s *stubRedis) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := s.valores[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	s.valores[key] = value.(string)
	cmd.SetVal(true)
	return cmd
}

// stubMailer captura mensagens enviadas.
type stubMailer struct {
	enviadas []mailer.Message
}

func (s *stubMailer) Send(ctx context.Context, msg mailer.Message) error {
	s.enviadas = append(s.enviadas, msg)
	return nil
}

func newTestService(r *stubRepo, rd *stubRedis, mail *stubMailer) *AuthService {
	jwtMgr := auth.NewJWTManager(testSecret, 15*time.Minute)
	return NewAuthService(r, rd, jwtMgr, mail, 30*24*time.Hour, time.Hour, "https://app.local/reset")
}

func registrar(t *testing.T, svc *AuthService) PerfilUsuario {
	t.Helper()
	perfil, err := svc.Register(context.Background(), "ana", "ana@example.com", "senha-forte", "Ana Silva")
	require.NoError(t, err)
	return perfil
}

func TestRegister(t *testing.T) {
	r := newStubRepo()
	svc := newTestService(r, newStubRedis(), &stubMailer{})

	perfil := registrar(t, svc)
	assert.Equal(t, "ana", perfil.Username)
	assert.True(t, perfil.Ativo)
	assert.False(t, perfil.IsAdmin)
	assert.Equal(t, 1, r.criados)

	// a senha nunca fica em texto puro
	guardado := r.usuarios["ana"]
	assert.NotEqual(t, "senha-forte", guardado.SenhaHash)
	assert.True(t, strings.HasPrefix(guardado.SenhaHash, "$argon2id$"))
}

func TestRegisterNormalizaEntrada(t *testing.T) {
	r := newStubRepo()
	svc := newTestService(r, newStubRedis(), &stubMailer{})

	perfil, err := svc.Register(context.Background(), "  ANA2  ", " ANA2@Example.COM ", "senha-forte", " Ana ")
	require.NoError(t, err)
	assert.Equal(t, "ana2", perfil.Username)
	assert.Equal(t, "ana2@example.com", perfil.Email)
	assert.Equal(t, "Ana", perfil.NomeCompleto)
}

func TestRegisterDuplicado(t *testing.T) {
	r := newStubRepo()
	svc := newTestService(r, newStubRedis(), &stubMailer{})
	registrar(t, svc)

	_, err := svc.Register(context.Background(), "ana", "outro@example.com", "senha-forte", "Outra Ana")
	assert.ErrorIs(t, err, ErrUsernameEmUso)

	_, err = svc.Register(context.Background(), "outra", "ana@example.com", "senha-forte", "Outra Ana")
	assert.ErrorIs(t, err, ErrEmailEmUso)
}

func TestRegisterValidacoes(t *testing.T) {
	svc := newTestService(newStubRepo(), newStubRedis(), &stubMailer{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "ab", "a@example.com", "senha-forte", "A")
	assert.Error(t, err, "username curto demais")

	_, err = svc.Register(ctx, "valido", "sem-arroba", "senha-forte", "A")
	assert.Error(t, err, "email inválido")

	_, err = svc.Register(ctx, "valido", "a@example.com", "curta", "A")
	assert.Error(t, err, "senha curta")

	_, err = svc.Register(ctx, "valido", "a@example.com", "senha-forte", "  ")
	assert.Error(t, err, "nome vazio")
}

func TestLogin(t *testing.T) {
	r := newStubRepo()
	rd := newStubRedis()
	svc := newTestService(r, rd, &stubMailer{})
	registrar(t, svc)

	result, err := svc.Login(context.Background(), "ana", "senha-forte")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "ana", result.Profile.Username)

	// refresh persistido no banco e marcado como ativo no Redis
	assert.Len(t, r.tokens, 1)
	assert.Equal(t, "active", rd.valores[auth.RefreshRedisKey(result.RefreshHash)])

	claims, err := svc.JWT().ParseAndValidate(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username)
	assert.False(t, claims.Admin)
}

func TestLoginCredenciaisInvalidas(t *testing.T) {
	svc := newTestService(newStubRepo(), newStubRedis(), &stubMailer{})
	registrar(t, svc)

	_, err := svc.Login(context.Background(), "ana", "senha-errada")
	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)

	_, err = svc.Login(context.Background(), "inexistente", "senha-forte")
	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
}

func TestLoginContaDesativada(t *testing.T) {
	r := newStubRepo()
	svc := newTestService(r, newStubRedis(), &stubMailer{})
	perfil := registrar(t, svc)

	id := uuid.MustParse(perfil.ID)
	u := r.porID[id]
	u.Ativo = false
	r.add(u)

	_, err := svc.Login(context.Background(), "ana", "senha-forte")
	assert.ErrorIs(t, err, ErrContaDesativada)
}

func TestRefreshRotaciona(t *testing.T) {
	r := newStubRepo()
	rd := newStubRedis()
	svc := newTestService(r, rd, &stubMailer{})
	registrar(t, svc)

	primeiro, err := svc.Login(context.Background(), "ana", "senha-forte")
	require.NoError(t, err)

	segundo, err := svc.Refresh(context.Background(), primeiro.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, primeiro.RefreshToken, segundo.RefreshToken)

	// o token antigo não serve mais
	_, err = svc.Refresh(context.Background(), primeiro.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefreshInvalido(t *testing.T) {
	svc := newTestService(newStubRepo(), newStubRedis(), &stubMailer{})

	_, err := svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrRefreshInvalid)

	_, err = svc.Refresh(context.Background(), "token-desconhecido")
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestLogoutRevoga(t *testing.T) {
	r := newStubRepo()
	rd := newStubRedis()
	svc := newTestService(r, rd, &stubMailer{})
	registrar(t, svc)

	result, err := svc.Login(context.Background(), "ana", "senha-forte")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.RefreshToken))

	_, err = svc.Refresh(context.Background(), result.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestForgotPassword(t *testing.T) {
	r := newStubRepo()
	mail := &stubMailer{}
	svc := newTestService(r, newStubRedis(), mail)
	registrar(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ana@example.com"))
	require.Len(t, mail.enviadas, 1)
	assert.Equal(t, "ana@example.com", mail.enviadas[0].To)
	assert.Contains(t, mail.enviadas[0].Body, "https://app.local/reset?token=")
}

func TestForgotPasswordEmailDesconhecido(t *testing.T) {
	mail := &stubMailer{}
	svc := newTestService(newStubRepo(), newStubRedis(), mail)

	// sucesso silencioso: nada revela se o e-mail existe
	require.NoError(t, svc.ForgotPassword(context.Background(), "ninguem@example.com"))
	assert.Empty(t, mail.enviadas)
}

func TestResetPassword(t *testing.T) {
	r := newStubRepo()
	mail := &stubMailer{}
	svc := newTestService(r, newStubRedis(), mail)
	perfil := registrar(t, svc)

	token, _, err := svc.JWT().GenerateResetToken(perfil.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "nova-senha-forte"))

	id := uuid.MustParse(perfil.ID)
	assert.NotEmpty(t, r.senhas[id])
	// sessões antigas caem junto com a senha
	assert.Contains(t, r.invalidados, id)
}

func TestResetPasswordUsoUnico(t *testing.T) {
	svc := newTestService(newStubRepo(), newStubRedis(), &stubMailer{})
	perfil := registrar(t, svc)

	token, _, err := svc.JWT().GenerateResetToken(perfil.ID, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "nova-senha-forte"))

	err = svc.ResetPassword(context.Background(), token, "outra-senha-forte")
	assert.ErrorIs(t, err, ErrResetUsado)
}

func TestResetPasswordTokenInvalido(t *testing.T) {
	svc := newTestService(newStubRepo(), newStubRedis(), &stubMailer{})

	err := svc.ResetPassword(context.Background(), "token-quebrado", "nova-senha-forte")
	assert.ErrorIs(t, err, auth.ErrResetInvalid)
}

func TestResetPasswordExpirado(t *testing.T) {
	svc := newTestService(newStubRepo(), newStubRedis(), &stubMailer{})
	perfil := registrar(t, svc)

	token, _, err := svc.JWT().GenerateResetToken(perfil.ID, -time.Minute)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), token, "nova-senha-forte")
	assert.ErrorIs(t, err, auth.ErrResetExpired)
}

func TestResetPasswordSenhaFraca(t *testing.T) {
	svc := newTestService(newStubRepo(), newStubRedis(), &stubMailer{})
	perfil := registrar(t, svc)

	token, _, err := svc.JWT().GenerateResetToken(perfil.ID, time.Hour)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), token, "curta")
	assert.Error(t, err)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/guardiaotartarugas/api/internal/auth"
	"github.com/guardiaotartarugas/api/internal/config"
	"github.com/guardiaotartarugas/api/internal/contato"
	httpmiddleware "github.com/guardiaotartarugas/api/internal/http/middleware"
	"github.com/guardiaotartarugas/api/internal/mailer"
	"github.com/guardiaotartarugas/api/internal/ninho"
	"github.com/guardiaotartarugas/api/internal/ranking"
	"github.com/guardiaotartarugas/api/internal/relatorio"
	"github.com/guardiaotartarugas/api/internal/repo"
	"github.com/guardiaotartarugas/api/internal/service"
	"github.com/guardiaotartarugas/api/internal/storage"
	"github.com/guardiaotartarugas/api/internal/upload"
)

type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	authService   *service.AuthService
	usuarios      *repo.Queries
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
	devCookies    bool
}

// Deps agrupa as dependências externas do roteador.
type Deps struct {
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Auth     *service.AuthService
	Mailer   mailer.Mailer
	Uploader storage.Uploader
	Local    *storage.LocalUploader
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	devCookies := false
	for _, origin := range cfg.AllowOrigins {
		if strings.Contains(origin, "localhost") {
			devCookies = true
			break
		}
	}

	h := &Handler{
		cfg:           cfg,
		pool:          deps.Pool,
		redis:         deps.Redis,
		authService:   deps.Auth,
		usuarios:      repo.New(deps.Pool),
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
		devCookies:    devCookies,
	}

	ninhoRepo := ninho.NewRepository(deps.Pool)
	ninhoService := ninho.NewService(ninhoRepo)
	ninhoHandler := ninho.NewHandler(ninhoService)

	rankingRepo := ranking.NewRepository(deps.Pool)
	rankingService := ranking.NewService(rankingRepo)
	rankingHandler := ranking.NewHandler(rankingService)

	relatorioHandler := relatorio.NewHandler(ninhoService)

	contatoService := contato.NewService(deps.Mailer, cfg.Mail.ContactTo)
	contatoHandler := contato.NewHandler(contatoService)

	uploadHandler := upload.NewHandler(deps.Uploader, cfg.MaxUploadBytes)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Register)
			auth.Post("/login", h.Login)
			auth.Post("/refresh", h.Refresh)
			auth.Post("/logout", h.Logout)
			auth.Post("/forgot-password", h.ForgotPassword)
			auth.Post("/reset-password", h.ResetPassword)
		})

		contato.Mount(public, contatoHandler)

		if deps.Local != nil {
			serveHandler := upload.NewServeHandler(deps.Local)
			serveHandler.RegisterRoutes(public)
		}
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(deps.Auth.JWT()))
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Get("/me", h.Me)

		ninho.Mount(private, ninhoHandler)
		ranking.Mount(private, rankingHandler)
		uploadHandler.RegisterRoutes(private)

		private.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin)

			admin.Route("/admin", func(a chi.Router) {
				a.Get("/usuarios", h.ListUsuarios)
				a.Put("/usuarios/{id}", h.UpdateUsuario)
				a.Delete("/usuarios/{id}", h.DeleteUsuario)
			})

			relatorio.Mount(admin, relatorioHandler)
		})
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	redisErr := h.redis.Ping(ctx).Err()

	if dbErr != nil || redisErr != nil {
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependências indisponíveis", map[string]any{
			"db":    errorString(dbErr),
			"redis": errorString(redisErr),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Register cadastra um novo voluntário.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username     string `json:"username"`
		Email        string `json:"email"`
		Senha        string `json:"password"`
		NomeCompleto string `json:"nome_completo"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	profile, err := h.authService.Register(r.Context(), payload.Username, payload.Email, payload.Senha, payload.NomeCompleto)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameEmUso), errors.Is(err, service.ErrEmailEmUso):
			WriteError(w, http.StatusConflict, "VALIDATION", err.Error(), nil)
		case errors.Is(err, service.ErrValidacao):
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		default:
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível concluir o cadastro", nil)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"user": profile})
}

// Login autentica voluntário por username e senha.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Senha    string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if strings.TrimSpace(payload.Username) == "" || strings.TrimSpace(payload.Senha) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "username e senha são obrigatórios", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Username, payload.Senha)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Refresh rotaciona sessão a partir do cookie de refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := getRefreshFromRequest(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "refresh ausente", nil)
		return
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrRefreshInvalid) || errors.Is(err, service.ErrContaDesativada) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "refresh inválido", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro ao renovar sessão", nil)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Logout revoga o refresh token atual.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, err := getRefreshFromRequest(r); err == nil {
		_ = h.authService.Logout(r.Context(), token)
	}

	h.clearRefreshCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// ForgotPassword dispara e-mail de redefinição quando o endereço existe.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if strings.TrimSpace(payload.Email) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "email é obrigatório", nil)
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), payload.Email); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível enviar o e-mail", nil)
		return
	}

	// Resposta idêntica para e-mails conhecidos e desconhecidos.
	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Se o e-mail estiver cadastrado, você receberá um link de redefinição.",
	})
}

// ResetPassword troca a senha a partir de um token de redefinição.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token string `json:"token"`
		Senha string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if strings.TrimSpace(payload.Token) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "token é obrigatório", nil)
		return
	}

	err := h.authService.ResetPassword(r.Context(), payload.Token, payload.Senha)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, map[string]string{"message": "Senha redefinida com sucesso."})
	case errors.Is(err, auth.ErrResetExpired):
		WriteError(w, http.StatusBadRequest, "VALIDATION", "link de redefinição expirado", nil)
	case errors.Is(err, auth.ErrResetInvalid):
		WriteError(w, http.StatusBadRequest, "VALIDATION", "link de redefinição inválido", nil)
	case errors.Is(err, service.ErrResetUsado), errors.Is(err, service.ErrValidacao):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível redefinir a senha", nil)
	}
}

// Me retorna informações do usuário autenticado.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject inválido", nil)
		return
	}

	profile, err := h.authService.GetMe(r.Context(), subject)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar perfil", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": profile})
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCredenciaisInvalidas):
		WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)
	case errors.Is(err, service.ErrContaDesativada):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro ao autenticar", nil)
	}
}

func (h *Handler) writeLoginSuccess(w http.ResponseWriter, result *service.LoginResult) {
	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiry)

	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": result.AccessToken,
		"user":         result.Profile,
	})
}

func (h *Handler) subjectUUID(r *http.Request) (uuid.UUID, error) {
	subjectStr := httpmiddleware.GetSubject(r.Context())
	if strings.TrimSpace(subjectStr) == "" {
		return uuid.Nil, errors.New("subject ausente")
	}
	return uuid.Parse(subjectStr)
}

const refreshCookieName = "refresh_token"

func getRefreshFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errors.New("refresh ausente")
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string, expires time.Time) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

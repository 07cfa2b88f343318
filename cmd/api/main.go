package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/guardiaotartarugas/api/internal/auth"
	"github.com/guardiaotartarugas/api/internal/config"
	"github.com/guardiaotartarugas/api/internal/db"
	internalhttp "github.com/guardiaotartarugas/api/internal/http"
	"github.com/guardiaotartarugas/api/internal/mailer"
	"github.com/guardiaotartarugas/api/internal/repo"
	"github.com/guardiaotartarugas/api/internal/service"
	"github.com/guardiaotartarugas/api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	if err := db.Migrate(ctx, cfg.DBDSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var mail mailer.Mailer = mailer.NoopMailer{}
	if cfg.Mail.Enabled() {
		smtp, err := mailer.NewSMTPMailer(cfg.Mail)
		if err != nil {
			return fmt.Errorf("mailer: %w", err)
		}
		mail = smtp
	} else {
		log.Warn().Msg("SMTP não configurado; e-mails serão descartados")
	}

	var uploader storage.Uploader = storage.NoopUploader{}
	var local *storage.LocalUploader
	switch cfg.Storage.Provider {
	case "", "local":
		local, err = storage.NewLocalUploader(cfg.Storage.UploadDir)
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		uploader = local
	case "s3", "minio":
		s3Uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			PublicURL: cfg.Storage.S3PublicURL,
		})
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		uploader = s3Uploader
	case "noop":
		// mantém uploader padrão
	default:
		return fmt.Errorf("storage: provedor %s não suportado", cfg.Storage.Provider)
	}

	repository := repo.New(pool)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	authService := service.NewAuthService(repository, redisClient, jwtManager, mail, cfg.JWTRefreshTTL, cfg.ResetTokenTTL, cfg.Mail.ResetURL)

	handler := internalhttp.NewRouter(cfg, internalhttp.Deps{
		Pool:     pool,
		Redis:    redisClient,
		Auth:     authService,
		Mailer:   mail,
		Uploader: uploader,
		Local:    local,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

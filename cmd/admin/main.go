package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/guardiaotartarugas/api/internal/db"
	"github.com/guardiaotartarugas/api/internal/repo"
)

// Ferramenta de linha de comando para promover e rebaixar administradores.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	ctx := context.Background()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		log.Fatal().Msg("defina DB_DSN ou DATABASE_URL")
	}

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível conectar ao banco")
	}
	defer pool.Close()

	queries := repo.New(pool)
	cmd := os.Args[1]
	username := strings.ToLower(strings.TrimSpace(os.Args[2]))

	var admin bool
	switch cmd {
	case "promote":
		admin = true
	case "demote":
		admin = false
	default:
		usage()
		os.Exit(1)
	}

	user, err := queries.GetUsuarioByUsername(ctx, username)
	if err != nil {
		log.Fatal().Err(err).Str("username", username).Msg("usuário não encontrado")
	}

	if _, err := queries.UpdateUsuarioFlags(ctx, user.ID, nil, &admin); err != nil {
		log.Fatal().Err(err).Msg("não foi possível atualizar usuário")
	}

	log.Info().Str("username", username).Bool("is_admin", admin).Msg("usuário atualizado")
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <promote|demote> <username>")
}

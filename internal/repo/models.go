package repo

import (
	"time"

	"github.com/google/uuid"
)

// Usuario representa um voluntário cadastrado no sistema.
type Usuario struct {
	ID           uuid.UUID
	Username     string
	Email        string
	SenhaHash    string
	NomeCompleto string
	Ativo        bool
	IsAdmin      bool
	CriadoEm     time.Time
}

// TokenRefresh modela a tabela de refresh tokens.
type TokenRefresh struct {
	ID        uuid.UUID
	UsuarioID uuid.UUID
	TokenHash string
	Expiracao time.Time
	Revogado  bool
	CriadoEm  time.Time
}

// InsertRefreshTokenParams agrupa campos para persistir um refresh token.
type InsertRefreshTokenParams struct {
	UsuarioID uuid.UUID
	TokenHash string
	Expiracao time.Time
}

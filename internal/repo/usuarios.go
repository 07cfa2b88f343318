package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const usuarioColumns = `id, username, email, senha_hash, nome_completo, ativo, is_admin, criado_em`

// Queries provê acesso às tabelas de usuários e refresh tokens.
type Queries struct {
	pool *pgxpool.Pool
}

// New cria o repositório sobre o pool informado.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// CreateUsuario insere um novo voluntário.
func (q *Queries) CreateUsuario(ctx context.Context, username, email, senhaHash, nomeCompleto string) (Usuario, error) {
	query := `
        INSERT INTO usuarios (username, email, senha_hash, nome_completo)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + usuarioColumns

	row := q.pool.QueryRow(ctx, query, username, strings.ToLower(email), senhaHash, nomeCompleto)
	return scanUsuario(row)
}

// GetUsuarioByID busca usuário pelo identificador.
func (q *Queries) GetUsuarioByID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE id = $1`
	return scanUsuario(q.pool.QueryRow(ctx, query, id))
}

// GetUsuarioByUsername busca usuário pelo username.
func (q *Queries) GetUsuarioByUsername(ctx context.Context, username string) (Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE username = $1`
	return scanUsuario(q.pool.QueryRow(ctx, query, username))
}

// GetUsuarioByEmail busca usuário pelo e-mail normalizado.
func (q *Queries) GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios WHERE email = $1`
	return scanUsuario(q.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

// ListUsuarios devolve todos os usuários ordenados por data de criação.
func (q *Queries) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	query := `SELECT ` + usuarioColumns + ` FROM usuarios ORDER BY criado_em ASC, id ASC`

	rows, err := q.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}

// UpdateUsuarioFlags altera os campos ativo e is_admin.
func (q *Queries) UpdateUsuarioFlags(ctx context.Context, id uuid.UUID, ativo, isAdmin *bool) (Usuario, error) {
	query := `
        UPDATE usuarios
        SET ativo = COALESCE($2, ativo), is_admin = COALESCE($3, is_admin)
        WHERE id = $1
        RETURNING ` + usuarioColumns

	return scanUsuario(q.pool.QueryRow(ctx, query, id, ativo, isAdmin))
}

// UpdateSenha troca o hash de senha do usuário.
func (q *Queries) UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string) error {
	cmd, err := q.pool.Exec(ctx, `UPDATE usuarios SET senha_hash = $2 WHERE id = $1`, id, senhaHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUsuario remove o usuário; os ninhos caem junto via ON DELETE CASCADE.
func (q *Queries) DeleteUsuario(ctx context.Context, id uuid.UUID) error {
	cmd, err := q.pool.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertRefreshToken persiste um novo refresh token.
func (q *Queries) InsertRefreshToken(ctx context.Context, arg InsertRefreshTokenParams) (TokenRefresh, error) {
	query := `
        INSERT INTO tokens_refresh (usuario_id, token_hash, expiracao)
        VALUES ($1, $2, $3)
        RETURNING id, usuario_id, token_hash, expiracao, revogado, criado_em`

	var t TokenRefresh
	err := q.pool.QueryRow(ctx, query, arg.UsuarioID, arg.TokenHash, arg.Expiracao).
		Scan(&t.ID, &t.UsuarioID, &t.TokenHash, &t.Expiracao, &t.Revogado, &t.CriadoEm)
	return t, err
}

// GetRefreshTokenByHash localiza refresh token pelo hash.
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (TokenRefresh, error) {
	query := `
        SELECT id, usuario_id, token_hash, expiracao, revogado, criado_em
        FROM tokens_refresh
        WHERE token_hash = $1`

	var t TokenRefresh
	err := q.pool.QueryRow(ctx, query, tokenHash).
		Scan(&t.ID, &t.UsuarioID, &t.TokenHash, &t.Expiracao, &t.Revogado, &t.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return TokenRefresh{}, ErrNotFound
	}
	return t, err
}

// RevokeRefreshToken marca o token como revogado.
func (q *Queries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := q.pool.Exec(ctx, `UPDATE tokens_refresh SET revogado = TRUE WHERE token_hash = $1`, tokenHash)
	return err
}

// InvalidateOtherRefreshTokens revoga todos os tokens do usuário exceto o atual.
func (q *Queries) InvalidateOtherRefreshTokens(ctx context.Context, usuarioID uuid.UUID, keepHash string) error {
	_, err := q.pool.Exec(ctx,
		`UPDATE tokens_refresh SET revogado = TRUE WHERE usuario_id = $1 AND token_hash <> $2`,
		usuarioID, keepHash)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUsuario(row rowScanner) (Usuario, error) {
	var u Usuario
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.SenhaHash, &u.NomeCompleto, &u.Ativo, &u.IsAdmin, &u.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Usuario{}, ErrNotFound
	}
	return u, err
}

package ranking

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provê as consultas usadas pelo ranking.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListPontuaveis devolve os ninhos elegíveis ao ranking: apenas donos ativos
// (inner join, usuários sem ninho qualificado nunca aparecem) e, quando
// desde != nil, apenas registros a partir daquele instante.
func (r *Repository) ListPontuaveis(ctx context.Context, desde *time.Time) ([]NinhoPontuavel, error) {
	query := `
        SELECT u.id, u.username, u.nome_completo, n.risco, n.foto_path IS NOT NULL
        FROM ninhos n
        JOIN usuarios u ON u.id = n.usuario_id
        WHERE u.ativo`
	args := []any{}
	if desde != nil {
		query += ` AND n.data_registro >= $1`
		args = append(args, *desde)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var itens []NinhoPontuavel
	for rows.Next() {
		var item NinhoPontuavel
		if err := rows.Scan(&item.UsuarioID, &item.Username, &item.NomeCompleto, &item.Risco, &item.TemFoto); err != nil {
			return nil, err
		}
		itens = append(itens, item)
	}
	return itens, rows.Err()
}

// CountUsuariosAtivos conta contas habilitadas a participar.
func (r *Repository) CountUsuariosAtivos(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios WHERE ativo`).Scan(&total)
	return total, err
}

// CountNinhos conta todos os ninhos catalogados.
func (r *Repository) CountNinhos(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ninhos`).Scan(&total)
	return total, err
}

// TopRegioes devolve as regiões com mais ninhos, desempate por nome.
func (r *Repository) TopRegioes(ctx context.Context, limit int) ([]RegiaoContagem, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT regiao, COUNT(*) AS total
        FROM ninhos
        GROUP BY regiao
        ORDER BY total DESC, regiao ASC
        LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regioes []RegiaoContagem
	for rows.Next() {
		var rc RegiaoContagem
		if err := rows.Scan(&rc.Regiao, &rc.TotalNinhos); err != nil {
			return nil, err
		}
		regioes = append(regioes, rc)
	}
	return regioes, rows.Err()
}

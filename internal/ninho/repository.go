package ninho

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ninhoColumns = `id, regiao, quantidade_ovos, status, risco, dias_para_eclosao,
        predadores, latitude, longitude, foto_path, data_registro, usuario_id`

// Repository provê acesso à tabela de ninhos.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create insere um novo ninho; data_registro é definida pelo banco e imutável.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Ninho, error) {
	query := `
        INSERT INTO ninhos (regiao, quantidade_ovos, status, risco, dias_para_eclosao,
            predadores, latitude, longitude, foto_path, usuario_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + ninhoColumns

	row := r.pool.QueryRow(ctx, query,
		input.Regiao, input.QuantidadeOvos, input.Status, input.Risco, input.DiasParaEclosao,
		input.Predadores, input.Latitude, input.Longitude, input.FotoPath, input.UsuarioID)

	n, err := scanNinho(row)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUsuario devolve os ninhos do usuário, do mais recente ao mais antigo.
func (r *Repository) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]Ninho, error) {
	query := `SELECT ` + ninhoColumns + ` FROM ninhos WHERE usuario_id = $1 ORDER BY data_registro DESC, id ASC`

	rows, err := r.pool.Query(ctx, query, usuarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ninhos []Ninho
	for rows.Next() {
		n, err := scanNinho(rows)
		if err != nil {
			return nil, err
		}
		ninhos = append(ninhos, n)
	}
	return ninhos, rows.Err()
}

// ListAllComDono devolve todos os ninhos com o nome do voluntário (relatórios).
func (r *Repository) ListAllComDono(ctx context.Context) ([]NinhoComDono, error) {
	query := `
        SELECT n.id, n.regiao, n.quantidade_ovos, n.status, n.risco, n.dias_para_eclosao,
               n.predadores, n.latitude, n.longitude, n.foto_path, n.data_registro, n.usuario_id,
               u.nome_completo
        FROM ninhos n
        JOIN usuarios u ON u.id = n.usuario_id
        ORDER BY n.data_registro DESC, n.id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []NinhoComDono
	for rows.Next() {
		var item NinhoComDono
		if err := rows.Scan(
			&item.ID, &item.Regiao, &item.QuantidadeOvos, &item.Status, &item.Risco,
			&item.DiasParaEclosao, &item.Predadores, &item.Latitude, &item.Longitude,
			&item.FotoPath, &item.DataRegistro, &item.UsuarioID, &item.UsuarioNome,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// Estatisticas calcula os agregados sobre toda a tabela, sem filtros de
// período ou de atividade do dono.
func (r *Repository) Estatisticas(ctx context.Context) (*Estatisticas, error) {
	var bruto estatisticasBrutas

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ninhos`).Scan(&bruto.total); err != nil {
		return nil, err
	}

	bruto.porStatus = make(map[string]int64)
	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM ninhos GROUP BY status`, bruto.porStatus); err != nil {
		return nil, err
	}
	bruto.porRisco = make(map[string]int64)
	if err := r.groupCount(ctx, `SELECT risco, COUNT(*) FROM ninhos GROUP BY risco`, bruto.porRisco); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ninhos WHERE dias_para_eclosao <= $1`, DiasEclosaoIminente,
	).Scan(&bruto.prestesEclodir); err != nil {
		return nil, err
	}

	// COALESCE cobre o caso sem ninhos críticos: média definida como 0.
	if err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(quantidade_ovos), 0) FROM ninhos WHERE risco = $1`, RiscoCritico,
	).Scan(&bruto.mediaOvosCritico); err != nil {
		return nil, err
	}

	// Desempate determinístico: maior contagem primeiro, depois regiao ASC.
	var regiao string
	err := r.pool.QueryRow(ctx, `
        SELECT regiao FROM ninhos
        WHERE risco = $1
        GROUP BY regiao
        ORDER BY COUNT(*) DESC, regiao ASC
        LIMIT 1`, RiscoCritico,
	).Scan(&regiao)
	switch {
	case err == nil:
		bruto.regiaoMaisCriticos = &regiao
	case errors.Is(err, pgx.ErrNoRows):
		// sem ninhos críticos
	default:
		return nil, err
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ninhos WHERE predadores AND status = $1`, StatusDanificado,
	).Scan(&bruto.predadoresDanificados); err != nil {
		return nil, err
	}

	return montarEstatisticas(bruto), nil
}

func (r *Repository) groupCount(ctx context.Context, query string, dest map[string]int64) error {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dest[key] = count
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNinho(row rowScanner) (Ninho, error) {
	var n Ninho
	err := row.Scan(
		&n.ID, &n.Regiao, &n.QuantidadeOvos, &n.Status, &n.Risco, &n.DiasParaEclosao,
		&n.Predadores, &n.Latitude, &n.Longitude, &n.FotoPath, &n.DataRegistro, &n.UsuarioID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ninho{}, ErrNotFound
	}
	return n, err
}

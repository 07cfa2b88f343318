package relatorio

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/guardiaotartarugas/api/internal/ninho"
)

func amostra() []ninho.NinhoComDono {
	lat, lon := -12.5789, -38.0021
	foto := "uploads/abc.jpg"
	return []ninho.NinhoComDono{
		{
			Ninho: ninho.Ninho{
				ID:              uuid.MustParse("0b9fa5a4-93d2-4e62-8f34-6f1d24a5c111"),
				Regiao:          "Praia do Forte",
				QuantidadeOvos:  102,
				Status:          ninho.StatusDanificado,
				Risco:           ninho.RiscoCritico,
				DiasParaEclosao: 3,
				Predadores:      true,
				Latitude:        &lat,
				Longitude:       &lon,
				FotoPath:        &foto,
				DataRegistro:    time.Date(2026, time.February, 7, 14, 5, 0, 0, time.UTC),
				UsuarioID:       uuid.MustParse("57c1f4a0-21f7-4ba5-9c9d-3f7a1e4b2222"),
			},
			UsuarioNome: "Ana Silva",
		},
		{
			Ninho: ninho.Ninho{
				ID:           uuid.New(),
				Regiao:       "Costa do Sauípe",
				Status:       ninho.StatusEstavel,
				Risco:        ninho.RiscoEstavel,
				DataRegistro: time.Date(2026, time.February, 8, 9, 0, 0, 0, time.UTC),
				UsuarioID:    uuid.New(),
			},
			UsuarioNome: "Bruno Souza",
		},
	}
}

func TestExportCSV(t *testing.T) {
	out, err := ExportCSV(amostra())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, cabecalho, rows[0])

	primeiro := rows[1]
	assert.Equal(t, "Praia do Forte", primeiro[1])
	assert.Equal(t, "102", primeiro[2])
	assert.Equal(t, "Sim", primeiro[6])
	assert.Equal(t, "-12.5789", primeiro[7])
	assert.Equal(t, "-38.0021", primeiro[8])
	assert.Equal(t, "2026-02-07 14:05", primeiro[9])
	assert.Equal(t, "Ana Silva", primeiro[11])

	segundo := rows[2]
	assert.Equal(t, "Não", segundo[6])
	// coordenadas ausentes viram células vazias
	assert.Equal(t, "", segundo[7])
	assert.Equal(t, "", segundo[8])
}

func TestExportCSVVazio(t *testing.T) {
	out, err := ExportCSV(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, cabecalho, rows[0])
}

func TestExportXLSX(t *testing.T) {
	out, err := ExportXLSX(amostra())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, cabecalho, rows[0])
	assert.Equal(t, "Praia do Forte", rows[1][1])
	assert.Equal(t, "Sim", rows[1][6])
	assert.Equal(t, "Bruno Souza", rows[2][11])
}

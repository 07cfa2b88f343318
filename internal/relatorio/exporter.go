package relatorio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/guardiaotartarugas/api/internal/ninho"
)

const (
	// FormatoXLSX e FormatoCSV são os formatos aceitos na exportação.
	FormatoXLSX = "xlsx"
	FormatoCSV  = "csv"

	sheetName       = "Relatorio de Ninhos"
	dataRegistroFmt = "2006-01-02 15:04"
)

// cabecalho fixa a ordem das colunas do relatório.
var cabecalho = []string{
	"ID Ninho", "Região", "Qtd Ovos", "Status", "Risco",
	"Dias para Eclosão", "Predadores", "Latitude", "Longitude",
	"Data Registro", "ID Voluntário", "Nome Voluntário",
}

// linha converte um ninho para as células do relatório.
func linha(n ninho.NinhoComDono) []string {
	predadores := "Não"
	if n.Predadores {
		predadores = "Sim"
	}

	lat, lon := "", ""
	if n.Latitude != nil {
		lat = strconv.FormatFloat(*n.Latitude, 'f', -1, 64)
	}
	if n.Longitude != nil {
		lon = strconv.FormatFloat(*n.Longitude, 'f', -1, 64)
	}

	return []string{
		n.ID.String(),
		n.Regiao,
		strconv.Itoa(n.QuantidadeOvos),
		n.Status,
		n.Risco,
		strconv.Itoa(n.DiasParaEclosao),
		predadores,
		lat,
		lon,
		n.DataRegistro.Format(dataRegistroFmt),
		n.UsuarioID.String(),
		n.UsuarioNome,
	}
}

// ExportCSV serializa os ninhos em CSV com o cabeçalho padrão.
func ExportCSV(ninhos []ninho.NinhoComDono) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(cabecalho); err != nil {
		return nil, err
	}
	for _, n := range ninhos {
		if err := writer.Write(linha(n)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX gera uma planilha Excel com os mesmos dados e ordem do CSV.
func ExportXLSX(ninhos []ninho.NinhoComDono) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	writeRow := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheetName, cell, &row)
	}

	if err := writeRow(1, cabecalho); err != nil {
		return nil, err
	}
	for i, n := range ninhos {
		if err := writeRow(i+2, linha(n)); err != nil {
			return nil, fmt.Errorf("linha %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

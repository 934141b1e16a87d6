package ingestion

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/credittrack/internal/domain"
)

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadTable_Excel(t *testing.T) {
	data := workbook(t,
		[]any{"Date comité", "Commune", "Crédit accordé", "N° dossier"},
		[]any{45366, "Parakou", 1500000.5, "D-001"},
		[]any{nil, nil, nil, nil},
		[]any{"15/03/2024", "Cotonou", "n/a", "D-002"},
	)

	table, err := ReadTable("comite.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date comité", "Commune", "Crédit accordé", "N° dossier"}, table.Headers)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, domain.KindNumber, first.Values["Date comité"].Kind)
	assert.Equal(t, "45366", first.Values["Date comité"].Number.String())
	assert.Equal(t, domain.KindNumber, first.Values["Crédit accordé"].Kind)
	assert.Equal(t, domain.TextValue("Parakou"), first.Values["Commune"])

	second := table.Rows[1]
	assert.Equal(t, 4, second.Line)
	assert.Equal(t, domain.TextValue("15/03/2024"), second.Values["Date comité"])
	_, granted := second.Values["Crédit accordé"]
	assert.False(t, granted)
}

func TestReadTable_ExcelDetectedBySignature(t *testing.T) {
	data := workbook(t,
		[]any{"Commune"},
		[]any{"Parakou"},
	)

	table, err := ReadTable("upload", data)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestReadTable_CSV(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(
		"\n"+
			"Commune,  Crédit accordé,Commune,,Statut\n"+
			"Parakou,1 500 000,Cotonou,x,NaN\n"+
			",,,,\n"+
			"Cotonou,-,,,Validé\n")...)

	table, err := ReadTable("comite.CSV", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Commune", "Crédit accordé", "Statut"}, table.Headers)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, 3, first.Line)
	assert.Equal(t, domain.TextValue("Parakou"), first.Values["Commune"])
	assert.Equal(t, domain.TextValue("1 500 000"), first.Values["Crédit accordé"])
	_, status := first.Values["Statut"]
	assert.False(t, status)

	second := table.Rows[1]
	assert.Equal(t, 5, second.Line)
	assert.Len(t, second.Values, 2)
	assert.Equal(t, domain.TextValue("Validé"), second.Values["Statut"])
}

func TestReadTable_SemicolonCSV(t *testing.T) {
	data := []byte("Commune;Crédit accordé;Statut\n" +
		"Parakou;1 500 000,50;\"Validé; sous réserve\"\n")

	table, err := ReadTable("export.csv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Commune", "Crédit accordé", "Statut"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, domain.TextValue("1 500 000,50"), table.Rows[0].Values["Crédit accordé"])
	assert.Equal(t, domain.TextValue("Validé; sous réserve"), table.Rows[0].Values["Statut"])
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		head string
		want rune
	}{
		{"Commune,PDA,Filière\n", ','},
		{"Commune;PDA;Filière\n", ';'},
		{"\n\nCommune;PDA\nParakou,1,2,3\n", ';'},
		{"\"Commune;Ville\",PDA\n", ','},
		{"Commune\n", ','},
		{"", ','},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sniffDelimiter([]byte(tt.head)), "head %q", tt.head)
	}
}

func TestReadTable_ShortRowsArePadded(t *testing.T) {
	table, err := ReadTable("a.csv", []byte("Commune,PDA,Filière\nParakou\n"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Len(t, table.Rows[0].Values, 1)
}

func TestReadTable_Malformed(t *testing.T) {
	cases := []struct {
		name     string
		fileName string
		data     []byte
		reason   string
	}{
		{"empty", "a.csv", nil, "file is empty"},
		{"header only", "a.csv", []byte("Commune,PDA\n"), "no data rows"},
		{"blank rows only", "a.csv", []byte(",,\n ,\n"), "header row"},
		{"unsupported", "notes.pdf", []byte("%PDF-1.4"), "expected an .xlsx or .csv file"},
		{"corrupt workbook", "a.xlsx", []byte("not a zip"), "cannot read table"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadTable(tc.fileName, tc.data)
			var malformed *domain.MalformedInputError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tc.fileName, malformed.FileName)
			assert.Contains(t, malformed.Error(), tc.reason)
			assert.Equal(t, 400, domain.HTTPStatus(err))
		})
	}
}

func TestReadTable_UnsupportedFormatSentinel(t *testing.T) {
	_, err := ReadTable("photo.png", bytes.Repeat([]byte{0x89}, 8))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCellValue_OutOfRangeNumberStaysText(t *testing.T) {
	assert.Equal(t, domain.TextValue("1E+400000"), cellValue(" 1E+400000 ", true))
	assert.Equal(t, domain.KindNumber, cellValue("45366", true).Kind)
}

package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/credittrack/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
	zipMagic      = []byte("PK\x03\x04")

	// Cell spellings that mean "no value" in the historical sheets.
	absentSentinels = map[string]struct{}{
		"nan":  {},
		"null": {},
		"none": {},
		"n/a":  {},
		"#n/a": {},
		"-":    {},
	}
)

type rawRow struct {
	line  int
	cells []string
}

// ReadTable decodes an upload into its header labels and data rows. Spreadsheet
// cells that hold numbers keep them as numbers, CSV cells stay text, and blank
// or sentinel cells are absent.
func ReadTable(fileName string, payload []byte) (domain.Table, error) {
	if len(payload) == 0 {
		return domain.Table{}, &domain.MalformedInputError{FileName: fileName, Reason: "file is empty"}
	}

	var (
		rows    []rawRow
		numeric bool
		err     error
	)
	switch detectFormat(fileName, payload) {
	case formatCSV:
		rows, err = parseCSV(payload)
	case formatExcel:
		rows, err = parseExcel(payload)
		numeric = true
	default:
		return domain.Table{}, &domain.MalformedInputError{
			FileName: fileName,
			Reason:   "expected an .xlsx or .csv file",
			Err:      ErrUnsupportedFormat,
		}
	}
	if err != nil {
		return domain.Table{}, &domain.MalformedInputError{FileName: fileName, Reason: "cannot read table", Err: err}
	}

	table, err := normalizeTable(rows, numeric)
	if err != nil {
		return domain.Table{}, &domain.MalformedInputError{FileName: fileName, Reason: err.Error()}
	}
	return table, nil
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatCSV
	formatExcel
)

func detectFormat(fileName string, payload []byte) fileFormat {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return formatCSV
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return formatExcel
	}
	if bytes.HasPrefix(payload, zipMagic) {
		return formatExcel
	}
	return formatUnknown
}

func parseCSV(payload []byte) ([]rawRow, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	if head, _ := reader.Peek(reader.Size()); len(head) > 0 {
		csvReader.Comma = sniffDelimiter(head)
	}
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	var rows []rawRow
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := csvReader.FieldPos(0)
		rows = append(rows, rawRow{line: line, cells: record})
	}
	return rows, nil
}

// sniffDelimiter picks ';' when the first non-blank line has more unquoted
// semicolons than commas. French locale exports use ';' because ',' is the
// decimal separator.
func sniffDelimiter(head []byte) rune {
	for _, line := range bytes.Split(head, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var commas, semicolons int
		quoted := false
		for _, b := range line {
			switch {
			case b == '"':
				quoted = !quoted
			case quoted:
			case b == ',':
				commas++
			case b == ';':
				semicolons++
			}
		}
		if semicolons > commas {
			return ';'
		}
		return ','
	}
	return ','
}

func parseExcel(payload []byte) ([]rawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	// Raw values keep date cells as their serial day numbers.
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows := make([]rawRow, 0, len(records))
	for idx, record := range records {
		rows = append(rows, rawRow{line: idx + 1, cells: record})
	}
	return rows, nil
}

// normalizeTable takes the first non-blank row as the header. Columns with an
// empty or repeated label are dropped along with their cells.
func normalizeTable(rows []rawRow, numeric bool) (domain.Table, error) {
	if len(rows) == 0 {
		return domain.Table{}, errors.New("no rows found in file")
	}

	headerIdx := -1
	for idx, row := range rows {
		if len(cleanRow(row.cells)) > 0 {
			headerIdx = idx
			break
		}
	}
	if headerIdx < 0 {
		return domain.Table{}, errors.New("header row could not be detected")
	}

	headerRow := rows[headerIdx].cells
	columns := make([]int, 0, len(headerRow))
	headers := make([]string, 0, len(headerRow))
	seen := make(map[string]struct{}, len(headerRow))
	for col, cell := range headerRow {
		label := strings.TrimSpace(cell)
		key := domain.NormalizeLabel(label)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		columns = append(columns, col)
		headers = append(headers, label)
	}

	table := domain.Table{Headers: headers}
	for _, row := range rows[headerIdx+1:] {
		cells := padRow(row.cells, len(headerRow))
		values := make(map[string]domain.Value, len(columns))
		for i, col := range columns {
			if v := cellValue(cells[col], numeric); !v.IsAbsent() {
				values[headers[i]] = v
			}
		}
		if len(values) == 0 {
			continue
		}
		table.Rows = append(table.Rows, domain.Row{Line: row.line, Values: values})
	}

	if len(table.Rows) == 0 {
		return domain.Table{}, errors.New("file contains no data rows")
	}
	return table, nil
}

func cellValue(raw string, numeric bool) domain.Value {
	text := strings.TrimSpace(raw)
	if isAbsentText(text) {
		return domain.Absent()
	}
	if numeric {
		if n, err := decimal.NewFromString(text); err == nil && numericInRange(n) {
			return domain.NumberValue(n, text)
		}
	}
	return domain.TextValue(text)
}

func isAbsentText(text string) bool {
	if text == "" {
		return true
	}
	_, ok := absentSentinels[strings.ToLower(text)]
	return ok
}

func cleanRow(row []string) []string {
	var cleaned []string
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			cleaned = append(cleaned, cell)
		}
	}
	return cleaned
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

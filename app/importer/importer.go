// Package importer turns uploaded CSV and XLSX payloads into header-keyed
// rows and produces empty import templates.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a supported upload format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Columns is the header row of an import file, in template order.
var Columns = []string{"Name", "Description", "Sku", "Price", "Stock", "CategoryId"}

var (
	// ErrNoSheets is returned for a workbook without worksheets.
	ErrNoSheets = errors.New("workbook has no sheets")
	// ErrFormatMismatch is returned when the content does not match the
	// declared format.
	ErrFormatMismatch = errors.New("file content does not match its extension")
)

// zipMagic prefixes every XLSX (OOXML) file.
var zipMagic = []byte("PK\x03\x04")

// Row is one data row. Fields are keyed by the lower-cased header name.
type Row struct {
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of a column, matched case-insensitively.
func (r Row) Get(column string) string {
	return r.Fields[normalizeHeader(column)]
}

// FormatFromFilename maps a file extension to a Format. Only .csv and .xlsx
// are accepted.
func FormatFromFilename(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, true
	case ".xlsx":
		return FormatXLSX, true
	}
	return "", false
}

// Detect sniffs the payload: zip containers are workbooks, anything else is
// read as CSV.
func Detect(data []byte) Format {
	if bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// Parse reads the payload as format and returns its data rows in file order.
// Only the first sheet of a workbook is read. Blank rows are skipped.
func Parse(data []byte, format Format) ([]Row, error) {
	if Detect(data) != format {
		return nil, fmt.Errorf("%w: expected %s", ErrFormatMismatch, format)
	}
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatXLSX:
		records, err = readWorkbook(data)
	default:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	return toRows(records), nil
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	// raw values: number formats such as "#,##0.00" would not parse back
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func toRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		fields := make(map[string]string, len(headers))
		blank := true
		for j, value := range record {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			value = strings.TrimSpace(value)
			if value != "" {
				blank = false
			}
			fields[headers[j]] = value
		}
		if blank {
			continue
		}
		// line numbers are 1-based and count the header
		rows = append(rows, Row{Line: i + 2, Fields: fields})
	}
	return rows
}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	return strings.TrimSpace(strings.TrimSuffix(h, "*"))
}

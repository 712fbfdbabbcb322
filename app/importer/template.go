package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Products"

// ContentType returns the MIME type of a template format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Template renders an empty import file holding only the header row.
func Template(format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(Columns); err != nil {
			return nil, err
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	case FormatXLSX:
		return xlsxTemplate()
	}
	return nil, fmt.Errorf("unsupported template format %q", format)
}

func xlsxTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}
	for i, col := range Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(templateSheet, cell, col); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(templateSheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

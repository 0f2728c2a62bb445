// Package table ingests tabular data for the rendering pipeline.
//
// Two formats are supported: CSV (header row + data rows, UTF-8) and XLSX
// (first sheet, same shape). Parsing yields an ordered [Table]; row position
// is significant and preserved end-to-end, since it drives output filename
// numbering and companion-file row order.
package table

import (
	"bytes"
	"encoding/csv"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/curiosity110/LabelForge/pkg/errors"
)

// Row is one record keyed by column name. Missing cells read as "".
type Row map[string]string

// Value returns the row's value for a column, or "" when absent.
func (r Row) Value(column string) string {
	return r[column]
}

// Table is an ordered set of rows under a fixed column set.
type Table struct {
	Columns []string
	Rows    []Row
}

// Parse decodes a tabular buffer, choosing the format from the uploaded
// filename's extension. Anything that is not .xlsx is treated as CSV.
func Parse(filename string, buf []byte) (*Table, error) {
	if strings.ToLower(path.Ext(filename)) == ".xlsx" {
		return ParseXLSX(buf)
	}
	return ParseCSV(buf)
}

// ParseCSV decodes a CSV buffer: one header row naming the columns, then
// data rows in order. Short records are padded with empty cells.
func ParseCSV(buf []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(buf))
	r.FieldsPerRecord = -1 // tolerate ragged rows; missing cells read as ""

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "parse CSV")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeParseFailure, "CSV has no header row")
	}
	return fromRecords(records)
}

// ParseXLSX decodes the first sheet of an XLSX buffer with the same shape
// as ParseCSV: header row, then data rows.
func ParseXLSX(buf []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "open XLSX")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeParseFailure, "XLSX has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "read sheet %q", sheets[0])
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeParseFailure, "sheet %q has no header row", sheets[0])
	}
	return fromRecords(records)
}

func fromRecords(records [][]string) (*Table, error) {
	columns := records[0]
	if len(columns) == 0 {
		return nil, errors.New(errors.ErrCodeParseFailure, "header row has no columns")
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// CSV serializes the table back to its canonical CSV form: the header row
// followed by data rows in original order, cells in column order.
func (t *Table) CSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(t.Columns)
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			rec[i] = row[col]
		}
		w.Write(rec)
	}
	w.Flush()
	return buf.Bytes()
}

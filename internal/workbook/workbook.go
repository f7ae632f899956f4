// Package workbook reads tables from xlsx workbooks and writes sorted
// tables back out, one output file per source sheet.
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	lserrors "github.com/mkwant/list-to-sheets/internal/errors"
	"github.com/mkwant/list-to-sheets/internal/tabular"
)

// DefaultSheetNames lists the sheets a record-list workbook carries.
// Callers can pass any subset or a different set entirely.
var DefaultSheetNames = []string{
	`7"-off`,
	`7"-related`,
	`12"-off`,
	`12"-pro`,
	`LP-off`,
	`LP-related`,
	`LP-pirate`,
	`CD-single`,
	`CD-pro`,
}

// ReadSheet loads one sheet of an xlsx workbook into a Table. The first
// row is the header and fixes the table's column set; data rows shorter
// than the header are padded with empty values so every Record aligns
// with the columns.
func ReadSheet(path, sheet string) (tabular.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return tabular.Table{}, lserrors.New("workbook.read", err).WithSource(path).WithName(sheet)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return tabular.Table{}, lserrors.New("workbook.read", err).WithSource(path).WithName(sheet)
	}
	if len(rows) == 0 {
		return tabular.Table{Source: sheet}, nil
	}

	columns := rows[0]
	table := tabular.Table{
		Source:  sheet,
		Columns: columns,
		Rows:    make([]tabular.Record, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		rec := make(tabular.Record, len(columns))
		copy(rec, row)
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

// Write stores the table as a single-sheet xlsx file under dir and
// returns the written path. The filename is the sheet name reduced to
// alphanumerics, joined with the base name of the source workbook:
// sheet `7"-off` of bowielist_12-11-23.xlsx becomes
// 7off_bowielist_12-11-23.xlsx. Only the table's own columns are
// written; derived sort ranks never appear in the output.
func Write(table tabular.Table, dir, sourceFile string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", lserrors.New("workbook.write", err).WithSource(dir)
	}

	name := fmt.Sprintf("%s_%s", sanitizeSheetName(table.Source), filepath.Base(sourceFile))
	if !strings.HasSuffix(name, ".xlsx") {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".xlsx"
	}
	path := filepath.Join(dir, name)

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &table.Columns); err != nil {
		return "", lserrors.New("workbook.write", err).WithSource(path)
	}
	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", lserrors.New("workbook.write", err).WithSource(path)
		}
		r := []string(row)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return "", lserrors.New("workbook.write", err).WithSource(path)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", lserrors.New("workbook.write", err).WithSource(path)
	}
	return path, nil
}

// sanitizeSheetName reduces a sheet name to its alphanumeric runes so
// it is safe to use as a filename prefix on any filesystem.
func sanitizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

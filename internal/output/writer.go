package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the table in XLSX files.
const SheetName = "Table"

const columnWidth = 18

// Writer writes tables into one directory, one file per table.
type Writer struct {
	dir    string
	format Format
}

// NewWriter creates a writer for dir in the given format
func NewWriter(dir string, format Format) *Writer {
	return &Writer{dir: dir, format: format}
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the file path a table with the given name is written to
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name+w.format.Ext())
}

// Write writes t, replacing any previous file of the same name, and returns
// the file path. The output directory is created if needed.
func (w *Writer) Write(t *Table) (string, error) {
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := w.Path(t.Name)
	var err error
	switch w.format {
	case FormatXLSX:
		err = writeXLSX(path, t)
	case FormatCSV:
		err = writeCSV(path, t)
	default:
		err = fmt.Errorf("unsupported output format %q", w.format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeCSV(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(t.Header); err != nil {
		f.Close()
		return fmt.Errorf("csv write: %w", err)
	}
	if err := cw.WriteAll(t.Records); err != nil {
		f.Close()
		return fmt.Errorf("csv write: %w", err)
	}
	return f.Close()
}

func writeXLSX(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellStr(SheetName, cell, v)
	}

	for i, h := range t.Header {
		if err := write(i+1, 1, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}
	for r, rec := range t.Records {
		for c, v := range rec {
			if err := write(c+1, r+2, v); err != nil {
				return fmt.Errorf("xlsx row %d: %w", r+1, err)
			}
		}
	}

	if len(t.Header) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Header))
		if err == nil {
			_ = f.SetColWidth(SheetName, "A", last, columnWidth)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

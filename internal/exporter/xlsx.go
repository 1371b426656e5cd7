package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"atlascli/internal/config"
)

// XLSXWriter provides Excel workbook export functionality
type XLSXWriter struct {
	paths *config.Paths
}

// NewXLSXWriter creates a new XLSX writer instance
func NewXLSXWriter(paths *config.Paths) *XLSXWriter {
	return &XLSXWriter{paths: paths}
}

// Sheet is one worksheet: a name, a header row, and data records.
type Sheet struct {
	Name    string
	Headers []string
	Records [][]string
}

// WriteWorkbook writes one or more sheets to an XLSX file. The header row
// of every sheet is bold with an autofilter over the data range.
func (w *XLSXWriter) WriteWorkbook(filePath string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook needs at least one sheet")
	}

	fullPath := w.resolvePath(filePath)

	slog.Info("Writing XLSX file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("sheet_count", len(sheets)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			// The default sheet becomes the first data sheet.
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return fmt.Errorf("failed to add sheet %s: %w", sheet.Name, err)
			}
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteTable writes a single-sheet workbook.
func (w *XLSXWriter) WriteTable(filePath, sheetName string, headers []string, records [][]string) error {
	return w.WriteWorkbook(filePath, []Sheet{{Name: sheetName, Headers: headers, Records: records}})
}

// WriteXLSXTo streams a single-sheet workbook to an arbitrary writer.
// Used by the HTTP export endpoint to write straight to the response.
func WriteXLSXTo(dst io.Writer, sheetName string, headers []string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSheet(f, Sheet{Name: sheetName, Headers: headers, Records: records}, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(dst); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	header := make([]interface{}, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet.Name, err)
	}

	endCol, err := excelize.ColumnNumberToName(len(sheet.Headers))
	if err != nil {
		return fmt.Errorf("failed to compute sheet range: %w", err)
	}
	if err := f.SetCellStyle(sheet.Name, "A1", endCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet.Name, err)
	}

	for i, record := range sheet.Records {
		row := make([]interface{}, len(record))
		for j, cell := range record {
			row[j] = cell
		}
		addr := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet.Name, addr, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i, sheet.Name, err)
		}
	}

	rangeRef := fmt.Sprintf("A1:%s%d", endCol, len(sheet.Records)+1)
	if err := f.AutoFilter(sheet.Name, rangeRef, nil); err != nil {
		return fmt.Errorf("failed to set autofilter on %s: %w", sheet.Name, err)
	}
	return nil
}

func (w *XLSXWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetExportPath(filePath)
}

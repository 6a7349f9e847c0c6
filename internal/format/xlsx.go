package format

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/matrix"
)

const defaultSheet = "Sheet1"

// writeWorkbook streams rows into a single sheet and writes the workbook to w.
func writeWorkbook(w io.Writer, sheet string, rows func(emit func([]any) error) error) (int64, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "" && sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return 0, fmt.Errorf("rename sheet: %w", err)
		}
	} else {
		sheet = defaultSheet
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return 0, fmt.Errorf("open sheet stream: %w", err)
	}

	rowNumber := 1
	emit := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNumber)
		if err != nil {
			return err
		}
		rowNumber++
		return sw.SetRow(cell, values)
	}
	if err := rows(emit); err != nil {
		return 0, err
	}
	if err := sw.Flush(); err != nil {
		return 0, fmt.Errorf("flush sheet: %w", err)
	}

	// WriteTo reports 0 when streaming, so count what reaches w.
	counter := &countingWriter{writer: w}
	if _, err := f.WriteTo(counter); err != nil {
		return counter.count, fmt.Errorf("write workbook: %w", err)
	}
	return counter.count, nil
}

func stringsToValues(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// WriteMatrixXLSX writes the table as a workbook. Present cells are numeric;
// missing cells carry the sentinel text.
func WriteMatrixXLSX(w io.Writer, t matrix.Table, sheet string) (int64, error) {
	return writeWorkbook(w, sheet, func(emit func([]any) error) error {
		if err := emit(stringsToValues(t.Header)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, row := range t.Rows {
			values := stringsToValues(t.Lead(row))
			for _, cell := range row.Cells {
				if cell.Present {
					values = append(values, cell.Value)
				} else {
					values = append(values, MissingSentinel)
				}
			}
			if err := emit(values); err != nil {
				return fmt.Errorf("write row %s: %w", row.ID, err)
			}
		}
		return nil
	})
}

// WriteInfoXLSX writes the array listing as a workbook.
func WriteInfoXLSX(w io.Writer, infos []domain.ProteinArrayInfo, sheet string) (int64, error) {
	return writeWorkbook(w, sheet, func(emit func([]any) error) error {
		if err := emit(stringsToValues(InfoHeader)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, info := range infos {
			if err := emit([]any{info.ID, info.Type, info.Gene, info.Residue}); err != nil {
				return fmt.Errorf("write array %s: %w", info.ID, err)
			}
		}
		return nil
	})
}

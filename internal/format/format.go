// Package format renders protein array listings and materialized matrices as
// tab separated text or as an XLSX workbook.
package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/matrix"
)

// MissingSentinel is written for every cell without a measurement.
const MissingSentinel = "NaN"

// Info listing header columns.
var InfoHeader = []string{"ARRAY_ID", "ARRAY_TYPE", "GENE", "RESIDUE"}

// Format names an output encoding.
type Format string

const (
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts tsv or xlsx in any case. Empty input yields tsv.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatTSV:
		return FormatTSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", domain.ErrInvalidArgument, raw)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/tab-separated-values; charset=utf-8"
}

// FormatValue renders a measurement as the shortest exact decimal.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCell(c matrix.Cell) string {
	if !c.Present {
		return MissingSentinel
	}
	return FormatValue(c.Value)
}

type countingWriter struct {
	writer io.Writer
	count  int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	c.count += int64(n)
	return n, err
}

// tsvWriter joins fields with tabs and ends each line with LF. Fields are
// written as is; a tab or line break inside a field is rejected.
type tsvWriter struct {
	buffered *bufio.Writer
	counter  *countingWriter
}

func newTSVWriter(w io.Writer) *tsvWriter {
	counter := &countingWriter{writer: w}
	return &tsvWriter{buffered: bufio.NewWriterSize(counter, 64<<10), counter: counter}
}

func (t *tsvWriter) write(record []string) error {
	for _, field := range record {
		if strings.ContainsAny(field, "\t\r\n") {
			return fmt.Errorf("%w: field %q contains a tab or line break", domain.ErrInvalidArgument, field)
		}
	}
	if _, err := t.buffered.WriteString(strings.Join(record, "\t")); err != nil {
		return err
	}
	return t.buffered.WriteByte('\n')
}

func (t *tsvWriter) finish() (int64, error) {
	if err := t.buffered.Flush(); err != nil {
		return t.counter.count, fmt.Errorf("flush tsv: %w", err)
	}
	return t.counter.count, nil
}

// WriteInfoTSV writes one line per array descriptor in the given order.
func WriteInfoTSV(w io.Writer, infos []domain.ProteinArrayInfo) (int64, error) {
	tw := newTSVWriter(w)
	if err := tw.write(InfoHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, info := range infos {
		if err := tw.write([]string{info.ID, info.Type, info.Gene, info.Residue}); err != nil {
			return 0, fmt.Errorf("write array %s: %w", info.ID, err)
		}
	}
	return tw.finish()
}

// WriteMatrixTSV writes the header line followed by one line per table row.
func WriteMatrixTSV(w io.Writer, t matrix.Table) (int64, error) {
	tw := newTSVWriter(w)
	if err := tw.write(t.Header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	record := make([]string, 0, len(t.Header))
	for _, row := range t.Rows {
		record = append(record[:0], t.Lead(row)...)
		for _, cell := range row.Cells {
			record = append(record, formatCell(cell))
		}
		if err := tw.write(record); err != nil {
			return 0, fmt.Errorf("write row %s: %w", row.ID, err)
		}
	}
	return tw.finish()
}

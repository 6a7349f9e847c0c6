// Package matrix turns sparse (row, column, value) measurements into a dense
// table with a fixed row order, a fixed column order and explicit missing
// cells.
package matrix

import (
	"github.com/rpattn/portaldata/internal/domain"
)

// Header labels of the fixed leading columns.
const (
	RowIDHeader   = "ROW_ID"
	TypeHeader    = "TYPE"
	GeneHeader    = "GENE"
	ResidueHeader = "RESIDUE"
)

// Input is everything one materialization needs.
type Input struct {
	// Rows are emitted in this order. Later duplicates of an id are ignored.
	Rows         []domain.ProteinArrayInfo
	Measurements []domain.ProteinArrayData
	// Columns fixes the column universe verbatim when non-nil. A nil slice
	// derives it from Measurements in first-seen order.
	Columns            []string
	IncludeDescriptive bool
}

// Cell is one value of the grid. Present is false for unmeasured pairs.
type Cell struct {
	Value   float64
	Present bool
}

// Row is one emitted table row.
type Row struct {
	ID      string
	Type    string
	Gene    string
	Residue string
	Cells   []Cell
}

// Table is the dense result. Columns lists the data columns only; Header
// includes the leading row-id and descriptive labels.
type Table struct {
	Header             []string
	Columns            []string
	IncludeDescriptive bool
	Rows               []Row
	// Duplicates counts (row, column) pairs that were measured more than once.
	Duplicates int
}

// index maps row id to column id to value.
type index map[string]map[string]float64

func buildIndex(measurements []domain.ProteinArrayData) (index, int) {
	idx := index{}
	duplicates := 0
	for _, m := range measurements {
		values, ok := idx[m.ArrayID]
		if !ok {
			values = map[string]float64{}
			idx[m.ArrayID] = values
		}
		if _, seen := values[m.CaseID]; seen {
			duplicates++
		}
		values[m.CaseID] = m.Abundance
	}
	return idx, duplicates
}

func deriveColumns(measurements []domain.ProteinArrayData) []string {
	columns := []string{}
	seen := map[string]bool{}
	for _, m := range measurements {
		if !seen[m.CaseID] {
			seen[m.CaseID] = true
			columns = append(columns, m.CaseID)
		}
	}
	return columns
}

// Build materializes the table. Rows without a single measurement are left
// out; cells without a measurement are marked absent. The last measurement of
// a duplicated (row, column) pair wins.
func Build(in Input) Table {
	idx, duplicates := buildIndex(in.Measurements)

	columns := in.Columns
	if columns == nil {
		columns = deriveColumns(in.Measurements)
	}
	columns = append([]string{}, columns...)

	header := []string{RowIDHeader}
	if in.IncludeDescriptive {
		header = append(header, TypeHeader, GeneHeader, ResidueHeader)
	}
	header = append(header, columns...)

	table := Table{
		Header:             header,
		Columns:            columns,
		IncludeDescriptive: in.IncludeDescriptive,
		Rows:               []Row{},
		Duplicates:         duplicates,
	}

	emitted := map[string]bool{}
	for _, info := range in.Rows {
		values, ok := idx[info.ID]
		if !ok || len(values) == 0 || emitted[info.ID] {
			continue
		}
		emitted[info.ID] = true

		row := Row{ID: info.ID, Cells: make([]Cell, len(columns))}
		if in.IncludeDescriptive {
			row.Type = info.Type
			row.Gene = info.Gene
			row.Residue = info.Residue
		}
		for i, column := range columns {
			if v, present := values[column]; present {
				row.Cells[i] = Cell{Value: v, Present: true}
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Lead returns the leading fields of a row: the id and, when the table
// carries them, the descriptive fields.
func (t Table) Lead(r Row) []string {
	if t.IncludeDescriptive {
		return []string{r.ID, r.Type, r.Gene, r.Residue}
	}
	return []string{r.ID}
}

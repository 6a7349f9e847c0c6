package format

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/matrix"
)

func renderTSV(t *testing.T, table matrix.Table) string {
	t.Helper()
	var buf bytes.Buffer
	n, err := WriteMatrixTSV(&buf, table)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	return buf.String()
}

func TestMatrixTSVWithDescriptiveColumns(t *testing.T) {
	table := matrix.Build(matrix.Input{
		Rows:               []domain.ProteinArrayInfo{{ID: "A1", Type: "RPPA", Gene: "TP53", Residue: "total"}},
		Measurements:       []domain.ProteinArrayData{{ArrayID: "A1", CaseID: "case1", Abundance: 1.23}},
		Columns:            []string{"case1", "case2"},
		IncludeDescriptive: true,
	})

	assert.Equal(t, "ROW_ID\tTYPE\tGENE\tRESIDUE\tcase1\tcase2\nA1\tRPPA\tTP53\ttotal\t1.23\tNaN\n", renderTSV(t, table))
}

func TestMatrixTSVRowWithoutDataIsHeaderOnly(t *testing.T) {
	table := matrix.Build(matrix.Input{
		Rows:    []domain.ProteinArrayInfo{{ID: "A2", Type: "RPPA", Gene: "EGFR", Residue: "pY1068"}},
		Columns: []string{"case1"},
	})

	assert.Equal(t, "ROW_ID\tcase1\n", renderTSV(t, table))
}

func TestMatrixTSVIsIdempotent(t *testing.T) {
	in := matrix.Input{
		Rows: []domain.ProteinArrayInfo{{ID: "A"}, {ID: "B"}},
		Measurements: []domain.ProteinArrayData{
			{ArrayID: "B", CaseID: "x", Abundance: -0.000125},
			{ArrayID: "A", CaseID: "y", Abundance: 12345678.5},
		},
	}
	first := renderTSV(t, matrix.Build(in))
	second := renderTSV(t, matrix.Build(in))
	assert.Equal(t, first, second)
	assert.Equal(t, "ROW_ID\tx\ty\nA\tNaN\t12345678.5\nB\t-0.000125\tNaN\n", first)
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.23, "1.23"},
		{0, "0"},
		{-2, "-2"},
		{1e21, "1000000000000000000000"},
		{0.3, "0.3"},
		{2.0625, "2.0625"},
		{1.0, "1"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatValue(tc.in))
	}
	assert.NotEqual(t, MissingSentinel, FormatValue(0))
	// A stored NaN would render the same text as the sentinel.
	assert.Equal(t, MissingSentinel, FormatValue(math.NaN()))
}

func TestInfoTSV(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteInfoTSV(&buf, []domain.ProteinArrayInfo{
		{ID: "P53", Type: "protein_level", Gene: "TP53", Residue: "total"},
		{ID: "AKT_pS473", Type: "phosphorylation", Gene: "AKT1 AKT2", Residue: "pS473"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ARRAY_ID\tARRAY_TYPE\tGENE\tRESIDUE\nP53\tprotein_level\tTP53\ttotal\nAKT_pS473\tphosphorylation\tAKT1 AKT2\tpS473\n", buf.String())

	buf.Reset()
	_, err = WriteInfoTSV(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "ARRAY_ID\tARRAY_TYPE\tGENE\tRESIDUE\n", buf.String())
}

func TestMatrixTSVWritesFieldsVerbatim(t *testing.T) {
	table := matrix.Build(matrix.Input{
		Rows:               []domain.ProteinArrayInfo{{ID: `Akt"p`, Type: "RPPA", Gene: "AKT1", Residue: " pS473"}},
		Measurements:       []domain.ProteinArrayData{{ArrayID: `Akt"p`, CaseID: "case1", Abundance: 1}},
		IncludeDescriptive: true,
	})

	assert.Equal(t, "ROW_ID\tTYPE\tGENE\tRESIDUE\tcase1\nAkt\"p\tRPPA\tAKT1\t pS473\t1\n", renderTSV(t, table))
}

func TestInfoTSVWritesFieldsVerbatim(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteInfoTSV(&buf, []domain.ProteinArrayInfo{{ID: `\.`, Type: "RPPA", Gene: `"quoted"`, Residue: " lead"}})
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "ARRAY_ID\tARRAY_TYPE\tGENE\tRESIDUE\n\\.\tRPPA\t\"quoted\"\t lead\n", buf.String())
}

func TestTSVRejectsFieldSeparatorsInValues(t *testing.T) {
	for _, id := range []string{"A\tB", "A\nB", "A\rB"} {
		_, err := WriteInfoTSV(&bytes.Buffer{}, []domain.ProteinArrayInfo{{ID: id}})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, id)
	}
}

func TestMatrixXLSX(t *testing.T) {
	table := matrix.Build(matrix.Input{
		Rows:         []domain.ProteinArrayInfo{{ID: "A1", Type: "RPPA", Gene: "TP53", Residue: "total"}},
		Measurements: []domain.ProteinArrayData{{ArrayID: "A1", CaseID: "case1", Abundance: 1.5}},
		Columns:      []string{"case1", "case2"},
	})

	var buf bytes.Buffer
	n, err := WriteMatrixXLSX(&buf, table, "protein_arrays")
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"protein_arrays"}, f.GetSheetList())
	rows, err := f.GetRows("protein_arrays")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ROW_ID", "case1", "case2"},
		{"A1", "1.5", "NaN"},
	}, rows)
}

func TestInfoXLSXReportsBytesWritten(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteInfoXLSX(&buf, []domain.ProteinArrayInfo{{ID: "P53", Type: "protein_level", Gene: "TP53", Residue: "total"}}, "")
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.Equal(t, int64(buf.Len()), n)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatTSV, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("parquet")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

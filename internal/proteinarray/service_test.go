package proteinarray

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/format"
	"github.com/rpattn/portaldata/internal/repository"
	"github.com/rpattn/portaldata/internal/repository/memory"
	"github.com/rpattn/portaldata/internal/resolver"
)

const seedFile = "../repository/memory/testdata/seed.yaml"

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := memory.LoadSeedFile(seedFile)
	require.NoError(t, err)
	return NewService(store, store, resolver.NewGeneResolver(store, zap.NewNop()), zap.NewNop())
}

func renderTSV(t *testing.T, svc *Service, req DataRequest) string {
	t.Helper()
	table, _, err := svc.Matrix(context.Background(), req)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = format.WriteMatrixTSV(&buf, table)
	require.NoError(t, err)
	return buf.String()
}

func TestMatrixWholeStudy(t *testing.T) {
	svc := newTestService(t)

	// EGFR_pY1068 and HER2 have no measurements and are left out.
	want := "ROW_ID\tTCGA-A1-A0SB-01\tTCGA-A2-A04P-01\tTCGA-A1-A0SD-01\n" +
		"AKT_pS473\t0.5\t-1.25\tNaN\n" +
		"EGFR\t0.1\tNaN\t1.75\n" +
		"P53\t2.0625\tNaN\tNaN\n"
	assert.Equal(t, want, renderTSV(t, svc, DataRequest{StudyID: "brca_tcga"}))
}

func TestMatrixFixedColumns(t *testing.T) {
	svc := newTestService(t)

	got := renderTSV(t, svc, DataRequest{
		StudyID: "brca_tcga",
		CaseIDs: []string{"TCGA-A2-A04P-11", "TCGA-A1-A0SB-01"},
	})
	want := "ROW_ID\tTCGA-A2-A04P-11\tTCGA-A1-A0SB-01\n" +
		"AKT_pS473\tNaN\t0.5\n" +
		"EGFR\tNaN\t0.1\n" +
		"P53\tNaN\t2.0625\n"
	assert.Equal(t, want, got)
}

func TestMatrixEmptyColumnListYieldsHeaderOnly(t *testing.T) {
	svc := newTestService(t)

	got := renderTSV(t, svc, DataRequest{StudyID: "brca_tcga", CaseIDs: []string{}})
	assert.Equal(t, "ROW_ID\n", got)
}

func TestMatrixWithDescriptiveColumns(t *testing.T) {
	svc := newTestService(t)

	got := renderTSV(t, svc, DataRequest{
		StudyID:          "brca_tcga",
		Genes:            []string{"TP53"},
		IncludeArrayInfo: true,
	})
	want := "ROW_ID\tTYPE\tGENE\tRESIDUE\tTCGA-A1-A0SB-01\n" +
		"P53\tprotein_level\tTP53\ttotal\t2.0625\n"
	assert.Equal(t, want, got)
}

func TestMatrixGeneFilterDropsUnknownTokens(t *testing.T) {
	svc := newTestService(t)

	table, bundle, err := svc.Matrix(context.Background(), DataRequest{
		StudyID: "brca_tcga",
		Genes:   []string{"NOT_A_GENE", "7157"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"NOT_A_GENE"}, bundle.Unresolved)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "P53", table.Rows[0].ID)
}

func TestMatrixNoResolvableGenesMatchesNothing(t *testing.T) {
	svc := newTestService(t)

	got := renderTSV(t, svc, DataRequest{StudyID: "brca_tcga", Genes: []string{"NOT_A_GENE"}})
	assert.Equal(t, "ROW_ID\n", got)
}

func TestMatrixTypeFilter(t *testing.T) {
	svc := newTestService(t)

	table, _, err := svc.Matrix(context.Background(), DataRequest{StudyID: "brca_tcga", Type: "phosphorylation"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "AKT_pS473", table.Rows[0].ID)
}

func TestMatrixExplicitArrays(t *testing.T) {
	svc := newTestService(t)

	t.Run("array without data", func(t *testing.T) {
		got := renderTSV(t, svc, DataRequest{StudyID: "brca_tcga", ArrayIDs: []string{"HER2"}})
		assert.Equal(t, "ROW_ID\n", got)
	})

	t.Run("arrays bypass gene resolution", func(t *testing.T) {
		table, _, err := svc.Matrix(context.Background(), DataRequest{
			StudyID:  "brca_tcga",
			ArrayIDs: []string{"EGFR", "P53"},
		})
		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "EGFR", table.Rows[0].ID)
		assert.Equal(t, "P53", table.Rows[1].ID)
	})

	t.Run("empty list means every array", func(t *testing.T) {
		table, _, err := svc.Matrix(context.Background(), DataRequest{StudyID: "brca_tcga", ArrayIDs: []string{}})
		require.NoError(t, err)
		assert.Len(t, table.Rows, 3)
	})
}

func TestMatrixIsScopedToStudy(t *testing.T) {
	svc := newTestService(t)

	got := renderTSV(t, svc, DataRequest{StudyID: "acc_tcga"})
	assert.Equal(t, "ROW_ID\tTCGA-OR-A5J1-01\nEGFR\t0.33\n", got)
}

func TestUnknownStudy(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Matrix(context.Background(), DataRequest{StudyID: "nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, _, err = svc.Info(context.Background(), InfoRequest{StudyID: "nope"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestInfo(t *testing.T) {
	svc := newTestService(t)

	ids := func(arrays []domain.ProteinArrayInfo) []string {
		out := []string{}
		for _, a := range arrays {
			out = append(out, a.ID)
		}
		return out
	}

	arrays, unresolved, err := svc.Info(context.Background(), InfoRequest{StudyID: "brca_tcga"})
	require.NoError(t, err)
	assert.Empty(t, unresolved)
	assert.Equal(t, []string{"AKT_pS473", "EGFR", "EGFR_pY1068", "HER2", "P53"}, ids(arrays))

	arrays, _, err = svc.Info(context.Background(), InfoRequest{StudyID: "brca_tcga", Genes: []string{"EGFR"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"EGFR", "EGFR_pY1068"}, ids(arrays))

	// HER2 is an alias of ERBB2 only.
	arrays, _, err = svc.Info(context.Background(), InfoRequest{StudyID: "brca_tcga", Genes: []string{"HER2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"HER2"}, ids(arrays))

	arrays, _, err = svc.Info(context.Background(), InfoRequest{StudyID: "brca_tcga", Genes: []string{"EGFR"}, Type: "phosphorylation"})
	require.NoError(t, err)
	assert.Equal(t, []string{"EGFR_pY1068"}, ids(arrays))
}

type failingArrays struct {
	repository.ProteinArrayRepository
}

func (failingArrays) GetProteinArrayInfo(context.Context, domain.ProteinArrayFilter) ([]domain.ProteinArrayInfo, error) {
	return nil, errors.New("connection reset")
}

func TestStorageErrorsPropagate(t *testing.T) {
	store, err := memory.LoadSeedFile(seedFile)
	require.NoError(t, err)
	svc := NewService(store, failingArrays{}, resolver.NewGeneResolver(store, zap.NewNop()), zap.NewNop())

	_, _, err = svc.Matrix(context.Background(), DataRequest{StudyID: "brca_tcga"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "connection reset")
}

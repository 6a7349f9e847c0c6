package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/repository"
)

func loadFixture(t *testing.T) *Store {
	t.Helper()
	store, err := LoadSeedFile("testdata/seed.yaml")
	require.NoError(t, err)
	return store
}

// enumerate walks every page until an empty or short page comes back.
func enumerate[T any](t *testing.T, pageSize int, fetch func(domain.PageRequest) ([]T, error)) []T {
	t.Helper()
	var all []T
	for pageNumber := 0; ; pageNumber++ {
		req := domain.DefaultPageRequest(domain.ProjectionSummary)
		req.PageSize = pageSize
		req.PageNumber = pageNumber
		items, err := fetch(req)
		require.NoError(t, err)
		all = append(all, items...)
		if len(items) < pageSize {
			return all
		}
		require.Less(t, pageNumber, 1000, "pagination did not terminate")
	}
}

func TestCountMatchesFetchAcrossPageSizes(t *testing.T) {
	ctx := context.Background()
	store := loadFixture(t)

	for pageSize := 1; pageSize <= 7; pageSize++ {
		for _, f := range []domain.GeneFilter{{}, {Alias: "rac"}, {Alias: "missing"}} {
			meta, err := store.GetMetaGenes(ctx, f)
			require.NoError(t, err)
			genes := enumerate(t, pageSize, func(req domain.PageRequest) ([]domain.Gene, error) {
				return store.GetAllGenes(ctx, f, req)
			})
			assert.Len(t, genes, meta.TotalCount, "alias=%q pageSize=%d", f.Alias, pageSize)
		}

		for _, f := range []domain.StudyFilter{{}, {Keyword: "TCGA"}, {Keyword: "breast"}, {Keyword: "nope"}} {
			meta, err := store.GetMetaStudies(ctx, f)
			require.NoError(t, err)
			studies := enumerate(t, pageSize, func(req domain.PageRequest) ([]domain.CancerStudy, error) {
				return store.GetAllStudies(ctx, f, req)
			})
			assert.Len(t, studies, meta.TotalCount, "keyword=%q pageSize=%d", f.Keyword, pageSize)
		}

		for _, studyID := range []string{"brca_tcga", "acc_tcga", "unknown"} {
			meta, err := store.GetMetaSamplesInStudy(ctx, studyID)
			require.NoError(t, err)
			samples := enumerate(t, pageSize, func(req domain.PageRequest) ([]domain.Sample, error) {
				return store.GetAllSamplesInStudy(ctx, studyID, req)
			})
			assert.Len(t, samples, meta.TotalCount)
		}

		meta, err := store.GetMetaCopyNumberSegmentsInSampleInStudy(ctx, "brca_tcga", "TCGA-A1-A0SB-01")
		require.NoError(t, err)
		assert.Equal(t, 3, meta.TotalCount)
		segments := enumerate(t, pageSize, func(req domain.PageRequest) ([]domain.CopyNumberSegment, error) {
			return store.GetCopyNumberSegmentsInSampleInStudy(ctx, "brca_tcga", "TCGA-A1-A0SB-01", req)
		})
		assert.Len(t, segments, meta.TotalCount)
	}
}

func TestPagesAreDisjointAndTiesBrokenByID(t *testing.T) {
	ctx := context.Background()
	store := loadFixture(t)

	// Every gene has type protein-coding, so the order within the key is by entrez id.
	var seen []int64
	for pageNumber := 0; pageNumber < 3; pageNumber++ {
		req := domain.PageRequest{Projection: domain.ProjectionID, PageSize: 2, PageNumber: pageNumber, SortBy: "type", Direction: domain.SortDirectionDesc}
		genes, err := store.GetAllGenes(ctx, domain.GeneFilter{}, req)
		require.NoError(t, err)
		for _, g := range genes {
			seen = append(seen, g.EntrezGeneID)
		}
	}
	assert.Equal(t, []int64{207, 208, 1956, 2064, 3845, 7157}, seen)

	req := domain.DefaultPageRequest(domain.ProjectionID)
	req.Direction = domain.SortDirectionDesc
	genes, err := store.GetAllGenes(ctx, domain.GeneFilter{}, req)
	require.NoError(t, err)
	require.Len(t, genes, 6)
	assert.Equal(t, int64(7157), genes[0].EntrezGeneID)
	assert.Equal(t, int64(207), genes[5].EntrezGeneID)
}

func TestProjectionLimitsFields(t *testing.T) {
	ctx := context.Background()
	store := loadFixture(t)

	genes, err := store.GetAllGenes(ctx, domain.GeneFilter{}, domain.DefaultPageRequest(domain.ProjectionID))
	require.NoError(t, err)
	for _, g := range genes {
		assert.Empty(t, g.HugoGeneSymbol)
		assert.Empty(t, g.Cytoband)
	}

	genes, err = store.GetAllGenes(ctx, domain.GeneFilter{}, domain.DefaultPageRequest(domain.ProjectionDetailed))
	require.NoError(t, err)
	for _, g := range genes {
		assert.NotEmpty(t, g.HugoGeneSymbol)
		assert.NotEmpty(t, g.Cytoband)
	}
}

func TestInvalidPageRequests(t *testing.T) {
	ctx := context.Background()
	store := loadFixture(t)

	cases := map[string]domain.PageRequest{
		"zero size":       {Projection: domain.ProjectionSummary, PageSize: 0},
		"negative number": {Projection: domain.ProjectionSummary, PageSize: 1, PageNumber: -1},
		"meta projection": {Projection: domain.ProjectionMeta, PageSize: 1},
		"unknown sort":    {Projection: domain.ProjectionSummary, PageSize: 1, SortBy: "favouriteColour"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetAllGenes(ctx, domain.GeneFilter{}, req)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestGeneLookups(t *testing.T) {
	ctx := context.Background()
	store := loadFixture(t)

	gene, err := store.GetGeneByHugoGeneSymbol(ctx, "tp53")
	require.NoError(t, err)
	assert.Equal(t, int64(7157), gene.EntrezGeneID)

	_, err = store.GetGeneByEntrezGeneID(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	aliases, err := store.GetAliasesOfGene(ctx, 1956)
	require.NoError(t, err)
	assert.Equal(t, []string{"ERBB", "ERBB1", "HER1"}, aliases)

	byAlias, err := store.GetGenesByAlias(ctx, "Rac")
	require.NoError(t, err)
	require.Len(t, byAlias, 2)

	fetched, err := store.FetchGenesByHugoGeneSymbols(ctx, []string{"kras", "TP53", "NOPE"}, domain.ProjectionSummary)
	require.NoError(t, err)
	require.Len(t, fetched, 2)
	assert.Equal(t, "KRAS", fetched[0].HugoGeneSymbol)

	meta, err := store.FetchMetaGenesByEntrezGeneIDs(ctx, []int64{7157, 1956, 99})
	require.NoError(t, err)
	assert.Equal(t, 2, meta.TotalCount)
}

func TestProteinArrayFilters(t *testing.T) {
	ctx := context.Background()
	store := loadFixture(t)
	brca, err := store.GetStudy(ctx, "brca_tcga")
	require.NoError(t, err)

	all, err := store.GetProteinArrayInfo(ctx, domain.ProteinArrayFilter{StudyID: brca.InternalID})
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, info := range all {
		ids[i] = info.ID
	}
	assert.Equal(t, []string{"AKT_pS473", "EGFR", "EGFR_pY1068", "HER2", "P53"}, ids)

	none, err := store.GetProteinArrayInfo(ctx, domain.ProteinArrayFilter{StudyID: brca.InternalID, EntrezGeneIDs: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, none)

	phospho, err := store.GetProteinArrayInfo(ctx, domain.ProteinArrayFilter{StudyID: brca.InternalID, EntrezGeneIDs: []int64{1956}, Type: "phosphorylation"})
	require.NoError(t, err)
	require.Len(t, phospho, 1)
	assert.Equal(t, "EGFR_pY1068", phospho[0].ID)

	data, err := store.GetProteinArrayData(ctx, domain.ProteinArrayDataFilter{StudyID: brca.InternalID, ArrayIDs: []string{"EGFR"}})
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, "TCGA-A1-A0SD-01", data[0].CaseID)

	data, err = store.GetProteinArrayData(ctx, domain.ProteinArrayDataFilter{StudyID: brca.InternalID, ArrayIDs: []string{"EGFR"}, CaseIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestLoadSeedRejectsDanglingReferences(t *testing.T) {
	_, err := LoadSeed(strings.NewReader(`
samples:
  - {studyId: ghost, sampleId: S1}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown study")

	_, err = LoadSeed(strings.NewReader("studies:\n  - {studyId: a, colour: red}\n"))
	require.Error(t, err)
}

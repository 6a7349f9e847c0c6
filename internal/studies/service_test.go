package studies

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/repository"
	"github.com/rpattn/portaldata/internal/repository/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := memory.LoadSeedFile("../repository/memory/testdata/seed.yaml")
	require.NoError(t, err)
	return NewService(store, zap.NewNop())
}

func TestGetStudy(t *testing.T) {
	svc := newTestService(t)

	study, err := svc.GetStudy(context.Background(), "brca_tcga")
	require.NoError(t, err)
	assert.Equal(t, "Breast Invasive Carcinoma (TCGA)", study.Name)
	require.NotNil(t, study.ImportDate)

	_, err = svc.GetStudy(context.Background(), "nope")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "study", notFound.Entity)
	assert.Equal(t, "nope", notFound.ID)
}

func TestListAndCountAgree(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	page := domain.DefaultPageRequest(domain.ProjectionSummary)
	page.SortBy = "name"
	page.Direction = domain.SortDirectionDesc
	studies, err := svc.GetAllStudies(ctx, domain.StudyFilter{}, page)
	require.NoError(t, err)
	require.Len(t, studies, 2)
	assert.Equal(t, "brca_tcga", studies[0].StudyID)

	meta, err := svc.GetMetaStudies(ctx, domain.StudyFilter{Keyword: "TCGA"})
	require.NoError(t, err)
	assert.Equal(t, 2, meta.TotalCount)
}

type brokenStudies struct {
	repository.StudyRepository
}

func (brokenStudies) GetStudy(context.Context, string) (domain.CancerStudy, error) {
	return domain.CancerStudy{}, errors.New("connection refused")
}

func TestGetStudyKeepsStorageErrors(t *testing.T) {
	svc := NewService(brokenStudies{}, zap.NewNop())

	_, err := svc.GetStudy(context.Background(), "brca_tcga")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestRequireStudy(t *testing.T) {
	store, err := memory.LoadSeedFile("../repository/memory/testdata/seed.yaml")
	require.NoError(t, err)

	study, err := RequireStudy(context.Background(), store, "brca_tcga")
	require.NoError(t, err)
	assert.Equal(t, "brca_tcga", study.StudyID)

	_, err = RequireStudy(context.Background(), store, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = RequireStudy(context.Background(), brokenStudies{}, "brca_tcga")
	assert.EqualError(t, err, "connection refused")
}

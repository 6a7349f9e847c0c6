package studies

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/observability"
	"github.com/rpattn/portaldata/internal/repository"
)

const tracerName = "github.com/rpattn/portaldata/studies"

// Service answers cancer study reads.
type Service struct {
	repo   repository.StudyRepository
	logger *zap.Logger
}

func NewService(repo repository.StudyRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetAllStudies(ctx context.Context, filter domain.StudyFilter, page domain.PageRequest) (studies []domain.CancerStudy, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "studies.GetAllStudies")
	defer observability.EndSpan(span, &err)
	return s.repo.GetAllStudies(ctx, filter, page)
}

func (s *Service) GetMetaStudies(ctx context.Context, filter domain.StudyFilter) (meta domain.BaseMeta, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "studies.GetMetaStudies")
	defer observability.EndSpan(span, &err)
	return s.repo.GetMetaStudies(ctx, filter)
}

// RequireStudy looks the study up in repo and maps a miss to StudyNotFound.
func RequireStudy(ctx context.Context, repo repository.StudyRepository, studyID string) (domain.CancerStudy, error) {
	study, err := repo.GetStudy(ctx, studyID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.CancerStudy{}, domain.StudyNotFound(studyID)
	}
	return study, err
}

// GetStudy returns the study or a StudyNotFound error.
func (s *Service) GetStudy(ctx context.Context, studyID string) (study domain.CancerStudy, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "studies.GetStudy",
		trace.WithAttributes(attribute.String("study.id", studyID)))
	defer observability.EndSpan(span, &err)

	study, err = RequireStudy(ctx, s.repo, studyID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Debug("study not found", zap.String("study_id", studyID))
	}
	return study, err
}

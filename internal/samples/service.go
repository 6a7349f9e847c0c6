package samples

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/observability"
	"github.com/rpattn/portaldata/internal/repository"
	"github.com/rpattn/portaldata/internal/studies"
)

const tracerName = "github.com/rpattn/portaldata/samples"

// Service answers sample reads. Every read first checks that the study
// exists so an unknown study is a StudyNotFound error rather than an empty
// result.
type Service struct {
	studies repository.StudyRepository
	samples repository.SampleRepository
	logger  *zap.Logger
}

func NewService(studies repository.StudyRepository, samples repository.SampleRepository, logger *zap.Logger) *Service {
	return &Service{studies: studies, samples: samples, logger: logger}
}

func (s *Service) GetAllSamplesInStudy(ctx context.Context, studyID string, page domain.PageRequest) (samples []domain.Sample, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "samples.GetAllSamplesInStudy",
		trace.WithAttributes(attribute.String("study.id", studyID)))
	defer observability.EndSpan(span, &err)

	if _, err = studies.RequireStudy(ctx, s.studies, studyID); err != nil {
		return nil, err
	}
	return s.samples.GetAllSamplesInStudy(ctx, studyID, page)
}

func (s *Service) GetMetaSamplesInStudy(ctx context.Context, studyID string) (meta domain.BaseMeta, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "samples.GetMetaSamplesInStudy",
		trace.WithAttributes(attribute.String("study.id", studyID)))
	defer observability.EndSpan(span, &err)

	if _, err = studies.RequireStudy(ctx, s.studies, studyID); err != nil {
		return domain.BaseMeta{}, err
	}
	return s.samples.GetMetaSamplesInStudy(ctx, studyID)
}

// GetSampleInStudy returns the sample, StudyNotFound or SampleNotFound.
func (s *Service) GetSampleInStudy(ctx context.Context, studyID, sampleID string) (sample domain.Sample, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "samples.GetSampleInStudy",
		trace.WithAttributes(attribute.String("study.id", studyID), attribute.String("sample.id", sampleID)))
	defer observability.EndSpan(span, &err)

	if _, err = studies.RequireStudy(ctx, s.studies, studyID); err != nil {
		return domain.Sample{}, err
	}
	sample, err = s.samples.GetSampleInStudy(ctx, studyID, sampleID)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug("sample not found", zap.String("study_id", studyID), zap.String("sample_id", sampleID))
		return domain.Sample{}, domain.SampleNotFound(studyID, sampleID)
	}
	return sample, err
}

package segments

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/observability"
	"github.com/rpattn/portaldata/internal/repository"
	"github.com/rpattn/portaldata/internal/samples"
)

const tracerName = "github.com/rpattn/portaldata/segments"

// Service answers copy-number segment reads for one sample of one study.
type Service struct {
	samples  *samples.Service
	segments repository.CopyNumberSegmentRepository
	logger   *zap.Logger
}

func NewService(sampleService *samples.Service, segments repository.CopyNumberSegmentRepository, logger *zap.Logger) *Service {
	return &Service{samples: sampleService, segments: segments, logger: logger}
}

// GetCopyNumberSegmentsInSampleInStudy fails with StudyNotFound or
// SampleNotFound before touching segments.
func (s *Service) GetCopyNumberSegmentsInSampleInStudy(ctx context.Context, studyID, sampleID string, page domain.PageRequest) (segments []domain.CopyNumberSegment, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "segments.GetCopyNumberSegmentsInSampleInStudy",
		trace.WithAttributes(attribute.String("study.id", studyID), attribute.String("sample.id", sampleID)))
	defer observability.EndSpan(span, &err)

	if _, err = s.samples.GetSampleInStudy(ctx, studyID, sampleID); err != nil {
		return nil, err
	}
	return s.segments.GetCopyNumberSegmentsInSampleInStudy(ctx, studyID, sampleID, page)
}

func (s *Service) GetMetaCopyNumberSegmentsInSampleInStudy(ctx context.Context, studyID, sampleID string) (meta domain.BaseMeta, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "segments.GetMetaCopyNumberSegmentsInSampleInStudy",
		trace.WithAttributes(attribute.String("study.id", studyID), attribute.String("sample.id", sampleID)))
	defer observability.EndSpan(span, &err)

	if _, err = s.samples.GetSampleInStudy(ctx, studyID, sampleID); err != nil {
		return domain.BaseMeta{}, err
	}
	return s.segments.GetMetaCopyNumberSegmentsInSampleInStudy(ctx, studyID, sampleID)
}

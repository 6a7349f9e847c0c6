package memory

import (
	"context"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/repository"
)

func sampleMatcher(studyID string) func(domain.Sample) bool {
	return func(s domain.Sample) bool { return s.StudyID == studyID }
}

func segmentMatcher(studyID, sampleID string) func(domain.CopyNumberSegment) bool {
	return func(c domain.CopyNumberSegment) bool { return c.StudyID == studyID && c.SampleID == sampleID }
}

func (s *Store) GetAllSamplesInStudy(_ context.Context, studyID string, req domain.PageRequest) ([]domain.Sample, error) {
	if err := repository.CheckPage(req, repository.SampleSortKeys); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(filter(s.samples, sampleMatcher(studyID)), req, sampleOrdering, func(sm domain.Sample) domain.Sample { return sm.Project(req.Projection) }), nil
}

func (s *Store) GetMetaSamplesInStudy(_ context.Context, studyID string) (domain.BaseMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return count(s.samples, sampleMatcher(studyID)), nil
}

func (s *Store) GetSampleInStudy(_ context.Context, studyID string, sampleID string) (domain.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sample := range s.samples {
		if sample.StudyID == studyID && sample.SampleID == sampleID {
			return sample, nil
		}
	}
	return domain.Sample{}, repository.ErrNotFound
}

func (s *Store) GetCopyNumberSegmentsInSampleInStudy(_ context.Context, studyID string, sampleID string, req domain.PageRequest) ([]domain.CopyNumberSegment, error) {
	if err := repository.CheckPage(req, repository.SegmentSortKeys); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(filter(s.segments, segmentMatcher(studyID, sampleID)), req, segmentOrdering,
		func(c domain.CopyNumberSegment) domain.CopyNumberSegment { return c.Project(req.Projection) }), nil
}

func (s *Store) GetMetaCopyNumberSegmentsInSampleInStudy(_ context.Context, studyID string, sampleID string) (domain.BaseMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return count(s.segments, segmentMatcher(studyID, sampleID)), nil
}

package memory

import (
	"context"
	"strings"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/repository"
)

func studyMatcher(f domain.StudyFilter) func(domain.CancerStudy) bool {
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))
	return func(s domain.CancerStudy) bool {
		if keyword == "" {
			return true
		}
		return strings.Contains(strings.ToLower(s.StudyID), keyword) ||
			strings.Contains(strings.ToLower(s.Name), keyword)
	}
}

func (s *Store) GetAllStudies(_ context.Context, f domain.StudyFilter, req domain.PageRequest) ([]domain.CancerStudy, error) {
	if err := repository.CheckPage(req, repository.StudySortKeys); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := filter(s.studies, studyMatcher(f))
	return page(matched, req, studyOrdering, func(st domain.CancerStudy) domain.CancerStudy { return st.Project(req.Projection) }), nil
}

func (s *Store) GetMetaStudies(_ context.Context, f domain.StudyFilter) (domain.BaseMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return count(s.studies, studyMatcher(f)), nil
}

func (s *Store) GetStudy(_ context.Context, studyID string) (domain.CancerStudy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, study := range s.studies {
		if study.StudyID == studyID {
			return study, nil
		}
	}
	return domain.CancerStudy{}, repository.ErrNotFound
}

package memory

import (
	"context"
	"slices"

	"github.com/rpattn/portaldata/internal/domain"
)

func arrayMatcher(f domain.ProteinArrayFilter) func(arrayRecord) bool {
	return func(r arrayRecord) bool {
		if !slices.Contains(r.studies, f.StudyID) {
			return false
		}
		if f.ArrayIDs != nil && !slices.Contains(f.ArrayIDs, r.info.ID) {
			return false
		}
		if f.EntrezGeneIDs != nil && !slices.ContainsFunc(r.info.EntrezGeneIDs, func(id int64) bool {
			return slices.Contains(f.EntrezGeneIDs, id)
		}) {
			return false
		}
		return f.Type == "" || r.info.Type == f.Type
	}
}

func (s *Store) GetProteinArrayInfo(_ context.Context, f domain.ProteinArrayFilter) ([]domain.ProteinArrayInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := []domain.ProteinArrayInfo{}
	for _, r := range filter(s.arrays, arrayMatcher(f)) {
		info := r.info
		info.EntrezGeneIDs = slices.Clone(info.EntrezGeneIDs)
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *Store) GetProteinArrayData(_ context.Context, f domain.ProteinArrayDataFilter) ([]domain.ProteinArrayData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data := []domain.ProteinArrayData{}
	for _, r := range s.data {
		if r.studyID != f.StudyID || !slices.Contains(f.ArrayIDs, r.data.ArrayID) {
			continue
		}
		if f.CaseIDs != nil && !slices.Contains(f.CaseIDs, r.data.CaseID) {
			continue
		}
		data = append(data, r.data)
	}
	return data, nil
}

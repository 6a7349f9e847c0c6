package domain

import "time"

// CancerStudy is a study identified externally by its stable StudyID.
type CancerStudy struct {
	InternalID   int        `json:"internalId,omitempty"`
	StudyID      string     `json:"studyId"`
	Name         string     `json:"name,omitempty"`
	Description  string     `json:"description,omitempty"`
	CancerTypeID string     `json:"cancerTypeId,omitempty"`
	PublicStudy  bool       `json:"publicStudy,omitempty"`
	PMID         string     `json:"pmid,omitempty"`
	Citation     string     `json:"citation,omitempty"`
	ImportDate   *time.Time `json:"importDate,omitempty"`
}

// StudyFilter restricts study listings. Keyword matches id or name, case-insensitively.
type StudyFilter struct {
	Keyword string
}

// Project keeps only the fields populated by the given projection.
func (s CancerStudy) Project(p Projection) CancerStudy {
	switch p {
	case ProjectionID:
		return CancerStudy{InternalID: s.InternalID, StudyID: s.StudyID}
	case ProjectionSummary:
		return CancerStudy{
			InternalID:   s.InternalID,
			StudyID:      s.StudyID,
			Name:         s.Name,
			Description:  s.Description,
			CancerTypeID: s.CancerTypeID,
			PublicStudy:  s.PublicStudy,
		}
	default:
		return s
	}
}

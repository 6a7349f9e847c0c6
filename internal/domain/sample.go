package domain

// Sample is a biological sample (case) within a study.
type Sample struct {
	InternalID int    `json:"internalId,omitempty"`
	SampleID   string `json:"sampleId"`
	SampleType string `json:"sampleType,omitempty"`
	PatientID  string `json:"patientId,omitempty"`
	StudyID    string `json:"studyId,omitempty"`
}

// CopyNumberSegment is one segmented copy-number call for a sample.
type CopyNumberSegment struct {
	SegmentID      int64   `json:"segmentId,omitempty"`
	StudyID        string  `json:"studyId,omitempty"`
	SampleID       string  `json:"sampleId"`
	Chromosome     string  `json:"chromosome,omitempty"`
	Start          int64   `json:"start,omitempty"`
	End            int64   `json:"end,omitempty"`
	NumberOfProbes int     `json:"numberOfProbes,omitempty"`
	SegmentMean    float64 `json:"segmentMean,omitempty"`
}

// Project keeps only the fields populated by the given projection.
func (s Sample) Project(p Projection) Sample {
	switch p {
	case ProjectionID:
		return Sample{SampleID: s.SampleID, StudyID: s.StudyID}
	case ProjectionSummary:
		return Sample{SampleID: s.SampleID, StudyID: s.StudyID, SampleType: s.SampleType, PatientID: s.PatientID}
	default:
		return s
	}
}

// Project keeps only the fields populated by the given projection.
func (c CopyNumberSegment) Project(p Projection) CopyNumberSegment {
	switch p {
	case ProjectionID:
		return CopyNumberSegment{SegmentID: c.SegmentID, StudyID: c.StudyID, SampleID: c.SampleID}
	case ProjectionSummary:
		return CopyNumberSegment{
			SegmentID:   c.SegmentID,
			StudyID:     c.StudyID,
			SampleID:    c.SampleID,
			Chromosome:  c.Chromosome,
			Start:       c.Start,
			End:         c.End,
			SegmentMean: c.SegmentMean,
		}
	default:
		return c
	}
}

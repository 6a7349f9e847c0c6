package domain

// ProteinArrayInfo describes one antibody array (a matrix row).
type ProteinArrayInfo struct {
	ID            string  `json:"arrayId"`
	Type          string  `json:"arrayType"`
	Gene          string  `json:"gene"`
	Residue       string  `json:"residue"`
	Source        string  `json:"source,omitempty"`
	Validated     bool    `json:"validated,omitempty"`
	EntrezGeneIDs []int64 `json:"entrezGeneIds,omitempty"`
}

// ProteinArrayData is one sparse abundance measurement of an array in a case.
type ProteinArrayData struct {
	ArrayID   string  `json:"arrayId"`
	CaseID    string  `json:"caseId"`
	Abundance float64 `json:"abundance"`
}

// ProteinArrayFilter selects row descriptors within a study.
//
// A nil slice means "no restriction"; a non-nil empty slice matches nothing.
// Type is single valued: empty means all types.
type ProteinArrayFilter struct {
	StudyID       int
	ArrayIDs      []string
	EntrezGeneIDs []int64
	Type          string
}

// ProteinArrayDataFilter selects sparse measurements. Nil CaseIDs means all cases.
type ProteinArrayDataFilter struct {
	StudyID  int
	ArrayIDs []string
	CaseIDs  []string
}

package repository

import (
	"fmt"
	"slices"

	"github.com/rpattn/portaldata/internal/domain"
)

// Sort keys accepted by each collection. An empty SortBy sorts by the canonical id.
var (
	StudySortKeys   = []string{"studyId", "name", "cancerTypeId", "importDate"}
	GeneSortKeys    = []string{"entrezGeneId", "hugoGeneSymbol", "type", "cytoband", "length"}
	SampleSortKeys  = []string{"sampleId", "sampleType", "patientId"}
	SegmentSortKeys = []string{"chromosome", "start", "end", "numberOfProbes", "segmentMean"}
)

// CheckPage validates a page request against the contract and the collection's sort keys.
func CheckPage(page domain.PageRequest, sortKeys []string) error {
	if err := page.Validate(); err != nil {
		return err
	}
	if page.SortBy != "" && !slices.Contains(sortKeys, page.SortBy) {
		return fmt.Errorf("%w: cannot sort by %q", domain.ErrInvalidArgument, page.SortBy)
	}
	return nil
}

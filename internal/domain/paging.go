package domain

import (
	"fmt"
	"math"
	"strings"
)

// Projection selects which optional fields a storage read populates.
type Projection string

const (
	ProjectionID       Projection = "ID"
	ProjectionSummary  Projection = "SUMMARY"
	ProjectionDetailed Projection = "DETAILED"
	// ProjectionMeta asks for the total count instead of records.
	ProjectionMeta Projection = "META"
)

// ParseProjection accepts a case-insensitive projection name. Empty input yields SUMMARY.
func ParseProjection(raw string) (Projection, error) {
	switch Projection(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", ProjectionSummary:
		return ProjectionSummary, nil
	case ProjectionID:
		return ProjectionID, nil
	case ProjectionDetailed:
		return ProjectionDetailed, nil
	case ProjectionMeta:
		return ProjectionMeta, nil
	default:
		return "", fmt.Errorf("%w: unknown projection %q", ErrInvalidArgument, raw)
	}
}

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "ASC"
	SortDirectionDesc SortDirection = "DESC"
)

// ParseSortDirection accepts asc/desc in any case. Empty input yields ASC.
func ParseSortDirection(raw string) (SortDirection, error) {
	switch SortDirection(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", SortDirectionAsc:
		return SortDirectionAsc, nil
	case SortDirectionDesc:
		return SortDirectionDesc, nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, raw)
	}
}

const (
	// DefaultPageSize mirrors the portal default of "everything on one page".
	DefaultPageSize   = 10000000
	DefaultPageNumber = 0
)

// PageRequest is the projection/pagination half of every collection read.
// PageNumber is 0-based; PageSize must be at least 1.
type PageRequest struct {
	Projection Projection
	PageSize   int
	PageNumber int
	SortBy     string
	Direction  SortDirection
}

// DefaultPageRequest returns a request for the first page with default size and ordering.
func DefaultPageRequest(projection Projection) PageRequest {
	return PageRequest{
		Projection: projection,
		PageSize:   DefaultPageSize,
		PageNumber: DefaultPageNumber,
		Direction:  SortDirectionAsc,
	}
}

// Validate checks the request against the contract shared by all repositories.
func (p PageRequest) Validate() error {
	switch p.Projection {
	case ProjectionID, ProjectionSummary, ProjectionDetailed:
	default:
		return fmt.Errorf("%w: projection %q cannot be fetched", ErrInvalidArgument, p.Projection)
	}
	if p.PageSize < 1 {
		return fmt.Errorf("%w: page size must be at least 1", ErrInvalidArgument)
	}
	if p.PageNumber < 0 {
		return fmt.Errorf("%w: page number must not be negative", ErrInvalidArgument)
	}
	if p.PageNumber > math.MaxInt/p.PageSize {
		return fmt.Errorf("%w: page number %d is out of range for page size %d", ErrInvalidArgument, p.PageNumber, p.PageSize)
	}
	switch p.Direction {
	case "", SortDirectionAsc, SortDirectionDesc:
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, p.Direction)
	}
	return nil
}

// Offset returns the number of records preceding the requested page.
func (p PageRequest) Offset() int {
	return p.PageSize * p.PageNumber
}

// Descending reports whether the primary sort key runs high to low.
func (p PageRequest) Descending() bool {
	return p.Direction == SortDirectionDesc
}

// BaseMeta carries the meta count of a collection read.
type BaseMeta struct {
	TotalCount int `json:"totalCount"`
}

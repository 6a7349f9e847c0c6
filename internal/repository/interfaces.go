package repository

import (
	"context"
	"errors"

	"github.com/rpattn/portaldata/internal/domain"
)

// ErrNotFound is returned by single-record lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// Every collection read comes as a pair: a paged fetch and a meta count that
// applies exactly the same filter while ignoring page size and page number.

// StudyRepository defines the interface for cancer study reads
type StudyRepository interface {
	GetAllStudies(ctx context.Context, filter domain.StudyFilter, page domain.PageRequest) ([]domain.CancerStudy, error)
	GetMetaStudies(ctx context.Context, filter domain.StudyFilter) (domain.BaseMeta, error)
	GetStudy(ctx context.Context, studyID string) (domain.CancerStudy, error)
}

// GeneRepository defines the interface for gene reads
type GeneRepository interface {
	GetAllGenes(ctx context.Context, filter domain.GeneFilter, page domain.PageRequest) ([]domain.Gene, error)
	GetMetaGenes(ctx context.Context, filter domain.GeneFilter) (domain.BaseMeta, error)
	GetGeneByEntrezGeneID(ctx context.Context, entrezGeneID int64) (domain.Gene, error)
	GetGeneByHugoGeneSymbol(ctx context.Context, hugoGeneSymbol string) (domain.Gene, error)
	GetAliasesOfGene(ctx context.Context, entrezGeneID int64) ([]string, error)
	GetGenesByAlias(ctx context.Context, alias string) ([]domain.Gene, error)

	// Batch lookups silently skip identifiers that match no gene.
	FetchGenesByEntrezGeneIDs(ctx context.Context, entrezGeneIDs []int64, projection domain.Projection) ([]domain.Gene, error)
	FetchGenesByHugoGeneSymbols(ctx context.Context, hugoGeneSymbols []string, projection domain.Projection) ([]domain.Gene, error)
	FetchMetaGenesByEntrezGeneIDs(ctx context.Context, entrezGeneIDs []int64) (domain.BaseMeta, error)
	FetchMetaGenesByHugoGeneSymbols(ctx context.Context, hugoGeneSymbols []string) (domain.BaseMeta, error)
}

// SampleRepository defines the interface for sample reads scoped to a study
type SampleRepository interface {
	GetAllSamplesInStudy(ctx context.Context, studyID string, page domain.PageRequest) ([]domain.Sample, error)
	GetMetaSamplesInStudy(ctx context.Context, studyID string) (domain.BaseMeta, error)
	GetSampleInStudy(ctx context.Context, studyID string, sampleID string) (domain.Sample, error)
}

// CopyNumberSegmentRepository defines the interface for segment reads
type CopyNumberSegmentRepository interface {
	GetCopyNumberSegmentsInSampleInStudy(ctx context.Context, studyID string, sampleID string, page domain.PageRequest) ([]domain.CopyNumberSegment, error)
	GetMetaCopyNumberSegmentsInSampleInStudy(ctx context.Context, studyID string, sampleID string) (domain.BaseMeta, error)
}

// ProteinArrayRepository defines the interface for protein array rows and abundances.
// Rows come back in storage order (array id ascending); callers must not re-sort.
type ProteinArrayRepository interface {
	GetProteinArrayInfo(ctx context.Context, filter domain.ProteinArrayFilter) ([]domain.ProteinArrayInfo, error)
	GetProteinArrayData(ctx context.Context, filter domain.ProteinArrayDataFilter) ([]domain.ProteinArrayData, error)
}

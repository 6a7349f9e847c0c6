// Package memory holds an in-process implementation of the repository
// interfaces. It backs the offline CLI, local development and the contract
// tests that check count/fetch agreement.
package memory

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/repository"
)

var (
	_ repository.StudyRepository             = (*Store)(nil)
	_ repository.GeneRepository              = (*Store)(nil)
	_ repository.SampleRepository            = (*Store)(nil)
	_ repository.CopyNumberSegmentRepository = (*Store)(nil)
	_ repository.ProteinArrayRepository      = (*Store)(nil)
)

type arrayRecord struct {
	info    domain.ProteinArrayInfo
	studies []int
}

type dataRecord struct {
	studyID int
	data    domain.ProteinArrayData
}

// Store keeps every collection in slices guarded by one lock.
type Store struct {
	mu       sync.RWMutex
	studies  []domain.CancerStudy
	genes    []domain.Gene
	aliases  map[int64][]string
	samples  []domain.Sample
	segments []domain.CopyNumberSegment
	arrays   []arrayRecord
	data     []dataRecord
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{aliases: map[int64][]string{}}
}

// AddStudy registers a study and returns it with its internal id assigned.
func (s *Store) AddStudy(study domain.CancerStudy) domain.CancerStudy {
	s.mu.Lock()
	defer s.mu.Unlock()
	if study.InternalID == 0 {
		study.InternalID = len(s.studies) + 1
	}
	s.studies = append(s.studies, study)
	return study
}

// AddGene registers a gene together with its aliases.
func (s *Store) AddGene(gene domain.Gene, aliases ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genes = append(s.genes, gene)
	if len(aliases) > 0 {
		s.aliases[gene.EntrezGeneID] = append(s.aliases[gene.EntrezGeneID], aliases...)
	}
}

// AddSample registers a sample; StudyID must name a known study.
func (s *Store) AddSample(sample domain.Sample) domain.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sample.InternalID == 0 {
		sample.InternalID = len(s.samples) + 1
	}
	s.samples = append(s.samples, sample)
	return sample
}

// AddCopyNumberSegment registers a segment of a sample.
func (s *Store) AddCopyNumberSegment(segment domain.CopyNumberSegment) domain.CopyNumberSegment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if segment.SegmentID == 0 {
		segment.SegmentID = int64(len(s.segments) + 1)
	}
	s.segments = append(s.segments, segment)
	return segment
}

// AddProteinArray registers an array and links it to the given studies by internal id.
func (s *Store) AddProteinArray(info domain.ProteinArrayInfo, studyIDs ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arrays = append(s.arrays, arrayRecord{info: info, studies: studyIDs})
	slices.SortStableFunc(s.arrays, func(a, b arrayRecord) int { return strings.Compare(a.info.ID, b.info.ID) })
}

// AddProteinArrayData appends measurements in load order.
func (s *Store) AddProteinArrayData(studyID int, data ...domain.ProteinArrayData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range data {
		s.data = append(s.data, dataRecord{studyID: studyID, data: d})
	}
}

// ordering describes how a collection sorts: one comparator per sort key plus
// the canonical id comparator that closes every ordering.
type ordering[T any] struct {
	keys map[string]func(a, b T) int
	id   func(a, b T) int
}

// page sorts a copy of items and cuts out the requested page.
func page[T any](items []T, req domain.PageRequest, order ordering[T], project func(T) T) []T {
	primary := order.id
	if req.SortBy != "" {
		primary = order.keys[req.SortBy]
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		c := primary(a, b)
		if req.Descending() {
			c = -c
		}
		if c != 0 {
			return c
		}
		return order.id(a, b)
	})

	out := []T{}
	offset := req.Offset()
	if offset >= len(sorted) || offset < 0 {
		return out
	}
	end := len(sorted)
	if req.PageSize < end-offset {
		end = offset + req.PageSize
	}
	for _, item := range sorted[offset:end] {
		out = append(out, project(item))
	}
	return out
}

func filter[T any](items []T, match func(T) bool) []T {
	out := []T{}
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

func count[T any](items []T, match func(T) bool) domain.BaseMeta {
	total := 0
	for _, item := range items {
		if match(item) {
			total++
		}
	}
	return domain.BaseMeta{TotalCount: total}
}

func compareTime(a, b domain.CancerStudy) int {
	switch {
	case a.ImportDate == nil && b.ImportDate == nil:
		return 0
	case a.ImportDate == nil:
		return 1
	case b.ImportDate == nil:
		return -1
	default:
		return a.ImportDate.Compare(*b.ImportDate)
	}
}

var studyOrdering = ordering[domain.CancerStudy]{
	keys: map[string]func(a, b domain.CancerStudy) int{
		"studyId":      func(a, b domain.CancerStudy) int { return strings.Compare(a.StudyID, b.StudyID) },
		"name":         func(a, b domain.CancerStudy) int { return strings.Compare(a.Name, b.Name) },
		"cancerTypeId": func(a, b domain.CancerStudy) int { return strings.Compare(a.CancerTypeID, b.CancerTypeID) },
		"importDate":   compareTime,
	},
	id: func(a, b domain.CancerStudy) int { return strings.Compare(a.StudyID, b.StudyID) },
}

var geneOrdering = ordering[domain.Gene]{
	keys: map[string]func(a, b domain.Gene) int{
		"entrezGeneId":   func(a, b domain.Gene) int { return cmp.Compare(a.EntrezGeneID, b.EntrezGeneID) },
		"hugoGeneSymbol": func(a, b domain.Gene) int { return strings.Compare(a.HugoGeneSymbol, b.HugoGeneSymbol) },
		"type":           func(a, b domain.Gene) int { return strings.Compare(a.Type, b.Type) },
		"cytoband":       func(a, b domain.Gene) int { return strings.Compare(a.Cytoband, b.Cytoband) },
		"length":         func(a, b domain.Gene) int { return cmp.Compare(a.Length, b.Length) },
	},
	id: func(a, b domain.Gene) int { return cmp.Compare(a.EntrezGeneID, b.EntrezGeneID) },
}

var sampleOrdering = ordering[domain.Sample]{
	keys: map[string]func(a, b domain.Sample) int{
		"sampleId":   func(a, b domain.Sample) int { return strings.Compare(a.SampleID, b.SampleID) },
		"sampleType": func(a, b domain.Sample) int { return strings.Compare(a.SampleType, b.SampleType) },
		"patientId":  func(a, b domain.Sample) int { return strings.Compare(a.PatientID, b.PatientID) },
	},
	id: func(a, b domain.Sample) int { return strings.Compare(a.SampleID, b.SampleID) },
}

var segmentOrdering = ordering[domain.CopyNumberSegment]{
	keys: map[string]func(a, b domain.CopyNumberSegment) int{
		"chromosome":     func(a, b domain.CopyNumberSegment) int { return strings.Compare(a.Chromosome, b.Chromosome) },
		"start":          func(a, b domain.CopyNumberSegment) int { return cmp.Compare(a.Start, b.Start) },
		"end":            func(a, b domain.CopyNumberSegment) int { return cmp.Compare(a.End, b.End) },
		"numberOfProbes": func(a, b domain.CopyNumberSegment) int { return cmp.Compare(a.NumberOfProbes, b.NumberOfProbes) },
		"segmentMean":    func(a, b domain.CopyNumberSegment) int { return cmp.Compare(a.SegmentMean, b.SegmentMean) },
	},
	id: func(a, b domain.CopyNumberSegment) int { return cmp.Compare(a.SegmentID, b.SegmentID) },
}

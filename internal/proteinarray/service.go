// Package proteinarray answers protein array requests: it resolves the study
// and the gene filter, loads array descriptors and abundances, and hands them
// to the matrix materializer.
package proteinarray

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/matrix"
	"github.com/rpattn/portaldata/internal/observability"
	"github.com/rpattn/portaldata/internal/repository"
	"github.com/rpattn/portaldata/internal/resolver"
	"github.com/rpattn/portaldata/internal/studies"
)

const tracerName = "github.com/rpattn/portaldata/proteinarray"

// InfoRequest selects the arrays of a study. Nil Genes means every array;
// Type is a single category, empty for all.
type InfoRequest struct {
	StudyID string
	Genes   []string
	Type    string
}

// DataRequest selects a matrix. ArrayIDs are canonical and skip gene
// resolution; an empty list means every array. Nil CaseIDs derives the
// columns from the data; a non-nil list fixes them verbatim.
type DataRequest struct {
	StudyID          string
	ArrayIDs         []string
	Genes            []string
	Type             string
	CaseIDs          []string
	IncludeArrayInfo bool
}

// Bundle is the consolidated view handed to the materializer.
type Bundle struct {
	Study        domain.CancerStudy
	Arrays       []domain.ProteinArrayInfo
	Measurements []domain.ProteinArrayData
	// Unresolved lists gene tokens that matched no gene.
	Unresolved []string
}

// Service is the protein array facade.
type Service struct {
	studies  repository.StudyRepository
	arrays   repository.ProteinArrayRepository
	resolver *resolver.GeneResolver
	logger   *zap.Logger
}

func NewService(studies repository.StudyRepository, arrays repository.ProteinArrayRepository, geneResolver *resolver.GeneResolver, logger *zap.Logger) *Service {
	return &Service{studies: studies, arrays: arrays, resolver: geneResolver, logger: logger}
}

// arrayFilter resolves the study and the gene tokens into a storage filter.
func (s *Service) arrayFilter(ctx context.Context, studyID string, genes []string, arrayType string) (domain.CancerStudy, domain.ProteinArrayFilter, []string, error) {
	study, err := studies.RequireStudy(ctx, s.studies, studyID)
	if err != nil {
		return domain.CancerStudy{}, domain.ProteinArrayFilter{}, nil, err
	}

	filter := domain.ProteinArrayFilter{StudyID: study.InternalID, Type: arrayType}
	var unresolved []string
	if genes != nil {
		resolution, err := s.resolver.Resolve(ctx, genes)
		if err != nil {
			return domain.CancerStudy{}, domain.ProteinArrayFilter{}, nil, err
		}
		filter.EntrezGeneIDs = resolution.EntrezGeneIDs
		unresolved = resolution.Unresolved
	}
	return study, filter, unresolved, nil
}

// Info lists the arrays of a study in storage order.
func (s *Service) Info(ctx context.Context, req InfoRequest) (arrays []domain.ProteinArrayInfo, unresolved []string, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "proteinarray.Info",
		trace.WithAttributes(attribute.String("study.id", req.StudyID), attribute.String("array.type", req.Type)))
	defer observability.EndSpan(span, &err)

	_, filter, unresolved, err := s.arrayFilter(ctx, req.StudyID, req.Genes, req.Type)
	if err != nil {
		return nil, nil, err
	}
	arrays, err = s.arrays.GetProteinArrayInfo(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	span.SetAttributes(attribute.Int("array.count", len(arrays)))
	return arrays, unresolved, nil
}

// Load gathers the descriptors and sparse measurements of a matrix request.
func (s *Service) Load(ctx context.Context, req DataRequest) (bundle Bundle, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "proteinarray.Load",
		trace.WithAttributes(attribute.String("study.id", req.StudyID), attribute.String("array.type", req.Type)))
	defer observability.EndSpan(span, &err)

	study, filter, unresolved, err := s.arrayFilter(ctx, req.StudyID, req.Genes, req.Type)
	if err != nil {
		return Bundle{}, err
	}
	if len(req.ArrayIDs) > 0 {
		filter.ArrayIDs = req.ArrayIDs
	}

	arrays, err := s.arrays.GetProteinArrayInfo(ctx, filter)
	if err != nil {
		return Bundle{}, err
	}

	ids := make([]string, len(arrays))
	for i, a := range arrays {
		ids[i] = a.ID
	}
	measurements, err := s.arrays.GetProteinArrayData(ctx, domain.ProteinArrayDataFilter{
		StudyID:  study.InternalID,
		ArrayIDs: ids,
		CaseIDs:  req.CaseIDs,
	})
	if err != nil {
		return Bundle{}, err
	}

	span.SetAttributes(attribute.Int("array.count", len(arrays)), attribute.Int("measurement.count", len(measurements)))
	return Bundle{Study: study, Arrays: arrays, Measurements: measurements, Unresolved: unresolved}, nil
}

// Matrix loads a request and materializes it.
func (s *Service) Matrix(ctx context.Context, req DataRequest) (matrix.Table, Bundle, error) {
	bundle, err := s.Load(ctx, req)
	if err != nil {
		return matrix.Table{}, Bundle{}, err
	}

	table := matrix.Build(matrix.Input{
		Rows:               bundle.Arrays,
		Measurements:       bundle.Measurements,
		Columns:            req.CaseIDs,
		IncludeDescriptive: req.IncludeArrayInfo,
	})
	if table.Duplicates > 0 {
		s.logger.Debug("duplicate protein array measurements, last value kept",
			zap.String("study_id", req.StudyID), zap.Int("duplicates", table.Duplicates))
	}
	if skipped := len(bundle.Arrays) - len(table.Rows); skipped > 0 {
		s.logger.Debug("protein arrays without measurements left out",
			zap.String("study_id", req.StudyID), zap.Int("skipped", skipped))
	}
	return table, bundle, nil
}

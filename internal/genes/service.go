package genes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/observability"
	"github.com/rpattn/portaldata/internal/repository"
)

const tracerName = "github.com/rpattn/portaldata/genes"

// Service answers gene reads. Detailed records carry a chromosome derived
// from their cytoband.
type Service struct {
	repo   repository.GeneRepository
	logger *zap.Logger
}

func NewService(repo repository.GeneRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func decorate(genes []domain.Gene, projection domain.Projection) []domain.Gene {
	if projection != domain.ProjectionDetailed {
		return genes
	}
	for i := range genes {
		genes[i] = withChromosome(genes[i])
	}
	return genes
}

func (s *Service) GetAllGenes(ctx context.Context, filter domain.GeneFilter, page domain.PageRequest) (genes []domain.Gene, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "genes.GetAllGenes")
	defer observability.EndSpan(span, &err)

	genes, err = s.repo.GetAllGenes(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return decorate(genes, page.Projection), nil
}

func (s *Service) GetMetaGenes(ctx context.Context, filter domain.GeneFilter) (meta domain.BaseMeta, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "genes.GetMetaGenes")
	defer observability.EndSpan(span, &err)
	return s.repo.GetMetaGenes(ctx, filter)
}

// GetGene looks a gene up by Entrez id when geneID is numeric and by HUGO
// symbol otherwise. A miss is a GeneNotFound error.
func (s *Service) GetGene(ctx context.Context, geneID string) (gene domain.Gene, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "genes.GetGene",
		trace.WithAttributes(attribute.String("gene.id", geneID)))
	defer observability.EndSpan(span, &err)

	token := strings.TrimSpace(geneID)
	if entrez, parseErr := strconv.ParseInt(token, 10, 64); parseErr == nil {
		gene, err = s.repo.GetGeneByEntrezGeneID(ctx, entrez)
	} else {
		gene, err = s.repo.GetGeneByHugoGeneSymbol(ctx, token)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Gene{}, domain.GeneNotFound(geneID)
	}
	if err != nil {
		return domain.Gene{}, err
	}
	return withChromosome(gene), nil
}

// GetAliasesOfGene lists the aliases of the gene named by geneID.
func (s *Service) GetAliasesOfGene(ctx context.Context, geneID string) (aliases []string, err error) {
	gene, err := s.GetGene(ctx, geneID)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, tracerName, "genes.GetAliasesOfGene")
	defer observability.EndSpan(span, &err)
	return s.repo.GetAliasesOfGene(ctx, gene.EntrezGeneID)
}

func parseEntrezIDs(geneIDs []string) ([]int64, error) {
	ids := make([]int64, 0, len(geneIDs))
	for _, raw := range geneIDs {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an entrez gene id", domain.ErrInvalidArgument, raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FetchGenes returns the genes named by geneIDs in the given identifier
// space. Identifiers that match nothing are skipped.
func (s *Service) FetchGenes(ctx context.Context, geneIDs []string, idType domain.GeneIDType, projection domain.Projection) (genes []domain.Gene, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "genes.FetchGenes",
		trace.WithAttributes(attribute.String("gene.id_type", string(idType)), attribute.Int("gene.ids", len(geneIDs))))
	defer observability.EndSpan(span, &err)

	switch idType {
	case domain.GeneIDTypeEntrez:
		ids, parseErr := parseEntrezIDs(geneIDs)
		if parseErr != nil {
			return nil, parseErr
		}
		genes, err = s.repo.FetchGenesByEntrezGeneIDs(ctx, ids, projection)
	case domain.GeneIDTypeHugo:
		genes, err = s.repo.FetchGenesByHugoGeneSymbols(ctx, geneIDs, projection)
	default:
		return nil, fmt.Errorf("%w: unknown gene id type %q", domain.ErrInvalidArgument, idType)
	}
	if err != nil {
		return nil, err
	}
	if len(genes) < len(geneIDs) {
		s.logger.Debug("some requested genes were not found",
			zap.Int("requested", len(geneIDs)), zap.Int("found", len(genes)))
	}
	return decorate(genes, projection), nil
}

// FetchMetaGenes counts the genes FetchGenes would return.
func (s *Service) FetchMetaGenes(ctx context.Context, geneIDs []string, idType domain.GeneIDType) (meta domain.BaseMeta, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "genes.FetchMetaGenes")
	defer observability.EndSpan(span, &err)

	switch idType {
	case domain.GeneIDTypeEntrez:
		ids, parseErr := parseEntrezIDs(geneIDs)
		if parseErr != nil {
			return domain.BaseMeta{}, parseErr
		}
		return s.repo.FetchMetaGenesByEntrezGeneIDs(ctx, ids)
	case domain.GeneIDTypeHugo:
		return s.repo.FetchMetaGenesByHugoGeneSymbols(ctx, geneIDs)
	default:
		return domain.BaseMeta{}, fmt.Errorf("%w: unknown gene id type %q", domain.ErrInvalidArgument, idType)
	}
}

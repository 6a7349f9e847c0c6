package memory

import (
	"context"
	"slices"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/repository"
)

func (s *Store) hasAlias(entrezGeneID int64, alias string) bool {
	for _, a := range s.aliases[entrezGeneID] {
		if domain.NormalizeSymbol(a) == alias {
			return true
		}
	}
	return false
}

func (s *Store) geneMatcher(f domain.GeneFilter) func(domain.Gene) bool {
	alias := domain.NormalizeSymbol(f.Alias)
	return func(g domain.Gene) bool {
		return alias == "" || s.hasAlias(g.EntrezGeneID, alias)
	}
}

func (s *Store) sortedGenes(match func(domain.Gene) bool, projection domain.Projection) []domain.Gene {
	return page(filter(s.genes, match), domain.DefaultPageRequest(projection), geneOrdering,
		func(g domain.Gene) domain.Gene { return g.Project(projection) })
}

func (s *Store) GetAllGenes(_ context.Context, f domain.GeneFilter, req domain.PageRequest) ([]domain.Gene, error) {
	if err := repository.CheckPage(req, repository.GeneSortKeys); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(filter(s.genes, s.geneMatcher(f)), req, geneOrdering, func(g domain.Gene) domain.Gene { return g.Project(req.Projection) }), nil
}

func (s *Store) GetMetaGenes(_ context.Context, f domain.GeneFilter) (domain.BaseMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return count(s.genes, s.geneMatcher(f)), nil
}

func (s *Store) GetGeneByEntrezGeneID(_ context.Context, entrezGeneID int64) (domain.Gene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.genes {
		if g.EntrezGeneID == entrezGeneID {
			return g, nil
		}
	}
	return domain.Gene{}, repository.ErrNotFound
}

func (s *Store) GetGeneByHugoGeneSymbol(_ context.Context, hugoGeneSymbol string) (domain.Gene, error) {
	symbol := domain.NormalizeSymbol(hugoGeneSymbol)
	s.mu.RLock()
	defer s.mu.RUnlock()
	genes := s.sortedGenes(func(g domain.Gene) bool { return domain.NormalizeSymbol(g.HugoGeneSymbol) == symbol }, domain.ProjectionDetailed)
	if len(genes) == 0 {
		return domain.Gene{}, repository.ErrNotFound
	}
	return genes[0], nil
}

func (s *Store) GetAliasesOfGene(_ context.Context, entrezGeneID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	aliases := slices.Clone(s.aliases[entrezGeneID])
	slices.Sort(aliases)
	if aliases == nil {
		aliases = []string{}
	}
	return aliases, nil
}

func (s *Store) GetGenesByAlias(_ context.Context, alias string) ([]domain.Gene, error) {
	normalized := domain.NormalizeSymbol(alias)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedGenes(func(g domain.Gene) bool { return s.hasAlias(g.EntrezGeneID, normalized) }, domain.ProjectionDetailed), nil
}

func entrezMatcher(ids []int64) func(domain.Gene) bool {
	return func(g domain.Gene) bool { return slices.Contains(ids, g.EntrezGeneID) }
}

func symbolMatcher(symbols []string) func(domain.Gene) bool {
	normalized := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		normalized = append(normalized, domain.NormalizeSymbol(symbol))
	}
	return func(g domain.Gene) bool {
		return slices.Contains(normalized, domain.NormalizeSymbol(g.HugoGeneSymbol))
	}
}

func (s *Store) FetchGenesByEntrezGeneIDs(_ context.Context, entrezGeneIDs []int64, projection domain.Projection) ([]domain.Gene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedGenes(entrezMatcher(entrezGeneIDs), projection), nil
}

func (s *Store) FetchGenesByHugoGeneSymbols(_ context.Context, hugoGeneSymbols []string, projection domain.Projection) ([]domain.Gene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedGenes(symbolMatcher(hugoGeneSymbols), projection), nil
}

func (s *Store) FetchMetaGenesByEntrezGeneIDs(_ context.Context, entrezGeneIDs []int64) (domain.BaseMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return count(s.genes, entrezMatcher(entrezGeneIDs)), nil
}

func (s *Store) FetchMetaGenesByHugoGeneSymbols(_ context.Context, hugoGeneSymbols []string) (domain.BaseMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return count(s.genes, symbolMatcher(hugoGeneSymbols)), nil
}

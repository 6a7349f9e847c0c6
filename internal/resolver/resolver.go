// Package resolver maps caller supplied gene tokens (HUGO symbols, aliases or
// Entrez ids, mixed freely) onto canonical Entrez gene ids.
package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/repository"
)

// Resolution is the outcome of resolving a token list. Unresolved tokens are
// reported here and never as an error.
type Resolution struct {
	EntrezGeneIDs []int64
	Unresolved    []string
}

// GeneResolver resolves gene tokens against a GeneRepository.
type GeneResolver struct {
	genes  repository.GeneRepository
	logger *zap.Logger
}

// NewGeneResolver creates a new gene resolver
func NewGeneResolver(genes repository.GeneRepository, logger *zap.Logger) *GeneResolver {
	return &GeneResolver{genes: genes, logger: logger}
}

// Resolve maps every token to a canonical id. A numeric token is tried as an
// Entrez id first and as a symbol second; a symbol that misses falls back to
// an alias owned by exactly one gene. Blank tokens are ignored. The returned
// ids are de-duplicated in first-seen order. Only storage failures are
// returned as errors.
func (r *GeneResolver) Resolve(ctx context.Context, tokens []string) (Resolution, error) {
	cleaned := make([]string, 0, len(tokens))
	var numeric, symbols []string
	seenNumeric := map[string]bool{}
	seenSymbol := map[string]bool{}
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		cleaned = append(cleaned, token)
		if id, err := strconv.ParseInt(token, 10, 64); err == nil {
			key := strconv.FormatInt(id, 10)
			if !seenNumeric[key] {
				seenNumeric[key] = true
				numeric = append(numeric, key)
			}
		}
		if symbol := domain.NormalizeSymbol(token); !seenSymbol[symbol] {
			seenSymbol[symbol] = true
			symbols = append(symbols, symbol)
		}
	}

	byEntrez, err := loadGenes(ctx, entrezBatch(r.genes), numeric)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to resolve entrez gene ids: %w", err)
	}

	// Symbols only need a lookup when the token did not already hit as an id.
	pending := symbols[:0:0]
	for _, symbol := range symbols {
		if _, hit := byEntrez[symbol]; !hit {
			pending = append(pending, symbol)
		}
	}
	bySymbol, err := loadGenes(ctx, symbolBatch(r.genes), pending)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to resolve gene symbols: %w", err)
	}

	byAlias := map[string]domain.Gene{}
	for _, symbol := range pending {
		if _, hit := bySymbol[symbol]; hit {
			continue
		}
		genes, err := r.genes.GetGenesByAlias(ctx, symbol)
		if err != nil {
			return Resolution{}, fmt.Errorf("failed to resolve gene alias %q: %w", symbol, err)
		}
		if len(genes) == 1 {
			byAlias[symbol] = genes[0]
		}
	}

	resolution := Resolution{EntrezGeneIDs: []int64{}}
	emitted := map[int64]bool{}
	for _, token := range cleaned {
		gene, ok := lookup(token, byEntrez, bySymbol, byAlias)
		if !ok {
			resolution.Unresolved = append(resolution.Unresolved, token)
			continue
		}
		if !emitted[gene.EntrezGeneID] {
			emitted[gene.EntrezGeneID] = true
			resolution.EntrezGeneIDs = append(resolution.EntrezGeneIDs, gene.EntrezGeneID)
		}
	}

	if len(resolution.Unresolved) > 0 {
		r.logger.Debug("dropped unresolved gene tokens",
			zap.Strings("tokens", resolution.Unresolved),
			zap.Int("resolved", len(resolution.EntrezGeneIDs)),
		)
	}
	return resolution, nil
}

func lookup(token string, byEntrez, bySymbol, byAlias map[string]domain.Gene) (domain.Gene, bool) {
	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		if g, ok := byEntrez[strconv.FormatInt(id, 10)]; ok {
			return g, true
		}
	}
	symbol := domain.NormalizeSymbol(token)
	if g, ok := bySymbol[symbol]; ok {
		return g, true
	}
	g, ok := byAlias[symbol]
	return g, ok
}

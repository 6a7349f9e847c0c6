package resolver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/graph-gophers/dataloader"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/repository"
)

// newGeneLoader builds a single-use loader whose batch holds exactly the keys
// of one resolution, so it dispatches as soon as they are queued. Nothing is
// cached between calls.
func newGeneLoader(batchFn dataloader.BatchFunc, keys int) *dataloader.Loader {
	return dataloader.NewBatchedLoader(batchFn,
		dataloader.WithBatchCapacity(keys),
		dataloader.WithWait(time.Millisecond),
		dataloader.WithCache(&dataloader.NoCache{}),
	)
}

func failAll(keys dataloader.Keys, err error) []*dataloader.Result {
	results := make([]*dataloader.Result, len(keys))
	for i := range results {
		results[i] = &dataloader.Result{Error: err}
	}
	return results
}

// entrezBatch looks genes up by canonical id. Keys that match nothing resolve to nil.
func entrezBatch(repo repository.GeneRepository) dataloader.BatchFunc {
	return func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := make([]int64, len(keys))
		for i, k := range keys {
			id, err := strconv.ParseInt(k.String(), 10, 64)
			if err != nil {
				return failAll(keys, fmt.Errorf("invalid entrez gene id %q: %w", k.String(), err))
			}
			ids[i] = id
		}

		genes, err := repo.FetchGenesByEntrezGeneIDs(ctx, ids, domain.ProjectionSummary)
		if err != nil {
			return failAll(keys, err)
		}

		byID := make(map[int64]domain.Gene, len(genes))
		for _, g := range genes {
			byID[g.EntrezGeneID] = g
		}

		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			if g, ok := byID[id]; ok {
				results[i] = &dataloader.Result{Data: g}
			} else {
				results[i] = &dataloader.Result{Data: nil}
			}
		}
		return results
	}
}

// symbolBatch looks genes up by upper-cased HUGO symbol. When several genes
// share a symbol the lowest entrez id wins.
func symbolBatch(repo repository.GeneRepository) dataloader.BatchFunc {
	return func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		genes, err := repo.FetchGenesByHugoGeneSymbols(ctx, keys.Keys(), domain.ProjectionSummary)
		if err != nil {
			return failAll(keys, err)
		}

		bySymbol := make(map[string]domain.Gene, len(genes))
		for _, g := range genes {
			symbol := domain.NormalizeSymbol(g.HugoGeneSymbol)
			if current, ok := bySymbol[symbol]; !ok || g.EntrezGeneID < current.EntrezGeneID {
				bySymbol[symbol] = g
			}
		}

		results := make([]*dataloader.Result, len(keys))
		for i, k := range keys {
			if g, ok := bySymbol[k.String()]; ok {
				results[i] = &dataloader.Result{Data: g}
			} else {
				results[i] = &dataloader.Result{Data: nil}
			}
		}
		return results
	}
}

// loadGenes runs keys through a fresh loader and returns hits by key.
func loadGenes(ctx context.Context, batchFn dataloader.BatchFunc, keys []string) (map[string]domain.Gene, error) {
	found := map[string]domain.Gene{}
	if len(keys) == 0 {
		return found, nil
	}
	loader := newGeneLoader(batchFn, len(keys))
	data, errs := loader.LoadMany(ctx, dataloader.NewKeysFromStrings(keys))()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for i, item := range data {
		if g, ok := item.(domain.Gene); ok {
			found[keys[i]] = g
		}
	}
	return found, nil
}

package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/repository"
	"github.com/rpattn/portaldata/internal/repository/memory"
)

func newStore() *memory.Store {
	store := memory.NewStore()
	store.AddGene(domain.Gene{EntrezGeneID: 7157, HugoGeneSymbol: "TP53", Type: "protein-coding"}, "P53")
	store.AddGene(domain.Gene{EntrezGeneID: 1956, HugoGeneSymbol: "EGFR", Type: "protein-coding"}, "HER1")
	store.AddGene(domain.Gene{EntrezGeneID: 207, HugoGeneSymbol: "AKT1", Type: "protein-coding"}, "RAC")
	store.AddGene(domain.Gene{EntrezGeneID: 208, HugoGeneSymbol: "AKT2", Type: "protein-coding"}, "RAC")
	// A symbol that looks like an id.
	store.AddGene(domain.Gene{EntrezGeneID: 55, HugoGeneSymbol: "404", Type: "other"})
	return store
}

func TestResolveToleratesUnknownTokens(t *testing.T) {
	r := NewGeneResolver(newStore(), zap.NewNop())

	resolution, err := r.Resolve(context.Background(), []string{"TP53", "NOT_A_GENE"})
	require.NoError(t, err)
	assert.Equal(t, []int64{7157}, resolution.EntrezGeneIDs)
	assert.Equal(t, []string{"NOT_A_GENE"}, resolution.Unresolved)
}

func TestResolveMixedIdentifierSpaces(t *testing.T) {
	r := NewGeneResolver(newStore(), zap.NewNop())

	resolution, err := r.Resolve(context.Background(), []string{" egfr ", "7157", "", "p53", "1956", "404", "RAC", "999999"})
	require.NoError(t, err)

	// p53 resolves through its alias onto TP53, which was already emitted.
	// 404 misses as an id and hits as a symbol. RAC is ambiguous.
	assert.Equal(t, []int64{1956, 7157, 55}, resolution.EntrezGeneIDs)
	assert.Equal(t, []string{"RAC", "999999"}, resolution.Unresolved)
}

func TestResolveNothing(t *testing.T) {
	r := NewGeneResolver(newStore(), zap.NewNop())

	resolution, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resolution.EntrezGeneIDs)
	assert.NotNil(t, resolution.EntrezGeneIDs)
	assert.Empty(t, resolution.Unresolved)
}

type failingGenes struct {
	repository.GeneRepository
	err error
}

func (f failingGenes) FetchGenesByEntrezGeneIDs(context.Context, []int64, domain.Projection) ([]domain.Gene, error) {
	return nil, f.err
}

func (f failingGenes) FetchGenesByHugoGeneSymbols(context.Context, []string, domain.Projection) ([]domain.Gene, error) {
	return nil, f.err
}

func TestResolvePropagatesStorageFailure(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewGeneResolver(failingGenes{err: boom}, zap.NewNop())

	_, err := r.Resolve(context.Background(), []string{"7157"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	_, err = r.Resolve(context.Background(), []string{"TP53"})
	assert.ErrorIs(t, err, boom)
}

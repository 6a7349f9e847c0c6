package domain

import (
	"fmt"
	"strings"
)

// Gene is identified canonically by its Entrez id and symbolically by its HUGO symbol.
type Gene struct {
	EntrezGeneID   int64  `json:"entrezGeneId"`
	HugoGeneSymbol string `json:"hugoGeneSymbol,omitempty"`
	Type           string `json:"type,omitempty"`
	Cytoband       string `json:"cytoband,omitempty"`
	Length         int    `json:"length,omitempty"`
	Chromosome     string `json:"chromosome,omitempty"`
}

// GeneIDType names the identifier space of a gene id list.
type GeneIDType string

const (
	GeneIDTypeEntrez GeneIDType = "ENTREZ_GENE_ID"
	GeneIDTypeHugo   GeneIDType = "HUGO_GENE_SYMBOL"
)

// ParseGeneIDType accepts the two supported identifier spaces. Empty input yields ENTREZ_GENE_ID.
func ParseGeneIDType(raw string) (GeneIDType, error) {
	switch GeneIDType(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", GeneIDTypeEntrez:
		return GeneIDTypeEntrez, nil
	case GeneIDTypeHugo:
		return GeneIDTypeHugo, nil
	default:
		return "", fmt.Errorf("%w: unknown gene id type %q", ErrInvalidArgument, raw)
	}
}

// GeneFilter restricts gene listings to genes carrying the given alias.
type GeneFilter struct {
	Alias string
}

// NormalizeSymbol upper-cases a symbol for case-insensitive lookups.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Project keeps only the fields populated by the given projection.
func (g Gene) Project(p Projection) Gene {
	switch p {
	case ProjectionID:
		return Gene{EntrezGeneID: g.EntrezGeneID}
	case ProjectionSummary:
		return Gene{EntrezGeneID: g.EntrezGeneID, HugoGeneSymbol: g.HugoGeneSymbol, Type: g.Type}
	default:
		return g
	}
}

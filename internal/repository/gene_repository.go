package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rpattn/portaldata/internal/domain"
)

const geneFrom = "gene g"

var geneSortColumns = map[string]string{
	"entrezGeneId":   "g.entrez_gene_id",
	"hugoGeneSymbol": "g.hugo_gene_symbol",
	"type":           "g.type",
	"cytoband":       "g.cytoband",
	"length":         "g.length",
}

// geneRepository implements GeneRepository interface
type geneRepository struct {
	db DBTX
}

// NewGeneRepository creates a new gene repository
func NewGeneRepository(db DBTX) GeneRepository {
	return &geneRepository{db: db}
}

func geneColumns(projection domain.Projection) string {
	switch projection {
	case domain.ProjectionID:
		return "g.entrez_gene_id"
	case domain.ProjectionSummary:
		return "g.entrez_gene_id, g.hugo_gene_symbol, g.type"
	default:
		return "g.entrez_gene_id, g.hugo_gene_symbol, g.type, g.cytoband, g.length"
	}
}

func scanGene(row pgx.Row, projection domain.Projection) (domain.Gene, error) {
	var (
		gene     domain.Gene
		hugo     pgtype.Text
		geneType pgtype.Text
		cytoband pgtype.Text
		length   pgtype.Int4
	)
	dest := []any{&gene.EntrezGeneID}
	if projection != domain.ProjectionID {
		dest = append(dest, &hugo, &geneType)
	}
	if projection == domain.ProjectionDetailed {
		dest = append(dest, &cytoband, &length)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Gene{}, err
	}
	gene.HugoGeneSymbol = hugo.String
	gene.Type = geneType.String
	gene.Cytoband = cytoband.String
	if length.Valid {
		gene.Length = int(length.Int32)
	}
	return gene, nil
}

func (r *geneRepository) queryGenes(ctx context.Context, projection domain.Projection, sql string, args ...any) ([]domain.Gene, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genes := []domain.Gene{}
	for rows.Next() {
		gene, scanErr := scanGene(rows, projection)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan gene: %w", scanErr)
		}
		genes = append(genes, gene)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return genes, nil
}

func geneFilterQuery(filter domain.GeneFilter) *queryBuilder {
	b := &queryBuilder{}
	if alias := domain.NormalizeSymbol(filter.Alias); alias != "" {
		b.where(fmt.Sprintf("g.entrez_gene_id IN (SELECT a.entrez_gene_id FROM gene_alias a WHERE upper(a.gene_alias) = %s)", b.arg(alias)))
	}
	return b
}

// GetAllGenes retrieves one page of genes
func (r *geneRepository) GetAllGenes(ctx context.Context, filter domain.GeneFilter, page domain.PageRequest) ([]domain.Gene, error) {
	if err := CheckPage(page, GeneSortKeys); err != nil {
		return nil, err
	}
	b := geneFilterQuery(filter)
	paging, err := b.pageClause(page, geneSortColumns, "g.entrez_gene_id")
	if err != nil {
		return nil, err
	}
	genes, err := r.queryGenes(ctx, page.Projection, "SELECT "+geneColumns(page.Projection)+" FROM "+geneFrom+b.whereClause()+paging, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list genes: %w", err)
	}
	return genes, nil
}

// GetMetaGenes counts the genes matching the filter
func (r *geneRepository) GetMetaGenes(ctx context.Context, filter domain.GeneFilter) (domain.BaseMeta, error) {
	meta, err := geneFilterQuery(filter).count(ctx, r.db, geneFrom)
	if err != nil {
		return domain.BaseMeta{}, fmt.Errorf("failed to count genes: %w", err)
	}
	return meta, nil
}

// GetGeneByEntrezGeneID retrieves a gene by its canonical id
func (r *geneRepository) GetGeneByEntrezGeneID(ctx context.Context, entrezGeneID int64) (domain.Gene, error) {
	sql := "SELECT " + geneColumns(domain.ProjectionDetailed) + " FROM " + geneFrom + " WHERE g.entrez_gene_id = $1"
	gene, err := scanGene(r.db.QueryRow(ctx, sql, entrezGeneID), domain.ProjectionDetailed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Gene{}, ErrNotFound
		}
		return domain.Gene{}, fmt.Errorf("failed to get gene by entrez id: %w", err)
	}
	return gene, nil
}

// GetGeneByHugoGeneSymbol retrieves a gene by symbol, ignoring case
func (r *geneRepository) GetGeneByHugoGeneSymbol(ctx context.Context, hugoGeneSymbol string) (domain.Gene, error) {
	sql := "SELECT " + geneColumns(domain.ProjectionDetailed) + " FROM " + geneFrom +
		" WHERE upper(g.hugo_gene_symbol) = $1 ORDER BY g.entrez_gene_id LIMIT 1"
	gene, err := scanGene(r.db.QueryRow(ctx, sql, domain.NormalizeSymbol(hugoGeneSymbol)), domain.ProjectionDetailed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Gene{}, ErrNotFound
		}
		return domain.Gene{}, fmt.Errorf("failed to get gene by symbol: %w", err)
	}
	return gene, nil
}

// GetAliasesOfGene lists the aliases recorded for a gene
func (r *geneRepository) GetAliasesOfGene(ctx context.Context, entrezGeneID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT gene_alias FROM gene_alias WHERE entrez_gene_id = $1 ORDER BY gene_alias`, entrezGeneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gene aliases: %w", err)
	}
	aliases, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan gene aliases: %w", err)
	}
	return aliases, nil
}

// GetGenesByAlias lists every gene that carries the alias
func (r *geneRepository) GetGenesByAlias(ctx context.Context, alias string) ([]domain.Gene, error) {
	sql := "SELECT " + geneColumns(domain.ProjectionDetailed) + " FROM " + geneFrom +
		" JOIN gene_alias a ON a.entrez_gene_id = g.entrez_gene_id WHERE upper(a.gene_alias) = $1 ORDER BY g.entrez_gene_id"
	genes, err := r.queryGenes(ctx, domain.ProjectionDetailed, sql, domain.NormalizeSymbol(alias))
	if err != nil {
		return nil, fmt.Errorf("failed to get genes by alias: %w", err)
	}
	return genes, nil
}

// FetchGenesByEntrezGeneIDs retrieves the genes whose ids are listed
func (r *geneRepository) FetchGenesByEntrezGeneIDs(ctx context.Context, entrezGeneIDs []int64, projection domain.Projection) ([]domain.Gene, error) {
	if len(entrezGeneIDs) == 0 {
		return []domain.Gene{}, nil
	}
	sql := "SELECT " + geneColumns(projection) + " FROM " + geneFrom + " WHERE g.entrez_gene_id = ANY($1) ORDER BY g.entrez_gene_id"
	genes, err := r.queryGenes(ctx, projection, sql, entrezGeneIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genes by entrez ids: %w", err)
	}
	return genes, nil
}

// FetchGenesByHugoGeneSymbols retrieves the genes whose symbols are listed
func (r *geneRepository) FetchGenesByHugoGeneSymbols(ctx context.Context, hugoGeneSymbols []string, projection domain.Projection) ([]domain.Gene, error) {
	symbols := normalizeSymbols(hugoGeneSymbols)
	if len(symbols) == 0 {
		return []domain.Gene{}, nil
	}
	sql := "SELECT " + geneColumns(projection) + " FROM " + geneFrom + " WHERE upper(g.hugo_gene_symbol) = ANY($1) ORDER BY g.entrez_gene_id"
	genes, err := r.queryGenes(ctx, projection, sql, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genes by symbols: %w", err)
	}
	return genes, nil
}

// FetchMetaGenesByEntrezGeneIDs counts the genes whose ids are listed
func (r *geneRepository) FetchMetaGenesByEntrezGeneIDs(ctx context.Context, entrezGeneIDs []int64) (domain.BaseMeta, error) {
	if len(entrezGeneIDs) == 0 {
		return domain.BaseMeta{}, nil
	}
	b := &queryBuilder{}
	b.where("g.entrez_gene_id = ANY(" + b.arg(entrezGeneIDs) + ")")
	meta, err := b.count(ctx, r.db, geneFrom)
	if err != nil {
		return domain.BaseMeta{}, fmt.Errorf("failed to count genes by entrez ids: %w", err)
	}
	return meta, nil
}

// FetchMetaGenesByHugoGeneSymbols counts the genes whose symbols are listed
func (r *geneRepository) FetchMetaGenesByHugoGeneSymbols(ctx context.Context, hugoGeneSymbols []string) (domain.BaseMeta, error) {
	symbols := normalizeSymbols(hugoGeneSymbols)
	if len(symbols) == 0 {
		return domain.BaseMeta{}, nil
	}
	b := &queryBuilder{}
	b.where("upper(g.hugo_gene_symbol) = ANY(" + b.arg(symbols) + ")")
	meta, err := b.count(ctx, r.db, geneFrom)
	if err != nil {
		return domain.BaseMeta{}, fmt.Errorf("failed to count genes by symbols: %w", err)
	}
	return meta, nil
}

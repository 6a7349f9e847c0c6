package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rpattn/portaldata/internal/domain"
)

// proteinArrayRepository implements ProteinArrayRepository interface
type proteinArrayRepository struct {
	db DBTX
}

// NewProteinArrayRepository creates a new protein array repository
func NewProteinArrayRepository(db DBTX) ProteinArrayRepository {
	return &proteinArrayRepository{db: db}
}

// GetProteinArrayInfo lists the arrays of a study in array id order
func (r *proteinArrayRepository) GetProteinArrayInfo(ctx context.Context, filter domain.ProteinArrayFilter) ([]domain.ProteinArrayInfo, error) {
	if (filter.ArrayIDs != nil && len(filter.ArrayIDs) == 0) || (filter.EntrezGeneIDs != nil && len(filter.EntrezGeneIDs) == 0) {
		return []domain.ProteinArrayInfo{}, nil
	}

	b := &queryBuilder{}
	b.where("pa.protein_array_id IN (SELECT pcs.protein_array_id FROM protein_array_cancer_study pcs WHERE pcs.cancer_study_id = " + b.arg(filter.StudyID) + ")")
	if filter.ArrayIDs != nil {
		b.where("pa.protein_array_id = ANY(" + b.arg(filter.ArrayIDs) + ")")
	}
	if filter.EntrezGeneIDs != nil {
		b.where("pa.protein_array_id IN (SELECT pt.protein_array_id FROM protein_array_target pt WHERE pt.entrez_gene_id = ANY(" + b.arg(filter.EntrezGeneIDs) + "))")
	}
	if filter.Type != "" {
		b.where("pa.type = " + b.arg(filter.Type))
	}

	sql := "SELECT pa.protein_array_id, pa.type, pa.gene_symbol, pa.target_residue, pa.source, pa.validated FROM protein_array_info pa" +
		b.whereClause() + " ORDER BY pa.protein_array_id"
	rows, err := r.db.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list protein arrays: %w", err)
	}
	defer rows.Close()

	infos := []domain.ProteinArrayInfo{}
	index := map[string]int{}
	for rows.Next() {
		var (
			info      domain.ProteinArrayInfo
			residue   pgtype.Text
			source    pgtype.Text
			validated pgtype.Bool
		)
		if scanErr := rows.Scan(&info.ID, &info.Type, &info.Gene, &residue, &source, &validated); scanErr != nil {
			return nil, fmt.Errorf("failed to scan protein array: %w", scanErr)
		}
		info.Residue = residue.String
		info.Source = source.String
		info.Validated = validated.Bool
		index[info.ID] = len(infos)
		infos = append(infos, info)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate protein arrays: %w", rowsErr)
	}
	if len(infos) == 0 {
		return infos, nil
	}

	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	targets, err := r.db.Query(ctx, `SELECT protein_array_id, entrez_gene_id FROM protein_array_target
		WHERE protein_array_id = ANY($1) ORDER BY protein_array_id, entrez_gene_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list protein array targets: %w", err)
	}
	defer targets.Close()
	for targets.Next() {
		var (
			arrayID string
			entrez  int64
		)
		if scanErr := targets.Scan(&arrayID, &entrez); scanErr != nil {
			return nil, fmt.Errorf("failed to scan protein array target: %w", scanErr)
		}
		if i, ok := index[arrayID]; ok {
			infos[i].EntrezGeneIDs = append(infos[i].EntrezGeneIDs, entrez)
		}
	}
	if rowsErr := targets.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate protein array targets: %w", rowsErr)
	}
	return infos, nil
}

// GetProteinArrayData lists abundance measurements in load order
func (r *proteinArrayRepository) GetProteinArrayData(ctx context.Context, filter domain.ProteinArrayDataFilter) ([]domain.ProteinArrayData, error) {
	if len(filter.ArrayIDs) == 0 || (filter.CaseIDs != nil && len(filter.CaseIDs) == 0) {
		return []domain.ProteinArrayData{}, nil
	}

	b := &queryBuilder{}
	b.where("d.cancer_study_id = " + b.arg(filter.StudyID))
	b.where("d.protein_array_id = ANY(" + b.arg(filter.ArrayIDs) + ")")
	if filter.CaseIDs != nil {
		b.where("d.case_id = ANY(" + b.arg(filter.CaseIDs) + ")")
	}

	rows, err := r.db.Query(ctx, "SELECT d.protein_array_id, d.case_id, d.abundance FROM protein_array_data d"+b.whereClause()+" ORDER BY d.data_id", b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list protein array data: %w", err)
	}
	defer rows.Close()

	data := []domain.ProteinArrayData{}
	for rows.Next() {
		var item domain.ProteinArrayData
		if scanErr := rows.Scan(&item.ArrayID, &item.CaseID, &item.Abundance); scanErr != nil {
			return nil, fmt.Errorf("failed to scan protein array data: %w", scanErr)
		}
		data = append(data, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate protein array data: %w", rowsErr)
	}
	return data, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rpattn/portaldata/internal/domain"
)

const studyFrom = "cancer_study cs"

var studySortColumns = map[string]string{
	"studyId":      "cs.cancer_study_identifier",
	"name":         "cs.name",
	"cancerTypeId": "cs.type_of_cancer_id",
	"importDate":   "cs.import_date",
}

// studyRepository implements StudyRepository interface
type studyRepository struct {
	db DBTX
}

// NewStudyRepository creates a new study repository
func NewStudyRepository(db DBTX) StudyRepository {
	return &studyRepository{db: db}
}

func studyFilterQuery(filter domain.StudyFilter) *queryBuilder {
	b := &queryBuilder{}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		p := b.arg(likePattern(keyword))
		b.where(fmt.Sprintf("(cs.cancer_study_identifier ILIKE %s OR cs.name ILIKE %s)", p, p))
	}
	return b
}

func studyColumns(projection domain.Projection) string {
	switch projection {
	case domain.ProjectionID:
		return "cs.cancer_study_id, cs.cancer_study_identifier"
	case domain.ProjectionSummary:
		return "cs.cancer_study_id, cs.cancer_study_identifier, cs.name, cs.description, cs.type_of_cancer_id, cs.public"
	default:
		return "cs.cancer_study_id, cs.cancer_study_identifier, cs.name, cs.description, cs.type_of_cancer_id, cs.public, cs.pmid, cs.citation, cs.import_date"
	}
}

func scanStudy(row pgx.Row, projection domain.Projection) (domain.CancerStudy, error) {
	var (
		study        domain.CancerStudy
		name         pgtype.Text
		description  pgtype.Text
		cancerTypeID pgtype.Text
		public       pgtype.Bool
		pmid         pgtype.Text
		citation     pgtype.Text
		importDate   pgtype.Timestamptz
	)
	dest := []any{&study.InternalID, &study.StudyID}
	if projection != domain.ProjectionID {
		dest = append(dest, &name, &description, &cancerTypeID, &public)
	}
	if projection == domain.ProjectionDetailed {
		dest = append(dest, &pmid, &citation, &importDate)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.CancerStudy{}, err
	}
	study.Name = name.String
	study.Description = description.String
	study.CancerTypeID = cancerTypeID.String
	study.PublicStudy = public.Bool
	study.PMID = pmid.String
	study.Citation = citation.String
	if importDate.Valid {
		value := importDate.Time
		study.ImportDate = &value
	}
	return study, nil
}

// GetAllStudies retrieves one page of studies
func (r *studyRepository) GetAllStudies(ctx context.Context, filter domain.StudyFilter, page domain.PageRequest) ([]domain.CancerStudy, error) {
	if err := CheckPage(page, StudySortKeys); err != nil {
		return nil, err
	}
	b := studyFilterQuery(filter)
	paging, err := b.pageClause(page, studySortColumns, "cs.cancer_study_identifier")
	if err != nil {
		return nil, err
	}
	sql := "SELECT " + studyColumns(page.Projection) + " FROM " + studyFrom + b.whereClause() + paging

	rows, err := r.db.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list studies: %w", err)
	}
	defer rows.Close()

	studies := []domain.CancerStudy{}
	for rows.Next() {
		study, scanErr := scanStudy(rows, page.Projection)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan study: %w", scanErr)
		}
		studies = append(studies, study)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate studies: %w", rowsErr)
	}
	return studies, nil
}

// GetMetaStudies counts the studies matching the filter
func (r *studyRepository) GetMetaStudies(ctx context.Context, filter domain.StudyFilter) (domain.BaseMeta, error) {
	meta, err := studyFilterQuery(filter).count(ctx, r.db, studyFrom)
	if err != nil {
		return domain.BaseMeta{}, fmt.Errorf("failed to count studies: %w", err)
	}
	return meta, nil
}

// GetStudy retrieves a study by its stable identifier
func (r *studyRepository) GetStudy(ctx context.Context, studyID string) (domain.CancerStudy, error) {
	sql := "SELECT " + studyColumns(domain.ProjectionDetailed) + " FROM " + studyFrom + " WHERE cs.cancer_study_identifier = $1"
	study, err := scanStudy(r.db.QueryRow(ctx, sql, studyID), domain.ProjectionDetailed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CancerStudy{}, ErrNotFound
		}
		return domain.CancerStudy{}, fmt.Errorf("failed to get study: %w", err)
	}
	return study, nil
}

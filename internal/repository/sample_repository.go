package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rpattn/portaldata/internal/domain"
)

const sampleFrom = "sample s JOIN cancer_study cs ON cs.cancer_study_id = s.cancer_study_id"

var sampleSortColumns = map[string]string{
	"sampleId":   "s.stable_id",
	"sampleType": "s.sample_type",
	"patientId":  "s.patient_stable_id",
}

// sampleRepository implements SampleRepository interface
type sampleRepository struct {
	db DBTX
}

// NewSampleRepository creates a new sample repository
func NewSampleRepository(db DBTX) SampleRepository {
	return &sampleRepository{db: db}
}

func sampleColumns(projection domain.Projection) string {
	switch projection {
	case domain.ProjectionID:
		return "s.stable_id, cs.cancer_study_identifier"
	case domain.ProjectionSummary:
		return "s.stable_id, cs.cancer_study_identifier, s.sample_type, s.patient_stable_id"
	default:
		return "s.stable_id, cs.cancer_study_identifier, s.sample_type, s.patient_stable_id, s.internal_id"
	}
}

func scanSample(row pgx.Row, projection domain.Projection) (domain.Sample, error) {
	var (
		sample     domain.Sample
		sampleType pgtype.Text
		patientID  pgtype.Text
	)
	dest := []any{&sample.SampleID, &sample.StudyID}
	if projection != domain.ProjectionID {
		dest = append(dest, &sampleType, &patientID)
	}
	if projection == domain.ProjectionDetailed {
		dest = append(dest, &sample.InternalID)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Sample{}, err
	}
	sample.SampleType = sampleType.String
	sample.PatientID = patientID.String
	return sample, nil
}

func sampleStudyQuery(studyID string) *queryBuilder {
	b := &queryBuilder{}
	b.where("cs.cancer_study_identifier = " + b.arg(studyID))
	return b
}

// GetAllSamplesInStudy retrieves one page of the samples of a study
func (r *sampleRepository) GetAllSamplesInStudy(ctx context.Context, studyID string, page domain.PageRequest) ([]domain.Sample, error) {
	if err := CheckPage(page, SampleSortKeys); err != nil {
		return nil, err
	}
	b := sampleStudyQuery(studyID)
	paging, err := b.pageClause(page, sampleSortColumns, "s.stable_id")
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, "SELECT "+sampleColumns(page.Projection)+" FROM "+sampleFrom+b.whereClause()+paging, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	defer rows.Close()

	samples := []domain.Sample{}
	for rows.Next() {
		sample, scanErr := scanSample(rows, page.Projection)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", scanErr)
		}
		samples = append(samples, sample)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate samples: %w", rowsErr)
	}
	return samples, nil
}

// GetMetaSamplesInStudy counts the samples of a study
func (r *sampleRepository) GetMetaSamplesInStudy(ctx context.Context, studyID string) (domain.BaseMeta, error) {
	meta, err := sampleStudyQuery(studyID).count(ctx, r.db, sampleFrom)
	if err != nil {
		return domain.BaseMeta{}, fmt.Errorf("failed to count samples: %w", err)
	}
	return meta, nil
}

// GetSampleInStudy retrieves a single sample by study and sample identifier
func (r *sampleRepository) GetSampleInStudy(ctx context.Context, studyID string, sampleID string) (domain.Sample, error) {
	sql := "SELECT " + sampleColumns(domain.ProjectionDetailed) + " FROM " + sampleFrom +
		" WHERE cs.cancer_study_identifier = $1 AND s.stable_id = $2"
	sample, err := scanSample(r.db.QueryRow(ctx, sql, studyID, sampleID), domain.ProjectionDetailed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Sample{}, ErrNotFound
		}
		return domain.Sample{}, fmt.Errorf("failed to get sample: %w", err)
	}
	return sample, nil
}

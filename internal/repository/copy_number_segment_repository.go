package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rpattn/portaldata/internal/domain"
)

const segmentFrom = "copy_number_seg seg" +
	" JOIN sample s ON s.internal_id = seg.sample_id" +
	" JOIN cancer_study cs ON cs.cancer_study_id = seg.cancer_study_id"

var segmentSortColumns = map[string]string{
	"chromosome":     "seg.chr",
	"start":          "seg.start_pos",
	"end":            "seg.end_pos",
	"numberOfProbes": "seg.num_probes",
	"segmentMean":    "seg.segment_mean",
}

// copyNumberSegmentRepository implements CopyNumberSegmentRepository interface
type copyNumberSegmentRepository struct {
	db DBTX
}

// NewCopyNumberSegmentRepository creates a new copy number segment repository
func NewCopyNumberSegmentRepository(db DBTX) CopyNumberSegmentRepository {
	return &copyNumberSegmentRepository{db: db}
}

func segmentColumns(projection domain.Projection) string {
	switch projection {
	case domain.ProjectionID:
		return "seg.seg_id, cs.cancer_study_identifier, s.stable_id"
	case domain.ProjectionSummary:
		return "seg.seg_id, cs.cancer_study_identifier, s.stable_id, seg.chr, seg.start_pos, seg.end_pos, seg.segment_mean"
	default:
		return "seg.seg_id, cs.cancer_study_identifier, s.stable_id, seg.chr, seg.start_pos, seg.end_pos, seg.segment_mean, seg.num_probes"
	}
}

func scanSegment(row pgx.Row, projection domain.Projection) (domain.CopyNumberSegment, error) {
	var (
		segment domain.CopyNumberSegment
		chr     pgtype.Text
		start   pgtype.Int8
		end     pgtype.Int8
		mean    pgtype.Float8
		probes  pgtype.Int4
	)
	dest := []any{&segment.SegmentID, &segment.StudyID, &segment.SampleID}
	if projection != domain.ProjectionID {
		dest = append(dest, &chr, &start, &end, &mean)
	}
	if projection == domain.ProjectionDetailed {
		dest = append(dest, &probes)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.CopyNumberSegment{}, err
	}
	segment.Chromosome = chr.String
	segment.Start = start.Int64
	segment.End = end.Int64
	segment.SegmentMean = mean.Float64
	segment.NumberOfProbes = int(probes.Int32)
	return segment, nil
}

func segmentSampleQuery(studyID, sampleID string) *queryBuilder {
	b := &queryBuilder{}
	b.where("cs.cancer_study_identifier = " + b.arg(studyID))
	b.where("s.stable_id = " + b.arg(sampleID))
	return b
}

// GetCopyNumberSegmentsInSampleInStudy retrieves one page of the segments of a sample
func (r *copyNumberSegmentRepository) GetCopyNumberSegmentsInSampleInStudy(ctx context.Context, studyID string, sampleID string, page domain.PageRequest) ([]domain.CopyNumberSegment, error) {
	if err := CheckPage(page, SegmentSortKeys); err != nil {
		return nil, err
	}
	b := segmentSampleQuery(studyID, sampleID)
	paging, err := b.pageClause(page, segmentSortColumns, "seg.seg_id")
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, "SELECT "+segmentColumns(page.Projection)+" FROM "+segmentFrom+b.whereClause()+paging, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list copy number segments: %w", err)
	}
	defer rows.Close()

	segments := []domain.CopyNumberSegment{}
	for rows.Next() {
		segment, scanErr := scanSegment(rows, page.Projection)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan copy number segment: %w", scanErr)
		}
		segments = append(segments, segment)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate copy number segments: %w", rowsErr)
	}
	return segments, nil
}

// GetMetaCopyNumberSegmentsInSampleInStudy counts the segments of a sample
func (r *copyNumberSegmentRepository) GetMetaCopyNumberSegmentsInSampleInStudy(ctx context.Context, studyID string, sampleID string) (domain.BaseMeta, error) {
	meta, err := segmentSampleQuery(studyID, sampleID).count(ctx, r.db, segmentFrom)
	if err != nil {
		return domain.BaseMeta{}, fmt.Errorf("failed to count copy number segments: %w", err)
	}
	return meta, nil
}

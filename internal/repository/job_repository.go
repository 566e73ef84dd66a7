package repository

import (
	"context"

	"doctransform/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const jobColumns = "id, user_id, document_id, query, raw_completion, parse_tier, status, error_message, started_at, completed_at, duration_ms"

type JobRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewJobRepository(db *pgxpool.Pool, logger *zap.Logger) *JobRepository {
	return &JobRepository{
		db:     db,
		logger: logger,
	}
}

func (r *JobRepository) Create(ctx context.Context, job *models.ProcessingJob) error {
	query := squirrel.Insert("processing_jobs").
		Columns("id", "user_id", "document_id", "query", "raw_completion", "parse_tier",
			"status", "error_message", "started_at", "completed_at", "duration_ms").
		Values(job.ID, job.UserID, job.DocumentID, job.Query, job.RawCompletion, job.ParseTier,
			job.Status, job.ErrorMessage, job.StartedAt, job.CompletedAt, job.DurationMs).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProcessingJob, error) {
	query := squirrel.Select(jobColumns).
		From("processing_jobs").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var job models.ProcessingJob
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&job.ID, &job.UserID, &job.DocumentID, &job.Query, &job.RawCompletion, &job.ParseTier,
		&job.Status, &job.ErrorMessage, &job.StartedAt, &job.CompletedAt, &job.DurationMs,
	)
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *JobRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ProcessingJob, error) {
	query := squirrel.Select(jobColumns).
		From("processing_jobs").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.ProcessingJob
	for rows.Next() {
		var job models.ProcessingJob
		if err := rows.Scan(
			&job.ID, &job.UserID, &job.DocumentID, &job.Query, &job.RawCompletion, &job.ParseTier,
			&job.Status, &job.ErrorMessage, &job.StartedAt, &job.CompletedAt, &job.DurationMs,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}

func (r *JobRepository) CountByStatus(ctx context.Context, status models.JobStatus) (int64, error) {
	return r.count(ctx, squirrel.Eq{"status": status})
}

func (r *JobRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, nil)
}

func (r *JobRepository) count(ctx context.Context, where squirrel.Eq) (int64, error) {
	query := squirrel.Select("COUNT(*)").
		From("processing_jobs").
		PlaceholderFormat(squirrel.Dollar)
	if where != nil {
		query = query.Where(where)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

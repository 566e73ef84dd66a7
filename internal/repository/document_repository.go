package repository

import (
	"context"

	"doctransform/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const documentColumns = "id, user_id, original_filename, stored_path, extension, file_size, mime_type, extracted_text, uploaded_at"

type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := squirrel.Insert("documents").
		Columns("id", "user_id", "original_filename", "stored_path", "extension",
			"file_size", "mime_type", "extracted_text", "uploaded_at").
		Values(doc.ID, doc.UserID, doc.OriginalFilename, doc.StoredPath, doc.Extension,
			doc.FileSize, doc.MimeType, doc.ExtractedText, doc.UploadedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := squirrel.Select(documentColumns).
		From("documents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&doc.ID, &doc.UserID, &doc.OriginalFilename, &doc.StoredPath, &doc.Extension,
		&doc.FileSize, &doc.MimeType, &doc.ExtractedText, &doc.UploadedAt,
	)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *DocumentRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Document, error) {
	query := squirrel.Select(documentColumns).
		From("documents").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("uploaded_at DESC").
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

	var documents []*models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID, &doc.UserID, &doc.OriginalFilename, &doc.StoredPath, &doc.Extension,
			&doc.FileSize, &doc.MimeType, &doc.ExtractedText, &doc.UploadedAt,
		); err != nil {
			return nil, err
		}
		documents = append(documents, &doc)
	}

	return documents, rows.Err()
}

func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	query := squirrel.Select("COUNT(*)").
		From("documents").
		PlaceholderFormat(squirrel.Dollar)

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

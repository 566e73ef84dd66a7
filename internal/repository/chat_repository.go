package repository

import (
	"context"

	"doctransform/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ChatRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChatRepository(db *pgxpool.Pool, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ChatRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	query := squirrel.Insert("chat_messages").
		Columns("id", "user_id", "document_id", "type", "content", "created_at").
		Values(msg.ID, msg.UserID, msg.DocumentID, msg.Type, msg.Content, msg.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListByDocumentID returns a document's chat history oldest first.
func (r *ChatRepository) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.ChatMessage, error) {
	query := squirrel.Select("id", "user_id", "document_id", "type", "content", "created_at").
		From("chat_messages").
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("created_at ASC").
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

	var messages []*models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(
			&msg.ID, &msg.UserID, &msg.DocumentID, &msg.Type, &msg.Content, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// DocumentRepository implements port.DocumentRepository
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new document record
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (folder_id, name, owner_id)
		VALUES (?, ?, ?)
	`

	result, err := r.executor(ctx).ExecContext(ctx, query, doc.FolderID, doc.Name, doc.OwnerID)
	if err != nil {
		r.logger.Error("Failed to create document", zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	return nil
}

// GetByID retrieves a document by its id
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	query := `
		SELECT id, folder_id, name, owner_id, created_at
		FROM documents
		WHERE id = ?
	`

	var doc entity.Document
	err := r.executor(ctx).QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.FolderID,
		&doc.Name,
		&doc.OwnerID,
		&doc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %d: %w", id, port.ErrVersionNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get document", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

func (r *DocumentRepository) executor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)

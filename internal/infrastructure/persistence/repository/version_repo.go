package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// VersionRepository implements port.VersionRepository
type VersionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(db *sql.DB, logger *zap.Logger) *VersionRepository {
	return &VersionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the next version of a document. The version number is
// assigned from the highest existing number plus one, and the initial status
// is written to the status log in the same call.
func (r *VersionRepository) Create(ctx context.Context, version *entity.DocumentVersion) error {
	exec := r.executor(ctx)

	query := `
		INSERT INTO document_versions (document_id, version, status, created_by)
		VALUES (?, (SELECT COALESCE(MAX(version), 0) + 1 FROM document_versions WHERE document_id = ?), ?, ?)
	`

	result, err := exec.ExecContext(ctx, query, version.DocumentID, version.DocumentID, version.Status, version.CreatedBy)
	if err != nil {
		r.logger.Error("Failed to create version", zap.Int64("document_id", version.DocumentID), zap.Error(err))
		return fmt.Errorf("failed to create version: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	version.ID = id

	if err := exec.QueryRowContext(ctx,
		`SELECT version FROM document_versions WHERE id = ?`, id,
	).Scan(&version.Version); err != nil {
		return fmt.Errorf("failed to read back version number: %w", err)
	}

	logQuery := `
		INSERT INTO status_log (version_id, status, comment, user_id)
		VALUES (?, ?, ?, ?)
	`
	if _, err := exec.ExecContext(ctx, logQuery, id, version.Status, "new version", version.CreatedBy); err != nil {
		return fmt.Errorf("failed to write initial status entry: %w", err)
	}

	return nil
}

// GetByID retrieves a version by its id
func (r *VersionRepository) GetByID(ctx context.Context, id int64) (*entity.DocumentVersion, error) {
	query := `
		SELECT id, document_id, version, status, revision_started_at, expires_at, created_by, created_at
		FROM document_versions
		WHERE id = ?
	`
	return r.scanVersion(r.executor(ctx).QueryRowContext(ctx, query, id))
}

// GetLatest retrieves the newest version of a document
func (r *VersionRepository) GetLatest(ctx context.Context, documentID int64) (*entity.DocumentVersion, error) {
	query := `
		SELECT id, document_id, version, status, revision_started_at, expires_at, created_by, created_at
		FROM document_versions
		WHERE document_id = ?
		ORDER BY version DESC
		LIMIT 1
	`
	return r.scanVersion(r.executor(ctx).QueryRowContext(ctx, query, documentID))
}

// UpdateStatus moves a version from fromStatus to toStatus and appends the
// status log entry. The stored status is part of the WHERE clause, so a
// version changed by a concurrent voter in the meantime is not overwritten.
func (r *VersionRepository) UpdateStatus(ctx context.Context, versionID int64, fromStatus, toStatus int, comment string, userID int64) error {
	exec := r.executor(ctx)

	result, err := exec.ExecContext(ctx,
		`UPDATE document_versions SET status = ? WHERE id = ? AND status = ?`,
		toStatus, versionID, fromStatus)
	if err != nil {
		r.logger.Error("Failed to update status", zap.Int64("version_id", versionID), zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		err := exec.QueryRowContext(ctx,
			`SELECT 1 FROM document_versions WHERE id = ?`, versionID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("version %d: %w", versionID, port.ErrVersionNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check version: %w", err)
		}
		return fmt.Errorf("version %d no longer in status %d: %w", versionID, fromStatus, port.ErrConcurrentUpdate)
	}

	if _, err := exec.ExecContext(ctx,
		`INSERT INTO status_log (version_id, status, comment, user_id) VALUES (?, ?, ?, ?)`,
		versionID, toStatus, comment, userID); err != nil {
		return fmt.Errorf("failed to write status entry: %w", err)
	}

	return nil
}

// SetExpires sets or clears the expiry date of a version.
func (r *VersionRepository) SetExpires(ctx context.Context, versionID int64, expiresAt *time.Time) error {
	result, err := r.executor(ctx).ExecContext(ctx,
		`UPDATE document_versions SET expires_at = ? WHERE id = ?`,
		expiresAt, versionID)
	if err != nil {
		r.logger.Error("Failed to set expiry date", zap.Int64("version_id", versionID), zap.Error(err))
		return fmt.Errorf("failed to set expiry date: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("version %d: %w", versionID, port.ErrVersionNotFound)
	}
	return nil
}

// MarkRevisionStarted stamps the start of a revision round on the version.
func (r *VersionRepository) MarkRevisionStarted(ctx context.Context, versionID int64) error {
	result, err := r.executor(ctx).ExecContext(ctx,
		`UPDATE document_versions SET revision_started_at = CURRENT_TIMESTAMP WHERE id = ?`,
		versionID)
	if err != nil {
		return fmt.Errorf("failed to mark revision started: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("version %d: %w", versionID, port.ErrVersionNotFound)
	}
	return nil
}

// StatusHistory returns all status log entries of a version, oldest first.
func (r *VersionRepository) StatusHistory(ctx context.Context, versionID int64) ([]*entity.StatusChange, error) {
	query := `
		SELECT id, version_id, status, comment, user_id, created_at
		FROM status_log
		WHERE version_id = ?
		ORDER BY id ASC
	`

	rows, err := r.executor(ctx).QueryContext(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var history []*entity.StatusChange
	for rows.Next() {
		var change entity.StatusChange
		if err := rows.Scan(
			&change.ID,
			&change.VersionID,
			&change.Status,
			&change.Comment,
			&change.UserID,
			&change.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan status entry: %w", err)
		}
		history = append(history, &change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status history: %w", err)
	}

	return history, nil
}

func (r *VersionRepository) scanVersion(row *sql.Row) (*entity.DocumentVersion, error) {
	var version entity.DocumentVersion
	err := row.Scan(
		&version.ID,
		&version.DocumentID,
		&version.Version,
		&version.Status,
		&version.RevisionStartedAt,
		&version.ExpiresAt,
		&version.CreatedBy,
		&version.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan version: %w", err)
	}
	return &version, nil
}

func (r *VersionRepository) executor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.VersionRepository = (*VersionRepository)(nil)

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

// latestEntrySubquery selects the newest log entry per participant. Entries
// are append-only, so the highest id wins.
const latestEntrySubquery = `SELECT MAX(id) FROM vote_log WHERE participant_id = p.id`

// VoteLogRepository implements port.VoteLogRepository on the participants and
// vote_log tables.
type VoteLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVoteLogRepository creates a new vote log repository
func NewVoteLogRepository(db *sql.DB, logger *zap.Logger) *VoteLogRepository {
	return &VoteLogRepository{
		db:     db,
		logger: logger,
	}
}

// AddParticipant registers a required voter and appends its sleeping entry.
func (r *VoteLogRepository) AddParticipant(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64) (int64, error) {
	if versionID <= 0 || entityID <= 0 || actingUserID <= 0 {
		return 0, port.ErrMissingArgument
	}
	if !role.IsValid() || !kind.IsValid() {
		return 0, port.ErrMissingArgument
	}

	exec := r.executor(ctx)

	var existing int64
	err := exec.QueryRowContext(ctx,
		`SELECT id FROM participants WHERE version_id = ? AND role = ? AND kind = ? AND entity_id = ?`,
		versionID, role, kind, entityID).Scan(&existing)
	if err == nil {
		return 0, fmt.Errorf("%s %s %d on version %d: %w", kind, role, entityID, versionID, port.ErrDuplicateParticipant)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check participant: %w", err)
	}

	result, err := exec.ExecContext(ctx,
		`INSERT INTO participants (version_id, role, kind, entity_id) VALUES (?, ?, ?, ?)`,
		versionID, role, kind, entityID)
	if err != nil {
		r.logger.Error("Failed to add participant",
			zap.Int64("version_id", versionID),
			zap.String("role", role.String()),
			zap.Error(err))
		return 0, fmt.Errorf("failed to add participant: %w", err)
	}

	participantID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return r.appendEntry(ctx, participantID, actingUserID, entity.VoteSleeping, "", "")
}

// RemoveParticipant withdraws a participant that has not voted yet.
func (r *VoteLogRepository) RemoveParticipant(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64) error {
	if versionID <= 0 || entityID <= 0 || actingUserID <= 0 {
		return port.ErrMissingArgument
	}

	participantID, status, err := r.lookupParticipant(ctx, versionID, role, kind, entityID)
	if err != nil {
		return err
	}
	if status != entity.VoteSleeping {
		return fmt.Errorf("%s %s %d on version %d: %w", kind, role, entityID, versionID, port.ErrParticipantHasVoted)
	}

	_, err = r.appendEntry(ctx, participantID, actingUserID, entity.VoteNotRequired, "", "")
	return err
}

// CastVote appends a vote for a registered participant.
func (r *VoteLogRepository) CastVote(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64, status int, comment, filePath string) (int64, error) {
	if versionID <= 0 || entityID <= 0 || actingUserID <= 0 {
		return 0, port.ErrMissingArgument
	}
	if !validVoteStatus(role, status) {
		return 0, fmt.Errorf("status %d for role %s: %w", status, role, port.ErrInvalidVoteStatus)
	}

	participantID, latest, err := r.lookupParticipant(ctx, versionID, role, kind, entityID)
	if err != nil {
		return 0, err
	}
	if latest == entity.VoteNotRequired {
		return 0, fmt.Errorf("%s %s %d on version %d was withdrawn: %w", kind, role, entityID, versionID, port.ErrNotRequiredParticipant)
	}

	if role == entity.RoleRevisor {
		var started sql.NullTime
		err := r.executor(ctx).QueryRowContext(ctx,
			`SELECT revision_started_at FROM document_versions WHERE id = ?`, versionID).Scan(&started)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, port.ErrVersionNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("failed to check revision round: %w", err)
		}
		if !started.Valid {
			return 0, fmt.Errorf("version %d: %w", versionID, port.ErrRoundNotStarted)
		}
	}

	return r.appendEntry(ctx, participantID, actingUserID, status, comment, filePath)
}

// StartRound appends one sleeping entry per registered revisor, resetting
// their voices for the new revision round.
func (r *VoteLogRepository) StartRound(ctx context.Context, versionID, actingUserID int64) error {
	if versionID <= 0 || actingUserID <= 0 {
		return port.ErrMissingArgument
	}

	exec := r.executor(ctx)

	rows, err := exec.QueryContext(ctx,
		`SELECT id FROM participants WHERE version_id = ? AND role = ?`,
		versionID, entity.RoleRevisor)
	if err != nil {
		return fmt.Errorf("failed to query revisors: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan revisor: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate revisors: %w", err)
	}

	for _, id := range ids {
		if _, err := r.appendEntry(ctx, id, actingUserID, entity.VoteSleeping, "", ""); err != nil {
			return err
		}
	}
	return nil
}

// Log returns up to limit entries for a role, most recent first.
func (r *VoteLogRepository) Log(ctx context.Context, versionID int64, role entity.Role, limit int) ([]*entity.VoteLogEntry, error) {
	query := `
		SELECT v.id, v.participant_id, p.role, p.kind, p.entity_id,
		       v.acting_user_id, v.status, v.comment, v.file_path, v.created_at
		FROM vote_log v
		JOIN participants p ON p.id = v.participant_id
		WHERE p.version_id = ? AND p.role = ?
		ORDER BY v.id DESC
		LIMIT ?
	`

	rows, err := r.executor(ctx).QueryContext(ctx, query, versionID, role, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote log: %w", err)
	}
	defer rows.Close()

	var entries []*entity.VoteLogEntry
	for rows.Next() {
		var e entity.VoteLogEntry
		if err := rows.Scan(
			&e.ID,
			&e.ParticipantID,
			&e.Role,
			&e.Kind,
			&e.EntityID,
			&e.ActingUserID,
			&e.Status,
			&e.Comment,
			&e.FilePath,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vote entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vote log: %w", err)
	}

	return entries, nil
}

// Summary returns the latest recorded status per registered participant.
func (r *VoteLogRepository) Summary(ctx context.Context, versionID int64, role entity.Role) ([]entity.ParticipantStatus, error) {
	query := `
		SELECT p.id, p.version_id, p.role, p.kind, p.entity_id, p.created_at,
		       v.status, v.created_at
		FROM participants p
		JOIN vote_log v ON v.participant_id = p.id
		WHERE p.version_id = ? AND p.role = ?
		  AND v.id = (` + latestEntrySubquery + `)
		ORDER BY p.id ASC
	`

	rows, err := r.executor(ctx).QueryContext(ctx, query, versionID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer rows.Close()

	var summary []entity.ParticipantStatus
	for rows.Next() {
		var ps entity.ParticipantStatus
		if err := rows.Scan(
			&ps.Participant.ID,
			&ps.Participant.VersionID,
			&ps.Participant.Role,
			&ps.Participant.Kind,
			&ps.Participant.EntityID,
			&ps.Participant.CreatedAt,
			&ps.Status,
			&ps.Date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary = append(summary, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary: %w", err)
	}

	return summary, nil
}

// Participants returns the registered participants of a role grouped by kind,
// excluding withdrawn ones.
func (r *VoteLogRepository) Participants(ctx context.Context, versionID int64, role entity.Role) (port.IDSets, error) {
	query := `
		SELECT p.kind, p.entity_id
		FROM participants p
		JOIN vote_log v ON v.participant_id = p.id
		WHERE p.version_id = ? AND p.role = ?
		  AND v.id = (` + latestEntrySubquery + `)
		  AND v.status != ?
		ORDER BY p.id ASC
	`

	var sets port.IDSets
	rows, err := r.executor(ctx).QueryContext(ctx, query, versionID, role, entity.VoteNotRequired)
	if err != nil {
		return sets, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind entity.Kind
		var id int64
		if err := rows.Scan(&kind, &id); err != nil {
			return sets, fmt.Errorf("failed to scan participant: %w", err)
		}
		if kind == entity.KindGroup {
			sets.Groups = append(sets.Groups, id)
		} else {
			sets.Individuals = append(sets.Individuals, id)
		}
	}
	if err := rows.Err(); err != nil {
		return sets, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return sets, nil
}

// lookupParticipant finds a registered participant and its latest status.
func (r *VoteLogRepository) lookupParticipant(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID int64) (int64, int, error) {
	query := `
		SELECT p.id, v.status
		FROM participants p
		JOIN vote_log v ON v.participant_id = p.id
		WHERE p.version_id = ? AND p.role = ? AND p.kind = ? AND p.entity_id = ?
		  AND v.id = (` + latestEntrySubquery + `)
	`

	var participantID int64
	var status int
	err := r.executor(ctx).QueryRowContext(ctx, query, versionID, role, kind, entityID).Scan(&participantID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("%s %s %d on version %d: %w", kind, role, entityID, versionID, port.ErrNotRequiredParticipant)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to look up participant: %w", err)
	}
	return participantID, status, nil
}

func (r *VoteLogRepository) appendEntry(ctx context.Context, participantID, actingUserID int64, status int, comment, filePath string) (int64, error) {
	result, err := r.executor(ctx).ExecContext(ctx,
		`INSERT INTO vote_log (participant_id, acting_user_id, status, comment, file_path) VALUES (?, ?, ?, ?, ?)`,
		participantID, actingUserID, status, comment, filePath)
	if err != nil {
		r.logger.Error("Failed to append vote entry",
			zap.Int64("participant_id", participantID),
			zap.Error(err))
		return 0, fmt.Errorf("failed to append vote entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// validVoteStatus checks the codes a role may record. Reviewers, approvers
// and revisors vote accept or reject; recipients may also acknowledge.
func validVoteStatus(role entity.Role, status int) bool {
	switch status {
	case entity.VoteAccepted, entity.VoteRejected:
		return true
	case entity.VoteAcknowledged:
		return role == entity.RoleRecipient
	}
	return false
}

func (r *VoteLogRepository) executor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.VoteLogRepository = (*VoteLogRepository)(nil)

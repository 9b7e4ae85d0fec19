package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/infrastructure/persistence/sqlite"
)

// MandatoryParticipantRepository implements port.MandatoryParticipantResolver
// from per-user rule rows. A rule makes a reviewer or approver mandatory for
// every version the rule's user checks in.
type MandatoryParticipantRepository struct {
	db *sql.DB
}

// NewMandatoryParticipantRepository creates a new mandatory participant repository
func NewMandatoryParticipantRepository(db *sql.DB) *MandatoryParticipantRepository {
	return &MandatoryParticipantRepository{db: db}
}

// MandatoryReviewers returns the reviewers required for versions created by
// the given user.
func (r *MandatoryParticipantRepository) MandatoryReviewers(ctx context.Context, folderID, documentID, userID int64) (port.IDSets, error) {
	return r.byRole(ctx, userID, entity.RoleReviewer)
}

// MandatoryApprovers returns the approvers required for versions created by
// the given user.
func (r *MandatoryParticipantRepository) MandatoryApprovers(ctx context.Context, folderID, documentID, userID int64) (port.IDSets, error) {
	return r.byRole(ctx, userID, entity.RoleApprover)
}

func (r *MandatoryParticipantRepository) byRole(ctx context.Context, userID int64, role entity.Role) (port.IDSets, error) {
	query := `
		SELECT kind, entity_id
		FROM mandatory_participants
		WHERE user_id = ? AND role = ?
		ORDER BY entity_id ASC
	`

	var sets port.IDSets
	rows, err := r.executor(ctx).QueryContext(ctx, query, userID, role)
	if err != nil {
		return sets, fmt.Errorf("failed to query mandatory participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind entity.Kind
		var id int64
		if err := rows.Scan(&kind, &id); err != nil {
			return sets, fmt.Errorf("failed to scan mandatory participant: %w", err)
		}
		if kind == entity.KindGroup {
			sets.Groups = append(sets.Groups, id)
		} else {
			sets.Individuals = append(sets.Individuals, id)
		}
	}
	if err := rows.Err(); err != nil {
		return sets, fmt.Errorf("failed to iterate mandatory participants: %w", err)
	}

	return sets, nil
}

func (r *MandatoryParticipantRepository) executor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.MandatoryParticipantResolver = (*MandatoryParticipantRepository)(nil)

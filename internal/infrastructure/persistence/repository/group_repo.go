package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/infrastructure/persistence/sqlite"
)

// GroupRepository implements port.GroupRepository
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// MemberIDs returns the user ids belonging to a group.
func (r *GroupRepository) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	query := `
		SELECT user_id
		FROM group_members
		WHERE group_id = ?
		ORDER BY user_id ASC
	`

	rows, err := r.executor(ctx).QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return ids, nil
}

func (r *GroupRepository) executor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.GroupRepository = (*GroupRepository)(nil)

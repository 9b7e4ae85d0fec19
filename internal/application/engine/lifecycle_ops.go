package engine

import (
	"context"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
	"go.uber.org/zap"
)

// Expire marks a released version as expired.
func (e *Engine) Expire(ctx context.Context, versionID, actingUserID int64, comment string) (*Result, error) {
	return e.simpleTransition(ctx, versionID, actingUserID, lifecycle.TriggerExpire, comment)
}

// MarkObsolete retires a version that is no longer relevant.
func (e *Engine) MarkObsolete(ctx context.Context, versionID, actingUserID int64, comment string) (*Result, error) {
	return e.simpleTransition(ctx, versionID, actingUserID, lifecycle.TriggerMarkObsolete, comment)
}

// Release puts a draft or expired version back into circulation without a
// vote, for workflows that have no participants at all.
func (e *Engine) Release(ctx context.Context, versionID, actingUserID int64, comment string) (*Result, error) {
	return e.simpleTransition(ctx, versionID, actingUserID, lifecycle.TriggerRelease, comment)
}

// simpleTransition fires a lifecycle trigger that is not driven by votes.
// Unlike vote-driven transitions, an impermissible trigger is an error here.
func (e *Engine) simpleTransition(ctx context.Context, versionID, actingUserID int64, trigger lifecycle.Trigger, comment string) (*Result, error) {
	version, oldStatus, err := e.loadVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	machine := buildDocumentMachine(oldStatus)
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, err
	}
	to := machine.Status()

	res := &Result{OldStatus: oldStatus, NewStatus: oldStatus}
	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return e.setStatus(txCtx, version, oldStatus, to, comment, actingUserID)
	})
	if err != nil {
		return nil, err
	}
	res.NewStatus = to
	res.StatusChanged = true

	e.publishStatusChanged(ctx, versionID, oldStatus, to, trigger, actingUserID)
	e.logger.Info("Lifecycle transition applied",
		zap.Int64("version_id", versionID),
		zap.String("trigger", trigger.String()),
		zap.String("old_status", oldStatus.String()),
		zap.String("new_status", to.String()))

	return res, nil
}

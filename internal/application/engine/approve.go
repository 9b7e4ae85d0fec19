package engine

import (
	"context"
	"fmt"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/quorum"
	"go.uber.org/zap"
)

// Approve records an approval vote and derives the resulting version
// status. A rejection moves the version to REJECTED immediately; once every
// required approver has accepted, the version is released. Otherwise the
// status stays untouched while votes are outstanding.
func (e *Engine) Approve(ctx context.Context, req ApproveRequest) (*Result, error) {
	version, oldStatus, err := e.loadVersion(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}

	for _, l := range e.approvalListeners {
		if err := l.PreApprove(ctx, version); err != nil {
			e.logger.Warn("PreApprove listener failed", zap.Int64("version_id", version.ID), zap.Error(err))
		}
	}

	res := &Result{OldStatus: oldStatus, NewStatus: oldStatus}
	var trigger lifecycle.Trigger

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		logID, err := e.recordVote(txCtx, req.Vote, entity.RoleApprover)
		if err != nil {
			return err
		}
		res.LogID = logID

		if req.Status == entity.VoteRejected {
			return e.transition(txCtx, version, oldStatus, lifecycle.TriggerReject, req.Comment, req.ActingUserID, res, &trigger)
		}

		summary, err := e.votes.Summary(txCtx, req.VersionID, entity.RoleApprover)
		if err != nil {
			return fmt.Errorf("%w: approval summary: %v", ErrSnapshotUnavailable, err)
		}

		out := quorum.Evaluate(summary)
		if out.Rejected > 0 || !out.Complete {
			// Approvals still outstanding, or an earlier rejection is
			// already in the log. Nothing to transition.
			return nil
		}

		return e.transition(txCtx, version, oldStatus, lifecycle.TriggerApprovalsDone, "", req.ActingUserID, res, &trigger)
	})
	if err != nil {
		return nil, err
	}

	e.publishVoteCast(ctx, req.Vote, entity.RoleApprover, res.LogID)
	if res.StatusChanged {
		for _, l := range e.approvalListeners {
			l.PostApprove(ctx, version, res.OldStatus, res.NewStatus)
		}
		e.publishStatusChanged(ctx, version.ID, res.OldStatus, res.NewStatus, trigger, req.ActingUserID)
	}

	e.logger.Info("Approval vote processed",
		zap.Int64("version_id", req.VersionID),
		zap.Int("vote", req.Status),
		zap.String("old_status", res.OldStatus.String()),
		zap.String("new_status", res.NewStatus.String()))

	return res, nil
}

// transition fires the trigger on a machine positioned at the current
// status and persists the resulting status. Triggers the machine does not
// permit from the current status are skipped, leaving the status as it was.
func (e *Engine) transition(ctx context.Context, version *entity.DocumentVersion, from lifecycle.Status, trigger lifecycle.Trigger, comment string, userID int64, res *Result, fired *lifecycle.Trigger) error {
	machine := buildDocumentMachine(from)
	if !machine.CanFire(trigger) {
		e.logger.Debug("Trigger not permitted, status unchanged",
			zap.Int64("version_id", version.ID),
			zap.String("status", from.String()),
			zap.String("trigger", trigger.String()))
		return nil
	}

	if err := machine.Fire(ctx, trigger); err != nil {
		return err
	}

	to := machine.Status()
	if to == from {
		return nil
	}
	if err := e.setStatus(ctx, version, from, to, comment, userID); err != nil {
		return err
	}

	res.NewStatus = to
	res.StatusChanged = true
	*fired = trigger
	return nil
}

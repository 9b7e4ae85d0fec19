package engine

import (
	"context"
	"fmt"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/event"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/quorum"
	"go.uber.org/zap"
)

// StartRevision opens a revision round on a released version. One sleeping
// log entry is appended per registered revisor, so the revision log doubles,
// and the version moves to IN_REVISION. Revision votes are only valid after
// this. Only one round can be active: starting a round on a version that is
// not released fails without touching the log.
func (e *Engine) StartRevision(ctx context.Context, req StartRevisionRequest) (*Result, error) {
	version, oldStatus, err := e.loadVersion(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}

	res := &Result{OldStatus: oldStatus, NewStatus: oldStatus}
	trigger := lifecycle.TriggerStartRevision

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		machine := buildDocumentMachine(oldStatus)
		if err := machine.Fire(txCtx, trigger); err != nil {
			return err
		}
		to := machine.Status()

		if err := e.votes.StartRound(txCtx, req.VersionID, req.ActingUserID); err != nil {
			return fmt.Errorf("%w: %v", ErrVoteUpdateFailed, err)
		}
		if err := e.versions.MarkRevisionStarted(txCtx, req.VersionID); err != nil {
			return fmt.Errorf("%w: %v", ErrVoteUpdateFailed, err)
		}
		if err := e.setStatus(txCtx, version, oldStatus, to, "", req.ActingUserID); err != nil {
			return err
		}

		res.NewStatus = to
		res.StatusChanged = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, event.New(event.TypeRevisionStarted, req.VersionID, map[string]interface{}{
		"acting_user_id": req.ActingUserID,
	}))
	if res.StatusChanged {
		for _, l := range e.revisionListeners {
			l.PostRevise(ctx, version, res.OldStatus, res.NewStatus)
		}
		e.publishStatusChanged(ctx, version.ID, res.OldStatus, res.NewStatus, trigger, req.ActingUserID)
	}

	e.logger.Info("Revision round started", zap.Int64("version_id", req.VersionID))
	return res, nil
}

// Revise records a revision vote and recomputes the revision outcome. With
// one-vote-reject a single rejection is terminal even mid-round; otherwise
// the version stays in revision until every required revisor has voted.
func (e *Engine) Revise(ctx context.Context, req ReviseRequest) (*Result, error) {
	version, oldStatus, err := e.loadVersion(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}

	for _, l := range e.revisionListeners {
		if err := l.PreRevise(ctx, version); err != nil {
			e.logger.Warn("PreRevise listener failed", zap.Int64("version_id", version.ID), zap.Error(err))
		}
	}

	res := &Result{OldStatus: oldStatus, NewStatus: oldStatus}
	var trigger lifecycle.Trigger

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		logID, err := e.recordVote(txCtx, req.Vote, entity.RoleRevisor)
		if err != nil {
			return err
		}
		res.LogID = logID

		return e.verifyRevision(txCtx, version, oldStatus, req.OneVoteReject, req.Comment, req.ActingUserID, res, &trigger)
	})
	if err != nil {
		return nil, err
	}

	e.publishVoteCast(ctx, req.Vote, entity.RoleRevisor, res.LogID)
	if res.StatusChanged {
		for _, l := range e.revisionListeners {
			l.PostRevise(ctx, version, res.OldStatus, res.NewStatus)
		}
		e.publishStatusChanged(ctx, version.ID, res.OldStatus, res.NewStatus, trigger, req.ActingUserID)
	}

	e.logger.Info("Revision vote processed",
		zap.Int64("version_id", req.VersionID),
		zap.Int("vote", req.Status),
		zap.String("old_status", res.OldStatus.String()),
		zap.String("new_status", res.NewStatus.String()))

	return res, nil
}

// VerifyRevisionStatus recomputes the status of a version in revision from
// the current revision summary and applies it. Callers use it to settle a
// round after administrative changes to the revisor set.
func (e *Engine) VerifyRevisionStatus(ctx context.Context, versionID int64, oneVoteReject bool, actingUserID int64) (lifecycle.Status, error) {
	version, oldStatus, err := e.loadVersion(ctx, versionID)
	if err != nil {
		return "", err
	}

	res := &Result{OldStatus: oldStatus, NewStatus: oldStatus}
	var trigger lifecycle.Trigger

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return e.verifyRevision(txCtx, version, oldStatus, oneVoteReject, "", actingUserID, res, &trigger)
	})
	if err != nil {
		return "", err
	}

	if res.StatusChanged {
		for _, l := range e.revisionListeners {
			l.PostRevise(ctx, version, res.OldStatus, res.NewStatus)
		}
		e.publishStatusChanged(ctx, version.ID, res.OldStatus, res.NewStatus, trigger, actingUserID)
	}

	return res.NewStatus, nil
}

func (e *Engine) verifyRevision(ctx context.Context, version *entity.DocumentVersion, from lifecycle.Status, oneVoteReject bool, comment string, userID int64, res *Result, fired *lifecycle.Trigger) error {
	summary, err := e.votes.Summary(ctx, version.ID, entity.RoleRevisor)
	if err != nil {
		return fmt.Errorf("%w: revision summary: %v", ErrSnapshotUnavailable, err)
	}

	switch quorum.RevisionOutcome(summary, oneVoteReject) {
	case lifecycle.StatusRejected:
		return e.transition(ctx, version, from, lifecycle.TriggerReject, comment, userID, res, fired)
	case lifecycle.StatusReleased:
		return e.transition(ctx, version, from, lifecycle.TriggerRevisionDone, "", userID, res, fired)
	default:
		// Votes still outstanding, stay in revision.
		return nil
	}
}

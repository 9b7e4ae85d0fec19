package engine

import (
	"context"
	"fmt"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/quorum"
	"go.uber.org/zap"
)

// Review records a review vote and derives the resulting version status. A
// rejection is terminal. Once every required reviewer has accepted, the
// approval quorum of the same version decides the successor status: pending
// approvals move the version to DRAFT_FOR_APPROVAL, a satisfied (or empty)
// approval set releases it directly.
func (e *Engine) Review(ctx context.Context, req ReviewRequest) (*Result, error) {
	version, oldStatus, err := e.loadVersion(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}

	for _, l := range e.reviewListeners {
		if err := l.PreReview(ctx, version); err != nil {
			e.logger.Warn("PreReview listener failed", zap.Int64("version_id", version.ID), zap.Error(err))
		}
	}

	res := &Result{OldStatus: oldStatus, NewStatus: oldStatus}
	var trigger lifecycle.Trigger

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		logID, err := e.recordVote(txCtx, req.Vote, entity.RoleReviewer)
		if err != nil {
			return err
		}
		res.LogID = logID

		if req.Status == entity.VoteRejected {
			return e.transition(txCtx, version, oldStatus, lifecycle.TriggerReject, req.Comment, req.ActingUserID, res, &trigger)
		}

		reviewSummary, err := e.votes.Summary(txCtx, req.VersionID, entity.RoleReviewer)
		if err != nil {
			return fmt.Errorf("%w: review summary: %v", ErrSnapshotUnavailable, err)
		}

		reviews := quorum.Evaluate(reviewSummary)
		if reviews.Rejected > 0 || !reviews.Complete {
			return nil
		}

		// All reviews are in; the approval quorum picks the successor
		// status through the transition guards.
		approvalSummary, err := e.votes.Summary(txCtx, req.VersionID, entity.RoleApprover)
		if err != nil {
			return fmt.Errorf("%w: approval summary: %v", ErrSnapshotUnavailable, err)
		}

		guardCtx := withApprovalOutcome(txCtx, quorum.Evaluate(approvalSummary))
		return e.transition(guardCtx, version, oldStatus, lifecycle.TriggerReviewsDone, "", req.ActingUserID, res, &trigger)
	})
	if err != nil {
		return nil, err
	}

	e.publishVoteCast(ctx, req.Vote, entity.RoleReviewer, res.LogID)
	if res.StatusChanged {
		for _, l := range e.reviewListeners {
			l.PostReview(ctx, version, res.OldStatus, res.NewStatus)
		}
		e.publishStatusChanged(ctx, version.ID, res.OldStatus, res.NewStatus, trigger, req.ActingUserID)
	}

	e.logger.Info("Review vote processed",
		zap.Int64("version_id", req.VersionID),
		zap.Int("vote", req.Status),
		zap.String("old_status", res.OldStatus.String()),
		zap.String("new_status", res.NewStatus.String()))

	return res, nil
}

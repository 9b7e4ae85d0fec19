package engine

import (
	"context"
	"time"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"go.uber.org/zap"
)

// Receive records a reception acknowledgement. Reception votes accept with
// the plain accepted code or the distinct acknowledged code, or reject, and
// never change the version status.
func (e *Engine) Receive(ctx context.Context, req ReceiveRequest) (*Result, error) {
	version, oldStatus, err := e.loadVersion(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}

	for _, l := range e.receptionListeners {
		if err := l.PreReceive(ctx, version); err != nil {
			e.logger.Warn("PreReceive listener failed", zap.Int64("version_id", version.ID), zap.Error(err))
		}
	}

	res := &Result{OldStatus: oldStatus, NewStatus: oldStatus}

	err = e.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		logID, err := e.recordVote(txCtx, req.Vote, entity.RoleRecipient)
		if err != nil {
			return err
		}
		res.LogID = logID
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := &entity.VoteLogEntry{
		ID:           res.LogID,
		Role:         entity.RoleRecipient,
		Kind:         req.Kind,
		EntityID:     req.voterID(),
		ActingUserID: req.ActingUserID,
		Status:       req.Status,
		Comment:      req.Comment,
		CreatedAt:    time.Now(),
	}
	for _, l := range e.receptionListeners {
		l.PostReceive(ctx, version, entry)
	}
	e.publishVoteCast(ctx, req.Vote, entity.RoleRecipient, res.LogID)

	e.logger.Info("Reception recorded",
		zap.Int64("version_id", req.VersionID),
		zap.Int("vote", req.Status))

	return res, nil
}

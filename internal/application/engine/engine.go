// Package engine implements the document status transition engine: the
// state machine deciding how a document version moves between lifecycle
// statuses as review, approval, revision and reception votes arrive.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/dispatcher"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/event"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
	"go.uber.org/zap"
)

// autoStatusComment is recorded with automatic status updates, where no
// voter-supplied comment applies.
const autoStatusComment = "automatic status update"

// Result reports what a vote did to the document version.
type Result struct {
	LogID         int64
	OldStatus     lifecycle.Status
	NewStatus     lifecycle.Status
	StatusChanged bool
}

// Engine orchestrates vote recording, quorum evaluation and status
// transitions. Every transition runs inside a single transaction: vote
// write, quorum snapshot read and status write either all commit or none
// do.
type Engine struct {
	versions port.VersionRepository
	votes    port.VoteLogRepository
	tx       port.TransactionManager
	events   dispatcher.Dispatcher
	logger   *zap.Logger

	approvalListeners  []ApprovalListener
	reviewListeners    []ReviewListener
	revisionListeners  []RevisionListener
	receptionListeners []ReceptionListener
}

// Option configures the engine.
type Option func(*Engine)

// WithDispatcher sets the event dispatcher used to publish domain events
// after a transition commits.
func WithDispatcher(d dispatcher.Dispatcher) Option {
	return func(e *Engine) {
		e.events = d
	}
}

// WithApprovalListener registers an approval listener.
func WithApprovalListener(l ApprovalListener) Option {
	return func(e *Engine) {
		e.approvalListeners = append(e.approvalListeners, l)
	}
}

// WithReviewListener registers a review listener.
func WithReviewListener(l ReviewListener) Option {
	return func(e *Engine) {
		e.reviewListeners = append(e.reviewListeners, l)
	}
}

// WithRevisionListener registers a revision listener.
func WithRevisionListener(l RevisionListener) Option {
	return func(e *Engine) {
		e.revisionListeners = append(e.revisionListeners, l)
	}
}

// WithReceptionListener registers a reception listener.
func WithReceptionListener(l ReceptionListener) Option {
	return func(e *Engine) {
		e.receptionListeners = append(e.receptionListeners, l)
	}
}

// New creates a workflow engine.
func New(
	versions port.VersionRepository,
	votes port.VoteLogRepository,
	tx port.TransactionManager,
	logger *zap.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		versions: versions,
		votes:    votes,
		tx:       tx,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// loadVersion fetches the version and decodes its current status.
func (e *Engine) loadVersion(ctx context.Context, versionID int64) (*entity.DocumentVersion, lifecycle.Status, error) {
	version, err := e.versions.GetByID(ctx, versionID)
	if err != nil {
		return nil, "", err
	}
	status, ok := lifecycle.FromCode(version.Status)
	if !ok {
		return nil, "", fmt.Errorf("%w: unknown status code %d on version %d", lifecycle.ErrInvalidStatus, version.Status, versionID)
	}
	return version, status, nil
}

// recordVote validates the vote type and appends the vote to the log. Vote
// rule violations keep their sentinel; anything else counts as a failed log
// update.
func (e *Engine) recordVote(ctx context.Context, v Vote, role entity.Role) (int64, error) {
	if !v.Kind.IsValid() {
		return 0, ErrWrongVoteType
	}

	logID, err := e.votes.CastVote(ctx, v.VersionID, role, v.Kind, v.voterID(), v.ActingUserID, v.Status, v.Comment, v.FilePath)
	if err != nil {
		if isVoteRuleError(err) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrVoteUpdateFailed, err)
	}
	return logID, nil
}

func isVoteRuleError(err error) bool {
	return errors.Is(err, port.ErrNotRequiredParticipant) ||
		errors.Is(err, port.ErrRoundNotStarted) ||
		errors.Is(err, port.ErrInvalidVoteStatus) ||
		errors.Is(err, port.ErrMissingArgument)
}

// setStatus persists the transition the machine just made. The compare
// against the old status code makes concurrent last-voter races impossible
// to double-commit.
func (e *Engine) setStatus(ctx context.Context, version *entity.DocumentVersion, from, to lifecycle.Status, comment string, userID int64) error {
	if comment == "" {
		comment = autoStatusComment
	}
	if err := e.versions.UpdateStatus(ctx, version.ID, from.Code(), to.Code(), comment, userID); err != nil {
		return err
	}
	version.Status = to.Code()
	return nil
}

// publish emits a domain event if a dispatcher is configured. Events are
// fire-and-forget; handler failures never affect the committed vote.
func (e *Engine) publish(ctx context.Context, evt *event.Event) {
	if e.events == nil {
		return
	}
	e.events.DispatchAsync(ctx, evt)
}

func (e *Engine) publishVoteCast(ctx context.Context, v Vote, role entity.Role, logID int64) {
	e.publish(ctx, event.New(event.TypeVoteCast, v.VersionID, map[string]interface{}{
		"role":           role.String(),
		"kind":           v.Kind.String(),
		"status":         v.Status,
		"acting_user_id": v.ActingUserID,
		"log_id":         logID,
	}))
}

func (e *Engine) publishStatusChanged(ctx context.Context, versionID int64, from, to lifecycle.Status, trigger lifecycle.Trigger, userID int64) {
	e.publish(ctx, event.New(event.TypeStatusChanged, versionID, map[string]interface{}{
		"old_status":     from.String(),
		"new_status":     to.String(),
		"trigger":        trigger.String(),
		"acting_user_id": userID,
	}))
}

package engine

import (
	"context"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/quorum"
)

type approvalOutcomeKey struct{}

// withApprovalOutcome carries the approval quorum outcome to the guards of
// the REVIEWS_DONE transition.
func withApprovalOutcome(ctx context.Context, out quorum.Outcome) context.Context {
	return context.WithValue(ctx, approvalOutcomeKey{}, out)
}

func approvalsOutstanding(ctx context.Context) bool {
	out, ok := ctx.Value(approvalOutcomeKey{}).(quorum.Outcome)
	return ok && !out.Complete
}

func approvalsSatisfied(ctx context.Context) bool {
	out, ok := ctx.Value(approvalOutcomeKey{}).(quorum.Outcome)
	return ok && out.Complete
}

// buildDocumentMachine creates a status machine configured for the document
// lifecycle, positioned at the given status.
func buildDocumentMachine(initial lifecycle.Status) lifecycle.Machine {
	b := lifecycle.NewBuilder()

	b.Configure(lifecycle.StatusDraft).
		Permit(lifecycle.TriggerSubmitForReview, lifecycle.StatusDraftForReview).
		Permit(lifecycle.TriggerSubmitForApproval, lifecycle.StatusDraftForApproval).
		Permit(lifecycle.TriggerRelease, lifecycle.StatusReleased)

	// Completed reviews cascade into the approval phase when approvals are
	// still outstanding, otherwise straight to released.
	b.Configure(lifecycle.StatusDraftForReview).
		Permit(lifecycle.TriggerReject, lifecycle.StatusRejected).
		PermitIf(lifecycle.TriggerReviewsDone, lifecycle.StatusDraftForApproval, approvalsOutstanding).
		PermitIf(lifecycle.TriggerReviewsDone, lifecycle.StatusReleased, approvalsSatisfied).
		Permit(lifecycle.TriggerApprovalsDone, lifecycle.StatusReleased)

	b.Configure(lifecycle.StatusDraftForApproval).
		Permit(lifecycle.TriggerReject, lifecycle.StatusRejected).
		Permit(lifecycle.TriggerApprovalsDone, lifecycle.StatusReleased)

	b.Configure(lifecycle.StatusReleased).
		Permit(lifecycle.TriggerReject, lifecycle.StatusRejected).
		Permit(lifecycle.TriggerStartRevision, lifecycle.StatusInRevision).
		Permit(lifecycle.TriggerExpire, lifecycle.StatusExpired).
		Permit(lifecycle.TriggerMarkObsolete, lifecycle.StatusObsolete)

	b.Configure(lifecycle.StatusInRevision).
		Permit(lifecycle.TriggerReject, lifecycle.StatusRejected).
		Permit(lifecycle.TriggerRevisionDone, lifecycle.StatusReleased)

	b.Configure(lifecycle.StatusExpired).
		Permit(lifecycle.TriggerRelease, lifecycle.StatusReleased).
		Permit(lifecycle.TriggerMarkObsolete, lifecycle.StatusObsolete)

	// REJECTED and OBSOLETE are terminal

	return b.Build(initial)
}

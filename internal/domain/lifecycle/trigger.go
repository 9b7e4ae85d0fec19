package lifecycle

// Trigger represents an event that can cause a status transition.
type Trigger string

const (
	TriggerSubmitForReview   Trigger = "SUBMIT_FOR_REVIEW"
	TriggerSubmitForApproval Trigger = "SUBMIT_FOR_APPROVAL"
	TriggerRelease           Trigger = "RELEASE"
	TriggerReject            Trigger = "REJECT"
	TriggerReviewsDone       Trigger = "REVIEWS_DONE"
	TriggerApprovalsDone     Trigger = "APPROVALS_DONE"
	TriggerStartRevision     Trigger = "START_REVISION"
	TriggerRevisionDone      Trigger = "REVISION_DONE"
	TriggerExpire            Trigger = "EXPIRE"
	TriggerMarkObsolete      Trigger = "MARK_OBSOLETE"
)

func (t Trigger) String() string {
	return string(t)
}

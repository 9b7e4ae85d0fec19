// Package quorum computes aggregate voting outcomes from status summaries.
// It is purely functional; callers load the summary and persist results.
package quorum

import (
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
)

// Outcome is the aggregate result over the required participants of one role.
type Outcome struct {
	// Accepted is the number of participants whose latest vote accepted.
	Accepted int

	// Rejected is the number of participants whose latest vote rejected.
	// A single rejection takes priority over Complete; callers must check
	// Rejected before consulting Complete.
	Rejected int

	// Total is the number of required participants. Entries marked not
	// required are excluded.
	Total int

	// Complete is true once every required participant has accepted. An
	// empty participant set is complete by convention.
	Complete bool
}

// Evaluate computes the outcome of a status summary. Acknowledged reception
// votes count as accepted.
func Evaluate(summary []entity.ParticipantStatus) Outcome {
	var out Outcome
	for _, s := range summary {
		switch s.Status {
		case entity.VoteAccepted, entity.VoteAcknowledged:
			out.Accepted++
		case entity.VoteRejected:
			out.Rejected++
		}
		if s.Status != entity.VoteNotRequired {
			out.Total++
		}
	}
	out.Complete = out.Accepted == out.Total
	return out
}

// RevisionOutcome derives the status a version in revision should take given
// the current revision summary. When oneVoteReject is set a single rejection
// is terminal even while other votes are outstanding; otherwise rejection is
// terminal only once every required revisor has rejected. A complete round
// with no rejections releases the version; anything else keeps it in
// revision.
func RevisionOutcome(summary []entity.ParticipantStatus, oneVoteReject bool) lifecycle.Status {
	out := Evaluate(summary)
	switch {
	case out.Rejected > 0 && oneVoteReject:
		return lifecycle.StatusRejected
	case out.Total > 0 && out.Rejected == out.Total:
		return lifecycle.StatusRejected
	case out.Complete:
		return lifecycle.StatusReleased
	default:
		return lifecycle.StatusInRevision
	}
}

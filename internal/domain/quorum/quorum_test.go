package quorum

import (
	"testing"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
)

func summaryOf(statuses ...int) []entity.ParticipantStatus {
	summary := make([]entity.ParticipantStatus, len(statuses))
	for i, s := range statuses {
		summary[i] = entity.ParticipantStatus{
			Participant: entity.Participant{ID: int64(i + 1), EntityID: int64(i + 1)},
			Status:      s,
		}
	}
	return summary
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		statuses []int
		expected Outcome
	}{
		{
			name:     "empty set is complete",
			statuses: nil,
			expected: Outcome{Accepted: 0, Rejected: 0, Total: 0, Complete: true},
		},
		{
			name:     "all accepted",
			statuses: []int{entity.VoteAccepted, entity.VoteAccepted, entity.VoteAccepted},
			expected: Outcome{Accepted: 3, Total: 3, Complete: true},
		},
		{
			name:     "one sleeping blocks completion",
			statuses: []int{entity.VoteAccepted, entity.VoteSleeping},
			expected: Outcome{Accepted: 1, Total: 2, Complete: false},
		},
		{
			name:     "rejection counts against completion",
			statuses: []int{entity.VoteAccepted, entity.VoteRejected},
			expected: Outcome{Accepted: 1, Rejected: 1, Total: 2, Complete: false},
		},
		{
			name:     "not required excluded from total",
			statuses: []int{entity.VoteAccepted, entity.VoteNotRequired},
			expected: Outcome{Accepted: 1, Total: 1, Complete: true},
		},
		{
			name:     "only not required behaves as empty set",
			statuses: []int{entity.VoteNotRequired, entity.VoteNotRequired},
			expected: Outcome{Total: 0, Complete: true},
		},
		{
			name:     "acknowledged counts as accepted",
			statuses: []int{entity.VoteAcknowledged, entity.VoteAccepted},
			expected: Outcome{Accepted: 2, Total: 2, Complete: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(summaryOf(tt.statuses...))
			if got != tt.expected {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestEvaluate_RejectionNeverCountsAsComplete(t *testing.T) {
	// Rejected participants are part of the total, so a set containing any
	// rejection can never reach Accepted == Total.
	got := Evaluate(summaryOf(entity.VoteRejected, entity.VoteRejected))
	if got.Complete {
		t.Error("Evaluate() reported a fully rejected set as complete")
	}
	if got.Rejected != 2 || got.Total != 2 {
		t.Errorf("Evaluate() = %+v, want Rejected=2 Total=2", got)
	}
}

func TestRevisionOutcome(t *testing.T) {
	tests := []struct {
		name          string
		statuses      []int
		oneVoteReject bool
		expected      lifecycle.Status
	}{
		{
			name:     "all accepted releases",
			statuses: []int{entity.VoteAccepted, entity.VoteAccepted},
			expected: lifecycle.StatusReleased,
		},
		{
			name:     "outstanding votes keep revision open",
			statuses: []int{entity.VoteAccepted, entity.VoteSleeping},
			expected: lifecycle.StatusInRevision,
		},
		{
			name:     "single rejection not terminal by default",
			statuses: []int{entity.VoteRejected, entity.VoteSleeping},
			expected: lifecycle.StatusInRevision,
		},
		{
			name:          "single rejection terminal with one vote reject",
			statuses:      []int{entity.VoteRejected, entity.VoteSleeping},
			oneVoteReject: true,
			expected:      lifecycle.StatusRejected,
		},
		{
			name:     "all rejected is terminal",
			statuses: []int{entity.VoteRejected, entity.VoteRejected},
			expected: lifecycle.StatusRejected,
		},
		{
			name:     "mixed rejection with complete remainder stays in revision",
			statuses: []int{entity.VoteAccepted, entity.VoteRejected},
			expected: lifecycle.StatusInRevision,
		},
		{
			name:     "empty revisor set releases",
			statuses: nil,
			expected: lifecycle.StatusReleased,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RevisionOutcome(summaryOf(tt.statuses...), tt.oneVoteReject)
			if got != tt.expected {
				t.Errorf("RevisionOutcome() = %v, want %v", got, tt.expected)
			}
		})
	}
}

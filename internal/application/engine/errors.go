package engine

import "errors"

var (
	// ErrWrongVoteType is returned when the request names neither an
	// individual nor a group vote.
	ErrWrongVoteType = errors.New("vote type must be ind or grp")

	// ErrVoteUpdateFailed is returned when the vote log write fails for a
	// reason other than a vote rule violation.
	ErrVoteUpdateFailed = errors.New("vote log update failed")

	// ErrSnapshotUnavailable is returned when the quorum summary cannot be
	// loaded. The triggering transition is aborted before any status
	// mutation.
	ErrSnapshotUnavailable = errors.New("status summary unavailable")
)

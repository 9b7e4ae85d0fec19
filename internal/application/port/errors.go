package port

import "errors"

// Sentinel errors shared between the repositories and the workflow engine.
// They replace the negative integer codes of the historic schema with
// distinct values usable with errors.Is.
var (
	// ErrVersionNotFound is returned when a document version does not exist.
	ErrVersionNotFound = errors.New("document version not found")

	// ErrMissingArgument is returned when the acting user or the
	// participant entity is absent.
	ErrMissingArgument = errors.New("missing acting user or participant")

	// ErrDuplicateParticipant is returned when an entity is already
	// registered for the role on that version.
	ErrDuplicateParticipant = errors.New("participant already registered for role")

	// ErrNotRequiredParticipant is returned when a vote is cast by an
	// entity that is not in the required set.
	ErrNotRequiredParticipant = errors.New("not a required participant")

	// ErrRoundNotStarted is returned for revision votes cast before the
	// revision round has been started.
	ErrRoundNotStarted = errors.New("revision round not started")

	// ErrInvalidVoteStatus is returned for vote codes outside the set the
	// role accepts.
	ErrInvalidVoteStatus = errors.New("invalid vote status")

	// ErrParticipantHasVoted is returned when removing a participant whose
	// latest entry is no longer sleeping.
	ErrParticipantHasVoted = errors.New("participant has already voted")

	// ErrConcurrentUpdate is returned when a status write lost a race with
	// another transition.
	ErrConcurrentUpdate = errors.New("version status changed concurrently")
)

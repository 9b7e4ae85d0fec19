package event

// Type identifies the kind of a domain event.
type Type string

const (
	// TypeStatusChanged is emitted after a version status transition commits.
	TypeStatusChanged Type = "status.changed"

	// TypeVoteCast is emitted after a vote has been recorded.
	TypeVoteCast Type = "vote.cast"

	// TypeRevisionStarted is emitted when a revision round starts.
	TypeRevisionStarted Type = "revision.started"
)

func (t Type) String() string {
	return string(t)
}

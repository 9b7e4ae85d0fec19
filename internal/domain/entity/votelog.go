package entity

import "time"

// Vote status codes recorded in the log. The codes are stored as-is in the
// database, so they must not be renumbered.
const (
	// VoteSleeping marks a registered participant that has not voted yet.
	VoteSleeping = 0

	// VoteAccepted is a positive vote.
	VoteAccepted = 1

	// VoteRejected is a negative vote.
	VoteRejected = -1

	// VoteNotRequired marks entries of removed participants. Entries with
	// this status are excluded from quorum totals.
	VoteNotRequired = -2

	// VoteAcknowledged is the reception-only accepted code used when a
	// recipient confirms receipt without reviewing the content.
	VoteAcknowledged = 6
)

// VoteLogEntry is one appended record of the vote log. Entries are never
// updated in place; a newer entry for the same participant supersedes the
// older ones.
type VoteLogEntry struct {
	ID            int64     `json:"id"`
	ParticipantID int64     `json:"participant_id"`
	Role          Role      `json:"role"`
	Kind          Kind      `json:"kind"`
	EntityID      int64     `json:"entity_id"`
	ActingUserID  int64     `json:"acting_user_id"`
	Status        int       `json:"status"`
	Comment       string    `json:"comment"`
	FilePath      string    `json:"file_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

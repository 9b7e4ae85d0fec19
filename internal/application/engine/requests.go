package engine

import "github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"

// Vote carries the fields common to all vote-casting requests. The typed
// request structs replace the loosely typed parameter bag the controllers
// historically passed around.
type Vote struct {
	VersionID    int64       `json:"version_id"`
	Kind         entity.Kind `json:"kind"`
	GroupID      int64       `json:"group_id,omitempty"`
	ActingUserID int64       `json:"acting_user_id"`
	Status       int         `json:"status"`
	Comment      string      `json:"comment"`
	FilePath     string      `json:"file_path,omitempty"`
}

// voterID returns the entity the vote is recorded against: the acting user
// for individual votes, the group for delegate votes.
func (v Vote) voterID() int64 {
	if v.Kind == entity.KindGroup {
		return v.GroupID
	}
	return v.ActingUserID
}

// ApproveRequest casts an approval vote on a document version.
type ApproveRequest struct {
	Vote
}

// ReviewRequest casts a review vote on a document version.
type ReviewRequest struct {
	Vote
}

// ReviseRequest casts a revision vote on a document version.
type ReviseRequest struct {
	Vote

	// OneVoteReject makes any single rejection terminal even while other
	// revisors have not voted yet.
	OneVoteReject bool `json:"one_vote_reject"`
}

// ReceiveRequest records a reception acknowledgement.
type ReceiveRequest struct {
	Vote
}

// StartRevisionRequest opens a revision round on a released version.
type StartRevisionRequest struct {
	VersionID    int64 `json:"version_id"`
	ActingUserID int64 `json:"acting_user_id"`
}

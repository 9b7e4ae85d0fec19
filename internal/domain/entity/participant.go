package entity

import "time"

// Role is the workflow role a participant votes in.
type Role string

const (
	RoleReviewer  Role = "reviewer"
	RoleApprover  Role = "approver"
	RoleRevisor   Role = "revisor"
	RoleRecipient Role = "recipient"
)

// IsValid returns true for one of the four defined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleReviewer, RoleApprover, RoleRevisor, RoleRecipient:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Kind distinguishes an individual participant from a group delegate.
type Kind string

const (
	KindIndividual Kind = "ind"
	KindGroup      Kind = "grp"
)

// IsValid returns true for ind or grp.
func (k Kind) IsValid() bool {
	return k == KindIndividual || k == KindGroup
}

func (k Kind) String() string {
	return string(k)
}

// Participant is a required voter registered on a document version. For
// KindGroup, any member of the group may vote on its behalf.
type Participant struct {
	ID        int64     `json:"id"`
	VersionID int64     `json:"version_id"`
	Role      Role      `json:"role"`
	Kind      Kind      `json:"kind"`
	EntityID  int64     `json:"entity_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ParticipantStatus is one element of a status summary: the participant
// together with its latest recorded vote.
type ParticipantStatus struct {
	Participant Participant `json:"participant"`
	Status      int         `json:"status"`
	Date        time.Time   `json:"date"`
}

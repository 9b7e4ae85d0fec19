package entity

import "time"

// Document is the folder-tree node that owns a chain of versions.
type Document struct {
	ID       int64  `json:"id"`
	FolderID int64  `json:"folder_id"`
	Name     string `json:"name"`
	OwnerID  int64  `json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
}

// DocumentVersion is an immutable content snapshot with mutable workflow
// state. Status is only ever changed by the transition engine.
type DocumentVersion struct {
	ID         int64 `json:"id"`
	DocumentID int64 `json:"document_id"`
	Version    int   `json:"version"`

	// Status holds the lifecycle status code (see lifecycle package).
	Status int `json:"status"`

	// RevisionStartedAt is set when a revision round is started. Revision
	// votes cast before this is set are invalid.
	RevisionStartedAt *time.Time `json:"revision_started_at,omitempty"`

	// ExpiresAt is the optional validity end of the version. It is
	// informational until the expire transition is fired.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusChange is one entry of a version's status history.
type StatusChange struct {
	ID        int64     `json:"id"`
	VersionID int64     `json:"version_id"`
	Status    int       `json:"status"`
	Comment   string    `json:"comment"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

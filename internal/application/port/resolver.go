package port

import "context"

// MandatoryParticipantResolver enumerates the reviewers and approvers that
// folder, document or user rules make mandatory for a new version. The
// resolution rules themselves live outside the workflow core.
type MandatoryParticipantResolver interface {
	MandatoryReviewers(ctx context.Context, folderID, documentID, userID int64) (IDSets, error)
	MandatoryApprovers(ctx context.Context, folderID, documentID, userID int64) (IDSets, error)
}

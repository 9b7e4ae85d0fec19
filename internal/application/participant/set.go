// Package participant resolves the definitive set of required reviewers,
// approvers and revisors for a new document version.
package participant

import (
	"context"
	"errors"
	"fmt"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
)

// ErrReviewerOnly is returned in traditional mode when reviewers are given
// without any approver and reviewer-only uploads are disallowed.
var ErrReviewerOnly = errors.New("reviewers require at least one approver")

// WorkflowMode selects which participant roles the workflow uses.
type WorkflowMode string

const (
	// ModeTraditional runs a review phase followed by an approval phase.
	ModeTraditional WorkflowMode = "traditional"

	// ModeTraditionalOnlyApproval skips the review phase entirely;
	// explicit reviewer lists are ignored.
	ModeTraditionalOnlyApproval WorkflowMode = "traditional_only_approval"
)

// ResolveInput carries the caller-supplied participant lists for one
// check-in. The GroupsAsIndividuals lists name groups whose members are
// registered as individual participants.
type ResolveInput struct {
	FolderID   int64
	DocumentID int64
	UserID     int64

	Reviewers                   port.IDSets
	ReviewerGroupsAsIndividuals []int64
	Approvers                   port.IDSets
	ApproverGroupsAsIndividuals []int64
	Recipients                  port.IDSets
}

// Sets is the merged participant lists per role. Duplicates across the
// merge are allowed here; deduplication happens when the vote log registers
// each participant.
type Sets struct {
	Reviewers  port.IDSets
	Approvers  port.IDSets
	Recipients port.IDSets
}

// Resolver merges explicit participant lists with the mandatory rules.
type Resolver struct {
	mode              WorkflowMode
	allowReviewerOnly bool
	mandatory         port.MandatoryParticipantResolver
	groups            port.GroupRepository
}

// NewResolver creates a participant resolver for the configured workflow mode.
func NewResolver(mode WorkflowMode, allowReviewerOnly bool, mandatory port.MandatoryParticipantResolver, groups port.GroupRepository) *Resolver {
	return &Resolver{
		mode:              mode,
		allowReviewerOnly: allowReviewerOnly,
		mandatory:         mandatory,
		groups:            groups,
	}
}

// Resolve produces the merged participant sets for a new version. It has no
// persistence side effects; the caller registers the result in the vote log.
func (r *Resolver) Resolve(ctx context.Context, in ResolveInput) (Sets, error) {
	var out Sets

	if r.mode == ModeTraditional {
		out.Reviewers = in.Reviewers
		expanded, err := r.expandGroups(ctx, in.ReviewerGroupsAsIndividuals)
		if err != nil {
			return Sets{}, fmt.Errorf("expand reviewer groups: %w", err)
		}
		out.Reviewers.Individuals = append(out.Reviewers.Individuals, expanded...)

		mandatory, err := r.mandatory.MandatoryReviewers(ctx, in.FolderID, in.DocumentID, in.UserID)
		if err != nil {
			return Sets{}, fmt.Errorf("mandatory reviewers: %w", err)
		}
		out.Reviewers.Individuals = append(out.Reviewers.Individuals, mandatory.Individuals...)
		out.Reviewers.Groups = append(out.Reviewers.Groups, mandatory.Groups...)
	}

	out.Approvers = in.Approvers
	expanded, err := r.expandGroups(ctx, in.ApproverGroupsAsIndividuals)
	if err != nil {
		return Sets{}, fmt.Errorf("expand approver groups: %w", err)
	}
	out.Approvers.Individuals = append(out.Approvers.Individuals, expanded...)

	mandatory, err := r.mandatory.MandatoryApprovers(ctx, in.FolderID, in.DocumentID, in.UserID)
	if err != nil {
		return Sets{}, fmt.Errorf("mandatory approvers: %w", err)
	}
	out.Approvers.Individuals = append(out.Approvers.Individuals, mandatory.Individuals...)
	out.Approvers.Groups = append(out.Approvers.Groups, mandatory.Groups...)

	out.Recipients = in.Recipients

	if r.mode == ModeTraditional && !r.allowReviewerOnly {
		hasReviewers := len(out.Reviewers.Individuals) > 0 || len(out.Reviewers.Groups) > 0
		hasApprovers := len(out.Approvers.Individuals) > 0 || len(out.Approvers.Groups) > 0
		if hasReviewers && !hasApprovers {
			return Sets{}, ErrReviewerOnly
		}
	}

	return out, nil
}

func (r *Resolver) expandGroups(ctx context.Context, groupIDs []int64) ([]int64, error) {
	var members []int64
	for _, gid := range groupIDs {
		ids, err := r.groups.MemberIDs(ctx, gid)
		if err != nil {
			return nil, err
		}
		members = append(members, ids...)
	}
	return members, nil
}

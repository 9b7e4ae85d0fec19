// Package service provides the document check-in operations that create
// versions and register their workflow participants.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/participant"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
	"go.uber.org/zap"
)

// CheckInRequest creates the next version of a document together with its
// required participants.
type CheckInRequest struct {
	DocumentID int64
	FolderID   int64
	UserID     int64
	Comment    string

	Reviewers                   port.IDSets
	ReviewerGroupsAsIndividuals []int64
	Approvers                   port.IDSets
	ApproverGroupsAsIndividuals []int64
	Recipients                  port.IDSets
}

// DocumentService creates documents and versions and wires up their
// participant sets. Status changes after creation are the transition
// engine's business.
type DocumentService struct {
	documents port.DocumentRepository
	versions  port.VersionRepository
	votes     port.VoteLogRepository
	resolver  *participant.Resolver
	tx        port.TransactionManager
	logger    *zap.Logger
}

// NewDocumentService creates a document service.
func NewDocumentService(
	documents port.DocumentRepository,
	versions port.VersionRepository,
	votes port.VoteLogRepository,
	resolver *participant.Resolver,
	tx port.TransactionManager,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		versions:  versions,
		votes:     votes,
		resolver:  resolver,
		tx:        tx,
		logger:    logger,
	}
}

// CheckIn creates the next document version, resolves and registers its
// participant set and sets the initial status: versions with reviewers
// start in DRAFT_FOR_REVIEW, versions with only approvers in
// DRAFT_FOR_APPROVAL, versions without any participants are released right
// away.
func (s *DocumentService) CheckIn(ctx context.Context, req CheckInRequest) (*entity.DocumentVersion, error) {
	doc, err := s.documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("load document %d: %w", req.DocumentID, err)
	}

	sets, err := s.resolver.Resolve(ctx, participant.ResolveInput{
		FolderID:   req.FolderID,
		DocumentID: req.DocumentID,
		UserID:     req.UserID,

		Reviewers:                   req.Reviewers,
		ReviewerGroupsAsIndividuals: req.ReviewerGroupsAsIndividuals,
		Approvers:                   req.Approvers,
		ApproverGroupsAsIndividuals: req.ApproverGroupsAsIndividuals,
		Recipients:                  req.Recipients,
	})
	if err != nil {
		return nil, err
	}

	version := &entity.DocumentVersion{
		DocumentID: doc.ID,
		Status:     initialStatus(sets).Code(),
		CreatedBy:  req.UserID,
		CreatedAt:  time.Now(),
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.versions.Create(txCtx, version); err != nil {
			return fmt.Errorf("create version: %w", err)
		}

		if err := s.register(txCtx, version.ID, entity.RoleReviewer, sets.Reviewers, req.UserID); err != nil {
			return err
		}
		if err := s.register(txCtx, version.ID, entity.RoleApprover, sets.Approvers, req.UserID); err != nil {
			return err
		}
		return s.register(txCtx, version.ID, entity.RoleRecipient, sets.Recipients, req.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Version checked in",
		zap.Int64("document_id", doc.ID),
		zap.Int64("version_id", version.ID),
		zap.Int("status", version.Status),
		zap.Int("reviewers", len(sets.Reviewers.Individuals)+len(sets.Reviewers.Groups)),
		zap.Int("approvers", len(sets.Approvers.Individuals)+len(sets.Approvers.Groups)))

	return version, nil
}

// SetExpires sets or clears the expiry date of a version. The date is
// informational; the expire transition is fired separately once it passes.
func (s *DocumentService) SetExpires(ctx context.Context, versionID int64, expiresAt *time.Time) error {
	if err := s.versions.SetExpires(ctx, versionID, expiresAt); err != nil {
		return err
	}

	s.logger.Info("Expiry date updated",
		zap.Int64("version_id", versionID),
		zap.Timep("expires_at", expiresAt))
	return nil
}

// register adds every participant of one role, ignoring duplicates from the
// merged lists.
func (s *DocumentService) register(ctx context.Context, versionID int64, role entity.Role, ids port.IDSets, actingUserID int64) error {
	for _, id := range ids.Individuals {
		if _, err := s.votes.AddParticipant(ctx, versionID, role, entity.KindIndividual, id, actingUserID); err != nil {
			if errors.Is(err, port.ErrDuplicateParticipant) {
				continue
			}
			return fmt.Errorf("register %s %d: %w", role, id, err)
		}
	}
	for _, id := range ids.Groups {
		if _, err := s.votes.AddParticipant(ctx, versionID, role, entity.KindGroup, id, actingUserID); err != nil {
			if errors.Is(err, port.ErrDuplicateParticipant) {
				continue
			}
			return fmt.Errorf("register %s group %d: %w", role, id, err)
		}
	}
	return nil
}

func initialStatus(sets participant.Sets) lifecycle.Status {
	switch {
	case len(sets.Reviewers.Individuals) > 0 || len(sets.Reviewers.Groups) > 0:
		return lifecycle.StatusDraftForReview
	case len(sets.Approvers.Individuals) > 0 || len(sets.Approvers.Groups) > 0:
		return lifecycle.StatusDraftForApproval
	default:
		return lifecycle.StatusReleased
	}
}

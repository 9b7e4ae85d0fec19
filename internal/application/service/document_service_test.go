package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/participant"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
)

// Mock repositories

type mockDocumentRepo struct {
	getByIDFunc func(ctx context.Context, id int64) (*entity.Document, error)
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	doc.ID = 1
	return nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Document{ID: id, FolderID: 1, Name: "handbook", OwnerID: 3}, nil
}

type mockVersionRepo struct {
	created []*entity.DocumentVersion

	setExpiresFunc func(ctx context.Context, versionID int64, expiresAt *time.Time) error
}

func (m *mockVersionRepo) Create(ctx context.Context, version *entity.DocumentVersion) error {
	version.ID = int64(len(m.created) + 1)
	version.Version = len(m.created) + 1
	m.created = append(m.created, version)
	return nil
}

func (m *mockVersionRepo) GetByID(ctx context.Context, id int64) (*entity.DocumentVersion, error) {
	return nil, port.ErrVersionNotFound
}

func (m *mockVersionRepo) GetLatest(ctx context.Context, documentID int64) (*entity.DocumentVersion, error) {
	return nil, port.ErrVersionNotFound
}

func (m *mockVersionRepo) UpdateStatus(ctx context.Context, versionID int64, fromStatus, toStatus int, comment string, userID int64) error {
	return nil
}

func (m *mockVersionRepo) MarkRevisionStarted(ctx context.Context, versionID int64) error {
	return nil
}

func (m *mockVersionRepo) SetExpires(ctx context.Context, versionID int64, expiresAt *time.Time) error {
	if m.setExpiresFunc != nil {
		return m.setExpiresFunc(ctx, versionID, expiresAt)
	}
	return nil
}

func (m *mockVersionRepo) StatusHistory(ctx context.Context, versionID int64) ([]*entity.StatusChange, error) {
	return nil, nil
}

type registered struct {
	role     entity.Role
	kind     entity.Kind
	entityID int64
}

type mockVoteLogRepo struct {
	addParticipantFunc func(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64) (int64, error)

	added []registered
}

func (m *mockVoteLogRepo) AddParticipant(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64) (int64, error) {
	if m.addParticipantFunc != nil {
		return m.addParticipantFunc(ctx, versionID, role, kind, entityID, actingUserID)
	}
	m.added = append(m.added, registered{role, kind, entityID})
	return int64(len(m.added)), nil
}

func (m *mockVoteLogRepo) RemoveParticipant(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64) error {
	return nil
}

func (m *mockVoteLogRepo) CastVote(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64, status int, comment, filePath string) (int64, error) {
	return 0, nil
}

func (m *mockVoteLogRepo) StartRound(ctx context.Context, versionID, actingUserID int64) error {
	return nil
}

func (m *mockVoteLogRepo) Log(ctx context.Context, versionID int64, role entity.Role, limit int) ([]*entity.VoteLogEntry, error) {
	return nil, nil
}

func (m *mockVoteLogRepo) Summary(ctx context.Context, versionID int64, role entity.Role) ([]entity.ParticipantStatus, error) {
	return nil, nil
}

func (m *mockVoteLogRepo) Participants(ctx context.Context, versionID int64, role entity.Role) (port.IDSets, error) {
	return port.IDSets{}, nil
}

type mockMandatoryResolver struct{}

func (m *mockMandatoryResolver) MandatoryReviewers(ctx context.Context, folderID, documentID, userID int64) (port.IDSets, error) {
	return port.IDSets{}, nil
}

func (m *mockMandatoryResolver) MandatoryApprovers(ctx context.Context, folderID, documentID, userID int64) (port.IDSets, error) {
	return port.IDSets{}, nil
}

type mockGroupRepo struct{}

func (m *mockGroupRepo) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return nil, nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(versions *mockVersionRepo, votes *mockVoteLogRepo) *DocumentService {
	resolver := participant.NewResolver(participant.ModeTraditional, true, &mockMandatoryResolver{}, &mockGroupRepo{})
	return NewDocumentService(&mockDocumentRepo{}, versions, votes, resolver, &mockTxManager{}, zap.NewNop())
}

func TestCheckIn_WithReviewersStartsInReview(t *testing.T) {
	versions := &mockVersionRepo{}
	votes := &mockVoteLogRepo{}
	svc := newTestService(versions, votes)

	version, err := svc.CheckIn(context.Background(), CheckInRequest{
		DocumentID: 1,
		UserID:     3,
		Reviewers:  port.IDSets{Individuals: []int64{10}},
		Approvers:  port.IDSets{Individuals: []int64{11}},
	})
	require.NoError(t, err)

	assert.Equal(t, lifecycle.CodeDraftForReview, version.Status)
	assert.ElementsMatch(t, []registered{
		{entity.RoleReviewer, entity.KindIndividual, 10},
		{entity.RoleApprover, entity.KindIndividual, 11},
	}, votes.added)
}

func TestCheckIn_ApproversOnlyStartsInApproval(t *testing.T) {
	versions := &mockVersionRepo{}
	votes := &mockVoteLogRepo{}
	svc := newTestService(versions, votes)

	version, err := svc.CheckIn(context.Background(), CheckInRequest{
		DocumentID: 1,
		UserID:     3,
		Approvers:  port.IDSets{Groups: []int64{20}},
	})
	require.NoError(t, err)

	assert.Equal(t, lifecycle.CodeDraftForApproval, version.Status)
	assert.ElementsMatch(t, []registered{
		{entity.RoleApprover, entity.KindGroup, 20},
	}, votes.added)
}

func TestCheckIn_NoParticipantsReleasesImmediately(t *testing.T) {
	versions := &mockVersionRepo{}
	votes := &mockVoteLogRepo{}
	svc := newTestService(versions, votes)

	version, err := svc.CheckIn(context.Background(), CheckInRequest{
		DocumentID: 1,
		UserID:     3,
	})
	require.NoError(t, err)

	assert.Equal(t, lifecycle.CodeReleased, version.Status)
	assert.Empty(t, votes.added)
}

func TestCheckIn_RecipientsDoNotAffectInitialStatus(t *testing.T) {
	versions := &mockVersionRepo{}
	votes := &mockVoteLogRepo{}
	svc := newTestService(versions, votes)

	version, err := svc.CheckIn(context.Background(), CheckInRequest{
		DocumentID: 1,
		UserID:     3,
		Recipients: port.IDSets{Individuals: []int64{30}},
	})
	require.NoError(t, err)

	assert.Equal(t, lifecycle.CodeReleased, version.Status)
	assert.ElementsMatch(t, []registered{
		{entity.RoleRecipient, entity.KindIndividual, 30},
	}, votes.added)
}

func TestCheckIn_DuplicateParticipantsSkipped(t *testing.T) {
	versions := &mockVersionRepo{}
	seen := map[registered]bool{}
	votes := &mockVoteLogRepo{}
	votes.addParticipantFunc = func(ctx context.Context, versionID int64, role entity.Role, kind entity.Kind, entityID, actingUserID int64) (int64, error) {
		key := registered{role, kind, entityID}
		if seen[key] {
			return 0, port.ErrDuplicateParticipant
		}
		seen[key] = true
		votes.added = append(votes.added, key)
		return int64(len(votes.added)), nil
	}
	svc := newTestService(versions, votes)

	_, err := svc.CheckIn(context.Background(), CheckInRequest{
		DocumentID: 1,
		UserID:     3,
		// The same reviewer listed twice must register once.
		Reviewers: port.IDSets{Individuals: []int64{10, 10}},
		Approvers: port.IDSets{Individuals: []int64{11}},
	})
	require.NoError(t, err)

	assert.Len(t, votes.added, 2)
}

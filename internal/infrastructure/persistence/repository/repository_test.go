package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	// Every pooled connection would get its own in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../../../migrations/001_initial_schema.sql")
	require.NoError(t, err)

	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

type fixtures struct {
	db        *sql.DB
	documents *DocumentRepository
	versions  *VersionRepository
	votes     *VoteLogRepository
	groups    *GroupRepository
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()
	db := openTestDB(t)
	logger := zap.NewNop()

	return &fixtures{
		db:        db,
		documents: NewDocumentRepository(db, logger),
		versions:  NewVersionRepository(db, logger),
		votes:     NewVoteLogRepository(db, logger),
		groups:    NewGroupRepository(db),
	}
}

func (f *fixtures) newVersion(t *testing.T, status int) *entity.DocumentVersion {
	t.Helper()
	ctx := context.Background()

	doc := &entity.Document{FolderID: 1, Name: "handbook", OwnerID: 3}
	require.NoError(t, f.documents.Create(ctx, doc))

	version := &entity.DocumentVersion{DocumentID: doc.ID, Status: status, CreatedBy: 3}
	require.NoError(t, f.versions.Create(ctx, version))
	return version
}

func TestVersionRepository_CreateAssignsSequentialNumbers(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	doc := &entity.Document{FolderID: 1, Name: "handbook", OwnerID: 3}
	require.NoError(t, f.documents.Create(ctx, doc))

	first := &entity.DocumentVersion{DocumentID: doc.ID, Status: lifecycle.CodeDraftForReview, CreatedBy: 3}
	second := &entity.DocumentVersion{DocumentID: doc.ID, Status: lifecycle.CodeDraftForReview, CreatedBy: 3}
	require.NoError(t, f.versions.Create(ctx, first))
	require.NoError(t, f.versions.Create(ctx, second))

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)

	latest, err := f.versions.GetLatest(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	// Each creation writes an initial status entry.
	history, err := f.versions.StatusHistory(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, lifecycle.CodeDraftForReview, history[0].Status)
}

func TestVersionRepository_GetByIDNotFound(t *testing.T) {
	f := newFixtures(t)

	_, err := f.versions.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, port.ErrVersionNotFound)
}

func TestVersionRepository_UpdateStatus(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeDraftForApproval)

	err := f.versions.UpdateStatus(ctx, version.ID, lifecycle.CodeDraftForApproval, lifecycle.CodeReleased, "all approved", 7)
	require.NoError(t, err)

	got, err := f.versions.GetByID(ctx, version.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.CodeReleased, got.Status)

	history, err := f.versions.StatusHistory(ctx, version.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "all approved", history[1].Comment)
	assert.Equal(t, int64(7), history[1].UserID)
}

func TestVersionRepository_UpdateStatusStaleFrom(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeDraftForApproval)

	// A competing transition already moved the version.
	require.NoError(t, f.versions.UpdateStatus(ctx, version.ID, lifecycle.CodeDraftForApproval, lifecycle.CodeReleased, "", 7))

	err := f.versions.UpdateStatus(ctx, version.ID, lifecycle.CodeDraftForApproval, lifecycle.CodeRejected, "", 8)
	assert.ErrorIs(t, err, port.ErrConcurrentUpdate)

	got, err := f.versions.GetByID(ctx, version.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.CodeReleased, got.Status)
}

func TestVersionRepository_SetExpires(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeReleased)

	expires := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.versions.SetExpires(ctx, version.ID, &expires))

	got, err := f.versions.GetByID(ctx, version.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(expires))

	// Clearing with nil removes the date again.
	require.NoError(t, f.versions.SetExpires(ctx, version.ID, nil))

	got, err = f.versions.GetByID(ctx, version.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ExpiresAt)
}

func TestVersionRepository_SetExpiresNotFound(t *testing.T) {
	f := newFixtures(t)

	expires := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	err := f.versions.SetExpires(context.Background(), 42, &expires)
	assert.ErrorIs(t, err, port.ErrVersionNotFound)
}

func TestVoteLogRepository_AddParticipant(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeDraftForReview)

	logID, err := f.votes.AddParticipant(ctx, version.ID, entity.RoleReviewer, entity.KindIndividual, 10, 3)
	require.NoError(t, err)
	assert.NotZero(t, logID)

	// Registration writes the sleeping entry.
	summary, err := f.votes.Summary(ctx, version.ID, entity.RoleReviewer)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, entity.VoteSleeping, summary[0].Status)

	// Same entity in another role is fine.
	_, err = f.votes.AddParticipant(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 3)
	assert.NoError(t, err)

	// Same entity in the same role is not.
	_, err = f.votes.AddParticipant(ctx, version.ID, entity.RoleReviewer, entity.KindIndividual, 10, 3)
	assert.ErrorIs(t, err, port.ErrDuplicateParticipant)
}

func TestVoteLogRepository_AddParticipantMissingArguments(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.votes.AddParticipant(ctx, 1, entity.RoleReviewer, entity.KindIndividual, 0, 3)
	assert.ErrorIs(t, err, port.ErrMissingArgument)

	_, err = f.votes.AddParticipant(ctx, 1, entity.RoleReviewer, entity.KindIndividual, 10, 0)
	assert.ErrorIs(t, err, port.ErrMissingArgument)

	_, err = f.votes.AddParticipant(ctx, 1, entity.Role("auditor"), entity.KindIndividual, 10, 3)
	assert.ErrorIs(t, err, port.ErrMissingArgument)
}

func TestVoteLogRepository_CastVote(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeDraftForApproval)

	_, err := f.votes.AddParticipant(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 3)
	require.NoError(t, err)

	logID, err := f.votes.CastVote(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 10, entity.VoteAccepted, "fine", "")
	require.NoError(t, err)
	assert.NotZero(t, logID)

	summary, err := f.votes.Summary(ctx, version.ID, entity.RoleApprover)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, entity.VoteAccepted, summary[0].Status)
}

func TestVoteLogRepository_CastVoteNotRequired(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeDraftForApproval)

	_, err := f.votes.CastVote(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 99, 99, entity.VoteAccepted, "", "")
	assert.ErrorIs(t, err, port.ErrNotRequiredParticipant)
}

func TestVoteLogRepository_CastVoteInvalidStatus(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeDraftForApproval)

	_, err := f.votes.AddParticipant(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 3)
	require.NoError(t, err)

	// Sleeping is not a castable vote.
	_, err = f.votes.CastVote(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 10, entity.VoteSleeping, "", "")
	assert.ErrorIs(t, err, port.ErrInvalidVoteStatus)

	// The acknowledged code is reserved for recipients.
	_, err = f.votes.CastVote(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 10, entity.VoteAcknowledged, "", "")
	assert.ErrorIs(t, err, port.ErrInvalidVoteStatus)
}

func TestVoteLogRepository_RecipientMayAcknowledge(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeReleased)

	_, err := f.votes.AddParticipant(ctx, version.ID, entity.RoleRecipient, entity.KindIndividual, 30, 3)
	require.NoError(t, err)

	_, err = f.votes.CastVote(ctx, version.ID, entity.RoleRecipient, entity.KindIndividual, 30, 30, entity.VoteAcknowledged, "", "")
	assert.NoError(t, err)
}

func TestVoteLogRepository_RevisionRound(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeReleased)

	_, err := f.votes.AddParticipant(ctx, version.ID, entity.RoleRevisor, entity.KindIndividual, 10, 3)
	require.NoError(t, err)
	_, err = f.votes.AddParticipant(ctx, version.ID, entity.RoleRevisor, entity.KindIndividual, 11, 3)
	require.NoError(t, err)

	// Voting before the round opens is rejected.
	_, err = f.votes.CastVote(ctx, version.ID, entity.RoleRevisor, entity.KindIndividual, 10, 10, entity.VoteAccepted, "", "")
	assert.ErrorIs(t, err, port.ErrRoundNotStarted)

	require.NoError(t, f.votes.StartRound(ctx, version.ID, 3))
	require.NoError(t, f.versions.MarkRevisionStarted(ctx, version.ID))

	// Opening the round appends one sleeping entry per revisor, doubling
	// the log.
	entries, err := f.votes.Log(ctx, version.ID, entity.RoleRevisor, 50)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	_, err = f.votes.CastVote(ctx, version.ID, entity.RoleRevisor, entity.KindIndividual, 10, 10, entity.VoteAccepted, "", "")
	assert.NoError(t, err)
}

func TestVoteLogRepository_SummaryUsesLatestEntry(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeReleased)

	_, err := f.votes.AddParticipant(ctx, version.ID, entity.RoleRevisor, entity.KindIndividual, 10, 3)
	require.NoError(t, err)
	require.NoError(t, f.versions.MarkRevisionStarted(ctx, version.ID))

	_, err = f.votes.CastVote(ctx, version.ID, entity.RoleRevisor, entity.KindIndividual, 10, 10, entity.VoteRejected, "", "")
	require.NoError(t, err)

	// A new round supersedes the rejection with a sleeping entry.
	require.NoError(t, f.votes.StartRound(ctx, version.ID, 3))

	summary, err := f.votes.Summary(ctx, version.ID, entity.RoleRevisor)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, entity.VoteSleeping, summary[0].Status)
}

func TestVoteLogRepository_RemoveParticipant(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeDraftForApproval)

	_, err := f.votes.AddParticipant(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 3)
	require.NoError(t, err)
	_, err = f.votes.AddParticipant(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 11, 3)
	require.NoError(t, err)

	require.NoError(t, f.votes.RemoveParticipant(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 11, 3))

	// Withdrawn participants cannot vote and drop out of the listing.
	_, err = f.votes.CastVote(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 11, 11, entity.VoteAccepted, "", "")
	assert.ErrorIs(t, err, port.ErrNotRequiredParticipant)

	sets, err := f.votes.Participants(ctx, version.ID, entity.RoleApprover)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10}, sets.Individuals)

	// Voters cannot be withdrawn.
	_, err = f.votes.CastVote(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 10, entity.VoteAccepted, "", "")
	require.NoError(t, err)
	err = f.votes.RemoveParticipant(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 3)
	assert.ErrorIs(t, err, port.ErrParticipantHasVoted)
}

func TestVoteLogRepository_LogOrderAndLimit(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	version := f.newVersion(t, lifecycle.CodeDraftForApproval)

	_, err := f.votes.AddParticipant(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 3)
	require.NoError(t, err)
	last, err := f.votes.CastVote(ctx, version.ID, entity.RoleApprover, entity.KindIndividual, 10, 10, entity.VoteAccepted, "", "")
	require.NoError(t, err)

	entries, err := f.votes.Log(ctx, version.ID, entity.RoleApprover, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, last, entries[0].ID)
	assert.Equal(t, entity.VoteAccepted, entries[0].Status)
}

func TestGroupRepository_MemberIDs(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.db.Exec(`INSERT INTO group_members (group_id, user_id) VALUES (5, 51), (5, 52), (6, 61)`)
	require.NoError(t, err)

	members, err := f.groups.MemberIDs(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{51, 52}, members)

	empty, err := f.groups.MemberIDs(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMandatoryParticipantRepository(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	mandatory := NewMandatoryParticipantRepository(f.db)

	_, err := f.db.Exec(`
		INSERT INTO mandatory_participants (user_id, role, kind, entity_id) VALUES
		(3, 'reviewer', 'ind', 100),
		(3, 'approver', 'ind', 200),
		(3, 'approver', 'grp', 20),
		(4, 'approver', 'ind', 300)
	`)
	require.NoError(t, err)

	reviewers, err := mandatory.MandatoryReviewers(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{100}, reviewers.Individuals)

	approvers, err := mandatory.MandatoryApprovers(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{200}, approvers.Individuals)
	assert.ElementsMatch(t, []int64{20}, approvers.Groups)

	other, err := mandatory.MandatoryApprovers(ctx, 1, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, other.Individuals)
	assert.Empty(t, other.Groups)
}

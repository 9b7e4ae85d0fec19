package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/engine"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/participant"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/port"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/service"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/entity"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/domain/lifecycle"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine    *engine.Engine
	documents *service.DocumentService
	versions  port.VersionRepository
	votes     port.VoteLogRepository

	oneVoteReject bool
	voteLogLimit  int
	logger        *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	eng *engine.Engine,
	documents *service.DocumentService,
	versions port.VersionRepository,
	votes port.VoteLogRepository,
	oneVoteReject bool,
	voteLogLimit int,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		engine:        eng,
		documents:     documents,
		versions:      versions,
		votes:         votes,
		oneVoteReject: oneVoteReject,
		voteLogLimit:  voteLogLimit,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// VoteRequest is the JSON body shared by the vote endpoints.
type VoteRequest struct {
	Kind         string `json:"kind" binding:"required"`
	GroupID      int64  `json:"group_id"`
	ActingUserID int64  `json:"acting_user_id" binding:"required"`
	Status       int    `json:"status" binding:"required"`
	Comment      string `json:"comment"`
	FilePath     string `json:"file_path"`
}

// TransitionResponse reports the effect of a vote or lifecycle trigger.
type TransitionResponse struct {
	LogID         int64  `json:"log_id,omitempty"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	StatusChanged bool   `json:"status_changed"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CheckIn handles POST /api/documents/:id/versions
func (h *Handlers) CheckIn(c *gin.Context) {
	documentID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		FolderID int64  `json:"folder_id"`
		UserID   int64  `json:"user_id" binding:"required"`
		Comment  string `json:"comment"`

		Reviewers                   port.IDSets `json:"reviewers"`
		ReviewerGroupsAsIndividuals []int64     `json:"reviewer_groups_as_individuals"`
		Approvers                   port.IDSets `json:"approvers"`
		ApproverGroupsAsIndividuals []int64     `json:"approver_groups_as_individuals"`
		Recipients                  port.IDSets `json:"recipients"`
	}
	if !h.bind(c, &body) {
		return
	}

	version, err := h.documents.CheckIn(c.Request.Context(), service.CheckInRequest{
		DocumentID: documentID,
		FolderID:   body.FolderID,
		UserID:     body.UserID,
		Comment:    body.Comment,

		Reviewers:                   body.Reviewers,
		ReviewerGroupsAsIndividuals: body.ReviewerGroupsAsIndividuals,
		Approvers:                   body.Approvers,
		ApproverGroupsAsIndividuals: body.ApproverGroupsAsIndividuals,
		Recipients:                  body.Recipients,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: version})
}

// Review handles POST /api/versions/:id/review
func (h *Handlers) Review(c *gin.Context) {
	vote, ok := h.voteFromRequest(c)
	if !ok {
		return
	}

	res, err := h.engine.Review(c.Request.Context(), engine.ReviewRequest{Vote: vote})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.transitionOK(c, res)
}

// Approve handles POST /api/versions/:id/approve
func (h *Handlers) Approve(c *gin.Context) {
	vote, ok := h.voteFromRequest(c)
	if !ok {
		return
	}

	res, err := h.engine.Approve(c.Request.Context(), engine.ApproveRequest{Vote: vote})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.transitionOK(c, res)
}

// StartRevision handles POST /api/versions/:id/revision
func (h *Handlers) StartRevision(c *gin.Context) {
	versionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		ActingUserID int64 `json:"acting_user_id" binding:"required"`
	}
	if !h.bind(c, &body) {
		return
	}

	res, err := h.engine.StartRevision(c.Request.Context(), engine.StartRevisionRequest{
		VersionID:    versionID,
		ActingUserID: body.ActingUserID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.transitionOK(c, res)
}

// Revise handles POST /api/versions/:id/revise
func (h *Handlers) Revise(c *gin.Context) {
	vote, ok := h.voteFromRequest(c)
	if !ok {
		return
	}

	res, err := h.engine.Revise(c.Request.Context(), engine.ReviseRequest{
		Vote:          vote,
		OneVoteReject: h.oneVoteReject,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.transitionOK(c, res)
}

// Receive handles POST /api/versions/:id/receive
func (h *Handlers) Receive(c *gin.Context) {
	vote, ok := h.voteFromRequest(c)
	if !ok {
		return
	}

	res, err := h.engine.Receive(c.Request.Context(), engine.ReceiveRequest{Vote: vote})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.transitionOK(c, res)
}

// Expire handles POST /api/versions/:id/expire
func (h *Handlers) Expire(c *gin.Context) {
	h.lifecycleTrigger(c, h.engine.Expire)
}

// MarkObsolete handles POST /api/versions/:id/obsolete
func (h *Handlers) MarkObsolete(c *gin.Context) {
	h.lifecycleTrigger(c, h.engine.MarkObsolete)
}

// Release handles POST /api/versions/:id/release
func (h *Handlers) Release(c *gin.Context) {
	h.lifecycleTrigger(c, h.engine.Release)
}

// SetExpires handles PUT /api/versions/:id/expires
func (h *Handlers) SetExpires(c *gin.Context) {
	versionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if !h.bind(c, &body) {
		return
	}

	if err := h.documents.SetExpires(c.Request.Context(), versionID, body.ExpiresAt); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// GetVersion handles GET /api/versions/:id
func (h *Handlers) GetVersion(c *gin.Context) {
	versionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	version, err := h.versions.GetByID(c.Request.Context(), versionID)
	if err != nil {
		h.fail(c, err)
		return
	}

	status, _ := lifecycle.FromCode(version.Status)
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"version": version,
		"status":  status.String(),
	}})
}

// StatusHistory handles GET /api/versions/:id/status-log
func (h *Handlers) StatusHistory(c *gin.Context) {
	versionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	history, err := h.versions.StatusHistory(c.Request.Context(), versionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// VoteLog handles GET /api/versions/:id/log/:role
func (h *Handlers) VoteLog(c *gin.Context) {
	versionID, role, ok := h.pathIDAndRole(c)
	if !ok {
		return
	}

	limit := h.voteLogLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= h.voteLogLimit {
			limit = n
		}
	}

	entries, err := h.votes.Log(c.Request.Context(), versionID, role, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: entries})
}

// Summary handles GET /api/versions/:id/summary/:role
func (h *Handlers) Summary(c *gin.Context) {
	versionID, role, ok := h.pathIDAndRole(c)
	if !ok {
		return
	}

	summary, err := h.votes.Summary(c.Request.Context(), versionID, role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: summary})
}

func (h *Handlers) lifecycleTrigger(c *gin.Context, fn func(ctx context.Context, versionID, actingUserID int64, comment string) (*engine.Result, error)) {
	versionID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var body struct {
		ActingUserID int64  `json:"acting_user_id" binding:"required"`
		Comment      string `json:"comment"`
	}
	if !h.bind(c, &body) {
		return
	}

	res, err := fn(c.Request.Context(), versionID, body.ActingUserID, body.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.transitionOK(c, res)
}

func (h *Handlers) voteFromRequest(c *gin.Context) (engine.Vote, bool) {
	versionID, ok := h.pathID(c, "id")
	if !ok {
		return engine.Vote{}, false
	}

	var body VoteRequest
	if !h.bind(c, &body) {
		return engine.Vote{}, false
	}

	return engine.Vote{
		VersionID:    versionID,
		Kind:         entity.Kind(body.Kind),
		GroupID:      body.GroupID,
		ActingUserID: body.ActingUserID,
		Status:       body.Status,
		Comment:      body.Comment,
		FilePath:     body.FilePath,
	}, true
}

func (h *Handlers) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid_id"})
		return 0, false
	}
	return id, true
}

func (h *Handlers) pathIDAndRole(c *gin.Context) (int64, entity.Role, bool) {
	versionID, ok := h.pathID(c, "id")
	if !ok {
		return 0, "", false
	}

	role := entity.Role(c.Param("role"))
	if !role.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid_role"})
		return 0, "", false
	}
	return versionID, role, true
}

func (h *Handlers) bind(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		h.logger.Debug("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid_request_body"})
		return false
	}
	return true
}

func (h *Handlers) transitionOK(c *gin.Context, res *engine.Result) {
	c.JSON(http.StatusOK, Response{Success: true, Data: TransitionResponse{
		LogID:         res.LogID,
		OldStatus:     res.OldStatus.String(),
		NewStatus:     res.NewStatus.String(),
		StatusChanged: res.StatusChanged,
	}})
}

// fail maps domain and persistence errors to HTTP responses with stable
// error identifiers.
func (h *Handlers) fail(c *gin.Context, err error) {
	type mapping struct {
		target error
		status int
		code   string
	}

	mappings := []mapping{
		{port.ErrVersionNotFound, http.StatusNotFound, "version_not_found"},
		{engine.ErrWrongVoteType, http.StatusBadRequest, "wrong_vote_type"},
		{port.ErrInvalidVoteStatus, http.StatusBadRequest, "invalid_vote_status"},
		{port.ErrMissingArgument, http.StatusBadRequest, "missing_argument"},
		{participant.ErrReviewerOnly, http.StatusBadRequest, "reviewer_without_approver"},
		{port.ErrNotRequiredParticipant, http.StatusForbidden, "not_required_participant"},
		{port.ErrRoundNotStarted, http.StatusConflict, "round_not_started"},
		{port.ErrDuplicateParticipant, http.StatusConflict, "duplicate_participant"},
		{port.ErrParticipantHasVoted, http.StatusConflict, "participant_has_voted"},
		{port.ErrConcurrentUpdate, http.StatusConflict, "concurrent_update"},
		{lifecycle.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{lifecycle.ErrGuardFailed, http.StatusConflict, "invalid_transition"},
		{lifecycle.ErrInvalidStatus, http.StatusConflict, "invalid_status"},
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, Response{Success: false, Error: m.code})
			return
		}
	}

	h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal_error"})
}

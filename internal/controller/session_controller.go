package controller

import (
	"net/http"
	"strconv"

	"github.com/anhlelha/aws-exam-practice/internal/dto"
	"github.com/anhlelha/aws-exam-practice/internal/service"
	"github.com/gin-gonic/gin"
)

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(ss service.SessionService) *SessionController {
	return &SessionController{sessionService: ss}
}

// StartSession godoc
// @Summary Start a practice session for a test
// @Description Snapshots the test's current question list into the session. Later test edits never affect a running session.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session body dto.StartSessionRequest true "Test ID and mode (timed | non-timed)"
// @Success 201 {object} dto.StartSessionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	var req dto.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	resp, err := c.sessionService.Start(req.TestID, req.Mode)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetSession godoc
// @Summary Get a session's full state for resume or review
// @Tags Sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.SessionStateResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.sessionService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary Submit (or resubmit) an answer in a session
// @Description Graded by exact set match against the correct answers; no partial credit. Resubmission overwrites the previous answer.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param answer body dto.SubmitAnswerRequest true "Question ID and selected answer IDs"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Router /sessions/{id}/answer [put]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	resp, err := c.sessionService.SubmitAnswer(id, req.QuestionID, *req.SelectedAnswers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ToggleFlag godoc
// @Summary Flag or unflag a question within a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param flag body dto.ToggleFlagRequest true "Question ID and flag state"
// @Success 200 {object} dto.ToggleFlagResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{id}/flag [put]
func (c *SessionController) ToggleFlag(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ToggleFlagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	resp, err := c.sessionService.ToggleFlag(id, req.QuestionID, *req.Flagged)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CompleteSession godoc
// @Summary Complete a session and compute its score
// @Description Terminal transition. A second completion attempt returns 409 and changes nothing.
// @Tags Sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.CompleteSessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Router /sessions/{id}/complete [post]
func (c *SessionController) CompleteSession(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.sessionService.Complete(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListActiveSessions godoc
// @Summary List sessions that have not been completed yet
// @Tags Sessions
// @Produce json
// @Success 200 {array} dto.ActiveSessionDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /sessions/active [get]
func (c *SessionController) ListActiveSessions(ctx *gin.Context) {
	sessions, err := c.sessionService.ListActive()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessions)
}

// SessionHistory godoc
// @Summary Completed sessions, most recent first
// @Tags Sessions
// @Produce json
// @Param limit query int false "Page size (default 10)"
// @Param offset query int false "Offset (default 0)"
// @Success 200 {object} dto.SessionHistoryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sessions/history [get]
func (c *SessionController) SessionHistory(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	resp, err := c.sessionService.History(limit, offset)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

package controller

import (
	"snapquizzer_backend/internal/service"
	"snapquizzer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	sessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// Start godoc
// @Summary Start a quiz attempt
// @Description Opens a live session; timed quizzes are auto-submitted at the deadline
// @Tags session
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 201 {object} util.Response{data=service.SessionView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /quizzes/{id}/sessions [post]
func (c *SessionController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quizID := util.MustParseUint(ctx.Param("id"))

	view, err := c.sessionService.StartSession(quizID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

// Get godoc
// @Summary Get the state of a session
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (c *SessionController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	view, err := c.sessionService.GetSession(ctx.Param("id"), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type selectRequest struct {
	OptionID string `json:"option_id" binding:"required"`
	Index    *int   `json:"index"`
}

// Select godoc
// @Summary Record an answer selection
// @Description Multi-select questions toggle; single-select questions replace
// @Tags session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body selectRequest true "Option to select"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /sessions/{id}/select [post]
func (c *SessionController) Select(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req selectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.sessionService.Select(ctx.Param("id"), claims.UserID, req.Index, req.OptionID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type navigateRequest struct {
	Action string `json:"action" binding:"required,oneof=next previous jump"`
	Index  int    `json:"index"`
}

// Navigate godoc
// @Summary Move between questions
// @Description "next" and "previous" clamp at the ends; "jump" rejects out-of-range targets
// @Tags session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body navigateRequest true "Navigation action"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /sessions/{id}/navigate [post]
func (c *SessionController) Navigate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req navigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.sessionService.Navigate(ctx.Param("id"), claims.UserID, req.Action, req.Index)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// Submit godoc
// @Summary Submit a session for grading
// @Description Submitting twice returns 409; the first submission stands
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Security BearerAuth
// @Router /sessions/{id}/submit [post]
func (c *SessionController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	view, err := c.sessionService.Submit(ctx.Param("id"), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

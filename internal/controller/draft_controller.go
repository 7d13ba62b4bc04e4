package controller

import (
	"io"
	"strconv"

	"snapquizzer_backend/internal/service"
	"snapquizzer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DraftController struct {
	draftService *service.DraftService
}

func NewDraftController(draftService *service.DraftService) *DraftController {
	return &DraftController{draftService: draftService}
}

func questionIndex(ctx *gin.Context) (int, bool) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "invalid question index")
		return 0, false
	}
	return index, true
}

// Create godoc
// @Summary Start a quiz creation draft
// @Description Opens a new three-stage wizard run, beginning at upload
// @Tags draft
// @Produce json
// @Success 201 {object} util.Response{data=model.QuizDraft}
// @Security BearerAuth
// @Router /drafts [post]
func (c *DraftController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	draft, err := c.draftService.CreateDraft(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, draft)
}

// Get godoc
// @Summary Get a draft
// @Tags draft
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id} [get]
func (c *DraftController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	draft, err := c.draftService.GetDraft(ctx.Request.Context(), ctx.Param("id"), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// Delete godoc
// @Summary Discard a draft
// @Tags draft
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id} [delete]
func (c *DraftController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.draftService.DeleteDraft(ctx.Request.Context(), ctx.Param("id"), claims.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type extractRequest struct {
	Images []string `json:"images" binding:"required,min=1"`
}

// Extract godoc
// @Summary Extract questions from images into a draft
// @Description Runs OCR over each image in order and appends the detected questions
// @Tags draft
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param request body extractRequest true "Base64 images"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/extract [post]
func (c *DraftController) Extract(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req extractRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, batch, err := c.draftService.ExtractIntoDraft(ctx.Request.Context(), ctx.Param("id"), claims.UserID, req.Images)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"draft":      draft,
		"extraction": batch,
	})
}

// Import godoc
// @Summary Import an extraction result into a draft
// @Description Accepts the canonical extraction result document; bare question lists and wrapped envelopes are rejected
// @Tags draft
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param request body service.ExtractionResult true "Extraction result"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/import [post]
func (c *DraftController) Import(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		util.BadRequest(ctx, "unable to read request body")
		return
	}

	draft, err := c.draftService.ImportDocument(ctx.Request.Context(), ctx.Param("id"), claims.UserID, body)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// AddQuestion godoc
// @Summary Add a blank question to a draft
// @Description Appends the manual template: four options, A preselected, one mark
// @Tags draft
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Security BearerAuth
// @Router /drafts/{id}/questions [post]
func (c *DraftController) AddQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	draft, err := c.draftService.AddQuestion(ctx.Request.Context(), ctx.Param("id"), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// UpdateQuestion godoc
// @Summary Edit one draft question
// @Description Commits a batch of edits; switching type resets the answer selection
// @Tags draft
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param index path int true "Question index"
// @Param request body service.QuestionUpdateRequest true "Edits"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/questions/{index} [patch]
func (c *DraftController) UpdateQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	index, ok := questionIndex(ctx)
	if !ok {
		return
	}

	var req service.QuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, err := c.draftService.UpdateQuestion(ctx.Request.Context(), ctx.Param("id"), claims.UserID, index, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// RemoveQuestion godoc
// @Summary Remove one draft question
// @Tags draft
// @Produce json
// @Param id path string true "Draft ID"
// @Param index path int true "Question index"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/questions/{index} [delete]
func (c *DraftController) RemoveQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	index, ok := questionIndex(ctx)
	if !ok {
		return
	}

	draft, err := c.draftService.RemoveQuestion(ctx.Request.Context(), ctx.Param("id"), claims.UserID, index)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// AddOption godoc
// @Summary Add an option to a draft question
// @Description Appends a blank option with the next letter, up to six
// @Tags draft
// @Produce json
// @Param id path string true "Draft ID"
// @Param index path int true "Question index"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/questions/{index}/options [post]
func (c *DraftController) AddOption(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	index, ok := questionIndex(ctx)
	if !ok {
		return
	}

	draft, err := c.draftService.AddOption(ctx.Request.Context(), ctx.Param("id"), claims.UserID, index)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

type optionTextRequest struct {
	Text string `json:"text"`
}

// SetOptionText godoc
// @Summary Set the text of one option
// @Tags draft
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param index path int true "Question index"
// @Param optionId path string true "Option ID"
// @Param request body optionTextRequest true "Option text"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/questions/{index}/options/{optionId} [patch]
func (c *DraftController) SetOptionText(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	index, ok := questionIndex(ctx)
	if !ok {
		return
	}

	var req optionTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, err := c.draftService.SetOptionText(ctx.Request.Context(), ctx.Param("id"), claims.UserID, index, ctx.Param("optionId"), req.Text)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// RemoveOption godoc
// @Summary Remove one option from a draft question
// @Description Remaining options are relettered; at least two must remain
// @Tags draft
// @Produce json
// @Param id path string true "Draft ID"
// @Param index path int true "Question index"
// @Param optionId path string true "Option ID"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/questions/{index}/options/{optionId} [delete]
func (c *DraftController) RemoveOption(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	index, ok := questionIndex(ctx)
	if !ok {
		return
	}

	draft, err := c.draftService.RemoveOption(ctx.Request.Context(), ctx.Param("id"), claims.UserID, index, ctx.Param("optionId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// Advance godoc
// @Summary Move the wizard forward one stage
// @Description Leaving the upload stage requires at least one question
// @Tags draft
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/advance [post]
func (c *DraftController) Advance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	draft, err := c.draftService.Advance(ctx.Request.Context(), ctx.Param("id"), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// Back godoc
// @Summary Move the wizard back one stage
// @Tags draft
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} util.Response{data=model.QuizDraft}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/back [post]
func (c *DraftController) Back(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	draft, err := c.draftService.Back(ctx.Request.Context(), ctx.Param("id"), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, draft)
}

// Submit godoc
// @Summary Publish a draft as a quiz
// @Description Requires a title and at least one question; the draft is discarded on success
// @Tags draft
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param request body service.DraftDetailsRequest true "Final details"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /drafts/{id}/submit [post]
func (c *DraftController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.DraftDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.draftService.SubmitDraft(ctx.Request.Context(), ctx.Param("id"), claims.UserID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

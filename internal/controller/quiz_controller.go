package controller

import (
	"strconv"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/service"
	"snapquizzer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	quizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{quizService: quizService}
}

// Create godoc
// @Summary Create a quiz
// @Description Creates a quiz with its questions in one request
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body service.QuizCreateRequest true "Quiz payload"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.QuizCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.quizService.CreateQuiz(claims.UserID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// List godoc
// @Summary List visible quizzes
// @Description Returns quizzes the caller owns plus public ones
// @Tags quiz
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} util.Response
// @Security BearerAuth
// @Router /quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	quizzes, total, err := c.quizService.ListQuizzes(claims.UserID, page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"quizzes": quizzes,
		"total":   total,
		"page":    page,
	})
}

// Get godoc
// @Summary Get one quiz
// @Description Answers and explanations are stripped unless the caller owns the quiz
// @Tags quiz
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	quiz, err := c.quizService.GetQuiz(id, claims.UserID, claims.Role == model.Admin)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// Update godoc
// @Summary Update a quiz
// @Description Owner-only; sending questions replaces the whole set
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param request body service.QuizUpdateRequest true "Fields to update"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	var req service.QuizUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.quizService.UpdateQuiz(id, claims.UserID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary Delete a quiz
// @Tags quiz
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.quizService.DeleteQuiz(id, claims.UserID, claims.Role == model.Admin); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Submit godoc
// @Summary Submit answers for a quiz
// @Description Grades the responses and stores the submission
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param request body service.SubmitRequest true "Responses"
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.quizService.Submit(id, claims.UserID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetSubmission godoc
// @Summary Get a graded submission
// @Description Visible to the student who made it and the quiz owner
// @Tags quiz
// @Produce json
// @Param id path int true "Submission ID"
// @Success 200 {object} util.Response{data=model.QuizSubmission}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /submissions/{id} [get]
func (c *QuizController) GetSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	submission, err := c.quizService.GetSubmission(id, claims.UserID, claims.Role == model.Admin)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

// ListQuizSubmissions godoc
// @Summary List submissions for one quiz
// @Description Owner-only review of every attempt on the quiz
// @Tags quiz
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /quizzes/{id}/submissions [get]
func (c *QuizController) ListQuizSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	submissions, err := c.quizService.ListQuizSubmissions(id, claims.UserID, claims.Role == model.Admin)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, submissions)
}

// ListSubmissions godoc
// @Summary List the caller's submissions
// @Tags quiz
// @Produce json
// @Success 200 {object} util.Response
// @Security BearerAuth
// @Router /submissions [get]
func (c *QuizController) ListSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	submissions, err := c.quizService.ListSubmissions(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, submissions)
}

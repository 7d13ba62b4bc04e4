package controller

import (
	"errors"
	"net/http"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/service"
	"snapquizzer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP statuses. Anything unknown is
// logged and reported as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrDraftNotFound),
		errors.Is(err, util.ErrClassNotFound),
		errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrSubmissionNotFound),
		errors.Is(err, model.ErrSessionNotFound):
		util.NotFound(ctx)

	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)

	case errors.Is(err, model.ErrSessionAlreadySubmitted),
		errors.Is(err, util.ErrAlreadyEnrolled):
		util.Conflict(ctx, err.Error())

	case errors.Is(err, model.ErrTooManyOptions),
		errors.Is(err, model.ErrTooFewOptions),
		errors.Is(err, model.ErrOptionNotFound),
		errors.Is(err, model.ErrNoQuestions),
		errors.Is(err, model.ErrAlreadyAtUpload),
		errors.Is(err, model.ErrAlreadyAtFinal),
		errors.Is(err, model.ErrIndexOutOfRange),
		errors.Is(err, util.ErrTitleRequired),
		errors.Is(err, util.ErrNoTextExtracted),
		errors.Is(err, util.ErrNoQuestionsDetected),
		errors.Is(err, service.ErrImageTooLarge),
		errors.Is(err, service.ErrNotAnImage),
		errors.Is(err, service.ErrInvalidBase64),
		errors.Is(err, service.ErrLegacyListShape),
		errors.Is(err, service.ErrLegacyEnvelope),
		errors.Is(err, service.ErrMalformedResult),
		errors.Is(err, service.ErrMissingRawText),
		errors.Is(err, service.ErrMissingQuestions):
		util.Error(ctx, http.StatusBadRequest, err.Error())

	default:
		util.LogInternalError(ctx, err)
	}
}

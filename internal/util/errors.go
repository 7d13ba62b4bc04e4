package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email is already registered")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrDraftNotFound       = errors.New("draft not found")
	ErrClassNotFound       = errors.New("class not found")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this class")
	ErrTitleRequired       = errors.New("a title is required to submit the quiz")
	ErrNoTextExtracted     = errors.New("could not extract text from image")
	ErrNoQuestionsDetected = errors.New("no questions could be extracted")
)

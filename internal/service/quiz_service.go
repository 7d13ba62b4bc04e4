package service

import (
	"encoding/json"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"
	"snapquizzer_backend/pkg/logger"

	"go.uber.org/zap"
)

// quizStore is the QuizRepository surface the quiz service uses.
type quizStore interface {
	Create(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	ListVisible(userID uint, page, pageSize int) ([]model.Quiz, int64, error)
	Update(quiz *model.Quiz) error
	Delete(id uint) error
	ReplaceQuestions(quizID uint, questions []model.Question) error
}

// submissionStore is the SubmissionRepository surface the quiz service uses.
type submissionStore interface {
	Create(submission *model.QuizSubmission) error
	FindByID(id uint) (*model.QuizSubmission, error)
	ListByStudent(studentID uint) ([]model.QuizSubmission, error)
	ListByQuiz(quizID uint) ([]model.QuizSubmission, error)
}

type QuizService struct {
	quizRepo       quizStore
	submissionRepo submissionStore
}

func NewQuizService(quizRepo quizStore, submissionRepo submissionStore) *QuizService {
	return &QuizService{quizRepo: quizRepo, submissionRepo: submissionRepo}
}

// QuestionInput is one question as submitted by a client. Marks tolerates
// numeric strings and coerces to at least 1.
type QuestionInput struct {
	QuestionText  string             `json:"question_text" binding:"required"`
	QuestionType  model.QuestionType `json:"question_type"`
	Options       []model.Option     `json:"options"`
	CorrectAnswer []string           `json:"correct_answer"`
	Explanation   string             `json:"explanation"`
	Marks         util.FlexibleInt   `json:"marks"`
	AIGenerated   bool               `json:"ai_generated"`
}

type QuizCreateRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Subject     string           `json:"subject"`
	Topic       string           `json:"topic"`
	Difficulty  model.Difficulty `json:"difficulty"`
	IsPublic    bool             `json:"is_public"`
	TimeLimit   int              `json:"time_limit"`
	Questions   []QuestionInput  `json:"questions" binding:"required,min=1"`
}

type QuizUpdateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Subject     string           `json:"subject"`
	Topic       string           `json:"topic"`
	Difficulty  model.Difficulty `json:"difficulty"`
	IsPublic    *bool            `json:"is_public"`
	TimeLimit   *int             `json:"time_limit"`
	Questions   []QuestionInput  `json:"questions"`
}

// buildQuestion normalizes one input through the draft editing rules, so
// API-created questions obey the same invariants as wizard-created ones.
func buildQuestion(in QuestionInput, order int) (model.Question, error) {
	dq := model.DraftQuestion{
		QuestionText: in.QuestionText,
		QuestionType: in.QuestionType,
		Options:      in.Options,
		Explanation:  in.Explanation,
		AIGenerated:  in.AIGenerated,
	}
	if dq.QuestionType == "" {
		dq.QuestionType = model.TypeMCQ
	}
	if len(dq.Options) < model.MinOptions {
		return model.Question{}, model.ErrTooFewOptions
	}
	if len(dq.Options) > model.MaxOptions {
		return model.Question{}, model.ErrTooManyOptions
	}

	// Positional ids win over whatever the client sent, then correctness
	// flags are reconciled against the explicit correct_answer list.
	for i := range dq.Options {
		dq.Options[i].ID = model.OptionLetter(i)
	}
	if len(in.CorrectAnswer) > 0 {
		wanted := make(map[string]bool, len(in.CorrectAnswer))
		for _, id := range in.CorrectAnswer {
			wanted[id] = true
		}
		for i := range dq.Options {
			dq.Options[i].IsCorrect = wanted[dq.Options[i].ID]
		}
	}
	dq.SetMarks(int(in.Marks))
	dq.Normalize()

	options, err := json.Marshal(dq.Options)
	if err != nil {
		return model.Question{}, err
	}
	correct, err := json.Marshal(dq.CorrectAnswer)
	if err != nil {
		return model.Question{}, err
	}

	return model.Question{
		QuestionText:  dq.QuestionText,
		QuestionType:  dq.QuestionType,
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   dq.Explanation,
		Marks:         dq.Marks,
		AIGenerated:   dq.AIGenerated,
		Order:         order,
	}, nil
}

func (s *QuizService) CreateQuiz(ownerID uint, req *QuizCreateRequest) (*model.Quiz, error) {
	questions := make([]model.Question, 0, len(req.Questions))
	for i, in := range req.Questions {
		q, err := buildQuestion(in, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = model.DifficultyMedium
	}

	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
		Subject:     req.Subject,
		Topic:       req.Topic,
		Difficulty:  difficulty,
		IsPublic:    req.IsPublic,
		TimeLimit:   req.TimeLimit,
		Questions:   questions,
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}

	logger.Log.Info("Quiz created",
		zap.Uint("quiz_id", quiz.ID),
		zap.Uint("owner_id", ownerID),
		zap.Int("questions", len(questions)))
	return quiz, nil
}

// GetQuiz enforces visibility: private quizzes are owner-only. For anyone
// but the owner, correctness is stripped so a quiz can be taken without
// leaking answers.
func (s *QuizService) GetQuiz(id, userID uint, isAdmin bool) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	owner := quiz.OwnerID == userID || isAdmin
	if !quiz.IsPublic && !owner {
		return nil, util.ErrPermissionDenied
	}

	if !owner {
		for i := range quiz.Questions {
			stripped, err := stripAnswers(&quiz.Questions[i])
			if err != nil {
				return nil, err
			}
			quiz.Questions[i].Options = stripped
			quiz.Questions[i].CorrectAnswer = nil
			quiz.Questions[i].Explanation = ""
		}
	}
	return quiz, nil
}

func stripAnswers(q *model.Question) (json.RawMessage, error) {
	opts, err := q.DecodeOptions()
	if err != nil {
		return nil, err
	}
	for i := range opts {
		opts[i].IsCorrect = false
	}
	return json.Marshal(opts)
}

func (s *QuizService) ListQuizzes(userID uint, page, pageSize int) ([]model.Quiz, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.quizRepo.ListVisible(userID, page, pageSize)
}

func (s *QuizService) UpdateQuiz(id, userID uint, req *QuizUpdateRequest) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if quiz.OwnerID != userID {
		return nil, util.ErrPermissionDenied
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != "" {
		quiz.Description = req.Description
	}
	if req.Subject != "" {
		quiz.Subject = req.Subject
	}
	if req.Topic != "" {
		quiz.Topic = req.Topic
	}
	if req.Difficulty != "" {
		quiz.Difficulty = req.Difficulty
	}
	if req.IsPublic != nil {
		quiz.IsPublic = *req.IsPublic
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}

	if req.Questions != nil {
		questions := make([]model.Question, 0, len(req.Questions))
		for i, in := range req.Questions {
			q, err := buildQuestion(in, i)
			if err != nil {
				return nil, err
			}
			questions = append(questions, q)
		}
		if err := s.quizRepo.ReplaceQuestions(quiz.ID, questions); err != nil {
			return nil, err
		}
	}

	quiz.Questions = nil
	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return s.quizRepo.FindByID(id)
}

func (s *QuizService) DeleteQuiz(id, userID uint, isAdmin bool) error {
	quiz, err := s.quizRepo.FindByID(id)
	if err != nil {
		return err
	}
	if quiz.OwnerID != userID && !isAdmin {
		return util.ErrPermissionDenied
	}
	return s.quizRepo.Delete(id)
}

// GradeResult is the full grading breakdown returned after a submission.
type GradeResult struct {
	Score           int                    `json:"score"`
	TotalMarks      int                    `json:"total_marks"`
	Percentage      float64                `json:"percentage"`
	CorrectAnswers  int                    `json:"correct_answers"`
	TotalQuestions  int                    `json:"total_questions"`
	DetailedResults []model.QuestionResult `json:"detailed_results"`
}

// Grade scores one attempt. A question earns its marks only when the
// selected set exactly equals the correct set; partial overlap earns zero.
func Grade(quiz *model.Quiz, responses []model.QuestionResponse) (*GradeResult, error) {
	byQuestion := make(map[uint][]string, len(responses))
	for _, resp := range responses {
		byQuestion[resp.QuestionID] = resp.SelectedOptions
	}

	result := &GradeResult{
		TotalQuestions:  len(quiz.Questions),
		DetailedResults: make([]model.QuestionResult, 0, len(quiz.Questions)),
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		result.TotalMarks += q.Marks

		correctSet, err := q.CorrectSet()
		if err != nil {
			return nil, err
		}
		selected := byQuestion[q.ID]

		correct := len(selected) == len(correctSet)
		if correct {
			for _, id := range selected {
				if !correctSet[id] {
					correct = false
					break
				}
			}
		}
		// An unanswered question with no correct options does not count.
		if len(correctSet) == 0 {
			correct = false
		}

		awarded := 0
		if correct {
			awarded = q.Marks
			result.Score += q.Marks
			result.CorrectAnswers++
		}

		correctIDs := make([]string, 0, len(correctSet))
		opts, err := q.DecodeOptions()
		if err != nil {
			return nil, err
		}
		for _, opt := range opts {
			if correctSet[opt.ID] {
				correctIDs = append(correctIDs, opt.ID)
			}
		}

		result.DetailedResults = append(result.DetailedResults, model.QuestionResult{
			QuestionID:     q.ID,
			QuestionText:   q.QuestionText,
			SelectedOption: selected,
			CorrectOptions: correctIDs,
			IsCorrect:      correct,
			MarksAwarded:   awarded,
			Explanation:    q.Explanation,
		})
	}

	if result.TotalMarks > 0 {
		result.Percentage = float64(result.Score) / float64(result.TotalMarks) * 100
	}
	return result, nil
}

type SubmitRequest struct {
	Responses []model.QuestionResponse `json:"responses" binding:"required"`
	TimeTaken int                      `json:"time_taken"`
}

type SubmissionResult struct {
	SubmissionID uint `json:"submission_id"`
	*GradeResult
	TimeTaken int `json:"time_taken"`
}

// Submit grades an attempt against the quiz's answer key and persists the
// outcome.
func (s *QuizService) Submit(quizID, studentID uint, req *SubmitRequest) (*SubmissionResult, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublic && quiz.OwnerID != studentID {
		return nil, util.ErrPermissionDenied
	}

	graded, err := Grade(quiz, req.Responses)
	if err != nil {
		return nil, err
	}

	details, err := json.Marshal(graded.DetailedResults)
	if err != nil {
		return nil, err
	}

	submission := &model.QuizSubmission{
		QuizID:     quizID,
		StudentID:  studentID,
		Score:      graded.Score,
		TotalMarks: graded.TotalMarks,
		Percentage: graded.Percentage,
		TimeTaken:  req.TimeTaken,
		Responses:  details,
	}
	if err := s.submissionRepo.Create(submission); err != nil {
		return nil, err
	}

	logger.Log.Info("Quiz submitted",
		zap.Uint("quiz_id", quizID),
		zap.Uint("student_id", studentID),
		zap.Int("score", graded.Score),
		zap.Int("total_marks", graded.TotalMarks))

	return &SubmissionResult{
		SubmissionID: submission.ID,
		GradeResult:  graded,
		TimeTaken:    req.TimeTaken,
	}, nil
}

// GetSubmission is visible to the student who made it and the quiz owner.
func (s *QuizService) GetSubmission(id, userID uint, isAdmin bool) (*model.QuizSubmission, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if submission.StudentID == userID || isAdmin {
		return submission, nil
	}

	quiz, err := s.quizRepo.FindByID(submission.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz.OwnerID != userID {
		return nil, util.ErrPermissionDenied
	}
	return submission, nil
}

func (s *QuizService) ListSubmissions(studentID uint) ([]model.QuizSubmission, error) {
	return s.submissionRepo.ListByStudent(studentID)
}

// ListQuizSubmissions returns every attempt on one quiz, for the owner's
// review.
func (s *QuizService) ListQuizSubmissions(quizID, userID uint, isAdmin bool) ([]model.QuizSubmission, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.OwnerID != userID && !isAdmin {
		return nil, util.ErrPermissionDenied
	}
	return s.submissionRepo.ListByQuiz(quizID)
}

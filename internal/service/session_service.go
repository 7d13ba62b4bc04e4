package service

import (
	"sync"
	"time"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"
	"snapquizzer_backend/pkg/logger"
	"snapquizzer_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// quizLoader is the slice of QuizRepository the session engine needs.
type quizLoader interface {
	FindByID(id uint) (*model.Quiz, error)
}

// attemptGrader turns a finished session into a persisted submission.
type attemptGrader interface {
	Submit(quizID, studentID uint, req *SubmitRequest) (*SubmissionResult, error)
}

// retainFinished keeps a submitted session around long enough for the
// client to fetch its result before the entry is evicted.
const retainFinished = time.Hour

type sessionEntry struct {
	session *model.QuizSession
	quiz    *model.Quiz
	timer   *time.Timer
	result  *SubmissionResult
}

// SessionService drives live quiz attempts. Sessions are held in memory
// and guarded by one mutex; a timer fires the auto-submit when a timed
// session hits its deadline. Submission happens exactly once per session
// no matter how often or from where it is triggered.
type SessionService struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	quizzes quizLoader
	grader  attemptGrader
	now     func() time.Time
}

func NewSessionService(quizzes quizLoader, grader attemptGrader) *SessionService {
	return &SessionService{
		entries: make(map[string]*sessionEntry),
		quizzes: quizzes,
		grader:  grader,
		now:     time.Now,
	}
}

// SessionQuestionView is one question as shown to the taker: no
// correctness, no explanation.
type SessionQuestionView struct {
	Index        int                `json:"index"`
	QuestionID   uint               `json:"question_id"`
	QuestionText string             `json:"question_text"`
	QuestionType model.QuestionType `json:"question_type"`
	Options      []model.Option     `json:"options"`
	Marks        int                `json:"marks"`
}

// SessionView is the full client-facing state of a session.
type SessionView struct {
	ID               string               `json:"id"`
	QuizID           uint                 `json:"quiz_id"`
	QuizTitle        string               `json:"quiz_title"`
	Status           model.SessionStatus  `json:"status"`
	CurrentIndex     int                  `json:"current_index"`
	TotalQuestions   int                  `json:"total_questions"`
	AnsweredCount    int                  `json:"answered_count"`
	TimeLimit        int                  `json:"time_limit"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	Question         *SessionQuestionView `json:"question,omitempty"`
	Selections       []string             `json:"selections"`
	Result           *SubmissionResult    `json:"result,omitempty"`
}

// StartSession loads the quiz, snapshots its questions, and begins a new
// attempt. Timed quizzes get an auto-submit timer armed for the deadline.
func (s *SessionService) StartSession(quizID, studentID uint) (*SessionView, error) {
	quiz, err := s.quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublic && quiz.OwnerID != studentID {
		return nil, util.ErrPermissionDenied
	}
	if len(quiz.Questions) == 0 {
		return nil, model.ErrNoQuestions
	}

	questions := make([]model.SessionQuestion, len(quiz.Questions))
	for i := range quiz.Questions {
		opts, err := quiz.Questions[i].DecodeOptions()
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(opts))
		for j, opt := range opts {
			ids[j] = opt.ID
		}
		questions[i] = model.SessionQuestion{
			ID:        quiz.Questions[i].ID,
			Type:      quiz.Questions[i].QuestionType,
			OptionIDs: ids,
		}
	}

	session := model.NewQuizSession(quizID, studentID, questions, quiz.TimeLimit)
	entry := &sessionEntry{session: session, quiz: quiz}

	s.mu.Lock()
	s.entries[session.ID] = entry
	if quiz.TimeLimit > 0 {
		entry.timer = time.AfterFunc(session.Deadline.Sub(s.now()), func() {
			s.autoSubmit(session.ID)
		})
	}
	s.mu.Unlock()

	logger.Log.Info("Session started",
		zap.String("session_id", session.ID),
		zap.Uint("quiz_id", quizID),
		zap.Uint("student_id", studentID),
		zap.Int("time_limit", quiz.TimeLimit))
	return s.view(entry), nil
}

// lookup returns the entry after an ownership check. Caller holds the lock.
func (s *SessionService) lookup(id string, studentID uint) (*sessionEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	if entry.session.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}
	return entry, nil
}

func (s *SessionService) GetSession(id string, studentID uint) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id, studentID)
	if err != nil {
		return nil, err
	}
	return s.view(entry), nil
}

// Select records an option click. The index defaults to the current
// question when the client does not send one.
func (s *SessionService) Select(id string, studentID uint, index *int, optionID string) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id, studentID)
	if err != nil {
		return nil, err
	}
	if entry.session.Status != model.SessionActive {
		return nil, model.ErrSessionAlreadySubmitted
	}

	target := entry.session.CurrentIndex
	if index != nil {
		target = *index
	}
	if err := entry.session.Select(target, optionID); err != nil {
		return nil, err
	}
	return s.view(entry), nil
}

// Navigate moves the session cursor: "next", "previous", or "jump".
func (s *SessionService) Navigate(id string, studentID uint, action string, index int) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id, studentID)
	if err != nil {
		return nil, err
	}
	if entry.session.Status != model.SessionActive {
		return nil, model.ErrSessionAlreadySubmitted
	}

	// Time spent on the question being left is charged before the move.
	entry.session.AccrueTime(s.now())

	switch action {
	case "next":
		entry.session.Next()
	case "previous":
		entry.session.Previous()
	case "jump":
		if err := entry.session.Jump(index); err != nil {
			return nil, err
		}
	default:
		return nil, model.ErrIndexOutOfRange
	}
	return s.view(entry), nil
}

// Submit finishes the session on the taker's request. Submitting an
// already-finished session reports a conflict instead of grading twice.
func (s *SessionService) Submit(id string, studentID uint) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(id, studentID)
	if err != nil {
		return nil, err
	}
	if err := s.finish(entry, "manual"); err != nil {
		return nil, err
	}
	return s.view(entry), nil
}

// autoSubmit is the timer path. A session already submitted manually is
// left alone.
func (s *SessionService) autoSubmit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return
	}
	if err := s.finish(entry, "timeout"); err != nil {
		return
	}
	logger.Log.Info("Session auto-submitted on timeout",
		zap.String("session_id", id),
		zap.Uint("quiz_id", entry.session.QuizID))
}

// finish performs the single status transition and grades the attempt.
// Caller holds the lock.
func (s *SessionService) finish(entry *sessionEntry, trigger string) error {
	session := entry.session
	if session.Status != model.SessionActive {
		return model.ErrSessionAlreadySubmitted
	}
	session.Status = model.SessionSubmitted
	session.AccrueTime(s.now())

	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}

	result, err := s.grader.Submit(session.QuizID, session.StudentID, &SubmitRequest{
		Responses: session.Responses(),
		TimeTaken: session.Elapsed(s.now()),
	})
	if err != nil {
		// The transition stands; grading failure is recorded, not retried.
		logger.Log.Error("Failed to grade session",
			zap.Error(err),
			zap.String("session_id", session.ID))
	} else {
		entry.result = result
	}

	monitoring.SessionSubmitCounter.WithLabelValues(trigger).Inc()

	id := session.ID
	time.AfterFunc(retainFinished, func() {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
	})
	return nil
}

// view builds the client-facing snapshot. Caller holds the lock (or owns
// the entry exclusively, as in StartSession).
func (s *SessionService) view(entry *sessionEntry) *SessionView {
	session := entry.session
	v := &SessionView{
		ID:               session.ID,
		QuizID:           session.QuizID,
		QuizTitle:        entry.quiz.Title,
		Status:           session.Status,
		CurrentIndex:     session.CurrentIndex,
		TotalQuestions:   len(session.Questions),
		AnsweredCount:    session.AnsweredCount(),
		TimeLimit:        session.TimeLimit,
		RemainingSeconds: session.Remaining(s.now()),
		Selections:       append([]string{}, session.Slots[session.CurrentIndex].SelectedOptions...),
		Result:           entry.result,
	}

	if session.Status == model.SessionActive {
		q := &entry.quiz.Questions[session.CurrentIndex]
		opts, err := q.DecodeOptions()
		if err == nil {
			view := make([]model.Option, len(opts))
			for i, opt := range opts {
				view[i] = model.Option{ID: opt.ID, Text: opt.Text}
			}
			v.Question = &SessionQuestionView{
				Index:        session.CurrentIndex,
				QuestionID:   q.ID,
				QuestionText: q.QuestionText,
				QuestionType: q.QuestionType,
				Options:      view,
				Marks:        q.Marks,
			}
		}
	}
	return v
}

// ActiveSessions reports how many sessions are currently live, for the
// health endpoint.
func (s *SessionService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, entry := range s.entries {
		if entry.session.Status == model.SessionActive {
			n++
		}
	}
	return n
}

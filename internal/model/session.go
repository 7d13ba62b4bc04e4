package model

import (
	"errors"
	"time"
)

var (
	ErrIndexOutOfRange         = errors.New("question index out of range")
	ErrSessionAlreadySubmitted = errors.New("session already submitted")
	ErrSessionNotFound         = errors.New("session not found")
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionSubmitted SessionStatus = "submitted"
)

// SessionQuestion is the slice of a question a running session needs:
// enough to validate selections without re-reading the quiz.
type SessionQuestion struct {
	ID        uint         `json:"id"`
	Type      QuestionType `json:"type"`
	OptionIDs []string     `json:"option_ids"`
}

// ResponseSlot accumulates the answer for one question.
type ResponseSlot struct {
	QuestionID      uint     `json:"question_id"`
	SelectedOptions []string `json:"selected_options"`
	TimeTaken       int      `json:"time_taken"`
}

// QuizSession is the state of one quiz attempt. All mutation goes through
// the session service, which serializes access; the methods here are the
// pure transition rules.
type QuizSession struct {
	ID           string            `json:"id"`
	QuizID       uint              `json:"quiz_id"`
	StudentID    uint              `json:"student_id"`
	Questions    []SessionQuestion `json:"questions"`
	Slots        []ResponseSlot    `json:"slots"`
	CurrentIndex int               `json:"current_index"`
	TimeLimit    int               `json:"time_limit"` // Minutes, 0 means untimed
	Deadline     time.Time         `json:"deadline"`   // Zero when untimed
	Status       SessionStatus     `json:"status"`
	StartedAt    time.Time         `json:"started_at"`
	EnteredAt    time.Time         `json:"entered_at"` // When the current question came into view
}

// NewQuizSession initializes one empty response slot per question.
func NewQuizSession(quizID, studentID uint, questions []SessionQuestion, timeLimit int) *QuizSession {
	now := time.Now()
	s := &QuizSession{
		ID:        GenerateUUID(),
		QuizID:    quizID,
		StudentID: studentID,
		Questions: questions,
		Slots:     make([]ResponseSlot, len(questions)),
		TimeLimit: timeLimit,
		Status:    SessionActive,
		StartedAt: now,
		EnteredAt: now,
	}
	for i, q := range questions {
		s.Slots[i] = ResponseSlot{QuestionID: q.ID, SelectedOptions: []string{}}
	}
	if timeLimit > 0 {
		s.Deadline = now.Add(time.Duration(timeLimit) * time.Minute)
	}
	return s
}

// Next moves the index forward, clamped to the last question.
func (s *QuizSession) Next() {
	if s.CurrentIndex < len(s.Questions)-1 {
		s.CurrentIndex++
	}
}

// Previous moves the index backward, clamped to zero.
func (s *QuizSession) Previous() {
	if s.CurrentIndex > 0 {
		s.CurrentIndex--
	}
}

// Jump sets the index directly; out-of-range targets are rejected.
func (s *QuizSession) Jump(index int) error {
	if index < 0 || index >= len(s.Questions) {
		return ErrIndexOutOfRange
	}
	s.CurrentIndex = index
	return nil
}

// Select records an option click on the question at the given index:
// toggle membership for multi-select, exclusive replace otherwise.
func (s *QuizSession) Select(index int, optionID string) error {
	if index < 0 || index >= len(s.Questions) {
		return ErrIndexOutOfRange
	}
	q := s.Questions[index]

	valid := false
	for _, id := range q.OptionIDs {
		if id == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return ErrOptionNotFound
	}

	slot := &s.Slots[index]
	if q.Type == TypeMultipleSelect {
		for i, id := range slot.SelectedOptions {
			if id == optionID {
				slot.SelectedOptions = append(slot.SelectedOptions[:i], slot.SelectedOptions[i+1:]...)
				return nil
			}
		}
		slot.SelectedOptions = append(slot.SelectedOptions, optionID)
		return nil
	}

	slot.SelectedOptions = []string{optionID}
	return nil
}

// AccrueTime charges the seconds since the current question was entered
// to its slot and restarts the clock. Called when the cursor leaves a
// question and once more on submit.
func (s *QuizSession) AccrueTime(now time.Time) {
	if s.CurrentIndex >= 0 && s.CurrentIndex < len(s.Slots) {
		if elapsed := int(now.Sub(s.EnteredAt).Seconds()); elapsed > 0 {
			s.Slots[s.CurrentIndex].TimeTaken += elapsed
		}
	}
	s.EnteredAt = now
}

// AnsweredCount reports how many questions have at least one selection,
// shown in the submit confirmation.
func (s *QuizSession) AnsweredCount() int {
	n := 0
	for _, slot := range s.Slots {
		if len(slot.SelectedOptions) > 0 {
			n++
		}
	}
	return n
}

// Remaining returns whole seconds left before the deadline, never negative.
// Untimed sessions always report zero.
func (s *QuizSession) Remaining(now time.Time) int {
	if s.TimeLimit <= 0 {
		return 0
	}
	left := int(s.Deadline.Sub(now).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

// Elapsed is the reported attempt duration: limit*60 - remaining for timed
// sessions (the full limit once the deadline passed), zero when untimed.
func (s *QuizSession) Elapsed(now time.Time) int {
	if s.TimeLimit <= 0 {
		return 0
	}
	return s.TimeLimit*60 - s.Remaining(now)
}

// Responses snapshots the slots as a submission payload.
func (s *QuizSession) Responses() []QuestionResponse {
	out := make([]QuestionResponse, len(s.Slots))
	for i, slot := range s.Slots {
		out[i] = QuestionResponse{
			QuestionID:      slot.QuestionID,
			SelectedOptions: slot.SelectedOptions,
			TimeTaken:       slot.TimeTaken,
		}
	}
	return out
}

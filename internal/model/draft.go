package model

import (
	"errors"
	"time"
)

// Option count bounds for every question.
const (
	MinOptions = 2
	MaxOptions = 6
)

var (
	ErrTooManyOptions  = errors.New("a question cannot have more than 6 options")
	ErrTooFewOptions   = errors.New("a question must keep at least 2 options")
	ErrOptionNotFound  = errors.New("option not found")
	ErrNoQuestions     = errors.New("at least one question is required")
	ErrAlreadyAtUpload = errors.New("draft is already at the upload stage")
	ErrAlreadyAtFinal  = errors.New("draft is already at the details stage")
)

type DraftStage string

const (
	StageUpload  DraftStage = "upload"
	StageReview  DraftStage = "review"
	StageDetails DraftStage = "details"
)

// OptionLetter returns the positional option id: A for 0, B for 1, and so on.
func OptionLetter(index int) string {
	return string(rune('A' + index))
}

// DraftQuestion is the editable, fully typed form of a question inside a
// quiz draft. Correctness lives on the options; CorrectAnswer is kept in
// sync with the flags so both views never disagree.
type DraftQuestion struct {
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []Option     `json:"options"`
	CorrectAnswer []string     `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Marks         int          `json:"marks"`
	AIGenerated   bool         `json:"ai_generated"`
}

// NewDefaultQuestion returns the manual-insert template: a blank 4-option
// mcq with A preselected.
func NewDefaultQuestion() DraftQuestion {
	q := DraftQuestion{
		QuestionType: TypeMCQ,
		Marks:        1,
		Options: []Option{
			{ID: "A", IsCorrect: true},
			{ID: "B"},
			{ID: "C"},
			{ID: "D"},
		},
	}
	q.syncCorrect()
	return q
}

// reletter reassigns positional ids after any structural change.
func (q *DraftQuestion) reletter() {
	for i := range q.Options {
		q.Options[i].ID = OptionLetter(i)
	}
}

// syncCorrect rebuilds CorrectAnswer from the option flags, repairing the
// single-select invariant when no option is flagged.
func (q *DraftQuestion) syncCorrect() {
	ids := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}

	if q.QuestionType.IsSingleSelect() {
		if len(ids) == 0 && len(q.Options) > 0 {
			q.Options[0].IsCorrect = true
			ids = []string{q.Options[0].ID}
		} else if len(ids) > 1 {
			for i := range q.Options {
				q.Options[i].IsCorrect = q.Options[i].ID == ids[0]
			}
			ids = ids[:1]
		}
	}

	q.CorrectAnswer = ids
}

// SetType switches the question type. Moving to multiple_select clears the
// selection; moving away collapses it to the first previous choice, or A
// when nothing was chosen.
func (q *DraftQuestion) SetType(t QuestionType) {
	if t == q.QuestionType {
		return
	}

	prev := q.CorrectAnswer
	q.QuestionType = t

	if t == TypeMultipleSelect {
		for i := range q.Options {
			q.Options[i].IsCorrect = false
		}
		q.CorrectAnswer = []string{}
		return
	}

	keep := "A"
	if len(prev) > 0 {
		keep = prev[0]
	}
	for i := range q.Options {
		q.Options[i].IsCorrect = q.Options[i].ID == keep
	}
	q.syncCorrect()
}

// ToggleCorrect records a correctness click on one option: toggle for
// multi-select, exclusive replace for single-select.
func (q *DraftQuestion) ToggleCorrect(optionID string) error {
	idx := -1
	for i, opt := range q.Options {
		if opt.ID == optionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrOptionNotFound
	}

	if q.QuestionType == TypeMultipleSelect {
		q.Options[idx].IsCorrect = !q.Options[idx].IsCorrect
	} else {
		for i := range q.Options {
			q.Options[i].IsCorrect = i == idx
		}
	}
	q.syncCorrect()
	return nil
}

// AddOption appends a blank option with the next positional letter.
func (q *DraftQuestion) AddOption() error {
	if len(q.Options) >= MaxOptions {
		return ErrTooManyOptions
	}
	q.Options = append(q.Options, Option{ID: OptionLetter(len(q.Options))})
	return nil
}

// RemoveOption drops one option and reletters the rest.
func (q *DraftQuestion) RemoveOption(optionID string) error {
	if len(q.Options) <= MinOptions {
		return ErrTooFewOptions
	}

	idx := -1
	for i, opt := range q.Options {
		if opt.ID == optionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrOptionNotFound
	}

	q.Options = append(q.Options[:idx], q.Options[idx+1:]...)
	q.reletter()
	q.syncCorrect()
	return nil
}

// Normalize reassigns positional ids and reconciles CorrectAnswer with the
// option flags. Callers constructing a DraftQuestion from external input
// run this before using it.
func (q *DraftQuestion) Normalize() {
	q.reletter()
	q.syncCorrect()
}

// SetMarks coerces marks to an integer of at least 1.
func (q *DraftQuestion) SetMarks(marks int) {
	if marks < 1 {
		marks = 1
	}
	q.Marks = marks
}

// QuizDraft is the server-side state of one quiz-creation wizard run.
type QuizDraft struct {
	ID          string          `json:"id"`
	OwnerID     uint            `json:"owner_id"`
	Stage       DraftStage      `json:"stage"`
	Questions   []DraftQuestion `json:"questions"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Subject     string          `json:"subject"`
	Topic       string          `json:"topic"`
	Difficulty  Difficulty      `json:"difficulty"`
	TimeLimit   int             `json:"time_limit"`
	IsPublic    bool            `json:"is_public"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewQuizDraft(ownerID uint) *QuizDraft {
	now := time.Now()
	return &QuizDraft{
		ID:         GenerateUUID(),
		OwnerID:    ownerID,
		Stage:      StageUpload,
		Difficulty: DifficultyMedium,
		Questions:  []DraftQuestion{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Advance moves the wizard forward one stage. Leaving the upload stage
// requires at least one question.
func (d *QuizDraft) Advance() error {
	switch d.Stage {
	case StageUpload:
		if len(d.Questions) == 0 {
			return ErrNoQuestions
		}
		d.Stage = StageReview
	case StageReview:
		d.Stage = StageDetails
	default:
		return ErrAlreadyAtFinal
	}
	return nil
}

// Back moves the wizard one stage toward upload.
func (d *QuizDraft) Back() error {
	switch d.Stage {
	case StageDetails:
		d.Stage = StageReview
	case StageReview:
		d.Stage = StageUpload
	default:
		return ErrAlreadyAtUpload
	}
	return nil
}

package model

import "encoding/json"

type QuestionType string

const (
	TypeMCQ            QuestionType = "mcq"
	TypeMultipleSelect QuestionType = "multiple_select"
	TypeTrueFalse      QuestionType = "true_false"
)

// IsSingleSelect reports whether the type carries exactly one correct option.
func (t QuestionType) IsSingleSelect() bool {
	return t == TypeMCQ || t == TypeTrueFalse
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	OwnerID     uint       `gorm:"index;type:bigint unsigned" json:"ownerId"`
	Subject     string     `gorm:"size:100" json:"subject"`
	Topic       string     `gorm:"size:100" json:"topic"`
	Difficulty  Difficulty `gorm:"size:20;default:'medium'" json:"difficulty"`
	IsPublic    bool       `gorm:"default:false" json:"isPublic"`
	TimeLimit   int        `gorm:"default:0" json:"timeLimit"` // Minutes, 0 means untimed
	Questions   []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Option is one answer choice. IDs are positional uppercase letters.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID        uint            `gorm:"index;type:bigint unsigned" json:"quizId"`
	QuestionText  string          `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType    `gorm:"size:50;not null;default:'mcq'" json:"questionType"`
	Options       json.RawMessage `gorm:"type:json" json:"options"`       // JSON: []Option
	CorrectAnswer json.RawMessage `gorm:"type:json" json:"correctAnswer"` // JSON: []string of option ids
	Explanation   string          `gorm:"type:text" json:"explanation"`
	Marks         int             `gorm:"default:1" json:"marks"`
	AIGenerated   bool            `gorm:"default:false" json:"aiGenerated"`
	Order         int             `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}

// DecodeOptions unpacks the JSON options column.
func (q *Question) DecodeOptions() ([]Option, error) {
	var opts []Option
	if len(q.Options) == 0 {
		return opts, nil
	}
	err := json.Unmarshal(q.Options, &opts)
	return opts, err
}

// CorrectSet unpacks the correct answer column as a membership set.
func (q *Question) CorrectSet() (map[string]bool, error) {
	var ids []string
	if len(q.CorrectAnswer) > 0 {
		if err := json.Unmarshal(q.CorrectAnswer, &ids); err != nil {
			return nil, err
		}
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

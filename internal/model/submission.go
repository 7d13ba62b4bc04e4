package model

import "encoding/json"

// QuestionResponse is one answer inside a submission payload.
type QuestionResponse struct {
	QuestionID      uint     `json:"question_id"`
	SelectedOptions []string `json:"selected_options"`
	TimeTaken       int      `json:"time_taken"`
}

// QuestionResult is the graded detail for one question.
type QuestionResult struct {
	QuestionID     uint     `json:"question_id"`
	QuestionText   string   `json:"question_text"`
	SelectedOption []string `json:"selected_options"`
	CorrectOptions []string `json:"correct_options"`
	IsCorrect      bool     `json:"is_correct"`
	MarksAwarded   int      `json:"marks_awarded"`
	Explanation    string   `json:"explanation"`
}

// swagger:model QuizSubmission
type QuizSubmission struct {
	BaseModel
	QuizID     uint            `gorm:"index;type:bigint unsigned" json:"quizId"`
	StudentID  uint            `gorm:"index;type:bigint unsigned" json:"studentId"`
	Score      int             `gorm:"default:0" json:"score"`
	TotalMarks int             `gorm:"default:0" json:"totalMarks"`
	Percentage float64         `gorm:"default:0" json:"percentage"`
	TimeTaken  int             `gorm:"default:0" json:"timeTaken"` // Seconds
	Responses  json.RawMessage `gorm:"type:json" json:"responses"` // JSON: []QuestionResult
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

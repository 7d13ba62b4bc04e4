package repository

import (
	"errors"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(submission *model.QuizSubmission) error {
	return r.db.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.QuizSubmission, error) {
	var submission model.QuizSubmission
	err := r.db.First(&submission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListByStudent returns a student's submissions, newest first.
func (r *SubmissionRepository) ListByStudent(studentID uint) ([]model.QuizSubmission, error) {
	var submissions []model.QuizSubmission
	err := r.db.Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

// ListByQuiz returns every submission for one quiz, for the owner's review.
func (r *SubmissionRepository) ListByQuiz(quizID uint) ([]model.QuizSubmission, error) {
	var submissions []model.QuizSubmission
	err := r.db.Where("quiz_id = ?", quizID).
		Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

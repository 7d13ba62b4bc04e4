package repository

import (
	"errors"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"

	"gorm.io/gorm"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// Create stores the quiz and its questions in one transaction.
func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.`order` ASC, questions.id ASC")
	}).First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListVisible returns quizzes the user owns plus public ones, newest first.
func (r *QuizRepository) ListVisible(userID uint, page, pageSize int) ([]model.Quiz, int64, error) {
	var quizzes []model.Quiz
	var total int64

	query := r.db.Model(&model.Quiz{}).Where("owner_id = ? OR is_public = ?", userID, true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&quizzes).Error
	if err != nil {
		return nil, 0, err
	}
	return quizzes, total, nil
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

// Delete removes the quiz and its questions.
func (r *QuizRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}

// ReplaceQuestions swaps the quiz's question set inside a transaction.
func (r *QuizRepository) ReplaceQuestions(quizID uint, questions []model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quizID
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

package repository

import (
	"errors"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"

	"gorm.io/gorm"
)

type ClassRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) Create(class *model.Class) error {
	return r.db.Create(class).Error
}

func (r *ClassRepository) FindByCode(code string) (*model.Class, error) {
	var class model.Class
	err := r.db.Where("code = ?", code).First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) FindByID(id uint) (*model.Class, error) {
	var class model.Class
	err := r.db.First(&class, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// ListForUser returns classes the user teaches plus classes they joined.
func (r *ClassRepository) ListForUser(userID uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.
		Joins("LEFT JOIN class_members ON class_members.class_id = classes.id AND class_members.user_id = ?", userID).
		Where("classes.teacher_id = ? OR class_members.user_id = ?", userID, userID).
		Group("classes.id").
		Order("classes.created_at DESC").
		Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) AddMember(classID, userID uint) error {
	var count int64
	if err := r.db.Model(&model.ClassMember{}).
		Where("class_id = ? AND user_id = ?", classID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return util.ErrAlreadyEnrolled
	}
	return r.db.Create(&model.ClassMember{ClassID: classID, UserID: userID}).Error
}

func (r *ClassRepository) CountMembers(classID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ClassMember{}).Where("class_id = ?", classID).Count(&count).Error
	return count, err
}

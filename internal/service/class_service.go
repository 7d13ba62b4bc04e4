package service

import (
	"strings"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/repository"
	"snapquizzer_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClassService struct {
	classRepo *repository.ClassRepository
}

func NewClassService(classRepo *repository.ClassRepository) *ClassService {
	return &ClassService{classRepo: classRepo}
}

type ClassCreateRequest struct {
	Name    string `json:"name" binding:"required"`
	Subject string `json:"subject"`
}

// ClassInfo is a class with its member count.
type ClassInfo struct {
	model.Class
	MemberCount int64 `json:"memberCount"`
}

// generateJoinCode derives a short shareable code. Eight hex characters
// gives enough space that a collision retry is rare.
func generateJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func (s *ClassService) CreateClass(teacherID uint, req *ClassCreateRequest) (*model.Class, error) {
	class := &model.Class{
		Name:      req.Name,
		Subject:   req.Subject,
		TeacherID: teacherID,
		Code:      generateJoinCode(),
	}

	// Retry once on a code collision before giving up.
	err := s.classRepo.Create(class)
	if err != nil {
		class.Code = generateJoinCode()
		if err = s.classRepo.Create(class); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("Class created",
		zap.Uint("class_id", class.ID),
		zap.Uint("teacher_id", teacherID),
		zap.String("code", class.Code))
	return class, nil
}

// JoinByCode enrolls a student using the shareable class code.
func (s *ClassService) JoinByCode(userID uint, code string) (*model.Class, error) {
	class, err := s.classRepo.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}

	if err := s.classRepo.AddMember(class.ID, userID); err != nil {
		return nil, err
	}

	logger.Log.Info("Student joined class",
		zap.Uint("class_id", class.ID),
		zap.Uint("user_id", userID))
	return class, nil
}

func (s *ClassService) ListClasses(userID uint) ([]ClassInfo, error) {
	classes, err := s.classRepo.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	infos := make([]ClassInfo, 0, len(classes))
	for _, class := range classes {
		count, err := s.classRepo.CountMembers(class.ID)
		if err != nil {
			return nil, err
		}
		infos = append(infos, ClassInfo{Class: class, MemberCount: count})
	}
	return infos, nil
}

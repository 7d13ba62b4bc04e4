package service

import (
	"context"
	"encoding/json"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"
	"snapquizzer_backend/pkg/logger"

	"go.uber.org/zap"
)

// draftStore persists in-progress drafts; backed by Redis in production.
type draftStore interface {
	Save(ctx context.Context, draft *model.QuizDraft) error
	Find(ctx context.Context, id string) (*model.QuizDraft, error)
	Delete(ctx context.Context, id string) error
}

// quizCreator is the slice of QuizRepository draft submission needs.
type quizCreator interface {
	Create(quiz *model.Quiz) error
}

// DraftService runs the three-stage quiz creation wizard. Drafts live in
// Redis until submitted, so an interrupted run survives a restart.
type DraftService struct {
	draftRepo  draftStore
	quizRepo   quizCreator
	extraction *ExtractionService
}

func NewDraftService(draftRepo draftStore, quizRepo quizCreator, extraction *ExtractionService) *DraftService {
	return &DraftService{draftRepo: draftRepo, quizRepo: quizRepo, extraction: extraction}
}

func (s *DraftService) CreateDraft(ctx context.Context, ownerID uint) (*model.QuizDraft, error) {
	draft := model.NewQuizDraft(ownerID)
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	logger.Log.Info("Draft created", zap.String("draft_id", draft.ID), zap.Uint("owner_id", ownerID))
	return draft, nil
}

// load fetches a draft and enforces ownership.
func (s *DraftService) load(ctx context.Context, id string, ownerID uint) (*model.QuizDraft, error) {
	draft, err := s.draftRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return draft, nil
}

func (s *DraftService) GetDraft(ctx context.Context, id string, ownerID uint) (*model.QuizDraft, error) {
	return s.load(ctx, id, ownerID)
}

func (s *DraftService) DeleteDraft(ctx context.Context, id string, ownerID uint) error {
	if _, err := s.load(ctx, id, ownerID); err != nil {
		return err
	}
	return s.draftRepo.Delete(ctx, id)
}

// ExtractIntoDraft runs the OCR pipeline over the uploaded images and
// appends every detected question to the draft. A run that yields no
// questions at all leaves the draft untouched and reports the failure.
func (s *DraftService) ExtractIntoDraft(ctx context.Context, id string, ownerID uint, images []string) (*model.QuizDraft, *BatchResult, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	batch, err := s.extraction.ProcessBatch(ctx, ownerID, images)
	if err != nil {
		return nil, nil, err
	}
	for _, result := range batch.Results {
		for _, detected := range result.DetectedQuestions {
			draft.Questions = append(draft.Questions, detected.ToDraftQuestion())
		}
	}

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, nil, err
	}
	return draft, batch, nil
}

// ImportDocument ingests an extraction result document produced by the
// process endpoints. Only the canonical shape is accepted; bare lists and
// wrapped envelopes are rejected with their own errors.
func (s *DraftService) ImportDocument(ctx context.Context, id string, ownerID uint, payload []byte) (*model.QuizDraft, error) {
	result, err := DecodeExtractionResult(payload)
	if err != nil {
		return nil, err
	}
	if len(result.DetectedQuestions) == 0 {
		return nil, util.ErrNoQuestionsDetected
	}
	return s.ImportQuestions(ctx, id, ownerID, result.DetectedQuestions)
}

// ImportQuestions appends already-extracted questions, used when the client
// ran extraction separately via the process endpoints.
func (s *DraftService) ImportQuestions(ctx context.Context, id string, ownerID uint, detected []DetectedQuestion) (*model.QuizDraft, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	for _, d := range detected {
		draft.Questions = append(draft.Questions, d.ToDraftQuestion())
	}

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddQuestion appends the blank manual-insert template.
func (s *DraftService) AddQuestion(ctx context.Context, id string, ownerID uint) (*model.QuizDraft, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	draft.Questions = append(draft.Questions, model.NewDefaultQuestion())
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) RemoveQuestion(ctx context.Context, id string, ownerID uint, index int) (*model.QuizDraft, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Questions) {
		return nil, model.ErrIndexOutOfRange
	}

	draft.Questions = append(draft.Questions[:index], draft.Questions[index+1:]...)
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// QuestionUpdateRequest carries one commit of edits to a draft question.
// Every field is optional; marks tolerates numeric strings.
type QuestionUpdateRequest struct {
	QuestionText  *string             `json:"question_text"`
	QuestionType  *model.QuestionType `json:"question_type"`
	Explanation   *string             `json:"explanation"`
	Marks         *util.FlexibleInt   `json:"marks"`
	ToggleCorrect *string             `json:"toggle_correct"`
}

func (s *DraftService) UpdateQuestion(ctx context.Context, id string, ownerID uint, index int, req *QuestionUpdateRequest) (*model.QuizDraft, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Questions) {
		return nil, model.ErrIndexOutOfRange
	}
	q := &draft.Questions[index]

	if req.QuestionText != nil {
		q.QuestionText = *req.QuestionText
	}
	if req.QuestionType != nil {
		q.SetType(*req.QuestionType)
	}
	if req.Explanation != nil {
		q.Explanation = *req.Explanation
	}
	if req.Marks != nil {
		q.SetMarks(int(*req.Marks))
	}
	if req.ToggleCorrect != nil {
		if err := q.ToggleCorrect(*req.ToggleCorrect); err != nil {
			return nil, err
		}
	}

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) AddOption(ctx context.Context, id string, ownerID uint, index int) (*model.QuizDraft, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Questions) {
		return nil, model.ErrIndexOutOfRange
	}

	if err := draft.Questions[index].AddOption(); err != nil {
		return nil, err
	}
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) RemoveOption(ctx context.Context, id string, ownerID uint, index int, optionID string) (*model.QuizDraft, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Questions) {
		return nil, model.ErrIndexOutOfRange
	}

	if err := draft.Questions[index].RemoveOption(optionID); err != nil {
		return nil, err
	}
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) SetOptionText(ctx context.Context, id string, ownerID uint, index int, optionID, text string) (*model.QuizDraft, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Questions) {
		return nil, model.ErrIndexOutOfRange
	}

	q := &draft.Questions[index]
	found := false
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			q.Options[i].Text = text
			found = true
			break
		}
	}
	if !found {
		return nil, model.ErrOptionNotFound
	}

	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) Advance(ctx context.Context, id string, ownerID uint) (*model.QuizDraft, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := draft.Advance(); err != nil {
		return nil, err
	}
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) Back(ctx context.Context, id string, ownerID uint) (*model.QuizDraft, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := draft.Back(); err != nil {
		return nil, err
	}
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// DraftDetailsRequest carries the final wizard stage. Only a title is
// mandatory to publish.
type DraftDetailsRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Subject     string           `json:"subject"`
	Topic       string           `json:"topic"`
	Difficulty  model.Difficulty `json:"difficulty"`
	TimeLimit   *int             `json:"time_limit"`
	IsPublic    *bool            `json:"is_public"`
}

// SubmitDraft turns the draft into a persisted quiz and discards the
// draft. The draft must have at least one question and a title.
func (s *DraftService) SubmitDraft(ctx context.Context, id string, ownerID uint, req *DraftDetailsRequest) (*model.Quiz, error) {
	draft, err := s.load(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req != nil {
		if req.Title != "" {
			draft.Title = req.Title
		}
		if req.Description != "" {
			draft.Description = req.Description
		}
		if req.Subject != "" {
			draft.Subject = req.Subject
		}
		if req.Topic != "" {
			draft.Topic = req.Topic
		}
		if req.Difficulty != "" {
			draft.Difficulty = req.Difficulty
		}
		if req.TimeLimit != nil {
			draft.TimeLimit = *req.TimeLimit
		}
		if req.IsPublic != nil {
			draft.IsPublic = *req.IsPublic
		}
	}

	if len(draft.Questions) == 0 {
		return nil, model.ErrNoQuestions
	}
	if draft.Title == "" {
		return nil, util.ErrTitleRequired
	}

	questions := make([]model.Question, 0, len(draft.Questions))
	for i := range draft.Questions {
		dq := draft.Questions[i]
		dq.Normalize()

		options, err := json.Marshal(dq.Options)
		if err != nil {
			return nil, err
		}
		correct, err := json.Marshal(dq.CorrectAnswer)
		if err != nil {
			return nil, err
		}
		questions = append(questions, model.Question{
			QuestionText:  dq.QuestionText,
			QuestionType:  dq.QuestionType,
			Options:       options,
			CorrectAnswer: correct,
			Explanation:   dq.Explanation,
			Marks:         dq.Marks,
			AIGenerated:   dq.AIGenerated,
			Order:         i,
		})
	}

	quiz := &model.Quiz{
		Title:       draft.Title,
		Description: draft.Description,
		OwnerID:     ownerID,
		Subject:     draft.Subject,
		Topic:       draft.Topic,
		Difficulty:  draft.Difficulty,
		IsPublic:    draft.IsPublic,
		TimeLimit:   draft.TimeLimit,
		Questions:   questions,
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}

	if err := s.draftRepo.Delete(ctx, id); err != nil {
		logger.Log.Warn("Failed to delete submitted draft", zap.Error(err), zap.String("draft_id", id))
	}

	logger.Log.Info("Draft published",
		zap.String("draft_id", id),
		zap.Uint("quiz_id", quiz.ID),
		zap.Int("questions", len(questions)))
	return quiz, nil
}

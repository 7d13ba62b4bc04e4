package service

import (
	"context"
	"encoding/json"
	"testing"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"
)

type memoryDraftStore struct {
	drafts map[string]*model.QuizDraft
}

func newMemoryDraftStore() *memoryDraftStore {
	return &memoryDraftStore{drafts: make(map[string]*model.QuizDraft)}
}

func (m *memoryDraftStore) Save(ctx context.Context, draft *model.QuizDraft) error {
	copied := *draft
	m.drafts[draft.ID] = &copied
	return nil
}

func (m *memoryDraftStore) Find(ctx context.Context, id string) (*model.QuizDraft, error) {
	draft, ok := m.drafts[id]
	if !ok {
		return nil, util.ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (m *memoryDraftStore) Delete(ctx context.Context, id string) error {
	delete(m.drafts, id)
	return nil
}

type fakeQuizCreator struct {
	created []*model.Quiz
}

func (f *fakeQuizCreator) Create(quiz *model.Quiz) error {
	quiz.ID = uint(len(f.created) + 1)
	f.created = append(f.created, quiz)
	return nil
}

func newTestDraftService() (*DraftService, *fakeQuizCreator) {
	extraction := testExtractionService(&fakeStorage{}, func(ctx context.Context, image []byte) (string, error) {
		return sampleOCRText, nil
	})
	creator := &fakeQuizCreator{}
	return NewDraftService(newMemoryDraftStore(), creator, extraction), creator
}

func TestDraftOwnership(t *testing.T) {
	svc, _ := newTestDraftService()
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetDraft(ctx, draft.ID, 2); err != util.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, err := svc.GetDraft(ctx, "missing", 1); err != util.ErrDraftNotFound {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestExtractIntoDraft(t *testing.T) {
	svc, _ := newTestDraftService()
	ctx := context.Background()

	draft, _ := svc.CreateDraft(ctx, 1)

	draft, batch, err := svc.ExtractIntoDraft(ctx, draft.ID, 1, []string{pngPayload()})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if batch.TotalQuestions != 2 {
		t.Fatalf("batch: %d", batch.TotalQuestions)
	}
	if len(draft.Questions) != 2 {
		t.Fatalf("draft has %d questions", len(draft.Questions))
	}
	if !draft.Questions[0].AIGenerated {
		t.Fatal("extracted questions must be flagged")
	}
	if draft.Questions[0].QuestionType != model.TypeMCQ {
		t.Fatalf("got %s", draft.Questions[0].QuestionType)
	}
}

func TestExtractIntoDraftNoQuestions(t *testing.T) {
	extraction := testExtractionService(&fakeStorage{}, func(ctx context.Context, image []byte) (string, error) {
		return "an unlabeled ramble of text with no option lines at all", nil
	})
	svc := NewDraftService(newMemoryDraftStore(), &fakeQuizCreator{}, extraction)
	ctx := context.Background()

	draft, _ := svc.CreateDraft(ctx, 1)

	if _, _, err := svc.ExtractIntoDraft(ctx, draft.ID, 1, []string{pngPayload()}); err != util.ErrNoQuestionsDetected {
		t.Fatalf("expected ErrNoQuestionsDetected, got %v", err)
	}

	// The failed run leaves the draft untouched.
	draft, err := svc.GetDraft(ctx, draft.ID, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(draft.Questions) != 0 {
		t.Fatalf("draft gained %d questions", len(draft.Questions))
	}
}

func TestImportDocumentPinsShape(t *testing.T) {
	svc, _ := newTestDraftService()
	ctx := context.Background()

	draft, _ := svc.CreateDraft(ctx, 1)

	if _, err := svc.ImportDocument(ctx, draft.ID, 1, []byte(`[{"question_text":"q","options":[]}]`)); err != ErrLegacyListShape {
		t.Fatalf("expected ErrLegacyListShape, got %v", err)
	}
	if _, err := svc.ImportDocument(ctx, draft.ID, 1, []byte(`{"data":{"success":true,"raw_text":"x","detected_questions":[]}}`)); err != ErrLegacyEnvelope {
		t.Fatalf("expected ErrLegacyEnvelope, got %v", err)
	}
	if _, err := svc.ImportDocument(ctx, draft.ID, 1, []byte(`{"success":true,"raw_text":"x","detected_questions":[]}`)); err != util.ErrNoQuestionsDetected {
		t.Fatalf("expected ErrNoQuestionsDetected, got %v", err)
	}

	payload := `{"success":true,"raw_text":"1. q\nA. x\nB. y","detected_questions":[{"question_text":"q","options":[{"id":"A","text":"x","is_correct":false},{"id":"B","text":"y","is_correct":false}]}]}`
	draft, err := svc.ImportDocument(ctx, draft.ID, 1, []byte(payload))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(draft.Questions) != 1 {
		t.Fatalf("got %d questions", len(draft.Questions))
	}
	if !draft.Questions[0].AIGenerated || draft.Questions[0].QuestionType != model.TypeMCQ {
		t.Fatalf("editor defaults missing: %+v", draft.Questions[0])
	}
}

func TestDraftQuestionEditing(t *testing.T) {
	svc, _ := newTestDraftService()
	ctx := context.Background()

	draft, _ := svc.CreateDraft(ctx, 1)
	draft, err := svc.AddQuestion(ctx, draft.ID, 1)
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if len(draft.Questions) != 1 {
		t.Fatalf("got %d questions", len(draft.Questions))
	}

	text := "What is 2+2?"
	qtype := model.TypeMultipleSelect
	marks := util.FlexibleInt(3)
	draft, err = svc.UpdateQuestion(ctx, draft.ID, 1, 0, &QuestionUpdateRequest{
		QuestionText: &text,
		QuestionType: &qtype,
		Marks:        &marks,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	q := draft.Questions[0]
	if q.QuestionText != text || q.QuestionType != qtype || q.Marks != 3 {
		t.Fatalf("edits lost: %+v", q)
	}
	if len(q.CorrectAnswer) != 0 {
		t.Fatalf("type switch must clear selection, got %v", q.CorrectAnswer)
	}

	// Option ops go through the same invariants as the model.
	draft, err = svc.AddOption(ctx, draft.ID, 1, 0)
	if err != nil {
		t.Fatalf("add option: %v", err)
	}
	if len(draft.Questions[0].Options) != 5 {
		t.Fatalf("got %d options", len(draft.Questions[0].Options))
	}

	draft, err = svc.SetOptionText(ctx, draft.ID, 1, 0, "E", "four")
	if err != nil {
		t.Fatalf("set text: %v", err)
	}
	if draft.Questions[0].Options[4].Text != "four" {
		t.Fatalf("text lost: %+v", draft.Questions[0].Options[4])
	}

	if _, err := svc.UpdateQuestion(ctx, draft.ID, 1, 5, &QuestionUpdateRequest{}); err != model.ErrIndexOutOfRange {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestDraftWizardEndToEnd(t *testing.T) {
	svc, creator := newTestDraftService()
	ctx := context.Background()

	draft, _ := svc.CreateDraft(ctx, 1)

	// Stage 1: no questions yet, advancing is refused.
	if _, err := svc.Advance(ctx, draft.ID, 1); err != model.ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}

	draft, _, err := svc.ExtractIntoDraft(ctx, draft.ID, 1, []string{pngPayload()})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	// Stage 1 -> 2 -> 3, then a step back and forward again.
	if draft, err = svc.Advance(ctx, draft.ID, 1); err != nil || draft.Stage != model.StageReview {
		t.Fatalf("advance: %v stage %s", err, draft.Stage)
	}
	if draft, err = svc.Advance(ctx, draft.ID, 1); err != nil || draft.Stage != model.StageDetails {
		t.Fatalf("advance: %v stage %s", err, draft.Stage)
	}
	if draft, err = svc.Back(ctx, draft.ID, 1); err != nil || draft.Stage != model.StageReview {
		t.Fatalf("back: %v stage %s", err, draft.Stage)
	}
	if _, err = svc.Advance(ctx, draft.ID, 1); err != nil {
		t.Fatalf("advance: %v", err)
	}

	// Submitting without a title is refused.
	if _, err := svc.SubmitDraft(ctx, draft.ID, 1, &DraftDetailsRequest{}); err != util.ErrTitleRequired {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}

	limit := 15
	public := true
	quiz, err := svc.SubmitDraft(ctx, draft.ID, 1, &DraftDetailsRequest{
		Title:     "Scanned geography quiz",
		Subject:   "Geography",
		TimeLimit: &limit,
		IsPublic:  &public,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(creator.created) != 1 {
		t.Fatalf("created %d quizzes", len(creator.created))
	}
	if quiz.Title != "Scanned geography quiz" || quiz.TimeLimit != 15 || !quiz.IsPublic {
		t.Fatalf("details lost: %+v", quiz)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("got %d questions", len(quiz.Questions))
	}

	var correct []string
	if err := json.Unmarshal(quiz.Questions[0].CorrectAnswer, &correct); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(correct) != 1 {
		t.Fatalf("single-select invariant broken: %v", correct)
	}
	if quiz.Questions[1].Order != 1 {
		t.Fatalf("order lost: %d", quiz.Questions[1].Order)
	}

	// The draft is gone after publishing.
	if _, err := svc.GetDraft(ctx, draft.ID, 1); err != util.ErrDraftNotFound {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
}

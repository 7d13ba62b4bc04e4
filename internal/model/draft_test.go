package model

import (
	"testing"
)

func TestNewDefaultQuestion(t *testing.T) {
	q := NewDefaultQuestion()

	if q.QuestionType != TypeMCQ {
		t.Fatalf("expected mcq, got %s", q.QuestionType)
	}
	if len(q.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(q.Options))
	}
	if q.Marks != 1 {
		t.Fatalf("expected 1 mark, got %d", q.Marks)
	}
	if len(q.CorrectAnswer) != 1 || q.CorrectAnswer[0] != "A" {
		t.Fatalf("expected A preselected, got %v", q.CorrectAnswer)
	}
	for i, opt := range q.Options {
		if opt.ID != OptionLetter(i) {
			t.Fatalf("option %d has id %s", i, opt.ID)
		}
	}
}

func TestAddOptionBounds(t *testing.T) {
	q := NewDefaultQuestion()

	if err := q.AddOption(); err != nil {
		t.Fatalf("add 5th option: %v", err)
	}
	if err := q.AddOption(); err != nil {
		t.Fatalf("add 6th option: %v", err)
	}
	if q.Options[5].ID != "F" {
		t.Fatalf("expected F, got %s", q.Options[5].ID)
	}

	if err := q.AddOption(); err != ErrTooManyOptions {
		t.Fatalf("expected ErrTooManyOptions, got %v", err)
	}
	if len(q.Options) != 6 {
		t.Fatalf("option count changed on rejected add: %d", len(q.Options))
	}
}

func TestRemoveOptionBounds(t *testing.T) {
	q := NewDefaultQuestion()

	if err := q.RemoveOption("B"); err != nil {
		t.Fatalf("remove B: %v", err)
	}
	if err := q.RemoveOption("B"); err != nil {
		t.Fatalf("remove relettered B: %v", err)
	}
	if len(q.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(q.Options))
	}

	if err := q.RemoveOption("A"); err != ErrTooFewOptions {
		t.Fatalf("expected ErrTooFewOptions, got %v", err)
	}
	if err := q.RemoveOption("Z"); err != ErrTooFewOptions {
		t.Fatalf("bounds are checked before lookup, got %v", err)
	}
}

func TestRemoveOptionReletters(t *testing.T) {
	q := NewDefaultQuestion()
	q.Options[0].Text = "first"
	q.Options[1].Text = "second"
	q.Options[2].Text = "third"
	q.Options[3].Text = "fourth"

	if err := q.RemoveOption("B"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	want := []struct{ id, text string }{
		{"A", "first"}, {"B", "third"}, {"C", "fourth"},
	}
	for i, w := range want {
		if q.Options[i].ID != w.id || q.Options[i].Text != w.text {
			t.Fatalf("option %d: got %s/%q, want %s/%q", i, q.Options[i].ID, q.Options[i].Text, w.id, w.text)
		}
	}
}

func TestRemoveCorrectOptionRepairsSelection(t *testing.T) {
	q := NewDefaultQuestion()

	// A is correct; removing it must leave a valid single selection.
	if err := q.RemoveOption("A"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(q.CorrectAnswer) != 1 || q.CorrectAnswer[0] != "A" {
		t.Fatalf("expected repaired selection on new A, got %v", q.CorrectAnswer)
	}
	if !q.Options[0].IsCorrect {
		t.Fatal("first option should carry the repaired flag")
	}
}

func TestToggleCorrectSingleSelect(t *testing.T) {
	q := NewDefaultQuestion()

	if err := q.ToggleCorrect("C"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(q.CorrectAnswer) != 1 || q.CorrectAnswer[0] != "C" {
		t.Fatalf("expected exclusive C, got %v", q.CorrectAnswer)
	}
	for _, opt := range q.Options {
		if opt.IsCorrect != (opt.ID == "C") {
			t.Fatalf("option %s flag wrong", opt.ID)
		}
	}

	if err := q.ToggleCorrect("Z"); err != ErrOptionNotFound {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}
}

func TestToggleCorrectMultiSelect(t *testing.T) {
	q := NewDefaultQuestion()
	q.SetType(TypeMultipleSelect)

	if len(q.CorrectAnswer) != 0 {
		t.Fatalf("switching to multi select must clear, got %v", q.CorrectAnswer)
	}

	q.ToggleCorrect("B")
	q.ToggleCorrect("D")
	if len(q.CorrectAnswer) != 2 {
		t.Fatalf("expected B and D, got %v", q.CorrectAnswer)
	}

	q.ToggleCorrect("B")
	if len(q.CorrectAnswer) != 1 || q.CorrectAnswer[0] != "D" {
		t.Fatalf("expected only D after untoggle, got %v", q.CorrectAnswer)
	}
}

func TestSetTypeAwayFromMultiCollapses(t *testing.T) {
	q := NewDefaultQuestion()
	q.SetType(TypeMultipleSelect)
	q.ToggleCorrect("C")
	q.ToggleCorrect("D")

	q.SetType(TypeMCQ)
	if len(q.CorrectAnswer) != 1 || q.CorrectAnswer[0] != "C" {
		t.Fatalf("expected collapse to first previous choice, got %v", q.CorrectAnswer)
	}
}

func TestSetTypeAwayWithNothingChosenDefaultsToA(t *testing.T) {
	q := NewDefaultQuestion()
	q.SetType(TypeMultipleSelect)

	q.SetType(TypeTrueFalse)
	if len(q.CorrectAnswer) != 1 || q.CorrectAnswer[0] != "A" {
		t.Fatalf("expected default A, got %v", q.CorrectAnswer)
	}
}

func TestSetTypeSameTypeIsNoop(t *testing.T) {
	q := NewDefaultQuestion()
	q.ToggleCorrect("B")

	q.SetType(TypeMCQ)
	if len(q.CorrectAnswer) != 1 || q.CorrectAnswer[0] != "B" {
		t.Fatalf("same-type switch must not reset, got %v", q.CorrectAnswer)
	}
}

func TestSetMarksCoercion(t *testing.T) {
	q := NewDefaultQuestion()

	q.SetMarks(5)
	if q.Marks != 5 {
		t.Fatalf("got %d", q.Marks)
	}
	q.SetMarks(0)
	if q.Marks != 1 {
		t.Fatalf("zero must coerce to 1, got %d", q.Marks)
	}
	q.SetMarks(-3)
	if q.Marks != 1 {
		t.Fatalf("negative must coerce to 1, got %d", q.Marks)
	}
}

func TestDraftStageTransitions(t *testing.T) {
	d := NewQuizDraft(1)

	if d.Stage != StageUpload {
		t.Fatalf("new draft must start at upload, got %s", d.Stage)
	}

	if err := d.Advance(); err != ErrNoQuestions {
		t.Fatalf("advancing an empty draft, got %v", err)
	}

	d.Questions = append(d.Questions, NewDefaultQuestion())
	if err := d.Advance(); err != nil {
		t.Fatalf("advance to review: %v", err)
	}
	if d.Stage != StageReview {
		t.Fatalf("got %s", d.Stage)
	}

	if err := d.Advance(); err != nil {
		t.Fatalf("advance to details: %v", err)
	}
	if err := d.Advance(); err != ErrAlreadyAtFinal {
		t.Fatalf("expected ErrAlreadyAtFinal, got %v", err)
	}

	if err := d.Back(); err != nil {
		t.Fatalf("back to review: %v", err)
	}
	if err := d.Back(); err != nil {
		t.Fatalf("back to upload: %v", err)
	}
	if err := d.Back(); err != ErrAlreadyAtUpload {
		t.Fatalf("expected ErrAlreadyAtUpload, got %v", err)
	}
}

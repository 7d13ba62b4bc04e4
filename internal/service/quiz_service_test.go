package service

import (
	"encoding/json"
	"testing"

	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"
)

type fakeQuizStore struct {
	quiz *model.Quiz
}

func (f *fakeQuizStore) Create(quiz *model.Quiz) error { return nil }

func (f *fakeQuizStore) FindByID(id uint) (*model.Quiz, error) {
	if f.quiz == nil || f.quiz.ID != id {
		return nil, util.ErrQuizNotFound
	}
	return f.quiz, nil
}

func (f *fakeQuizStore) ListVisible(userID uint, page, pageSize int) ([]model.Quiz, int64, error) {
	return nil, 0, nil
}

func (f *fakeQuizStore) Update(quiz *model.Quiz) error { return nil }

func (f *fakeQuizStore) Delete(id uint) error { return nil }

func (f *fakeQuizStore) ReplaceQuestions(quizID uint, questions []model.Question) error { return nil }

type fakeSubmissionStore struct {
	byQuiz map[uint][]model.QuizSubmission
}

func (f *fakeSubmissionStore) Create(submission *model.QuizSubmission) error { return nil }

func (f *fakeSubmissionStore) FindByID(id uint) (*model.QuizSubmission, error) {
	return nil, util.ErrSubmissionNotFound
}

func (f *fakeSubmissionStore) ListByStudent(studentID uint) ([]model.QuizSubmission, error) {
	return nil, nil
}

func (f *fakeSubmissionStore) ListByQuiz(quizID uint) ([]model.QuizSubmission, error) {
	return f.byQuiz[quizID], nil
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func gradableQuiz(t *testing.T) *model.Quiz {
	t.Helper()

	q1 := model.Question{
		QuestionText: "Capital of France?",
		QuestionType: model.TypeMCQ,
		Marks:        2,
		Options: mustJSON(t, []model.Option{
			{ID: "A", Text: "London"},
			{ID: "B", Text: "Paris", IsCorrect: true},
			{ID: "C", Text: "Berlin"},
		}),
		CorrectAnswer: mustJSON(t, []string{"B"}),
		Explanation:   "Paris has been the capital since 508.",
	}
	q1.ID = 1

	q2 := model.Question{
		QuestionText: "Which are primary colors?",
		QuestionType: model.TypeMultipleSelect,
		Marks:        3,
		Options: mustJSON(t, []model.Option{
			{ID: "A", Text: "Red", IsCorrect: true},
			{ID: "B", Text: "Green"},
			{ID: "C", Text: "Blue", IsCorrect: true},
			{ID: "D", Text: "Purple"},
		}),
		CorrectAnswer: mustJSON(t, []string{"A", "C"}),
	}
	q2.ID = 2

	q3 := model.Question{
		QuestionText:  "The sky is blue.",
		QuestionType:  model.TypeTrueFalse,
		Marks:         1,
		Options:       mustJSON(t, []model.Option{{ID: "A", Text: "True", IsCorrect: true}, {ID: "B", Text: "False"}}),
		CorrectAnswer: mustJSON(t, []string{"A"}),
	}
	q3.ID = 3

	quiz := &model.Quiz{
		Title:     "Mixed quiz",
		OwnerID:   1,
		IsPublic:  true,
		Questions: []model.Question{q1, q2, q3},
	}
	quiz.ID = 7
	return quiz
}

func TestGradeFullMarks(t *testing.T) {
	quiz := gradableQuiz(t)

	result, err := Grade(quiz, []model.QuestionResponse{
		{QuestionID: 1, SelectedOptions: []string{"B"}},
		{QuestionID: 2, SelectedOptions: []string{"C", "A"}},
		{QuestionID: 3, SelectedOptions: []string{"A"}},
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}

	if result.Score != 6 || result.TotalMarks != 6 {
		t.Fatalf("score %d/%d", result.Score, result.TotalMarks)
	}
	if result.Percentage != 100 {
		t.Fatalf("percentage %f", result.Percentage)
	}
	if result.CorrectAnswers != 3 || result.TotalQuestions != 3 {
		t.Fatalf("%d/%d correct", result.CorrectAnswers, result.TotalQuestions)
	}
}

func TestGradePartialOverlapEarnsNothing(t *testing.T) {
	quiz := gradableQuiz(t)

	// One of two correct options: set equality fails, zero marks.
	result, err := Grade(quiz, []model.QuestionResponse{
		{QuestionID: 2, SelectedOptions: []string{"A"}},
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}

	if result.Score != 0 {
		t.Fatalf("partial overlap scored %d", result.Score)
	}

	// A superset fails too.
	result, err = Grade(quiz, []model.QuestionResponse{
		{QuestionID: 2, SelectedOptions: []string{"A", "C", "D"}},
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if result.Score != 0 {
		t.Fatalf("superset scored %d", result.Score)
	}
}

func TestGradeUnanswered(t *testing.T) {
	quiz := gradableQuiz(t)

	result, err := Grade(quiz, nil)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}

	if result.Score != 0 || result.TotalMarks != 6 {
		t.Fatalf("score %d/%d", result.Score, result.TotalMarks)
	}
	if result.Percentage != 0 {
		t.Fatalf("percentage %f", result.Percentage)
	}
	if len(result.DetailedResults) != 3 {
		t.Fatalf("every question appears in the breakdown, got %d", len(result.DetailedResults))
	}
}

func TestGradeDetailedResults(t *testing.T) {
	quiz := gradableQuiz(t)

	result, err := Grade(quiz, []model.QuestionResponse{
		{QuestionID: 1, SelectedOptions: []string{"A"}},
		{QuestionID: 3, SelectedOptions: []string{"A"}},
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}

	first := result.DetailedResults[0]
	if first.IsCorrect || first.MarksAwarded != 0 {
		t.Fatalf("wrong answer marked correct: %+v", first)
	}
	if len(first.CorrectOptions) != 1 || first.CorrectOptions[0] != "B" {
		t.Fatalf("correct options: %v", first.CorrectOptions)
	}
	if first.Explanation == "" {
		t.Fatal("explanation must be included in results")
	}

	third := result.DetailedResults[2]
	if !third.IsCorrect || third.MarksAwarded != 1 {
		t.Fatalf("right answer not awarded: %+v", third)
	}

	if result.Score != 1 || result.Percentage < 16 || result.Percentage > 17 {
		t.Fatalf("score %d percentage %f", result.Score, result.Percentage)
	}
}

func TestListQuizSubmissionsOwnerOnly(t *testing.T) {
	quiz := gradableQuiz(t)
	submissions := &fakeSubmissionStore{byQuiz: map[uint][]model.QuizSubmission{
		quiz.ID: {{QuizID: quiz.ID, StudentID: 42, Score: 6}, {QuizID: quiz.ID, StudentID: 43, Score: 2}},
	}}
	svc := NewQuizService(&fakeQuizStore{quiz: quiz}, submissions)

	got, err := svc.ListQuizSubmissions(quiz.ID, quiz.OwnerID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d submissions", len(got))
	}

	if _, err := svc.ListQuizSubmissions(quiz.ID, 42, false); err != util.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	// Admins may review any quiz.
	if _, err := svc.ListQuizSubmissions(quiz.ID, 42, true); err != nil {
		t.Fatalf("admin list: %v", err)
	}

	if _, err := svc.ListQuizSubmissions(999, quiz.OwnerID, false); err != util.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestBuildQuestionNormalizes(t *testing.T) {
	in := QuestionInput{
		QuestionText: "Pick one",
		Options: []model.Option{
			{ID: "X", Text: "first"},
			{ID: "Y", Text: "second"},
		},
		CorrectAnswer: []string{"B"},
		Marks:         0,
	}

	q, err := buildQuestion(in, 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if q.QuestionType != model.TypeMCQ {
		t.Fatalf("missing type must default to mcq, got %s", q.QuestionType)
	}
	if q.Marks != 1 {
		t.Fatalf("zero marks must coerce to 1, got %d", q.Marks)
	}
	if q.Order != 3 {
		t.Fatalf("order %d", q.Order)
	}

	var opts []model.Option
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		t.Fatalf("unmarshal options: %v", err)
	}
	if opts[0].ID != "A" || opts[1].ID != "B" {
		t.Fatalf("ids must be positional letters: %+v", opts)
	}
	if !opts[1].IsCorrect {
		t.Fatal("correct_answer list must set the flags")
	}

	var correct []string
	if err := json.Unmarshal(q.CorrectAnswer, &correct); err != nil {
		t.Fatalf("unmarshal correct: %v", err)
	}
	if len(correct) != 1 || correct[0] != "B" {
		t.Fatalf("got %v", correct)
	}
}

func TestBuildQuestionOptionBounds(t *testing.T) {
	in := QuestionInput{
		QuestionText: "Too few",
		Options:      []model.Option{{ID: "A", Text: "only"}},
	}
	if _, err := buildQuestion(in, 0); err != model.ErrTooFewOptions {
		t.Fatalf("expected ErrTooFewOptions, got %v", err)
	}

	opts := make([]model.Option, 7)
	for i := range opts {
		opts[i] = model.Option{ID: model.OptionLetter(i), Text: "x"}
	}
	in = QuestionInput{QuestionText: "Too many", Options: opts}
	if _, err := buildQuestion(in, 0); err != model.ErrTooManyOptions {
		t.Fatalf("expected ErrTooManyOptions, got %v", err)
	}
}

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"snapquizzer_backend/internal/config"
	"snapquizzer_backend/internal/util"
)

const sampleOCRText = `
1. What is the capital of France?
A. London
B. Paris
C. Berlin
D. Madrid

2. Which planet is known as the red planet?
(1) Venus
(2) Mars
`

func TestParseQuestions(t *testing.T) {
	questions := ParseQuestions(sampleOCRText)

	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}

	first := questions[0]
	if first.QuestionText != "What is the capital of France?" {
		t.Fatalf("got %q", first.QuestionText)
	}
	if len(first.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(first.Options))
	}
	if first.Options[1].ID != "B" || first.Options[1].Text != "Paris" {
		t.Fatalf("option B wrong: %+v", first.Options[1])
	}

	// Numeric labels map onto letters.
	second := questions[1]
	if len(second.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(second.Options))
	}
	if second.Options[0].ID != "A" || second.Options[0].Text != "Venus" {
		t.Fatalf("numeric label not mapped: %+v", second.Options[0])
	}
	if second.Options[1].ID != "B" || second.Options[1].Text != "Mars" {
		t.Fatalf("numeric label not mapped: %+v", second.Options[1])
	}
}

func TestParseQuestionsRequiresTwoOptions(t *testing.T) {
	text := `
1. A question with a single option is noise
A. only choice
`
	if got := ParseQuestions(text); len(got) != 0 {
		t.Fatalf("expected nothing, got %d questions", len(got))
	}
}

func TestParseQuestionsQPrefix(t *testing.T) {
	text := `
Q1. Is water wet?
A) Yes
B) No
`
	questions := ParseQuestions(text)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].QuestionText != "Is water wet?" {
		t.Fatalf("got %q", questions[0].QuestionText)
	}
}

func TestParseQuestionsContinuationLines(t *testing.T) {
	text := `
1. This question has a long stem that spills
over onto a second unlabeled line of text here
A. first
B. second
`
	questions := ParseQuestions(text)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if !strings.Contains(questions[0].QuestionText, "second unlabeled line") {
		t.Fatalf("continuation not appended: %q", questions[0].QuestionText)
	}
}

func TestDecodeExtractionResultCanonical(t *testing.T) {
	payload := `{"success":true,"raw_text":"1. q\nA. x\nB. y","detected_questions":[{"question_text":"q","options":[{"id":"A","text":"x","is_correct":false},{"id":"B","text":"y","is_correct":false}]}]}`

	result, err := DecodeExtractionResult([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Success || len(result.DetectedQuestions) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestDecodeExtractionResultRejectsBareList(t *testing.T) {
	payload := `[{"question_text":"q","options":[]}]`

	if _, err := DecodeExtractionResult([]byte(payload)); err != ErrLegacyListShape {
		t.Fatalf("expected ErrLegacyListShape, got %v", err)
	}
}

func TestDecodeExtractionResultRejectsEnvelope(t *testing.T) {
	payload := `{"data":{"success":true,"raw_text":"x","detected_questions":[]}}`

	if _, err := DecodeExtractionResult([]byte(payload)); err != ErrLegacyEnvelope {
		t.Fatalf("expected ErrLegacyEnvelope, got %v", err)
	}
}

func TestDecodeExtractionResultMissingFields(t *testing.T) {
	if _, err := DecodeExtractionResult([]byte(`{"success":true,"detected_questions":[]}`)); err != ErrMissingRawText {
		t.Fatalf("expected ErrMissingRawText, got %v", err)
	}
	if _, err := DecodeExtractionResult([]byte(`{"success":true,"raw_text":"x"}`)); err != ErrMissingQuestions {
		t.Fatalf("expected ErrMissingQuestions, got %v", err)
	}
}

func TestDecodeExtractionResultMalformed(t *testing.T) {
	if _, err := DecodeExtractionResult([]byte(`{"raw_text": `)); !errors.Is(err, ErrMalformedResult) {
		t.Fatalf("expected ErrMalformedResult, got %v", err)
	}
}

func TestDetectedQuestionToDraftQuestion(t *testing.T) {
	questions := ParseQuestions(sampleOCRText)
	dq := questions[1].ToDraftQuestion()

	if dq.Marks != 1 {
		t.Fatalf("default marks: %d", dq.Marks)
	}
	if !dq.AIGenerated {
		t.Fatal("extracted questions must be flagged")
	}
	// Nothing is marked correct by the scanner; single-select repair flags
	// the first option so the draft invariant holds.
	if len(dq.CorrectAnswer) != 1 || dq.CorrectAnswer[0] != "A" {
		t.Fatalf("got %v", dq.CorrectAnswer)
	}
}

type fakeStorage struct {
	objects []string
	fail    bool
}

func (f *fakeStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if f.fail {
		return "", errors.New("storage down")
	}
	f.objects = append(f.objects, objectName)
	return objectName, nil
}

// pngPayload is a data-URL wrapping the PNG signature, enough for content
// type sniffing.
func pngPayload() string {
	sig := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(sig)
}

func testExtractionService(storage StorageProvider, ocr OCRFunc) *ExtractionService {
	cfg := &config.Config{}
	cfg.OCR.MaxImageBytes = 1024
	s := NewExtractionService(cfg, storage)
	s.ocr = ocr
	return s
}

func TestProcessImage(t *testing.T) {
	storage := &fakeStorage{}
	s := testExtractionService(storage, func(ctx context.Context, image []byte) (string, error) {
		return sampleOCRText, nil
	})

	result, err := s.ProcessImage(context.Background(), 9, pngPayload())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	if result.RawText != sampleOCRText {
		t.Fatal("raw text must be passed through")
	}
	if len(result.DetectedQuestions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(result.DetectedQuestions))
	}
	if len(storage.objects) != 1 || !strings.HasPrefix(storage.objects[0], "uploads/9/") {
		t.Fatalf("upload not archived: %v", storage.objects)
	}
}

func TestProcessImageEmptyText(t *testing.T) {
	s := testExtractionService(&fakeStorage{}, func(ctx context.Context, image []byte) (string, error) {
		return "   \n ", nil
	})

	if _, err := s.ProcessImage(context.Background(), 1, pngPayload()); err != util.ErrNoTextExtracted {
		t.Fatalf("expected ErrNoTextExtracted, got %v", err)
	}
}

func TestProcessImageRejectsNonImage(t *testing.T) {
	s := testExtractionService(&fakeStorage{}, nil)
	payload := base64.StdEncoding.EncodeToString([]byte("just some plain text, definitely not pixels"))

	if _, err := s.ProcessImage(context.Background(), 1, payload); err != ErrNotAnImage {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}
}

func TestProcessImageRejectsOversized(t *testing.T) {
	storage := &fakeStorage{}
	s := testExtractionService(storage, nil)
	s.cfg.OCR.MaxImageBytes = 4

	if _, err := s.ProcessImage(context.Background(), 1, pngPayload()); err != ErrImageTooLarge {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestProcessImageRejectsBadBase64(t *testing.T) {
	s := testExtractionService(&fakeStorage{}, nil)

	if _, err := s.ProcessImage(context.Background(), 1, "!!! not base64 !!!"); err != ErrInvalidBase64 {
		t.Fatalf("expected ErrInvalidBase64, got %v", err)
	}
}

func TestProcessImageArchiveFailureIsSwallowed(t *testing.T) {
	s := testExtractionService(&fakeStorage{fail: true}, func(ctx context.Context, image []byte) (string, error) {
		return sampleOCRText, nil
	})

	if _, err := s.ProcessImage(context.Background(), 1, pngPayload()); err != nil {
		t.Fatalf("archive failure must not fail extraction: %v", err)
	}
}

func TestProcessBatch(t *testing.T) {
	calls := 0
	s := testExtractionService(&fakeStorage{}, func(ctx context.Context, image []byte) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("tesseract crashed")
		}
		return sampleOCRText, nil
	})

	batch, err := s.ProcessBatch(context.Background(), 1, []string{pngPayload(), pngPayload()})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	if !batch.Success {
		t.Fatal("batch itself succeeds")
	}
	if len(batch.Results) != 2 {
		t.Fatalf("got %d results", len(batch.Results))
	}
	if !batch.Results[0].Success || batch.Results[1].Success {
		t.Fatalf("per-file outcomes wrong: %+v", batch.Results)
	}
	if batch.Results[1].Error == "" {
		t.Fatal("failed file must carry its error")
	}
	if batch.TotalQuestions != 2 {
		t.Fatalf("expected 2+0 questions, got %d", batch.TotalQuestions)
	}
}

func TestProcessBatchNoQuestionsFails(t *testing.T) {
	s := testExtractionService(&fakeStorage{}, func(ctx context.Context, image []byte) (string, error) {
		return "an unlabeled ramble of text with no option lines at all", nil
	})

	batch, err := s.ProcessBatch(context.Background(), 1, []string{pngPayload(), pngPayload()})
	if err != util.ErrNoQuestionsDetected {
		t.Fatalf("expected ErrNoQuestionsDetected, got %v", err)
	}
	if batch == nil || batch.Success {
		t.Fatalf("batch must be marked failed: %+v", batch)
	}
	if batch.TotalQuestions != 0 {
		t.Fatalf("got %d questions", batch.TotalQuestions)
	}
}

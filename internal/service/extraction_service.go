package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"snapquizzer_backend/internal/config"
	"snapquizzer_backend/internal/model"
	"snapquizzer_backend/internal/util"
	"snapquizzer_backend/pkg/logger"
	"snapquizzer_backend/pkg/monitoring"

	"go.uber.org/zap"
)

var (
	ErrImageTooLarge    = errors.New("image exceeds the maximum allowed size")
	ErrNotAnImage       = errors.New("uploaded data is not a supported image")
	ErrInvalidBase64    = errors.New("image data is not valid base64")
	ErrLegacyListShape  = errors.New("bare question list is not a valid extraction result")
	ErrLegacyEnvelope   = errors.New("wrapped envelope is not a valid extraction result")
	ErrMalformedResult  = errors.New("extraction result is not valid json")
	ErrMissingRawText   = errors.New("extraction result is missing raw_text")
	ErrMissingQuestions = errors.New("extraction result is missing detected_questions")
)

// DetectedQuestion is one question found in a scanned image. Correctness
// is always false at this point; the author marks answers in the editor.
type DetectedQuestion struct {
	QuestionText string         `json:"question_text"`
	Options      []model.Option `json:"options"`
}

// ExtractionResult is the single wire shape for an extraction run. Earlier
// revisions emitted a bare question list or a wrapped envelope; both are
// rejected by DecodeExtractionResult so clients never have to sniff.
type ExtractionResult struct {
	Success           bool               `json:"success"`
	RawText           string             `json:"raw_text"`
	DetectedQuestions []DetectedQuestion `json:"detected_questions"`
}

// DecodeExtractionResult parses and validates an extraction payload,
// failing loudly on the legacy shapes.
func DecodeExtractionResult(data []byte) (*ExtractionResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, ErrLegacyListShape
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	if _, wrapped := probe["data"]; wrapped {
		if _, ok := probe["raw_text"]; !ok {
			return nil, ErrLegacyEnvelope
		}
	}
	if _, ok := probe["raw_text"]; !ok {
		return nil, ErrMissingRawText
	}
	if _, ok := probe["detected_questions"]; !ok {
		return nil, ErrMissingQuestions
	}

	var result ExtractionResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	return &result, nil
}

var (
	// Matches option lines: "A.", "A)", "(a)", "[a]", "1.", "1)".
	optionPattern = regexp.MustCompile(`^[\(\[]?([a-eA-E]|[1-4])[\.\)\]]\s+(.*)`)

	// Matches question starts: "1.", "1)", "Q1.", "Q.", "108.".
	questionStartPattern = regexp.MustCompile(`^(\d+|Q\d*|Q\.)[\.\)\s]+(.*)`)

	numericOptionLabels = map[string]string{"1": "A", "2": "B", "3": "C", "4": "D"}
)

// ParseQuestions converts an OCR text block into detected questions.
// A question is emitted once it has gathered at least two options, and is
// force-closed at four so a following unlabeled line starts the next one.
func ParseQuestions(text string) []DetectedQuestion {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}

	var questions []DetectedQuestion
	current := DetectedQuestion{}

	flush := func() {
		if current.QuestionText != "" && len(current.Options) >= 2 {
			questions = append(questions, current)
		}
		current = DetectedQuestion{}
	}

	for _, line := range lines {
		if m := optionPattern.FindStringSubmatch(line); m != nil && current.QuestionText != "" {
			label := strings.ToUpper(m[1])
			if mapped, ok := numericOptionLabels[label]; ok {
				label = mapped
			}
			current.Options = append(current.Options, model.Option{
				ID:   label,
				Text: strings.TrimSpace(m[2]),
			})

			// Four options strongly suggests the question is complete.
			if len(current.Options) >= 4 {
				flush()
			}
			continue
		}

		qm := questionStartPattern.FindStringSubmatch(line)
		isStart := qm != nil
		isContinuation := len(line) > 15 && len(current.Options) == 0

		if isStart || isContinuation {
			if current.QuestionText != "" && len(current.Options) >= 2 {
				flush()
			}

			if isStart {
				clean := strings.TrimSpace(qm[2])
				if current.QuestionText == "" || len(current.Options) > 0 {
					current = DetectedQuestion{QuestionText: clean}
				} else {
					// A stray "1999." inside running text is part of the
					// question, not a new one.
					current.QuestionText += " " + line
				}
			} else {
				if current.QuestionText != "" {
					current.QuestionText += " " + line
				} else {
					current.QuestionText = line
				}
			}
		}
	}

	flush()
	return questions
}

// ToDraftQuestion fills in editor defaults: mcq type, one mark, nothing
// marked correct yet, positional ids.
func (d DetectedQuestion) ToDraftQuestion() model.DraftQuestion {
	q := model.DraftQuestion{
		QuestionText: d.QuestionText,
		QuestionType: model.TypeMCQ,
		Options:      d.Options,
		Marks:        1,
		AIGenerated:  true,
	}
	q.Normalize()
	return q
}

// OCRFunc recognizes text in an image. Swapped for a fake in tests.
type OCRFunc func(ctx context.Context, image []byte) (string, error)

type ExtractionService struct {
	cfg     *config.Config
	storage StorageProvider
	ocr     OCRFunc
}

func NewExtractionService(cfg *config.Config, storage StorageProvider) *ExtractionService {
	s := &ExtractionService{cfg: cfg, storage: storage}
	s.ocr = func(ctx context.Context, image []byte) (string, error) {
		return util.RunTesseract(ctx, cfg.OCR.Command, cfg.OCR.Languages, cfg.OCR.PSM, image)
	}
	return s
}

// decodeImage strips a data-URL prefix, base64-decodes, and validates size
// and content type.
func (s *ExtractionService) decodeImage(imageData string) ([]byte, string, error) {
	if idx := strings.Index(imageData, "base64,"); idx >= 0 {
		imageData = imageData[idx+len("base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, "", ErrInvalidBase64
	}

	if int64(len(raw)) > s.cfg.OCR.MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}

	contentType := http.DetectContentType(raw)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", ErrNotAnImage
	}
	return raw, contentType, nil
}

// ProcessImage runs the full pipeline on one upload: decode, OCR, parse,
// archive. OCR producing no text is a client-visible failure.
func (s *ExtractionService) ProcessImage(ctx context.Context, userID uint, imageData string) (*ExtractionResult, error) {
	raw, contentType, err := s.decodeImage(imageData)
	if err != nil {
		monitoring.ExtractionCounter.WithLabelValues("rejected").Inc()
		return nil, err
	}

	text, err := s.ocr(ctx, raw)
	if err != nil {
		monitoring.ExtractionCounter.WithLabelValues("ocr_error").Inc()
		logger.Log.Error("OCR failed", zap.Error(err), zap.Uint("user_id", userID))
		return nil, util.ErrNoTextExtracted
	}
	if strings.TrimSpace(text) == "" {
		monitoring.ExtractionCounter.WithLabelValues("empty").Inc()
		return nil, util.ErrNoTextExtracted
	}

	questions := ParseQuestions(text)
	s.archive(ctx, userID, raw, contentType)

	monitoring.ExtractionCounter.WithLabelValues("success").Inc()
	logger.Log.Info("Image processed",
		zap.Uint("user_id", userID),
		zap.Int("detected_questions", len(questions)),
		zap.Int("image_bytes", len(raw)))

	if questions == nil {
		questions = []DetectedQuestion{}
	}
	return &ExtractionResult{
		Success:           true,
		RawText:           text,
		DetectedQuestions: questions,
	}, nil
}

// archive keeps the original upload for later review. Failure to archive
// never fails the extraction.
func (s *ExtractionService) archive(ctx context.Context, userID uint, raw []byte, contentType string) {
	ext := "bin"
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/jpeg":
		ext = "jpg"
	case "image/gif":
		ext = "gif"
	case "image/webp":
		ext = "webp"
	}
	objectName := fmt.Sprintf("uploads/%d/%s.%s", userID, model.GenerateUUID(), ext)

	if _, err := s.storage.Upload(ctx, objectName, bytes.NewReader(raw), int64(len(raw)), contentType); err != nil {
		logger.Log.Warn("Failed to archive upload", zap.Error(err), zap.String("object", objectName))
	}
}

// FileResult is one entry of a batch run.
type FileResult struct {
	Success           bool               `json:"success"`
	Error             string             `json:"error,omitempty"`
	RawText           string             `json:"raw_text,omitempty"`
	DetectedQuestions []DetectedQuestion `json:"detected_questions"`
}

// BatchResult aggregates a multi-image run. TotalQuestions is the sum over
// files; a failed file contributes zero but does not fail the batch.
type BatchResult struct {
	Success        bool         `json:"success"`
	Results        []FileResult `json:"results"`
	TotalQuestions int          `json:"total_questions"`
}

// ProcessBatch runs the pipeline over each image in order. Per-file
// failures are recorded in place so one bad scan never loses the rest,
// but a run where no file yields a question fails as a whole.
func (s *ExtractionService) ProcessBatch(ctx context.Context, userID uint, images []string) (*BatchResult, error) {
	batch := &BatchResult{Results: make([]FileResult, 0, len(images))}

	for _, imageData := range images {
		result, err := s.ProcessImage(ctx, userID, imageData)
		if err != nil {
			batch.Results = append(batch.Results, FileResult{
				Success:           false,
				Error:             err.Error(),
				DetectedQuestions: []DetectedQuestion{},
			})
			continue
		}
		batch.Results = append(batch.Results, FileResult{
			Success:           true,
			RawText:           result.RawText,
			DetectedQuestions: result.DetectedQuestions,
		})
		batch.TotalQuestions += len(result.DetectedQuestions)
	}

	if batch.TotalQuestions == 0 {
		return batch, util.ErrNoQuestionsDetected
	}
	batch.Success = true
	return batch, nil
}

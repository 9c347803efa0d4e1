package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ktsuchiya/globalmatch-api/internal/batch"
	"github.com/ktsuchiya/globalmatch-api/internal/config"
	"github.com/ktsuchiya/globalmatch-api/internal/extractor"
	"github.com/ktsuchiya/globalmatch-api/internal/models"
	"github.com/ktsuchiya/globalmatch-api/internal/prompt"
	"github.com/ktsuchiya/globalmatch-api/internal/storage"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
	"github.com/ktsuchiya/globalmatch-api/internal/validator"
)

// Completer is the completion client the service dispatches prompts to.
type Completer interface {
	Complete(ctx context.Context, credential, prompt string) (string, error)
}

// AssistantService runs the document transformations behind the user
// actions: single transforms, batch runs and upload extraction.
type AssistantService interface {
	Transform(ctx context.Context, credential string, req *models.TransformRequest) (*models.TransformResponse, error)
	RunBatch(ctx context.Context, credential string, req *models.BatchRequest) (*models.BatchResponse, error)
	ExtractDocument(ctx context.Context, filename, contentType string, data []byte) (*models.ExtractResponse, error)
}

type assistantService struct {
	completer Completer
	runner    *batch.Runner
	storage   storage.Storage // nil when archival is not configured
	cfg       *config.Config
	logger    *utils.Logger
}

func NewAssistantService(completer Completer, runner *batch.Runner, store storage.Storage, cfg *config.Config, logger *utils.Logger) AssistantService {
	return &assistantService{
		completer: completer,
		runner:    runner,
		storage:   store,
		cfg:       cfg,
		logger:    logger,
	}
}

// Transform validates the input, builds the prompt for the requested kind
// and calls the completion endpoint.
func (s *assistantService) Transform(ctx context.Context, credential string, req *models.TransformRequest) (*models.TransformResponse, error) {
	var instruction string

	switch req.Kind {
	case models.DocKindResume:
		if err := validator.Validate(req.Text, models.DocKindResume); err != nil {
			return nil, err
		}
		instruction = prompt.ResumeOptimization(strings.TrimSpace(req.Text), req.Anonymization)

	case models.DocKindJobPosting:
		if err := validator.Validate(req.Text, models.DocKindJobPosting); err != nil {
			return nil, err
		}
		instruction = prompt.JobPostingTransformation(strings.TrimSpace(req.Text))

	case models.DocKindMatch:
		// Paired analysis: both texts get length checks only.
		if err := validator.Validate(req.Text, models.DocKindMatch); err != nil {
			return nil, err
		}
		if err := validator.Validate(req.SecondaryText, models.DocKindMatch); err != nil {
			return nil, err
		}
		instruction = prompt.MatchAnalysis(strings.TrimSpace(req.Text), strings.TrimSpace(req.SecondaryText))

	default:
		return nil, utils.NewBadRequestError(fmt.Sprintf("unsupported transformation kind %q", req.Kind))
	}

	start := time.Now()
	output, err := s.completer.Complete(ctx, credential, instruction)
	if err != nil {
		return nil, err
	}

	s.logger.Info("transform completed",
		"kind", string(req.Kind),
		"input_length", len(req.Text),
		"output_length", len(output),
		"elapsed_ms", time.Since(start).Milliseconds())

	return &models.TransformResponse{
		Kind:      req.Kind,
		Output:    output,
		ElapsedMS: time.Since(start).Milliseconds(),
		CreatedAt: time.Now(),
	}, nil
}

// RunBatch splits the raw input and runs the batch orchestrator.
func (s *assistantService) RunBatch(ctx context.Context, credential string, req *models.BatchRequest) (*models.BatchResponse, error) {
	items := batch.Split(req.Input)

	results, err := s.runner.Run(ctx, credential, items, req.Anonymization)
	if err != nil {
		return nil, err
	}

	resp := &models.BatchResponse{Items: results}
	for _, item := range results {
		if item.Status == models.BatchStatusSuccess {
			resp.SuccessCount++
		} else {
			resp.ErrorCount++
		}
	}
	return resp, nil
}

// ExtractDocument pulls text from an uploaded file and archives the
// original if object storage is configured. Archival failure degrades to
// "not archived", never to a failed extraction.
func (s *assistantService) ExtractDocument(ctx context.Context, filename, contentType string, data []byte) (*models.ExtractResponse, error) {
	var text string
	var err error

	switch {
	case contentType == "application/pdf":
		text, err = extractor.ExtractPDF(data, s.cfg.MaxPDFPages)
	case isDOCXContentType(contentType):
		text, err = extractor.ExtractDOCX(data)
	case strings.HasPrefix(contentType, "text/"):
		text, err = extractor.ExtractTXT(data)
	default:
		return nil, utils.NewBadRequestError(fmt.Sprintf("unsupported file type %q, only PDF, DOCX and TXT are allowed", contentType))
	}
	if err != nil {
		return nil, err
	}

	id := utils.GenerateID()
	archived := false
	if s.storage != nil {
		key := fmt.Sprintf("uploads/%s/%s", id, filepath.Base(filename))
		if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
			s.logger.Warn("failed to archive upload", "error", err, "key", key)
		} else {
			archived = true
		}
	}

	s.logger.Info("document extracted",
		"id", id,
		"filename", filename,
		"content_type", contentType,
		"text_length", len(text))

	return &models.ExtractResponse{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Text:        text,
		CharCount:   len([]rune(text)),
		Archived:    archived,
	}, nil
}

// isDOCXContentType covers the MIME variants browsers send for DOCX.
func isDOCXContentType(contentType string) bool {
	docxTypes := []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.wordprocessingml",
		"application/docx",
		"application/x-docx",
	}
	for _, t := range docxTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

// Package batch runs resume optimization over a list of documents,
// sequentially, with per-item failure isolation and a fixed inter-item
// delay as a self-imposed rate limit.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
	"github.com/ktsuchiya/globalmatch-api/internal/prompt"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
	"github.com/ktsuchiya/globalmatch-api/internal/validator"
)

const (
	// Delimiter separates documents in the raw batch input.
	Delimiter = "---NEXT---"

	// MaxItems caps one batch run. A policy limit bounding cost and call
	// volume, not a technical one.
	MaxItems = 10

	interItemDelay = 1 * time.Second
)

var (
	ErrNoItems      = errors.New("no documents detected in batch input")
	ErrTooManyItems = fmt.Errorf("batch exceeds the maximum of %d documents", MaxItems)
)

// Completer is the completion client the runner dispatches to.
type Completer interface {
	Complete(ctx context.Context, credential, prompt string) (string, error)
}

// Split breaks raw batch input into trimmed, non-empty documents.
func Split(raw string) []string {
	var items []string
	for _, piece := range strings.Split(raw, Delimiter) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			items = append(items, piece)
		}
	}
	return items
}

// Runner applies Validator -> Prompt Builder -> Completer to each item.
type Runner struct {
	completer Completer
	sleep     func(time.Duration)
	logger    *utils.Logger
}

func NewRunner(completer Completer, logger *utils.Logger) *Runner {
	return &Runner{
		completer: completer,
		sleep:     time.Sleep,
		logger:    logger,
	}
}

// NewRunnerWithSleep injects the inter-item sleep. Used by tests.
func NewRunnerWithSleep(completer Completer, logger *utils.Logger, sleep func(time.Duration)) *Runner {
	r := NewRunner(completer, logger)
	r.sleep = sleep
	return r
}

// Run processes items strictly in input order. A later item's failure never
// affects earlier results. The size limits are checked before any call is
// issued.
func (r *Runner) Run(ctx context.Context, credential string, items []string, level models.AnonymizationLevel) ([]models.BatchItem, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if len(items) > MaxItems {
		return nil, ErrTooManyItems
	}

	results := make([]models.BatchItem, 0, len(items))
	for i, text := range items {
		item := models.BatchItem{Index: i + 1, Status: models.BatchStatusPending}

		if err := validator.Validate(text, models.DocKindResume); err != nil {
			item.Status = models.BatchStatusError
			item.Error = err.Error()
		} else {
			start := time.Now()
			output, err := r.completer.Complete(ctx, credential, prompt.ResumeOptimization(text, level))
			item.ElapsedMS = time.Since(start).Milliseconds()
			if err != nil {
				item.Status = models.BatchStatusError
				item.Error = err.Error()
			} else {
				item.Status = models.BatchStatusSuccess
				item.Output = output
			}
		}

		r.logger.Info("batch item processed",
			"index", item.Index,
			"status", string(item.Status),
			"elapsed_ms", item.ElapsedMS)
		results = append(results, item)

		r.sleep(interItemDelay)
	}

	return results, nil
}

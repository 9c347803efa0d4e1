// Package completion wraps a hosted chat-completion endpoint behind a
// bounded retry loop. Credential errors fail immediately; throttling,
// timeouts and transient failures are retried with differentiated backoff.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

const (
	DefaultMaxRetries     = 3
	DefaultAttemptTimeout = 60 * time.Second
	DefaultMaxTokens      = 4096
)

type ErrorKind string

const (
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindRateLimited       ErrorKind = "rate_limited"
	KindTimedOut          ErrorKind = "timed_out"
	KindOther             ErrorKind = "other"
)

// CallError is the final outcome of a failed completion call, after the
// retry budget is exhausted (or immediately for credential failures).
type CallError struct {
	Kind     ErrorKind
	Message  string
	Attempts int
}

func (e *CallError) Error() string {
	switch e.Kind {
	case KindInvalidCredential:
		return "invalid API credential"
	case KindRateLimited:
		return "rate limit reached, please retry later"
	case KindTimedOut:
		return "completion request timed out"
	}
	return fmt.Sprintf("completion failed after %d attempts: %s", e.Attempts, e.Message)
}

// Backend issues a single completion attempt.
type Backend interface {
	Complete(ctx context.Context, credential, prompt string) (string, error)
}

// Client retries a Backend according to the failure class of each attempt.
type Client struct {
	backend    Backend
	maxRetries int
	sleep      func(time.Duration)
	logger     *utils.Logger
}

type Option func(*Client)

// WithMaxRetries overrides the total attempt budget.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithSleep replaces the inter-attempt sleep. Used by tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) { c.sleep = sleep }
}

func NewClient(backend Backend, logger *utils.Logger, opts ...Option) *Client {
	c := &Client{
		backend:    backend,
		maxRetries: DefaultMaxRetries,
		sleep:      time.Sleep,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends the prompt and returns generated text. At most maxRetries
// attempts are issued, sequentially; the only side effect besides the
// network call is the blocking sleep between attempts.
func (c *Client) Complete(ctx context.Context, credential, prompt string) (string, error) {
	var lastErr error
	lastKind := KindOther

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		text, err := c.backend.Complete(ctx, credential, prompt)
		if err == nil {
			return text, nil
		}

		lastErr = err
		lastKind = Classify(err)
		c.logger.Warn("completion attempt failed",
			"attempt", attempt+1,
			"kind", string(lastKind),
			"error", truncate(err.Error(), 100))

		switch lastKind {
		case KindInvalidCredential:
			// Fatal: retrying an invalid credential cannot succeed.
			return "", &CallError{Kind: KindInvalidCredential, Message: truncate(err.Error(), 100), Attempts: attempt + 1}
		case KindRateLimited:
			if attempt < c.maxRetries-1 {
				c.sleep(time.Duration(attempt+1) * 5 * time.Second)
			}
		case KindTimedOut:
			// Retry immediately.
		default:
			if attempt < c.maxRetries-1 {
				c.sleep(2 * time.Second)
			}
		}
	}

	return "", &CallError{Kind: lastKind, Message: truncate(lastErr.Error(), 100), Attempts: c.maxRetries}
}

// Classify maps an attempt error onto the four-way retry taxonomy. Typed
// API errors are inspected first; the message-substring fallback covers
// gateways that only surface text.
func Classify(err error) ErrorKind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return KindInvalidCredential
		case 429:
			return KindRateLimited
		case 408, 504:
			return KindTimedOut
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimedOut
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimedOut
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid api key"), strings.Contains(msg, "authentication"):
		return KindInvalidCredential
	case strings.Contains(msg, "rate limit"):
		return KindRateLimited
	case strings.Contains(msg, "timed out"), strings.Contains(msg, "timeout"):
		return KindTimedOut
	}
	return KindOther
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

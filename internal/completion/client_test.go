package completion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

// scriptedBackend fails with the scripted errors in order, then succeeds.
type scriptedBackend struct {
	errs  []error
	text  string
	calls int
}

func (b *scriptedBackend) Complete(_ context.Context, _, _ string) (string, error) {
	i := b.calls
	b.calls++
	if i < len(b.errs) && b.errs[i] != nil {
		return "", b.errs[i]
	}
	return b.text, nil
}

func newTestClient(backend Backend, sleeps *[]time.Duration) *Client {
	return NewClient(backend, utils.NewLogger("error"),
		WithSleep(func(d time.Duration) { *sleeps = append(*sleeps, d) }))
}

func TestComplete_Success(t *testing.T) {
	backend := &scriptedBackend{text: "generated"}
	var sleeps []time.Duration
	client := newTestClient(backend, &sleeps)

	text, err := client.Complete(context.Background(), "key", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "generated", text)
	assert.Equal(t, 1, backend.calls)
	assert.Empty(t, sleeps)
}

func TestComplete_InvalidCredentialIsFatal(t *testing.T) {
	backend := &scriptedBackend{errs: []error{
		errors.New("authentication failed"),
		errors.New("authentication failed"),
	}}
	var sleeps []time.Duration
	client := newTestClient(backend, &sleeps)

	_, err := client.Complete(context.Background(), "key", "prompt")

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, KindInvalidCredential, callErr.Kind)
	assert.Equal(t, 1, backend.calls, "credential errors must not be retried")
	assert.Empty(t, sleeps)
}

func TestComplete_RateLimitBackoffSchedule(t *testing.T) {
	backend := &scriptedBackend{errs: []error{
		errors.New("rate limit exceeded"),
		errors.New("rate limit exceeded"),
		errors.New("rate limit exceeded"),
	}}
	var sleeps []time.Duration
	client := newTestClient(backend, &sleeps)

	_, err := client.Complete(context.Background(), "key", "prompt")

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, KindRateLimited, callErr.Kind)
	assert.Equal(t, 3, backend.calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, sleeps)
}

func TestComplete_TimeoutRetriesWithoutBackoff(t *testing.T) {
	backend := &scriptedBackend{errs: []error{
		errors.New("request timed out"),
		errors.New("request timed out"),
		errors.New("request timed out"),
	}}
	var sleeps []time.Duration
	client := newTestClient(backend, &sleeps)

	_, err := client.Complete(context.Background(), "key", "prompt")

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, KindTimedOut, callErr.Kind)
	assert.Equal(t, 3, backend.calls)
	assert.Empty(t, sleeps)
}

func TestComplete_GenericErrorRecoversOnThirdAttempt(t *testing.T) {
	backend := &scriptedBackend{
		errs: []error{errors.New("boom"), errors.New("boom")},
		text: "recovered",
	}
	var sleeps []time.Duration
	client := newTestClient(backend, &sleeps)

	text, err := client.Complete(context.Background(), "key", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, backend.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeps)
}

func TestComplete_GenericFailureCarriesTruncatedMessage(t *testing.T) {
	long := strings.Repeat("x", 300)
	backend := &scriptedBackend{errs: []error{
		errors.New(long), errors.New(long), errors.New(long),
	}}
	var sleeps []time.Duration
	client := newTestClient(backend, &sleeps)

	_, err := client.Complete(context.Background(), "key", "prompt")

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, KindOther, callErr.Kind)
	assert.Equal(t, 3, callErr.Attempts)
	assert.Len(t, callErr.Message, 100)
}

func TestClassify_TypedAPIErrors(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{401, KindInvalidCredential},
		{403, KindInvalidCredential},
		{429, KindRateLimited},
		{408, KindTimedOut},
		{504, KindTimedOut},
		{500, KindOther},
	}
	for _, tt := range tests {
		err := &openai.APIError{HTTPStatusCode: tt.status, Message: "api error"}
		assert.Equal(t, tt.want, Classify(err), "status %d", tt.status)
	}
}

func TestClassify_MessageFallback(t *testing.T) {
	assert.Equal(t, KindInvalidCredential, Classify(errors.New("Invalid API Key provided")))
	assert.Equal(t, KindRateLimited, Classify(errors.New("Rate Limit reached for model")))
	assert.Equal(t, KindTimedOut, Classify(errors.New("connection timeout")))
	assert.Equal(t, KindTimedOut, Classify(context.DeadlineExceeded))
	assert.Equal(t, KindOther, Classify(errors.New("something else")))
}

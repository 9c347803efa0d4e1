package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

type completerFunc func(ctx context.Context, credential, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, credential, prompt string) (string, error) {
	return f(ctx, credential, prompt)
}

func validResume(i int) string {
	return fmt.Sprintf("Candidate %d: ", i) + strings.Repeat("software engineer with experience in backend development ", 3)
}

func newTestRunner(completer Completer, sleeps *[]time.Duration) *Runner {
	return NewRunnerWithSleep(completer, utils.NewLogger("error"),
		func(d time.Duration) { *sleeps = append(*sleeps, d) })
}

func TestSplit(t *testing.T) {
	items := Split("A\n---NEXT---\n  \n---NEXT---\nB")
	assert.Equal(t, []string{"A", "B"}, items)
}

func TestSplit_EmptyInput(t *testing.T) {
	assert.Empty(t, Split(""))
	assert.Empty(t, Split("  \n ---NEXT--- \n "))
}

func TestRun_RejectsEmptyBatch(t *testing.T) {
	calls := 0
	completer := completerFunc(func(context.Context, string, string) (string, error) {
		calls++
		return "", nil
	})
	var sleeps []time.Duration
	runner := newTestRunner(completer, &sleeps)

	_, err := runner.Run(context.Background(), "key", nil, models.AnonymizeFull)
	assert.ErrorIs(t, err, ErrNoItems)
	assert.Zero(t, calls)
}

func TestRun_RejectsOversizedBatchBeforeAnyCall(t *testing.T) {
	calls := 0
	completer := completerFunc(func(context.Context, string, string) (string, error) {
		calls++
		return "", nil
	})
	var sleeps []time.Duration
	runner := newTestRunner(completer, &sleeps)

	items := make([]string, MaxItems+1)
	for i := range items {
		items[i] = validResume(i)
	}

	_, err := runner.Run(context.Background(), "key", items, models.AnonymizeFull)
	assert.ErrorIs(t, err, ErrTooManyItems)
	assert.Zero(t, calls)
	assert.Empty(t, sleeps)
}

func TestRun_SequentialWithFixedDelay(t *testing.T) {
	var prompts []string
	completer := completerFunc(func(_ context.Context, _, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "output", nil
	})
	var sleeps []time.Duration
	runner := newTestRunner(completer, &sleeps)

	items := []string{validResume(1), validResume(2), validResume(3)}
	results, err := runner.Run(context.Background(), "key", items, models.AnonymizeLight)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, item := range results {
		assert.Equal(t, i+1, item.Index)
		assert.Equal(t, models.BatchStatusSuccess, item.Status)
		assert.Equal(t, "output", item.Output)
	}
	assert.Len(t, prompts, 3)
	assert.Contains(t, prompts[0], "Candidate 1")
	assert.Contains(t, prompts[2], "Candidate 3")

	// One fixed sleep after every item, success or failure.
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, sleeps)
}

func TestRun_ValidationFailureSkipsCompletionCall(t *testing.T) {
	calls := 0
	completer := completerFunc(func(context.Context, string, string) (string, error) {
		calls++
		return "output", nil
	})
	var sleeps []time.Duration
	runner := newTestRunner(completer, &sleeps)

	items := []string{"too short", validResume(2)}
	results, err := runner.Run(context.Background(), "key", items, models.AnonymizeNone)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, models.BatchStatusError, results[0].Status)
	assert.NotEmpty(t, results[0].Error)
	assert.Equal(t, models.BatchStatusSuccess, results[1].Status)
	assert.Equal(t, 1, calls, "invalid items must not reach the completion client")
}

func TestRun_LaterFailureDoesNotAffectEarlierResults(t *testing.T) {
	call := 0
	completer := completerFunc(func(context.Context, string, string) (string, error) {
		call++
		if call == 2 {
			return "", errors.New("completion failed after 3 attempts")
		}
		return "output", nil
	})
	var sleeps []time.Duration
	runner := newTestRunner(completer, &sleeps)

	items := []string{validResume(1), validResume(2), validResume(3)}
	results, err := runner.Run(context.Background(), "key", items, models.AnonymizeFull)
	require.NoError(t, err)

	assert.Equal(t, models.BatchStatusSuccess, results[0].Status)
	assert.Equal(t, models.BatchStatusError, results[1].Status)
	assert.Contains(t, results[1].Error, "completion failed")
	assert.Equal(t, models.BatchStatusSuccess, results[2].Status)
}

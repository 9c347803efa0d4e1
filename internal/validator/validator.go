package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
)

const (
	MinChars = 100
	MaxChars = 15000
)

type ErrorKind string

const (
	KindEmpty         ErrorKind = "empty"
	KindTooShort      ErrorKind = "too_short"
	KindTooLong       ErrorKind = "too_long"
	KindNotRecognized ErrorKind = "not_recognized"
)

// ValidationError reports why an input was rejected. Length carries the
// trimmed rune count for the TooLong case so callers can display it.
type ValidationError struct {
	Kind   ErrorKind
	Length int
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindEmpty:
		return "input text is empty"
	case KindTooShort:
		return fmt.Sprintf("input is too short (minimum %d characters)", MinChars)
	case KindTooLong:
		return fmt.Sprintf("input is too long (maximum %d characters, got %d)", MaxChars, e.Length)
	case KindNotRecognized:
		return "input was not recognized as the expected document type"
	}
	return "invalid input"
}

// Recognizer decides whether a length-valid text looks like the expected
// document type. Implementations are heuristics: false negatives are
// acceptable, the operator can always adjust the input.
type Recognizer interface {
	Recognize(text string) bool
}

// keywordRecognizer accepts any text containing at least one keyword.
// Pure substring containment, optionally case-folded.
type keywordRecognizer struct {
	keywords []string
	foldCase bool
}

func (r *keywordRecognizer) Recognize(text string) bool {
	if r.foldCase {
		text = strings.ToLower(text)
	}
	for _, kw := range r.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// resumeRecognizer matches English resume vocabulary, case-insensitively.
var resumeRecognizer Recognizer = &keywordRecognizer{
	keywords: []string{"experience", "skill", "work", "education", "project", "develop", "engineer"},
	foldCase: true,
}

// jobPostingRecognizer matches Japanese job-posting vocabulary. No case
// folding: the keyword set is Japanese script.
var jobPostingRecognizer Recognizer = &keywordRecognizer{
	keywords: []string{"募集", "業務", "必須", "歓迎", "待遇", "給与", "仕事", "職種", "応募"},
}

var recognizers = map[models.DocKind]Recognizer{
	models.DocKindResume:     resumeRecognizer,
	models.DocKindJobPosting: jobPostingRecognizer,
}

// Validate checks a block of free text before it is sent to the model.
// The result is a pure function of the trimmed length and, for resume and
// job-posting inputs, keyword membership.
func Validate(text string, kind models.DocKind) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &ValidationError{Kind: KindEmpty}
	}

	length := utf8.RuneCountInString(trimmed)
	if length < MinChars {
		return &ValidationError{Kind: KindTooShort, Length: length}
	}
	if length > MaxChars {
		return &ValidationError{Kind: KindTooLong, Length: length}
	}

	if r, ok := recognizers[kind]; ok && !r.Recognize(trimmed) {
		return &ValidationError{Kind: KindNotRecognized, Length: length}
	}

	return nil
}

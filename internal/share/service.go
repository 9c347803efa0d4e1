// Package share issues and resolves time-limited public links to
// generated documents.
package share

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
	"github.com/ktsuchiya/globalmatch-api/internal/repository"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

const DefaultTTL = 72 * time.Hour

var (
	// ErrDisabled is returned when no datastore is configured. Sharing
	// degrades to unavailable, never to a hard failure.
	ErrDisabled = errors.New("sharing is disabled: no datastore configured")

	// ErrNotFound covers both unknown and expired tokens.
	ErrNotFound = errors.New("shared document not found or expired")
)

type Service struct {
	store   repository.ShareStore // nil when persistence is not configured
	baseURL string
	ttl     time.Duration
	logger  *utils.Logger
	now     func() time.Time
}

func NewService(store repository.ShareStore, baseURL string, ttl time.Duration, logger *utils.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Enabled reports whether a datastore is configured. Checked once at the
// boundary rather than caught per call.
func (s *Service) Enabled() bool {
	return s.store != nil
}

// Create stores the content under a fresh random token and returns the
// public URL.
func (s *Service) Create(ctx context.Context, content, title string) (*models.ShareCreateResponse, error) {
	if s.store == nil {
		return nil, ErrDisabled
	}

	token, err := utils.NewShareToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := &models.ShareRecord{
		ID:        token,
		Title:     title,
		Content:   content,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store share record: %w", err)
	}

	s.logger.Info("share link created", "token", token, "expires_at", rec.ExpiresAt)

	return &models.ShareCreateResponse{
		Token:     token,
		URL:       fmt.Sprintf("%s/?share=%s", s.baseURL, token),
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// Resolve returns the shared record and counts the view. Expired records
// are indistinguishable from absent ones.
func (s *Service) Resolve(ctx context.Context, token string) (*models.ShareRecord, error) {
	if s.store == nil {
		return nil, ErrDisabled
	}

	rec, err := s.store.GetActive(ctx, token, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load share record: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	if err := s.store.IncrementViews(ctx, token); err != nil {
		// The view still succeeds; the counter is advisory.
		s.logger.Warn("failed to increment view count", "token", token, "error", err)
	} else {
		rec.ViewCount++
	}

	return rec, nil
}

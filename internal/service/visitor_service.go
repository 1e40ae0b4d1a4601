package service

import (
	"context"
	"fmt"
	"time"

	"mineart/internal/domain"
	"mineart/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// FingerprintWindow bounds how far back a cookieless visitor is matched
	// against previous fingerprint records.
	FingerprintWindow = 24 * time.Hour

	// ActiveWindow is the recency cutoff for the "active visitors" counter.
	ActiveWindow = 5 * time.Minute
)

// VisitorTotals are the two counters the tracking endpoint reports.
type VisitorTotals struct {
	TotalVisitors  int64 `json:"total_visitors"`
	ActiveVisitors int64 `json:"active_visitors"`
}

// VisitorService resolves visitor identities and keeps per-visit telemetry
type VisitorService interface {
	Track(ctx context.Context, cookieID, ip, userAgent string) (visitorID string, isNew bool, totals VisitorTotals, err error)
}

type visitorService struct {
	visitors repository.VisitorRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewVisitorService creates a new instance of VisitorService
func NewVisitorService(visitors repository.VisitorRepository, logger *zap.Logger) VisitorService {
	return &visitorService{
		visitors: visitors,
		logger:   logger,
		now:      time.Now,
	}
}

// FingerprintID derives a fallback identity from the request's network
// address and user agent, used when no visitor cookie is present.
func FingerprintID(ip, userAgent string) string {
	if ip == "" {
		ip = "unknown-ip"
	}
	if userAgent == "" {
		userAgent = "unknown-ua"
	}
	return "fp-" + ip + "-" + userAgent
}

// Track resolves the visitor identity (cookie value, else a fingerprint
// match within the last 24 hours, else a freshly generated id), upserts the
// last-seen timestamp, and returns the traffic counters. isNew reports
// whether the caller should issue a visitor cookie.
func (s *visitorService) Track(ctx context.Context, cookieID, ip, userAgent string) (string, bool, VisitorTotals, error) {
	now := s.now()
	visitorID := cookieID
	isNew := cookieID == ""

	if isNew {
		fingerprint := FingerprintID(ip, userAgent)

		existing, err := s.visitors.FindSeenSince(ctx, fingerprint, now.Add(-FingerprintWindow))
		switch {
		case err == nil:
			visitorID = existing.VisitorID
			if err := s.visitors.TouchLastSeen(ctx, visitorID, now); err != nil {
				return "", false, VisitorTotals{}, err
			}
		case err == repository.ErrVisitorNotFound:
			visitorID = uuid.NewString()
			visitor := &domain.Visitor{
				VisitorID:  visitorID,
				FirstVisit: now,
				LastSeen:   now,
			}
			if err := s.visitors.Create(ctx, visitor); err != nil {
				return "", false, VisitorTotals{}, err
			}
		default:
			return "", false, VisitorTotals{}, fmt.Errorf("failed to resolve visitor: %w", err)
		}
	} else {
		if err := s.visitors.TouchLastSeen(ctx, visitorID, now); err != nil {
			return "", false, VisitorTotals{}, err
		}
	}

	total, err := s.visitors.Count(ctx)
	if err != nil {
		return "", false, VisitorTotals{}, err
	}

	active, err := s.visitors.CountSeenSince(ctx, now.Add(-ActiveWindow))
	if err != nil {
		return "", false, VisitorTotals{}, err
	}

	return visitorID, isNew, VisitorTotals{TotalVisitors: total, ActiveVisitors: active}, nil
}

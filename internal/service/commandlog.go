package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"booth_dashboard/internal/models"
	"booth_dashboard/internal/repository"
)

// LogFilter supports history filtering by time range, type and point.
type LogFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Type    string    // "", "WRITE", "PULSE", "REJECTED", "FAULT", "CLEAR_FAILED"
	PointID string
}

type CommandLogService struct {
	repo repository.CommandLog
}

func NewCommandLogService(repo repository.CommandLog) *CommandLogService {
	return &CommandLogService{repo: repo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (repository.EventQuery, error) {
	q := repository.EventQuery{
		From:    normalizeToUTC(f.From),
		To:      normalizeToUTC(f.To),
		Type:    normalizeEventType(f.Type),
		PointID: strings.TrimSpace(f.PointID),
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, errInvalidTimeRange
	}
	return q, nil
}

func (s *CommandLogService) List(ctx context.Context, f LogFilter) ([]models.CommandEvent, error) {
	q, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

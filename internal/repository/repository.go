package repository

import (
	"context"
	"database/sql"
	"time"

	"booth_dashboard/internal/models"
)

// EventQuery filters the command log. Zero values match everything.
type EventQuery struct {
	From    time.Time
	To      time.Time
	Type    string
	PointID string
}

type CommandLog interface {
	Append(ctx context.Context, e models.CommandEvent) error
	List(ctx context.Context, q EventQuery) ([]models.CommandEvent, error)
}

type Repository struct {
	CommandLog CommandLog
}

// NewRepository wires the SQLite stores. A nil db disables the audit log.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		return &Repository{CommandLog: discardLog{}}
	}
	return &Repository{
		CommandLog: NewCommandSQLite(db),
	}
}

// discardLog accepts every event and never returns any.
type discardLog struct{}

func (discardLog) Append(context.Context, models.CommandEvent) error { return nil }

func (discardLog) List(context.Context, EventQuery) ([]models.CommandEvent, error) {
	return []models.CommandEvent{}, nil
}

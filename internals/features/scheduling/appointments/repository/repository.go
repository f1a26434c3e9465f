// file: internals/features/scheduling/appointments/repository/repository.go
package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"agendaku_backend/internals/features/scheduling/availability"
)

// ErrTimeConflict: rentang waktu bentrok dengan occurrence lain milik profesional yang sama
var ErrTimeConflict = errors.New("time conflict with an existing appointment")

// Occurrence is one appointment to be written.
type Occurrence struct {
	ProfessionalID uuid.UUID
	ClientID       uuid.UUID
	SeriesID       *uuid.UUID
	Date           time.Time // civil date
	Range          availability.TimeRange
	StudentLabel   string
	Description    string
	TagID          *uuid.UUID
}

// Row: appointment + label klien & tag untuk grid/kalender
type Row struct {
	ID              uuid.UUID
	ProfessionalID  uuid.UUID
	ClientID        uuid.UUID
	SeriesID        *uuid.UUID
	Date            time.Time
	Range           availability.TimeRange
	StudentLabel    string
	Description     string
	TagID           *uuid.UUID
	ClientName      string
	ClientTagName   string
	ClientTagColor  string
	ServiceTagName  string
	ServiceTagColor string
}

// Repository: semua operasi di-scope ke satu profesional.
type Repository interface {
	HasConflict(ctx context.Context, professionalID uuid.UUID, date time.Time, rng availability.TimeRange) (bool, error)
	// BookOccurrence atomically re-checks for overlap and inserts; ErrTimeConflict if taken.
	BookOccurrence(ctx context.Context, occ Occurrence) (uuid.UUID, error)
	ListDay(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]Row, error)
	ListRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]Row, error)
	ListSeries(ctx context.Context, professionalID, seriesID uuid.UUID) ([]Row, error)
	DeleteSeriesFrom(ctx context.Context, professionalID, seriesID uuid.UUID, from time.Time) (int64, error)
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if rows[i].Range.StartMin != rows[j].Range.StartMin {
			return rows[i].Range.StartMin < rows[j].Range.StartMin
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
}

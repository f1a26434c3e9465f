// file: internals/features/scheduling/appointments/service/appointments_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"agendaku_backend/internals/configs"
	apptRepo "agendaku_backend/internals/features/scheduling/appointments/repository"
	"agendaku_backend/internals/features/scheduling/availability"
	clientService "agendaku_backend/internals/features/scheduling/clients/service"
)

var (
	ErrTimeConflict   = apptRepo.ErrTimeConflict
	ErrInvalidBooking = errors.New("invalid booking")
	ErrInvalidRange   = errors.New("invalid date range")
)

// MaxFeedDays membatasi rentang kalender per request
const MaxFeedDays = 92

type Service struct {
	repo    apptRepo.Repository
	clients clientService.Finder
	cfg     configs.SchedulingConfig
	window  availability.TimeRange
}

func New(repo apptRepo.Repository, clients clientService.Finder, cfg configs.SchedulingConfig) (*Service, error) {
	cfg.Normalize()
	w, err := cfg.Window()
	if err != nil {
		return nil, fmt.Errorf("operating window: %w", err)
	}
	return &Service{repo: repo, clients: clients, cfg: cfg, window: w}, nil
}

func (s *Service) Config() configs.SchedulingConfig { return s.cfg }

/* =========================================================
   Slot grid
========================================================= */

func (s *Service) DayGrid(ctx context.Context, professionalID uuid.UUID, date time.Time) (availability.Grid, error) {
	rows, err := s.repo.ListDay(ctx, professionalID, date)
	if err != nil {
		return availability.Grid{}, err
	}
	bookings := make([]availability.Booking, 0, len(rows))
	for _, r := range rows {
		bookings = append(bookings, availability.Booking{
			AppointmentID: r.ID,
			Range:         r.Range,
			ClientLabel:   clientLabel(r),
			Tag:           displayTag(r),
		})
	}
	g, err := availability.BuildDay(s.window, s.cfg.SlotMinutes, bookings)
	if err != nil {
		return availability.Grid{}, err
	}
	for _, a := range g.Anomalies {
		log.Printf("[SlotGrid] ⚠️ professional=%s date=%s %s", professionalID, date.Format("2006-01-02"), a.Message())
	}
	return g, nil
}

/* =========================================================
   Single booking
========================================================= */

type BookInput struct {
	ClientID     uuid.UUID
	Date         time.Time
	Range        availability.TimeRange
	StudentLabel string
	Description  string
	TagID        *uuid.UUID
}

// Book creates one standalone appointment (no series).
func (s *Service) Book(ctx context.Context, professionalID uuid.UUID, in BookInput) (uuid.UUID, error) {
	if !in.Range.Valid() {
		return uuid.Nil, fmt.Errorf("%w: start time must be before end time", ErrInvalidBooking)
	}
	if in.Date.IsZero() {
		return uuid.Nil, fmt.Errorf("%w: date is required", ErrInvalidBooking)
	}
	c, err := s.clients.FindClient(ctx, professionalID, in.ClientID)
	if err != nil {
		return uuid.Nil, err
	}
	if !c.IsPresent() {
		return uuid.Nil, fmt.Errorf("%w: client not found", ErrInvalidBooking)
	}
	if in.TagID != nil {
		t, err := s.clients.FindTag(ctx, professionalID, *in.TagID)
		if err != nil {
			return uuid.Nil, err
		}
		if !t.IsPresent() {
			return uuid.Nil, fmt.Errorf("%w: tag not found", ErrInvalidBooking)
		}
	}

	id, err := s.repo.BookOccurrence(ctx, apptRepo.Occurrence{
		ProfessionalID: professionalID,
		ClientID:       in.ClientID,
		Date:           in.Date,
		Range:          in.Range,
		StudentLabel:   strings.TrimSpace(in.StudentLabel),
		Description:    strings.TrimSpace(in.Description),
		TagID:          in.TagID,
	})
	if err != nil {
		return uuid.Nil, err
	}
	log.Printf("[Appointments] ✅ booked %s %s for professional=%s", in.Date.Format("2006-01-02"), in.Range, professionalID)
	return id, nil
}

/* =========================================================
   Calendar feed
========================================================= */

type Event struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Color       string     `json:"color"`
	Tag         string     `json:"tag,omitempty"`
	ClientID    uuid.UUID  `json:"client_id"`
	ClientName  string     `json:"client_name"`
	Description string     `json:"description,omitempty"`
	SeriesID    *uuid.UUID `json:"series_id,omitempty"`
}

func (s *Service) CalendarFeed(ctx context.Context, professionalID uuid.UUID, from, to time.Time, loc *time.Location) ([]Event, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end before start", ErrInvalidRange)
	}
	if to.Sub(from) > MaxFeedDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidRange, MaxFeedDays)
	}
	if loc == nil {
		loc = time.UTC
	}
	rows, err := s.repo.ListRange(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(rows))
	for _, r := range rows {
		day := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, loc)
		out = append(out, Event{
			ID:          r.ID,
			Title:       clientLabel(r),
			Start:       day.Add(time.Duration(r.Range.StartMin) * time.Minute),
			End:         day.Add(time.Duration(r.Range.EndMin) * time.Minute),
			Color:       s.eventColor(r),
			Tag:         displayTag(r),
			ClientID:    r.ClientID,
			ClientName:  r.ClientName,
			Description: r.Description,
			SeriesID:    r.SeriesID,
		})
	}
	return out, nil
}

// warna dari tag klien; tag layanan hanya untuk label
func (s *Service) eventColor(r apptRepo.Row) string {
	if c := strings.TrimSpace(r.ClientTagColor); c != "" {
		return c
	}
	return s.cfg.DefaultColor
}

func displayTag(r apptRepo.Row) string {
	if r.ServiceTagName != "" {
		return r.ServiceTagName
	}
	return r.ClientTagName
}

func clientLabel(r apptRepo.Row) string {
	name := strings.TrimSpace(r.ClientName)
	label := strings.TrimSpace(r.StudentLabel)
	switch {
	case name == "" && label == "":
		return "(sem nome)"
	case label == "" || label == name:
		return name
	case name == "":
		return label
	default:
		return name + " - " + label
	}
}

// file: internals/features/scheduling/series/service/scheduler.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	apptRepo "agendaku_backend/internals/features/scheduling/appointments/repository"
	"agendaku_backend/internals/features/scheduling/availability"
	clientService "agendaku_backend/internals/features/scheduling/clients/service"
	"agendaku_backend/internals/features/scheduling/recurrence"
	seriesModel "agendaku_backend/internals/features/scheduling/series/model"
	seriesRepo "agendaku_backend/internals/features/scheduling/series/repository"
)

var ErrSeriesNotFound = seriesRepo.ErrNotFound

/* =========================
   Ports
========================= */

type Store interface {
	Create(ctx context.Context, m *seriesModel.SeriesModel) error
	UpdateTotals(ctx context.Context, id uuid.UUID, booked, conflicted int) error
	Get(ctx context.Context, professionalID, id uuid.UUID) (*seriesModel.SeriesModel, error)
	SoftDelete(ctx context.Context, professionalID, id uuid.UUID) error
}

type ConflictChecker interface {
	HasConflict(ctx context.Context, professionalID uuid.UUID, date time.Time, rng availability.TimeRange) (bool, error)
}

type OccurrenceStore interface {
	BookOccurrence(ctx context.Context, occ apptRepo.Occurrence) (uuid.UUID, error)
	ListSeries(ctx context.Context, professionalID, seriesID uuid.UUID) ([]apptRepo.Row, error)
	DeleteSeriesFrom(ctx context.Context, professionalID, seriesID uuid.UUID, from time.Time) (int64, error)
}

/* =========================
   Result
========================= */

type OccurrenceStatus string

const (
	StatusBooked     OccurrenceStatus = "booked"
	StatusConflicted OccurrenceStatus = "conflicted"
)

type Reason string

const (
	ReasonTimeConflict     Reason = "TIME_CONFLICT"
	ReasonPersistenceError Reason = "PERSISTENCE_ERROR"
)

type OccurrenceResult struct {
	Date          time.Time
	Status        OccurrenceStatus
	Reason        Reason
	AppointmentID *uuid.UUID
}

type Result struct {
	SeriesID        uuid.UUID
	Occurrences     []OccurrenceResult
	TotalBooked     int
	TotalConflicted int
	RRule           string
	// Truncated: end date lebih jauh dari batas ekspansi, tanggal terakhir = Occurrences[len-1]
	Truncated bool
}

/* =========================
   Scheduler
========================= */

type Scheduler struct {
	Series      Store
	Occurrences OccurrenceStore
	Conflicts   ConflictChecker
	Clients     clientService.Finder

	// Now & Location menentukan "hari ini" untuk menolak start date di masa lalu
	Now      func() time.Time
	Location *time.Location
}

// In returns a copy of s whose "today" is evaluated in loc, e.g. the
// professional's own timezone. A nil loc keeps s.Location.
func (s *Scheduler) In(loc *time.Location) *Scheduler {
	cp := *s
	if loc != nil {
		cp.Location = loc
	}
	return &cp
}

func (s *Scheduler) today() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	n := now().In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Preview returns the first dates of spec without touching storage.
func (s *Scheduler) Preview(spec recurrence.Spec, limit int) ([]time.Time, error) {
	if err := recurrence.ValidateAt(spec, s.today()); err != nil {
		return nil, err
	}
	return recurrence.Collect(spec, limit)
}

// Materialize validates spec & template, stores the series, then books each
// date in order. A date that cannot be booked is reported, never fatal.
func (s *Scheduler) Materialize(ctx context.Context, professionalID uuid.UUID, spec recurrence.Spec, tpl Template) (Result, error) {
	if professionalID == uuid.Nil {
		return Result{}, &TemplateError{Field: "professional_id", Message: "owner is required"}
	}
	if err := recurrence.ValidateAt(spec, s.today()); err != nil {
		return Result{}, err
	}
	if err := tpl.validate(); err != nil {
		return Result{}, err
	}
	if err := s.checkReferences(ctx, professionalID, tpl); err != nil {
		return Result{}, err
	}

	dates, err := recurrence.Expand(spec, 0)
	if err != nil {
		return Result{}, err
	}
	rule, err := recurrence.RRule(spec)
	if err != nil {
		return Result{}, err
	}
	truncated, err := recurrence.Truncated(spec)
	if err != nil {
		return Result{}, err
	}

	m := toSeriesModel(professionalID, spec, tpl, rule)
	if err := s.Series.Create(ctx, m); err != nil {
		return Result{}, fmt.Errorf("persist series: %w", err)
	}
	seriesID := m.SeriesID

	res := Result{SeriesID: seriesID, RRule: rule, Truncated: truncated}
	for d := range dates {
		occ := s.bookOne(ctx, professionalID, seriesID, d, tpl)
		if occ.Status == StatusBooked {
			res.TotalBooked++
		} else {
			res.TotalConflicted++
		}
		res.Occurrences = append(res.Occurrences, occ)
	}

	if err := s.Series.UpdateTotals(ctx, seriesID, res.TotalBooked, res.TotalConflicted); err != nil {
		log.Printf("[SeriesScheduler] ⚠️ series=%s totals not saved: %v", seriesID, err)
	}
	if res.Truncated {
		log.Printf("[SeriesScheduler] ⚠️ series=%s end date beyond expansion limit, stopped at %d dates",
			seriesID, len(res.Occurrences))
	}
	log.Printf("[SeriesScheduler] ✅ series=%s professional=%s booked=%d conflicted=%d",
		seriesID, professionalID, res.TotalBooked, res.TotalConflicted)
	return res, nil
}

func (s *Scheduler) checkReferences(ctx context.Context, professionalID uuid.UUID, tpl Template) error {
	c, err := s.Clients.FindClient(ctx, professionalID, tpl.ClientID)
	if err != nil {
		return fmt.Errorf("lookup client: %w", err)
	}
	if !c.IsPresent() {
		return &TemplateError{Field: "client_id", Message: "client not found"}
	}
	if tpl.TagID != nil {
		t, err := s.Clients.FindTag(ctx, professionalID, *tpl.TagID)
		if err != nil {
			return fmt.Errorf("lookup tag: %w", err)
		}
		if !t.IsPresent() {
			return &TemplateError{Field: "tag_id", Message: "tag not found"}
		}
	}
	return nil
}

func (s *Scheduler) bookOne(ctx context.Context, professionalID, seriesID uuid.UUID, date time.Time, tpl Template) OccurrenceResult {
	out := OccurrenceResult{Date: date, Status: StatusConflicted}

	taken, err := s.Conflicts.HasConflict(ctx, professionalID, date, tpl.Range)
	if err != nil {
		log.Printf("[SeriesScheduler] ❌ series=%s date=%s conflict check: %v", seriesID, date.Format(recurrence.DateLayout), err)
		out.Reason = ReasonPersistenceError
		return out
	}
	if taken {
		out.Reason = ReasonTimeConflict
		return out
	}

	sid := seriesID
	id, err := s.Occurrences.BookOccurrence(ctx, apptRepo.Occurrence{
		ProfessionalID: professionalID,
		ClientID:       tpl.ClientID,
		SeriesID:       &sid,
		Date:           date,
		Range:          tpl.Range,
		StudentLabel:   tpl.StudentLabel,
		Description:    tpl.Description,
		TagID:          tpl.TagID,
	})
	switch {
	case err == nil:
		out.Status = StatusBooked
		out.AppointmentID = &id
	case errors.Is(err, apptRepo.ErrTimeConflict):
		// slot diambil request lain di antara pre-check dan insert
		out.Reason = ReasonTimeConflict
	default:
		log.Printf("[SeriesScheduler] ❌ series=%s date=%s insert: %v", seriesID, date.Format(recurrence.DateLayout), err)
		out.Reason = ReasonPersistenceError
	}
	return out
}

/* =========================
   Read / cancel
========================= */

type Detail struct {
	Series      *seriesModel.SeriesModel
	Spec        recurrence.Spec
	Template    Template
	Occurrences []apptRepo.Row
}

func (s *Scheduler) Get(ctx context.Context, professionalID, seriesID uuid.UUID) (Detail, error) {
	m, err := s.Series.Get(ctx, professionalID, seriesID)
	if err != nil {
		return Detail{}, err
	}
	tpl, err := templateFromSnapshot(m.SeriesTemplate)
	if err != nil {
		return Detail{}, err
	}
	rows, err := s.Occurrences.ListSeries(ctx, professionalID, seriesID)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Series: m, Spec: specFromModel(m), Template: tpl, Occurrences: rows}, nil
}

// Cancel removes the series' occurrences on or after from. The series itself is
// soft-deleted once it has no occurrences left.
func (s *Scheduler) Cancel(ctx context.Context, professionalID, seriesID uuid.UUID, from time.Time) (int64, error) {
	if _, err := s.Series.Get(ctx, professionalID, seriesID); err != nil {
		return 0, err
	}
	n, err := s.Occurrences.DeleteSeriesFrom(ctx, professionalID, seriesID, recurrence.CivilDate(from))
	if err != nil {
		return 0, err
	}
	left, err := s.Occurrences.ListSeries(ctx, professionalID, seriesID)
	if err != nil {
		return n, err
	}
	if len(left) == 0 {
		if err := s.Series.SoftDelete(ctx, professionalID, seriesID); err != nil {
			return n, err
		}
	}
	log.Printf("[SeriesScheduler] series=%s canceled from %s (%d removed, %d left)",
		seriesID, recurrence.CivilDate(from).Format(recurrence.DateLayout), n, len(left))
	return n, nil
}

/* =========================
   Mapping
========================= */

func toSeriesModel(professionalID uuid.UUID, spec recurrence.Spec, tpl Template, rule string) *seriesModel.SeriesModel {
	m := &seriesModel.SeriesModel{
		SeriesID:             uuid.New(),
		SeriesProfessionalID: professionalID,
		SeriesClientID:       tpl.ClientID,
		SeriesKind:           string(spec.Kind),
		SeriesInterval:       spec.Interval,
		SeriesStartDate:      datatypes.Date(recurrence.CivilDate(spec.StartDate)),
		SeriesRRule:          rule,
		SeriesTemplate:       tpl.snapshot(),
	}
	if spec.Kind == recurrence.KindWeekly {
		for _, wd := range spec.Weekdays {
			m.SeriesWeekdays = append(m.SeriesWeekdays, int64(wd))
		}
	}
	if spec.Kind == recurrence.KindMonthly {
		dom := spec.DayOfMonth
		m.SeriesDayOfMonth = &dom
	}
	if spec.EndDate != nil {
		end := datatypes.Date(recurrence.CivilDate(*spec.EndDate))
		m.SeriesEndDate = &end
	}
	if spec.MaxOccurrences > 0 {
		n := spec.MaxOccurrences
		m.SeriesMaxOccurrences = &n
	}
	return m
}

func specFromModel(m *seriesModel.SeriesModel) recurrence.Spec {
	spec := recurrence.Spec{
		Kind:      recurrence.Kind(m.SeriesKind),
		Interval:  m.SeriesInterval,
		StartDate: recurrence.CivilDate(time.Time(m.SeriesStartDate)),
		Weekdays:  int64sToInts(m.SeriesWeekdays),
	}
	if m.SeriesDayOfMonth != nil {
		spec.DayOfMonth = *m.SeriesDayOfMonth
	}
	if m.SeriesEndDate != nil {
		end := recurrence.CivilDate(time.Time(*m.SeriesEndDate))
		spec.EndDate = &end
	}
	if m.SeriesMaxOccurrences != nil {
		spec.MaxOccurrences = *m.SeriesMaxOccurrences
	}
	return spec
}

func int64sToInts(a pq.Int64Array) []int {
	if len(a) == 0 {
		return nil
	}
	out := make([]int, len(a))
	for i, v := range a {
		out[i] = int(v)
	}
	return out
}

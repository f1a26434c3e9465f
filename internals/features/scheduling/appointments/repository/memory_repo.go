// file: internals/features/scheduling/appointments/repository/memory_repo.go
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"agendaku_backend/internals/features/scheduling/availability"
	clientService "agendaku_backend/internals/features/scheduling/clients/service"
)

// MemoryRepo keeps appointments in process. Same overlap semantics as GormRepo;
// the mutex plays the role of the advisory lock.
type MemoryRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]Occurrence
	clients clientService.Finder

	// FailOn, kalau di-set, dipanggil sebelum insert; error-nya dikembalikan apa adanya
	FailOn func(occ Occurrence) error
}

func NewMemoryRepo(clients clientService.Finder) *MemoryRepo {
	return &MemoryRepo{rows: make(map[uuid.UUID]Occurrence), clients: clients}
}

func (r *MemoryRepo) HasConflict(_ context.Context, professionalID uuid.UUID, date time.Time, rng availability.TimeRange) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conflictLocked(professionalID, date, rng), nil
}

func (r *MemoryRepo) conflictLocked(professionalID uuid.UUID, date time.Time, rng availability.TimeRange) bool {
	day := civil(date)
	for _, o := range r.rows {
		if o.ProfessionalID == professionalID && civil(o.Date).Equal(day) && availability.Overlaps(o.Range, rng) {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) BookOccurrence(_ context.Context, occ Occurrence) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailOn != nil {
		if err := r.FailOn(occ); err != nil {
			return uuid.Nil, err
		}
	}
	if r.conflictLocked(occ.ProfessionalID, occ.Date, occ.Range) {
		return uuid.Nil, ErrTimeConflict
	}
	id := uuid.New()
	occ.Date = civil(occ.Date)
	r.rows[id] = occ
	return id, nil
}

// Insert menulis tanpa cek overlap; dipakai tes untuk mensimulasikan data lama yang bentrok.
func (r *MemoryRepo) Insert(occ Occurrence) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	occ.Date = civil(occ.Date)
	r.rows[id] = occ
	return id
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Occurrence) bool) ([]Row, error) {
	r.mu.Lock()
	var picked []Row
	for id, o := range r.rows {
		if keep(o) {
			picked = append(picked, Row{
				ID:             id,
				ProfessionalID: o.ProfessionalID,
				ClientID:       o.ClientID,
				SeriesID:       o.SeriesID,
				Date:           o.Date,
				Range:          o.Range,
				StudentLabel:   o.StudentLabel,
				Description:    o.Description,
				TagID:          o.TagID,
			})
		}
	}
	r.mu.Unlock()

	if r.clients != nil {
		for i := range picked {
			if err := r.decorate(ctx, &picked[i]); err != nil {
				return nil, err
			}
		}
	}
	sortRows(picked)
	return picked, nil
}

func (r *MemoryRepo) decorate(ctx context.Context, row *Row) error {
	c, err := r.clients.FindClient(ctx, row.ProfessionalID, row.ClientID)
	if err != nil {
		return err
	}
	if v, ok := c.Get(); ok {
		row.ClientName = v.Name
		row.ClientTagName = v.TagName
		row.ClientTagColor = v.TagColor
	}
	if row.TagID == nil {
		return nil
	}
	t, err := r.clients.FindTag(ctx, row.ProfessionalID, *row.TagID)
	if err != nil {
		return err
	}
	if v, ok := t.Get(); ok {
		row.ServiceTagName = v.Name
		row.ServiceTagColor = v.Color
	}
	return nil
}

func (r *MemoryRepo) ListDay(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]Row, error) {
	day := civil(date)
	return r.list(ctx, func(o Occurrence) bool {
		return o.ProfessionalID == professionalID && o.Date.Equal(day)
	})
}

func (r *MemoryRepo) ListRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]Row, error) {
	lo, hi := civil(from), civil(to)
	return r.list(ctx, func(o Occurrence) bool {
		return o.ProfessionalID == professionalID && !o.Date.Before(lo) && !o.Date.After(hi)
	})
}

func (r *MemoryRepo) ListSeries(ctx context.Context, professionalID, seriesID uuid.UUID) ([]Row, error) {
	return r.list(ctx, func(o Occurrence) bool {
		return o.ProfessionalID == professionalID && o.SeriesID != nil && *o.SeriesID == seriesID
	})
}

func (r *MemoryRepo) DeleteSeriesFrom(_ context.Context, professionalID, seriesID uuid.UUID, from time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := civil(from)
	var n int64
	for id, o := range r.rows {
		if o.ProfessionalID == professionalID && o.SeriesID != nil && *o.SeriesID == seriesID && !o.Date.Before(day) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// file: internals/features/scheduling/series/repository/series_repo.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	seriesModel "agendaku_backend/internals/features/scheduling/series/model"
)

var ErrNotFound = errors.New("series not found")

/* =========================================================
   GORM
========================================================= */

type GormRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewGormRepo(db *gorm.DB, lg *log.Logger) *GormRepo {
	if lg == nil {
		lg = log.Default()
	}
	return &GormRepo{db: db, lg: lg}
}

func (r *GormRepo) Create(ctx context.Context, m *seriesModel.SeriesModel) error {
	if m.SeriesID == uuid.Nil {
		m.SeriesID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert series: %w", err)
	}
	return nil
}

func (r *GormRepo) UpdateTotals(ctx context.Context, id uuid.UUID, booked, conflicted int) error {
	err := r.db.WithContext(ctx).
		Model(&seriesModel.SeriesModel{}).
		Where("series_id = ?", id).
		Updates(map[string]any{
			"series_total_booked":     booked,
			"series_total_conflicted": conflicted,
		}).Error
	if err != nil {
		return fmt.Errorf("update series totals: %w", err)
	}
	return nil
}

// Get: series milik profesional lain dianggap tidak ada
func (r *GormRepo) Get(ctx context.Context, professionalID, id uuid.UUID) (*seriesModel.SeriesModel, error) {
	var m seriesModel.SeriesModel
	err := r.db.WithContext(ctx).
		Where("series_id = ? AND series_professional_id = ?", id, professionalID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}
	return &m, nil
}

func (r *GormRepo) SoftDelete(ctx context.Context, professionalID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("series_id = ? AND series_professional_id = ?", id, professionalID).
		Delete(&seriesModel.SeriesModel{})
	if res.Error != nil {
		return fmt.Errorf("delete series: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.lg.Printf("[series] soft-deleted %s", id)
	return nil
}

/* =========================================================
   Memory
========================================================= */

type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]seriesModel.SeriesModel

	// FailCreate, kalau di-set, dikembalikan oleh Create
	FailCreate error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[uuid.UUID]seriesModel.SeriesModel)}
}

func (r *MemoryRepo) Create(_ context.Context, m *seriesModel.SeriesModel) error {
	if r.FailCreate != nil {
		return r.FailCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.SeriesID == uuid.Nil {
		m.SeriesID = uuid.New()
	}
	r.rows[m.SeriesID] = *m
	return nil
}

func (r *MemoryRepo) UpdateTotals(_ context.Context, id uuid.UUID, booked, conflicted int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	m.SeriesTotalBooked = booked
	m.SeriesTotalConflicted = conflicted
	r.rows[id] = m
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, professionalID, id uuid.UUID) (*seriesModel.SeriesModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rows[id]
	if !ok || m.SeriesProfessionalID != professionalID || m.SeriesDeletedAt.Valid {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *MemoryRepo) SoftDelete(_ context.Context, professionalID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.SeriesProfessionalID != professionalID || m.SeriesDeletedAt.Valid {
		return ErrNotFound
	}
	m.SeriesDeletedAt = gorm.DeletedAt{Valid: true}
	r.rows[id] = m
	return nil
}

// Len dipakai tes
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

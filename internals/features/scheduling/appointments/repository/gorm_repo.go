// file: internals/features/scheduling/appointments/repository/gorm_repo.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apptModel "agendaku_backend/internals/features/scheduling/appointments/model"
	"agendaku_backend/internals/features/scheduling/availability"
	"agendaku_backend/internals/helpers/dbtime"
)

const dateLayout = "2006-01-02"

// Postgres SQLSTATE yang berarti slot sudah terisi
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

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

func (r *GormRepo) HasConflict(ctx context.Context, professionalID uuid.UUID, date time.Time, rng availability.TimeRange) (bool, error) {
	return hasConflict(r.db.WithContext(ctx), professionalID, date, rng)
}

func hasConflict(tx *gorm.DB, professionalID uuid.UUID, date time.Time, rng availability.TimeRange) (bool, error) {
	var n int64
	err := tx.Model(&apptModel.AppointmentModel{}).
		Where("appointment_professional_id = ?", professionalID).
		Where("appointment_date = ?", civil(date).Format(dateLayout)).
		Where("appointment_status <> ?", apptModel.AppointmentStatusCanceled).
		// half-open overlap: start < other.end AND other.start < end
		Where("appointment_start_min < ? AND appointment_end_min > ?", rng.EndMin, rng.StartMin).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check conflict: %w", err)
	}
	return n > 0, nil
}

func (r *GormRepo) BookOccurrence(ctx context.Context, occ Occurrence) (uuid.UUID, error) {
	m := apptModel.AppointmentModel{
		AppointmentID:             uuid.New(),
		AppointmentProfessionalID: occ.ProfessionalID,
		AppointmentClientID:       occ.ClientID,
		AppointmentSeriesID:       occ.SeriesID,
		AppointmentDate:           datatypes.Date(civil(occ.Date)),
		AppointmentStartTime:      dbtime.FromMinutes(occ.Range.StartMin),
		AppointmentEndTime:        dbtime.FromMinutes(min(occ.Range.EndMin, availability.MinutesPerDay-1)),
		AppointmentStartMin:       occ.Range.StartMin,
		AppointmentEndMin:         occ.Range.EndMin,
		AppointmentStudentLabel:   occ.StudentLabel,
		AppointmentDescription:    occ.Description,
		AppointmentTagID:          occ.TagID,
		AppointmentStatus:         apptModel.AppointmentStatusScheduled,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// serialize writers per (professional, date)
		key := occ.ProfessionalID.String() + "|" + civil(occ.Date).Format(dateLayout)
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error; err != nil {
			return fmt.Errorf("advisory lock: %w", err)
		}
		taken, err := hasConflict(tx, occ.ProfessionalID, occ.Date, occ.Range)
		if err != nil {
			return err
		}
		if taken {
			return ErrTimeConflict
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		if errors.Is(err, ErrTimeConflict) || isSlotViolation(err) {
			return uuid.Nil, ErrTimeConflict
		}
		return uuid.Nil, fmt.Errorf("insert appointment: %w", err)
	}
	return m.AppointmentID, nil
}

func isSlotViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation
	}
	return false
}

/* =========================================================
   Listing (join klien + tag)
========================================================= */

type rowScan struct {
	AppointmentID             uuid.UUID
	AppointmentProfessionalID uuid.UUID
	AppointmentClientID       uuid.UUID
	AppointmentSeriesID       *uuid.UUID
	AppointmentDate           time.Time
	AppointmentStartMin       int
	AppointmentEndMin         int
	AppointmentStudentLabel   string
	AppointmentDescription    string
	AppointmentTagID          *uuid.UUID
	ClientName                *string
	ClientTagName             *string
	ClientTagColor            *string
	ServiceTagName            *string
	ServiceTagColor           *string
}

func (r *GormRepo) baseList(ctx context.Context, professionalID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("appointments AS a").
		Select(`a.appointment_id, a.appointment_professional_id, a.appointment_client_id, a.appointment_series_id,
			a.appointment_date, a.appointment_start_min, a.appointment_end_min,
			a.appointment_student_label, a.appointment_description, a.appointment_tag_id,
			c.client_name AS client_name,
			ct.tag_name AS client_tag_name, ct.tag_color AS client_tag_color,
			st.tag_name AS service_tag_name, st.tag_color AS service_tag_color`).
		Joins("LEFT JOIN clients c ON c.client_id = a.appointment_client_id AND c.client_deleted_at IS NULL").
		Joins("LEFT JOIN tags ct ON ct.tag_id = c.client_tag_id AND ct.tag_deleted_at IS NULL").
		Joins("LEFT JOIN tags st ON st.tag_id = a.appointment_tag_id AND st.tag_deleted_at IS NULL").
		Where("a.appointment_professional_id = ?", professionalID).
		Where("a.appointment_deleted_at IS NULL").
		Where("a.appointment_status <> ?", apptModel.AppointmentStatusCanceled).
		Order("a.appointment_date ASC, a.appointment_start_min ASC, a.appointment_id ASC")
}

func (r *GormRepo) scan(q *gorm.DB) ([]Row, error) {
	var raw []rowScan
	if err := q.Scan(&raw).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	out := make([]Row, 0, len(raw))
	for _, x := range raw {
		out = append(out, Row{
			ID:              x.AppointmentID,
			ProfessionalID:  x.AppointmentProfessionalID,
			ClientID:        x.AppointmentClientID,
			SeriesID:        x.AppointmentSeriesID,
			Date:            civil(x.AppointmentDate),
			Range:           availability.TimeRange{StartMin: x.AppointmentStartMin, EndMin: x.AppointmentEndMin},
			StudentLabel:    x.AppointmentStudentLabel,
			Description:     x.AppointmentDescription,
			TagID:           x.AppointmentTagID,
			ClientName:      deref(x.ClientName),
			ClientTagName:   deref(x.ClientTagName),
			ClientTagColor:  deref(x.ClientTagColor),
			ServiceTagName:  deref(x.ServiceTagName),
			ServiceTagColor: deref(x.ServiceTagColor),
		})
	}
	return out, nil
}

func (r *GormRepo) ListDay(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]Row, error) {
	return r.scan(r.baseList(ctx, professionalID).
		Where("a.appointment_date = ?", civil(date).Format(dateLayout)))
}

func (r *GormRepo) ListRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]Row, error) {
	return r.scan(r.baseList(ctx, professionalID).
		Where("a.appointment_date BETWEEN ? AND ?", civil(from).Format(dateLayout), civil(to).Format(dateLayout)))
}

func (r *GormRepo) ListSeries(ctx context.Context, professionalID, seriesID uuid.UUID) ([]Row, error) {
	return r.scan(r.baseList(ctx, professionalID).
		Where("a.appointment_series_id = ?", seriesID))
}

func (r *GormRepo) DeleteSeriesFrom(ctx context.Context, professionalID, seriesID uuid.UUID, from time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("appointment_professional_id = ? AND appointment_series_id = ?", professionalID, seriesID).
		Where("appointment_date >= ?", civil(from).Format(dateLayout)).
		Delete(&apptModel.AppointmentModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete series occurrences: %w", res.Error)
	}
	r.lg.Printf("[appointments] series=%s removed %d occurrences from %s", seriesID, res.RowsAffected, civil(from).Format(dateLayout))
	return res.RowsAffected, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// file: internals/features/scheduling/series/model/series_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   Series (aturan recurrence + snapshot template)
   Occurrence-nya disimpan di tabel appointments (appointment_series_id).
========================================================= */

type SeriesModel struct {
	SeriesID             uuid.UUID `gorm:"column:series_id;type:uuid;default:gen_random_uuid();primaryKey" json:"series_id"`
	SeriesProfessionalID uuid.UUID `gorm:"column:series_professional_id;type:uuid;not null;index" json:"series_professional_id"`
	SeriesClientID       uuid.UUID `gorm:"column:series_client_id;type:uuid;not null;index" json:"series_client_id"`

	/* -----------------------------
	   Rule
	----------------------------- */
	SeriesKind           string          `gorm:"column:series_kind;type:varchar(16);not null" json:"series_kind"`
	SeriesInterval       int             `gorm:"column:series_interval;not null;default:1" json:"series_interval"`
	SeriesWeekdays       pq.Int64Array   `gorm:"column:series_weekdays;type:int[]" json:"series_weekdays,omitempty"`
	SeriesDayOfMonth     *int            `gorm:"column:series_day_of_month" json:"series_day_of_month,omitempty"`
	SeriesStartDate      datatypes.Date  `gorm:"column:series_start_date;type:date;not null" json:"series_start_date"`
	SeriesEndDate        *datatypes.Date `gorm:"column:series_end_date;type:date" json:"series_end_date,omitempty"`
	SeriesMaxOccurrences *int            `gorm:"column:series_max_occurrences" json:"series_max_occurrences,omitempty"`
	SeriesRRule          string          `gorm:"column:series_rrule;type:text" json:"series_rrule,omitempty"`

	/* -----------------------------
	   Template snapshot (jam, label, deskripsi, tag)
	----------------------------- */
	SeriesTemplate datatypes.JSONMap `gorm:"column:series_template;type:jsonb;not null" json:"series_template"`

	/* -----------------------------
	   Hasil materialisasi
	----------------------------- */
	SeriesTotalBooked     int `gorm:"column:series_total_booked;not null;default:0" json:"series_total_booked"`
	SeriesTotalConflicted int `gorm:"column:series_total_conflicted;not null;default:0" json:"series_total_conflicted"`

	SeriesCreatedAt time.Time      `gorm:"column:series_created_at;type:timestamptz;not null;autoCreateTime" json:"series_created_at"`
	SeriesUpdatedAt time.Time      `gorm:"column:series_updated_at;type:timestamptz;not null;autoUpdateTime" json:"series_updated_at"`
	SeriesDeletedAt gorm.DeletedAt `gorm:"column:series_deleted_at;index" json:"series_deleted_at,omitempty"`
}

func (SeriesModel) TableName() string { return "appointment_series" }

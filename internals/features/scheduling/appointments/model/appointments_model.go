// file: internals/features/scheduling/appointments/model/appointments_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"agendaku_backend/internals/helpers/dbtime"
)

/* =========================================================
   Enum
========================================================= */

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
)

/* =========================================================
   Appointment (satu occurrence; standalone atau bagian series)
========================================================= */

type AppointmentModel struct {
	/* -----------------------------
	   PK & Tenant
	----------------------------- */
	AppointmentID             uuid.UUID  `gorm:"column:appointment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"appointment_id"`
	AppointmentProfessionalID uuid.UUID  `gorm:"column:appointment_professional_id;type:uuid;not null;index:idx_appointments_prof_date,priority:1" json:"appointment_professional_id"`
	AppointmentClientID       uuid.UUID  `gorm:"column:appointment_client_id;type:uuid;not null;index" json:"appointment_client_id"`
	AppointmentSeriesID       *uuid.UUID `gorm:"column:appointment_series_id;type:uuid;index" json:"appointment_series_id,omitempty"`

	/* -----------------------------
	   Waktu (tanggal sipil + jam lokal profesional)
	----------------------------- */
	AppointmentDate      datatypes.Date `gorm:"column:appointment_date;type:date;not null;index:idx_appointments_prof_date,priority:2" json:"appointment_date"`
	AppointmentStartTime dbtime.Tod     `gorm:"column:appointment_start_time;type:time;not null" json:"appointment_start_time"`
	AppointmentEndTime   dbtime.Tod     `gorm:"column:appointment_end_time;type:time;not null" json:"appointment_end_time"`

	// menit sejak 00:00, dipakai overlap check & exclusion constraint
	AppointmentStartMin int `gorm:"column:appointment_start_min;type:smallint;not null" json:"appointment_start_min"`
	AppointmentEndMin   int `gorm:"column:appointment_end_min;type:smallint;not null" json:"appointment_end_min"`

	/* -----------------------------
	   Konten
	----------------------------- */
	AppointmentStudentLabel string            `gorm:"column:appointment_student_label;type:varchar(160)" json:"appointment_student_label,omitempty"`
	AppointmentDescription  string            `gorm:"column:appointment_description;type:text" json:"appointment_description,omitempty"`
	AppointmentTagID        *uuid.UUID        `gorm:"column:appointment_tag_id;type:uuid" json:"appointment_tag_id,omitempty"`
	AppointmentStatus       AppointmentStatus `gorm:"column:appointment_status;type:varchar(16);not null;default:'scheduled'" json:"appointment_status"`

	/* -----------------------------
	   Timestamps
	----------------------------- */
	AppointmentCreatedAt time.Time      `gorm:"column:appointment_created_at;type:timestamptz;not null;autoCreateTime" json:"appointment_created_at"`
	AppointmentUpdatedAt time.Time      `gorm:"column:appointment_updated_at;type:timestamptz;not null;autoUpdateTime" json:"appointment_updated_at"`
	AppointmentDeletedAt gorm.DeletedAt `gorm:"column:appointment_deleted_at;index" json:"appointment_deleted_at,omitempty"`
}

func (AppointmentModel) TableName() string { return "appointments" }

// BeforeSave: kalau menit belum diisi, turunkan dari kolom TIME
func (m *AppointmentModel) BeforeSave(tx *gorm.DB) error {
	if m.AppointmentStartMin == 0 && m.AppointmentEndMin == 0 {
		m.AppointmentStartMin = m.AppointmentStartTime.Minutes()
		m.AppointmentEndMin = m.AppointmentEndTime.Minutes()
	}
	if m.AppointmentStatus == "" {
		m.AppointmentStatus = AppointmentStatusScheduled
	}
	return nil
}

func (m AppointmentModel) Day() time.Time {
	t := time.Time(m.AppointmentDate)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

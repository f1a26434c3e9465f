// file: internals/features/scheduling/appointments/dto/appointments_dto.go
package dto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	apptService "agendaku_backend/internals/features/scheduling/appointments/service"
	"agendaku_backend/internals/features/scheduling/availability"
	"agendaku_backend/internals/features/scheduling/recurrence"
)

/* =========================================================
   1) REQUESTS
========================================================= */

// POST /api/u/appointments
type CreateAppointmentRequest struct {
	ClientID     string  `json:"client_id"     validate:"required,uuid"`
	Date         string  `json:"date"          validate:"required,datetime=2006-01-02"`
	StartTime    string  `json:"start_time"    validate:"required"`
	EndTime      string  `json:"end_time"      validate:"required"`
	StudentLabel string  `json:"student_label" validate:"omitempty,max=160"`
	Description  string  `json:"description"   validate:"omitempty,max=2000"`
	TagID        *string `json:"tag_id"        validate:"omitempty,uuid"`
}

func (r CreateAppointmentRequest) ToInput() (apptService.BookInput, error) {
	clientID, err := uuid.Parse(strings.TrimSpace(r.ClientID))
	if err != nil {
		return apptService.BookInput{}, fmt.Errorf("client_id: %w", err)
	}
	date, err := recurrence.ParseDate(r.Date)
	if err != nil {
		return apptService.BookInput{}, err
	}
	rng, err := availability.NewTimeRange(r.StartTime, r.EndTime)
	if err != nil {
		return apptService.BookInput{}, err
	}
	in := apptService.BookInput{
		ClientID:     clientID,
		Date:         date,
		Range:        rng,
		StudentLabel: r.StudentLabel,
		Description:  r.Description,
	}
	if r.TagID != nil && strings.TrimSpace(*r.TagID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*r.TagID))
		if err != nil {
			return apptService.BookInput{}, fmt.Errorf("tag_id: %w", err)
		}
		in.TagID = &id
	}
	return in, nil
}

/* =========================================================
   2) RESPONSES
========================================================= */

type SlotGridResponse struct {
	Date          string              `json:"date"`
	FormattedDate string              `json:"formatted_date"`
	WeekdayName   string              `json:"weekday_name"`
	SlotMinutes   int                 `json:"slot_minutes"`
	Slots         []availability.Slot `json:"slots"`
	FreeCount     int                 `json:"free_count"`
	OccupiedCount int                 `json:"occupied_count"`
}

type AppointmentCreatedResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
}

type CalendarResponse struct {
	Start  string              `json:"start"`
	End    string              `json:"end"`
	Events []apptService.Event `json:"events"`
}

// file: internals/features/scheduling/appointments/controller/appointments_controller.go
package controller

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apptDTO "agendaku_backend/internals/features/scheduling/appointments/dto"
	apptService "agendaku_backend/internals/features/scheduling/appointments/service"
	"agendaku_backend/internals/features/scheduling/recurrence"
	helper "agendaku_backend/internals/helpers"
	helperAuth "agendaku_backend/internals/helpers/auth"
	"agendaku_backend/internals/helpers/datefmt"
	"agendaku_backend/internals/helpers/dbtime"
)

/* =========================
   Controller & Constructor
   ========================= */

type AppointmentController struct {
	Svc      *apptService.Service
	Validate *validator.Validate
}

func NewAppointmentController(svc *apptService.Service, v *validator.Validate) *AppointmentController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &AppointmentController{Svc: svc, Validate: v}
}

// default rentang kalender kalau query kosong
const defaultCalendarDays = 30

/* =========================
   GET /api/u/slots?date=YYYY-MM-DD
   ========================= */

func (ctl *AppointmentController) Slots(c *fiber.Ctx) error {
	profID, err := helperAuth.GetProfessionalIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	tz := ctl.Svc.Config().Timezone

	date := dbtime.Today(c, tz)
	if q := strings.TrimSpace(c.Query("date")); q != "" {
		if date, err = recurrence.ParseDate(q); err != nil {
			return helper.JsonErrorCode(c, http.StatusBadRequest, "INVALID_DATE", err.Error(), nil)
		}
	}

	grid, err := ctl.Svc.DayGrid(c.Context(), profID, date)
	if err != nil {
		log.Printf("[Slots] ❌ professional=%s date=%s: %v", profID, date.Format(recurrence.DateLayout), err)
		return helper.JsonError(c, http.StatusInternalServerError, "Gagal memuat grid slot")
	}

	resp := apptDTO.SlotGridResponse{
		Date:          date.Format(recurrence.DateLayout),
		FormattedDate: datefmt.FormatDate(date),
		WeekdayName:   datefmt.WeekdayName(date),
		SlotMinutes:   ctl.Svc.Config().SlotMinutes,
		Slots:         grid.Slots,
		FreeCount:     grid.FreeCount,
		OccupiedCount: grid.OccupiedCount,
	}
	return helper.JsonOKWithWarnings(c, "ok", resp, grid.Warnings())
}

/* =========================
   POST /api/u/appointments
   ========================= */

func (ctl *AppointmentController) Create(c *fiber.Ctx) error {
	profID, err := helperAuth.GetProfessionalIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req apptDTO.CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonErrorCode(c, http.StatusUnprocessableEntity, "INVALID_TEMPLATE", err.Error(), nil)
	}

	id, err := ctl.Svc.Book(c.Context(), profID, in)
	switch {
	case err == nil:
	case errors.Is(err, apptService.ErrTimeConflict):
		return helper.JsonErrorCode(c, http.StatusConflict, "TIME_CONFLICT", "Jam tersebut sudah terisi pada tanggal ini", nil)
	case errors.Is(err, apptService.ErrInvalidBooking):
		return helper.JsonErrorCode(c, http.StatusUnprocessableEntity, "INVALID_TEMPLATE", err.Error(), nil)
	default:
		log.Printf("[Appointments] ❌ book failed professional=%s: %v", profID, err)
		return helper.JsonErrorCode(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", "Gagal menyimpan janji temu", nil)
	}

	return helper.JsonCreated(c, "Janji temu berhasil dibuat", apptDTO.AppointmentCreatedResponse{
		AppointmentID: id,
		Date:          in.Date.Format(recurrence.DateLayout),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
}

/* =========================
   GET /api/u/calendar?start=&end=
   GET /api/u/calendar.ics?start=&end=
   ========================= */

func (ctl *AppointmentController) calendarRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	from := dbtime.Today(c, ctl.Svc.Config().Timezone)
	if q := strings.TrimSpace(c.Query("start")); q != "" {
		t, err := recurrence.ParseDate(firstDatePart(q))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	to := from.AddDate(0, 0, defaultCalendarDays)
	if q := strings.TrimSpace(c.Query("end")); q != "" {
		t, err := recurrence.ParseDate(firstDatePart(q))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}

// widget kalender kadang kirim ISO datetime penuh ("2026-11-01T00:00:00-03:00")
func firstDatePart(s string) string {
	if len(s) > 10 && s[10] == 'T' {
		return s[:10]
	}
	return s
}

func (ctl *AppointmentController) Calendar(c *fiber.Ctx) error {
	profID, err := helperAuth.GetProfessionalIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	from, to, err := ctl.calendarRange(c)
	if err != nil {
		return helper.JsonErrorCode(c, http.StatusBadRequest, "INVALID_DATE", err.Error(), nil)
	}

	loc := dbtime.GetLocation(c, ctl.Svc.Config().Timezone)
	events, err := ctl.Svc.CalendarFeed(c.Context(), profID, from, to, loc)
	if err != nil {
		if errors.Is(err, apptService.ErrInvalidRange) {
			return helper.JsonErrorCode(c, http.StatusBadRequest, "INVALID_DATE", err.Error(), nil)
		}
		log.Printf("[Calendar] ❌ professional=%s: %v", profID, err)
		return helper.JsonError(c, http.StatusInternalServerError, "Gagal memuat kalender")
	}
	return helper.JsonOK(c, "ok", apptDTO.CalendarResponse{
		Start:  from.Format(recurrence.DateLayout),
		End:    to.Format(recurrence.DateLayout),
		Events: events,
	})
}

func (ctl *AppointmentController) CalendarICS(c *fiber.Ctx) error {
	profID, err := helperAuth.GetProfessionalIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	from, to, err := ctl.calendarRange(c)
	if err != nil {
		return helper.JsonErrorCode(c, http.StatusBadRequest, "INVALID_DATE", err.Error(), nil)
	}

	var buf bytes.Buffer
	loc := dbtime.GetLocation(c, ctl.Svc.Config().Timezone)
	if err := ctl.Svc.CalendarICS(c.Context(), &buf, profID, from, to, loc); err != nil {
		if errors.Is(err, apptService.ErrInvalidRange) {
			return helper.JsonErrorCode(c, http.StatusBadRequest, "INVALID_DATE", err.Error(), nil)
		}
		log.Printf("[Calendar] ❌ ics professional=%s: %v", profID, err)
		return helper.JsonError(c, http.StatusInternalServerError, "Gagal memuat kalender")
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="agenda.ics"`)
	return c.Status(http.StatusOK).Send(buf.Bytes())
}

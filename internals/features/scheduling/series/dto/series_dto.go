// file: internals/features/scheduling/series/dto/series_dto.go
package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apptRepo "agendaku_backend/internals/features/scheduling/appointments/repository"
	"agendaku_backend/internals/features/scheduling/availability"
	"agendaku_backend/internals/features/scheduling/recurrence"
	seriesService "agendaku_backend/internals/features/scheduling/series/service"
	"agendaku_backend/internals/helpers/datefmt"
)

/* =========================================================
   1) REQUESTS
========================================================= */

// GET /api/u/series/preview?kind=weekly&weekdays=1,3&start_date=2026-11-02&max_occurrences=5
type PreviewQuery struct {
	Kind           string `query:"kind"`
	Interval       int    `query:"interval"`
	Weekdays       string `query:"weekdays"` // "1,3,5"
	DayOfMonth     int    `query:"day_of_month"`
	StartDate      string `query:"start_date"`
	EndDate        string `query:"end_date"`
	MaxOccurrences int    `query:"max_occurrences"`
}

func (q PreviewQuery) ToSpec() (recurrence.Spec, error) {
	wds, err := parseWeekdayList(q.Weekdays)
	if err != nil {
		return recurrence.Spec{}, err
	}
	return buildSpec(q.Kind, q.Interval, wds, q.DayOfMonth, q.StartDate, q.EndDate, q.MaxOccurrences)
}

// POST /api/u/series
// Field aturan divalidasi oleh recurrence (400 INVALID_SPEC); validator hanya untuk template (422).
type CreateSeriesRequest struct {
	Kind           string `json:"kind"`
	Interval       int    `json:"interval"`
	Weekdays       []int  `json:"weekdays"`
	DayOfMonth     int    `json:"day_of_month"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	MaxOccurrences int    `json:"max_occurrences"`

	ClientID     string  `json:"client_id"     validate:"required,uuid"`
	StartTime    string  `json:"start_time"    validate:"required"`
	EndTime      string  `json:"end_time"      validate:"required"`
	StudentLabel string  `json:"student_label" validate:"omitempty,max=160"`
	Description  string  `json:"description"   validate:"omitempty,max=2000"`
	TagID        *string `json:"tag_id"        validate:"omitempty,uuid"`
}

func (r CreateSeriesRequest) ToSpec() (recurrence.Spec, error) {
	return buildSpec(r.Kind, r.Interval, r.Weekdays, r.DayOfMonth, r.StartDate, r.EndDate, r.MaxOccurrences)
}

func (r CreateSeriesRequest) ToTemplate() (seriesService.Template, error) {
	var tpl seriesService.Template
	id, err := uuid.Parse(strings.TrimSpace(r.ClientID))
	if err != nil {
		return tpl, &seriesService.TemplateError{Field: "client_id", Message: "invalid uuid"}
	}
	rng, err := availability.NewTimeRange(r.StartTime, r.EndTime)
	if err != nil {
		return tpl, &seriesService.TemplateError{Field: "end_time", Message: err.Error()}
	}
	tpl = seriesService.Template{
		ClientID:     id,
		StudentLabel: strings.TrimSpace(r.StudentLabel),
		Description:  strings.TrimSpace(r.Description),
		Range:        rng,
	}
	if r.TagID != nil && strings.TrimSpace(*r.TagID) != "" {
		tag, err := uuid.Parse(strings.TrimSpace(*r.TagID))
		if err != nil {
			return tpl, &seriesService.TemplateError{Field: "tag_id", Message: "invalid uuid"}
		}
		tpl.TagID = &tag
	}
	return tpl, nil
}

/* =========================================================
   Helpers
========================================================= */

func buildSpec(kind string, interval int, weekdays []int, dom int, start, end string, maxOcc int) (recurrence.Spec, error) {
	k, err := recurrence.ParseKind(kind)
	if err != nil {
		return recurrence.Spec{}, err
	}
	if interval == 0 {
		interval = 1
	}
	spec := recurrence.Spec{
		Kind:           k,
		Interval:       interval,
		Weekdays:       weekdays,
		DayOfMonth:     dom,
		MaxOccurrences: maxOcc,
	}
	if spec.StartDate, err = recurrence.ParseDate(start); err != nil {
		return recurrence.Spec{}, &recurrence.SpecError{Field: "start_date", Message: err.Error()}
	}
	if s := strings.TrimSpace(end); s != "" {
		e, err := recurrence.ParseDate(s)
		if err != nil {
			return recurrence.Spec{}, &recurrence.SpecError{Field: "end_date", Message: err.Error()}
		}
		spec.EndDate = &e
	}
	return spec, nil
}

func parseWeekdayList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, &recurrence.SpecError{Field: "weekdays", Message: fmt.Sprintf("invalid weekday %q", part)}
		}
		out = append(out, n)
	}
	return out, nil
}

/* =========================================================
   2) RESPONSES
========================================================= */

type DateItem struct {
	Date          string `json:"date"`
	FormattedDate string `json:"formatted_date"`
	WeekdayName   string `json:"weekday_name"`
}

func NewDateItem(t time.Time) DateItem {
	return DateItem{
		Date:          t.Format(recurrence.DateLayout),
		FormattedDate: datefmt.FormatDate(t),
		WeekdayName:   datefmt.WeekdayName(t),
	}
}

type PreviewResponse struct {
	Items []DateItem `json:"items"`
	Count int        `json:"count"`
}

func NewPreviewResponse(dates []time.Time) PreviewResponse {
	items := make([]DateItem, 0, len(dates))
	for _, d := range dates {
		items = append(items, NewDateItem(d))
	}
	return PreviewResponse{Items: items, Count: len(items)}
}

type OccurrenceResponse struct {
	DateItem
	Status        string     `json:"status"`
	Reason        string     `json:"reason,omitempty"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
}

type CreateSeriesResponse struct {
	SeriesID        uuid.UUID            `json:"series_id"`
	TotalBooked     int                  `json:"total_booked"`
	TotalConflicted int                  `json:"total_conflicted"`
	Occurrences     []OccurrenceResponse `json:"occurrences"`
	RRule           string               `json:"rrule"`
	Truncated       bool                 `json:"truncated"`
}

func NewCreateSeriesResponse(res seriesService.Result) CreateSeriesResponse {
	out := CreateSeriesResponse{
		SeriesID:        res.SeriesID,
		TotalBooked:     res.TotalBooked,
		TotalConflicted: res.TotalConflicted,
		Occurrences:     make([]OccurrenceResponse, 0, len(res.Occurrences)),
		RRule:           res.RRule,
		Truncated:       res.Truncated,
	}
	for _, o := range res.Occurrences {
		out.Occurrences = append(out.Occurrences, OccurrenceResponse{
			DateItem:      NewDateItem(o.Date),
			Status:        string(o.Status),
			Reason:        string(o.Reason),
			AppointmentID: o.AppointmentID,
		})
	}
	return out
}

type TemplateResponse struct {
	ClientID     uuid.UUID  `json:"client_id"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	StudentLabel string     `json:"student_label,omitempty"`
	Description  string     `json:"description,omitempty"`
	TagID        *uuid.UUID `json:"tag_id,omitempty"`
}

type SeriesOccurrence struct {
	DateItem
	AppointmentID uuid.UUID `json:"appointment_id"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
}

type SeriesDetailResponse struct {
	SeriesID        uuid.UUID          `json:"series_id"`
	Kind            string             `json:"kind"`
	Interval        int                `json:"interval"`
	Weekdays        []int              `json:"weekdays,omitempty"`
	DayOfMonth      int                `json:"day_of_month,omitempty"`
	StartDate       string             `json:"start_date"`
	EndDate         *string            `json:"end_date,omitempty"`
	MaxOccurrences  int                `json:"max_occurrences,omitempty"`
	RRule           string             `json:"rrule"`
	Template        TemplateResponse   `json:"template"`
	TotalBooked     int                `json:"total_booked"`
	TotalConflicted int                `json:"total_conflicted"`
	Occurrences     []SeriesOccurrence `json:"occurrences"`
}

func NewSeriesDetailResponse(d seriesService.Detail) SeriesDetailResponse {
	out := SeriesDetailResponse{
		SeriesID:        d.Series.SeriesID,
		Kind:            string(d.Spec.Kind),
		Interval:        d.Spec.Interval,
		Weekdays:        d.Spec.Weekdays,
		DayOfMonth:      d.Spec.DayOfMonth,
		StartDate:       d.Spec.StartDate.Format(recurrence.DateLayout),
		MaxOccurrences:  d.Spec.MaxOccurrences,
		RRule:           d.Series.SeriesRRule,
		TotalBooked:     d.Series.SeriesTotalBooked,
		TotalConflicted: d.Series.SeriesTotalConflicted,
		Template: TemplateResponse{
			ClientID:     d.Template.ClientID,
			StartTime:    availability.FormatClock(d.Template.Range.StartMin),
			EndTime:      availability.FormatClock(d.Template.Range.EndMin),
			StudentLabel: d.Template.StudentLabel,
			Description:  d.Template.Description,
			TagID:        d.Template.TagID,
		},
		Occurrences: make([]SeriesOccurrence, 0, len(d.Occurrences)),
	}
	if d.Spec.EndDate != nil {
		s := d.Spec.EndDate.Format(recurrence.DateLayout)
		out.EndDate = &s
	}
	for _, r := range d.Occurrences {
		out.Occurrences = append(out.Occurrences, toSeriesOccurrence(r))
	}
	return out
}

func toSeriesOccurrence(r apptRepo.Row) SeriesOccurrence {
	return SeriesOccurrence{
		DateItem:      NewDateItem(r.Date),
		AppointmentID: r.ID,
		StartTime:     availability.FormatClock(r.Range.StartMin),
		EndTime:       availability.FormatClock(r.Range.EndMin),
	}
}

// file: internals/features/scheduling/appointments/service/calendar_ics.go
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const icsProductID = "-//agendaku//Agenda//PT-BR"

// CalendarICS writes the same feed as CalendarFeed as a VCALENDAR document.
func (s *Service) CalendarICS(ctx context.Context, w io.Writer, professionalID uuid.UUID, from, to time.Time, loc *time.Location) error {
	events, err := s.CalendarFeed(ctx, professionalID, from, to, loc)
	if err != nil {
		return err
	}
	return EncodeICS(w, events, time.Now().UTC())
}

func EncodeICS(w io.Writer, events []Event, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, ev := range events {
		cal.Children = append(cal.Children, toVEvent(ev, stamp))
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toVEvent(ev Event, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, ev.ID.String()+"@agendaku")
	ve.Props.SetText(ical.PropSummary, ev.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.SetDateTime(ical.PropDateTimeStart, ev.Start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, ev.End)
	if ev.Description != "" {
		ve.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Tag != "" {
		ve.Props.SetText(ical.PropCategories, ev.Tag)
	}
	if ev.Color != "" {
		ve.Props.SetText(ical.PropColor, ev.Color)
	}
	return ve
}

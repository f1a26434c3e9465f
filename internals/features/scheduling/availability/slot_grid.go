// file: internals/features/scheduling/availability/slot_grid.go
package availability

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var ErrInvalidGrid = errors.New("invalid slot grid parameters")

type SlotStatus string

const (
	SlotStatusFree     SlotStatus = "free"
	SlotStatusOccupied SlotStatus = "occupied"
)

// Booking is an existing appointment on the day being rendered.
type Booking struct {
	AppointmentID uuid.UUID
	Range         TimeRange
	ClientLabel   string
	Tag           string
}

type Occupant struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	ClientLabel   string    `json:"client_label"`
	Tag           string    `json:"tag,omitempty"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	DurationMin   int       `json:"duration_min"`
}

type Slot struct {
	Start     string     `json:"start"`
	End       string     `json:"end"`
	Range     TimeRange  `json:"-"`
	Status    SlotStatus `json:"status"`
	Occupants []Occupant `json:"occupants,omitempty"`
}

// Anomaly marks a slot holding bookings that overlap each other, which the
// booking path should have prevented.
type Anomaly struct {
	SlotStart      string      `json:"slot_start"`
	AppointmentIDs []uuid.UUID `json:"appointment_ids"`
}

func (a Anomaly) Message() string {
	return fmt.Sprintf("slot %s has %d overlapping bookings", a.SlotStart, len(a.AppointmentIDs))
}

type Grid struct {
	Slots         []Slot    `json:"slots"`
	FreeCount     int       `json:"free_count"`
	OccupiedCount int       `json:"occupied_count"`
	Anomalies     []Anomaly `json:"anomalies,omitempty"`
}

func (g Grid) Warnings() []string {
	out := make([]string, 0, len(g.Anomalies))
	for _, a := range g.Anomalies {
		out = append(out, a.Message())
	}
	return out
}

/* =========================
   Builder
========================= */

// BuildDay cuts window into fixed granularity slots (no partial trailing slot)
// and marks each one against bookings.
func BuildDay(window TimeRange, granularityMin int, bookings []Booking) (Grid, error) {
	if !window.Valid() {
		return Grid{}, fmt.Errorf("%w: window %s", ErrInvalidGrid, window)
	}
	if granularityMin <= 0 {
		return Grid{}, fmt.Errorf("%w: granularity must be positive, got %d", ErrInvalidGrid, granularityMin)
	}

	// urutan stabil walaupun input acak
	sorted := make([]Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Range.StartMin != sorted[j].Range.StartMin {
			return sorted[i].Range.StartMin < sorted[j].Range.StartMin
		}
		if sorted[i].Range.EndMin != sorted[j].Range.EndMin {
			return sorted[i].Range.EndMin < sorted[j].Range.EndMin
		}
		return sorted[i].AppointmentID.String() < sorted[j].AppointmentID.String()
	})

	grid := Grid{Slots: make([]Slot, 0, window.DurationMin()/granularityMin)}
	for s := window.StartMin; s+granularityMin <= window.EndMin; s += granularityMin {
		r := TimeRange{StartMin: s, EndMin: s + granularityMin}
		slot := Slot{
			Start:  FormatClock(r.StartMin),
			End:    FormatClock(r.EndMin),
			Range:  r,
			Status: SlotStatusFree,
		}

		var hits []Booking
		for _, b := range sorted {
			if Overlaps(r, b.Range) {
				hits = append(hits, b)
			}
		}

		if len(hits) > 0 {
			slot.Status = SlotStatusOccupied
			for _, b := range hits {
				slot.Occupants = append(slot.Occupants, Occupant{
					AppointmentID: b.AppointmentID,
					ClientLabel:   b.ClientLabel,
					Tag:           b.Tag,
					Start:         FormatClock(b.Range.StartMin),
					End:           FormatClock(b.Range.EndMin),
					DurationMin:   b.Range.DurationMin(),
				})
			}
			if ids := conflictingIDs(hits); len(ids) > 0 {
				grid.Anomalies = append(grid.Anomalies, Anomaly{SlotStart: slot.Start, AppointmentIDs: ids})
			}
			grid.OccupiedCount++
		} else {
			grid.FreeCount++
		}
		grid.Slots = append(grid.Slots, slot)
	}
	return grid, nil
}

// conflictingIDs returns the ids of bookings that overlap another booking in hits.
func conflictingIDs(hits []Booking) []uuid.UUID {
	if len(hits) < 2 {
		return nil
	}
	flag := make([]bool, len(hits))
	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			if hits[i].AppointmentID == hits[j].AppointmentID {
				continue
			}
			if Overlaps(hits[i].Range, hits[j].Range) {
				flag[i], flag[j] = true, true
			}
		}
	}
	var out []uuid.UUID
	for i, f := range flag {
		if f {
			out = append(out, hits[i].AppointmentID)
		}
	}
	return out
}

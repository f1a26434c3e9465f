// file: internals/features/scheduling/series/service/template.go
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"agendaku_backend/internals/features/scheduling/availability"
)

var ErrInvalidTemplate = errors.New("invalid appointment template")

type TemplateError struct {
	Field   string
	Message string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidTemplate.Error(), e.Field, e.Message)
}

func (e *TemplateError) Unwrap() error { return ErrInvalidTemplate }

// Template: field yang sama untuk semua occurrence dalam satu series
type Template struct {
	ClientID     uuid.UUID
	StudentLabel string
	Description  string
	Range        availability.TimeRange
	TagID        *uuid.UUID
}

func (t Template) validate() error {
	if t.ClientID == uuid.Nil {
		return &TemplateError{Field: "client_id", Message: "client is required"}
	}
	if !t.Range.Valid() {
		return &TemplateError{Field: "end_time", Message: "start time must be before end time"}
	}
	if len(t.StudentLabel) > 160 {
		return &TemplateError{Field: "student_label", Message: "must be at most 160 characters"}
	}
	return nil
}

/* =========================
   Snapshot JSON (kolom series_template)
========================= */

func (t Template) snapshot() datatypes.JSONMap {
	m := datatypes.JSONMap{
		"client_id":     t.ClientID.String(),
		"start_time":    availability.FormatClock(t.Range.StartMin),
		"end_time":      availability.FormatClock(t.Range.EndMin),
		"student_label": t.StudentLabel,
		"description":   t.Description,
	}
	if t.TagID != nil {
		m["tag_id"] = t.TagID.String()
	}
	return m
}

func templateFromSnapshot(m datatypes.JSONMap) (Template, error) {
	str := func(k string) string {
		if v, ok := m[k].(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}
	var t Template
	id, err := uuid.Parse(str("client_id"))
	if err != nil {
		return t, fmt.Errorf("template snapshot client_id: %w", err)
	}
	t.ClientID = id
	if t.Range, err = availability.NewTimeRange(str("start_time"), str("end_time")); err != nil {
		return t, fmt.Errorf("template snapshot range: %w", err)
	}
	t.StudentLabel = str("student_label")
	t.Description = str("description")
	if s := str("tag_id"); s != "" {
		tag, err := uuid.Parse(s)
		if err != nil {
			return t, fmt.Errorf("template snapshot tag_id: %w", err)
		}
		t.TagID = &tag
	}
	return t, nil
}

// file: internals/features/scheduling/series/controller/series_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"agendaku_backend/internals/configs"
	"agendaku_backend/internals/features/scheduling/recurrence"
	seriesDTO "agendaku_backend/internals/features/scheduling/series/dto"
	seriesService "agendaku_backend/internals/features/scheduling/series/service"
	helper "agendaku_backend/internals/helpers"
	helperAuth "agendaku_backend/internals/helpers/auth"
	"agendaku_backend/internals/helpers/dbtime"
)

/* =========================
   Controller & Constructor
   ========================= */

type SeriesController struct {
	Sched    *seriesService.Scheduler
	Cfg      configs.SchedulingConfig
	Validate *validator.Validate
}

func NewSeriesController(s *seriesService.Scheduler, cfg configs.SchedulingConfig, v *validator.Validate) *SeriesController {
	cfg.Normalize()
	if v == nil {
		v = helper.NewValidator()
	}
	return &SeriesController{Sched: s, Cfg: cfg, Validate: v}
}

/* =========================
   Error mapping
   ========================= */

func specError(c *fiber.Ctx, err error) error {
	var se *recurrence.SpecError
	if errors.As(err, &se) {
		return helper.JsonErrorCode(c, http.StatusBadRequest, "INVALID_SPEC", se.Error(),
			map[string][]string{se.Field: {se.Message}})
	}
	return helper.JsonErrorCode(c, http.StatusBadRequest, "INVALID_SPEC", err.Error(), nil)
}

func templateError(c *fiber.Ctx, err error) error {
	var te *seriesService.TemplateError
	if errors.As(err, &te) {
		return helper.JsonErrorCode(c, http.StatusUnprocessableEntity, "INVALID_TEMPLATE", te.Error(),
			map[string][]string{te.Field: {te.Message}})
	}
	return helper.JsonErrorCode(c, http.StatusUnprocessableEntity, "INVALID_TEMPLATE", err.Error(), nil)
}

func parseSeriesID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "series id tidak valid")
	}
	return id, nil
}

/* =========================
   GET /api/u/series/preview
   ========================= */

func (ctl *SeriesController) Preview(c *fiber.Ctx) error {
	if _, err := helperAuth.GetProfessionalIDFromToken(c); err != nil {
		return helper.FromFiberError(c, err)
	}

	var q seriesDTO.PreviewQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonErrorCode(c, http.StatusBadRequest, "INVALID_SPEC", "Query tidak valid", nil)
	}
	spec, err := q.ToSpec()
	if err != nil {
		return specError(c, err)
	}
	// preview tidak pernah lebih dari PreviewLimit tanggal
	if spec.MaxOccurrences > ctl.Cfg.PreviewLimit {
		spec.MaxOccurrences = ctl.Cfg.PreviewLimit
	}

	sched := ctl.Sched.In(dbtime.GetLocation(c, ctl.Cfg.Timezone))
	dates, err := sched.Preview(spec, ctl.Cfg.PreviewLimit)
	if err != nil {
		return specError(c, err)
	}
	return helper.JsonOK(c, "ok", seriesDTO.NewPreviewResponse(dates))
}

/* =========================
   POST /api/u/series
   ========================= */

func (ctl *SeriesController) Create(c *fiber.Ctx) error {
	profID, err := helperAuth.GetProfessionalIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req seriesDTO.CreateSeriesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Payload tidak valid")
	}
	spec, err := req.ToSpec()
	if err != nil {
		return specError(c, err)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	tpl, err := req.ToTemplate()
	if err != nil {
		return templateError(c, err)
	}

	sched := ctl.Sched.In(dbtime.GetLocation(c, ctl.Cfg.Timezone))
	res, err := sched.Materialize(c.UserContext(), profID, spec, tpl)
	switch {
	case err == nil:
	case errors.Is(err, recurrence.ErrInvalidSpec):
		return specError(c, err)
	case errors.Is(err, seriesService.ErrInvalidTemplate):
		return templateError(c, err)
	default:
		log.Printf("[Series] ❌ create failed professional=%s: %v", profID, err)
		return helper.JsonErrorCode(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", "Gagal menyimpan series", nil)
	}

	msg := "Series berhasil dibuat"
	if res.TotalConflicted > 0 {
		msg = "Series dibuat, sebagian tanggal bentrok"
	}
	var warnings []string
	if res.Truncated && len(res.Occurrences) > 0 {
		last := res.Occurrences[len(res.Occurrences)-1].Date
		warnings = append(warnings, fmt.Sprintf(
			"end_date melewati batas %d tanggal, series berhenti di %s",
			recurrence.MaxExpansion, last.Format(recurrence.DateLayout)))
	}
	return helper.JsonCreatedWithWarnings(c, msg, seriesDTO.NewCreateSeriesResponse(res), warnings)
}

/* =========================
   GET /api/u/series/:id
   ========================= */

func (ctl *SeriesController) Detail(c *fiber.Ctx) error {
	profID, err := helperAuth.GetProfessionalIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := parseSeriesID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	d, err := ctl.Sched.Get(c.Context(), profID, id)
	if err != nil {
		if errors.Is(err, seriesService.ErrSeriesNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "Series tidak ditemukan")
		}
		log.Printf("[Series] ❌ detail %s: %v", id, err)
		return helper.JsonError(c, http.StatusInternalServerError, "Gagal memuat series")
	}
	return helper.JsonOK(c, "ok", seriesDTO.NewSeriesDetailResponse(d))
}

/* =========================
   DELETE /api/u/series/:id?from=YYYY-MM-DD
   ========================= */

func (ctl *SeriesController) Cancel(c *fiber.Ctx) error {
	profID, err := helperAuth.GetProfessionalIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := parseSeriesID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	from := dbtime.Today(c, ctl.Cfg.Timezone)
	if q := strings.TrimSpace(c.Query("from")); q != "" {
		if from, err = recurrence.ParseDate(q); err != nil {
			return helper.JsonErrorCode(c, http.StatusBadRequest, "INVALID_DATE", err.Error(), nil)
		}
	}

	n, err := ctl.Sched.Cancel(c.Context(), profID, id, from)
	if err != nil {
		if errors.Is(err, seriesService.ErrSeriesNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "Series tidak ditemukan")
		}
		log.Printf("[Series] ❌ cancel %s: %v", id, err)
		return helper.JsonError(c, http.StatusInternalServerError, "Gagal membatalkan series")
	}
	return helper.JsonDeleted(c, "Series dibatalkan", fiber.Map{
		"series_id": id,
		"from":      from.Format(recurrence.DateLayout),
		"removed":   n,
	})
}

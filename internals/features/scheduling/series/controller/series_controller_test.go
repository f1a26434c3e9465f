package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendaku_backend/internals/configs"
	apptRepo "agendaku_backend/internals/features/scheduling/appointments/repository"
	"agendaku_backend/internals/features/scheduling/availability"
	clientService "agendaku_backend/internals/features/scheduling/clients/service"
	seriesRepo "agendaku_backend/internals/features/scheduling/series/repository"
	seriesService "agendaku_backend/internals/features/scheduling/series/service"
	helperAuth "agendaku_backend/internals/helpers/auth"
)

type harness struct {
	app    *fiber.App
	appts  *apptRepo.MemoryRepo
	client clientService.ClientView
	prof   uuid.UUID
}

// identity dibaca dari header X-Test-Professional supaya satu app bisa dipakai dua profesional
func newHarness(t *testing.T) harness {
	t.Helper()
	clients := clientService.NewMemoryFinder()
	appts := apptRepo.NewMemoryRepo(clients)
	prof := uuid.New()
	client := clients.PutClient(prof, clientService.ClientView{Name: "Ana"})

	sched := &seriesService.Scheduler{
		Series:      seriesRepo.NewMemoryRepo(),
		Occurrences: appts,
		Conflicts:   appts,
		Clients:     clients,
		Now:         func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) },
		Location:    time.UTC,
	}
	ctl := NewSeriesController(sched, configs.DefaultScheduling(), nil)

	app := fiber.New()
	api := app.Group("/api/u", func(c *fiber.Ctx) error {
		if id := c.Get("X-Test-Professional"); id != "" {
			c.Locals(helperAuth.LocProfessionalID, id)
		}
		if tz := c.Get("X-Test-Tz"); tz != "" {
			c.Locals(helperAuth.LocTimezone, tz)
		}
		return c.Next()
	})
	api.Get("/series/preview", ctl.Preview)
	api.Post("/series", ctl.Create)
	api.Get("/series/:id", ctl.Detail)
	api.Delete("/series/:id", ctl.Cancel)
	return harness{app: app, appts: appts, client: client, prof: prof}
}

func (h harness) do(t *testing.T, method, path, body string, prof uuid.UUID) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if prof != uuid.Nil {
		req.Header.Set("X-Test-Professional", prof.String())
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestCreateSeriesWithOneConflict(t *testing.T) {
	h := newHarness(t)
	h.appts.Insert(apptRepo.Occurrence{
		ProfessionalID: h.prof,
		ClientID:       h.client.ID,
		Date:           time.Date(2026, 11, 4, 0, 0, 0, 0, time.UTC),
		Range:          availability.TimeRange{StartMin: 600, EndMin: 660},
	})

	body := `{"kind":"weekly","interval":1,"weekdays":[1,3],"start_date":"2026-11-02","max_occurrences":4,
		"client_id":"` + h.client.ID.String() + `","start_time":"10:00","end_time":"11:00","student_label":"Pedro"}`
	status, out := h.do(t, http.MethodPost, "/api/u/series", body, h.prof)
	require.Equal(t, http.StatusCreated, status)

	data := out["data"].(map[string]any)
	assert.EqualValues(t, 3, data["total_booked"])
	assert.EqualValues(t, 1, data["total_conflicted"])
	occ := data["occurrences"].([]any)
	require.Len(t, occ, 4)
	second := occ[1].(map[string]any)
	assert.Equal(t, "2026-11-04", second["date"])
	assert.Equal(t, "04/11/2026", second["formatted_date"])
	assert.Equal(t, "conflicted", second["status"])
	assert.Equal(t, "TIME_CONFLICT", second["reason"])

	seriesID := data["series_id"].(string)
	status, out = h.do(t, http.MethodGet, "/api/u/series/"+seriesID, "", h.prof)
	require.Equal(t, http.StatusOK, status)
	detail := out["data"].(map[string]any)
	assert.Len(t, detail["occurrences"], 3)
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=1;COUNT=4;BYDAY=MO,WE", detail["rrule"])

	// another professional cannot see it
	status, _ = h.do(t, http.MethodGet, "/api/u/series/"+seriesID, "", uuid.New())
	assert.Equal(t, http.StatusNotFound, status)

	status, out = h.do(t, http.MethodDelete, "/api/u/series/"+seriesID+"?from=2026-11-01", "", h.prof)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, out["data"].(map[string]any)["removed"])
}

func TestCreateSeriesErrors(t *testing.T) {
	h := newHarness(t)
	client := h.client.ID.String()

	tests := []struct {
		name     string
		body     string
		prof     uuid.UUID
		status   int
		code     string
		errField string
	}{
		{
			name:     "weekly without weekdays",
			body:     `{"kind":"semanal","start_date":"2026-11-02","max_occurrences":4,"client_id":"` + client + `","start_time":"10:00","end_time":"11:00"}`,
			prof:     h.prof,
			status:   http.StatusBadRequest,
			code:     "INVALID_SPEC",
			errField: "weekdays",
		},
		{
			name:     "start date in the past",
			body:     `{"kind":"daily","start_date":"2026-10-01","max_occurrences":4,"client_id":"` + client + `","start_time":"10:00","end_time":"11:00"}`,
			prof:     h.prof,
			status:   http.StatusBadRequest,
			code:     "INVALID_SPEC",
			errField: "start_date",
		},
		{
			name:     "unknown kind",
			body:     `{"kind":"yearly","start_date":"2026-11-02","max_occurrences":4,"client_id":"` + client + `","start_time":"10:00","end_time":"11:00"}`,
			prof:     h.prof,
			status:   http.StatusBadRequest,
			code:     "INVALID_SPEC",
			errField: "kind",
		},
		{
			name:     "end time before start time",
			body:     `{"kind":"daily","start_date":"2026-11-02","max_occurrences":4,"client_id":"` + client + `","start_time":"11:00","end_time":"10:00"}`,
			prof:     h.prof,
			status:   http.StatusUnprocessableEntity,
			code:     "INVALID_TEMPLATE",
			errField: "end_time",
		},
		{
			name:     "missing client",
			body:     `{"kind":"daily","start_date":"2026-11-02","max_occurrences":4,"start_time":"10:00","end_time":"11:00"}`,
			prof:     h.prof,
			status:   http.StatusUnprocessableEntity,
			code:     "VALIDATION_ERROR",
			errField: "client_id",
		},
		{
			name:     "client not owned",
			body:     `{"kind":"daily","start_date":"2026-11-02","max_occurrences":4,"client_id":"` + client + `","start_time":"10:00","end_time":"11:00"}`,
			prof:     uuid.New(),
			status:   http.StatusUnprocessableEntity,
			code:     "INVALID_TEMPLATE",
			errField: "client_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := h.do(t, http.MethodPost, "/api/u/series", tt.body, tt.prof)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, out["error_code"])
			require.Contains(t, out, "errors")
			assert.Contains(t, out["errors"], tt.errField)
		})
	}

	rows, err := h.appts.ListRange(t.Context(), h.prof, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, rows, "rejected requests never persist occurrences")
}

func TestCreateSeriesRequiresIdentity(t *testing.T) {
	h := newHarness(t)
	status, out := h.do(t, http.MethodPost, "/api/u/series", `{"kind":"daily"}`, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", out["error_code"])
}

func TestPreview(t *testing.T) {
	h := newHarness(t)

	status, out := h.do(t, http.MethodGet, "/api/u/series/preview?kind=weekly&weekdays=1,3&start_date=2026-11-02&max_occurrences=5", "", h.prof)
	require.Equal(t, http.StatusOK, status)
	data := out["data"].(map[string]any)
	assert.EqualValues(t, 5, data["count"])
	first := data["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "2026-11-02", first["date"])
	assert.Equal(t, "Segunda-feira", first["weekday_name"])

	status, out = h.do(t, http.MethodGet, "/api/u/series/preview?kind=daily&start_date=2026-11-02&max_occurrences=50", "", h.prof)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 10, out["data"].(map[string]any)["count"], "preview is capped at 10 dates")

	status, out = h.do(t, http.MethodGet, "/api/u/series/preview?kind=semanal&start_date=2026-11-02&max_occurrences=4", "", h.prof)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_SPEC", out["error_code"])
	assert.Nil(t, out["data"])
	fieldErrs, ok := out["errors"].(map[string]any)
	require.True(t, ok, "field errors expected")
	assert.Contains(t, fieldErrs, "weekdays")
	assert.NotEmpty(t, fieldErrs["weekdays"])

	status, _ = h.do(t, http.MethodGet, "/api/u/series/preview?kind=mensal&day_of_month=31&start_date=2027-01-31&max_occurrences=3", "", h.prof)
	assert.Equal(t, http.StatusOK, status)
}

func TestPreviewUsesTokenTimezone(t *testing.T) {
	h := newHarness(t)
	// 12:00 UTC 16/10 sudah 17/10 di Pacific/Kiritimati (UTC+14)
	path := "/api/u/series/preview?kind=daily&start_date=2026-10-16&max_occurrences=2"

	status, _ := h.do(t, http.MethodGet, path, "", h.prof)
	assert.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Test-Professional", h.prof.String())
	req.Header.Set("X-Test-Tz", "Pacific/Kiritimati")
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INVALID_SPEC", out["error_code"])
	assert.Contains(t, out["errors"], "start_date")
}

func TestCreateSeriesWarnsWhenEndDateBeyondLimit(t *testing.T) {
	h := newHarness(t)
	body := `{"kind":"daily","interval":1,"start_date":"2026-11-01","end_date":"2030-12-31",
		"client_id":"` + h.client.ID.String() + `","start_time":"07:00","end_time":"07:30"}`
	status, out := h.do(t, http.MethodPost, "/api/u/series", body, h.prof)
	require.Equal(t, http.StatusCreated, status)

	data := out["data"].(map[string]any)
	assert.Equal(t, true, data["truncated"])
	assert.EqualValues(t, 366, data["total_booked"])
	assert.Equal(t, "FREQ=DAILY;INTERVAL=1;UNTIL=20271101T000000Z", data["rrule"])

	warnings, ok := out["warnings"].([]any)
	require.True(t, ok)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "2027-11-01")
}

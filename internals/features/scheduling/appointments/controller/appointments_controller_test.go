package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendaku_backend/internals/configs"
	apptRepo "agendaku_backend/internals/features/scheduling/appointments/repository"
	apptService "agendaku_backend/internals/features/scheduling/appointments/service"
	clientService "agendaku_backend/internals/features/scheduling/clients/service"
	helperAuth "agendaku_backend/internals/helpers/auth"
)

func newTestApp(t *testing.T, prof uuid.UUID) (*fiber.App, clientService.ClientView) {
	t.Helper()
	clients := clientService.NewMemoryFinder()
	client := clients.PutClient(prof, clientService.ClientView{Name: "Ana"})
	svc, err := apptService.New(apptRepo.NewMemoryRepo(clients), clients, configs.DefaultScheduling())
	require.NoError(t, err)

	app := fiber.New()
	ctl := NewAppointmentController(svc, nil)
	api := app.Group("/api/u", func(c *fiber.Ctx) error {
		if prof != uuid.Nil {
			c.Locals(helperAuth.LocProfessionalID, prof.String())
		}
		return c.Next()
	})
	api.Get("/slots", ctl.Slots)
	api.Post("/appointments", ctl.Create)
	api.Get("/calendar", ctl.Calendar)
	api.Get("/calendar.ics", ctl.CalendarICS)
	return app, client
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateAppointmentAndConflict(t *testing.T) {
	prof := uuid.New()
	app, client := newTestApp(t, prof)
	body := `{"client_id":"` + client.ID.String() + `","date":"2026-11-02","start_time":"09:00","end_time":"10:00"}`

	resp := postJSON(t, app, "/api/u/appointments", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/u/appointments", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "TIME_CONFLICT", decode(t, resp)["error_code"])
}

func TestCreateAppointmentValidation(t *testing.T) {
	app, client := newTestApp(t, uuid.New())

	resp := postJSON(t, app, "/api/u/appointments", `{"date":"2026-11-02"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs := decode(t, resp)["errors"].(map[string]any)
	assert.Contains(t, errs, "client_id")
	assert.Contains(t, errs, "start_time")

	body := `{"client_id":"` + client.ID.String() + `","date":"2026-11-02","start_time":"10:00","end_time":"09:00"}`
	resp = postJSON(t, app, "/api/u/appointments", body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INVALID_TEMPLATE", decode(t, resp)["error_code"])
}

func TestSlotsRequiresIdentity(t *testing.T) {
	app, _ := newTestApp(t, uuid.Nil)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/u/slots?date=2026-11-02", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSlotsAfterBooking(t *testing.T) {
	app, client := newTestApp(t, uuid.New())
	body := `{"client_id":"` + client.ID.String() + `","date":"2026-11-02","start_time":"09:00","end_time":"10:00"}`
	require.Equal(t, http.StatusCreated, postJSON(t, app, "/api/u/appointments", body).StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/u/slots?date=2026-11-02", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	assert.Equal(t, "02/11/2026", data["formatted_date"])
	assert.Equal(t, "Segunda-feira", data["weekday_name"])
	assert.EqualValues(t, 9, data["free_count"])
	assert.EqualValues(t, 1, data["occupied_count"])
	assert.Len(t, data["slots"], 10)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/u/slots?date=02-11-2026", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCalendarICSContentType(t *testing.T) {
	app, client := newTestApp(t, uuid.New())
	body := `{"client_id":"` + client.ID.String() + `","date":"2026-11-02","start_time":"09:00","end_time":"10:00"}`
	require.Equal(t, http.StatusCreated, postJSON(t, app, "/api/u/appointments", body).StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/u/calendar.ics?start=2026-11-01&end=2026-11-30", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "SUMMARY:Ana")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/u/calendar?start=2026-11-01T00:00:00-03:00&end=2026-11-30", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decode(t, resp)["data"].(map[string]any)
	assert.Len(t, data["events"], 1)
}

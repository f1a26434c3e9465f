// file: internals/features/scheduling/appointments/route/appointments_route.go
package route

import (
	apptController "agendaku_backend/internals/features/scheduling/appointments/controller"
	apptService "agendaku_backend/internals/features/scheduling/appointments/service"

	"github.com/gofiber/fiber/v2"
)

// AppointmentUserRoutes: grid slot, booking tunggal, feed kalender (butuh login)
func AppointmentUserRoutes(user fiber.Router, svc *apptService.Service) {
	ctl := apptController.NewAppointmentController(svc, nil)

	user.Get("/slots", ctl.Slots)
	user.Post("/appointments", ctl.Create)
	user.Get("/calendar", ctl.Calendar)
	user.Get("/calendar.ics", ctl.CalendarICS)
}

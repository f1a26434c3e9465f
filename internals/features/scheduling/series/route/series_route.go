// file: internals/features/scheduling/series/route/series_route.go
package route

import (
	"agendaku_backend/internals/configs"
	seriesController "agendaku_backend/internals/features/scheduling/series/controller"
	seriesService "agendaku_backend/internals/features/scheduling/series/service"

	"github.com/gofiber/fiber/v2"
)

// SeriesUserRoutes: preview & materialisasi series (butuh login)
func SeriesUserRoutes(user fiber.Router, sched *seriesService.Scheduler, cfg configs.SchedulingConfig) {
	ctl := seriesController.NewSeriesController(sched, cfg, nil)

	grp := user.Group("/series")
	grp.Get("/preview", ctl.Preview)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Detail)
	grp.Delete("/:id", ctl.Cancel)
}

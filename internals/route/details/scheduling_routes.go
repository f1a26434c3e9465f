package details

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"agendaku_backend/internals/configs"
	apptRepo "agendaku_backend/internals/features/scheduling/appointments/repository"
	apptRoute "agendaku_backend/internals/features/scheduling/appointments/route"
	apptService "agendaku_backend/internals/features/scheduling/appointments/service"
	clientService "agendaku_backend/internals/features/scheduling/clients/service"
	seriesRepo "agendaku_backend/internals/features/scheduling/series/repository"
	seriesRoute "agendaku_backend/internals/features/scheduling/series/route"
	seriesService "agendaku_backend/internals/features/scheduling/series/service"
	"agendaku_backend/internals/helpers/dbtime"
	"agendaku_backend/internals/middlewares"
)

// SchedulingUserRoutes: grid, booking, kalender, series (semua di bawah /api/u)
func SchedulingUserRoutes(user fiber.Router, db *gorm.DB) {
	cfg := configs.Scheduling

	clients := clientService.NewGormFinder(db)
	appts := apptRepo.NewGormRepo(db, log.Default())

	svc, err := apptService.New(appts, clients, cfg)
	if err != nil {
		log.Fatalf("❌ Scheduling config tidak valid: %v", err)
	}

	sched := &seriesService.Scheduler{
		Series:      seriesRepo.NewGormRepo(db, log.Default()),
		Occurrences: appts,
		Conflicts:   appts,
		Clients:     clients,
		Now:         time.Now,
		Location:    dbtime.LoadLocOrDefault(cfg.Timezone, "UTC"),
	}

	apptRoute.AppointmentUserRoutes(user, svc)

	user.Use("/series", middlewares.SeriesWriteRateLimiter())
	seriesRoute.SeriesUserRoutes(user, sched, svc.Config())
}

// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	helperAuth "agendaku_backend/internals/helpers/auth"
)

const LocProfessionalLoc = "professional_loc" // *time.Location (cache per request)

// LoadLocOrDefault: IANA name → *time.Location, fallback ke def lalu UTC
func LoadLocOrDefault(tz, def string) *time.Location {
	for _, name := range []string{strings.TrimSpace(tz), strings.TrimSpace(def)} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

// GetLocation ambil timezone profesional:
// 1) cache c.Locals("professional_loc")
// 2) klaim "tz" dari token
// 3) fallback defaultTZ (config), terakhir UTC
func GetLocation(c *fiber.Ctx, defaultTZ string) *time.Location {
	if c == nil {
		return LoadLocOrDefault("", defaultTZ)
	}
	if loc, ok := c.Locals(LocProfessionalLoc).(*time.Location); ok && loc != nil {
		return loc
	}
	loc := LoadLocOrDefault(helperAuth.GetTimezoneFromToken(c), defaultTZ)
	c.Locals(LocProfessionalLoc, loc)
	return loc
}

// Today: tanggal sipil hari ini di zona profesional (midnight UTC)
func Today(c *fiber.Ctx, defaultTZ string) time.Time {
	return CivilToday(time.Now(), GetLocation(c, defaultTZ))
}

func CivilToday(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// At menggabungkan tanggal sipil + menit sejak 00:00 di zona loc
func At(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc).Add(time.Duration(minutes) * time.Minute)
}

// file: internals/helpers/datefmt/datefmt.go
package datefmt

import "time"

// Label tampilan (pt-BR), dipakai di preview & feed kalender
var weekdayNames = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// FormatDate → "dd/mm/yyyy"
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func WeekdayName(t time.Time) string {
	return weekdayNames[t.Weekday()]
}

// ShortWeekday → "Seg", "Ter", ...
func ShortWeekday(t time.Time) string {
	r := []rune(WeekdayName(t))
	return string(r[:3])
}

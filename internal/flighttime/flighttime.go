package flighttime

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

const civilDateLayout = "2006-01-02"

// ParseCivilDate парсит строгий yyyy-mm-dd в UTC midnight.
func ParseCivilDate(s string) (time.Time, error) {
	t, err := time.Parse(civilDateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse civil date")
	}
	return t.UTC(), nil
}

func FormatCivilDate(t time.Time) string {
	return t.UTC().Format(civilDateLayout)
}

// DayWindowUTC — границы календарного дня [00:00:00Z, 23:59:59Z]
// для провайдеров с range-запросами.
func DayWindowUTC(date time.Time) (time.Time, time.Time) {
	y, m, d := date.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	return start, end
}

func SameCivilDateUTC(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DelayMinutes — задержка в минутах между плановым и фактическим временем,
// округлённая до целой минуты и обрезанная снизу нулём.
func DelayMinutes(scheduled, actual time.Time) int {
	if scheduled.IsZero() || actual.IsZero() {
		return 0
	}
	mins := int(math.Round(actual.Sub(scheduled).Minutes()))
	if mins < 0 {
		return 0
	}
	return mins
}

// Провайдеры пишут таймстемпы кто во что горазд: с зоной, без зоны, с миллисекундами.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp пробует известные варианты; без зоны считаем UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized timestamp %q", s)
}

package flights

import "github.com/avioclaim/flightcheck/internal/models"

// Порог задержки для компенсации: больше трёх часов.
const eligibleDelayMinutes = 180

// Evaluate — чистая функция правила компенсации: отмена либо задержка
// строго больше порога. Возвращает копию записи с финальными
// isEligible/reason; вход не мутируется.
func Evaluate(rec models.FlightRecord) models.FlightRecord {
	cancelled := rec.Reason == models.ReasonCancellation

	delay := rec.DelayMinutes
	if delay < 0 {
		delay = 0
	}

	eligible := delay > eligibleDelayMinutes || cancelled

	reason := ""
	switch {
	case cancelled:
		reason = models.ReasonCancellation
	case eligible:
		reason = models.ReasonDelay
	}

	rec.IsEligible = eligible
	rec.Reason = reason
	rec.DelayMinutes = delay
	return rec
}

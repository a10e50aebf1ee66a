package flights

import (
	"context"
	"log/slog"

	"github.com/avioclaim/flightcheck/internal/models"
)

// resolveFromProviders идёт по цепочке провайдеров в фиксированном порядке
// и возвращает первую запись, прошедшую структурный валидатор, вместе с
// именем провайдера. Ошибка провайдера и невалидная запись эквивалентны
// отсутствию данных; повторных попыток внутри одного резолва нет.
func (s *Service) resolveFromProviders(ctx context.Context, q models.FlightQuery) (*models.FlightRecord, string) {
	for _, p := range s.providers {
		rec, err := p.Resolve(ctx, q)
		if err != nil {
			slog.Warn("provider fault, falling through",
				"provider", p.Name(), "carrier", q.CarrierCode, "flight", q.FlightCode, "err", err)
			continue
		}
		if rec == nil {
			continue
		}
		if err := models.ValidateFlightRecord(rec); err != nil {
			// Лог нужен для мониторинга качества провайдера, записи не место
			// ни в кэше, ни в хранилище.
			slog.Warn("provider returned non-canonical record, discarding",
				"provider", p.Name(), "carrier", q.CarrierCode, "flight", q.FlightCode, "err", err)
			continue
		}
		return rec, p.Name()
	}
	return nil, ""
}

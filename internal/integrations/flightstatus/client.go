package flightstatus

import (
	"context"

	"github.com/avioclaim/flightcheck/internal/models"
)

// Client — один внешний источник статусов рейсов.
// (nil, nil) означает "у провайдера нет данных". Ошибка для оркестратора
// эквивалентна отсутствию данных: цепочка просто идёт к следующему провайдеру.
type Client interface {
	Name() string
	Resolve(ctx context.Context, q models.FlightQuery) (*models.FlightRecord, error)
}

package refdata

import (
	"context"

	"github.com/avioclaim/flightcheck/internal/models"
)

// Справочники авиакомпаний и аэропортов. Реализация сверху read-only
// статической базы; с точки зрения пайплайна — чистые lookup'ы.
// (nil, nil) — кода нет в справочнике; вызывающий обязан уметь жить без него.

type AirlineDirectory interface {
	AirlineByIATA(ctx context.Context, iata string) (*models.Airline, error)
}

type AirportDirectory interface {
	AirportByICAO(ctx context.Context, icao string) (*models.AirportRef, error)
}

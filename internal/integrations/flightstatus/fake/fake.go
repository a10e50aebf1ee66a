package fake

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync/atomic"
	"time"

	"github.com/avioclaim/flightcheck/internal/models"
)

// Client — детерминированная заглушка провайдера для dev-режима и тестов.
// Статус рейса вычисляется по хэшу (carrier, flight): часть рейсов отменена,
// часть задержана за порогом, остальные в норме. Считает вызовы, чтобы тесты
// могли проверить "ноль обращений к провайдеру" на cache hit.
type Client struct {
	name  string
	calls atomic.Int64
}

func New(name string) *Client {
	if name == "" {
		name = "fake"
	}
	return &Client{name: name}
}

func (c *Client) Name() string { return c.name }

func (c *Client) Calls() int64 { return c.calls.Load() }

func (c *Client) Resolve(ctx context.Context, q models.FlightQuery) (*models.FlightRecord, error) {
	c.calls.Add(1)

	h := fnv.New32a()
	_, _ = h.Write([]byte(q.CarrierCode))
	_, _ = h.Write([]byte("|"))
	_, _ = h.Write([]byte(q.FlightCode))
	v := h.Sum32()

	// ~10% рейсов отменены, ~30% задержаны сильнее трёх часов.
	reason := ""
	delayMinutes := int(v % 120)
	switch {
	case v%10 == 0:
		reason = models.ReasonCancellation
		delayMinutes = 0
	case v%10 <= 3:
		delayMinutes = 181 + int(v%120)
	}

	dep := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 11, 0, 0, 0, time.UTC)
	arr := dep.Add(2*time.Hour + time.Duration(delayMinutes)*time.Minute)

	return &models.FlightRecord{
		Reason:             reason,
		DelayMinutes:       delayMinutes,
		ArrivalDateUTC:     arr.Format(time.RFC3339),
		ArrivalDateLocal:   arr.Add(time.Hour).Format("2006-01-02T15:04:05"),
		DepartureDateUTC:   dep.Format(time.RFC3339),
		DepartureDateLocal: dep.Add(time.Hour).Format("2006-01-02T15:04:05"),
		DepartureAirport: models.AirportRef{
			Name: "Fake Departure", City: "Faketown",
			ICAO: fmt.Sprintf("FD%02d", v%100), IATA: "FKD",
		},
		ArrivalAirport: models.AirportRef{
			Name: "Fake Arrival", City: "Fakeburg",
			ICAO: fmt.Sprintf("FA%02d", v%100), IATA: "FKA",
		},
	}, nil
}

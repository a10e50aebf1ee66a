package flights

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/avioclaim/flightcheck/internal/models"
)

// slowClient — провайдер с управляемой задержкой для теста коалесцирования.
type slowClient struct {
	rec   *models.FlightRecord
	delay time.Duration
	calls atomic.Int64
}

func (c *slowClient) Name() string { return "slow" }

func (c *slowClient) Resolve(ctx context.Context, q models.FlightQuery) (*models.FlightRecord, error) {
	c.calls.Add(1)
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	out := *c.rec
	return &out, nil
}

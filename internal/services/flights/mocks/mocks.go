package mocks

import (
	"context"
	"time"

	"github.com/avioclaim/flightcheck/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindFlight(ctx context.Context, flightNumber string, date time.Time) (*models.PersistedFlight, error) {
	args := m.Called(ctx, flightNumber, date)
	var f *models.PersistedFlight
	if v := args.Get(0); v != nil {
		f = v.(*models.PersistedFlight)
	}
	return f, args.Error(1)
}

func (m *MockRepository) SaveFlight(ctx context.Context, flightNumber string, date time.Time, rec *models.FlightRecord) (*models.PersistedFlight, error) {
	args := m.Called(ctx, flightNumber, date, rec)
	var f *models.PersistedFlight
	if v := args.Get(0); v != nil {
		f = v.(*models.PersistedFlight)
	}
	return f, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

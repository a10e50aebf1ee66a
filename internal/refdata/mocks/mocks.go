package mocks

import (
	"context"

	"github.com/avioclaim/flightcheck/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockAirlineDirectory struct {
	mock.Mock
}

func (m *MockAirlineDirectory) AirlineByIATA(ctx context.Context, iata string) (*models.Airline, error) {
	args := m.Called(ctx, iata)
	var a *models.Airline
	if v := args.Get(0); v != nil {
		a = v.(*models.Airline)
	}
	return a, args.Error(1)
}

type MockAirportDirectory struct {
	mock.Mock
}

func (m *MockAirportDirectory) AirportByICAO(ctx context.Context, icao string) (*models.AirportRef, error) {
	args := m.Called(ctx, icao)
	var a *models.AirportRef
	if v := args.Get(0); v != nil {
		a = v.(*models.AirportRef)
	}
	return a, args.Error(1)
}

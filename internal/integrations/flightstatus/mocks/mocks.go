package mocks

import (
	"context"

	"github.com/avioclaim/flightcheck/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock

	ClientName string
}

func (m *MockClient) Name() string {
	if m.ClientName != "" {
		return m.ClientName
	}
	return "mock"
}

func (m *MockClient) Resolve(ctx context.Context, q models.FlightQuery) (*models.FlightRecord, error) {
	args := m.Called(ctx, q)
	var rec *models.FlightRecord
	if v := args.Get(0); v != nil {
		rec = v.(*models.FlightRecord)
	}
	return rec, args.Error(1)
}

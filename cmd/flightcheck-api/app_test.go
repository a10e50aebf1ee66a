package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/avioclaim/flightcheck/internal/services/flights"
	"github.com/stretchr/testify/require"
)

type fakeService struct{}

func (s *fakeService) CheckEligibility(ctx context.Context, flightNumber, date string) (*flights.EligibilityResponse, error) {
	return &flights.EligibilityResponse{IsEligible: false}, nil
}

func TestRunAPI_ServesAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	opts := apiOpts{
		httpAddr: "127.0.0.1:0",
		onListen: func(httpAddr string) { addrCh <- httpAddr },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- runAPI(ctx, opts, &fakeService{}, nil)
	}()

	httpAddr := <-addrCh

	resp, err := http.Get("http://" + httpAddr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	resp, err = http.Get("http://" + httpAddr + "/compensation/eligibility?flightNumber=AF1488&date=2024-03-01")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, false, body["isEligible"])

	cancel()
	select {
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting server to stop")
	case err := <-errCh:
		require.Error(t, err)
	}
}

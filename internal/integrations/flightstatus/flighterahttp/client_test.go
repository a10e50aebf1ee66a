package flighterahttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avioclaim/flightcheck/internal/models"
	"github.com/avioclaim/flightcheck/internal/refdata/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func query() models.FlightQuery {
	return models.FlightQuery{
		FlightCode:  "117",
		CarrierCode: "BA",
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTwoStepServer(t *testing.T, detailBody string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.Header.Get("api-key"))
		switch r.URL.Path {
		case "/v1/schedules/instance":
			require.Equal(t, "BA", r.URL.Query().Get("carrier"))
			require.Equal(t, "117", r.URL.Query().Get("flight"))
			require.Equal(t, "2024-01-01", r.URL.Query().Get("date"))
			require.Equal(t, "IATA", r.URL.Query().Get("codeType"))
			_, _ = w.Write([]byte(`{"scheduledFlights": [{"flightId": "BA117-20240101"}]}`))
		case "/v1/flights/BA117-20240101":
			_, _ = w.Write([]byte(detailBody))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestClient_Resolve_DelayedFlight(t *testing.T) {
	srv := newTwoStepServer(t, `{
  "flight": {
    "scheduledArrivalUtc": "2024-01-01T14:00:00Z",
    "scheduledArrivalLocal": "2024-01-01T15:00:00",
    "scheduledDepartureUtc": "2024-01-01T11:00:00Z",
    "scheduledDepartureLocal": "2024-01-01T12:00:00",
    "departureIcao": "EGLL",
    "departureIata": "LHR",
    "arrivalIcao": "LFPG",
    "arrivalIata": "CDG",
    "statusDetails": [
      {"departure": {"actualAt": "2024-01-01T14:30:00Z"}},
      {"arrival": {"actualAt": "2024-01-01T17:20:00Z"}}
    ]
  }
}`)
	defer srv.Close()

	airports := &mocks.MockAirportDirectory{}
	airports.On("AirportByICAO", mock.Anything, "EGLL").
		Return(&models.AirportRef{Name: "Heathrow", City: "London", ICAO: "EGLL", IATA: "LHR"}, nil)
	airports.On("AirportByICAO", mock.Anything, "LFPG").
		Return(&models.AirportRef{Name: "Charles de Gaulle", City: "Paris", ICAO: "LFPG", IATA: "CDG"}, nil)

	c := New(srv.URL, "secret", airports)
	rec, err := c.Resolve(context.Background(), query())
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Empty(t, rec.Reason)
	require.Equal(t, 200, rec.DelayMinutes)
	require.Equal(t, "2024-01-01T17:20:00Z", rec.ArrivalDateUTC)
	require.Equal(t, "Heathrow", rec.DepartureAirport.Name)
	require.NoError(t, models.ValidateFlightRecord(rec))
}

func TestClient_Resolve_NoGroundEvents_Cancelled(t *testing.T) {
	srv := newTwoStepServer(t, `{
  "flight": {
    "scheduledArrivalUtc": "2024-01-01T14:00:00Z",
    "scheduledArrivalLocal": "2024-01-01T15:00:00",
    "scheduledDepartureUtc": "2024-01-01T11:00:00Z",
    "scheduledDepartureLocal": "2024-01-01T12:00:00",
    "departureIcao": "EGLL",
    "arrivalIcao": "LFPG",
    "statusDetails": [
      {"departure": {"actualAt": ""}},
      {"arrival": {"actualAt": ""}}
    ]
  }
}`)
	defer srv.Close()

	airports := &mocks.MockAirportDirectory{}
	airports.On("AirportByICAO", mock.Anything, mock.Anything).Return(nil, nil)

	c := New(srv.URL, "secret", airports)
	rec, err := c.Resolve(context.Background(), query())
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, models.ReasonCancellation, rec.Reason)
	require.Equal(t, 0, rec.DelayMinutes)
	require.Equal(t, "2024-01-01T14:00:00Z", rec.ArrivalDateUTC)
}

func TestClient_Resolve_NoScheduleInstance_Absent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/schedules/instance", r.URL.Path)
		_, _ = w.Write([]byte(`{"scheduledFlights": []}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", &mocks.MockAirportDirectory{})
	rec, err := c.Resolve(context.Background(), query())
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestClient_Resolve_RefdataAbsent_FallsBackToCodes(t *testing.T) {
	srv := newTwoStepServer(t, `{
  "flight": {
    "scheduledArrivalUtc": "2024-01-01T14:00:00Z",
    "scheduledArrivalLocal": "2024-01-01T15:00:00",
    "scheduledDepartureUtc": "2024-01-01T11:00:00Z",
    "scheduledDepartureLocal": "2024-01-01T12:00:00",
    "departureIcao": "EGLL",
    "departureIata": "LHR",
    "arrivalIcao": "LFPG",
    "arrivalIata": "CDG",
    "statusDetails": [{"departure": {"actualAt": "2024-01-01T11:05:00Z"}}]
  }
}`)
	defer srv.Close()

	airports := &mocks.MockAirportDirectory{}
	airports.On("AirportByICAO", mock.Anything, mock.Anything).Return(nil, nil)

	c := New(srv.URL, "secret", airports)
	rec, err := c.Resolve(context.Background(), query())
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, models.AirportRef{Name: "EGLL", City: "EGLL", ICAO: "EGLL", IATA: "LHR"}, rec.DepartureAirport)
	require.NoError(t, models.ValidateFlightRecord(rec))
}

func TestClient_Resolve_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", &mocks.MockAirportDirectory{})
	_, err := c.Resolve(context.Background(), query())
	require.Error(t, err)
}

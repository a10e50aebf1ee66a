package flightstatshttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avioclaim/flightcheck/internal/flighttime"
	"github.com/avioclaim/flightcheck/internal/models"
	"github.com/pkg/errors"
)

// Client — FlightStats flex API: один GET по carrier/flight/date.
type Client struct {
	baseURL string
	appID   string
	appKey  string
	httpc   *http.Client
}

func New(baseURL, appID, appKey string) *Client {
	return &Client{
		baseURL: baseURL,
		appID:   appID,
		appKey:  appKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "flightstats" }

type statusResp struct {
	FlightStatuses []struct {
		Status string `json:"status"`
		Delays struct {
			ArrivalGateDelayMinutes int `json:"arrivalGateDelayMinutes"`
		} `json:"delays"`
		ArrivalDate struct {
			DateUTC   string `json:"dateUtc"`
			DateLocal string `json:"dateLocal"`
		} `json:"arrivalDate"`
		DepartureDate struct {
			DateUTC   string `json:"dateUtc"`
			DateLocal string `json:"dateLocal"`
		} `json:"departureDate"`
		OperationalTimes struct {
			ScheduledGateArrival struct {
				DateUTC string `json:"dateUtc"`
			} `json:"scheduledGateArrival"`
			ActualGateArrival struct {
				DateUTC string `json:"dateUtc"`
			} `json:"actualGateArrival"`
		} `json:"operationalTimes"`
		DepartureAirportFsCode string `json:"departureAirportFsCode"`
		ArrivalAirportFsCode   string `json:"arrivalAirportFsCode"`
	} `json:"flightStatuses"`
	Appendix struct {
		Airports []struct {
			FS   string `json:"fs"`
			Name string `json:"name"`
			City string `json:"city"`
			ICAO string `json:"icao"`
			IATA string `json:"iata"`
		} `json:"airports"`
	} `json:"appendix"`
}

func (c *Client) Resolve(ctx context.Context, q models.FlightQuery) (*models.FlightRecord, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	d := q.Date.UTC()
	u.Path = fmt.Sprintf("/flex/flightstatus/rest/v2/json/flight/status/%s/%s/dep/%d/%d/%d",
		url.PathEscape(q.CarrierCode), url.PathEscape(q.FlightCode), d.Year(), int(d.Month()), d.Day())

	qs := u.Query()
	qs.Set("appId", c.appID)
	qs.Set("appKey", c.appKey)
	u.RawQuery = qs.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("flightstats http %d", resp.StatusCode)
	}

	var r statusResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if len(r.FlightStatuses) == 0 {
		return nil, nil
	}
	fs := r.FlightStatuses[0]

	cancelled := fs.Status == "C" || fs.Status == "R"

	delayMinutes := fs.Delays.ArrivalGateDelayMinutes
	if delayMinutes == 0 {
		// Некоторые ответы не заполняют delays, но несут сырые таймстемпы —
		// тогда считаем задержку сами по gate arrival.
		sched, serr := flighttime.ParseTimestamp(fs.OperationalTimes.ScheduledGateArrival.DateUTC)
		actual, aerr := flighttime.ParseTimestamp(fs.OperationalTimes.ActualGateArrival.DateUTC)
		if serr == nil && aerr == nil {
			delayMinutes = flighttime.DelayMinutes(sched, actual)
		}
	}
	if delayMinutes < 0 {
		delayMinutes = 0
	}

	reason := ""
	if cancelled {
		reason = models.ReasonCancellation
	}

	findAirport := func(code string) models.AirportRef {
		for _, a := range r.Appendix.Airports {
			if a.FS == code {
				return models.AirportRef{Name: a.Name, City: a.City, ICAO: a.ICAO, IATA: a.IATA}
			}
		}
		return models.AirportRef{}
	}

	return &models.FlightRecord{
		Reason:             reason,
		DelayMinutes:       delayMinutes,
		ArrivalDateUTC:     fs.ArrivalDate.DateUTC,
		ArrivalDateLocal:   fs.ArrivalDate.DateLocal,
		DepartureDateUTC:   fs.DepartureDate.DateUTC,
		DepartureDateLocal: fs.DepartureDate.DateLocal,
		DepartureAirport:   findAirport(fs.DepartureAirportFsCode),
		ArrivalAirport:     findAirport(fs.ArrivalAirportFsCode),
	}, nil
}

package flighterahttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avioclaim/flightcheck/internal/flighttime"
	"github.com/avioclaim/flightcheck/internal/models"
	"github.com/avioclaim/flightcheck/internal/refdata"
	"github.com/pkg/errors"
)

// Client — Flightera-подобный API в два шага: сначала ключ конкретного
// выполнения рейса (schedule instance), потом полная карточка по ключу.
// Карточка несёт только коды аэропортов, метаданные добираем из справочника.
type Client struct {
	baseURL  string
	apiKey   string
	airports refdata.AirportDirectory
	httpc    *http.Client
}

func New(baseURL, apiKey string, airports refdata.AirportDirectory) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		airports: airports,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "flightera" }

type scheduleResp struct {
	ScheduledFlights []struct {
		FlightID string `json:"flightId"`
	} `json:"scheduledFlights"`
}

type detailResp struct {
	Flight struct {
		ScheduledArrivalUTC     string `json:"scheduledArrivalUtc"`
		ScheduledArrivalLocal   string `json:"scheduledArrivalLocal"`
		ScheduledDepartureUTC   string `json:"scheduledDepartureUtc"`
		ScheduledDepartureLocal string `json:"scheduledDepartureLocal"`

		DepartureICAO string `json:"departureIcao"`
		DepartureIATA string `json:"departureIata"`
		ArrivalICAO   string `json:"arrivalIcao"`
		ArrivalIATA   string `json:"arrivalIata"`

		StatusDetails []struct {
			Arrival struct {
				ActualAt string `json:"actualAt"`
			} `json:"arrival"`
			Departure struct {
				ActualAt string `json:"actualAt"`
			} `json:"departure"`
		} `json:"statusDetails"`
	} `json:"flight"`
}

func (c *Client) Resolve(ctx context.Context, q models.FlightQuery) (*models.FlightRecord, error) {
	flightID, err := c.lookupScheduleInstance(ctx, q)
	if err != nil {
		return nil, err
	}
	if flightID == "" {
		return nil, nil
	}
	return c.fetchDetail(ctx, flightID)
}

func (c *Client) lookupScheduleInstance(ctx context.Context, q models.FlightQuery) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parse base url")
	}
	u.Path = "/v1/schedules/instance"

	qs := u.Query()
	qs.Set("carrier", q.CarrierCode)
	qs.Set("flight", q.FlightCode)
	qs.Set("date", flighttime.FormatCivilDate(q.Date))
	qs.Set("codeType", "IATA")
	u.RawQuery = qs.Encode()

	var r scheduleResp
	if err := c.getJSON(ctx, u.String(), &r); err != nil {
		return "", err
	}
	if len(r.ScheduledFlights) == 0 {
		return "", nil
	}
	return r.ScheduledFlights[0].FlightID, nil
}

func (c *Client) fetchDetail(ctx context.Context, flightID string) (*models.FlightRecord, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	u.Path = "/v1/flights/" + url.PathEscape(flightID)

	var r detailResp
	if err := c.getJSON(ctx, u.String(), &r); err != nil {
		return nil, err
	}
	f := r.Flight

	// Нет подтверждённых наземных событий ни на вылете, ни на прилёте —
	// рейс считаем не состоявшимся (отменённым).
	var actualArrival, actualDeparture string
	for _, sd := range f.StatusDetails {
		if sd.Arrival.ActualAt != "" {
			actualArrival = sd.Arrival.ActualAt
		}
		if sd.Departure.ActualAt != "" {
			actualDeparture = sd.Departure.ActualAt
		}
	}
	cancelled := actualArrival == "" && actualDeparture == ""

	delayMinutes := 0
	if sched, err := flighttime.ParseTimestamp(f.ScheduledArrivalUTC); err == nil {
		if actual, err := flighttime.ParseTimestamp(actualArrival); err == nil {
			delayMinutes = flighttime.DelayMinutes(sched, actual)
		}
	}

	reason := ""
	if cancelled {
		reason = models.ReasonCancellation
	}

	arrivalUTC := f.ScheduledArrivalUTC
	if actualArrival != "" {
		arrivalUTC = actualArrival
	}

	return &models.FlightRecord{
		Reason:             reason,
		DelayMinutes:       delayMinutes,
		ArrivalDateUTC:     arrivalUTC,
		ArrivalDateLocal:   f.ScheduledArrivalLocal,
		DepartureDateUTC:   f.ScheduledDepartureUTC,
		DepartureDateLocal: f.ScheduledDepartureLocal,
		DepartureAirport:   c.enrichAirport(ctx, f.DepartureICAO, f.DepartureIATA),
		ArrivalAirport:     c.enrichAirport(ctx, f.ArrivalICAO, f.ArrivalIATA),
	}, nil
}

// enrichAirport добирает имя и город из справочника; если справочник кода
// не знает (или недоступен), остаёмся с кодами, которые прислал провайдер.
func (c *Client) enrichAirport(ctx context.Context, icao, iata string) models.AirportRef {
	if iata == "" {
		iata = icao
	}
	fallback := models.AirportRef{Name: icao, City: icao, ICAO: icao, IATA: iata}

	if c.airports == nil || icao == "" {
		return fallback
	}
	a, err := c.airports.AirportByICAO(ctx, icao)
	if err != nil || a == nil {
		return fallback
	}

	out := *a
	if out.Name == "" {
		out.Name = icao
	}
	if out.City == "" {
		out.City = icao
	}
	if out.ICAO == "" {
		out.ICAO = icao
	}
	if out.IATA == "" {
		out.IATA = iata
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("flightera http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}

package aerodataboxhttp

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

// Client — AeroDataBox-подобный API: range-запрос по UTC-окну суток,
// из ответа выбираем рейс с нужной плановой датой вылета.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "aerodatabox" }

type rangeAirport struct {
	Name             string `json:"name"`
	MunicipalityName string `json:"municipalityName"`
	ICAO             string `json:"icao"`
	IATA             string `json:"iata"`
}

type rangeMovement struct {
	ScheduledTimeUTC   string       `json:"scheduledTimeUtc"`
	ScheduledTimeLocal string       `json:"scheduledTimeLocal"`
	Airport            rangeAirport `json:"airport"`
}

type rangeEntry struct {
	IsCancelled  bool          `json:"isCancelled"`
	DelaySeconds int           `json:"delaySeconds"`
	Departure    rangeMovement `json:"departure"`
	Arrival      rangeMovement `json:"arrival"`
}

func (c *Client) Resolve(ctx context.Context, q models.FlightQuery) (*models.FlightRecord, error) {
	start, end := flighttime.DayWindowUTC(q.Date)

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	ident := q.CarrierCode + q.FlightCode
	u.Path = fmt.Sprintf("/flights/number/%s/%s/%s",
		url.PathEscape(ident),
		url.PathEscape(start.Format(time.RFC3339)),
		url.PathEscape(end.Format(time.RFC3339)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("aerodatabox http %d", resp.StatusCode)
	}

	var entries []rangeEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	entry := matchByDepartureDate(entries, q.Date)
	if entry == nil {
		return nil, nil
	}

	// Провайдер отдаёт задержку в секундах; в канонической форме — минуты.
	delayMinutes := entry.DelaySeconds / 60
	if delayMinutes < 0 {
		delayMinutes = 0
	}

	reason := ""
	if entry.IsCancelled {
		reason = models.ReasonCancellation
	}

	return &models.FlightRecord{
		Reason:             reason,
		DelayMinutes:       delayMinutes,
		ArrivalDateUTC:     entry.Arrival.ScheduledTimeUTC,
		ArrivalDateLocal:   entry.Arrival.ScheduledTimeLocal,
		DepartureDateUTC:   entry.Departure.ScheduledTimeUTC,
		DepartureDateLocal: entry.Departure.ScheduledTimeLocal,
		DepartureAirport:   toAirportRef(entry.Departure.Airport),
		ArrivalAirport:     toAirportRef(entry.Arrival.Airport),
	}, nil
}

// Окно запроса захватывает сутки целиком, но провайдер может вернуть и
// соседние выполнения рейса — фильтруем по плановой дате вылета.
func matchByDepartureDate(entries []rangeEntry, date time.Time) *rangeEntry {
	for i := range entries {
		dep, err := flighttime.ParseTimestamp(entries[i].Departure.ScheduledTimeUTC)
		if err != nil {
			continue
		}
		if flighttime.SameCivilDateUTC(dep, date) {
			return &entries[i]
		}
	}
	return nil
}

func toAirportRef(a rangeAirport) models.AirportRef {
	return models.AirportRef{
		Name: a.Name,
		City: a.MunicipalityName,
		ICAO: a.ICAO,
		IATA: a.IATA,
	}
}

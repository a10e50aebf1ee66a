package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/avioclaim/flightcheck/internal/broker/messages"
	"github.com/avioclaim/flightcheck/internal/cache"
	"github.com/avioclaim/flightcheck/internal/flighttime"
	"github.com/avioclaim/flightcheck/internal/integrations/flightstatus"
	"github.com/avioclaim/flightcheck/internal/models"
	"github.com/avioclaim/flightcheck/internal/refdata"
	"golang.org/x/sync/singleflight"
)

type Repository interface {
	FindFlight(ctx context.Context, flightNumber string, date time.Time) (*models.PersistedFlight, error)
	SaveFlight(ctx context.Context, flightNumber string, date time.Time, rec *models.FlightRecord) (*models.PersistedFlight, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Service — итоговый пайплайн: кэш -> цепочка провайдеров -> валидатор ->
// правило компенсации -> персист с дедупом. Кэш, персист и события —
// best effort: их отказ не мешает ответить на вопрос о компенсации.
type Service struct {
	providers []flightstatus.Client
	cache     cache.BytesCache
	repo      Repository
	airlines  refdata.AirlineDirectory
	publisher Publisher
	topic     string
	ttl       time.Duration

	sf singleflight.Group
}

func New(
	providers []flightstatus.Client,
	c cache.BytesCache,
	repo Repository,
	airlines refdata.AirlineDirectory,
	publisher Publisher,
	topic string,
	ttl time.Duration,
) *Service {
	return &Service{
		providers: providers,
		cache:     c,
		repo:      repo,
		airlines:  airlines,
		publisher: publisher,
		topic:     topic,
		ttl:       ttl,
	}
}

type DatePair struct {
	DateUTC   string `json:"dateUtc"`
	DateLocal string `json:"dateLocal"`
}

type EligibilityResponse struct {
	IsEligible       bool               `json:"isEligible"`
	Reason           string             `json:"reason,omitempty"`
	DelayMinutes     int                `json:"delayMinutes,omitempty"`
	DepartureDate    *DatePair          `json:"departureDate,omitempty"`
	ArrivalDate      *DatePair          `json:"arrivalDate,omitempty"`
	DepartureAirport *models.AirportRef `json:"departureAirport,omitempty"`
	ArrivalAirport   *models.AirportRef `json:"arrivalAirport,omitempty"`
}

func (s *Service) CheckEligibility(ctx context.Context, flightNumber, date string) (*EligibilityResponse, error) {
	carrierCode, flightCode, err := ParseFlightNumber(flightNumber)
	if err != nil {
		return nil, err
	}
	day, err := ParseFlightDate(date)
	if err != nil {
		return nil, err
	}

	key := cacheKey(carrierCode, flightCode, day)

	if s.cacheEnabled() {
		b, ok, err := s.cache.Get(ctx, key)
		if err == nil && ok {
			var rec models.FlightRecord
			if json.Unmarshal(b, &rec) == nil {
				return buildResponse(&rec), nil
			}
			// Битая запись: удаляем и идём в полный резолв.
			slog.Warn("poisoned cache entry, self-healing", "key", key)
			_ = s.cache.Del(ctx, key)
		}
	}

	// Одновременные запросы одного и того же рейса схлопываем
	// в один проход по провайдерам.
	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.resolveAndStore(ctx, carrierCode, flightCode, day, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*EligibilityResponse), nil
}

func (s *Service) resolveAndStore(ctx context.Context, carrierCode, flightCode string, day time.Time, key string) (*EligibilityResponse, error) {
	// У провайдеров рейс чаще ключуется ICAO-кодом; если справочник IATA
	// не знает — пробуем с тем кодом, что прислал клиент.
	providerCarrier := carrierCode
	if s.airlines != nil {
		airline, err := s.airlines.AirlineByIATA(ctx, carrierCode)
		if err != nil {
			slog.Warn("airline lookup failed", "iata", carrierCode, "err", err)
		} else if airline != nil && airline.ICAO != "" {
			providerCarrier = airline.ICAO
		}
	}

	rec, resolvedBy := s.resolveFromProviders(ctx, models.FlightQuery{
		FlightCode:  flightCode,
		CarrierCode: providerCarrier,
		Date:        day,
	})
	if rec == nil {
		return &EligibilityResponse{IsEligible: false}, nil
	}

	final := Evaluate(*rec)
	flightNumber := carrierCode + flightCode

	s.persist(ctx, flightNumber, day, &final, resolvedBy)

	if s.cacheEnabled() {
		if b, err := json.Marshal(&final); err == nil {
			if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
				slog.Warn("cache set failed", "key", key, "err", err)
			}
		}
	}

	return buildResponse(&final), nil
}

// persist — дедуп-проверка плюс запись; любой отказ хранилища только логируем.
func (s *Service) persist(ctx context.Context, flightNumber string, day time.Time, rec *models.FlightRecord, resolvedBy string) {
	if s.repo == nil {
		return
	}

	existing, err := s.repo.FindFlight(ctx, flightNumber, day)
	if err != nil {
		slog.Error("flight dedup lookup failed", "flight", flightNumber, "err", err)
		return
	}
	if existing != nil {
		return
	}

	if _, err := s.repo.SaveFlight(ctx, flightNumber, day, rec); err != nil {
		slog.Error("flight persist failed", "flight", flightNumber, "err", err)
		return
	}

	s.publishResolved(ctx, flightNumber, day, rec, resolvedBy)
}

func (s *Service) publishResolved(ctx context.Context, flightNumber string, day time.Time, rec *models.FlightRecord, resolvedBy string) {
	if s.publisher == nil || s.topic == "" {
		return
	}
	msg := messages.FlightResolved{
		FlightNumber: flightNumber,
		Date:         flighttime.FormatCivilDate(day),
		IsEligible:   rec.IsEligible,
		Reason:       rec.Reason,
		DelayMinutes: rec.DelayMinutes,
		ResolvedBy:   resolvedBy,
		ResolvedAt:   time.Now().UTC(),
	}
	b, _ := json.Marshal(msg)
	if err := s.publisher.Publish(ctx, s.topic, []byte(flightNumber), b); err != nil {
		slog.Warn("flight.resolved publish failed", "flight", flightNumber, "err", err)
	}
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

// Не имеющий права на компенсацию рейс детали не раскрывает — только факт.
func buildResponse(rec *models.FlightRecord) *EligibilityResponse {
	if !rec.IsEligible {
		return &EligibilityResponse{IsEligible: false}
	}
	return &EligibilityResponse{
		IsEligible:   true,
		Reason:       rec.Reason,
		DelayMinutes: rec.DelayMinutes,
		DepartureDate: &DatePair{
			DateUTC:   rec.DepartureDateUTC,
			DateLocal: rec.DepartureDateLocal,
		},
		ArrivalDate: &DatePair{
			DateUTC:   rec.ArrivalDateUTC,
			DateLocal: rec.ArrivalDateLocal,
		},
		DepartureAirport: &rec.DepartureAirport,
		ArrivalAirport:   &rec.ArrivalAirport,
	}
}

func cacheKey(carrierCode, flightCode string, day time.Time) string {
	return fmt.Sprintf("eligibility:%s%s:%s", carrierCode, flightCode, flighttime.FormatCivilDate(day))
}

package models

import (
	"fmt"
	"time"
)

// Причины компенсации (закрытый набор).
const (
	ReasonCancellation = "cancellation"
	ReasonDelay        = "delay"
)

// FlightQuery — неизменяемый вход пайплайна резолва.
// Date — календарный день (UTC midnight), не момент времени.
type FlightQuery struct {
	FlightCode  string
	CarrierCode string
	Date        time.Time
}

type AirportRef struct {
	Name string `json:"name"`
	City string `json:"city"`
	ICAO string `json:"icao"`
	IATA string `json:"iata"`
}

// FlightRecord — каноническая форма, в которую приводится ответ любого провайдера.
// После прохождения валидатора запись не мутируется.
type FlightRecord struct {
	IsEligible   bool   `json:"isEligible"`
	Reason       string `json:"reason,omitempty"`
	DelayMinutes int    `json:"delayMinutes"`

	ArrivalDateUTC     string `json:"arrivalDateUtc"`
	ArrivalDateLocal   string `json:"arrivalDateLocal"`
	DepartureDateUTC   string `json:"departureDateUtc"`
	DepartureDateLocal string `json:"departureDateLocal"`

	DepartureAirport AirportRef `json:"departureAirport"`
	ArrivalAirport   AirportRef `json:"arrivalAirport"`
}

type Airline struct {
	IATA string
	ICAO string
	Name string
}

// PersistedFlight — строка из БД вместе с привязанными аэропортами.
type PersistedFlight struct {
	ID           uint64
	FlightNumber string
	Date         time.Time

	IsEligible   bool
	Reason       string
	DelayMinutes int

	ArrivalDateUTC     string
	ArrivalDateLocal   string
	DepartureDateUTC   string
	DepartureDateLocal string

	DepartureAirport AirportRef
	ArrivalAirport   AirportRef

	CreatedAt time.Time
}

// Роли аэропортов в строке flight_airports.
const (
	AirportRoleArrival   = "ARRIVAL"
	AirportRoleDeparture = "DEPARTURE"
)

// ValidateFlightRecord — структурный guard канонической формы.
// Провайдеры отдают неконсистентные payload'ы: "почти правильная" запись
// считается отсутствующей, чтобы инварианты ниже по пайплайну были безусловными.
func ValidateFlightRecord(r *FlightRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	switch r.Reason {
	case "", ReasonCancellation, ReasonDelay:
	default:
		return fmt.Errorf("unknown reason %q", r.Reason)
	}
	if r.DelayMinutes < 0 {
		return fmt.Errorf("negative delayMinutes %d", r.DelayMinutes)
	}
	if r.ArrivalDateUTC == "" {
		return fmt.Errorf("arrivalDateUtc is empty")
	}
	if r.ArrivalDateLocal == "" {
		return fmt.Errorf("arrivalDateLocal is empty")
	}
	if r.DepartureDateUTC == "" {
		return fmt.Errorf("departureDateUtc is empty")
	}
	if r.DepartureDateLocal == "" {
		return fmt.Errorf("departureDateLocal is empty")
	}
	if err := validateAirport("departureAirport", r.DepartureAirport); err != nil {
		return err
	}
	if err := validateAirport("arrivalAirport", r.ArrivalAirport); err != nil {
		return err
	}
	return nil
}

// Частичных аэропортов не бывает: либо все четыре поля, либо запись невалидна.
func validateAirport(field string, a AirportRef) error {
	if a.Name == "" {
		return fmt.Errorf("%s.name is empty", field)
	}
	if a.City == "" {
		return fmt.Errorf("%s.city is empty", field)
	}
	if a.ICAO == "" {
		return fmt.Errorf("%s.icao is empty", field)
	}
	if a.IATA == "" {
		return fmt.Errorf("%s.iata is empty", field)
	}
	return nil
}

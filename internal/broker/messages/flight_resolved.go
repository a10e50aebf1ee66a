package messages

import "time"

// FlightResolved публикуется после успешного сохранения резолва —
// сигнал для downstream-пайплайна обработки заявок.
type FlightResolved struct {
	FlightNumber string    `json:"flight_number"`
	Date         string    `json:"date"`
	IsEligible   bool      `json:"is_eligible"`
	Reason       string    `json:"reason,omitempty"`
	DelayMinutes int       `json:"delay_minutes"`
	ResolvedBy   string    `json:"resolved_by"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

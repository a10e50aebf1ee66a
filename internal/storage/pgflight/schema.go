package pgflight

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS flights (
  id BIGSERIAL PRIMARY KEY,
  flight_number TEXT NOT NULL,
  date DATE NOT NULL,
  is_eligible BOOLEAN NOT NULL,
  reason TEXT NOT NULL DEFAULT '',
  delay_minutes INT NOT NULL DEFAULT 0,
  arrival_date_utc TEXT NOT NULL,
  arrival_date_local TEXT NOT NULL,
  departure_date_utc TEXT NOT NULL,
  departure_date_local TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  UNIQUE (flight_number, date)
)`,
		`CREATE INDEX IF NOT EXISTS idx_flights_date ON flights(date)`,
		`
CREATE TABLE IF NOT EXISTS flight_airports (
  id BIGSERIAL PRIMARY KEY,
  flight_id BIGINT NOT NULL REFERENCES flights(id) ON DELETE CASCADE,
  role TEXT NOT NULL CHECK (role IN ('ARRIVAL', 'DEPARTURE')),
  name TEXT NOT NULL,
  city TEXT NOT NULL,
  icao TEXT NOT NULL,
  iata TEXT NOT NULL,
  UNIQUE (flight_id, role)
)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}

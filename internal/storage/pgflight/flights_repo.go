package pgflight

import (
	"context"
	"time"

	"github.com/avioclaim/flightcheck/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// FindFlight — проверка дедупликации: ищем строку по (flight_number, date).
// nil без ошибки означает "ещё не сохраняли".
func (s *Storage) FindFlight(ctx context.Context, flightNumber string, date time.Time) (*models.PersistedFlight, error) {
	var f models.PersistedFlight
	err := s.db.QueryRow(ctx, `
SELECT
  id, flight_number, date,
  is_eligible, reason, delay_minutes,
  arrival_date_utc, arrival_date_local,
  departure_date_utc, departure_date_local,
  created_at
FROM flights
WHERE flight_number = $1 AND date = $2
`, flightNumber, date.UTC()).Scan(
		&f.ID, &f.FlightNumber, &f.Date,
		&f.IsEligible, &f.Reason, &f.DelayMinutes,
		&f.ArrivalDateUTC, &f.ArrivalDateLocal,
		&f.DepartureDateUTC, &f.DepartureDateLocal,
		&f.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select flight")
	}

	rows, err := s.db.Query(ctx, `
SELECT role, name, city, icao, iata
FROM flight_airports
WHERE flight_id = $1
`, f.ID)
	if err != nil {
		return nil, errors.Wrap(err, "select flight airports")
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var a models.AirportRef
		if err := rows.Scan(&role, &a.Name, &a.City, &a.ICAO, &a.IATA); err != nil {
			return nil, errors.Wrap(err, "scan flight airport")
		}
		switch role {
		case models.AirportRoleArrival:
			f.ArrivalAirport = a
		case models.AirportRoleDeparture:
			f.DepartureAirport = a
		}
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}

	return &f, nil
}

// SaveFlight пишет каноническую запись и обе строки аэропортов одной транзакцией.
// ON CONFLICT DO NOTHING на flights делает гонку двух одновременных резолвов
// одного рейса безопасной: выигрывает первая вставка.
func (s *Storage) SaveFlight(ctx context.Context, flightNumber string, date time.Time, rec *models.FlightRecord) (*models.PersistedFlight, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uint64
	err = tx.QueryRow(ctx, `
INSERT INTO flights (
  flight_number, date,
  is_eligible, reason, delay_minutes,
  arrival_date_utc, arrival_date_local,
  departure_date_utc, departure_date_local,
  created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (flight_number, date) DO NOTHING
RETURNING id
`, flightNumber, date.UTC(),
		rec.IsEligible, rec.Reason, rec.DelayMinutes,
		rec.ArrivalDateUTC, rec.ArrivalDateLocal,
		rec.DepartureDateUTC, rec.DepartureDateLocal,
		now).Scan(&id)
	if err == pgx.ErrNoRows {
		// Строку уже вставил конкурентный резолв — отдаём её.
		_ = tx.Rollback(ctx)
		return s.FindFlight(ctx, flightNumber, date)
	}
	if err != nil {
		return nil, errors.Wrap(err, "insert flight")
	}

	airports := []struct {
		role string
		a    models.AirportRef
	}{
		{models.AirportRoleArrival, rec.ArrivalAirport},
		{models.AirportRoleDeparture, rec.DepartureAirport},
	}
	for _, fa := range airports {
		if _, err := tx.Exec(ctx, `
INSERT INTO flight_airports (flight_id, role, name, city, icao, iata)
VALUES ($1,$2,$3,$4,$5,$6)
`, id, fa.role, fa.a.Name, fa.a.City, fa.a.ICAO, fa.a.IATA); err != nil {
			return nil, errors.Wrap(err, "insert flight airport")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "commit tx")
	}

	return s.FindFlight(ctx, flightNumber, date)
}

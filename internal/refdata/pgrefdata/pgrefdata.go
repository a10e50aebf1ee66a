package pgrefdata

import (
	"context"
	"strings"

	"github.com/avioclaim/flightcheck/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// Directory — lookup'ы по статической базе airlines/airports.
// База наполняется отдельным ETL и здесь только читается.
type Directory struct {
	db *pgxpool.Pool
}

func New(connString string) (*Directory, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, errors.Wrap(err, "parse refdata pg config")
	}

	db, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect refdata pg")
	}

	return &Directory{db: db}, nil
}

func NewWithPool(db *pgxpool.Pool) *Directory {
	return &Directory{db: db}
}

func (d *Directory) Close() {
	if d.db != nil {
		d.db.Close()
	}
}

func (d *Directory) AirlineByIATA(ctx context.Context, iata string) (*models.Airline, error) {
	var name, iataCode, icaoCode *string
	err := d.db.QueryRow(ctx, `
SELECT name, iata_code, icao_code
FROM airlines
WHERE active = true AND iata_code = $1
LIMIT 1
`, strings.ToUpper(iata)).Scan(&name, &iataCode, &icaoCode)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select airline")
	}

	// Строка без обоих кодов бесполезна для резолва — считаем, что её нет.
	if iataCode == nil || *iataCode == "" || icaoCode == nil || *icaoCode == "" {
		return nil, nil
	}

	a := &models.Airline{IATA: *iataCode, ICAO: *icaoCode}
	if name != nil {
		a.Name = *name
	}
	return a, nil
}

func (d *Directory) AirportByICAO(ctx context.Context, icao string) (*models.AirportRef, error) {
	var name, city, icaoCode, iataCode *string
	err := d.db.QueryRow(ctx, `
SELECT name, city, icao_code, iata_code
FROM airports
WHERE icao_code = $1
LIMIT 1
`, strings.ToUpper(icao)).Scan(&name, &city, &icaoCode, &iataCode)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select airport")
	}

	a := &models.AirportRef{}
	if name != nil {
		a.Name = *name
	}
	if city != nil {
		a.City = *city
	}
	if icaoCode != nil {
		a.ICAO = *icaoCode
	}
	if iataCode != nil {
		a.IATA = *iataCode
	}
	return a, nil
}

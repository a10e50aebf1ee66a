package flights

import (
	"regexp"
	"strings"
	"time"

	"github.com/avioclaim/flightcheck/internal/flighttime"
	"github.com/pkg/errors"
)

// ErrInvalidInput — невалидный номер рейса или дата; отдаётся до любой
// работы пайплайна. Транспорт мапит его в 400.
var ErrInvalidInput = errors.New("invalid input")

var flightNumberRe = regexp.MustCompile(`(?i)^([A-Z0-9]{2})([0-9]{1,4})$`)

// ParseFlightNumber разбирает "AF1488" на код перевозчика и номер рейса.
func ParseFlightNumber(flightNumber string) (carrierCode, flightCode string, err error) {
	m := flightNumberRe.FindStringSubmatch(flightNumber)
	if m == nil {
		return "", "", errors.Wrapf(ErrInvalidInput, "flight number %q, expected like \"AF1488\"", flightNumber)
	}
	return strings.ToUpper(m[1]), m[2], nil
}

// ParseFlightDate принимает строго yyyy-mm-dd.
func ParseFlightDate(date string) (time.Time, error) {
	d, err := flighttime.ParseCivilDate(date)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidInput, "date %q, expected yyyy-mm-dd", date)
	}
	return d, nil
}

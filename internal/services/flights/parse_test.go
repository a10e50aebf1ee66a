package flights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseFlightNumber(t *testing.T) {
	carrier, flight, err := ParseFlightNumber("AF1488")
	require.NoError(t, err)
	require.Equal(t, "AF", carrier)
	require.Equal(t, "1488", flight)

	// нижний регистр и цифробуквенные перевозчики допустимы
	carrier, flight, err = ParseFlightNumber("u21234")
	require.NoError(t, err)
	require.Equal(t, "U2", carrier)
	require.Equal(t, "1234", flight)

	carrier, _, err = ParseFlightNumber("BA117")
	require.NoError(t, err)
	require.Equal(t, "BA", carrier)

	for _, bad := range []string{"", "BAW117", "AF", "AF14881", "AF 1488", "AFXX"} {
		_, _, err := ParseFlightNumber(bad)
		require.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestParseFlightDate(t *testing.T) {
	d, err := ParseFlightDate("2024-03-01")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "01.03.2024", "2024-03-01T00:00:00Z", "2024-13-01"} {
		_, err := ParseFlightDate(bad)
		require.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

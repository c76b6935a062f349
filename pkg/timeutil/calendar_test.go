package timeutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reportes-api/pkg/timeutil"
)

func TestCalendar_DayBoundsEnZonaDeReferencia(t *testing.T) {
	cal, err := timeutil.NewCalendar("Asia/Dhaka")
	require.NoError(t, err)

	// 20:30 UTC ya es el día siguiente en Dhaka (UTC+6).
	instant := time.Date(2024, 3, 10, 20, 30, 0, 0, time.UTC)
	start, end := cal.DayBounds(instant)

	assert.Equal(t, "2024-03-11", cal.DayKey(instant))
	assert.Equal(t, time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestCalendar_EndOfDayMilisegundos(t *testing.T) {
	cal := timeutil.NewCalendarIn(time.UTC)
	end := cal.EndOfDay(time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 5, 23, 59, 59, 999_000_000, time.UTC), end)
}

func TestCalendar_ParseDate(t *testing.T) {
	cal, err := timeutil.NewCalendar("Asia/Dhaka")
	require.NoError(t, err)

	d, err := cal.ParseDate("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", cal.DayKey(d))

	d, err = cal.ParseDate("2024-02-01T23:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-02", cal.DayKey(d))

	_, err = cal.ParseDate("ayer")
	assert.Error(t, err)
}

func TestCalendar_WithClock(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cal := timeutil.NewCalendarIn(time.UTC).WithClock(func() time.Time { return fixed })
	assert.True(t, cal.Now().Equal(fixed))
}

func TestNewCalendar_ZonaInvalida(t *testing.T) {
	_, err := timeutil.NewCalendar("Marte/Olympus")
	assert.Error(t, err)
}

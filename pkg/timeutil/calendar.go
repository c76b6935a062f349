// Package timeutil resuelve días calendario en la zona horaria de referencia del negocio.
// Todas las fronteras de día (guardia diaria, filtros de fecha) pasan por aquí.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Layouts comunes.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Calendar agrupa la zona horaria de referencia y el reloj de la aplicación.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar carga la zona IANA indicada (ej. "Asia/Dhaka"). Vacío = UTC.
func NewCalendar(tz string) (*Calendar, error) {
	if strings.TrimSpace(tz) == "" {
		return &Calendar{loc: time.UTC, now: time.Now}, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timeutil: zona horaria %q: %w", tz, err)
	}
	return &Calendar{loc: loc, now: time.Now}, nil
}

// NewCalendarIn construye un calendario sobre una Location ya resuelta.
func NewCalendarIn(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc, now: time.Now}
}

// WithClock devuelve una copia que usa now como reloj (tests).
func (c *Calendar) WithClock(now func() time.Time) *Calendar {
	return &Calendar{loc: c.loc, now: now}
}

// Location zona horaria de referencia.
func (c *Calendar) Location() *time.Location { return c.loc }

// Now hora actual en la zona de referencia.
func (c *Calendar) Now() time.Time { return c.now().In(c.loc) }

// StartOfDay 00:00:00.000 del día de t en la zona de referencia.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	l := t.In(c.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, c.loc)
}

// EndOfDay 23:59:59.999 del día de t en la zona de referencia.
func (c *Calendar) EndOfDay(t time.Time) time.Time {
	l := t.In(c.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 23, 59, 59, int(999*time.Millisecond), c.loc)
}

// DayBounds devuelve [inicio del día, inicio del día siguiente).
func (c *Calendar) DayBounds(t time.Time) (time.Time, time.Time) {
	start := c.StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// DayKey fecha calendario (YYYY-MM-DD) de t en la zona de referencia.
func (c *Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// ParseDate interpreta YYYY-MM-DD en la zona de referencia; acepta también RFC3339.
func (c *Calendar) ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(DateLayout, value, c.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: fecha inválida %q", value)
	}
	return t.In(c.loc), nil
}

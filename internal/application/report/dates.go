package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/pkg/timeutil"
)

// parseRange interpreta start/end como días completos en la zona de referencia:
// start desde 00:00:00.000 y end hasta 23:59:59.999. Vacío = sin límite.
func parseRange(cal *timeutil.Calendar, start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := strings.TrimSpace(start); s != "" {
		d, err := cal.ParseDate(s)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: start %q", domain.ErrInvalidInput, s)
		}
		t := cal.StartOfDay(d)
		from = &t
	}
	if e := strings.TrimSpace(end); e != "" {
		d, err := cal.ParseDate(e)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: end %q", domain.ErrInvalidInput, e)
		}
		t := cal.EndOfDay(d)
		to = &t
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("%w: start posterior a end", domain.ErrInvalidInput)
	}
	return from, to, nil
}

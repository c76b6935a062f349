package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Reportes-api/internal/domain"
)

// Values campos de un reporte ya normalizados.
type Values struct {
	Numbers map[string]decimal.Decimal
	Texts   map[string]string
}

// Normalize valida y normaliza la entrada cruda de un reporte:
// descarta claves desconocidas y derivadas, convierte y recorta a >= 0 los numéricos,
// falla en el primer campo obligatorio ausente (orden del esquema) y calcula las fórmulas.
func (s *Schema) Normalize(raw map[string]any) (*Values, error) {
	vals := &Values{
		Numbers: make(map[string]decimal.Decimal, len(s.Fields)),
		Texts:   make(map[string]string),
	}
	for _, f := range s.Fields {
		if s.derived[f.Name] {
			continue
		}
		v := raw[f.Name]
		switch f.Kind {
		case Number:
			n, ok, err := toDecimal(v)
			if err != nil {
				return nil, domain.InvalidField(f.Name)
			}
			if !ok {
				if f.Required {
					return nil, domain.MissingField(f.Name)
				}
				continue
			}
			if n.IsNegative() {
				n = decimal.Zero
			}
			vals.Numbers[f.Name] = n
		case Text:
			t, ok, err := toText(v)
			if err != nil {
				return nil, domain.InvalidField(f.Name)
			}
			if !ok {
				if f.Required {
					return nil, domain.MissingField(f.Name)
				}
				continue
			}
			vals.Texts[f.Name] = t
		}
	}
	for _, fm := range s.Formulas {
		vals.Numbers[fm.Target] = fm.eval(vals.Numbers)
	}
	return vals, nil
}

func (fm Formula) eval(nums map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, name := range fm.Plus {
		total = total.Add(nums[name])
	}
	for _, name := range fm.Minus {
		total = total.Sub(nums[name])
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// toDecimal devuelve (valor, presente, error). nil o texto en blanco = ausente.
func toDecimal(v any) (decimal.Decimal, bool, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false, nil
	case decimal.Decimal:
		return x, true, nil
	case json.Number:
		return parseDecimal(x.String())
	case string:
		return parseDecimal(x)
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true, nil
	case int32:
		return decimal.NewFromInt32(x), true, nil
	case int64:
		return decimal.NewFromInt(x), true, nil
	case uint:
		return parseDecimal(strconv.FormatUint(uint64(x), 10))
	case uint32:
		return parseDecimal(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return parseDecimal(strconv.FormatUint(x, 10))
	default:
		return decimal.Zero, false, domain.ErrInvalidField
	}
}

func parseDecimal(s string) (decimal.Decimal, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, domain.ErrInvalidField
	}
	return d, true, nil
}

func fromFloat(f float64) (decimal.Decimal, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false, domain.ErrInvalidField
	}
	return decimal.NewFromFloat(f), true, nil
}

// toText acepta texto o números (se guarda su representación). Blanco = ausente.
func toText(v any) (string, bool, error) {
	var s string
	switch x := v.(type) {
	case nil:
		return "", false, nil
	case string:
		s = x
	case json.Number:
		s = x.String()
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false, domain.ErrInvalidField
		}
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		s = strconv.Itoa(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	default:
		return "", false, domain.ErrInvalidField
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, nil
	}
	return s, true, nil
}

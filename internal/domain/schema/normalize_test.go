package schema_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/schema"
)

func mustSchema(t *testing.T, version string) *schema.Schema {
	t.Helper()
	s, err := schema.Lookup(version)
	require.NoError(t, err)
	return s
}

// fullV2 payload v2 completo con todos los campos de entrada en 1 y textos informados.
func fullV2(t *testing.T) map[string]any {
	t.Helper()
	s := mustSchema(t, "v2")
	raw := map[string]any{}
	for _, f := range s.Fields {
		if s.IsDerived(f.Name) {
			continue
		}
		if f.Kind == schema.Text {
			raw[f.Name] = "ruta norte"
		} else {
			raw[f.Name] = 1
		}
	}
	return raw
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNormalize_ClampNegativos(t *testing.T) {
	raw := fullV2(t)
	raw["opdRx"] = -5
	raw["salesForecast"] = "-3.5"

	vals, err := mustSchema(t, "v2").Normalize(raw)
	require.NoError(t, err)
	assert.True(t, vals.Numbers["opdRx"].IsZero())
	assert.True(t, vals.Numbers["salesForecast"].IsZero())
	for name, v := range vals.Numbers {
		assert.False(t, v.IsNegative(), name)
	}
}

func TestNormalize_CampoObligatorioAusente(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"vacio", ""},
		{"espacios", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fullV2(t)
			raw["gpRx"] = tt.value

			_, err := mustSchema(t, "v2").Normalize(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMissingField))
			var fe *domain.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "gpRx", fe.Field)
		})
	}
}

func TestNormalize_FallaEnElPrimerCampoEnOrden(t *testing.T) {
	raw := fullV2(t)
	delete(raw, "indoorSurvey")
	delete(raw, "salesForecast")

	_, err := mustSchema(t, "v2").Normalize(raw)
	var fe *domain.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "salesForecast", fe.Field)
}

func TestNormalize_ValorNoNumerico(t *testing.T) {
	for _, v := range []any{"abc", true, []any{1}, map[string]any{"a": 1}, math.NaN()} {
		raw := fullV2(t)
		raw["toraxRx"] = v
		_, err := mustSchema(t, "v2").Normalize(raw)
		assert.True(t, errors.Is(err, domain.ErrInvalidField), "%v", v)
	}
}

func TestNormalize_CoercionDeTipos(t *testing.T) {
	raw := fullV2(t)
	raw["opdRx"] = json.Number("5")
	raw["dischargeRx"] = " 3 "
	raw["gpRx"] = 2.5
	raw["causeOfNotGivingOrder"] = json.Number("42")

	vals, err := mustSchema(t, "v2").Normalize(raw)
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(vals.Numbers["opdRx"]))
	assert.True(t, dec("3").Equal(vals.Numbers["dischargeRx"]))
	assert.True(t, dec("2.5").Equal(vals.Numbers["gpRx"]))
	assert.True(t, dec("10.5").Equal(vals.Numbers["totalRxs"]))
	assert.Equal(t, "42", vals.Texts["causeOfNotGivingOrder"])
}

func TestNormalize_DerivadosIgnoranValorDelCliente(t *testing.T) {
	raw := fullV2(t)
	raw["opdRx"], raw["dischargeRx"], raw["gpRx"] = 5, 3, 2
	raw["totalRxs"] = 999
	raw["totalBasketRx"] = 999
	raw["campoDesconocido"] = 7

	vals, err := mustSchema(t, "v2").Normalize(raw)
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(vals.Numbers["totalRxs"]))
	// 12 productos en 1 -> totalBasketRx = 12
	assert.True(t, dec("12").Equal(vals.Numbers["totalBasketRx"]))
	_, ok := vals.Numbers["campoDesconocido"]
	assert.False(t, ok)
}

func TestNormalize_LeyTotalRxs(t *testing.T) {
	s := mustSchema(t, "v2")
	cases := [][3]string{{"0", "0", "0"}, {"5", "3", "2"}, {"1.25", "0.75", "10"}, {"100", "0", "7"}}
	for _, c := range cases {
		raw := fullV2(t)
		raw["opdRx"], raw["dischargeRx"], raw["gpRx"] = c[0], c[1], c[2]
		vals, err := s.Normalize(raw)
		require.NoError(t, err)
		want := dec(c[0]).Add(dec(c[1])).Add(dec(c[2]))
		assert.True(t, want.Equal(vals.Numbers["totalRxs"]), "%v", c)
	}
}

func TestNormalize_LeyRemanente(t *testing.T) {
	s := mustSchema(t, "v2")
	tests := []struct {
		name             string
		opd, dis, gp     int
		basketEach       int
		wantRemainder    string
		wantNotGiving    string
		party, collected int
	}{
		{"positivo", 20, 5, 5, 1, "18", "3", 10, 7},
		{"negativo se recorta", 1, 0, 0, 2, "0", "0", 3, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fullV2(t)
			for _, p := range []string{"aceAcePlusRx", "toraxRx", "calboralDDXRx", "neuroBRx", "zimaxRx", "calboDRx",
				"anadolAnadolPlusRx", "tezoRx", "safyronRx", "maxrinMaxrinDRx", "contilexContilexTSRx", "dBalanceRx"} {
				raw[p] = tt.basketEach
			}
			raw["opdRx"], raw["dischargeRx"], raw["gpRx"] = tt.opd, tt.dis, tt.gp
			raw["noOfPartySBUCOrderRoute"], raw["noOfCollectedOrderSBUC"] = tt.party, tt.collected

			vals, err := s.Normalize(raw)
			require.NoError(t, err)
			got := vals.Numbers["SBUCRxWithoutBasketandNewProductRx"]
			want := decimal.Max(vals.Numbers["totalRxs"].Sub(vals.Numbers["totalBasketRx"]), decimal.Zero)
			assert.True(t, want.Equal(got))
			assert.True(t, dec(tt.wantRemainder).Equal(got), got.String())
			assert.True(t, dec(tt.wantNotGiving).Equal(vals.Numbers["noOfNotGivingOrderParty"]))
		})
	}
}

func TestNormalize_V1SoloSalesForecastObligatorio(t *testing.T) {
	s := mustSchema(t, "v1")

	_, err := s.Normalize(map[string]any{"opdRx": 1})
	assert.True(t, errors.Is(err, domain.ErrMissingField))

	vals, err := s.Normalize(map[string]any{
		"salesForecast":          100,
		"totalStrategicBasketRx": 2,
		"totalNewProductRx":      1,
		"opdRx":                  4,
	})
	require.NoError(t, err)
	assert.True(t, dec("3").Equal(vals.Numbers["totalBasketandNewProductRx"]))
	assert.True(t, dec("1").Equal(vals.Numbers["SBUCRxWithoutBasketandNewProductRx"]))
	_, ok := vals.Numbers["gpRx"]
	assert.False(t, ok, "opcional ausente no se guarda")
}

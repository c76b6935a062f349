package http_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/schema"
)

// payload formulario v2 completo: numéricos en 1, textos informados.
func (env *testEnv) payload() map[string]any {
	raw := map[string]any{}
	for _, f := range env.schema.Fields {
		if env.schema.IsDerived(f.Name) {
			continue
		}
		if f.Kind == schema.Text {
			raw[f.Name] = "ruta centro"
		} else {
			raw[f.Name] = 1
		}
	}
	return raw
}

func (env *testEnv) submit(t *testing.T, u entity.User, raw map[string]any) *http.Response {
	t.Helper()
	return env.do(t, http.MethodPost, "/api/records", bearer(t, u), raw)
}

func TestCreateRecord_DerivadosCalculadosEnServidor(t *testing.T) {
	env := newTestEnv(t)
	raw := env.payload()
	raw["opdRx"], raw["dischargeRx"], raw["gpRx"] = 5, 3, 2
	raw["totalRxs"] = 999
	raw["toraxRx"] = -4

	resp := env.submit(t, env.u1, raw)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Record struct {
			UserID string             `json:"userId"`
			Fields map[string]any     `json:"fields"`
			User   *dto.OwnerResponse `json:"user"`
		} `json:"record"`
	}
	decode(t, resp, &out)
	assert.Equal(t, env.u1.ID, out.Record.UserID)
	assert.EqualValues(t, 10, out.Record.Fields["totalRxs"])
	assert.EqualValues(t, 0, out.Record.Fields["toraxRx"])
	require.NotNil(t, out.Record.User)
	assert.Equal(t, env.u1.Email, out.Record.User.Email)
	assert.Equal(t, 1, env.store.RecordCount())
}

func TestCreateRecord_CampoObligatorioAusente(t *testing.T) {
	env := newTestEnv(t)
	raw := env.payload()
	raw["salesForecast"] = ""

	resp := env.submit(t, env.u1, raw)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FIELD", body.Code)
	assert.Equal(t, "salesForecast", body.Field)
	assert.Equal(t, 0, env.store.RecordCount(), "un rechazo no persiste nada")
}

func TestCreateRecord_CuerpoNoObjeto(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/records", bearer(t, env.u1), json.RawMessage(`[1,2,3]`))
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", body.Code)
}

func TestCreateRecord_SegundoEnvioDelDia(t *testing.T) {
	env := newTestEnv(t)
	resp := env.submit(t, env.u1, env.payload())
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.submit(t, env.u1, env.payload())
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_SUBMITTED_TODAY", body.Code)
	assert.Equal(t, 1, env.store.RecordCount())

	resp = env.do(t, http.MethodGet, "/api/records/check-today", bearer(t, env.u1), nil)
	var today dto.CheckTodayResponse
	decode(t, resp, &today)
	assert.True(t, today.Submitted)
	assert.Equal(t, "2024-05-02", today.ReportDay)
}

func TestListRecords_AlcancePorAdmin(t *testing.T) {
	env := newTestEnv(t)
	for _, u := range []entity.User{env.u1, env.u2, env.u3} {
		resp := env.submit(t, u, env.payload())
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := env.do(t, http.MethodGet, "/api/records", bearer(t, env.adminA), nil)
	var list dto.RecordListResponse
	decode(t, resp, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, list.Total)
	for _, r := range list.Records {
		assert.Contains(t, []string{env.u1.ID, env.u2.ID}, r.UserID)
	}

	resp = env.do(t, http.MethodGet, "/api/records?userId="+env.u3.ID, bearer(t, env.adminA), nil)
	var denied dto.ErrorResponse
	decode(t, resp, &denied)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ACCESS_DENIED", denied.Code)

	resp = env.do(t, http.MethodGet, "/api/records?page=1&pageSize=1&userId="+env.u2.ID, bearer(t, env.adminA), nil)
	decode(t, resp, &list)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 1, list.PageSize)
	require.Len(t, list.Records, 1)
	assert.Equal(t, env.u2.ID, list.Records[0].UserID)
}

func TestListRecords_FechaInvalida(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/records?start=02-05-2024", bearer(t, env.adminA), nil)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestExportRecords_XlsxConTotales(t *testing.T) {
	env := newTestEnv(t)
	for _, c := range []struct {
		u            entity.User
		opd, dis, gp int
	}{{env.u1, 5, 3, 2}, {env.u2, 1, 1, 1}} {
		raw := env.payload()
		raw["opdRx"], raw["dischargeRx"], raw["gpRx"] = c.opd, c.dis, c.gp
		resp := env.submit(t, c.u, raw)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := env.do(t, http.MethodGet, "/api/records/export?start=2024-05-02&end=2024-05-02", bearer(t, env.adminA), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	disposition := resp.Header.Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="Report_all_`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.xlsx"`), disposition)

	f, err := excelize.OpenReader(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(schema.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 5, "sección + etiquetas + 2 reportes + totales")

	col := -1
	for i, label := range rows[1] {
		if label == "Total Rxs" {
			col = i
		}
	}
	require.GreaterOrEqual(t, col, 0)
	assert.Equal(t, "13", rows[4][col])
	assert.Contains(t, rows[4], schema.TotalLabel)
}

func TestExportRecords_FormatoNoSoportado(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/records/export?format=csv", bearer(t, env.adminA), nil)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "format", body.Field)
}

func TestDeleteRecord_SoloAdminDelDueno(t *testing.T) {
	env := newTestEnv(t)
	resp := env.submit(t, env.u1, env.payload())
	var created dto.CreateRecordResponse
	decode(t, resp, &created)

	resp = env.do(t, http.MethodDelete, "/api/records/"+created.Record.ID, bearer(t, env.adminB), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 1, env.store.RecordCount())

	resp = env.do(t, http.MethodDelete, "/api/records/"+created.Record.ID, bearer(t, env.adminA), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, env.store.RecordCount())
}

func TestAuthFlow_RegistroLoginYUsuariosVisibles(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/auth/admins", "", nil)
	var admins dto.AdminsResponse
	decode(t, resp, &admins)
	assert.Len(t, admins.Admins, 3)

	adminID := env.adminA.ID
	resp = env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Dora", Email: "Dora@Test.com", Password: "secreto1", Role: "User", AdminID: &adminID,
	})
	var reg dto.AuthResponse
	decode(t, resp, &reg)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "dora@test.com", reg.User.Email)
	assert.Equal(t, "user", reg.User.Role)

	resp = env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Otra", Email: "dora@test.com", Password: "secreto1", AdminID: &adminID,
	})
	var dup dto.ErrorResponse
	decode(t, resp, &dup)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", dup.Code)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "dora@test.com", Password: "secreto1"})
	var login dto.AuthResponse
	decode(t, resp, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, login.Token)

	resp = env.do(t, http.MethodGet, "/api/auth/users", bearer(t, env.adminA), nil)
	var visible dto.UsersResponse
	decode(t, resp, &visible)
	assert.Len(t, visible.Users, 3, "u1, u2 y la nueva cuenta")

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "dora@test.com", Password: "otra-clave"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister_ValidacionDeEntrada(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "X", Email: "no-es-email", Password: "secreto1", Role: "admin",
	})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email", body.Field)
}

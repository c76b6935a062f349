package report_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
)

func userIDs(list *dto.RecordListResponse) map[string]bool {
	out := map[string]bool{}
	for _, r := range list.Records {
		out[r.UserID] = true
	}
	return out
}

func TestList_AlcancePorAdmin(t *testing.T) {
	f := newFixture(t)
	day := f.now
	f.seed(t, f.u1, day, nil)
	f.seed(t, f.u2, day, nil)
	f.seed(t, f.u3, day, nil)
	ctx := context.Background()

	a, err := f.query().List(ctx, identity(f.adminA), dto.RecordQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, a.Total)
	assert.Equal(t, map[string]bool{f.u1.ID: true, f.u2.ID: true}, userIDs(a))

	b, err := f.query().List(ctx, identity(f.adminB), dto.RecordQuery{})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{f.u3.ID: true}, userIDs(b))

	_, err = f.query().List(ctx, identity(f.adminA), dto.RecordQuery{UserID: f.u3.ID})
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))

	_, err = f.query().List(ctx, identity(f.adminA), dto.RecordQuery{UserID: "no-existe"})
	assert.True(t, errors.Is(err, domain.ErrAccessDenied))

	one, err := f.query().List(ctx, identity(f.adminA), dto.RecordQuery{UserID: f.u2.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{f.u2.ID: true}, userIDs(one))
}

func TestList_UsuarioSoloVeLoSuyo(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.u1, f.now, nil)
	f.seed(t, f.u2, f.now, nil)

	res, err := f.query().List(context.Background(), identity(f.u1), dto.RecordQuery{UserID: f.u2.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, map[string]bool{f.u1.ID: true}, userIDs(res))
}

func TestList_AdminSinUsuarios(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.u1, f.now, nil)

	res, err := f.query().List(context.Background(), identity(f.adminC), dto.RecordQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Records)
	assert.NotNil(t, res.Records)
}

func TestList_Paginacion(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, f.cal.Location())
	for i := 0; i < 120; i++ {
		f.seed(t, f.u1, start.AddDate(0, 0, i), nil)
	}

	res, err := f.query().List(context.Background(), identity(f.adminA),
		dto.RecordQuery{PageRequest: dto.PageRequest{Page: 3, PageSize: 50}})
	require.NoError(t, err)
	assert.Equal(t, 120, res.Total)
	assert.Len(t, res.Records, 20)

	first, err := f.query().List(context.Background(), identity(f.adminA), dto.RecordQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, dto.DefaultPageSize, first.PageSize)
	for i := 1; i < len(first.Records); i++ {
		assert.True(t, first.Records[i-1].CreatedAt.After(first.Records[i].CreatedAt), "orden descendente")
	}

	beyond, err := f.query().List(context.Background(), identity(f.adminA),
		dto.RecordQuery{PageRequest: dto.PageRequest{Page: 9, PageSize: 50}})
	require.NoError(t, err)
	assert.Equal(t, 120, beyond.Total)
	assert.Empty(t, beyond.Records)

	huge, err := f.query().List(context.Background(), identity(f.adminA),
		dto.RecordQuery{PageRequest: dto.PageRequest{Page: math.MaxInt, PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, 120, huge.Total)
	assert.Equal(t, math.MaxInt, huge.Page)
	assert.Empty(t, huge.Records)

	overview, err := f.query().Overview(context.Background(), dto.PageRequest{Page: math.MaxInt, PageSize: dto.MaxPageSize})
	require.NoError(t, err)
	assert.Equal(t, 120, overview.Total)
	assert.Empty(t, overview.Records)
}

func TestPageRequest_OffsetNoDesborda(t *testing.T) {
	tests := []struct {
		in   dto.PageRequest
		want int
	}{
		{dto.PageRequest{Page: 1, PageSize: 50}, 0},
		{dto.PageRequest{Page: 3, PageSize: 50}, 100},
		{dto.PageRequest{Page: math.MaxInt, PageSize: 2}, math.MaxInt},
		{dto.PageRequest{Page: math.MaxInt / 2, PageSize: dto.MaxPageSize}, math.MaxInt},
		{dto.PageRequest{Page: 0, PageSize: 0}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Offset(), "%+v", tt.in)
	}
}

func TestList_LimitesDePagina(t *testing.T) {
	tests := []struct {
		in       dto.PageRequest
		wantPage int
		wantSize int
	}{
		{dto.PageRequest{Page: 0, PageSize: 0}, 1, 50},
		{dto.PageRequest{Page: -4, PageSize: -1}, 1, 50},
		{dto.PageRequest{Page: 2, PageSize: 10}, 2, 10},
		{dto.PageRequest{Page: 1, PageSize: 10000}, 1, dto.MaxPageSize},
	}
	f := newFixture(t)
	for _, tt := range tests {
		res, err := f.query().List(context.Background(), identity(f.u1), dto.RecordQuery{PageRequest: tt.in})
		require.NoError(t, err)
		assert.Equal(t, tt.wantPage, res.Page)
		assert.Equal(t, tt.wantSize, res.PageSize)
	}
}

func TestList_RangoDeFechasInclusivo(t *testing.T) {
	f := newFixture(t)
	loc := f.cal.Location()
	f.seed(t, f.u1, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), nil)
	f.seed(t, f.u1, time.Date(2024, 3, 2, 23, 59, 59, 999_000_000, loc), nil)
	f.seed(t, f.u1, time.Date(2024, 3, 3, 0, 0, 0, 0, loc), nil)

	res, err := f.query().List(context.Background(), identity(f.u1), dto.RecordQuery{Start: "2024-03-01", End: "2024-03-02"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	_, err = f.query().List(context.Background(), identity(f.u1), dto.RecordQuery{Start: "2024-03-05", End: "2024-03-01"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.query().List(context.Background(), identity(f.u1), dto.RecordQuery{Start: "marzo"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestList_ReporteHuerfano(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.u1, f.now, nil)
	require.NoError(t, f.store.Users().Delete(context.Background(), f.u1.ID))

	// El huérfano ya no está en el alcance del admin, pero sí en el listado global.
	overview, err := f.query().Overview(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, overview.Total)
	assert.Equal(t, "Unknown", overview.Records[0].UserName)

	self, err := f.query().List(context.Background(), entity.Identity{UserID: f.u1.ID, Role: entity.RoleUser}, dto.RecordQuery{})
	require.NoError(t, err)
	require.Len(t, self.Records, 1)
	assert.Nil(t, self.Records[0].User)
}

func TestSummary_TotalesPorUsuario(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.u1, f.now, map[string]any{"opdRx": 5, "dischargeRx": 3, "gpRx": 2})
	f.seed(t, f.u1, f.now.AddDate(0, 0, 1), map[string]any{"opdRx": 1, "dischargeRx": 1, "gpRx": 1})
	f.seed(t, f.u2, f.now, map[string]any{"opdRx": 4})
	f.seed(t, f.u3, f.now, map[string]any{"opdRx": 100})

	res, err := f.query().Summary(context.Background(), identity(f.adminA), "", "", "")
	require.NoError(t, err)
	require.Len(t, res.Users, 2)
	assert.Equal(t, "Ana", res.Users[0].User.Name)
	assert.Equal(t, 2, res.Users[0].Records)
	assert.Equal(t, "13", res.Users[0].Totals["totalRxs"].String())
	assert.Equal(t, "4", res.Users[1].Totals["totalRxs"].String())
}

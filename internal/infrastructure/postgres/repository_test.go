package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
)

var errQueryCortada = errors.New("consulta no ejecutada")

// fakeQuerier registra la última sentencia y devuelve el error configurado.
type fakeQuerier struct {
	err  error
	sql  string
	args []any
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql, q.args = sql, args
	return pgconn.CommandTag{}, q.err
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args
	return nil, errQueryCortada
}

func (q *fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("QueryRow no se usa en estos tests")
}

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestUserRepo_Create_TraduceErrores(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     error
		wantNone bool
	}{
		{name: "sin error", wantNone: true},
		{name: "email duplicado", err: pgError("23505", constraintUserEmail), want: domain.ErrEmailAlreadyExists},
		{name: "admin inexistente", err: pgError("23503", "users_admin_id_fkey"), want: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewUserRepository(&fakeQuerier{err: tt.err})
			err := repo.Create(context.Background(), &entity.User{ID: "u1", Email: "a@b.com", Role: entity.RoleAdmin})
			if tt.wantNone {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// Otra unicidad (p. ej. la PK) no debe presentarse como email repetido.
func TestUserRepo_Create_OtraUnicidadNoEsEmail(t *testing.T) {
	pkErr := pgError("23505", "users_pkey")
	repo := NewUserRepository(&fakeQuerier{err: pkErr})

	err := repo.Create(context.Background(), &entity.User{ID: "u1", Email: "a@b.com", Role: entity.RoleAdmin})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, pkErr)
}

func TestRecordRepo_Create_DuplicadoDelDia(t *testing.T) {
	rec := &entity.Record{ID: "r1", UserID: "u1", SchemaVersion: "v2", ReportDay: "2024-05-02",
		CreatedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)}

	q := &fakeQuerier{err: pgError("23505", constraintRecordUserDay)}
	err := NewRecordRepository(q).Create(context.Background(), rec)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmittedToday)
	require.Len(t, q.args, 7)
	assert.Equal(t, "u1", q.args[1])

	err = NewRecordRepository(&fakeQuerier{err: pgError("23505", "records_pkey")}).Create(context.Background(), rec)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAlreadySubmittedToday)
}

func TestRecordWhere(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name      string
		filter    repository.RecordFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "todos sin rango",
			filter:    repository.RecordFilter{AllUsers: true},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "todos con rango",
			filter:    repository.RecordFilter{AllUsers: true, From: &from, To: &to},
			wantWhere: " WHERE r.created_at >= $1 AND r.created_at <= $2",
			wantArgs:  []any{from, to},
		},
		{
			name:      "alcance vacío no coincide con nada",
			filter:    repository.RecordFilter{},
			wantWhere: " WHERE r.user_id = ANY($1)",
			wantArgs:  []any{[]string{}},
		},
		{
			name:      "usuarios y desde",
			filter:    repository.RecordFilter{UserIDs: []string{"u1", "u2"}, From: &from},
			wantWhere: " WHERE r.user_id = ANY($1) AND r.created_at >= $2",
			wantArgs:  []any{[]string{"u1", "u2"}, from},
		},
		{
			name:      "usuarios y rango completo",
			filter:    repository.RecordFilter{UserIDs: []string{"u1"}, From: &from, To: &to},
			wantWhere: " WHERE r.user_id = ANY($1) AND r.created_at >= $2 AND r.created_at <= $3",
			wantArgs:  []any{[]string{"u1"}, from, to},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := recordWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRecordRepo_List_NumeraLimitYOffset(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	q := &fakeQuerier{}
	_, err := NewRecordRepository(q).List(context.Background(),
		repository.RecordFilter{UserIDs: []string{"u1"}, From: &from, To: &to}, 50, 100)
	assert.ErrorIs(t, err, errQueryCortada)
	assert.Contains(t, q.sql, "LIMIT $4 OFFSET $5")
	require.Len(t, q.args, 5)
	assert.Equal(t, []any{50, 100}, q.args[3:])

	_, err = NewRecordRepository(q).List(context.Background(), repository.RecordFilter{AllUsers: true}, 10, 0)
	assert.ErrorIs(t, err, errQueryCortada)
	assert.Contains(t, q.sql, "LIMIT $1 OFFSET $2")
	assert.NotContains(t, q.sql, "WHERE")
	assert.Equal(t, []any{10, 0}, q.args)
}

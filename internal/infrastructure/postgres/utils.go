package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraints con significado de dominio.
const (
	constraintRecordUserDay = "records_user_day_key"
	constraintUserEmail     = "users_email_key"
)

// isUniqueViolationOn verifica una violación de unicidad (23505) sobre el constraint indicado.
func isUniqueViolationOn(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}

// isForeignKeyViolation 23503: la fila referenciada no existe o sigue referenciada.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

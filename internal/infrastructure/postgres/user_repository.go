package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, name, email, password_hash, role, admin_id, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.AdminID,
		user.CreatedAt, user.UpdatedAt,
	)
	return userInsertError(err)
}

// userInsertError traduce el error del INSERT: solo el índice de email es ErrEmailAlreadyExists.
func userInsertError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolationOn(err, constraintUserEmail):
		return domain.ErrEmailAlreadyExists
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: admin inexistente", domain.ErrInvalidInput)
	default:
		return fmt.Errorf("insert user: %w", err)
	}
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListManagedUsers usuarios role=user asignados al admin.
func (r *UserRepo) ListManagedUsers(ctx context.Context, adminID string) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users
		WHERE role = 'user' AND admin_id = $1 ORDER BY name, id`, adminID)
}

// CountManagedUsers cuántos usuarios tiene asignados el admin.
func (r *UserRepo) CountManagedUsers(ctx context.Context, adminID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'user' AND admin_id = $1`, adminID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count managed users: %w", err)
	}
	return n, nil
}

// ListAdmins todos los administradores.
func (r *UserRepo) ListAdmins(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE role = 'admin' ORDER BY name, id`)
}

// ListAll todas las cuentas (superadmin).
func (r *UserRepo) ListAll(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id`)
}

// UpdateRole cambia rol y vínculo de admin en una sola sentencia.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role entity.Role, adminID *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET role = $2, admin_id = $3, updated_at = now() WHERE id = $1`,
		id, string(role), adminID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: admin inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el admin aún tiene usuarios asignados", domain.ErrConflict)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// scanUser devuelve (nil, nil) si no hay fila.
func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.AdminID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if u.Role, err = entity.ParseRole(role); err != nil {
		return nil, err
	}
	return &u, nil
}

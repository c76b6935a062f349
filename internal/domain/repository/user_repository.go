package repository

import (
	"context"

	"github.com/jhoicas/Reportes-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas sin resultado devuelven (nil, nil).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListManagedUsers usuarios role=user cuyo admin es adminID.
	ListManagedUsers(ctx context.Context, adminID string) ([]*entity.User, error)
	CountManagedUsers(ctx context.Context, adminID string) (int, error)
	ListAdmins(ctx context.Context) ([]*entity.User, error)
	ListAll(ctx context.Context) ([]*entity.User, error)
	UpdateRole(ctx context.Context, id string, role entity.Role, adminID *string) error
	Delete(ctx context.Context, id string) error
}

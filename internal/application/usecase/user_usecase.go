package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
	"github.com/jhoicas/Reportes-api/pkg/config"
	"github.com/jhoicas/Reportes-api/pkg/logger"
)

// TxRunner ejecuta fn con repositorios atados a una misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(users repository.UserRepository, records repository.RecordRepository) error) error
}

// UserUseCase aplica reglas de negocio para cuentas: visibilidad, roles y borrado.
type UserUseCase struct {
	repo         repository.UserRepository
	tx           TxRunner
	deletePolicy string
	log          *logger.Logger
}

// NewUserUseCase construye el caso de uso. deletePolicy: config.DeletePolicyOrphan o DeletePolicyCascade.
func NewUserUseCase(repo repository.UserRepository, tx TxRunner, deletePolicy string, log *logger.Logger) *UserUseCase {
	if deletePolicy == "" {
		deletePolicy = config.DeletePolicyOrphan
	}
	return &UserUseCase{repo: repo, tx: tx, deletePolicy: deletePolicy, log: log.Component("usecase.user")}
}

// ListVisible admin: sus usuarios asignados; user: solo él mismo.
func (uc *UserUseCase) ListVisible(ctx context.Context, id entity.Identity) ([]dto.UserResponse, error) {
	if id.Role == entity.RoleAdmin {
		users, err := uc.repo.ListManagedUsers(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		return toUserResponses(users), nil
	}
	self, err := uc.repo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if self == nil {
		return nil, domain.ErrNotFound
	}
	return toUserResponses([]*entity.User{self}), nil
}

// ListAdmins opciones para el desplegable de registro.
func (uc *UserUseCase) ListAdmins(ctx context.Context) ([]dto.AdminOption, error) {
	admins, err := uc.repo.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminOption, 0, len(admins))
	for _, a := range admins {
		out = append(out, dto.AdminOption{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

// ListAll todas las cuentas (superadmin).
func (uc *UserUseCase) ListAll(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// UpdateRole cambia el rol manteniendo el invariante del vínculo admin:
// a admin se limpia el vínculo; a user se exige un admin existente distinto del propio usuario;
// un admin con usuarios asignados no puede pasar a user.
func (uc *UserUseCase) UpdateRole(ctx context.Context, userID string, in dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	var adminID *string
	if role == entity.RoleUser {
		target := ""
		if in.AdminID != nil {
			target = strings.TrimSpace(*in.AdminID)
		}
		if target == "" {
			return nil, fmt.Errorf("%w: adminId es obligatorio para role=user", domain.ErrInvalidInput)
		}
		if target == user.ID {
			return nil, fmt.Errorf("%w: un usuario no puede ser su propio admin", domain.ErrInvalidInput)
		}
		admin, err := uc.repo.GetByID(ctx, target)
		if err != nil {
			return nil, err
		}
		if admin == nil || !admin.IsAdmin() {
			return nil, fmt.Errorf("%w: el admin indicado no existe", domain.ErrInvalidInput)
		}
		if user.IsAdmin() {
			if err := uc.ensureNoManagedUsers(ctx, user.ID); err != nil {
				return nil, err
			}
		}
		adminID = &admin.ID
	}

	if err := uc.repo.UpdateRole(ctx, user.ID, role, adminID); err != nil {
		return nil, err
	}
	updated, err := uc.repo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	uc.log.Info().Str("user_id", user.ID).Str("from", string(user.Role)).Str("to", string(role)).Msg("rol actualizado")
	resp := entityToUserResponse(updated)
	return resp, nil
}

// Delete elimina la cuenta aplicando la política de borrado configurada.
// Un admin con usuarios asignados no se puede borrar.
func (uc *UserUseCase) Delete(ctx context.Context, userID string) error {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.IsAdmin() {
		if err := uc.ensureNoManagedUsers(ctx, user.ID); err != nil {
			return err
		}
	}

	var removed int64
	if uc.deletePolicy == config.DeletePolicyCascade {
		err = uc.tx.Run(ctx, func(users repository.UserRepository, records repository.RecordRepository) error {
			n, err := records.DeleteByUser(ctx, user.ID)
			if err != nil {
				return err
			}
			removed = n
			return users.Delete(ctx, user.ID)
		})
	} else {
		err = uc.repo.Delete(ctx, user.ID)
	}
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Str("policy", uc.deletePolicy).Int64("records_deleted", removed).Msg("usuario eliminado")
	return nil
}

func (uc *UserUseCase) ensureNoManagedUsers(ctx context.Context, adminID string) error {
	n, err := uc.repo.CountManagedUsers(ctx, adminID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el admin tiene %d usuario(s) asignado(s)", domain.ErrConflict, n)
	}
	return nil
}

func toUserResponses(users []*entity.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		AdminID:   u.AdminID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Reportes-api/internal/domain"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/internal/domain/repository"
)

// Scope conjunto de usuarios cuyos reportes puede ver la identidad.
type Scope struct {
	UserIDs []string
	Target  string
}

// Label identificador del alcance para nombres de archivo: el usuario concreto o "all".
func (s Scope) Label() string {
	if s.Target != "" {
		return s.Target
	}
	return "all"
}

// Empty indica que no hay ningún usuario visible.
func (s Scope) Empty() bool { return len(s.UserIDs) == 0 }

// Filter filtro de store para el alcance y rango.
func (s Scope) Filter(from, to *time.Time) repository.RecordFilter {
	return repository.RecordFilter{UserIDs: s.UserIDs, From: from, To: to}
}

// ScopeResolver calcula la visibilidad: un user se ve a sí mismo; un admin a sus usuarios asignados.
// Listado, resumen y export pasan todos por aquí.
type ScopeResolver struct {
	users repository.UserRepository
}

// NewScopeResolver construye el resolver.
func NewScopeResolver(users repository.UserRepository) *ScopeResolver {
	return &ScopeResolver{users: users}
}

// Resolve devuelve el alcance. Un admin que apunta a un usuario que no administra recibe ErrAccessDenied.
func (r *ScopeResolver) Resolve(ctx context.Context, id entity.Identity, targetUserID string) (Scope, error) {
	targetUserID = strings.TrimSpace(targetUserID)
	switch id.Role {
	case entity.RoleUser:
		return Scope{UserIDs: []string{id.UserID}, Target: id.UserID}, nil
	case entity.RoleAdmin:
		if targetUserID != "" {
			target, err := r.users.GetByID(ctx, targetUserID)
			if err != nil {
				return Scope{}, err
			}
			if target == nil || !target.ManagedBy(id.UserID) {
				return Scope{}, fmt.Errorf("%w: el usuario no está asignado a este admin", domain.ErrAccessDenied)
			}
			return Scope{UserIDs: []string{target.ID}, Target: target.ID}, nil
		}
		managed, err := r.users.ListManagedUsers(ctx, id.UserID)
		if err != nil {
			return Scope{}, err
		}
		ids := make([]string, 0, len(managed))
		for _, u := range managed {
			ids = append(ids, u.ID)
		}
		return Scope{UserIDs: ids}, nil
	default:
		return Scope{}, domain.ErrAccessDenied
	}
}

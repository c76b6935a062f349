package entity

import (
	"fmt"
	"strings"
	"time"
)

// Role rol cerrado de un usuario. Solo se construye vía ParseRole.
type Role string

// Roles válidos para User.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normaliza (trim + minúsculas) y valida un rol.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("rol desconocido %q", s)
	}
}

func (r Role) String() string { return string(r) }

// User representa una cuenta del sistema.
// Un role=user siempre apunta a su admin; un role=admin nunca tiene AdminID.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	AdminID      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario es administrador.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ManagedBy indica si el usuario es un role=user administrado por adminID.
func (u *User) ManagedBy(adminID string) bool {
	return u.Role == RoleUser && u.AdminID != nil && *u.AdminID == adminID
}

// NormalizeEmail forma canónica de un email para almacenamiento y búsqueda.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

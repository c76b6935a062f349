package dto

import "time"

// RegisterRequest entrada para registro (password en texto, se hashea en use case).
// AdminID es obligatorio cuando role=user.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"omitempty,max=20"`
	AdminID  *string `json:"adminId,omitempty"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AdminID   *string   `json:"adminId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse salida de registro y login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AdminOption entrada del desplegable de registro.
type AdminOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AdminsResponse listado público de administradores.
type AdminsResponse struct {
	Admins []AdminOption `json:"admins"`
}

// UsersResponse listado de usuarios.
type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

// UpdateRoleRequest cambio de rol (superadmin). AdminID obligatorio si role=user.
type UpdateRoleRequest struct {
	Role    string  `json:"role" validate:"required"`
	AdminID *string `json:"adminId,omitempty"`
}

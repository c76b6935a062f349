package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reportes-api/internal/application/auth"
	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/application/usecase"
)

// AuthHandler maneja registro, login y consultas de cuentas.
type AuthHandler struct {
	uc    *auth.AuthUseCase
	users *usecase.UserUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, users *usecase.UserUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, users: users}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "name, email, password, role, adminId"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Admins godoc
// @Summary      Administradores disponibles para el registro
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.AdminsResponse
// @Router       /api/auth/admins [get]
func (h *AuthHandler) Admins(c *fiber.Ctx) error {
	admins, err := h.users.ListAdmins(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AdminsResponse{Admins: admins})
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, _ := GetIdentity(c)
	out, err := h.uc.Me(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Users godoc
// @Summary      Usuarios visibles (admin: los asignados; user: él mismo)
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UsersResponse
// @Router       /api/auth/users [get]
func (h *AuthHandler) Users(c *fiber.Ctx) error {
	id, _ := GetIdentity(c)
	users, err := h.users.ListVisible(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.UsersResponse{Users: users})
}

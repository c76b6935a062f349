package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/application/report"
	"github.com/jhoicas/Reportes-api/internal/application/usecase"
)

// SuperAdminHandler gestión de cuentas y reportes sin restricción de alcance.
type SuperAdminHandler struct {
	users *usecase.UserUseCase
	query *report.QueryUseCase
	del   *report.DeleteUseCase
}

// NewSuperAdminHandler construye el handler.
func NewSuperAdminHandler(users *usecase.UserUseCase, query *report.QueryUseCase, del *report.DeleteUseCase) *SuperAdminHandler {
	return &SuperAdminHandler{users: users, query: query, del: del}
}

// ListUsers godoc
// @Summary      Todas las cuentas
// @Tags         superadmin
// @Produce      json
// @Success      200  {object}  dto.UsersResponse
// @Router       /api/superadmin/users [get]
func (h *SuperAdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.UsersResponse{Users: users})
}

// UpdateRole godoc
// @Summary      Cambiar rol (a user exige adminId)
// @Tags         superadmin
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateRoleRequest  true  "role, adminId"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/superadmin/users/{id}/role [put]
func (h *SuperAdminHandler) UpdateRole(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.users.UpdateRole(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteUser godoc
// @Summary      Eliminar cuenta
// @Tags         superadmin
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/superadmin/users/{id} [delete]
func (h *SuperAdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "usuario eliminado"})
}

// ListRecords godoc
// @Summary      Resumen de todos los reportes
// @Tags         superadmin
// @Produce      json
// @Param        page      query  int  false  "Página (desde 1)"
// @Param        pageSize  query  int  false  "Tamaño de página"
// @Success      200  {object}  dto.RecordOverviewResponse
// @Router       /api/superadmin/records [get]
func (h *SuperAdminHandler) ListRecords(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := parseQuery(c, &page); !ok {
		return err
	}
	out, err := h.query.Overview(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteRecord godoc
// @Summary      Eliminar cualquier reporte
// @Tags         superadmin
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/superadmin/records/{id} [delete]
func (h *SuperAdminHandler) DeleteRecord(c *fiber.Ctx) error {
	if err := h.del.DeleteAny(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "reporte eliminado"})
}

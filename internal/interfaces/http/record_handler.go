package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/application/report"
)

// RecordHandler endpoints de reportes diarios.
type RecordHandler struct {
	submit *report.SubmitUseCase
	query  *report.QueryUseCase
	export *report.ExportUseCase
	del    *report.DeleteUseCase
}

// NewRecordHandler construye el handler.
func NewRecordHandler(submit *report.SubmitUseCase, query *report.QueryUseCase, export *report.ExportUseCase, del *report.DeleteUseCase) *RecordHandler {
	return &RecordHandler{submit: submit, query: query, export: export, del: del}
}

// Create godoc
// @Summary      Enviar el reporte del día
// @Description  Los campos derivados se calculan en el servidor; un segundo envío en el mismo día devuelve 409.
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "campos del formulario"
// @Success      201   {object}  dto.CreateRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/records [post]
func (h *RecordHandler) Create(c *fiber.Ctx) error {
	raw, err := decodeObject(c.Body())
	if err != nil {
		return badBody(c, err.Error())
	}
	id, _ := GetIdentity(c)
	rec, err := h.submit.Submit(c.UserContext(), id, raw)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateRecordResponse{Record: *rec})
}

// decodeObject conserva los números como json.Number para no perder precisión.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("cuerpo inválido: se esperaba un objeto JSON")
	}
	if raw == nil {
		return nil, fmt.Errorf("cuerpo inválido: se esperaba un objeto JSON")
	}
	return raw, nil
}

// CheckToday godoc
// @Summary      ¿Ya envió el reporte de hoy?
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CheckTodayResponse
// @Router       /api/records/check-today [get]
func (h *RecordHandler) CheckToday(c *fiber.Ctx) error {
	id, _ := GetIdentity(c)
	out, err := h.submit.CheckToday(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar reportes visibles
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        start     query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end       query  string  false  "Hasta (YYYY-MM-DD), inclusive"
// @Param        userId    query  string  false  "Usuario asignado (solo admin)"
// @Param        page      query  int     false  "Página (desde 1)"
// @Param        pageSize  query  int     false  "Tamaño de página (default 50, max 500)"
// @Success      200  {object}  dto.RecordListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/records [get]
func (h *RecordHandler) List(c *fiber.Ctx) error {
	var q dto.RecordQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	id, _ := GetIdentity(c)
	out, err := h.query.List(c.UserContext(), id, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales por usuario en el rango
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        start   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end     query  string  false  "Hasta (YYYY-MM-DD), inclusive"
// @Param        userId  query  string  false  "Usuario asignado (solo admin)"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/records/summary [get]
func (h *RecordHandler) Summary(c *fiber.Ctx) error {
	var q dto.RecordQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	id, _ := GetIdentity(c)
	out, err := h.query.Summary(c.UserContext(), id, q.Start, q.End, q.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar reportes (xlsx o pdf)
// @Tags         records
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        start   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end     query  string  false  "Hasta (YYYY-MM-DD), inclusive"
// @Param        userId  query  string  false  "Usuario asignado (solo admin)"
// @Param        format  query  string  false  "xlsx (default) o pdf"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/records/export [get]
func (h *RecordHandler) Export(c *fiber.Ctx) error {
	var q dto.ExportQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	id, _ := GetIdentity(c)
	file, err := h.export.Export(c.UserContext(), id, q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Send(file.Data)
}

// Delete godoc
// @Summary      Eliminar un reporte de un usuario asignado
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/records/{id} [delete]
func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	id, _ := GetIdentity(c)
	if err := h.del.Delete(c.UserContext(), id, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "reporte eliminado"})
}

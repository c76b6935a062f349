package http

import (
	"errors"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain"
)

// errorMapping código HTTP y código de error por sentinel de dominio, en orden de prioridad.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrMissingField, fiber.StatusBadRequest, "MISSING_FIELD"},
	{domain.ErrInvalidField, fiber.StatusBadRequest, "INVALID_FIELD"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrAccessDenied, fiber.StatusForbidden, "ACCESS_DENIED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrAlreadySubmittedToday, fiber.StatusConflict, "ALREADY_SUBMITTED_TODAY"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// writeError traduce err a dto.ErrorResponse. Los 5xx no exponen detalle: se loguean y se envían a Sentry.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			resp := dto.ErrorResponse{Code: m.code, Message: err.Error()}
			var fe *domain.FieldError
			if errors.As(err, &fe) {
				resp.Field = fe.Field
			}
			return c.Status(m.status).JSON(resp)
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}

	requestLogger(c).Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else if sentry.CurrentHub().Client() != nil {
		sentry.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// ErrorHandler manejador de errores de Fiber; usa el mismo mapeo que los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func badBody(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: msg})
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Reportes-api/pkg/logger"
)

// LocalLogger clave en c.Locals del logger de la petición.
const LocalLogger = "logger"

// RequestLogger deja un sublogger con request_id en c.Locals y registra cada petición al terminar.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		reqLog := log.ForRequest(reqID)
		c.Locals(LocalLogger, reqLog)

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = reqLog.Warn()
		}
		if id, ok := GetIdentity(c); ok {
			ev = ev.Str("user_id", id.UserID)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición HTTP")
		return nil
	}
}

func requestLogger(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(LocalLogger).(*logger.Logger); ok && l != nil {
		return l
	}
	return logger.Nop()
}

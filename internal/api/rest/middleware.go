package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"produce-inspector/pkg/log"
)

const RequestIDHeader = "X-Request-ID"

// RequestID берёт идентификатор из заголовка или создаёт новый.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Locals(log.RequestIDKey, requestID)
		c.Set(RequestIDHeader, requestID)
		c.SetUserContext(log.ContextWithRequestID(c.UserContext(), requestID))

		return c.Next()
	}
}

func getRequestID(c *fiber.Ctx) string {
	requestID, ok := c.Locals(log.RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// Logger пишет строку на каждый запрос с уровнем по статусу ответа.
func Logger(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		fields := log.Fields{
			"request_id":    getRequestID(c),
			"method":        c.Method(),
			"path":          c.Path(),
			"status":        status,
			"latency_ms":    time.Since(start).Milliseconds(),
			"ip":            c.IP(),
			"user_agent":    c.Get("User-Agent"),
			"response_size": len(c.Response().Body()),
		}

		switch {
		case status >= 500:
			logger.WithFields(fields).Error("server error")
		case status >= 400:
			logger.WithFields(fields).Warn("client error")
		default:
			logger.WithFields(fields).Info("success")
		}

		return err
	}
}

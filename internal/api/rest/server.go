package rest

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"produce-inspector/internal/container"
)

const maxUploadSize = 20 * 1024 * 1024

// NewFiber создаёт приложение fiber с jsoniter и подключёнными маршрутами.
func NewFiber(c *container.Container, depthScale float64) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Produce Inspector",
		BodyLimit:             maxUploadSize,
		StrictRouting:         true,
		CaseSensitive:         true,
		DisableStartupMessage: true,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
	})

	app.Use(RequestID())
	app.Use(Logger(c.Log))

	NewHandler(c.Log, c.InspectionService, depthScale).Start(app)

	return app
}

// Serve слушает addr, пока не будет вызван app.Shutdown.
func Serve(app *fiber.App, addr string, logger *logrus.Logger) error {
	logger.WithField("addr", addr).Info("http server listening")
	return app.Listen(addr)
}

package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	app "produce-inspector/internal/application"
	"produce-inspector/internal/domain/entity"
	"produce-inspector/internal/domain/port"
	"produce-inspector/internal/infrastructure/source"
	"produce-inspector/internal/infrastructure/vision"
	"produce-inspector/pkg/log"
)

type AnalyzeResponse struct {
	RequestID   string                 `json:"request_id"`
	Report      *entity.AnalysisReport `json:"report"`
	Description string                 `json:"description,omitempty"`
	Annotated   []byte                 `json:"annotated,omitempty"` // JPEG, base64 в JSON
}

type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
	Code      string `json:"code"`
}

type Handler struct {
	log        *logrus.Logger
	svc        *app.InspectionService
	depthScale float64
	timeout    time.Duration
}

func NewHandler(logger *logrus.Logger, svc *app.InspectionService, depthScale float64) *Handler {
	return &Handler{
		log:        logger,
		svc:        svc,
		depthScale: depthScale,
		timeout:    30 * time.Second,
	}
}

func (h *Handler) Start(srv fiber.Router) {
	srv.Get("/healthz", h.Health)

	api := srv.Group("/api/v1")
	api.Post("/analyze", h.Analyze)
}

func (h *Handler) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

// Analyze принимает multipart с полем image и необязательным depth (16-бит PNG).
// Параметры запроса: strategy переопределяет сегментацию, annotate=true
// добавляет в ответ картинку с разметкой.
func (h *Handler) Analyze(ctx *fiber.Ctx) error {
	requestID := getRequestID(ctx)

	form, err := ctx.MultipartForm()
	if err != nil {
		return h.fail(ctx, requestID, fmt.Errorf("%w: expected multipart form: %v", entity.ErrInvalidInput, err), "parse_form")
	}

	images := form.File["image"]
	if len(images) == 0 {
		return h.fail(ctx, requestID, fmt.Errorf("%w: image field is required", entity.ErrInvalidInput), "parse_form")
	}
	data, err := readPart(images[0])
	if err != nil {
		return h.fail(ctx, requestID, err, "read_image")
	}
	frame, err := source.DecodeFrame(data)
	if err != nil {
		return h.fail(ctx, requestID, err, "decode_image")
	}
	capture := &port.Capture{Name: images[0].Filename, Frame: frame}

	if depths := form.File["depth"]; len(depths) > 0 {
		raw, err := readPart(depths[0])
		if err != nil {
			return h.fail(ctx, requestID, err, "read_depth")
		}
		capture.Depth, err = source.DecodeDepth(raw, h.depthScale)
		if err != nil {
			return h.fail(ctx, requestID, err, "decode_depth")
		}
	}

	params := h.svc.Params()
	if strategy := ctx.Query("strategy"); strategy != "" {
		params.Segment.Strategy = entity.SegmentStrategy(strategy)
	}

	c, cancel := context.WithTimeout(ctx.UserContext(), h.timeout)
	defer cancel()

	out, err := h.svc.Inspect(c, capture, params)
	if err != nil {
		return h.fail(ctx, requestID, err, "inspect")
	}

	resp := AnalyzeResponse{RequestID: requestID, Report: out.Report}
	if out.Description != nil {
		resp.Description = out.Description.Text
	}
	if ctx.QueryBool("annotate") {
		resp.Annotated = out.Annotated
	}

	log.WithRequestID(h.log, c).WithFields(log.Fields{
		"report_id": out.Report.ID,
		"items":     out.Report.ItemCount,
		"defects":   out.Report.DefectCount,
	}).Info("image analyzed")

	return ctx.Status(fiber.StatusOK).JSON(resp)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}

// fail переводит доменную ошибку в HTTP-статус.
func (h *Handler) fail(ctx *fiber.Ctx, requestID string, err error, operation string) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = fiber.StatusGatewayTimeout, "TIMEOUT"
	case errors.Is(err, vision.ErrUnavailable), errors.Is(err, app.ErrVisionNotConfigured):
		status, code = fiber.StatusServiceUnavailable, "VISION_UNAVAILABLE"
	}

	entry := h.log.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       ctx.Path(),
		"operation":  operation,
	})
	if status >= 500 {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	return ctx.Status(status).JSON(ErrorResponse{
		RequestID: requestID,
		Error:     err.Error(),
		Code:      code,
	})
}

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"produce-inspector/internal/domain/entity"
	"produce-inspector/internal/domain/port"
)

// ErrVisionNotConfigured возвращается, если сервис собран без бэкенда обработки.
var ErrVisionNotConfigured = errors.New("vision backend is not configured")

type InspectionService struct {
	vision    port.Vision
	annotator port.Annotator
	describer port.ReportDescriber
	params    entity.PipelineParams
	log       *logrus.Logger
}

// InspectionOutput содержит отчёт, его текстовое описание и картинку с разметкой.
type InspectionOutput struct {
	Report      *entity.AnalysisReport `json:"report"`
	Description *entity.Description    `json:"description,omitempty"`
	Annotated   []byte                 `json:"-"`
}

// NewInspectionService создаёт сервис, который прогоняет кадры через конвейер.
// annotator и describer необязательны.
func NewInspectionService(
	vision port.Vision,
	annotator port.Annotator,
	describer port.ReportDescriber,
	params entity.PipelineParams,
	log *logrus.Logger,
) *InspectionService {
	if log == nil {
		log = logrus.New()
	}
	return &InspectionService{
		vision:    vision,
		annotator: annotator,
		describer: describer,
		params:    params,
		log:       log,
	}
}

// Params возвращает параметры конвейера по умолчанию.
func (s *InspectionService) Params() entity.PipelineParams {
	return s.params
}

// Analyze прогоняет один кадр через обе ветки и собирает отчёт.
// Неверные входные данные отклоняются до обработки; пустой результат не ошибка.
func (s *InspectionService) Analyze(ctx context.Context, frame entity.Frame, depth *entity.DepthBuffer, params entity.PipelineParams) (*entity.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.vision == nil {
		return nil, ErrVisionNotConfigured
	}
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	if depth != nil {
		if err := depth.Validate(frame); err != nil {
			return nil, err
		}
	}

	started := time.Now()

	// Ветка подсчёта.
	mask, threshold, err := s.vision.Segment(frame, params.Segment)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}
	cleaned, err := s.vision.Clean(mask, params.Morphology.KernelSize)
	if err != nil {
		return nil, fmt.Errorf("clean mask: %w", err)
	}
	contours, err := s.vision.FindContours(cleaned)
	if err != nil {
		return nil, fmt.Errorf("find contours: %w", err)
	}
	_, items := CountItems(contours, params.Counting.MinArea)

	// Ветка дефектов работает по исходному кадру, не по маске.
	defects, err := s.vision.DetectDefects(frame, params.Defect)
	if err != nil {
		return nil, fmt.Errorf("detect defects: %w", err)
	}

	var depthByItem []*entity.DepthStats
	var labels []string
	if depth != nil {
		depthByItem = make([]*entity.DepthStats, len(items))
		labels = make([]string, len(items))
		for i, item := range items {
			depthByItem[i] = CorrelateDepth(depth, item.BoundingBox, params.Depth.IgnoreZero)
			labels[i] = ClassifyDepth(depthByItem[i], params.Depth)
		}
	}

	report := AggregateReport(items, defects, depthByItem, labels)
	report.ID = uuid.NewString()
	report.ImageWidth = frame.Width
	report.ImageHeight = frame.Height
	report.Strategy = params.Segment.Strategy
	report.Threshold = threshold
	report.HasDepth = depth != nil
	if params.MatchDefects {
		MatchDefects(report)
	}

	s.log.WithFields(logrus.Fields{
		"report_id": report.ID,
		"strategy":  report.Strategy,
		"contours":  len(contours),
		"items":     report.ItemCount,
		"defects":   report.DefectCount,
		"depth":     report.HasDepth,
		"elapsed":   time.Since(started).String(),
	}).Debug("frame analyzed")

	return report, nil
}

// Inspect анализирует снимок, описывает результат и, если есть чем, рисует разметку.
func (s *InspectionService) Inspect(ctx context.Context, capture *port.Capture, params entity.PipelineParams) (*InspectionOutput, error) {
	if capture == nil {
		return nil, fmt.Errorf("%w: nil capture", entity.ErrInvalidInput)
	}

	report, err := s.Analyze(ctx, capture.Frame, capture.Depth, params)
	if err != nil {
		return nil, err
	}
	out := &InspectionOutput{Report: report}

	if s.describer != nil {
		desc, err := s.describer.Describe(ctx, report)
		if err != nil {
			return nil, fmt.Errorf("describe report: %w", err)
		}
		out.Description = desc
	}

	if s.annotator != nil && (report.ItemCount > 0 || report.HasDefects()) {
		annotated, err := s.annotator.Annotate(capture.Frame, report)
		if err != nil {
			// Разметка вспомогательная, отчёт отдаём и без неё.
			s.log.WithFields(logrus.Fields{
				"report_id": report.ID,
				"error":     err.Error(),
			}).Warn("failed to annotate frame")
		} else {
			out.Annotated = annotated
		}
	}

	return out, nil
}

// ProcessStream забирает кадры из источника, пока он не закончится, и вызывает
// handle для каждого результата. Ошибка анализа одного кадра передаётся в
// handle как есть; прерывает цикл только ошибка, возвращённая handle.
func (s *InspectionService) ProcessStream(
	ctx context.Context,
	src port.FrameSource,
	params entity.PipelineParams,
	handle func(capture *port.Capture, out *InspectionOutput, err error) error,
) error {
	frames := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		capture, err := src.Next(ctx)
		if errors.Is(err, port.ErrEndOfStream) {
			s.log.WithField("frames", frames).Info("frame source exhausted")
			return nil
		}
		if err != nil {
			return fmt.Errorf("next frame: %w", err)
		}
		frames++

		out, err := s.Inspect(ctx, capture, params)
		if err := handle(capture, out, err); err != nil {
			return err
		}
	}
}

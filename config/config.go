package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	app "produce-inspector/internal/application"
	"produce-inspector/internal/domain/entity"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	LogFile       string
	Mode          string // file, camera, bot, http
	TelegramToken string
	HTTPAddr      string
	CameraDevice  string
	DepthScale    float64 // множитель отсчётов z16 до единиц глубины
	Pipeline      entity.PipelineParams
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		Mode:          getEnv("MODE", "file"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		CameraDevice:  getEnv("CAMERA_DEVICE", "0"),
	}

	p := &parser{}
	cfg.DepthScale = p.float("DEPTH_SCALE", 0.001)
	cfg.Pipeline = p.pipeline()
	if p.err != nil {
		return nil, p.err
	}

	if err := app.ValidateParams(cfg.Pipeline); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	if cfg.DepthScale <= 0 {
		return nil, fmt.Errorf("DEPTH_SCALE must be positive, got %v", cfg.DepthScale)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// parser запоминает первую ошибку разбора, остальные поля читаются как обычно.
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("parse %s=%q: %w", key, value, err)
	}
}

func (p *parser) pipeline() entity.PipelineParams {
	params := entity.DefaultParams()

	params.Segment.Strategy = entity.SegmentStrategy(getEnv("SEGMENT_STRATEGY", string(params.Segment.Strategy)))
	params.Segment.ColorRange.Lower = p.triple("HSV_LOWER", params.Segment.ColorRange.Lower)
	params.Segment.ColorRange.Upper = p.triple("HSV_UPPER", params.Segment.ColorRange.Upper)
	if v := os.Getenv("THRESHOLD_VALUE"); v != "" && !strings.EqualFold(v, "auto") {
		params.Segment.Intensity.Auto = false
		params.Segment.Intensity.Value = p.float("THRESHOLD_VALUE", params.Segment.Intensity.Value)
	}
	params.Segment.Intensity.Invert = p.bool("THRESHOLD_INVERT", params.Segment.Intensity.Invert)

	params.Morphology.KernelSize = p.int("MORPH_KERNEL", params.Morphology.KernelSize)
	params.Counting.MinArea = p.float("MIN_AREA", params.Counting.MinArea)

	params.Defect.Blur = entity.BlurKind(getEnv("DEFECT_BLUR", string(params.Defect.Blur)))
	params.Defect.BlurKernelSize = p.int("DEFECT_BLUR_KERNEL", params.Defect.BlurKernelSize)
	params.Defect.AccumulatorResolution = p.float("HOUGH_DP", params.Defect.AccumulatorResolution)
	params.Defect.MinCenterDistance = p.float("HOUGH_MIN_DIST", params.Defect.MinCenterDistance)
	params.Defect.EdgeThreshold = p.float("HOUGH_PARAM1", params.Defect.EdgeThreshold)
	params.Defect.AccumulatorThreshold = p.float("HOUGH_PARAM2", params.Defect.AccumulatorThreshold)
	params.Defect.MinRadius = p.int("HOUGH_MIN_RADIUS", params.Defect.MinRadius)
	params.Defect.MaxRadius = p.int("HOUGH_MAX_RADIUS", params.Defect.MaxRadius)

	if v := os.Getenv("DEPTH_THRESHOLD"); v != "" {
		threshold := p.float("DEPTH_THRESHOLD", 0)
		params.Depth.ClassificationThreshold = &threshold
	}
	params.Depth.AboveLabel = getEnv("DEPTH_LABEL_ABOVE", params.Depth.AboveLabel)
	params.Depth.BelowLabel = getEnv("DEPTH_LABEL_BELOW", params.Depth.BelowLabel)
	params.Depth.IgnoreZero = p.bool("DEPTH_IGNORE_ZERO", params.Depth.IgnoreZero)

	params.MatchDefects = p.bool("MATCH_DEFECTS", params.MatchDefects)

	return params
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return f
}

func (p *parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return b
}

// triple разбирает "h,s,v".
func (p *parser) triple(key string, fallback [3]float64) [3]float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	if len(parts) != 3 {
		p.fail(key, v, fmt.Errorf("want 3 comma-separated values, got %d", len(parts)))
		return fallback
	}
	var out [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			p.fail(key, v, err)
			return fallback
		}
		out[i] = f
	}
	return out
}

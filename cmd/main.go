package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"produce-inspector/config"
	telegram "produce-inspector/internal/api"
	"produce-inspector/internal/api/rest"
	app "produce-inspector/internal/application"
	"produce-inspector/internal/container"
	"produce-inspector/internal/domain/port"
	"produce-inspector/internal/infrastructure/describe"
	"produce-inspector/internal/infrastructure/source"
	"produce-inspector/internal/infrastructure/storage"
	"produce-inspector/internal/infrastructure/vision"
	"produce-inspector/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mode := flag.String("mode", cfg.Mode, "file, camera, bot или http")
	depth := flag.String("depth", "", "карты глубины через запятую, по порядку изображений")
	annotateDir := flag.String("annotate", "", "каталог для картинок с разметкой")
	frames := flag.Int("frames", 0, "сколько кадров снять с камеры, 0 — без ограничения")
	flag.Parse()

	logger, err := log.NewLogger(log.Options{Level: cfg.LogLevel, File: cfg.LogFile, Env: cfg.AppEnv})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Собираем сервисы приложения
	gocv := vision.NewGoCVVision()
	appContainer := container.New(
		logger,
		storage.NewMemoryUserRepository(),
		gocv,
		gocv,
		describe.NewTextDescriber(),
		cfg.Pipeline,
	)

	switch *mode {
	case "file":
		err = runSource(ctx, appContainer, fileSource(flag.Args(), *depth, cfg.DepthScale), *annotateDir)
	case "camera":
		var cam *source.CameraSource
		cam, err = source.NewCameraSource(cfg.CameraDevice, *frames)
		if err == nil {
			err = runSource(ctx, appContainer, cam, *annotateDir)
		}
	case "bot":
		err = runBot(ctx, cfg, appContainer)
	case "http":
		err = runHTTP(ctx, cfg, appContainer)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if err != nil {
		logger.WithField("mode", *mode).Fatalf("stopped with error: %v", err)
	}
}

func fileSource(images []string, depth string, scale float64) *source.FileSource {
	pairs := map[string]string{}
	if depth != "" {
		for i, path := range strings.Split(depth, ",") {
			if i < len(images) && path != "" {
				pairs[images[i]] = path
			}
		}
	}
	return source.NewFileSource(images, pairs, scale)
}

// runSource печатает отчёт по каждому кадру в stdout построчно в JSON.
func runSource(ctx context.Context, c *container.Container, src port.FrameSource, annotateDir string) error {
	defer src.Close()

	if annotateDir != "" {
		if err := os.MkdirAll(annotateDir, 0o755); err != nil {
			return fmt.Errorf("create annotate dir: %w", err)
		}
	}

	svc := c.InspectionService
	enc := jsoniter.NewEncoder(os.Stdout)
	failed := 0

	err := svc.ProcessStream(ctx, src, svc.Params(), func(capture *port.Capture, out *app.InspectionOutput, err error) error {
		if err != nil {
			if errors.Is(err, vision.ErrUnavailable) || errors.Is(err, app.ErrVisionNotConfigured) {
				return err
			}
			failed++
			c.Log.WithFields(logrus.Fields{
				"frame": capture.Name,
				"error": err.Error(),
			}).Error("failed to inspect frame")
			return nil
		}

		if annotateDir != "" && len(out.Annotated) > 0 {
			name := strings.TrimSuffix(capture.Name, filepath.Ext(capture.Name)) + "_annotated.jpg"
			if err := os.WriteFile(filepath.Join(annotateDir, name), out.Annotated, 0o644); err != nil {
				return fmt.Errorf("write annotation: %w", err)
			}
		}

		return enc.Encode(struct {
			Frame string `json:"frame"`
			*app.InspectionOutput
		}{capture.Name, out})
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d frame(s) failed", failed)
	}
	return nil
}

func runBot(ctx context.Context, cfg *config.Config, c *container.Container) error {
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, c)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	c.Log.Info("bot is running")
	return bot.Run(ctx)
}

func runHTTP(ctx context.Context, cfg *config.Config, c *container.Container) error {
	server := rest.NewFiber(c, cfg.DepthScale)

	errCh := make(chan error, 1)
	go func() {
		errCh <- rest.Serve(server, cfg.HTTPAddr, c.Log)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		c.Log.Info("shutting down http server")
		return server.ShutdownWithTimeout(10 * time.Second)
	}
}

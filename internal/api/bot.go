package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "produce-inspector/internal/application"
	"produce-inspector/internal/container"
	"produce-inspector/internal/domain/entity"
	"produce-inspector/internal/domain/port"
	"produce-inspector/internal/infrastructure/source"
)

const (
	msgStart = `👋 Привет! Я бот для подсчёта плодов и поиска дефектов на фото.

📸 Отправьте мне фото партии, и я посчитаю объекты и отмечу подозрительные пятна.

📋 Команды:
/check — начать проверку партии
/hsv — сегментация по цвету (HSV)
/otsu — сегментация по яркости (порог Оцу)
/reset — сбросить настройки
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото партии
2️⃣ Бот выделит объекты, посчитает их и поищет круглые дефекты
3️⃣ Вы получите результат: текст + фото с разметкой

💡 Рекомендации:
• Снимайте при хорошем освещении
• Используйте однотонный фон
• Объекты не должны касаться друг друга

📋 Команды:
/check — начать проверку
/hsv, /otsu — выбрать способ сегментации
/reset — сбросить настройки
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото партии для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото партии для проверки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgNoItems         = "🔍 Объекты и дефекты не обнаружены."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgStrategyHSV     = "🎨 Теперь объекты выделяются по цвету (HSV)."
	msgStrategyOtsu    = "🌗 Теперь объекты выделяются по яркости (порог Оцу)."
	msgReset           = "♻️ Настройки сброшены."
)

// client описывает часть API Telegram, которой пользуется бот
type client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// Bot представляет Telegram-бота
type Bot struct {
	api      client
	app      *container.Container
	log      *logrus.Logger
	download func(fileID string) ([]byte, error)
	timeout  time.Duration
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	c.Log.WithField("account", api.Self.UserName).Info("authorized on telegram")

	b := newBot(api, c)
	b.download = func(fileID string) ([]byte, error) {
		return downloadFile(api, fileID)
	}
	return b, nil
}

func newBot(api client, c *container.Container) *Bot {
	return &Bot{
		api:     api,
		app:     c,
		log:     c.Log,
		timeout: 30 * time.Second,
	}
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	user, err := b.app.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.WithFields(logrus.Fields{
			"user_id": msg.From.ID,
			"error":   err.Error(),
		}).Error("failed to get user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var (
		reply string
		err   error
	)

	switch msg.Command() {
	case "start":
		_, err = b.app.UserService.SetState(ctx, user.ID, user.ChatID, entity.StateMainMenu)
		reply = msgStart

	case "help":
		reply = msgHelp

	case "check":
		_, err = b.app.UserService.BeginCheck(ctx, user.ID, user.ChatID)
		reply = msgAwaitingPhoto

	case "hsv":
		_, err = b.app.UserService.SetStrategy(ctx, user.ID, user.ChatID, entity.StrategyColorRange)
		reply = msgStrategyHSV

	case "otsu":
		_, err = b.app.UserService.SetStrategy(ctx, user.ID, user.ChatID, entity.StrategyIntensityThreshold)
		reply = msgStrategyOtsu

	case "reset":
		_, err = b.app.UserService.Reset(ctx, user.ID, user.ChatID)
		reply = msgReset

	case "cancel":
		_, err = b.app.UserService.Cancel(ctx, user.ID, user.ChatID)
		reply = msgCancelled

	default:
		reply = msgUnknownCommand
	}

	if err != nil {
		b.log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"command": msg.Command(),
			"error":   err.Error(),
		}).Error("failed to handle command")
		reply = msgProcessingError
	}
	b.sendMessage(msg.Chat.ID, reply)
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	// Устанавливаем состояние "обработка"
	if _, err := b.app.UserService.SetState(ctx, user.ID, user.ChatID, entity.StateProcessing); err != nil {
		b.log.WithField("error", err.Error()).Warn("failed to save user state")
	}
	defer func() {
		// Возвращаем в главное меню
		if _, err := b.app.UserService.SetState(ctx, user.ID, user.ChatID, entity.StateMainMenu); err != nil {
			b.log.WithField("error", err.Error()).Warn("failed to save user state")
		}
	}()

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	out, err := b.inspect(ctx, photo.FileID, user)
	if err != nil {
		fields := logrus.Fields{
			"user_id": user.ID,
			"file_id": photo.FileID,
			"error":   err.Error(),
		}
		if errors.Is(err, entity.ErrInvalidInput) {
			b.log.WithFields(fields).Warn("rejected photo")
		} else {
			b.log.WithFields(fields).Error("failed to inspect photo")
		}
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.log.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"report_id": out.Report.ID,
		"items":     out.Report.ItemCount,
		"defects":   out.Report.DefectCount,
	}).Info("photo inspected")

	text := msgNoItems
	if out.Report.ItemCount > 0 || out.Report.HasDefects() {
		if out.Description != nil {
			text = out.Description.Text
		} else {
			text = fmt.Sprintf("Объектов: %d, дефектов: %d", out.Report.ItemCount, out.Report.DefectCount)
		}
	}

	if len(out.Annotated) == 0 {
		b.sendMessage(msg.Chat.ID, text)
		return
	}
	b.sendPhoto(msg.Chat.ID, out.Annotated, text)
}

func (b *Bot) inspect(ctx context.Context, fileID string, user *entity.User) (*app.InspectionOutput, error) {
	imageData, err := b.download(fileID)
	if err != nil {
		return nil, fmt.Errorf("download photo: %w", err)
	}

	frame, err := source.DecodeFrame(imageData)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	svc := b.app.InspectionService
	out, err := svc.Inspect(ctx, &port.Capture{Name: fileID, Frame: frame}, user.ApplyTo(svc.Params()))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// downloadFile скачивает файл из Telegram
func downloadFile(api *tgbotapi.BotAPI, fileID string) ([]byte, error) {
	file, err := api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithField("error", err.Error()).Error("failed to send message")
	}
}

// sendPhoto отправляет картинку с разметкой и подписью
func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "inspection.jpg", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.log.WithField("error", err.Error()).Error("failed to send photo")
	}
}

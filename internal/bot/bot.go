// Package bot реализует Telegram-транспорт маркетплейса: приём форм из
// web-app, команду /start с главным меню и отправку ответов пользователю.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/drnine9/marketplace-web/internal/model"
)

const msgWelcome = "👋 أهلاً بك! استخدم الأزرار:"

// mainMenu повторяет клавиатуру мини-приложения: шесть кнопок разделов.
var mainMenu = &models.ReplyKeyboardMarkup{
	ResizeKeyboard: true,
	Keyboard: [][]models.KeyboardButton{
		{
			{Text: "🛒 المنتجات الداخلية"},
			{Text: "➕ أضف سلعة"},
		},
		{
			{Text: "🏍️ تسجيل دليفري"},
			{Text: "💳 شحن المحفظة"},
		},
		{
			{Text: "💵 سحب النسبة"},
			{Text: "👨‍💼 لوحة الأدمن"},
		},
	},
}

// Service определяет контракт бизнес-логики, используемой транспортом.
type Service interface {
	GetOrCreateUser(ctx context.Context, telegramID int64) (*model.User, error)
	ProcessSubmission(ctx context.Context, telegramID int64, payload string)
}

// Bot обслуживает long-polling цикл Telegram.
type Bot struct {
	api     *bot.Bot
	service Service
	logger  *zap.Logger
}

// New создаёт транспорт с указанным токеном бота. Дополнительные опции
// используются в тестах для подмены адреса Bot API.
func New(token string, service Service, logger *zap.Logger, opts ...bot.Option) (*Bot, error) {
	b := &Bot{
		service: service,
		logger:  logger,
	}

	opts = append(opts, bot.WithDefaultHandler(b.handleUpdate))

	api, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	b.api = api

	return b, nil
}

// Send отправляет пользователю одиночное текстовое сообщение без
// подтверждения доставки. Реализует service.Notifier.
func (b *Bot) Send(ctx context.Context, telegramID int64, text string) error {
	_, err := b.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: telegramID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Run принимает обновления до отмены контекста. Каждое обновление
// обрабатывается до конца перед переходом к следующему.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("bot started")
	b.api.Start(ctx)
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	switch {
	case msg.WebAppData != nil:
		b.service.ProcessSubmission(ctx, msg.From.ID, msg.WebAppData.Data)
	case strings.HasPrefix(msg.Text, "/start"):
		b.handleStart(ctx, msg)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *models.Message) {
	if _, err := b.service.GetOrCreateUser(ctx, msg.From.ID); err != nil {
		b.logger.Error("get or create user", zap.Int64("telegramID", msg.From.ID), zap.Error(err))
		return
	}

	_, err := b.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        msgWelcome,
		ReplyMarkup: mainMenu,
	})
	if err != nil {
		b.logger.Error("send welcome", zap.Int64("chatID", msg.Chat.ID), zap.Error(err))
	}
}

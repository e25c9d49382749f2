// Package service реализует бизнес-логику маркетплейс-бота: приём платных
// форм из Telegram и проверку счетов оператором.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/drnine9/marketplace-web/internal/model"
	"github.com/drnine9/marketplace-web/internal/storage"
	"github.com/drnine9/marketplace-web/internal/submission"
)

// Фиксированные сборы: регистрация курьера и публикация товара.
var (
	feeDriverRegister = decimal.NewFromInt(20)
	feeProductPublish = decimal.NewFromInt(5)
)

// Notifier отправляет пользователю одиночное текстовое сообщение.
// Доставка не подтверждается и не повторяется.
type Notifier interface {
	Send(ctx context.Context, telegramID int64, text string) error
}

// Service содержит бизнес-логику приёма форм и проверки счетов.
type Service struct {
	store        storage.Store
	notifier     Notifier
	logger       *zap.Logger
	strictStatus bool
}

// New создаёт сервис. При strictStatus запрещены переводы счёта из конечного
// статуса в другой конечный.
func New(store storage.Store, notifier Notifier, logger *zap.Logger, strictStatus bool) *Service {
	return &Service{
		store:        store,
		notifier:     notifier,
		logger:       logger,
		strictStatus: strictStatus,
	}
}

// SetNotifier задаёт отправителя уведомлений. Используется при старте:
// транспорт создаётся после сервиса и сам же является отправителем.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// GetOrCreateUser возвращает пользователя по Telegram-идентификатору, создавая
// его при первом обращении.
func (s *Service) GetOrCreateUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.store.GetOrCreateUser(ctx, telegramID)
}

// ProcessSubmission обрабатывает одну форму из web-app: декодирует, проверяет,
// создаёт записи со счётом и отвечает пользователю. Любая ошибка обработки
// логируется и превращается в общий ответ об отказе; хранилище при этом не
// изменяется.
func (s *Service) ProcessSubmission(ctx context.Context, telegramID int64, payload string) {
	sub, err := submission.Decode([]byte(payload))
	if err != nil {
		s.logger.Error("decode submission", zap.Int64("telegramID", telegramID), zap.Error(err))
		s.notify(ctx, telegramID, msgProcessingFailed)
		return
	}

	if err := sub.Validate(); err != nil {
		switch {
		case errors.Is(err, submission.ErrPaymentProof), errors.Is(err, submission.ErrInvalidAmount):
			s.notify(ctx, telegramID, rejectionMessage(sub.Action()))
		default:
			s.logger.Error("validate submission", zap.Int64("telegramID", telegramID), zap.Error(err))
			s.notify(ctx, telegramID, msgProcessingFailed)
		}
		return
	}

	if _, err := s.store.GetOrCreateUser(ctx, telegramID); err != nil {
		s.logger.Error("ensure user", zap.Int64("telegramID", telegramID), zap.Error(err))
		s.notify(ctx, telegramID, msgProcessingFailed)
		return
	}

	var confirmation string
	switch v := sub.(type) {
	case submission.DriverRegister:
		confirmation = msgDriverSubmitted
		err = s.createDriverApplication(ctx, telegramID, v)
	case submission.AddProduct:
		confirmation = msgProductSubmitted
		err = s.createProduct(ctx, telegramID, v)
	case submission.ChargeWallet:
		confirmation = msgChargeSubmitted
		err = s.createInvoice(ctx, telegramID, model.InvoiceTypeWalletCharge, v.Amount, v.PaymentProof)
	case submission.Withdraw:
		confirmation = msgWithdrawSubmitted
		err = s.createInvoice(ctx, telegramID, model.InvoiceTypeWithdrawRequest, v.Amount, v.PaymentProof)
	}
	if err != nil {
		s.logger.Error("persist submission",
			zap.Int64("telegramID", telegramID),
			zap.String("action", string(sub.Action())),
			zap.Error(err))
		s.notify(ctx, telegramID, msgProcessingFailed)
		return
	}

	s.notify(ctx, telegramID, confirmation)
}

func rejectionMessage(action submission.Action) string {
	switch action {
	case submission.ActionDriverRegister:
		return msgDriverPaymentRequired
	case submission.ActionAddProduct:
		return msgProductPaymentRequired
	default:
		return msgPaymentDetailsRequired
	}
}

func (s *Service) createDriverApplication(ctx context.Context, telegramID int64, v submission.DriverRegister) error {
	now := time.Now()
	inv := newInvoice(telegramID, model.InvoiceTypeDriverRegisterFee, feeDriverRegister, v.PaymentProof, now)

	app := model.DriverApplication{
		AppID:          uuid.NewString(),
		UserID:         telegramID,
		InvoiceID:      inv.ID,
		Name:           v.Name,
		Age:            v.Age,
		Phone:          v.Phone,
		AreaID:         v.AreaID,
		Username:       v.Username,
		Location:       v.Location,
		IDFront:        v.IDFront,
		IDBack:         v.IDBack,
		License:        v.License,
		Bike:           v.Bike,
		PayerName:      v.PayerName,
		PayerPhone:     v.PayerPhone,
		PaymentReceipt: v.PaymentReceipt,
		Status:         model.ApplicationStatusPending,
		CreatedAt:      now,
	}

	return s.store.CreateDriverApplication(ctx, app, inv)
}

func (s *Service) createProduct(ctx context.Context, telegramID int64, v submission.AddProduct) error {
	now := time.Now()
	inv := newInvoice(telegramID, model.InvoiceTypeProductPublishFee, feeProductPublish, v.PaymentProof, now)

	product := model.Product{
		SKU:       uuid.NewString(),
		InvoiceID: inv.ID,
		Title:     v.Title,
		Desc:      v.Desc,
		Price:     v.Price,
		OwnerID:   telegramID,
		Photo:     v.Photo,
		CreatedAt: now,
	}

	return s.store.CreateProduct(ctx, product, inv)
}

func (s *Service) createInvoice(ctx context.Context, telegramID int64, typ model.InvoiceType, amount decimal.Decimal, proof submission.PaymentProof) error {
	inv := newInvoice(telegramID, typ, amount, proof, time.Now())
	return s.store.CreateInvoice(ctx, inv)
}

func newInvoice(telegramID int64, typ model.InvoiceType, amount decimal.Decimal, proof submission.PaymentProof, now time.Time) model.Invoice {
	return model.Invoice{
		ID:         uuid.NewString(),
		UserID:     telegramID,
		Type:       typ,
		Amount:     amount,
		PayerName:  proof.PayerName,
		PayerPhone: proof.PayerPhone,
		Receipt:    proof.PaymentReceipt,
		Status:     model.InvoiceStatusPending,
		CreatedAt:  now,
	}
}

func (s *Service) notify(ctx context.Context, telegramID int64, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, telegramID, text); err != nil {
		s.logger.Error("send notification", zap.Int64("telegramID", telegramID), zap.Error(err))
	}
}

// ListInvoices возвращает все счета.
func (s *Service) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	return s.store.ListInvoices(ctx)
}

// ConfirmInvoice подтверждает счёт по идентификатору.
func (s *Service) ConfirmInvoice(ctx context.Context, id string) error {
	return s.store.UpdateInvoiceStatus(ctx, id, model.InvoiceStatusConfirmed, s.strictStatus)
}

// RejectInvoice отклоняет счёт по идентификатору.
func (s *Service) RejectInvoice(ctx context.Context, id string) error {
	return s.store.UpdateInvoiceStatus(ctx, id, model.InvoiceStatusRejected, s.strictStatus)
}

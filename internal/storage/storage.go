// Package storage определяет контракт хранилища данных маркетплейс-бота.
package storage

import (
	"context"
	"errors"

	"github.com/drnine9/marketplace-web/internal/model"
)

// ErrInvoiceNotFound возвращается, если счёт с указанным идентификатором не найден.
var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrInvoiceFinalized возвращается в строгом режиме при попытке изменить
	// статус счёта, уже находящегося в конечном состоянии.
	ErrInvoiceFinalized = errors.New("invoice already finalized")
)

// Store описывает контракт доступа к данным, общий для всех бэкендов.
// Парные операции создания выполняются атомарно: либо записываются обе
// сущности, либо ни одна.
type Store interface {
	Close() error
	GetOrCreateUser(ctx context.Context, telegramID int64) (*model.User, error)
	CreateDriverApplication(ctx context.Context, app model.DriverApplication, inv model.Invoice) error
	CreateProduct(ctx context.Context, product model.Product, inv model.Invoice) error
	CreateInvoice(ctx context.Context, inv model.Invoice) error
	ListInvoices(ctx context.Context) ([]model.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*model.Invoice, error)
	// UpdateInvoiceStatus переводит счёт в указанный статус. При strict=true
	// перевод из конечного состояния в другое запрещён; повторная установка
	// того же конечного статуса допустима в обоих режимах.
	UpdateInvoiceStatus(ctx context.Context, id string, status model.InvoiceStatus, strict bool) error
}

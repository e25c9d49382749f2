// Package model содержит доменные сущности маркетплейс-бота.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User представляет участника, идентифицируемого его Telegram-идентификатором.
type User struct {
	TelegramID int64     `json:"telegramId"`
	Points     int64     `json:"points"`
	CreatedAt  time.Time `json:"createdAt"`
}

// InvoiceStatus описывает статус проверки счёта оператором.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusConfirmed InvoiceStatus = "confirmed"
	InvoiceStatusRejected  InvoiceStatus = "rejected"
)

// Terminal сообщает, является ли статус конечным.
func (s InvoiceStatus) Terminal() bool {
	return s == InvoiceStatusConfirmed || s == InvoiceStatusRejected
}

// InvoiceType описывает назначение платежа.
type InvoiceType string

const (
	InvoiceTypeDriverRegisterFee InvoiceType = "driver_register_fee"
	InvoiceTypeProductPublishFee InvoiceType = "product_publish_fee"
	InvoiceTypeWalletCharge      InvoiceType = "wallet_charge"
	InvoiceTypeWithdrawRequest   InvoiceType = "withdraw_request"
)

// Invoice описывает платёж, ожидающий ручного подтверждения или отклонения.
type Invoice struct {
	ID         string          `json:"id"`
	UserID     int64           `json:"userId"`
	Type       InvoiceType     `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	PayerName  string          `json:"payerName"`
	PayerPhone string          `json:"payerPhone"`
	Receipt    string          `json:"receipt"`
	Status     InvoiceStatus   `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ApplicationStatus описывает статус заявки на регистрацию курьера.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// DriverApplication описывает заявку на регистрацию курьера.
// InvoiceID ссылается на счёт регистрационного сбора.
type DriverApplication struct {
	AppID          string            `json:"appId"`
	UserID         int64             `json:"userId"`
	InvoiceID      string            `json:"invoiceId"`
	Name           string            `json:"name"`
	Age            string            `json:"age"`
	Phone          string            `json:"phone"`
	AreaID         string            `json:"areaId"`
	Username       string            `json:"username"`
	Location       string            `json:"location"`
	IDFront        string            `json:"idFront"`
	IDBack         string            `json:"idBack"`
	License        string            `json:"license"`
	Bike           string            `json:"bike"`
	PayerName      string            `json:"payerName"`
	PayerPhone     string            `json:"payerPhone"`
	PaymentReceipt string            `json:"paymentReceipt"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Product описывает товар, выставленный пользователем.
// InvoiceID ссылается на счёт сбора за публикацию.
type Product struct {
	SKU       string          `json:"sku"`
	InvoiceID string          `json:"invoiceId"`
	Title     string          `json:"title"`
	Desc      string          `json:"desc"`
	Price     decimal.Decimal `json:"price"`
	OwnerID   int64           `json:"ownerId"`
	Photo     string          `json:"photo"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Order описывает заказ. Коллекция зарезервирована: операций над заказами
// в текущей версии нет.
type Order struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Driver описывает подтверждённого курьера. Коллекция зарезервирована.
type Driver struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Area описывает район доставки. Коллекция зарезервирована.
type Area struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Package submission разбирает и проверяет данные форм, присылаемых из
// Telegram web-app. Каждое действие декодируется в собственный строго
// типизированный вариант; неизвестное действие является ошибкой.
package submission

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Action дискриминирует вариант присланной формы.
type Action string

const (
	ActionDriverRegister Action = "driver_register"
	ActionAddProduct     Action = "add_product"
	ActionChargeWallet   Action = "charge_wallet"
	ActionWithdraw       Action = "withdraw"
)

// ErrUnknownAction возвращается для действия, не входящего в число известных.
var (
	ErrUnknownAction = errors.New("unknown submission action")
	// ErrPaymentProof возвращается, если не заполнены обязательные платёжные
	// поля: имя плательщика, телефон отправителя и квитанция.
	ErrPaymentProof = errors.New("payment proof incomplete")
	// ErrInvalidAmount возвращается для неположительной суммы пополнения или вывода.
	ErrInvalidAmount = errors.New("amount must be positive")
)

var validate = validator.New()

// PaymentProof содержит платёжные реквизиты, обязательные для любой платной формы.
type PaymentProof struct {
	PayerName      string `json:"payerName" validate:"required"`
	PayerPhone     string `json:"payerPhone" validate:"required"`
	PaymentReceipt string `json:"paymentReceipt" validate:"required"`
}

// Submission объединяет четыре варианта присылаемых форм.
type Submission interface {
	Action() Action
	Validate() error
}

// DriverRegister описывает заявку на регистрацию курьера.
type DriverRegister struct {
	PaymentProof
	Name     string `json:"name"`
	Age      string `json:"age"`
	Phone    string `json:"phone"`
	AreaID   string `json:"areaId"`
	Username string `json:"username"`
	Location string `json:"location"`
	IDFront  string `json:"idFront"`
	IDBack   string `json:"idBack"`
	License  string `json:"license"`
	Bike     string `json:"bike"`
}

// Action возвращает дискриминатор варианта.
func (DriverRegister) Action() Action { return ActionDriverRegister }

// Validate проверяет обязательные платёжные поля.
func (s DriverRegister) Validate() error { return validateProof(s) }

// AddProduct описывает форму публикации товара.
type AddProduct struct {
	PaymentProof
	Title string          `json:"title"`
	Desc  string          `json:"desc"`
	Price decimal.Decimal `json:"price"`
	Photo string          `json:"photo"`
}

// Action возвращает дискриминатор варианта.
func (AddProduct) Action() Action { return ActionAddProduct }

// Validate проверяет обязательные платёжные поля.
func (s AddProduct) Validate() error { return validateProof(s) }

// ChargeWallet описывает запрос пополнения кошелька.
type ChargeWallet struct {
	PaymentProof
	Amount decimal.Decimal `json:"amount"`
}

// Action возвращает дискриминатор варианта.
func (ChargeWallet) Action() Action { return ActionChargeWallet }

// Validate проверяет платёжные поля и положительность суммы.
func (s ChargeWallet) Validate() error {
	if err := validateProof(s); err != nil {
		return err
	}
	if !s.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Withdraw описывает запрос вывода средств.
type Withdraw struct {
	PaymentProof
	Amount decimal.Decimal `json:"amount"`
}

// Action возвращает дискриминатор варианта.
func (Withdraw) Action() Action { return ActionWithdraw }

// Validate проверяет платёжные поля и положительность суммы.
func (s Withdraw) Validate() error {
	if err := validateProof(s); err != nil {
		return err
	}
	if !s.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func validateProof(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrPaymentProof, verrs[0].Field())
		}
		return err
	}
	return nil
}

// Decode разбирает сырые данные формы в типизированный вариант.
// Валидация выполняется отдельно через Submission.Validate.
func Decode(raw []byte) (Submission, error) {
	var envelope struct {
		Action Action `json:"action"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode submission envelope: %w", err)
	}

	switch envelope.Action {
	case ActionDriverRegister:
		var s DriverRegister
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode driver_register: %w", err)
		}
		return s, nil
	case ActionAddProduct:
		var s AddProduct
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode add_product: %w", err)
		}
		return s, nil
	case ActionChargeWallet:
		var s ChargeWallet
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode charge_wallet: %w", err)
		}
		return s, nil
	case ActionWithdraw:
		var s Withdraw
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode withdraw: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, envelope.Action)
	}
}

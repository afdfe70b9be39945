package payment

import (
	"context"
	"time"

	"evmarket.io/marketplace-api/app/domain/query"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodWallet       Method = "wallet"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodBankTransfer, MethodWallet:
		return true
	}
	return false
}

type Payment struct {
	ID          uint            `json:"id"`
	PublicID    string          `json:"public_id"`
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      Method          `json:"method"`
	Status      Status          `json:"status"`
	GatewayRef  string          `json:"gateway_ref"`
	CheckoutURL string          `json:"checkout_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PaymentFilter struct {
	PublicID   *string
	OrderID    *string
	UserID     *string
	GatewayRef *string
	Status     *Status
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	Update(ctx context.Context, p *Payment) error
	FindByPublicID(ctx context.Context, publicID string) (*Payment, error)
	FindByGatewayRef(ctx context.Context, ref string) (*Payment, error)
	FindByFilter(ctx context.Context, filter PaymentFilter, p *query.Pagination) ([]*Payment, error)
}

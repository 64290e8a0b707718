package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	Placed Status = "placed"
)

type Order struct {
	ID        string          `json:"id" db:"order_id"`
	Reference string          `json:"reference" db:"reference"`
	CartID    string          `json:"-" db:"cart_id"`
	Status    Status          `json:"status" db:"status"`
	Coupon    string          `json:"coupon,omitempty" db:"coupon"`
	Shipping  string          `json:"shipping" db:"shipping"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
	Freight   decimal.Decimal `json:"freight" db:"freight"`
	Discount  decimal.Decimal `json:"discount" db:"discount"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

type Item struct {
	OrderID   string          `json:"orderId" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// CheckoutNew is the payload for quoting and confirming a checkout.
type CheckoutNew struct {
	Coupon   string `json:"coupon"`
	Shipping string `json:"shipping" validate:"omitempty,oneof=standard express"`
}

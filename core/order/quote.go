package order

import (
	"errors"
	"strings"

	"github.com/decishop/storefront/core/cart"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCoupon   = errors.New("unknown coupon code")
	ErrUnknownShipping = errors.New("unknown shipping method")
)

// The storefront runs a single standing promotion: DECI10 takes 10% off the
// cart subtotal. Shipping is a flat fee per method.
const couponDeci10 = "DECI10"

var discountDeci10 = decimal.New(1, -1) // 0.1

var freights = map[string]decimal.Decimal{
	"standard": decimal.New(1500, -2), // 15.00
	"express":  decimal.New(3000, -2), // 30.00
}

// Summary is the order breakdown shown before confirmation:
// total = subtotal + freight - discount.
type Summary struct {
	Items    []cart.LineItem `json:"items"`
	Coupon   string          `json:"coupon,omitempty"`
	Shipping string          `json:"shipping"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Freight  decimal.Decimal `json:"freight"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Quote prices the cart under the given coupon and shipping method. The
// coupon is case-insensitive and optional; shipping defaults to standard.
func Quote(c cart.Cart, coupon string, shipping string) (Summary, error) {
	if shipping == "" {
		shipping = "standard"
	}

	freight, ok := freights[shipping]
	if !ok {
		return Summary{}, ErrUnknownShipping
	}

	subtotal := c.TotalPrice()

	discount := decimal.Zero
	coupon = strings.ToUpper(strings.TrimSpace(coupon))
	switch coupon {
	case "":
	case couponDeci10:
		discount = subtotal.Mul(discountDeci10).Round(2)
	default:
		return Summary{}, ErrUnknownCoupon
	}

	items := c.Items
	if items == nil {
		items = []cart.LineItem{}
	}

	return Summary{
		Items:    items,
		Coupon:   coupon,
		Shipping: shipping,
		Subtotal: subtotal,
		Freight:  freight,
		Discount: discount,
		Total:    subtotal.Add(freight).Sub(discount),
	}, nil
}

package cart

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product-and-quantity pair within the cart. Field names are
// the canonical wire format: the same JSON shape is returned to clients and
// persisted as the cart record.
type LineItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageURL  string          `json:"imageUrl"`
	Quantity  int             `json:"quantity"`
}

// Product is the normalized shape callers pass to Add. Presenters resolve it
// from the catalog; the cart never fetches product data itself.
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	ImageURL  string
}

// ItemNew is the payload for adding a product to the cart.
type ItemNew struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

// ItemUp is the payload for setting the quantity of a cart line.
type ItemUp struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// Cart is an ordered collection of line items, at most one per product id.
// Methods never fail and never leave the collection half-updated: invalid
// input is clamped or ignored so the invariants hold no matter the caller.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Add merges the product into the cart. If a line with the same product id
// already exists its quantity grows by qty, otherwise a new line is appended,
// so insertion order is the order of first add. A qty below 1 counts as 1.
func (c *Cart) Add(p Product, qty int) {
	if qty < 1 {
		qty = 1
	}

	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			c.Items[i].Quantity += qty
			return
		}
	}

	c.Items = append(c.Items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		ImageURL:  p.ImageURL,
		Quantity:  qty,
	})
}

// Remove drops the whole line for the given product id. Removing an id that
// is not in the cart is a no-op, not an error.
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites the quantity of an existing line. A qty of zero (or
// less) removes the line entirely: a present line always has quantity >= 1.
// Unknown product ids are ignored.
func (c *Cart) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// TotalItemCount is the sum of all line quantities.
func (c *Cart) TotalItemCount() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the sum of unitPrice * quantity across all lines. Amounts
// stay decimal end to end; rendering "R$ 199,90" is the client's concern.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// normalize restores the cart invariants after hydrating a persisted record:
// duplicate ids are merged into the first occurrence and quantities below 1
// are clamped. Records written by this package already satisfy both, but the
// persisted format has outlived more than one deployment.
func (c *Cart) normalize() {
	merged := make([]LineItem, 0, len(c.Items))
	seen := make(map[string]int, len(c.Items))

	for _, it := range c.Items {
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		if i, ok := seen[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		seen[it.ProductID] = len(merged)
		merged = append(merged, it)
	}

	c.Items = merged
}

package cart

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	foneX = Product{ID: "7", Name: "Fone X", UnitPrice: price("199.90"), ImageURL: "x.png"}
	caseY = Product{ID: "8", Name: "Case Y", UnitPrice: price("50.00"), ImageURL: "y.png"}
)

func TestAddMergesSameProduct(t *testing.T) {
	var c Cart
	c.Add(foneX, 1)
	c.Add(foneX, 1)

	want := []LineItem{
		{ProductID: "7", Name: "Fone X", UnitPrice: price("199.90"), ImageURL: "x.png", Quantity: 2},
	}
	if diff := cmp.Diff(want, c.Items, decimalComparer); diff != "" {
		t.Fatalf("unexpected items (-want +got):\n%s", diff)
	}

	if got, want := c.TotalPrice(), price("399.80"); !got.Equal(want) {
		t.Fatalf("total price: expected %s, but got %s", want, got)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	var c Cart
	c.Add(caseY, 1)
	c.Add(foneX, 2)
	c.Add(caseY, 1)

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 lines, but got %d", len(c.Items))
	}
	if c.Items[0].ProductID != "8" || c.Items[1].ProductID != "7" {
		t.Fatalf("expected order [8 7], but got [%s %s]", c.Items[0].ProductID, c.Items[1].ProductID)
	}
}

func TestAddClampsQuantity(t *testing.T) {
	var c Cart
	c.Add(foneX, 0)
	c.Add(caseY, -3)

	for _, it := range c.Items {
		if it.Quantity != 1 {
			t.Fatalf("product[%s]: expected quantity 1, but got %d", it.ProductID, it.Quantity)
		}
	}
}

func TestRemove(t *testing.T) {
	var c Cart
	c.Add(foneX, 1)
	c.Add(foneX, 1)
	c.Add(caseY, 1)

	c.Remove("7")

	want := []LineItem{
		{ProductID: "8", Name: "Case Y", UnitPrice: price("50.00"), ImageURL: "y.png", Quantity: 1},
	}
	if diff := cmp.Diff(want, c.Items, decimalComparer); diff != "" {
		t.Fatalf("unexpected items (-want +got):\n%s", diff)
	}

	if got := c.TotalItemCount(); got != 1 {
		t.Fatalf("total item count: expected 1, but got %d", got)
	}
	if got, want := c.TotalPrice(), price("50.00"); !got.Equal(want) {
		t.Fatalf("total price: expected %s, but got %s", want, got)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	var c Cart
	c.Add(foneX, 1)
	c.Add(caseY, 2)

	before := append([]LineItem(nil), c.Items...)
	c.Remove("999")

	if diff := cmp.Diff(before, c.Items, decimalComparer); diff != "" {
		t.Fatalf("cart changed by removing an absent id (-want +got):\n%s", diff)
	}
}

func TestSetQuantity(t *testing.T) {
	var c Cart
	c.Add(foneX, 1)
	c.Add(caseY, 1)

	c.SetQuantity("7", 5)
	if c.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, but got %d", c.Items[0].Quantity)
	}

	c.SetQuantity("7", 0)
	if len(c.Items) != 1 || c.Items[0].ProductID != "8" {
		t.Fatal("expected setting quantity to zero to remove the line")
	}

	c.SetQuantity("999", 3)
	if len(c.Items) != 1 {
		t.Fatal("expected setting quantity of an unknown id to be a no-op")
	}
}

func TestTotalsEmptyCart(t *testing.T) {
	var c Cart
	if got := c.TotalItemCount(); got != 0 {
		t.Fatalf("total item count: expected 0, but got %d", got)
	}
	if got := c.TotalPrice(); !got.Equal(decimal.Zero) {
		t.Fatalf("total price: expected 0, but got %s", got)
	}
}

func TestAggregateConsistency(t *testing.T) {
	var c Cart
	c.Add(foneX, 3)
	c.Add(caseY, 2)
	c.Add(foneX, 1)
	c.Remove("8")
	c.Add(caseY, 4)

	var count int
	total := decimal.Zero
	for _, it := range c.Items {
		count += it.Quantity
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	if got := c.TotalItemCount(); got != count {
		t.Fatalf("total item count: expected %d, but got %d", count, got)
	}
	if got := c.TotalPrice(); !got.Equal(total) {
		t.Fatalf("total price: expected %s, but got %s", total, got)
	}
}

func TestClear(t *testing.T) {
	var c Cart
	c.Add(foneX, 2)
	c.Add(caseY, 1)

	c.Clear()

	if len(c.Items) != 0 {
		t.Fatalf("expected empty cart, but got %d lines", len(c.Items))
	}
	if got := c.TotalItemCount(); got != 0 {
		t.Fatalf("total item count: expected 0, but got %d", got)
	}
	if got := c.TotalPrice(); !got.Equal(decimal.Zero) {
		t.Fatalf("total price: expected 0, but got %s", got)
	}
}

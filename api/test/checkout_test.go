package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/decishop/storefront/core/order"
	"github.com/decishop/storefront/core/product"
	"github.com/shopspring/decimal"
)

type checkoutTest struct {
	*TestEnv
}

func (ct *checkoutTest) post(t *testing.T, path string, cn order.CheckoutNew) *http.Response {
	b, err := json.Marshal(cn)
	if err != nil {
		t.Fatal(err)
	}

	w, err := ct.Client().Post(ct.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}

	return w
}

func (ct *checkoutTest) quoteOK(t *testing.T, cn order.CheckoutNew) order.Summary {
	w := ct.post(t, "/checkout/quote", cn)
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't quote checkout: status code %s", w.Status)
	}

	var sum order.Summary
	if err := json.NewDecoder(w.Body).Decode(&sum); err != nil {
		t.Fatalf("cannot unmarshal summary: %v", err)
	}

	return sum
}

type placedOrder struct {
	order.Order
	Items []order.Item `json:"items"`
}

func (ct *checkoutTest) confirmOK(t *testing.T, cn order.CheckoutNew) placedOrder {
	w := ct.post(t, "/checkout/confirm", cn)
	defer w.Body.Close()

	if w.StatusCode != http.StatusCreated {
		t.Fatalf("can't confirm checkout: status code %s", w.Status)
	}

	var ord placedOrder
	if err := json.NewDecoder(w.Body).Decode(&ord); err != nil {
		t.Fatalf("cannot unmarshal order: %v", err)
	}

	return ord
}

func TestCheckout(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	ct := &checkoutTest{env}
	rt := &cartTest{env}
	pt := &productTest{env}

	p1 := pt.createProductOK(t, "199.90", product.InStock)
	p2 := pt.createProductOK(t, "50.00", product.InStock)

	rt.addItemOK(t, p1.ID, 2)
	rt.addItemOK(t, p2.ID, 1)

	sum := ct.quoteOK(t, order.CheckoutNew{Coupon: "deci10", Shipping: "express"})
	if !sum.Subtotal.Equal(decimal.RequireFromString("449.80")) {
		t.Fatalf("subtotal: expected 449.80, but got %s", sum.Subtotal)
	}
	if !sum.Freight.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("freight: expected 30.00, but got %s", sum.Freight)
	}
	if !sum.Discount.Equal(decimal.RequireFromString("44.98")) {
		t.Fatalf("discount: expected 44.98, but got %s", sum.Discount)
	}
	if !sum.Total.Equal(decimal.RequireFromString("434.82")) {
		t.Fatalf("total: expected 434.82, but got %s", sum.Total)
	}

	// Quoting must not consume the cart.
	if got := rt.getCartOK(t); got.TotalItems != 3 {
		t.Fatalf("cart after quote: expected 3 items, but got %d", got.TotalItems)
	}

	ord := ct.confirmOK(t, order.CheckoutNew{Coupon: "DECI10", Shipping: "express"})
	if ord.Status != order.Placed {
		t.Fatalf("order status: expected %s, but got %s", order.Placed, ord.Status)
	}
	if len(ord.Reference) != 10 {
		t.Fatalf("order reference: expected 10 characters, but got %q", ord.Reference)
	}
	if len(ord.Items) != 2 {
		t.Fatalf("order items: expected 2, but got %d", len(ord.Items))
	}
	if !ord.Total.Equal(sum.Total) {
		t.Fatalf("order total: expected %s, but got %s", sum.Total, ord.Total)
	}

	// A completed checkout empties the cart.
	if got := rt.getCartOK(t); len(got.Items) != 0 {
		t.Fatalf("cart after confirm: expected empty, but got %+v", got.Items)
	}

	ct.testShowOrder(t, ord)
	ct.testConfirmEmptyCart(t)
	ct.testUnknownCoupon(t)
}

func (ct *checkoutTest) testShowOrder(t *testing.T, want placedOrder) {
	w, err := ct.Client().Get(ct.URL + "/orders/" + want.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't fetch order: status code %s", w.Status)
	}

	var got placedOrder
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("cannot unmarshal order: %v", err)
	}

	if got.ID != want.ID || got.Reference != want.Reference {
		t.Fatalf("fetched order differs: got %+v, want %+v", got.Order, want.Order)
	}
	if len(got.Items) != len(want.Items) {
		t.Fatalf("fetched order items: expected %d, but got %d", len(want.Items), len(got.Items))
	}
	if !got.Total.Equal(want.Total) {
		t.Fatalf("fetched order total: expected %s, but got %s", want.Total, got.Total)
	}
}

func (ct *checkoutTest) testConfirmEmptyCart(t *testing.T) {
	w := ct.post(t, "/checkout/confirm", order.CheckoutNew{})
	defer w.Body.Close()

	if w.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("confirming an empty cart: expected status 422, but got %s", w.Status)
	}
}

func (ct *checkoutTest) testUnknownCoupon(t *testing.T) {
	w := ct.post(t, "/checkout/quote", order.CheckoutNew{Coupon: "NOPE42"})
	defer w.Body.Close()

	if w.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unknown coupon: expected status 422, but got %s", w.Status)
	}
}

package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/decishop/storefront/api/web"
	"github.com/decishop/storefront/api/weberr"
	"github.com/decishop/storefront/core/cart"
	"github.com/decishop/storefront/database"
	"github.com/decishop/storefront/random"
	"github.com/decishop/storefront/validate"
	"github.com/jmoiron/sqlx"
)

const referenceLength = 10

func decodeCheckout(w http.ResponseWriter, r *http.Request) (CheckoutNew, error) {
	var cn CheckoutNew
	if err := web.Decode(w, r, &cn); err != nil {
		return CheckoutNew{}, weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}

	if err := validate.Check(cn); err != nil {
		return CheckoutNew{}, weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
	}

	return cn, nil
}

func quote(ctx context.Context, store *cart.Store, session *scs.SessionManager, cn CheckoutNew) (string, Summary, error) {
	cartID := cart.ScopeID(ctx, session)

	sum, err := Quote(store.Get(ctx, cartID), cn.Coupon, cn.Shipping)
	if err != nil {
		if errors.Is(err, ErrUnknownCoupon) || errors.Is(err, ErrUnknownShipping) {
			return "", Summary{}, weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}
		return "", Summary{}, fmt.Errorf("quoting cart[%s]: %w", cartID, err)
	}

	return cartID, sum, nil
}

// HandleQuote prices the current cart without placing an order, so the
// checkout page can re-render the summary as coupon and shipping change.
func HandleQuote(store *cart.Store, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cn, err := decodeCheckout(w, r)
		if err != nil {
			return err
		}

		_, sum, err := quote(ctx, store, session, cn)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, sum, http.StatusOK)
	}
}

// HandleConfirm turns the current cart into an order and empties the cart.
func HandleConfirm(db *sqlx.DB, store *cart.Store, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cn, err := decodeCheckout(w, r)
		if err != nil {
			return err
		}

		cartID, sum, err := quote(ctx, store, session, cn)
		if err != nil {
			return err
		}

		if len(sum.Items) == 0 {
			err := errors.New("no items to checkout")
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		now := time.Now().UTC()
		ord := Order{
			ID:        validate.GenerateID(),
			Reference: random.String(referenceLength),
			CartID:    cartID,
			Status:    Placed,
			Coupon:    sum.Coupon,
			Shipping:  sum.Shipping,
			Subtotal:  sum.Subtotal,
			Freight:   sum.Freight,
			Discount:  sum.Discount,
			Total:     sum.Total,
			CreatedAt: now,
			UpdatedAt: now,
		}

		items := make([]Item, 0, len(sum.Items))
		for _, li := range sum.Items {
			items = append(items, Item{
				OrderID:   ord.ID,
				ProductID: li.ProductID,
				Name:      li.Name,
				UnitPrice: li.UnitPrice,
				Quantity:  li.Quantity,
				CreatedAt: now,
			})
		}

		err = database.Transaction(db, func(tx sqlx.ExtContext) error {
			if err := Create(ctx, tx, ord); err != nil {
				return fmt.Errorf("creating order: %w", err)
			}

			for _, it := range items {
				if err := CreateItem(ctx, tx, it); err != nil {
					return fmt.Errorf("creating item: %w", err)
				}
			}

			return nil
		})
		if err != nil {
			return fmt.Errorf("placing order for cart[%s]: %w", cartID, err)
		}

		// The order is placed either way; a leftover record expires with
		// the session, and the store logs the failure itself.
		_ = store.Clear(ctx, cartID)

		resp := struct {
			Order
			Items []Item `json:"items"`
		}{ord, items}

		return web.Respond(ctx, w, resp, http.StatusCreated)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		ord, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching order[%s]: %w", id, err)
		}

		items, err := FetchItems(ctx, db, id)
		if err != nil {
			return fmt.Errorf("fetching items of order[%s]: %w", id, err)
		}

		resp := struct {
			Order
			Items []Item `json:"items"`
		}{ord, items}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/decishop/storefront/api/web"
	"github.com/decishop/storefront/api/weberr"
	"github.com/decishop/storefront/core/product"
	"github.com/decishop/storefront/database"
	"github.com/decishop/storefront/validate"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const sessionKey = "cart_id"

// Response is the cart as presenters consume it: the lines plus the derived
// aggregates, so no client recomputes totals on its own. The warning field
// is set when a mutation applied but could not be persisted.
type Response struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Warning    string          `json:"warning,omitempty"`
}

// ScopeID returns the cart id bound to the current session, minting one on
// first use. The session cookie is what makes the cart follow the browser
// across pages of the storefront.
func ScopeID(ctx context.Context, session *scs.SessionManager) string {
	id := session.GetString(ctx, sessionKey)
	if id == "" {
		id = validate.GenerateID()
		session.Put(ctx, sessionKey, id)
	}
	return id
}

func respond(ctx context.Context, w http.ResponseWriter, c Cart, err error) error {
	resp := Response{
		Items:      c.Items,
		TotalItems: c.TotalItemCount(),
		TotalPrice: c.TotalPrice(),
	}
	if resp.Items == nil {
		resp.Items = []LineItem{}
	}

	if err != nil {
		if !errors.Is(err, ErrNotPersisted) {
			return err
		}
		// The mutation holds for now but may not survive a reload.
		resp.Warning = "your cart could not be saved; recent changes may be lost"
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

func HandleShow(store *Store, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c := store.Get(ctx, ScopeID(ctx, session))
		return respond(ctx, w, c, nil)
	}
}

func HandleCreateItem(store *Store, db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if err := validate.CheckID(in.ProductID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		p, err := product.Fetch(ctx, db, in.ProductID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%s]: %w", in.ProductID, err)
		}

		if p.Status == product.OutOfStock {
			err := errors.New("product is out of stock")
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}

		c, err := store.Add(ctx, ScopeID(ctx, session), Product{
			ID:        p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			ImageURL:  p.ImageURL,
		}, qty)

		return respond(ctx, w, c, err)
	}
}

func HandleUpdateItem(store *Store, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID := web.Param(r, "product_id")
		if err := validate.CheckID(productID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var in ItemUp
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		c, err := store.SetQuantity(ctx, ScopeID(ctx, session), productID, in.Quantity)
		return respond(ctx, w, c, err)
	}
}

func HandleDeleteItem(store *Store, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID := web.Param(r, "product_id")
		if err := validate.CheckID(productID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		c, err := store.Remove(ctx, ScopeID(ctx, session), productID)
		return respond(ctx, w, c, err)
	}
}

func HandleDelete(store *Store, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := store.Clear(ctx, ScopeID(ctx, session)); err != nil {
			return respond(ctx, w, Cart{}, err)
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

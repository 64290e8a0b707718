package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/decishop/storefront/api/middleware"
	"github.com/decishop/storefront/api/web"
	"github.com/decishop/storefront/core/cart"
	"github.com/decishop/storefront/core/order"
	"github.com/decishop/storefront/core/product"
	"github.com/decishop/storefront/rate"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	DB         *sqlx.DB
	Session    *scs.SessionManager
	CartStore  *cart.Store
	Limiter    *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.Sessions(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	// Catalog. The fixed paths come first so the id route does not
	// swallow them.
	a.Handle(http.MethodGet, "/products/featured", product.HandleListFeatured(cfg.DB))
	a.Handle(http.MethodGet, "/products/search", product.HandleSearch(cfg.DB))
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/products", product.HandleList(cfg.DB))
	a.Handle(http.MethodPost, "/products", product.HandleCreate(cfg.DB))
	a.Handle(http.MethodPut, "/products/{id}", product.HandleUpdate(cfg.DB))

	// Cart, scoped to the browser session.
	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.CartStore, cfg.Session))
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(cfg.CartStore, cfg.Session))
	a.Handle(http.MethodPut, "/cart/items", cart.HandleCreateItem(cfg.CartStore, cfg.DB, cfg.Session))
	a.Handle(http.MethodPut, "/cart/items/{product_id}", cart.HandleUpdateItem(cfg.CartStore, cfg.Session))
	a.Handle(http.MethodDelete, "/cart/items/{product_id}", cart.HandleDeleteItem(cfg.CartStore, cfg.Session))

	// Checkout.
	a.Handle(http.MethodPost, "/checkout/quote", order.HandleQuote(cfg.CartStore, cfg.Session))
	a.Handle(http.MethodPost, "/checkout/confirm", order.HandleConfirm(cfg.DB, cfg.CartStore, cfg.Session))
	a.Handle(http.MethodGet, "/orders/{id}", order.HandleShow(cfg.DB))

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}

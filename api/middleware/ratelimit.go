package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/decishop/storefront/api/web"
	"github.com/decishop/storefront/api/weberr"
	"github.com/decishop/storefront/rate"
)

// RateLimit rejects clients exceeding their per-address request budget.
func RateLimit(limiter *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !limiter.Check(host) {
				err := errors.New("too many requests")
				return weberr.NewError(err, err.Error(), http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

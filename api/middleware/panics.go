package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/decishop/storefront/api/web"
	"github.com/decishop/storefront/api/weberr"
)

// Panics recovers from panicking handlers and converts the panic into an
// error, so the Errors middleware can log it and answer with a 500 instead
// of tearing down the connection.
func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {

			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					err = weberr.InternalError(
						fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(trace)),
					)
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

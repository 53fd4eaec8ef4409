// Package middleware provides HTTP middleware for the pairalign API.
package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/shenwei356/go-logging"
)

// Logger returns middleware writing one line per request to log: method,
// path, status, response size and elapsed time. Server errors are logged at
// error level.
func Logger(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				reqID := chimiddleware.GetReqID(r.Context())
				if status >= http.StatusInternalServerError {
					log.Errorf("[%s] %s %s %d %dB %s", reqID, r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start))
					return
				}
				log.Infof("[%s] %s %s %d %dB %s", reqID, r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

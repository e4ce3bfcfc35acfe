package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

const timeoutBody = `{"success":false,"error":"Request timeout"}` + "\n"

// Timeout cancels the request context after timeout. If the handler has not
// written anything by then, a 503 JSON error is sent and later writes from
// the handler are discarded.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			tw := &timeoutWriter{ResponseWriter: w, header: make(http.Header)}

			go func() {
				defer close(done)
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
			}
			tw.mu.Lock()
			defer tw.mu.Unlock()
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				// The handler returned without writing; keep its headers
				// for the implicit 200.
				if !tw.wroteHeader {
					copyHeader(w.Header(), tw.header)
				}
				return
			}

			tw.timedOut = true
			if !tw.wroteHeader {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(timeoutBody))
			}
		})
	}
}

// timeoutWriter tracks whether the handler has started the response. The
// handler gets its own header map, copied to w when the status is written,
// so late header changes never touch the map the timeout response uses.
type timeoutWriter struct {
	http.ResponseWriter
	header      http.Header
	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	copyHeader(tw.ResponseWriter.Header(), tw.header)
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(code)
}

func copyHeader(dst, src http.Header) {
	for k, v := range src {
		dst[k] = v
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeout(t *testing.T) {
	tests := []struct {
		name       string
		limit      time.Duration
		handler    http.HandlerFunc
		wantCode   int
		wantBody   string
		wantHeader string
	}{
		{
			name:  "fast handler passes through",
			limit: 5 * time.Second,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("X-Page", "about")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte("published"))
			},
			wantCode:   http.StatusCreated,
			wantBody:   "published",
			wantHeader: "about",
		},
		{
			name:  "slow handler gets 503",
			limit: 50 * time.Millisecond,
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(5 * time.Second):
					w.WriteHeader(http.StatusOK)
				case <-r.Context().Done():
				}
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: timeoutBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Timeout(tt.limit)(tt.handler).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/publish", nil))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantBody, rr.Body.String())
			if tt.wantHeader != "" {
				assert.Equal(t, tt.wantHeader, rr.Header().Get("X-Page"))
			}
			if tt.wantCode == http.StatusServiceUnavailable {
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestTimeoutWriterFirstStatusWins(t *testing.T) {
	rr := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rr, header: make(http.Header)}

	tw.WriteHeader(http.StatusAccepted)
	tw.WriteHeader(http.StatusNotFound)
	_, err := tw.Write([]byte("ok"))
	require.NoError(t, err)

	assert.True(t, tw.wroteHeader)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestTimeoutWriterImplicitOK(t *testing.T) {
	rr := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rr, header: make(http.Header)}

	n, err := tw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTimeoutWriterDiscardsLateWrites(t *testing.T) {
	rr := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rr, header: make(http.Header), timedOut: true}

	tw.WriteHeader(http.StatusCreated)
	_, err := tw.Write([]byte("late"))

	assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	assert.Zero(t, rr.Body.Len())
	assert.False(t, tw.wroteHeader)
}

func TestTimeoutLateHeaderChangesStayPrivate(t *testing.T) {
	finished := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		<-r.Context().Done()
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("X-Late", "1")
		_, _ = w.Write([]byte("late"))
	})

	rr := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/sitemap", nil))
	<-finished

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, timeoutBody, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Empty(t, rr.Header().Get("X-Late"))
}

func TestTimeoutWriterCopiesHeadersOnWrite(t *testing.T) {
	rr := httptest.NewRecorder()
	tw := &timeoutWriter{ResponseWriter: rr, header: make(http.Header)}

	tw.Header().Set("Cache-Control", "no-store")
	assert.Empty(t, rr.Header().Get("Cache-Control"))

	_, err := tw.Write([]byte("<html>"))
	require.NoError(t, err)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestTimeoutKeepsHeadersWithoutBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Run", "none")
	})

	rr := httptest.NewRecorder()
	Timeout(time.Second)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "none", rr.Header().Get("X-Run"))
}

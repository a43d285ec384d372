package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_GeneratesAndKeeps(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-1", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Len(t, seen, 36)
}

func TestLogging_ContextLoggerCarriesRID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := RequestID()(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/validate", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var inside, access map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &inside))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &access))
	assert.Equal(t, "rid-42", inside["rid"])
	assert.Equal(t, "rid-42", access["rid"])
	assert.Equal(t, float64(http.StatusTeapot), access["status"])
	assert.Equal(t, float64(2), access["size"])
	assert.Equal(t, "/validate", access["path"])
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Recover(zerolog.New(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "boom")
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	h := CORS([]string{"https://a.example"})(next)
	req := httptest.NewRequest(http.MethodOptions, "/validate", nil)
	req.Header.Set("Origin", "https://a.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	CORS([]string{"*"})(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLimitBytes(t *testing.T) {
	var readErr error
	h := LimitBytes(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("1234")))
	assert.NoError(t, readErr)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("12345")))
	var tooBig *http.MaxBytesError
	assert.ErrorAs(t, readErr, &tooBig)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(0.001, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", nil))
		codes[i] = rec.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	off := RateLimit(0, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		off.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_PerClient(t *testing.T) {
	h := RateLimit(0.001, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/validate", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5001"), "same host, other port")
	assert.Equal(t, http.StatusOK, send("10.0.0.2:5000"), "a noisy client does not block others")
}

func TestClientLimiters_EvictsIdle(t *testing.T) {
	c := &clientLimiters{rps: 0.001, burst: 1, clients: map[string]*clientLimiter{}}
	start := time.Unix(1_700_000_000, 0)
	c.lastSweep = start

	assert.True(t, c.allow("a", start))
	assert.False(t, c.allow("a", start))
	require.Len(t, c.clients, 1)

	later := start.Add(clientIdle + time.Minute)
	assert.True(t, c.allow("b", later))
	assert.Len(t, c.clients, 1, "idle client dropped")
	assert.True(t, c.allow("a", later.Add(time.Second)), "fresh limiter after eviction")
}

package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

func fixedNow() time.Time {
	return time.Date(2026, time.January, 30, 9, 0, 0, 0, time.UTC)
}

// testEnv is a Server wired to real services over an in-memory store.
type testEnv struct {
	h       http.Handler
	kv      *repo.MemoryKV
	svc     *service.Container
	copied  []string
	options handler.Options
}

func newTestEnv(t *testing.T, opts ...func(*handler.Options)) *testEnv {
	t.Helper()
	env := &testEnv{kv: repo.NewMemoryKV()}
	env.svc = service.NewContainer(env.kv, service.ContainerConfig{
		Now: fixedNow,
		Clipboard: []service.ClipboardOption{
			service.WithClipboardWriter(func(s string) error {
				env.copied = append(env.copied, s)
				return nil
			}),
			service.WithClock(fixedNow),
		},
	})
	env.options = handler.Options{Now: fixedNow}
	for _, o := range opts {
		o(&env.options)
	}
	env.h = handler.NewServer(handler.FromContainer(env.svc), env.options).Routes()
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	case []byte:
		r = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func (e *testEnv) seed(t *testing.T, key, value string) {
	t.Helper()
	require.NoError(t, e.kv.Set(t.Context(), key, value))
}

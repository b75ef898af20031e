package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/snapshot"
)

func withBase(base string) func(*handler.Options) {
	return func(o *handler.Options) { o.PublicBaseURL = base }
}

// createLink asks env for a sync link and returns it parsed.
func createLink(t *testing.T, env *testEnv, body any) *url.URL {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/sync/link", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	u, err := url.Parse(decode[handler.LinkResponse](t, rec).URL)
	require.NoError(t, err)
	return u
}

// openLink performs the page load of link on env and confirms the prompt.
func openLink(t *testing.T, env *testEnv, link *url.URL) {
	t.Helper()
	rec := env.do(t, http.MethodGet, link.RequestURI(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	prompt := decode[handler.SyncPromptResponse](t, rec)
	require.True(t, prompt.Pending)

	rec = env.do(t, http.MethodPost, prompt.Confirm, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
}

func TestSyncLink_usesPublicBase(t *testing.T) {
	env := newTestEnv(t, withBase("https://trip.example.com/app/index.html"))

	u := createLink(t, env, nil)

	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "trip.example.com", u.Host)
	assert.Equal(t, "/app/", u.Path)
	assert.NotEmpty(t, u.Query().Get(snapshot.ParamName))
}

func TestSyncLink_collapsesEphemeralPageURL(t *testing.T) {
	env := newTestEnv(t)

	u := createLink(t, env, map[string]any{"pageUrl": "https://abc.example.dev/preview-42/page?x=1#top"})

	assert.Equal(t, "abc.example.dev", u.Host)
	assert.Equal(t, "/", u.Path)
	assert.Equal(t, []string{snapshot.ParamName}, keysOf(u.Query()))
	assert.Empty(t, u.Fragment)
}

func TestSyncLink_fallsBackToRequestHost(t *testing.T) {
	env := newTestEnv(t)

	u := createLink(t, env, nil)

	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "example.com", u.Host) // httptest.NewRequest default host
}

func TestSyncLink_copyToClipboard(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/sync/link", `{"copy":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.LinkResponse](t, rec)
	require.NotNil(t, resp.Clipboard)
	assert.True(t, resp.Clipboard.Copied)
	assert.Equal(t, []string{resp.URL}, env.copied)
}

func TestSyncLink_invalidPageURL(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/sync/link", `{"pageUrl":"not a url"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSync_openLinkTransfersState(t *testing.T) {
	src := newTestEnv(t)
	require.Equal(t, http.StatusCreated, src.do(t, http.MethodPost, "/api/schedule", ramenBody()).Code)
	require.Equal(t, http.StatusOK, src.do(t, http.MethodPut, "/api/trip-id", `{"tripId":"shared1"}`).Code)
	link := createLink(t, src, nil)

	dst := newTestEnv(t)
	dst.seed(t, domain.KeyExpenses, `[{"id":"local"}]`)

	openLink(t, dst, link)

	assert.Equal(t, src.kv.Dump()[domain.KeySchedule], dst.kv.Dump()[domain.KeySchedule])
	assert.Equal(t, "SHARED1", dst.kv.Dump()[domain.KeyTripID])
	assert.Equal(t, `[{"id":"local"}]`, dst.kv.Dump()[domain.KeyExpenses], "keys absent from the link are kept")
}

func TestSync_promptDoesNotWrite(t *testing.T) {
	src := newTestEnv(t)
	require.Equal(t, http.StatusCreated, src.do(t, http.MethodPost, "/api/journal", `{"text":"hello"}`).Code)
	link := createLink(t, src, nil)
	dst := newTestEnv(t)

	rec := dst.do(t, http.MethodGet, link.RequestURI(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	prompt := decode[handler.SyncPromptResponse](t, rec)
	assert.True(t, prompt.Pending)
	assert.Equal(t, []string{domain.KeyJournal}, prompt.Keys)
	assert.Equal(t, "/", prompt.CleanURL)
	assert.Empty(t, dst.kv.Dump())
}

func TestSync_cleanURLKeepsOtherParams(t *testing.T) {
	env := newTestEnv(t)
	param := snapshot.EncodeParam([]byte(`{"shared_trip_id":"X"}`))

	rec := env.do(t, http.MethodGet, "/?lang=ja&sync="+param, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/?lang=ja", decode[handler.SyncPromptResponse](t, rec).CleanURL)
}

func TestSync_sameLinkTwiceIsIdempotent(t *testing.T) {
	src := newTestEnv(t)
	require.Equal(t, http.StatusCreated, src.do(t, http.MethodPost, "/api/planning/todo", `{"text":"Pack"}`).Code)
	link := createLink(t, src, nil)
	dst := newTestEnv(t)

	openLink(t, dst, link)
	first := dst.kv.Dump()
	openLink(t, dst, link)

	assert.Equal(t, first, dst.kv.Dump())
}

func TestSync_reloadingCleanURLAppliesNothing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	prompt := decode[handler.SyncPromptResponse](t, rec)
	assert.False(t, prompt.Pending)
	assert.Empty(t, env.kv.Dump())
}

func TestSync_malformedParamRedirects(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, domain.KeySchedule, `[{"id":"keep"}]`)
	before := env.kv.Dump()

	for _, param := range []string{"%%%", "bm90IGpzb24", snapshot.EncodeParam([]byte(`{"nagoya_schedule_items":"x"}`))} {
		rec := env.do(t, http.MethodGet, "/?a=1&sync="+url.QueryEscape(param), nil)

		require.Equal(t, http.StatusSeeOther, rec.Code, param)
		assert.Equal(t, "/?a=1", rec.Header().Get("Location"))
	}
	assert.Equal(t, before, env.kv.Dump())
}

func TestSync_confirmConsumesToken(t *testing.T) {
	env := newTestEnv(t)
	param := snapshot.EncodeParam([]byte(`{"shared_trip_id":"X"}`))
	prompt := decode[handler.SyncPromptResponse](t, env.do(t, http.MethodGet, "/?sync="+param, nil))

	rec := env.do(t, http.MethodPost, prompt.Confirm, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodPost, prompt.Confirm, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSync_discard(t *testing.T) {
	env := newTestEnv(t)
	param := snapshot.EncodeParam([]byte(`{"shared_trip_id":"X"}`))
	prompt := decode[handler.SyncPromptResponse](t, env.do(t, http.MethodGet, "/?sync="+param, nil))

	rec := env.do(t, http.MethodPost, prompt.Discard, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	pending := decode[handler.SyncPromptResponse](t, env.do(t, http.MethodGet, "/api/sync", nil))
	assert.False(t, pending.Pending)
	assert.Empty(t, env.kv.Dump())
}

func TestSync_confirmRejectsOffsiteReturn(t *testing.T) {
	env := newTestEnv(t)
	param := snapshot.EncodeParam([]byte(`{"shared_trip_id":"X"}`))
	prompt := decode[handler.SyncPromptResponse](t, env.do(t, http.MethodGet, "/?sync="+param, nil))

	target := "/api/sync/confirm?" + url.Values{"token": {prompt.Token}, "return": {"//evil.example"}}.Encode()
	rec := env.do(t, http.MethodPost, target, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func keysOf(v url.Values) []string {
	out := make([]string, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	return out
}

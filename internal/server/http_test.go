package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainya/ffversion/pkg/firefox"
)

func serve(t *testing.T, h http.Handler, path string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Result()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestVersionRoute(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	tests := []struct {
		target string
		want   string
	}{
		{"stable", "128.0"},
		{"beta", "129.0b5"},
		{"nightly", "130.0a1"},
		{"dev", "129.0b5"},
		{"esr", "128.0esr"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp := serve(t, h, "/version/"+tt.target)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
			assert.Equal(t, tt.want, readBody(t, resp))
		})
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.ChannelLookupsTotal.WithLabelValues("dev-edition")))
	assert.Equal(t, float64(5), testutil.ToFloat64(env.metrics.HTTPRequestsTotal.WithLabelValues(RouteVersion, "200")))
	assert.Equal(t, float64(5), testutil.ToFloat64(env.metrics.UpstreamFetchesTotal.WithLabelValues("success")))
}

func TestVersionRouteInvalidTarget(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	resp := serve(t, h, "/version/bogus")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Invalid target 'bogus'")
	assert.Equal(t, "Invalid target 'bogus'. Try 'stable', 'beta', 'nightly', 'dev', or 'esr'.", body)

	// The target is rejected before any upstream call.
	assert.Zero(t, env.upstream.hits.Load())
}

func TestMissingTarget(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	for _, path := range []string{"/version/", "/source/"} {
		resp := serve(t, h, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "Bad Request", readBody(t, resp), path)
	}
	assert.Zero(t, env.upstream.hits.Load())
}

func TestVersionRouteUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	env.upstream.set(http.StatusBadGateway, "bad gateway")
	resp := serve(t, h, "/version/stable")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "502")

	env.upstream.set(http.StatusOK, `{"LATEST_FIREFOX_VERSION": "128.0"}`)
	resp = serve(t, h, "/version/stable")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "missing field")

	assert.Equal(t, float64(2), testutil.ToFloat64(env.metrics.UpstreamFetchesTotal.WithLabelValues("error")))
}

func TestSourceRedirect(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	resp := serve(t, h, "/source/stable")
	readBody(t, resp)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, firefox.SourceURL("128.0"), resp.Header.Get("Location"))
	assert.Equal(t,
		"https://archive.mozilla.org/pub/firefox/releases/128.0/source/firefox-128.0.source.tar.xz",
		resp.Header.Get("Location"))
}

func TestSourceRedirectFollowsUpstream(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	env.upstream.set(http.StatusOK, strings.Replace(versionsJSON, `"LATEST_FIREFOX_VERSION": "128.0"`, `"LATEST_FIREFOX_VERSION": "128.0.3"`, 1))
	resp := serve(t, h, "/source/stable")
	readBody(t, resp)
	assert.Equal(t, firefox.SourceURL("128.0.3"), resp.Header.Get("Location"))
}

func TestSourceURLRoute(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	resp := serve(t, h, "/source/nightly/url")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, firefox.SourceURL("130.0a1"), readBody(t, resp))
}

func TestSourceErrors(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	for _, path := range []string{"/source/bogus", "/source/bogus/url"} {
		resp := serve(t, h, path)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.Equal(t,
			"Error finding version: Invalid target 'bogus'. Try 'stable', 'beta', 'nightly', 'dev', or 'esr'.",
			readBody(t, resp), path)
	}

	env.upstream.set(http.StatusServiceUnavailable, "")
	resp := serve(t, h, "/source/beta")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.True(t, strings.HasPrefix(readBody(t, resp), "Error finding version: "))
}

func TestHelpPages(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	for path, page := range map[string][]byte{"/": indexHelp, "/source": sourceHelp} {
		resp := serve(t, h, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, string(page), readBody(t, resp))
	}
	assert.Zero(t, env.upstream.hits.Load())
}

func TestUnknownRoutes(t *testing.T) {
	env := newTestEnv(t)
	h := NewHTTPHandler(env.resolver, env.metrics, env.log)

	resp := serve(t, h, "/releases/stable")
	readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/version/stable", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, env.upstream.hits.Load())
}

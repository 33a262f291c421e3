package server

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nainya/ffversion/internal/logger"
	"github.com/nainya/ffversion/internal/metrics"
	"github.com/nainya/ffversion/pkg/firefox"
)

const versionsJSON = `{
  "FIREFOX_AURORA": "",
  "FIREFOX_DEVEDITION": "129.0b5",
  "FIREFOX_ESR": "115.13.0esr",
  "FIREFOX_ESR_NEXT": "128.0esr",
  "FIREFOX_NIGHTLY": "130.0a1",
  "LAST_MERGE_DATE": "2024-07-08",
  "LAST_RELEASE_DATE": "2024-07-09",
  "LATEST_FIREFOX_DEVEL_VERSION": "129.0b5",
  "LATEST_FIREFOX_VERSION": "128.0"
}`

// fakeUpstream serves a configurable version document and counts hits
type fakeUpstream struct {
	*httptest.Server
	status atomic.Int32
	body   atomic.Value
	hits   atomic.Int32
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	u := &fakeUpstream{}
	u.status.Store(http.StatusOK)
	u.body.Store(versionsJSON)
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(u.status.Load()))
		_, _ = w.Write([]byte(u.body.Load().(string)))
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *fakeUpstream) set(status int, body string) {
	u.status.Store(int32(status))
	u.body.Store(body)
}

type testEnv struct {
	upstream *fakeUpstream
	metrics  *metrics.Metrics
	resolver *firefox.Resolver
	log      *logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	upstream := newFakeUpstream(t)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	log := logger.Nop()

	client := firefox.NewClient(upstream.URL, upstream.Client())
	client.Observer = NewUpstreamObserver(m, log)

	return &testEnv{
		upstream: upstream,
		metrics:  m,
		resolver: firefox.NewResolver(client),
		log:      log,
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/nainya/ffversion/internal/logger"
	"github.com/nainya/ffversion/internal/metrics"
	"github.com/nainya/ffversion/pkg/firefox"
)

// HTTP routes
const (
	RouteIndex         = "/"
	RouteSourceHelp    = "/source"
	RouteVersionEmpty  = "/version/"
	RouteVersion       = "/version/:target"
	RouteSourceEmpty   = "/source/"
	RouteSource        = "/source/:target"
	RouteSourceURLText = "/source/:target/url"
)

type httpHandlers struct {
	resolver *firefox.Resolver
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewHTTPHandler builds the public HTTP surface on top of resolver.
func NewHTTPHandler(resolver *firefox.Resolver, m *metrics.Metrics, log *logger.Logger) http.Handler {
	h := &httpHandlers{resolver: resolver, metrics: m, log: log}

	router := httprouter.New()

	routes := []struct {
		path   string
		handle httprouter.Handle
	}{
		{RouteIndex, staticHTML(indexHelp)},
		{RouteSourceHelp, staticHTML(sourceHelp)},
		{RouteVersionEmpty, badRequest},
		{RouteVersion, h.version},
		{RouteSourceEmpty, badRequest},
		{RouteSource, h.source},
		{RouteSourceURLText, h.sourceURL},
	}
	for _, r := range routes {
		router.GET(r.path, InstrumentHTTP(r.path, m, log, r.handle))
	}

	return router
}

func (h *httpHandlers) version(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	target := ps.ByName("target")
	if target == "" {
		badRequest(w, r, ps)
		return
	}

	res, err := h.resolve(r, target)
	if err != nil {
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeText(w, http.StatusOK, res.Version)
}

func (h *httpHandlers) source(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	target := ps.ByName("target")
	if target == "" {
		badRequest(w, r, ps)
		return
	}

	res, err := h.resolve(r, target)
	if err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("Error finding version: %v", err))
		return
	}
	http.Redirect(w, r, res.SourceURL(), http.StatusFound)
}

func (h *httpHandlers) sourceURL(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	target := ps.ByName("target")
	if target == "" {
		badRequest(w, r, ps)
		return
	}

	res, err := h.resolve(r, target)
	if err != nil {
		writeText(w, http.StatusInternalServerError, fmt.Sprintf("Error finding version: %v", err))
		return
	}
	writeText(w, http.StatusOK, res.SourceURL())
}

// resolve runs the resolver for target. An unknown target is answered with
// 500 like any other failure; callers must not rely on a 400 for it.
func (h *httpHandlers) resolve(r *http.Request, target string) (firefox.Resolution, error) {
	res, err := h.resolver.Resolve(r.Context(), target)
	if err != nil {
		if !errors.Is(err, firefox.ErrInvalidChannel) {
			h.log.Error("Resolution failed").
				Str("target", target).
				Err(err).
				Send()
		}
		return res, err
	}

	h.metrics.RecordChannelLookup(res.Channel.String())
	return res, nil
}

func badRequest(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeText(w, http.StatusBadRequest, "Bad Request")
}

func staticHTML(page []byte) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

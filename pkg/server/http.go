package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/hive/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ModuleState is the body of GET /state/{module}.
type ModuleState struct {
	Module  string         `json:"module"`
	State   map[string]any `json:"state"`
	Modules []string       `json:"modules"`
	Getters []string       `json:"getters"`
	Setters []string       `json:"setters"`
	Actions []string       `json:"actions"`
}

// handleState serves a module snapshot. The module path may use dots or
// slashes: /state/cart.items and /state/cart/items are the same module.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(chi.URLParam(r, "*"), "/")
	path = strings.ReplaceAll(path, "/", ".")

	// The closure may still run after Do gave up on a cancelled request, so
	// it only writes to the buffered channel.
	type result struct {
		body ModuleState
		err  error
	}
	out := make(chan result, 1)
	doErr := s.hub.Do(r.Context(), func() {
		m, err := s.store.Module(path)
		if err != nil {
			out <- result{err: err}
			return
		}
		out <- result{body: ModuleState{
			Module:  m.Path(),
			State:   m.Snapshot(),
			Modules: m.Modules(),
			Getters: m.Getters(),
			Setters: m.Setters(),
			Actions: m.Actions(),
		}}
	})
	if doErr != nil {
		writeError(w, http.StatusServiceUnavailable, doErr)
		return
	}
	var res result
	select {
	case res = <-out:
	default:
		writeError(w, http.StatusInternalServerError,
			errors.New("H030").WithDetail("state snapshot panicked"))
		return
	}
	if res.err != nil {
		writeError(w, http.StatusNotFound, res.err)
		return
	}
	writeJSON(w, http.StatusOK, res.body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": s.Connections(),
	})
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"code":    errors.Code(err),
		"message": err.Error(),
	})
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"deliverydash/internal/service"
)

const sseKeepaliveInterval = 15 * time.Second

func GetDashboardHandler(vm *service.DashboardViewModel, views *service.ViewFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, views.Dashboard(vm.State()))
	}
}

// RefreshDashboardHandler reloads the dashboard and answers with the
// resulting view. A failed load is still a 200: the view carries the error.
func RefreshDashboardHandler(vm *service.DashboardViewModel, views *service.ViewFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// A client hanging up must not turn the shared state into Error.
		// The detached load is bounded by the fetch timeout, also on
		// server shutdown.
		state, err := vm.Refresh(context.WithoutCancel(r.Context()))
		if errors.Is(err, service.ErrSuperseded) {
			state = vm.State()
		}
		writeJSON(w, http.StatusOK, views.Dashboard(state))
	}
}

// DashboardEventsHandler streams a view for every state transition as
// server-sent events.
func DashboardEventsHandler(vm *service.DashboardViewModel, views *service.ViewFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		states, cancel := vm.Subscribe()
		defer cancel()

		keepalive := time.NewTicker(sseKeepaliveInterval)
		defer keepalive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-keepalive.C:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case s, ok := <-states:
				if !ok {
					return
				}
				data, err := json.Marshal(views.Dashboard(s))
				if err != nil {
					slog.Error("encode dashboard event failed", "error", err)
					continue
				}
				if _, err := fmt.Fprintf(w, "id: %d\nevent: dashboard\ndata: %s\n\n", s.Generation, data); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

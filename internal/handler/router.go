package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"deliverydash/internal/mw"
	"deliverydash/internal/service"
)

func NewRouter(
	vm *service.DashboardViewModel,
	views *service.ViewFormatter,
	panel *service.DeliveryOrderPanel,
	log *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.Logger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Get("/", GetDashboardHandler(vm, views))
		r.Post("/refresh", RefreshDashboardHandler(vm, views))
		r.Get("/events", DashboardEventsHandler(vm, views))
	})

	r.Route("/api/driver", func(r chi.Router) {
		r.Get("/panel", GetPanelHandler(panel))
		r.Post("/refresh", RefreshPanelHandler(panel))
		r.Post("/availability/toggle", ToggleAvailabilityHandler(panel))
		r.Put("/selection/notes", SetNotesHandler(panel))
		r.Delete("/selection", ClearSelectionHandler(panel))
		r.Post("/orders/{id}/start", StartOrderHandler(panel))
		r.Post("/orders/{id}/select", SelectOrderHandler(panel))
		r.Post("/orders/{id}/complete", CompleteOrderHandler(panel))
	})

	return r
}

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"deliverydash/internal/model"
	"deliverydash/internal/service"
)

type completeRequest struct {
	LocationNote string `json:"locationNote"`
	DeliveryNote string `json:"deliveryNote"`
}

type panelResponse struct {
	Message      string                   `json:"message,omitempty"`
	Availability model.DriverAvailability `json:"availability,omitempty"`
	Panel        service.PanelView        `json:"panel"`
}

func GetPanelHandler(panel *service.DeliveryOrderPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, panel.Snapshot())
	}
}

func RefreshPanelHandler(panel *service.DeliveryOrderPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := panel.Refresh(r.Context()); err != nil {
			slog.Error("panel refresh failed", "error", err)
			writeError(w, http.StatusBadGateway, "no se pudieron cargar los pedidos asignados")
			return
		}
		writeJSON(w, http.StatusOK, panel.Snapshot())
	}
}

func StartOrderHandler(panel *service.DeliveryOrderPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}
		msg, err := panel.StartOrder(id)
		if err != nil {
			writePanelError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, panelResponse{Message: msg, Panel: panel.Snapshot()})
	}
}

func SelectOrderHandler(panel *service.DeliveryOrderPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}
		if err := panel.Select(id); err != nil {
			writePanelError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, panelResponse{Panel: panel.Snapshot()})
	}
}

func SetNotesHandler(panel *service.DeliveryOrderPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		panel.SetNotes(req.LocationNote, req.DeliveryNote)
		writeJSON(w, http.StatusOK, panelResponse{Panel: panel.Snapshot()})
	}
}

func ClearSelectionHandler(panel *service.DeliveryOrderPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		panel.ClearSelection()
		writeJSON(w, http.StatusOK, panelResponse{Panel: panel.Snapshot()})
	}
}

func CompleteOrderHandler(panel *service.DeliveryOrderPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}
		var req completeRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
		}
		msg, err := panel.CompleteOrder(r.Context(), id, req.LocationNote, req.DeliveryNote)
		if err != nil {
			writePanelError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, panelResponse{Message: msg, Panel: panel.Snapshot()})
	}
}

func ToggleAvailabilityHandler(panel *service.DeliveryOrderPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		availability, msg := panel.ToggleAvailability()
		writeJSON(w, http.StatusOK, panelResponse{Message: msg, Availability: availability, Panel: panel.Snapshot()})
	}
}

func orderID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return "", false
	}
	return id, true
}

func writePanelError(w http.ResponseWriter, err error) {
	var se *service.OrderServiceError
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "pedido no encontrado")
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "el pedido no admite esta acción")
	case errors.As(err, &se):
		writeError(w, http.StatusBadGateway, "no se pudo registrar la entrega")
	default:
		slog.Error("panel action failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

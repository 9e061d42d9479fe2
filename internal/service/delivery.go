package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// AckOrderService only acknowledges deliveries in the log. It is the
// default until an order system accepts delivery reports.
type AckOrderService struct {
	log *slog.Logger
}

func NewAckOrderService(log *slog.Logger) *AckOrderService {
	return &AckOrderService{log: log}
}

func (s *AckOrderService) MarkDelivered(ctx context.Context, id string, notes DeliveryNotes) error {
	s.log.Info("delivery acknowledged", "order", id,
		"location_note", notes.LocationNote, "delivery_note", notes.DeliveryNote)
	return nil
}

type Sender interface {
	Send(ctx context.Context, endpoint string, body, out any) error
}

// HTTPOrderService reports deliveries to the REST API.
type HTTPOrderService struct {
	sender   Sender
	driverID string
}

func NewHTTPOrderService(sender Sender, driverID string) *HTTPOrderService {
	return &HTTPOrderService{sender: sender, driverID: driverID}
}

type deliveredRequest struct {
	DriverID string `json:"idven"`
	DeliveryNotes
}

func (s *HTTPOrderService) MarkDelivered(ctx context.Context, id string, notes DeliveryNotes) error {
	endpoint := "/pedidos/" + url.PathEscape(id) + "/entregar/"
	if err := s.sender.Send(ctx, endpoint, deliveredRequest{DriverID: s.driverID, DeliveryNotes: notes}, nil); err != nil {
		return fmt.Errorf("report delivery: %w", err)
	}
	return nil
}

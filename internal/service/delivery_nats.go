package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const natsFlushTimeout = 5 * time.Second

type DeliveredEvent struct {
	OrderID      string    `json:"orderId"`
	DriverID     string    `json:"driverId"`
	LocationNote string    `json:"locationNote"`
	DeliveryNote string    `json:"deliveryNote"`
	DeliveredAt  time.Time `json:"deliveredAt"`
}

// NATSOrderService publishes a DeliveredEvent per completed delivery.
type NATSOrderService struct {
	conn     *nats.Conn
	subject  string
	driverID string
	now      func() time.Time
}

func NewNATSOrderService(url, subject, driverID string) (*NATSOrderService, error) {
	nc, err := nats.Connect(url, nats.MaxReconnects(-1), nats.ReconnectWait(time.Second))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSOrderService{conn: nc, subject: subject, driverID: driverID, now: time.Now}, nil
}

func (s *NATSOrderService) MarkDelivered(ctx context.Context, id string, notes DeliveryNotes) error {
	data, err := json.Marshal(DeliveredEvent{
		OrderID:      id,
		DriverID:     s.driverID,
		LocationNote: notes.LocationNote,
		DeliveryNote: notes.DeliveryNote,
		DeliveredAt:  s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := s.conn.Publish(s.subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", s.subject, err)
	}
	// A delivery counts only once the server has it.
	fctx, cancel := context.WithTimeout(ctx, natsFlushTimeout)
	defer cancel()
	if err := s.conn.FlushWithContext(fctx); err != nil {
		return fmt.Errorf("flushing %s: %w", s.subject, err)
	}
	return nil
}

func (s *NATSOrderService) Close() error {
	s.conn.Close()
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"deliverydash/internal/model"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order transition")
)

// OrderSource is the assignment feed for one driver.
type OrderSource interface {
	ListAssigned(ctx context.Context) ([]model.DriverOrder, error)
}

// OrderService records completed deliveries in the order system.
type OrderService interface {
	MarkDelivered(ctx context.Context, id string, notes DeliveryNotes) error
}

type DeliveryNotes struct {
	LocationNote string `json:"locationNote"`
	DeliveryNote string `json:"deliveryNote"`
}

type OrderServiceError struct {
	OrderID string
	Err     error
}

func (e *OrderServiceError) Error() string {
	return fmt.Sprintf("mark order %s delivered: %v", e.OrderID, e.Err)
}

func (e *OrderServiceError) Unwrap() error { return e.Err }

type OrderViewState string

const (
	OrderAssigned   OrderViewState = "assigned"
	OrderInProgress OrderViewState = "in_progress"
	OrderCompleted  OrderViewState = "completed"
)

type panelItem struct {
	order model.DriverOrder
	state OrderViewState
}

type PanelOrderView struct {
	model.DriverOrder
	State  OrderViewState `json:"state"`
	Marker string         `json:"marker,omitempty"`
}

type PanelView struct {
	Driver            model.Driver             `json:"driver"`
	Availability      model.DriverAvailability `json:"availability"`
	AvailabilityLabel string                   `json:"availabilityLabel"`
	Orders            []PanelOrderView         `json:"orders"`
	Pending           int                      `json:"pending"`
	DeliveredToday    int                      `json:"deliveredToday"`
	Selected          *model.DriverOrder       `json:"selected,omitempty"`
	LocationNote      string                   `json:"locationNote"`
	DeliveryNote      string                   `json:"deliveryNote"`
}

// DeliveryOrderPanel holds a driver's view state: the assigned orders, the
// order picked in the completion form and the availability toggle. Nothing
// here is persisted; deliveries go out through the OrderService.
type DeliveryOrderPanel struct {
	source OrderSource
	orders OrderService
	driver model.Driver
	log    *slog.Logger
	now    func() time.Time

	mu           sync.Mutex
	availability model.DriverAvailability
	items        []*panelItem
	completed    map[string]struct{}
	deliveredDay string
	delivered    int
	selected     string
	locationNote string
	deliveryNote string
}

func NewDeliveryOrderPanel(driver model.Driver, source OrderSource, orders OrderService, log *slog.Logger) *DeliveryOrderPanel {
	return &DeliveryOrderPanel{
		source:       source,
		orders:       orders,
		driver:       driver,
		log:          log,
		now:          time.Now,
		availability: model.DriverOnline,
		completed:    make(map[string]struct{}),
	}
}

// Refresh replaces the order list with the source's current assignments.
// Orders already started keep their state; delivered ones stay hidden.
func (p *DeliveryOrderPanel) Refresh(ctx context.Context) error {
	assigned, err := p.source.ListAssigned(ctx)
	if err != nil {
		return fmt.Errorf("list assigned orders: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	prev := make(map[string]OrderViewState, len(p.items))
	for _, it := range p.items {
		prev[it.order.ID] = it.state
	}

	items := make([]*panelItem, 0, len(assigned))
	for _, o := range assigned {
		if _, done := p.completed[o.ID]; done {
			continue
		}
		state, ok := prev[o.ID]
		if !ok {
			state = OrderAssigned
		}
		items = append(items, &panelItem{order: o, state: state})
	}
	p.items = items

	if p.selected != "" && p.findLocked(p.selected) == nil {
		p.clearSelectionLocked()
	}
	return nil
}

func (p *DeliveryOrderPanel) StartOrder(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	it := p.findLocked(id)
	if it == nil {
		return "", ErrOrderNotFound
	}
	if it.state != OrderAssigned {
		return "", fmt.Errorf("start order %s from %s: %w", id, it.state, ErrInvalidTransition)
	}
	it.state = OrderInProgress
	p.log.Info("delivery started", "order", id, "driver", p.driver.ID)
	return fmt.Sprintf("Iniciaste la entrega del pedido %s", id), nil
}

// Select opens the completion form for an order.
func (p *DeliveryOrderPanel) Select(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.findLocked(id) == nil {
		return ErrOrderNotFound
	}
	if p.selected != id {
		p.locationNote, p.deliveryNote = "", ""
	}
	p.selected = id
	return nil
}

func (p *DeliveryOrderPanel) SetNotes(locationNote, deliveryNote string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locationNote, p.deliveryNote = locationNote, deliveryNote
}

func (p *DeliveryOrderPanel) ClearSelection() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearSelectionLocked()
}

// CompleteOrder reports the delivery and drops the order from the active
// list. The order reads as completed while the report is in flight, so a
// second call for it fails with ErrInvalidTransition. If the order service
// fails the order goes back to its previous state.
func (p *DeliveryOrderPanel) CompleteOrder(ctx context.Context, id, locationNote, deliveryNote string) (string, error) {
	p.mu.Lock()
	it := p.findLocked(id)
	if it == nil {
		p.mu.Unlock()
		return "", ErrOrderNotFound
	}
	if it.state == OrderCompleted {
		p.mu.Unlock()
		return "", fmt.Errorf("complete order %s: %w", id, ErrInvalidTransition)
	}
	prev := it.state
	it.state = OrderCompleted
	p.mu.Unlock()

	notes := DeliveryNotes{LocationNote: locationNote, DeliveryNote: deliveryNote}
	if err := p.orders.MarkDelivered(ctx, id, notes); err != nil {
		p.log.Error("failed to mark order delivered", "order", id, "error", err)
		p.mu.Lock()
		// Refresh may have replaced the item meanwhile.
		if cur := p.findLocked(id); cur != nil && cur.state == OrderCompleted {
			cur.state = prev
		}
		p.mu.Unlock()
		return "", &OrderServiceError{OrderID: id, Err: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed[id] = struct{}{}
	for i, cur := range p.items {
		if cur.order.ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			break
		}
	}

	day := p.now().Format(time.DateOnly)
	if day != p.deliveredDay {
		p.deliveredDay, p.delivered = day, 0
	}
	p.delivered++

	if p.selected == id || p.selected == "" {
		p.clearSelectionLocked()
	}
	p.log.Info("order delivered", "order", id, "driver", p.driver.ID)
	return fmt.Sprintf("Pedido %s marcado como entregado", id), nil
}

func (p *DeliveryOrderPanel) ToggleAvailability() (model.DriverAvailability, string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.availability == model.DriverOnline {
		p.availability = model.DriverOffline
	} else {
		p.availability = model.DriverOnline
	}
	p.log.Info("driver availability changed", "driver", p.driver.ID, "availability", p.availability)
	return p.availability, fmt.Sprintf("Estado cambiado a: %s", stateLabel(p.availability))
}

func (p *DeliveryOrderPanel) Snapshot() PanelView {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := PanelView{
		Driver:            p.driver,
		Availability:      p.availability,
		AvailabilityLabel: availabilityLabel(p.availability),
		Orders:            make([]PanelOrderView, 0, len(p.items)),
		Pending:           len(p.items),
		LocationNote:      p.locationNote,
		DeliveryNote:      p.deliveryNote,
	}
	if p.deliveredDay == p.now().Format(time.DateOnly) {
		v.DeliveredToday = p.delivered
	}
	for _, it := range p.items {
		ov := PanelOrderView{DriverOrder: it.order, State: it.state}
		if it.order.Urgent {
			ov.Marker = UrgentLabel
		}
		v.Orders = append(v.Orders, ov)
	}
	if it := p.findLocked(p.selected); it != nil {
		o := it.order
		v.Selected = &o
	}
	return v
}

func (p *DeliveryOrderPanel) findLocked(id string) *panelItem {
	if id == "" {
		return nil
	}
	for _, it := range p.items {
		if it.order.ID == id {
			return it
		}
	}
	return nil
}

func (p *DeliveryOrderPanel) clearSelectionLocked() {
	p.selected, p.locationNote, p.deliveryNote = "", "", ""
}

func availabilityLabel(a model.DriverAvailability) string {
	if a == model.DriverOnline {
		return "Disponible"
	}
	return "Fuera de línea"
}

func stateLabel(a model.DriverAvailability) string {
	if a == model.DriverOnline {
		return "En línea"
	}
	return "Fuera de línea"
}

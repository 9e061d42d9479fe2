package service

import "deliverydash/internal/model"

const (
	UrgentLabel = "URGENTE"
	UrgentClass = "danger"
)

// Badge is the display form of an order's status.
type Badge struct {
	Label       string `json:"label"`
	Class       string `json:"class"`
	Urgent      bool   `json:"urgent"`
	UrgentLabel string `json:"urgentLabel,omitempty"`
	UrgentClass string `json:"urgentClass,omitempty"`
}

var statusBadges = map[model.OrderStatus]Badge{
	model.StatusPending:   {Label: "Pendiente", Class: "warning"},
	model.StatusInTransit: {Label: "En tránsito", Class: "info"},
	model.StatusDelivered: {Label: "Entregado", Class: "success"},
}

var unknownBadge = Badge{Label: "Desconocido", Class: "secondary"}

// Present maps a status to its badge. Unknown statuses get the neutral
// "Desconocido" badge; the urgent marker does not depend on status.
func Present(status model.OrderStatus, urgent bool) Badge {
	b, ok := statusBadges[status]
	if !ok {
		b = unknownBadge
	}
	if urgent {
		b.Urgent = true
		b.UrgentLabel = UrgentLabel
		b.UrgentClass = UrgentClass
	}
	return b
}

// PriorityLabel is the orders table's priority column.
func PriorityLabel(urgent bool) string {
	if urgent {
		return "Urgente"
	}
	return "Normal"
}

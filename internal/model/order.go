package model

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusInTransit OrderStatus = "in_transit"
	StatusDelivered OrderStatus = "delivered"
)

// OrderSummary is the read-only projection of an order shown in the
// dashboard's recent orders list. The order itself is owned by the
// external order system.
type OrderSummary struct {
	ID       string      `json:"id"`
	Client   string      `json:"client"`
	Address  string      `json:"address"`
	Category string      `json:"category"`
	Status   OrderStatus `json:"status"`
	Urgent   bool        `json:"urgent"`
}

package service

import (
	"context"
	"slices"

	"deliverydash/internal/model"
)

// StaticOrderSource serves a fixed assignment list, normally the orders
// listed in the config file.
type StaticOrderSource struct {
	orders []model.DriverOrder
}

func NewStaticOrderSource(orders []model.DriverOrder) *StaticOrderSource {
	return &StaticOrderSource{orders: slices.Clone(orders)}
}

func (s *StaticOrderSource) ListAssigned(ctx context.Context) ([]model.DriverOrder, error) {
	return slices.Clone(s.orders), nil
}

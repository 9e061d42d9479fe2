package service

import (
	"context"
	"fmt"
	"net/url"

	"deliverydash/internal/model"
)

// HTTPOrderSource lists a driver's orders in a given state from the REST
// API's pedidos endpoint.
type HTTPOrderSource struct {
	fetcher  Fetcher
	driverID string
	state    string
}

func NewHTTPOrderSource(fetcher Fetcher, driverID, state string) *HTTPOrderSource {
	return &HTTPOrderSource{fetcher: fetcher, driverID: driverID, state: state}
}

func (s *HTTPOrderSource) ListAssigned(ctx context.Context) ([]model.DriverOrder, error) {
	q := url.Values{}
	q.Set("estado", s.state)
	q.Set("idven", s.driverID)

	var records []pedidoRecord
	if err := s.fetcher.Fetch(ctx, "/pedidos/?"+q.Encode(), &records); err != nil {
		return nil, fmt.Errorf("fetch pedidos: %w", err)
	}

	orders := make([]model.DriverOrder, 0, len(records))
	for _, r := range records {
		orders = append(orders, r.driverOrder())
	}
	return orders, nil
}

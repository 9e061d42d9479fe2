package service

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"deliverydash/internal/model"
)

// pedidoRecord is a row of the order system's pedidos table as the REST
// API serializes it.
type pedidoRecord struct {
	ID        int64           `json:"idoped"`
	Date      string          `json:"fecped"`
	Notes     *string         `json:"notped"`
	ClientID  int64           `json:"idclie"`
	DriverID  int64           `json:"idven"`
	State     string          `json:"estped"`
	Total     decimal.Decimal `json:"totped"`
	Time      *string         `json:"hora"`
	Latitude  *float64        `json:"latitud"`
	Longitude *float64        `json:"longitud"`
}

func (p pedidoRecord) driverOrder() model.DriverOrder {
	o := model.DriverOrder{
		ID:     strconv.FormatInt(p.ID, 10),
		Client: fmt.Sprintf("Cliente %d", p.ClientID),
	}
	if p.Notes != nil {
		o.Notes = *p.Notes
	}
	if p.Time != nil {
		o.EstimatedTime = *p.Time
	}
	if p.Latitude != nil && p.Longitude != nil {
		o.Address = fmt.Sprintf("%.5f, %.5f", *p.Latitude, *p.Longitude)
	}
	return o
}

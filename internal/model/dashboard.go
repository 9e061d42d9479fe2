package model

import "github.com/shopspring/decimal"

type DashboardSnapshot struct {
	TotalOrders     int64           `json:"totalOrders"`
	PendingOrders   int64           `json:"pendingOrders"`
	DeliveredOrders int64           `json:"deliveredOrders"`
	UrgentOrders    int64           `json:"urgentOrders"`
	TotalClients    int64           `json:"totalClients"`
	ActiveDrivers   int64           `json:"activeDrivers"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
}

type MonthlyPoint struct {
	Month  string `json:"month"`
	Orders int64  `json:"orders"`
}

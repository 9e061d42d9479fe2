package model

type DriverAvailability string

const (
	DriverOnline  DriverAvailability = "online"
	DriverOffline DriverAvailability = "offline"
)

// DriverOrder is an order assigned to a driver by the assignment feed.
type DriverOrder struct {
	ID            string `json:"id" yaml:"id"`
	Client        string `json:"client" yaml:"client"`
	ClientPhone   string `json:"clientPhone" yaml:"client_phone"`
	Address       string `json:"address" yaml:"address"`
	Notes         string `json:"notes" yaml:"notes"`
	Urgent        bool   `json:"urgent" yaml:"urgent"`
	Category      string `json:"category" yaml:"category"`
	EstimatedTime string `json:"estimatedTime" yaml:"estimated_time"`
	Distance      string `json:"distance" yaml:"distance"`
}

type Driver struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Vehicle string `json:"vehicle" yaml:"vehicle"`
}

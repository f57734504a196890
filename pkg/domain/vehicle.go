package domain

import "strings"

// Vehicle is a catalog entry. Identity is the model name, compared case-insensitively.
type Vehicle struct {
	Model        string `json:"model" yaml:"model"`
	Price        int64  `json:"price" yaml:"price"` // minor currency units (cents)
	Stock        int    `json:"stock" yaml:"stock"`
	DeliveryDays int    `json:"delivery_days" yaml:"delivery_days"`
	Category     string `json:"category,omitempty" yaml:"category,omitempty"`
	FuelType     string `json:"fuel_type,omitempty" yaml:"fuel_type,omitempty"`
}

// InStock reports whether at least one unit is available.
func (v Vehicle) InStock() bool {
	return v.Stock > 0
}

// SameModel compares two model names the way the catalog does.
func SameModel(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// DefaultInventory returns the dealership seed catalog.
// Adapters insert it when their catalog is empty.
func DefaultInventory() []Vehicle {
	return []Vehicle{
		{Model: "Mustang", Price: 2799500, Stock: 8, DeliveryDays: 5, Category: "Sports Car", FuelType: "Gas"},
		{Model: "Explorer", Price: 3962500, Stock: 5, DeliveryDays: 9, Category: "SUV", FuelType: "Gas"},
		{Model: "Explorer EV", Price: 4850000, Stock: 3, DeliveryDays: 15, Category: "SUV", FuelType: "Electric"},
		{Model: "Maverick", Price: 2699500, Stock: 12, DeliveryDays: 5, Category: "Truck", FuelType: "Gas"},
		{Model: "F-150", Price: 3519000, Stock: 7, DeliveryDays: 8, Category: "Truck", FuelType: "Gas"},
		{Model: "F-150 Lightning", Price: 5200000, Stock: 4, DeliveryDays: 20, Category: "Truck", FuelType: "Electric"},
		{Model: "Bronco", Price: 3749000, Stock: 4, DeliveryDays: 12, Category: "SUV", FuelType: "Gas"},
		{Model: "Escape", Price: 2520000, Stock: 9, DeliveryDays: 6, Category: "SUV", FuelType: "Gas"},
	}
}

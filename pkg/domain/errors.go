package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrVehicleNotFound is returned when no catalog entry matches a model name.
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrOutOfStock is returned when an order is requested for a model with no stock left.
var ErrOutOfStock = errors.New("vehicle out of stock")

// ErrOrderNotFound is returned when an order ID does not exist in the durable store.
var ErrOrderNotFound = errors.New("order not found")

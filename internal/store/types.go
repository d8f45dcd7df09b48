// Package store owns the store registry and drives each store through its
// provisioning lifecycle.
package store

import (
	"fmt"
	"time"
)

// Engine is the commerce platform variant a store runs.
type Engine string

const (
	EngineWooCommerce Engine = "woocommerce"
	EngineMedusa      Engine = "medusa"
)

// ParseEngine validates a client-supplied engine value.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineWooCommerce, EngineMedusa:
		return Engine(s), nil
	default:
		return "", fmt.Errorf("invalid engine %q: must be woocommerce or medusa", s)
	}
}

// Status is a store's position in its provisioning lifecycle.
//
// Transitions are monotonic: pending → provisioning → ready|failed, and any
// state → deleting → removal from the registry. Only the background
// provisioning sequence writes the ready/failed terminals.
type Status string

const (
	StatusPending      Status = "pending"
	StatusProvisioning Status = "provisioning"
	StatusReady        Status = "ready"
	StatusFailed       Status = "failed"
	StatusDeleting     Status = "deleting"
)

// URLs are the public endpoints derived from a store's ID at creation.
type URLs struct {
	Storefront string `json:"storefront"`
	Admin      string `json:"admin"`
}

// Store is one tenant storefront instance.
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Engine    Engine    `json:"engine"`
	Status    Status    `json:"status"`
	Namespace string    `json:"namespace"`
	URLs      URLs      `json:"urls"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Error     string    `json:"error,omitempty"`
}

// EventType is the severity of an audit entry.
type EventType string

const (
	EventInfo    EventType = "info"
	EventWarning EventType = "warning"
	EventError   EventType = "error"
)

// Event is one immutable audit entry in a store's provisioning history.
type Event struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

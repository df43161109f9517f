// Package domain holds the order entity and its status enum.
package domain

import "github.com/shopspring/decimal"

// Status is the lifecycle state of an order.
type Status int

const (
	// StatusNew is the initial state of every order.
	StatusNew Status = iota
	// StatusProcessing marks an order being worked on.
	StatusProcessing
	// StatusCompleted marks a fulfilled order.
	StatusCompleted
	// StatusCancelled marks an abandoned order.
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusNew:        "New",
	StatusProcessing: "Processing",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
}

// String returns the symbolic name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "New"
}

// StatusFromName maps a Kommo pipeline-status name to an order status.
// The match is exact and case-sensitive; an unmapped name must leave the
// order's status untouched, so no fallback value is returned.
func StatusFromName(name string) (Status, bool) {
	for status, n := range statusNames {
		if n == name {
			return status, true
		}
	}
	return StatusNew, false
}

// Order is the local record paired with a Kommo lead.
type Order struct {
	ID          int64
	PhoneNumber *string
	UserName    *string
	Amount      decimal.Decimal
	Status      Status
	// LeadID is the Kommo lead identifier joining the two systems. Zero means
	// the order is not linked to any lead; non-zero values are unique across
	// all orders.
	LeadID int64
}

// Linked reports whether the order is paired with a Kommo lead.
func (o Order) Linked() bool {
	return o.LeadID != 0
}

package transport

import "github.com/shopspring/decimal"

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	PhoneNumber string          `json:"phoneNumber" validate:"required,min=3,max=32"`
	UserName    string          `json:"userName,omitempty" validate:"omitempty,max=200"`
	Amount      decimal.Decimal `json:"amount"`
}

// UpdateOrderRequest is the body of PUT /orders/:id. Blank strings and a zero
// amount mean "no change"; an update that sets the amount to exactly zero is
// indistinguishable from "no change" and is treated as the latter.
type UpdateOrderRequest struct {
	PhoneNumber string          `json:"phoneNumber,omitempty" validate:"omitempty,min=3,max=32"`
	UserName    string          `json:"userName,omitempty" validate:"omitempty,max=200"`
	Amount      decimal.Decimal `json:"amount,omitempty"`
}

// OrderResponse is the order view returned by every orders endpoint.
type OrderResponse struct {
	ID          int64           `json:"id"`
	PhoneNumber *string         `json:"phoneNumber"`
	UserName    *string         `json:"userName"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	LeadID      int64           `json:"leadId"`
}

// OrderListResponse wraps the order list.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
}

// Package service provides business logic for orders and their paired Kommo leads.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"kommosync/internal/orders/domain"
	"kommosync/internal/orders/repository"
	"kommosync/internal/orders/transport"
	"kommosync/platform/apperr"
	"kommosync/platform/logger"
	"kommosync/platform/phone"
)

// LeadGateway is the outbound CRM contract the order service depends on.
// Satisfied by *kommo.Client.
type LeadGateway interface {
	CreateLead(ctx context.Context, name string, price decimal.Decimal) (int64, error)
	UpdateLead(ctx context.Context, leadID int64, name *string, price *decimal.Decimal) error
}

// Service provides business logic for orders.
type Service struct {
	store   repository.Store
	gateway LeadGateway
	log     *logger.Logger
}

// New creates a new order service.
func New(store repository.Store, gateway LeadGateway, log *logger.Logger) *Service {
	return &Service{store: store, gateway: gateway, log: log}
}

// Create creates a Kommo lead for the request and persists the paired order.
// If Kommo returns no lead, the order is stored with lead id 0 (unlinked);
// that is not a failure.
func (s *Service) Create(ctx context.Context, req transport.CreateOrderRequest) (transport.OrderResponse, error) {
	if req.Amount.IsNegative() {
		return transport.OrderResponse{}, apperr.Validation("amount must not be negative")
	}

	name := strings.TrimSpace(req.UserName)
	leadName := name
	if leadName == "" {
		leadName = fmt.Sprintf("Order from %s", req.PhoneNumber)
	}

	leadID, err := s.gateway.CreateLead(ctx, leadName, req.Amount)
	if err != nil {
		return transport.OrderResponse{}, apperr.Wrap(apperr.KindUpstream, "failed to create crm lead", err)
	}

	normalized := phone.NormalizeE164(req.PhoneNumber)
	order := domain.Order{
		PhoneNumber: &normalized,
		Amount:      req.Amount,
		Status:      domain.StatusNew,
		LeadID:      leadID,
	}
	if name != "" {
		order.UserName = &name
	}

	order, err = s.store.Insert(ctx, order)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	s.log.Info("order created", "id", order.ID, "leadId", order.LeadID)
	return toOrderResponse(order), nil
}

// Update applies a selective merge to the order and propagates the changed
// fields to the paired Kommo lead. The local write happens before the remote
// call: a propagation failure after a successful write surfaces as an
// Upstream error, distinguishable from a pre-write rejection.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateOrderRequest) (transport.OrderResponse, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	var leadName *string
	var leadPrice *decimal.Decimal

	if p := strings.TrimSpace(req.PhoneNumber); p != "" {
		normalized := phone.NormalizeE164(p)
		order.PhoneNumber = &normalized
	}
	if n := strings.TrimSpace(req.UserName); n != "" {
		order.UserName = &n
		leadName = &n
	}
	if !req.Amount.IsZero() {
		if req.Amount.IsNegative() {
			return transport.OrderResponse{}, apperr.Validation("amount must not be negative")
		}
		amount := req.Amount
		order.Amount = amount
		leadPrice = &amount
	}

	order, err = s.store.Update(ctx, order)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	if order.Linked() && (leadName != nil || leadPrice != nil) {
		if err := s.gateway.UpdateLead(ctx, order.LeadID, leadName, leadPrice); err != nil {
			s.log.CRMError("update lead", err)
			return transport.OrderResponse{}, apperr.Wrap(apperr.KindUpstream,
				"order updated locally but crm sync failed", err)
		}
	}

	s.log.Info("order updated", "id", order.ID, "leadId", order.LeadID)
	return toOrderResponse(order), nil
}

// GetByID returns a single order view.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.OrderResponse, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

// List returns every order including its status.
func (s *Service) List(ctx context.Context) (transport.OrderListResponse, error) {
	orders, err := s.store.ListAll(ctx)
	if err != nil {
		return transport.OrderListResponse{}, err
	}

	items := make([]transport.OrderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, toOrderResponse(order))
	}
	return transport.OrderListResponse{Items: items}, nil
}

func toOrderResponse(order domain.Order) transport.OrderResponse {
	return transport.OrderResponse{
		ID:          order.ID,
		PhoneNumber: order.PhoneNumber,
		UserName:    order.UserName,
		Amount:      order.Amount,
		Status:      order.Status.String(),
		LeadID:      order.LeadID,
	}
}

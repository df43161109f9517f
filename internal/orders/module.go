// Package orders provides the orders bounded context module.
package orders

import (
	"kommosync/internal/orders/handler"
	"kommosync/internal/orders/repository"
	"kommosync/internal/orders/service"

	apphttp "kommosync/internal/http"
	"kommosync/platform/logger"
	"kommosync/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Store
}

// NewModule creates and initializes the orders module.
func NewModule(pool *pgxpool.Pool, gateway service.LeadGateway, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, gateway, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the record store for other modules (the webhook
// reconciler runs against the same store).
func (m *Module) Repository() repository.Store {
	return m.repo
}

// RegisterRoutes mounts order routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Root.Group("/orders")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

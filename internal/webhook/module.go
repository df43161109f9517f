package webhook

import (
	apphttp "kommosync/internal/http"
	"kommosync/platform/logger"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the webhook module. The store is shared
// with the orders module; the gateway is the application-wide Kommo client.
func NewModule(store OrderStore, gateway StatusLister, log *logger.Logger) *Module {
	svc := NewService(store, gateway, log)
	return &Module{
		handler: NewHandler(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the webhook route on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Root.Group("/webhook/kommo")
	group.Use(ctx.WebhookRateLimiter.RateLimit())
	group.POST("/leads", m.handler.HandleLeadsNotification)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

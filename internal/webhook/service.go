// Package webhook ingests Kommo lead notifications and reconciles them
// against the local order store.
package webhook

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"kommosync/internal/kommo"
	"kommosync/internal/orders/domain"
	"kommosync/platform/apperr"
	"kommosync/platform/logger"
)

// OrderStore is the slice of the record store the reconciler needs.
// Satisfied by *repository.Repo.
type OrderStore interface {
	GetByLeadID(ctx context.Context, leadID int64) (domain.Order, error)
	Insert(ctx context.Context, order domain.Order) (domain.Order, error)
	Update(ctx context.Context, order domain.Order) (domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

// StatusLister fetches the CRM's main-pipeline statuses. Satisfied by
// *kommo.Client.
type StatusLister interface {
	ListPipelineStatuses(ctx context.Context) ([]kommo.PipelineStatus, error)
}

// Service is the reconciliation engine: it applies a decoded change-set to
// the order store. Entries are processed independently; a failing entry is
// logged and skipped so its siblings and the other sections still run.
type Service struct {
	store   OrderStore
	gateway StatusLister
	log     *logger.Logger
}

// NewService creates a new reconciliation service.
func NewService(store OrderStore, gateway StatusLister, log *logger.Logger) *Service {
	return &Service{store: store, gateway: gateway, log: log}
}

// Apply runs the four reconciliation passes in fixed order: added, deleted,
// updated, status-changed. Deletions run before updates so soon-to-be-removed
// rows are not mutated first.
func (s *Service) Apply(ctx context.Context, cs ChangeSet) {
	s.applyAdded(ctx, cs.Added)
	s.applyDeleted(ctx, cs.Deleted)
	s.applyUpdated(ctx, cs.Updated)
	s.applyStatusChanged(ctx, cs.StatusChanged)
}

// applyAdded creates one order per added lead, copying the lead's name and
// price. A duplicate lead id is a store-level uniqueness violation: the entry
// fails loudly in the log and the rest of the batch proceeds.
func (s *Service) applyAdded(ctx context.Context, events []LeadEvent) {
	for _, e := range events {
		leadID, err := strconv.ParseInt(e.ID, 10, 64)
		if err != nil {
			s.log.Warn("webhook: malformed lead id in add entry, skipping", "id", e.ID)
			continue
		}
		amount, err := decimal.NewFromString(e.Price)
		if err != nil {
			s.log.Warn("webhook: malformed price in add entry, skipping", "leadId", leadID, "price", e.Price)
			continue
		}

		order := domain.Order{
			Amount: amount,
			Status: domain.StatusNew,
			LeadID: leadID,
		}
		if e.Name != "" {
			name := e.Name
			order.UserName = &name
		}

		if _, err := s.store.Insert(ctx, order); err != nil {
			if apperr.Is(err, apperr.KindConflict) {
				s.log.Warn("webhook: order for lead already exists, add rejected", "leadId", leadID)
			} else {
				s.log.DatabaseError("insert order from webhook", err)
			}
			continue
		}
		s.log.Info("webhook: order created from lead", "leadId", leadID)
	}
}

// applyDeleted removes the order linked to each deleted lead. An unknown lead
// id is a no-op: the lead may already be unlinked locally.
func (s *Service) applyDeleted(ctx context.Context, events []LeadEvent) {
	for _, e := range events {
		leadID, err := strconv.ParseInt(e.ID, 10, 64)
		if err != nil {
			s.log.Warn("webhook: malformed lead id in delete entry, skipping", "id", e.ID)
			continue
		}

		order, err := s.store.GetByLeadID(ctx, leadID)
		if err != nil {
			if !apperr.Is(err, apperr.KindNotFound) {
				s.log.DatabaseError("lookup order for webhook delete", err)
			}
			continue
		}

		if err := s.store.Delete(ctx, order.ID); err != nil {
			s.log.DatabaseError("delete order from webhook", err)
			continue
		}
		s.log.Info("webhook: order deleted with lead", "leadId", leadID, "orderId", order.ID)
	}
}

// applyUpdated overwrites the user name and amount of tracked orders. Updates
// for untracked leads are skipped silently, and the order status is never
// touched here; status transitions belong to the status pass alone.
func (s *Service) applyUpdated(ctx context.Context, events []LeadEvent) {
	for _, e := range events {
		leadID, err := strconv.ParseInt(e.ID, 10, 64)
		if err != nil {
			s.log.Warn("webhook: malformed lead id in update entry, skipping", "id", e.ID)
			continue
		}

		order, err := s.store.GetByLeadID(ctx, leadID)
		if err != nil {
			if !apperr.Is(err, apperr.KindNotFound) {
				s.log.DatabaseError("lookup order for webhook update", err)
			}
			continue
		}

		if e.Name != "" {
			name := e.Name
			order.UserName = &name
		}
		if e.Price != "" {
			amount, err := decimal.NewFromString(e.Price)
			if err != nil {
				s.log.Warn("webhook: malformed price in update entry, skipping", "leadId", leadID, "price", e.Price)
				continue
			}
			order.Amount = amount
		}

		if _, err := s.store.Update(ctx, order); err != nil {
			s.log.DatabaseError("update order from webhook", err)
			continue
		}
		s.log.Info("webhook: order updated from lead", "leadId", leadID, "orderId", order.ID)
	}
}

// applyStatusChanged resolves each entry's status id against the CRM's
// main-pipeline statuses (fetched once per invocation, never cached across
// requests) and maps the status name onto the order. A status outside the
// main pipeline, an unmapped name, or an untracked lead are all silent
// no-ops; foreign webhook traffic is expected.
func (s *Service) applyStatusChanged(ctx context.Context, events []LeadEvent) {
	if len(events) == 0 {
		return
	}

	statuses, err := s.gateway.ListPipelineStatuses(ctx)
	if err != nil {
		// aborts only this pass; the other sections already ran
		s.log.CRMError("list pipeline statuses", err)
		return
	}
	byID := make(map[int64]kommo.PipelineStatus, len(statuses))
	for _, st := range statuses {
		byID[st.ID] = st
	}

	for _, e := range events {
		leadID, err := strconv.ParseInt(e.ID, 10, 64)
		if err != nil {
			s.log.Warn("webhook: malformed lead id in status entry, skipping", "id", e.ID)
			continue
		}
		statusID, err := strconv.ParseInt(e.StatusID, 10, 64)
		if err != nil {
			s.log.Warn("webhook: malformed status id in status entry, skipping", "leadId", leadID, "statusId", e.StatusID)
			continue
		}

		pipelineStatus, ok := byID[statusID]
		if !ok {
			continue
		}
		mapped, ok := domain.StatusFromName(pipelineStatus.Name)
		if !ok {
			continue
		}

		order, err := s.store.GetByLeadID(ctx, leadID)
		if err != nil {
			if !apperr.Is(err, apperr.KindNotFound) {
				s.log.DatabaseError("lookup order for webhook status change", err)
			}
			continue
		}

		order.Status = mapped
		if _, err := s.store.Update(ctx, order); err != nil {
			s.log.DatabaseError("update order status from webhook", err)
			continue
		}
		s.log.Info("webhook: order status changed", "leadId", leadID, "status", mapped.String())
	}
}

package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"kommosync/internal/kommo"
	"kommosync/internal/orders/domain"
	"kommosync/platform/apperr"
	"kommosync/platform/logger"
)

type fakeStore struct {
	nextID int64
	orders map[int64]domain.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[int64]domain.Order)}
}

func (f *fakeStore) GetByLeadID(_ context.Context, leadID int64) (domain.Order, error) {
	if leadID != 0 {
		for _, o := range f.orders {
			if o.LeadID == leadID {
				return o, nil
			}
		}
	}
	return domain.Order{}, apperr.NotFound("order not found")
}

func (f *fakeStore) Insert(_ context.Context, order domain.Order) (domain.Order, error) {
	if order.LeadID != 0 {
		for _, existing := range f.orders {
			if existing.LeadID == order.LeadID {
				return domain.Order{}, apperr.Conflict("an order for this lead already exists")
			}
		}
	}
	f.nextID++
	order.ID = f.nextID
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeStore) Update(_ context.Context, order domain.Order) (domain.Order, error) {
	if _, ok := f.orders[order.ID]; !ok {
		return domain.Order{}, apperr.NotFound("order not found")
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return apperr.NotFound("order not found")
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeStore) byLeadID(t *testing.T, leadID int64) domain.Order {
	t.Helper()
	order, err := f.GetByLeadID(context.Background(), leadID)
	if err != nil {
		t.Fatalf("expected order for lead %d: %v", leadID, err)
	}
	return order
}

type fakeStatusLister struct {
	statuses []kommo.PipelineStatus
	err      error
	calls    int
}

func (f *fakeStatusLister) ListPipelineStatuses(context.Context) ([]kommo.PipelineStatus, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.statuses, nil
}

func newTestService(store *fakeStore, lister *fakeStatusLister) *Service {
	return NewService(store, lister, logger.New("development"))
}

func TestApply_AddedCreatesOrder(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeStatusLister{})

	svc.Apply(context.Background(), DecodeChangeSet("leads[add][0][id]=501&leads[add][0][price]=250000"))

	order := store.byLeadID(t, 501)
	if !order.Amount.Equal(decimal.NewFromInt(250000)) {
		t.Errorf("expected amount 250000, got %s", order.Amount)
	}
	if order.Status != domain.StatusNew {
		t.Errorf("expected status New, got %v", order.Status)
	}
}

func TestApply_AddedCopiesLeadName(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeStatusLister{})

	svc.Apply(context.Background(), ChangeSet{Added: []LeadEvent{
		{ID: "77", Name: "Tashkent wholesale", Price: "1200"},
	}})

	order := store.byLeadID(t, 77)
	if order.UserName == nil || *order.UserName != "Tashkent wholesale" {
		t.Fatalf("expected user name copied from lead, got %v", order.UserName)
	}
	if order.PhoneNumber != nil {
		t.Fatalf("expected no phone number on webhook-created order, got %v", *order.PhoneNumber)
	}
}

func TestApply_AddedDuplicateLeadRejectedWithoutMutation(t *testing.T) {
	store := newFakeStore()
	existing, _ := store.Insert(context.Background(), domain.Order{
		Amount: decimal.NewFromInt(100),
		Status: domain.StatusProcessing,
		LeadID: 501,
	})
	svc := newTestService(store, &fakeStatusLister{})

	svc.Apply(context.Background(), ChangeSet{Added: []LeadEvent{{ID: "501", Price: "999"}}})

	if len(store.orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(store.orders))
	}
	order := store.orders[existing.ID]
	if !order.Amount.Equal(decimal.NewFromInt(100)) || order.Status != domain.StatusProcessing {
		t.Fatalf("existing order was mutated: %+v", order)
	}
}

func TestApply_AddedMalformedEntrySkipsOnlyThatEntry(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeStatusLister{})

	svc.Apply(context.Background(), ChangeSet{Added: []LeadEvent{
		{ID: "501", Price: "not-a-price"},
		{ID: "not-an-id", Price: "10"},
		{ID: "502", Price: "750"},
	}})

	if len(store.orders) != 1 {
		t.Fatalf("expected only the valid entry applied, got %d orders", len(store.orders))
	}
	order := store.byLeadID(t, 502)
	if !order.Amount.Equal(decimal.NewFromInt(750)) {
		t.Errorf("expected amount 750, got %s", order.Amount)
	}
}

func TestApply_DeletedRemovesOrder(t *testing.T) {
	store := newFakeStore()
	store.Insert(context.Background(), domain.Order{LeadID: 501})
	svc := newTestService(store, &fakeStatusLister{})

	svc.Apply(context.Background(), ChangeSet{Deleted: []LeadEvent{{ID: "501"}}})

	if len(store.orders) != 0 {
		t.Fatalf("expected order removed, got %d orders", len(store.orders))
	}
}

func TestApply_DeletedUnknownLeadIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.Insert(context.Background(), domain.Order{LeadID: 7})
	svc := newTestService(store, &fakeStatusLister{})

	svc.Apply(context.Background(), ChangeSet{Deleted: []LeadEvent{{ID: "999"}}})

	if len(store.orders) != 1 {
		t.Fatalf("expected untouched store, got %d orders", len(store.orders))
	}
}

func TestApply_UpdatedUntrackedLeadIsSkipped(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeStatusLister{})

	svc.Apply(context.Background(), ChangeSet{Updated: []LeadEvent{
		{ID: "999", Name: "ghost", Price: "50"},
	}})

	if len(store.orders) != 0 {
		t.Fatalf("expected no orders created for untracked lead, got %d", len(store.orders))
	}
}

func TestApply_UpdatedOverwritesNameAndAmountButNotStatus(t *testing.T) {
	store := newFakeStore()
	store.Insert(context.Background(), domain.Order{
		Amount: decimal.NewFromInt(100),
		Status: domain.StatusProcessing,
		LeadID: 501,
	})
	svc := newTestService(store, &fakeStatusLister{})

	svc.Apply(context.Background(), ChangeSet{Updated: []LeadEvent{
		{ID: "501", Name: "renamed", Price: "300"},
	}})

	order := store.byLeadID(t, 501)
	if order.UserName == nil || *order.UserName != "renamed" {
		t.Errorf("expected user name overwritten, got %v", order.UserName)
	}
	if !order.Amount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected amount 300, got %s", order.Amount)
	}
	if order.Status != domain.StatusProcessing {
		t.Errorf("update pass must not touch status, got %v", order.Status)
	}
}

func TestApply_StatusChangedAssignsMappedStatus(t *testing.T) {
	store := newFakeStore()
	store.Insert(context.Background(), domain.Order{LeadID: 501, Status: domain.StatusNew})
	lister := &fakeStatusLister{statuses: []kommo.PipelineStatus{
		{ID: 77, Name: "Completed", PipelineID: 1, IsMain: true},
	}}
	svc := newTestService(store, lister)

	svc.Apply(context.Background(), DecodeChangeSet("leads[status][0][id]=501&leads[status][0][status_id]=77"))

	order := store.byLeadID(t, 501)
	if order.Status != domain.StatusCompleted {
		t.Fatalf("expected status Completed, got %v", order.Status)
	}
}

func TestApply_StatusChangedUnknownStatusIDNeverMutates(t *testing.T) {
	store := newFakeStore()
	store.Insert(context.Background(), domain.Order{LeadID: 501, Status: domain.StatusNew})
	lister := &fakeStatusLister{statuses: []kommo.PipelineStatus{
		{ID: 77, Name: "Completed", PipelineID: 1, IsMain: true},
	}}
	svc := newTestService(store, lister)

	svc.Apply(context.Background(), ChangeSet{StatusChanged: []LeadEvent{
		{ID: "501", StatusID: "12345"},
	}})

	if order := store.byLeadID(t, 501); order.Status != domain.StatusNew {
		t.Fatalf("expected status unchanged, got %v", order.Status)
	}
}

func TestApply_StatusChangedUnmappedNameLeavesStatus(t *testing.T) {
	store := newFakeStore()
	store.Insert(context.Background(), domain.Order{LeadID: 501, Status: domain.StatusNew})
	lister := &fakeStatusLister{statuses: []kommo.PipelineStatus{
		{ID: 88, Name: "completed", PipelineID: 1, IsMain: true}, // lowercase, must not map
		{ID: 89, Name: "Negotiation", PipelineID: 1, IsMain: true},
	}}
	svc := newTestService(store, lister)

	svc.Apply(context.Background(), ChangeSet{StatusChanged: []LeadEvent{
		{ID: "501", StatusID: "88"},
		{ID: "501", StatusID: "89"},
	}})

	if order := store.byLeadID(t, 501); order.Status != domain.StatusNew {
		t.Fatalf("expected status unchanged, got %v", order.Status)
	}
}

func TestApply_StatusListFetchedOncePerInvocation(t *testing.T) {
	store := newFakeStore()
	store.Insert(context.Background(), domain.Order{LeadID: 1})
	store.Insert(context.Background(), domain.Order{LeadID: 2})
	lister := &fakeStatusLister{statuses: []kommo.PipelineStatus{
		{ID: 77, Name: "Completed", PipelineID: 1, IsMain: true},
	}}
	svc := newTestService(store, lister)

	svc.Apply(context.Background(), ChangeSet{StatusChanged: []LeadEvent{
		{ID: "1", StatusID: "77"},
		{ID: "2", StatusID: "77"},
	}})

	if lister.calls != 1 {
		t.Fatalf("expected a single pipeline status fetch, got %d", lister.calls)
	}
}

func TestApply_StatusListerFailureAbortsOnlyStatusPass(t *testing.T) {
	store := newFakeStore()
	lister := &fakeStatusLister{err: errors.New("kommo api: status 500")}
	svc := newTestService(store, lister)

	svc.Apply(context.Background(), ChangeSet{
		Added:         []LeadEvent{{ID: "501", Price: "250000"}},
		StatusChanged: []LeadEvent{{ID: "501", StatusID: "77"}},
	})

	order := store.byLeadID(t, 501)
	if order.Status != domain.StatusNew {
		t.Fatalf("expected added order untouched by failed status pass, got %v", order.Status)
	}
}

func TestApply_NoStatusEntriesSkipsStatusFetch(t *testing.T) {
	store := newFakeStore()
	lister := &fakeStatusLister{}
	svc := newTestService(store, lister)

	svc.Apply(context.Background(), ChangeSet{Added: []LeadEvent{{ID: "1", Price: "10"}}})

	if lister.calls != 0 {
		t.Fatalf("expected no pipeline status fetch, got %d", lister.calls)
	}
}

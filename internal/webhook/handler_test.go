package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"kommosync/platform/logger"
)

func newTestRouter(store *fakeStore, lister *fakeStatusLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := NewService(store, lister, logger.New("development"))
	h := NewHandler(svc)

	engine := gin.New()
	engine.POST("/webhook/kommo/leads", h.HandleLeadsNotification)
	return engine
}

func TestHandleLeadsNotification_AcknowledgesWithEmptyOK(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store, &fakeStatusLister{})

	body := "leads[add][0][id]=501&leads[add][0][price]=250000"
	req := httptest.NewRequest(http.MethodPost, "/webhook/kommo/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}

	if _, err := store.GetByLeadID(context.Background(), 501); err != nil {
		t.Fatalf("expected order created from webhook: %v", err)
	}
}

func TestHandleLeadsNotification_EmptyPayloadStillOK(t *testing.T) {
	router := newTestRouter(newFakeStore(), &fakeStatusLister{})

	req := httptest.NewRequest(http.MethodPost, "/webhook/kommo/leads", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty payload, got %d", rec.Code)
	}
}

func TestHandleLeadsNotification_ForeignTrafficIsAcknowledged(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store, &fakeStatusLister{})

	// deletions and updates for leads we never tracked
	body := "leads[delete][0][id]=999&leads[update][0][id]=998&leads[update][0][price]=5"
	req := httptest.NewRequest(http.MethodPost, "/webhook/kommo/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(store.orders) != 0 {
		t.Fatalf("expected no local mutations, got %d orders", len(store.orders))
	}
}

package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/silowatch/silowatch/internal/ingest"
	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/internal/repository"
	"github.com/silowatch/silowatch/pkg/logger"
)

const (
	testSilo    = "0x4f5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37"
	testAccount = "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
)

type capture struct {
	mu      sync.Mutex
	updates []*models.HealthFactorUpdate
}

func newTestServer(t *testing.T) (*HTTPServer, *repository.MemoryStore, *capture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	sink := &capture{}
	pipeline := ingest.NewPipeline(1, func(_ context.Context, u *models.HealthFactorUpdate) {
		sink.mu.Lock()
		sink.updates = append(sink.updates, u)
		sink.mu.Unlock()
	}, logger.NewNop())

	return NewHTTPServer(store, pipeline, 0, logger.NewNop()), store, sink
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestListSubscriptionsRequiresCreator(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions?creator=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListSubscriptionsScopesByCreator(t *testing.T) {
	srv, store, _ := newTestServer(t)
	_, err := store.Create(&models.SubscriptionDraft{
		ChatID:                100,
		Creator:               42,
		Position:              models.PositionKey{ChainID: 1, Silo: testSilo, Account: testAccount},
		NotificationThreshold: 1.0,
		CooldownSeconds:       3600,
	})
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions?creator=42", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), testSilo) {
		t.Errorf("body should contain the subscription: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions?creator=7", nil))
	if strings.Contains(w.Body.String(), testSilo) {
		t.Error("other creators must not see the subscription")
	}
}

func TestSubmitUpdate(t *testing.T) {
	srv, _, sink := newTestServer(t)

	body := `{"chainId":1,"silo":"` + testSilo + `","account":"` + testAccount + `","healthFactor":0.9,"block":100}`
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/updates", strings.NewReader(body)))
	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", w.Code)
	}

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/updates", strings.NewReader(`{"chainId":1}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.updates) != 0 {
		t.Error("updates stay queued until the pipeline starts")
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/repository/memory"
	"github.com/FocusFish/USM/internal/usecase"
)

type staticPolicyRepository struct {
	props map[string]string
}

func (r staticPolicyRepository) GetBySubject(_ context.Context, subject string) (domain.Policy, error) {
	return domain.Policy{Subject: subject, Properties: r.props}, nil
}

func newSessionRouter(t *testing.T) (*gin.Engine, *usecase.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := usecase.NewPolicyProvider(staticPolicyRepository{})
	service := usecase.NewSessionService(memory.NewSessionStore(), provider, nil, zaptest.NewLogger(t))
	admin := usecase.NewAdminService(service, provider, nil, zaptest.NewLogger(t))

	router := gin.New()
	api := router.Group("/api/v1")
	NewSessionHandler(service).RegisterRoutes(api.Group("/sessions"))
	NewAdminHandler(admin).RegisterRoutes(api.Group("/administration"))
	return router, service
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	router, _ := newSessionRouter(t)

	body, _ := json.Marshal(CreateSessionRequest{UserName: "vms_admin", UserSite: "web"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, want 200", rec.Code)
	}

	var created CreateSessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}
	if created.SessionID == "" {
		t.Fatal("expected a session id")
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.SessionID, nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d, want 200", rec.Code)
	}

	var session SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if session.UserName != "vms_admin" || session.UserSite != "web" {
		t.Fatalf("unexpected session %+v", session)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+created.SessionID, nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+created.SessionID, nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("read after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateSessionRequiresUserName(t *testing.T) {
	router, _ := newSessionRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader([]byte(`{"userSite":"web"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReadSessionsByUser(t *testing.T) {
	router, service := newSessionRouter(t)

	for i := 0; i < 2; i++ {
		if _, err := service.CreateSession(context.Background(), domain.UserSession{UserName: "vms_admin"}); err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?userName=vms_admin", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var sessions []SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("unmarshal sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status without userName = %d, want 400", rec.Code)
	}
}

func TestAdministrationEndpointsIdempotent(t *testing.T) {
	router, service := newSessionRouter(t)

	if _, err := service.CreateSession(context.Background(), domain.UserSession{UserName: "vms_admin"}); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/administration/userSessions", nil)
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("userSessions status = %d, want 200", rec.Code)
		}
	}

	if sessions := service.ReadSessions("vms_admin", nil); len(sessions) != 0 {
		t.Fatal("expected all sessions cleared")
	}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/administration/policyCache", nil)
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("policyCache status = %d, want 200", rec.Code)
		}
	}
}

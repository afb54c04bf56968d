package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crescentview/leadgate/internal/leads"
	"github.com/crescentview/leadgate/internal/projects"
	"github.com/crescentview/leadgate/pkg/logging"
)

type memoryRecords struct {
	rows [][]any
}

func (m *memoryRecords) Append(ctx context.Context, row []any) error {
	m.rows = append(m.rows, row)
	return nil
}

func newTestRouter(t *testing.T, cfg *Config) http.Handler {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.LeadsHandler == nil {
		svc := leads.NewService(&memoryRecords{}, nil, nil, nil, cfg.Logger)
		cfg.LeadsHandler = leads.NewHandler(svc, cfg.Logger)
	}
	if cfg.ProjectsHandler == nil {
		cfg.ProjectsHandler = projects.NewHandler(projects.NewInMemoryRepository(), cfg.Logger)
	}
	return New(cfg)
}

func adminToken(t *testing.T, secret string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "content-admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLeadEndpointRouted(t *testing.T) {
	router := newTestRouter(t, &Config{})

	body, _ := json.Marshal(map[string]any{
		"firstName": "Jane",
		"lastName":  "Doe",
		"dialCode":  "+971",
		"phone":     "501234567",
		"email":     "jane@example.com",
		"consent":   true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/lead", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLeadEndpointRateLimited(t *testing.T) {
	router := newTestRouter(t, &Config{LeadRateLimit: 0.001, LeadRateBurst: 1})

	body, _ := json.Marshal(map[string]any{
		"firstName": "Jane",
		"lastName":  "Doe",
		"dialCode":  "+971",
		"phone":     "501234567",
		"email":     "jane@example.com",
		"consent":   true,
	})
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/lead", bytes.NewReader(body))
		req.RemoteAddr = "203.0.113.5:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("first request: expected 200, got %d", rec.Code)
		}
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("second request: expected 429, got %d", rec.Code)
		}
	}
}

func TestProjectsPublicRoutes(t *testing.T) {
	router := newTestRouter(t, &Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireJWT(t *testing.T) {
	router := newTestRouter(t, &Config{AdminJWTSecret: "secret"})

	project, _ := json.Marshal(map[string]any{
		"slug":     "marina-vista",
		"name":     "Marina Vista",
		"location": "Dubai Marina",
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/projects", bytes.NewReader(project))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/projects", bytes.NewReader(project))
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "secret"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router := newTestRouter(t, &Config{MetricsHandler: metrics})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

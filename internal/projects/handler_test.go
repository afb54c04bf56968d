package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T, repo Repository) chi.Router {
	t.Helper()
	h := NewHandler(repo, nil)
	r := chi.NewRouter()
	r.Mount("/api/projects", h.Routes())
	r.Mount("/admin/projects", h.AdminRoutes())
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlerListEmpty(t *testing.T) {
	router := newTestRouter(t, NewInMemoryRepository())

	w := doJSON(t, router, http.MethodGet, "/api/projects", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"projects":[]`) {
		t.Errorf("empty catalog must serialize as an empty array, got %s", w.Body.String())
	}
}

func TestHandlerCreateAndGet(t *testing.T) {
	router := newTestRouter(t, NewInMemoryRepository())

	p := sampleProject("marina-vista", "Marina Vista")
	p.TopTile = intPtr(1)
	w := doJSON(t, router, http.MethodPost, "/admin/projects", p)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/projects/marina-vista", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got Project
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Marina Vista" || got.TopTile == nil || *got.TopTile != 1 {
		t.Errorf("unexpected project %+v", got)
	}
}

func TestHandlerGetNotFound(t *testing.T) {
	router := newTestRouter(t, NewInMemoryRepository())

	w := doJSON(t, router, http.MethodGet, "/api/projects/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	router := newTestRouter(t, NewInMemoryRepository())

	p := sampleProject("Bad Slug", "Bad")
	w := doJSON(t, router, http.MethodPost, "/admin/projects", p)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/projects", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHandlerCreateConflicts(t *testing.T) {
	repo := NewInMemoryRepository()
	router := newTestRouter(t, repo)

	first := sampleProject("marina-vista", "Marina Vista")
	first.TopTile = intPtr(1)
	if err := repo.Create(context.Background(), first); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/admin/projects", sampleProject("marina-vista", "Dup"))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate slug, got %d", w.Code)
	}

	second := sampleProject("second", "Second")
	second.TopTile = intPtr(1)
	w = doJSON(t, router, http.MethodPost, "/admin/projects", second)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for occupied tile, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "top tile") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestHandlerUpdateUsesPathSlug(t *testing.T) {
	repo := NewInMemoryRepository()
	router := newTestRouter(t, repo)

	if err := repo.Create(context.Background(), sampleProject("marina-vista", "Marina Vista")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := sampleProject("other-slug", "Renamed")
	w := doJSON(t, router, http.MethodPut, "/admin/projects/marina-vista", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	p, err := repo.GetBySlug(context.Background(), "marina-vista")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "Renamed" {
		t.Errorf("update not applied: %+v", p)
	}
	if _, err := repo.GetBySlug(context.Background(), "other-slug"); err == nil {
		t.Error("body slug must not create a second project")
	}
}

func TestHandlerDelete(t *testing.T) {
	repo := NewInMemoryRepository()
	router := newTestRouter(t, repo)

	if err := repo.Create(context.Background(), sampleProject("gone", "Gone")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := doJSON(t, router, http.MethodDelete, "/admin/projects/gone", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/admin/projects/gone", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

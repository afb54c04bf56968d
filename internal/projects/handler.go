package projects

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crescentview/leadgate/pkg/logging"
)

// Handler provides the catalog HTTP endpoints. Public routes serve the
// site; admin routes mutate the catalog and are mounted behind JWT auth
// by the router.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Routes returns the public read-only routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{slug}", h.GetBySlug)
	return r
}

// AdminRoutes returns the mutation routes.
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Put("/{slug}", h.Update)
	r.Delete("/{slug}", h.Delete)
	return r
}

// List handles GET /api/projects.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if projects == nil {
		projects = []Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// GetBySlug handles GET /api/projects/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		h.logger.Error("failed to get project", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /admin/projects.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.Create(r.Context(), &p); err != nil {
		h.writeRepoError(w, "create", p.Slug, err)
		return
	}
	h.logger.Info("project created", "slug", p.Slug)
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /admin/projects/{slug}. The path slug wins over
// any slug in the body; listings are not renamed in place.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var p Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.Slug = slug
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.Update(r.Context(), &p); err != nil {
		h.writeRepoError(w, "update", slug, err)
		return
	}
	h.logger.Info("project updated", "slug", slug)
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /admin/projects/{slug}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := h.repo.Delete(r.Context(), slug); err != nil {
		h.writeRepoError(w, "delete", slug, err)
		return
	}
	h.logger.Info("project deleted", "slug", slug)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeRepoError(w http.ResponseWriter, op, slug string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "project not found")
	case errors.Is(err, ErrSlugTaken), errors.Is(err, ErrTileTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("project "+op+" failed", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

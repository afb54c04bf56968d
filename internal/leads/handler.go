package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crescentview/leadgate/pkg/logging"
)

// Handler handles HTTP requests for lead submissions
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type submissionResponse struct {
	OK           bool `json:"ok"`
	BitrixOK     bool `json:"bitrixOk"`
	BitrixLeadID *int `json:"bitrixLeadId"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Create handles POST /api/lead requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.logger.Error("lead submission decode failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "invalid request body"})
		return
	}

	outcome, err := h.svc.Process(r.Context(), &sub)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingField), errors.Is(err, ErrConsentRequired), errors.Is(err, ErrInvalidEmail):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, ErrRecordWrite):
			// Details stay in the logs; the visitor gets a short message.
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: ErrRecordWrite.Error()})
		default:
			h.logger.Error("lead pipeline failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, submissionResponse{
		OK:           true,
		BitrixOK:     outcome.BitrixOK,
		BitrixLeadID: outcome.BitrixLeadID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package suppression

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/searchnrate/leadgate/internal/normalize"
	"github.com/searchnrate/leadgate/internal/rowstore"
	"github.com/searchnrate/leadgate/pkg/logging"
)

const optOutNotes = "submitted via do-not-sell page"

// OptOutRequest is the body posted by the do-not-sell page.
type OptOutRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	RequestType string `json:"request_type"`
}

// Handler records opt-out requests.
type Handler struct {
	store       rowstore.Store
	index       *Index
	phoneDigits int
	logger      *logging.Logger
}

// NewHandler creates the opt-out intake handler. index may be nil.
func NewHandler(store rowstore.Store, index *Index, phoneDigits int, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, index: index, phoneDigits: phoneDigits, logger: logger}
}

// OptOut handles POST /optout. The record is appended verbatim (normalized
// contact values) and pushed into the live index so it suppresses matching
// leads immediately.
func (h *Handler) OptOut(w http.ResponseWriter, r *http.Request) {
	var req OptOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid json"})
		return
	}

	email := normalize.Email(req.Email)
	phone := normalize.PhoneNational(req.Phone, h.phoneDigits)
	if email == "" && phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Email or phone required"})
		return
	}

	row := []string{
		time.Now().UTC().Format(time.RFC3339),
		email,
		phone,
		strings.TrimSpace(req.RequestType),
		optOutNotes,
	}
	if err := h.store.Append(r.Context(), rowstore.TableOptOuts, row); err != nil {
		h.logger.Error("optout: append failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Server error", "detail": err.Error()})
		return
	}

	if h.index != nil {
		h.index.Add(r.Context(), email, phone)
	}

	h.logger.Info("optout recorded", "has_email", email != "", "has_phone", phone != "")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

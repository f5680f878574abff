package intake

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/searchnrate/leadgate/internal/buyers"
	"github.com/searchnrate/leadgate/internal/leads"
	"github.com/searchnrate/leadgate/pkg/logging"
)

// Response is the JSON body for every intake outcome. The caller always
// gets a well-formed body with an ok flag, never a stack trace.
type Response struct {
	OK           bool            `json:"ok"`
	Status       string          `json:"status,omitempty"`
	LeadID       string          `json:"lead_id,omitempty"`
	BuyerResults []buyers.Result `json:"buyer_results,omitempty"`
	Error        string          `json:"error,omitempty"`
	Detail       string          `json:"detail,omitempty"`
}

// Handler exposes the intake pipeline over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the intake HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CreateLead handles POST /lead.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	// An empty body is treated as an empty submission; validation then
	// rejects it for having no contact channel.
	var sub leads.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, Response{OK: false, Error: "invalid json"})
		return
	}

	meta := leads.RequestMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}

	receipt, err := h.service.Process(r.Context(), &sub, meta)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		OK:           true,
		Status:       string(receipt.Status),
		LeadID:       receipt.LeadID,
		BuyerResults: receipt.BuyerResults,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *leads.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, Response{OK: false, Error: verr.Reason})
		return
	}

	var cerr *ConfigurationError
	if errors.As(err, &cerr) {
		h.logger.Error("intake configuration error", "error", err)
		writeJSON(w, http.StatusInternalServerError, Response{OK: false, Error: "configuration error", Detail: cerr.Reason})
		return
	}

	h.logger.Error("intake request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, Response{OK: false, Error: "Server error", Detail: err.Error()})
}

// clientIP resolves the submitting client address, preferring the CDN
// header, then the forwarding chain, then the socket peer.
func clientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Nf-Client-Connection-Ip")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("Client-Ip")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wolfman30/consult-leads/internal/observability/metrics"
	"github.com/wolfman30/consult-leads/pkg/logging"
)

const maxRequestBytes = 64 << 10

// Submitter runs the lead submission pipeline.
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
}

// Handler handles HTTP requests for leads
type Handler struct {
	pipeline Submitter
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(pipeline Submitter, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		pipeline: pipeline,
		metrics:  m,
		logger:   logger,
	}
}

// SubmitLeadResponse is the success body of POST /submit-lead.
type SubmitLeadResponse struct {
	Success          bool        `json:"success"`
	Data             []*Lead     `json:"data"`
	SpreadsheetRelay RelayStatus `json:"spreadsheetRelay"`
	WebhookRelay     RelayStatus `json:"webhookRelay"`
}

// ErrorResponse is the failure body of the lead endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SubmitLead handles POST /submit-lead requests
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("unexpected panic in submit-lead", "panic", fmt.Sprint(rec))
			h.metrics.ObserveSubmission(metrics.OutcomeInternalError)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:   "Internal server error",
				Details: "unexpected error",
			})
		}
	}()

	var req SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.pipeline.Submit(r.Context(), req)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmitLeadResponse{
		Success:          true,
		Data:             []*Lead{result.Lead},
		SpreadsheetRelay: result.Spreadsheet.Status,
		WebhookRelay:     result.Webhook.Status,
	})
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	var storageErr *StorageError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Error()})
	case errors.As(err, &storageErr):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to save lead data",
			Details: storageErr.Detail,
		})
	default:
		h.logger.Error("unexpected error in submit-lead", "error", err)
		h.metrics.ObserveSubmission(metrics.OutcomeInternalError)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Details: err.Error(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package automation

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wolfman30/consult-leads/pkg/logging"
)

const testSource = "webhook-test"

// Prober sends a payload to the webhook and reports the raw outcome.
type Prober interface {
	Probe(ctx context.Context, payload Payload) (*ProbeResult, error)
}

// Handler serves the webhook self-test endpoint.
type Handler struct {
	prober Prober
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a self-test handler.
func NewHandler(prober Prober, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{prober: prober, logger: logger, now: time.Now}
}

// TestPayload returns the synthetic lead sent by the self-test.
func TestPayload(now time.Time) Payload {
	return Payload{
		Name:      "Teste Webhook",
		Email:     "teste@example.com",
		Phone:     "+55 11 99999-9999",
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Source:    testSource,
	}
}

type testResponse struct {
	Success         bool    `json:"success"`
	Message         string  `json:"message,omitempty"`
	Error           string  `json:"error,omitempty"`
	Details         string  `json:"details,omitempty"`
	WebhookStatus   int     `json:"webhookStatus,omitempty"`
	WebhookResponse any     `json:"webhookResponse,omitempty"`
	TestData        Payload `json:"testData"`
}

// TestWebhook handles POST /test-webhook requests.
func (h *Handler) TestWebhook(w http.ResponseWriter, r *http.Request) {
	payload := TestPayload(h.now())
	h.logger.Info("sending webhook self-test")

	result, err := h.prober.Probe(r.Context(), payload)
	if err != nil {
		h.logger.Error("webhook self-test failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, testResponse{
			Error:    "Internal server error",
			Details:  err.Error(),
			TestData: payload,
		})
		return
	}

	resp := testResponse{
		WebhookStatus:   result.StatusCode,
		WebhookResponse: result.Response,
		TestData:        payload,
	}
	if !result.OK {
		h.logger.Error("webhook self-test returned failure status", "status", result.StatusCode)
		resp.Error = "Webhook test failed"
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	h.logger.Info("webhook self-test succeeded", "status", result.StatusCode)
	resp.Success = true
	resp.Message = "Webhook test sent successfully"
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

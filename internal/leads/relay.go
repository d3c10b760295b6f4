package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/consult-leads/internal/automation"
	"github.com/wolfman30/consult-leads/internal/sheets"
)

// RelayStatus is the outcome of a best-effort relay.
type RelayStatus string

const (
	RelaySuccess      RelayStatus = "success"
	RelaySkipped      RelayStatus = "skipped"
	RelayPendingSetup RelayStatus = "pending_setup"
	RelayError        RelayStatus = "error"
)

// RelayOutcome records what happened to one relay.
type RelayOutcome struct {
	Status RelayStatus `json:"status"`
	Detail string      `json:"detail,omitempty"`
}

// SpreadsheetRelay appends stored leads to a spreadsheet.
type SpreadsheetRelay = sheets.Relay

// WebhookNotifier posts stored leads to the automation webhook.
type WebhookNotifier interface {
	Notify(ctx context.Context, payload automation.Payload) (int, error)
}

// runRelay calls fn inside its own error boundary: panics and errors both
// become an outcome, never a failure of the caller.
func runRelay(fn func() error) (outcome RelayOutcome) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = RelayOutcome{Status: RelayError, Detail: fmt.Sprintf("panic: %v", rec)}
		}
	}()

	err := fn()
	switch {
	case err == nil:
		return RelayOutcome{Status: RelaySuccess}
	case errors.Is(err, ErrRelayPendingSetup), errors.Is(err, sheets.ErrPendingSetup):
		return RelayOutcome{Status: RelayPendingSetup, Detail: err.Error()}
	default:
		return RelayOutcome{Status: RelayError, Detail: err.Error()}
	}
}

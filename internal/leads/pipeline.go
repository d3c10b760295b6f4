package leads

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/consult-leads/internal/automation"
	"github.com/wolfman30/consult-leads/internal/observability/metrics"
	"github.com/wolfman30/consult-leads/internal/sheets"
	"github.com/wolfman30/consult-leads/pkg/logging"
)

var pipelineTracer = otel.Tracer("consultleads.internal.leads.pipeline")

const (
	relaySpreadsheet = "spreadsheet"
	relayWebhook     = "webhook"

	defaultStoreTimeout = 10 * time.Second
	defaultRelayTimeout = 10 * time.Second
)

// PipelineConfig wires the pipeline's collaborators. Spreadsheet and Webhook
// are optional; a nil relay is reported as skipped.
type PipelineConfig struct {
	Store         Repository
	Spreadsheet   SpreadsheetRelay
	Webhook       WebhookNotifier
	Source        string
	StoreTimeout  time.Duration
	RelayTimeout  time.Duration
	DateFormatter sheets.DateFormatter
	Metrics       *metrics.LeadMetrics
	Logger        *logging.Logger
}

// SubmitResult is returned whenever the durable write succeeded.
type SubmitResult struct {
	Lead        *Lead
	Spreadsheet RelayOutcome
	Webhook     RelayOutcome
}

// Pipeline validates, stores and relays lead submissions.
type Pipeline struct {
	store        Repository
	spreadsheet  SpreadsheetRelay
	webhook      WebhookNotifier
	source       string
	storeTimeout time.Duration
	relayTimeout time.Duration
	dates        sheets.DateFormatter
	metrics      *metrics.LeadMetrics
	logger       *logging.Logger
	now          func() time.Time
}

// NewPipeline creates a pipeline from cfg.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Store == nil {
		panic("leads: store required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	storeTimeout := cfg.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	relayTimeout := cfg.RelayTimeout
	if relayTimeout <= 0 {
		relayTimeout = defaultRelayTimeout
	}
	return &Pipeline{
		store:        cfg.Store,
		spreadsheet:  cfg.Spreadsheet,
		webhook:      cfg.Webhook,
		source:       cfg.Source,
		storeTimeout: storeTimeout,
		relayTimeout: relayTimeout,
		dates:        cfg.DateFormatter,
		metrics:      cfg.Metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// Submit runs one submission. Only a *ValidationError or a *StorageError is
// returned as failure; relay problems are folded into the result.
func (p *Pipeline) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	ctx, span := pipelineTracer.Start(ctx, "leads.pipeline.submit")
	defer span.End()

	if err := req.Validate(); err != nil {
		p.logger.Warn("lead submission rejected", "error", err)
		p.metrics.ObserveSubmission(metrics.OutcomeRejected)
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	stored, err := p.persist(ctx, req.toLead(p.now()))
	if err != nil {
		var storageErr *StorageError
		if errors.As(err, &storageErr) {
			p.metrics.ObserveSubmission(metrics.OutcomeStorageError)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("leads.id", stored.ID))

	// Relays ignore caller cancellation; each one is bounded by relayTimeout.
	relayCtx := context.WithoutCancel(ctx)
	result := &SubmitResult{
		Lead:        stored,
		Spreadsheet: p.relaySpreadsheet(relayCtx, stored),
		Webhook:     p.relayWebhook(relayCtx, stored),
	}

	p.metrics.ObserveSubmission(metrics.OutcomeStored)
	span.SetAttributes(
		attribute.String("leads.relay.spreadsheet", string(result.Spreadsheet.Status)),
		attribute.String("leads.relay.webhook", string(result.Webhook.Status)),
	)
	p.logger.Info("lead submission completed",
		"lead_id", stored.ID,
		"spreadsheet_relay", result.Spreadsheet.Status,
		"webhook_relay", result.Webhook.Status,
	)
	return result, nil
}

// persist performs the durable write. Caller cancellation does not reach the
// store: once issued, the insert runs until it finishes or the store timeout hits.
func (p *Pipeline) persist(ctx context.Context, lead *Lead) (*Lead, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.storeTimeout)
	defer cancel()

	ctx, span := pipelineTracer.Start(ctx, "leads.pipeline.store")
	defer span.End()

	start := time.Now()
	stored, err := p.store.Create(ctx, lead)
	p.metrics.ObserveStoreLatency(time.Since(start).Seconds())
	if err != nil {
		storageErr := newStorageError(err)
		p.logger.Error("lead insert failed",
			"error", logging.ScrubPII(err.Error()),
			"detail", logging.ScrubPII(storageErr.Detail),
			"email_hash", logging.HashContact(lead.Email),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, storageErr
	}
	p.logger.Info("lead stored", "lead_id", stored.ID)
	return stored, nil
}

func (p *Pipeline) relaySpreadsheet(ctx context.Context, lead *Lead) RelayOutcome {
	if p.spreadsheet == nil {
		p.metrics.ObserveRelay(relaySpreadsheet, string(RelaySkipped))
		return RelayOutcome{Status: RelaySkipped}
	}

	ctx, cancel := context.WithTimeout(ctx, p.relayTimeout)
	defer cancel()
	ctx, span := pipelineTracer.Start(ctx, "leads.pipeline.relay.spreadsheet",
		trace.WithAttributes(attribute.String("leads.id", lead.ID)))
	defer span.End()

	row := sheets.Row{
		ID:          lead.ID,
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		SubmittedAt: lead.SubmittedAt.UTC().Format(time.RFC3339),
		Date:        p.dates.Format(lead.SubmittedAt),
	}
	outcome := runRelay(func() error { return p.spreadsheet.Append(ctx, row) })
	p.logRelay(relaySpreadsheet, lead.ID, outcome, span)
	return outcome
}

func (p *Pipeline) relayWebhook(ctx context.Context, lead *Lead) RelayOutcome {
	if p.webhook == nil {
		p.logger.Warn("automation webhook not configured, skipping relay", "lead_id", lead.ID)
		p.metrics.ObserveRelay(relayWebhook, string(RelaySkipped))
		return RelayOutcome{Status: RelaySkipped}
	}

	ctx, cancel := context.WithTimeout(ctx, p.relayTimeout)
	defer cancel()
	ctx, span := pipelineTracer.Start(ctx, "leads.pipeline.relay.webhook",
		trace.WithAttributes(attribute.String("leads.id", lead.ID)))
	defer span.End()

	payload := automation.Payload{
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Timestamp: p.now().UTC().Format(time.RFC3339Nano),
		Source:    p.source,
	}
	outcome := runRelay(func() error {
		status, err := p.webhook.Notify(ctx, payload)
		span.SetAttributes(attribute.Int("http.status_code", status))
		return err
	})
	p.logRelay(relayWebhook, lead.ID, outcome, span)
	return outcome
}

func (p *Pipeline) logRelay(relay, leadID string, outcome RelayOutcome, span trace.Span) {
	p.metrics.ObserveRelay(relay, string(outcome.Status))
	switch outcome.Status {
	case RelaySuccess:
		p.logger.Info("relay succeeded", "relay", relay, "lead_id", leadID)
	case RelayPendingSetup:
		p.logger.Warn("relay pending setup", "relay", relay, "lead_id", leadID, "detail", outcome.Detail)
	default:
		p.logger.Error("relay failed (non-critical)", "relay", relay, "lead_id", leadID, "error", logging.ScrubPII(outcome.Detail))
		span.SetStatus(codes.Error, outcome.Detail)
	}
}

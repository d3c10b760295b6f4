package bootstrap

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/consult-leads/internal/api/router"
	"github.com/wolfman30/consult-leads/internal/automation"
	appconfig "github.com/wolfman30/consult-leads/internal/config"
	"github.com/wolfman30/consult-leads/internal/leads"
	"github.com/wolfman30/consult-leads/internal/observability/metrics"
	"github.com/wolfman30/consult-leads/internal/sheets"
	"github.com/wolfman30/consult-leads/pkg/logging"
)

// App is the fully wired HTTP surface shared by the API server and the
// Lambda entrypoint.
type App struct {
	Handler  http.Handler
	Pipeline *leads.Pipeline
	closers  []func()
}

// Close releases the store, limiter and Redis resources in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// BuildApp wires config into a router. verifyRedis pings Redis before
// enabling the shared rate limiter.
func BuildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verifyRedis bool) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	app := &App{}

	store, closeStore, err := BuildLeadStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStore)

	spreadsheet, err := BuildSpreadsheetRelay(ctx, cfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	webhookClient := BuildWebhookClient(cfg, logger)
	var notifier leads.WebhookNotifier
	if webhookClient.Configured() {
		notifier = webhookClient
	}

	redisClient := BuildRedisClient(ctx, cfg, logger, verifyRedis)
	if redisClient != nil {
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
	}
	limiter, closeLimiter, err := BuildRateLimiter(cfg, redisClient, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.closers = append(app.closers, closeLimiter)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	leadMetrics := metrics.NewLeadMetrics(registry)

	app.Pipeline = leads.NewPipeline(leads.PipelineConfig{
		Store:         store,
		Spreadsheet:   spreadsheet,
		Webhook:       notifier,
		Source:        cfg.LeadSource,
		StoreTimeout:  cfg.StoreTimeout,
		RelayTimeout:  cfg.RelayTimeout,
		DateFormatter: sheets.NewDateFormatter(cfg.SpreadsheetTimezone),
		Metrics:       leadMetrics,
		Logger:        logger,
	})

	app.Handler = router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(app.Pipeline, leadMetrics, logger),
		WebhookTest:        automation.NewHandler(webhookClient, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SubmitLimiter:      limiter,
	})
	return app, nil
}

package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/consult-leads/internal/automation"
	appconfig "github.com/wolfman30/consult-leads/internal/config"
	httpmiddleware "github.com/wolfman30/consult-leads/internal/http/middleware"
	"github.com/wolfman30/consult-leads/internal/leads"
	"github.com/wolfman30/consult-leads/internal/sheets"
	"github.com/wolfman30/consult-leads/pkg/logging"
)

// BuildLeadStore selects the lead store backend. The returned close func is
// never nil.
func BuildLeadStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.Repository, func(), error) {
	noop := func() {}
	switch backend := cfg.ResolvedLeadStore(); backend {
	case appconfig.LeadStorePostgres:
		pool, err := ConnectPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("lead store ready", "backend", backend)
		return leads.NewPostgresRepository(pool), pool.Close, nil
	case appconfig.LeadStoreDynamoDB:
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		repo, err := leads.NewDynamoRepository(NewDynamoClient(awsCfg, cfg), cfg.LeadsTable)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap: dynamodb lead store: %w", err)
		}
		logger.Info("lead store ready", "backend", backend, "table", cfg.LeadsTable)
		return repo, noop, nil
	default:
		logger.Warn("using in-memory lead store; leads are lost on restart")
		return leads.NewInMemoryRepository(), noop, nil
	}
}

// BuildSpreadsheetRelay picks the spreadsheet relay: an HTTP relay URL wins
// over the Sheets API, and neither configured returns a nil relay.
func BuildSpreadsheetRelay(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.SpreadsheetRelay, error) {
	if cfg.SpreadsheetRelayURL != "" {
		relay, err := sheets.NewHTTPRelay(cfg.SpreadsheetRelayURL, cfg.RelayTimeout, nil)
		if err != nil {
			return nil, err
		}
		logger.Info("spreadsheet relay enabled", "mode", "http")
		return relay, nil
	}
	if cfg.SheetsSpreadsheetID != "" {
		appender, err := sheets.NewSheetsAppender(ctx, sheets.AppenderConfig{
			SpreadsheetID:   cfg.SheetsSpreadsheetID,
			Range:           cfg.SheetsRange,
			CredentialsFile: cfg.SheetsCredentials,
			Timeout:         cfg.RelayTimeout,
		})
		if err != nil {
			return nil, err
		}
		if appender.PendingSetup() {
			logger.Warn("spreadsheet configured without credentials; relay pending setup")
		} else {
			logger.Info("spreadsheet relay enabled", "mode", "sheets_api")
		}
		return appender, nil
	}
	logger.Info("spreadsheet relay not configured")
	return nil, nil
}

// BuildWebhookClient returns the automation client. It is always non-nil so
// the self-test endpoint can report a missing URL.
func BuildWebhookClient(cfg *appconfig.Config, logger *logging.Logger) *automation.Client {
	client := automation.New(automation.Config{
		URL:     cfg.AutomationWebhookURL,
		Timeout: cfg.RelayTimeout,
		Logger:  logger,
	})
	if !client.Configured() {
		logger.Warn("AUTOMATION_WEBHOOK_URL not set; webhook relay disabled")
	}
	return client
}

// BuildRateLimiter returns nil when RATE_LIMIT_PER_MINUTE is 0. A Redis
// client shares the window across instances; otherwise buckets are local.
func BuildRateLimiter(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) (httpmiddleware.Limiter, func(), error) {
	noop := func() {}
	if cfg.RateLimitPerMinute <= 0 {
		return nil, noop, nil
	}
	if redisClient != nil {
		limiter, err := httpmiddleware.NewRedisLimiter(redisClient, cfg.RateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("submission rate limit enabled", "backend", "redis", "per_minute", cfg.RateLimitPerMinute)
		return limiter, noop, nil
	}
	limiter := httpmiddleware.NewMemoryLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	logger.Info("submission rate limit enabled", "backend", "memory", "per_minute", cfg.RateLimitPerMinute, "burst", cfg.RateLimitBurst)
	return limiter, limiter.Close, nil
}

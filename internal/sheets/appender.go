package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// SheetsAppender appends rows through the Google Sheets API.
type SheetsAppender struct {
	service       *gsheets.Service
	spreadsheetID string
	writeRange    string
	timeout       time.Duration
}

// AppenderConfig configures a SheetsAppender.
type AppenderConfig struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
	Timeout         time.Duration
	// ClientOptions replace the credentials file when set.
	ClientOptions []option.ClientOption
}

// NewSheetsAppender builds an appender. With a spreadsheet id but no
// credentials the appender is returned in pending-setup mode.
func NewSheetsAppender(ctx context.Context, cfg AppenderConfig) (*SheetsAppender, error) {
	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		return nil, errors.New("sheets: spreadsheet id required")
	}
	writeRange := strings.TrimSpace(cfg.Range)
	if writeRange == "" {
		writeRange = "Leads!A:F"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	a := &SheetsAppender{spreadsheetID: id, writeRange: writeRange, timeout: timeout}

	opts := cfg.ClientOptions
	if len(opts) == 0 {
		if strings.TrimSpace(cfg.CredentialsFile) == "" {
			return a, nil
		}
		opts = []option.ClientOption{
			option.WithAuthCredentialsFile(option.ServiceAccount, cfg.CredentialsFile),
			option.WithScopes(gsheets.SpreadsheetsScope),
		}
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	a.service = svc
	return a, nil
}

// PendingSetup reports whether the appender lacks credentials.
func (a *SheetsAppender) PendingSetup() bool {
	return a.service == nil
}

// Append adds the row below the last row of the configured range.
func (a *SheetsAppender) Append(ctx context.Context, row Row) error {
	if a.PendingSetup() {
		return ErrPendingSetup
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	values := &gsheets.ValueRange{Values: [][]interface{}{row.Values()}}
	_, err := a.service.Spreadsheets.Values.
		Append(a.spreadsheetID, a.writeRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append row: %w", err)
	}
	return nil
}

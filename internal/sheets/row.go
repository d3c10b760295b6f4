// Package sheets appends captured leads to a shared spreadsheet.
package sheets

import (
	"context"
	"errors"
	"time"
)

// ErrPendingSetup is returned by relays that are configured but cannot run yet.
var ErrPendingSetup = errors.New("sheets: spreadsheet relay pending setup")

// Row is a single lead line appended to the spreadsheet.
type Row struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	SubmittedAt string `json:"submitted_at"`
	Date        string `json:"date"`
}

// Values returns the row as spreadsheet cells in column order.
func (r Row) Values() []interface{} {
	return []interface{}{r.Date, r.Name, r.Email, r.Phone, r.ID, r.SubmittedAt}
}

// Relay appends rows to a spreadsheet.
type Relay interface {
	Append(ctx context.Context, row Row) error
}

// DateFormatter renders submission times the way spreadsheet readers expect
// (dd/mm/yyyy hh:mm:ss in a fixed timezone).
type DateFormatter struct {
	loc *time.Location
}

// NewDateFormatter loads the named timezone, falling back to UTC.
func NewDateFormatter(timezone string) DateFormatter {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		loc = time.UTC
	}
	return DateFormatter{loc: loc}
}

// Format renders t in the formatter's timezone.
func (f DateFormatter) Format(t time.Time) string {
	loc := f.loc
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006 15:04:05")
}

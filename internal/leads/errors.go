package leads

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrRelayPendingSetup marks a relay that is configured but not ready to run.
var ErrRelayPendingSetup = errors.New("leads: relay pending setup")

// ValidationError is returned when required fields are missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// StorageError is returned when the lead store rejects or fails the insert.
type StorageError struct {
	Detail string
	Err    error
}

func (e *StorageError) Error() string {
	return "leads: store lead: " + e.Detail
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func newStorageError(err error) *StorageError {
	return &StorageError{Detail: storageDetail(err), Err: err}
}

// storageDetail extracts the store's own diagnostic from err.
func storageDetail(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

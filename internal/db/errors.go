package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
)

// InputError reports a malformed argument. The caller can fix it.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports a deployment defect, such as a backend with
// no registered connection string.
type ConfigurationError struct {
	Backend string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for backend %q: %s", e.Backend, e.Reason)
}

// BackendQueryError reports a failure the backend or its driver returned
// while connecting, executing or reading. Message never carries the
// connection password.
type BackendQueryError struct {
	Backend string
	Table   string
	Code    string // driver error code, if any
	Message string
	Err     error
}

func (e *BackendQueryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: reading %s: [%s] %s", e.Backend, e.Table, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: reading %s: %s", e.Backend, e.Table, e.Message)
}

func (e *BackendQueryError) Unwrap() error { return e.Err }

// UnexpectedError wraps anything that is not one of the above.
type UnexpectedError struct {
	Backend string
	Table   string
	Err     error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: reading %s: unexpected: %v", e.Backend, e.Table, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// DriverError is what an adapter's classifier extracts from a native
// driver error.
type DriverError struct {
	Code    string
	Message string
}

// Classifier recognises a backend's native error types.
type Classifier func(err error) (DriverError, bool)

// Classify turns err into the package taxonomy. Errors already in the
// taxonomy pass through. secret, when non-empty, is scrubbed from the
// resulting message.
func Classify(err error, backend string, t Target, secret string, native Classifier) error {
	if err == nil {
		return nil
	}

	var (
		inErr  *InputError
		cfgErr *ConfigurationError
		bqErr  *BackendQueryError
		unErr  *UnexpectedError
	)
	if errors.As(err, &inErr) || errors.As(err, &cfgErr) || errors.As(err, &bqErr) || errors.As(err, &unErr) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &UnexpectedError{Backend: backend, Table: t.Qualified(), Err: err}
	}

	if native != nil {
		if de, ok := native(err); ok {
			return &BackendQueryError{
				Backend: backend,
				Table:   t.Qualified(),
				Code:    de.Code,
				Message: Redact(de.Message, secret),
				Err:     err,
			}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return &BackendQueryError{
			Backend: backend,
			Table:   t.Qualified(),
			Message: Redact(err.Error(), secret),
			Err:     err,
		}
	}

	if len(secret) >= minRedactLen && strings.Contains(err.Error(), secret) {
		err = errors.New(Redact(err.Error(), secret))
	}
	return &UnexpectedError{Backend: backend, Table: t.Qualified(), Err: err}
}

// minRedactLen is the shortest secret Redact will scrub. Shorter ones
// match too much ordinary text to be replaced safely.
const minRedactLen = 4

// Redact replaces every occurrence of secret in msg.
func Redact(msg, secret string) string {
	if len(secret) < minRedactLen {
		return msg
	}
	return strings.ReplaceAll(msg, secret, "****")
}

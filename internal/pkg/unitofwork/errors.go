package unitofwork

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validation errors are raised locally, before any network call, and are safe
// to surface to the caller for correction. Validating the same malformed batch
// twice yields the same sentinel both times.
var (
	// ErrEmptyBatch indicates a commit was attempted on a batch with no
	// registered operations.
	ErrEmptyBatch = errors.New("unit of work: batch is empty")

	// ErrBatchTooLarge indicates the batch exceeds the store's per-transaction
	// operation ceiling.
	ErrBatchTooLarge = errors.New("unit of work: batch exceeds the operation ceiling")

	// ErrUnknownReference indicates a field embeds a pending reference that was
	// not created by this batch (or not created yet; forward references are
	// rejected, never silently dropped).
	ErrUnknownReference = errors.New("unit of work: reference was not created by this batch")

	// ErrMissingRecordType indicates an operation without a record-type tag.
	ErrMissingRecordType = errors.New("unit of work: record type is required")

	// ErrMissingTarget indicates an update or delete without a target id.
	ErrMissingTarget = errors.New("unit of work: update/delete requires a target identifier")
)

// ErrBatchCommitted indicates registration or commit on a batch that already
// left the OPEN state. This is lifecycle misuse, not a validation failure.
var ErrBatchCommitted = errors.New("unit of work: batch has already been committed")

// IsValidation reports whether err is a local validation failure that never
// reached the network.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrBatchTooLarge) ||
		errors.Is(err, ErrUnknownReference) ||
		errors.Is(err, ErrMissingRecordType) ||
		errors.Is(err, ErrMissingTarget)
}

// TransportError reports a network-level commit failure. The transaction
// outcome is unknown: the store may or may not have committed, so callers must
// not retry blindly.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unit of work: commit transport failure (outcome unknown): %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// OutcomeUnknown marks the error as indeterminate: the caller must treat the
// batch as failed but cannot assume the store did not commit.
func (e *TransportError) OutcomeUnknown() bool {
	return true
}

// StoreError reports that the store executed the transaction and rejected one
// or more operations. Per-operation detail is preserved so callers can decide
// on compensation.
type StoreError struct {
	// Failed holds the results of the rejected operations, in registration
	// order.
	Failed []OperationResult
}

func (e *StoreError) Error() string {
	var merr *multierror.Error
	for _, res := range e.Failed {
		for _, opErr := range res.Errors {
			merr = multierror.Append(merr, fmt.Errorf("%s: %s: %s", res.Handle, opErr.Code, opErr.Message))
		}
	}
	return fmt.Sprintf("unit of work: store rejected %d operation(s): %v", len(e.Failed), merr)
}

// ProtocolError reports a store response that does not account for every
// registered operation. It is always a defect and is never retried.
type ProtocolError struct {
	Want    int
	Got     int
	Missing []Handle
}

func (e *ProtocolError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("unit of work: store response missing results for %v (want %d, got %d)", e.Missing, e.Want, e.Got)
	}
	return fmt.Sprintf("unit of work: store response accounts for %d of %d operations", e.Got, e.Want)
}

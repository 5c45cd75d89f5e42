// Package spannerstore is the Cloud Spanner driver for the unit-of-work
// committer, used for local development and end-to-end tests against the
// emulator. Unlike the vendor store it cannot resolve references server-side,
// so the driver allocates identifiers client-side and substitutes them before
// buffering the mutations; atomicity comes from the single
// ReadWriteTransaction.
package spannerstore

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/opportunity-quote-service/internal/pkg/unitofwork"
)

// Store satisfies unitofwork.Store against a Spanner database.
type Store struct {
	client *spanner.Client
	schema Schema
}

// New returns a store writing through client with the given record-type
// mapping.
func New(client *spanner.Client, schema Schema) *Store {
	return &Store{client: client, schema: schema}
}

// Execute applies the whole batch in one read-write transaction.
//
// Spanner offers no per-operation verdict: the transaction either commits or
// rolls back as a unit. Determinate failures therefore come back as one
// failed result per operation carrying the transaction's error; transport
// failures with unknown outcome are returned as errors.
func (s *Store) Execute(ctx context.Context, ops []unitofwork.Operation) ([]unitofwork.OperationResult, error) {
	muts, results, err := buildPlan(s.schema, ops, func() string { return uuid.New().String() })
	if err != nil {
		return nil, err
	}

	_, err = s.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		return tx.BufferWrite(muts)
	})
	if err == nil {
		return results, nil
	}

	switch spanner.ErrCode(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return nil, &unitofwork.TransportError{Err: err}
	}

	failed := make([]unitofwork.OperationResult, 0, len(ops))
	for _, op := range ops {
		failed = append(failed, unitofwork.OperationResult{
			Handle: op.Handle(),
			Errors: []unitofwork.OperationError{{
				Code:    spanner.ErrCode(err).String(),
				Message: err.Error(),
			}},
		})
	}
	return failed, nil
}

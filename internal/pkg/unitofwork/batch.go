// Package unitofwork implements a dependency-ordered, single-commit batch of
// record writes against an external store.
//
// Callers register create/update/delete operations in dependency order. A
// create hands back a pending reference (Ref) that later operations may embed
// in place of a not-yet-assigned identifier. Commit sends the whole batch as
// one atomic transaction through a Store driver and correlates every
// operation's outcome back to the handle that registered it.
//
// A batch is not safe for concurrent registration: registration order is
// operation order, which is dependency order. Use one batch per request and
// commit it exactly once.
package unitofwork

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxOperations matches the store's composite transaction ceiling.
const DefaultMaxOperations = 25

// State is the batch lifecycle state.
type State int

const (
	StateOpen State = iota
	StateCommitPending
	StateCommitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCommitPending:
		return "commit-pending"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Store executes a whole batch as one atomic transaction.
//
// Drivers return one OperationResult per operation, in registration order,
// with per-operation failures carried in the results rather than the error.
// The error return is reserved for transport-level failures where the
// transaction outcome is unknown.
type Store interface {
	Execute(ctx context.Context, ops []Operation) ([]OperationResult, error)
}

// Batch is a unit of work: an ordered set of operations that commit together
// or not at all. A batch is single-use; once Commit has been invoked the
// batch accepts no further registrations and cannot be committed again.
type Batch struct {
	state   State
	ops     []Operation
	limit   int
	nextRef int
	refs    map[string]struct{}
}

// NewBatch returns an empty batch bounded by DefaultMaxOperations.
func NewBatch() *Batch {
	return NewBatchWithLimit(DefaultMaxOperations)
}

// NewBatchWithLimit returns an empty batch with an explicit operation ceiling.
func NewBatchWithLimit(limit int) *Batch {
	if limit <= 0 {
		limit = DefaultMaxOperations
	}
	return &Batch{
		limit: limit,
		refs:  make(map[string]struct{}),
	}
}

// State returns the batch lifecycle state.
func (b *Batch) State() State {
	return b.state
}

// Len returns the number of registered operations.
func (b *Batch) Len() int {
	return len(b.ops)
}

// Operations returns the registered operations in registration order.
func (b *Batch) Operations() []Operation {
	out := make([]Operation, len(b.ops))
	copy(out, b.ops)
	return out
}

// RegisterCreate appends a create operation and allocates a pending reference
// for the record it will persist. Later-registered operations may embed the
// reference via Reference(ref).
func (b *Batch) RegisterCreate(recordType string, fields Fields) (Ref, error) {
	if err := b.registrable(recordType); err != nil {
		return Ref{}, err
	}
	if err := b.checkFields(fields); err != nil {
		return Ref{}, err
	}

	b.nextRef++
	ref := Ref{
		token:      fmt.Sprintf("ref%d", b.nextRef),
		recordType: recordType,
		owner:      b,
	}
	b.refs[ref.token] = struct{}{}
	b.ops = append(b.ops, Operation{
		kind:       OpCreate,
		recordType: recordType,
		fields:     copyFields(fields),
		handle:     ref.Handle(),
	})
	return ref, nil
}

// RegisterUpdate appends an update operation. The target is either a literal
// identifier or a pending reference created earlier in this batch.
func (b *Batch) RegisterUpdate(recordType string, target Value, fields Fields) (Handle, error) {
	if err := b.registrable(recordType); err != nil {
		return "", err
	}
	if err := b.checkTarget(target); err != nil {
		return "", err
	}
	if err := b.checkFields(fields); err != nil {
		return "", err
	}

	h := b.opHandle()
	b.ops = append(b.ops, Operation{
		kind:       OpUpdate,
		recordType: recordType,
		target:     target,
		fields:     copyFields(fields),
		handle:     h,
	})
	return h, nil
}

// RegisterDelete appends a delete operation addressing an existing record or
// a pending reference created earlier in this batch.
func (b *Batch) RegisterDelete(recordType string, target Value) (Handle, error) {
	if err := b.registrable(recordType); err != nil {
		return "", err
	}
	if err := b.checkTarget(target); err != nil {
		return "", err
	}

	h := b.opHandle()
	b.ops = append(b.ops, Operation{
		kind:       OpDelete,
		recordType: recordType,
		target:     target,
		handle:     h,
	})
	return h, nil
}

// Commit sends the batch to the store as one atomic transaction and maps every
// operation's outcome back to its handle.
//
// Validation failures (empty or oversize batch) are returned before any
// network call and leave the batch OPEN, so they are safe to retry after
// correction. Once the store has been contacted the batch reaches a terminal
// state and must not be reused. When the store reports per-operation failures
// Commit returns both the full CommitResult and a *StoreError so callers can
// inspect the failed operations and choose compensation.
func (b *Batch) Commit(ctx context.Context, store Store) (*CommitResult, error) {
	if b.state != StateOpen {
		return nil, fmt.Errorf("%w (state %s)", ErrBatchCommitted, b.state)
	}
	if len(b.ops) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(b.ops) > b.limit {
		return nil, fmt.Errorf("%w: %d operations, limit %d", ErrBatchTooLarge, len(b.ops), b.limit)
	}

	b.state = StateCommitPending
	results, err := store.Execute(ctx, b.Operations())
	if err != nil {
		b.state = StateFailed
		var te *TransportError
		var pe *ProtocolError
		if errors.As(err, &te) || errors.As(err, &pe) {
			return nil, err
		}
		// Unclassified driver errors did not produce a structured response;
		// the transaction outcome is unknown.
		return nil, &TransportError{Err: err}
	}

	commit, err := b.correlate(results)
	if err != nil {
		b.state = StateFailed
		return nil, err
	}

	if failed := commit.Failed(); len(failed) > 0 {
		b.state = StateFailed
		return commit, &StoreError{Failed: failed}
	}

	b.state = StateCommitted
	return commit, nil
}

// correlate re-associates store results with the handles that registered them.
// Results arrive in registration order; a driver that tags results with
// handles must agree with that order. Any unaccounted operation is a protocol
// defect, never a silent success.
func (b *Batch) correlate(results []OperationResult) (*CommitResult, error) {
	if len(results) != len(b.ops) {
		return nil, &ProtocolError{Want: len(b.ops), Got: len(results), Missing: b.missingHandles(results)}
	}

	commit := newCommitResult(len(b.ops))
	for i, res := range results {
		want := b.ops[i].handle
		switch res.Handle {
		case "":
			res.Handle = want
		case want:
		default:
			return nil, &ProtocolError{Want: len(b.ops), Got: len(results), Missing: []Handle{want}}
		}
		commit.add(res)
	}
	return commit, nil
}

func (b *Batch) missingHandles(results []OperationResult) []Handle {
	seen := make(map[Handle]struct{}, len(results))
	for _, res := range results {
		seen[res.Handle] = struct{}{}
	}
	var missing []Handle
	for _, op := range b.ops {
		if _, ok := seen[op.handle]; !ok {
			missing = append(missing, op.handle)
		}
	}
	return missing
}

func (b *Batch) registrable(recordType string) error {
	if b.state != StateOpen {
		return fmt.Errorf("%w (state %s)", ErrBatchCommitted, b.state)
	}
	if recordType == "" {
		return ErrMissingRecordType
	}
	return nil
}

func (b *Batch) checkTarget(target Value) error {
	switch target.Kind() {
	case KindString:
		if target.AsString() == "" {
			return ErrMissingTarget
		}
		return nil
	case KindReference:
		return b.checkRef(target.AsRef())
	default:
		return ErrMissingTarget
	}
}

func (b *Batch) checkFields(fields Fields) error {
	for name, v := range fields {
		if !v.IsReference() {
			continue
		}
		if err := b.checkRef(v.AsRef()); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

func (b *Batch) checkRef(ref Ref) error {
	if ref.isZero() || ref.owner != b {
		return ErrUnknownReference
	}
	if _, ok := b.refs[ref.token]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReference, ref.token)
	}
	return nil
}

func (b *Batch) opHandle() Handle {
	return Handle(fmt.Sprintf("op%d", len(b.ops)+1))
}

package unitofwork

import "fmt"

// Handle identifies a registered operation in a batch's commit result. For
// creates it equals the pending reference token; for updates and deletes it is
// an operation-scoped token.
type Handle string

// OperationError is one structured error record the store reported for a
// single operation.
type OperationError struct {
	Code    string
	Message string
	Fields  []string
}

// OperationResult is the outcome of a single operation after commit.
type OperationResult struct {
	Handle  Handle
	Success bool

	// ID is the persisted identifier: the assigned id for creates, the target
	// id for updates and deletes. Empty when the operation failed.
	ID string

	// Errors holds the store's error records when the operation failed.
	Errors []OperationError
}

// CommitResult maps every registered operation's handle to its outcome. After
// a commit returns, the mapping carries exactly one entry per operation.
type CommitResult struct {
	order    []Handle
	byHandle map[Handle]OperationResult
}

func newCommitResult(n int) *CommitResult {
	return &CommitResult{
		order:    make([]Handle, 0, n),
		byHandle: make(map[Handle]OperationResult, n),
	}
}

func (r *CommitResult) add(res OperationResult) {
	r.order = append(r.order, res.Handle)
	r.byHandle[res.Handle] = res
}

// Len returns the number of operation outcomes.
func (r *CommitResult) Len() int {
	return len(r.order)
}

// Get returns the outcome registered under h.
func (r *CommitResult) Get(h Handle) (OperationResult, bool) {
	res, ok := r.byHandle[h]
	return res, ok
}

// ID resolves a pending reference to the identifier the store assigned to its
// record.
func (r *CommitResult) ID(ref Ref) (string, error) {
	res, ok := r.byHandle[ref.Handle()]
	if !ok {
		return "", fmt.Errorf("unit of work: no result for reference %s", ref.Token())
	}
	if !res.Success {
		return "", fmt.Errorf("unit of work: operation %s failed, no identifier assigned", ref.Token())
	}
	return res.ID, nil
}

// Handles returns the handles in registration order.
func (r *CommitResult) Handles() []Handle {
	out := make([]Handle, len(r.order))
	copy(out, r.order)
	return out
}

// Failed returns the failed outcomes in registration order.
func (r *CommitResult) Failed() []OperationResult {
	var out []OperationResult
	for _, h := range r.order {
		if res := r.byHandle[h]; !res.Success {
			out = append(out, res)
		}
	}
	return out
}

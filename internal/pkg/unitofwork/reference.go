package unitofwork

// Ref is a pending reference: a placeholder that stands in for the identifier
// of a record that will be created when its batch commits. A Ref is owned by
// the batch that allocated it and must not be embedded into another batch.
type Ref struct {
	token      string
	recordType string
	owner      *Batch
}

// Token returns the opaque reference token. Tokens are unique within the
// allocating batch and safe to use as the store's cross-reference id.
func (r Ref) Token() string {
	return r.token
}

// RecordType returns the record-type tag the reference stands in for.
func (r Ref) RecordType() string {
	return r.recordType
}

// Handle returns the result handle for the create operation that allocated
// this reference.
func (r Ref) Handle() Handle {
	return Handle(r.token)
}

func (r Ref) isZero() bool {
	return r.token == ""
}

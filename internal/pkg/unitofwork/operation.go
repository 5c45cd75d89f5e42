package unitofwork

// OpKind enumerates the write kinds a batch can carry.
type OpKind int

const (
	OpCreate OpKind = iota + 1
	OpUpdate
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Fields maps record field names to tagged values.
type Fields map[string]Value

// Operation is one pending write registered against a batch. Operations are
// built by repositories and applied only by a store driver, never directly.
type Operation struct {
	kind       OpKind
	recordType string
	target     Value
	fields     Fields
	handle     Handle
}

// Kind returns the operation kind.
func (o Operation) Kind() OpKind {
	return o.kind
}

// RecordType returns the record-type tag the operation writes to.
func (o Operation) RecordType() string {
	return o.recordType
}

// Target returns the identifier an update or delete addresses. It is either a
// literal id (KindString) or a pending reference created earlier in the batch.
func (o Operation) Target() Value {
	return o.target
}

// Fields returns the field map. Callers must treat it as read-only.
func (o Operation) Fields() Fields {
	return o.fields
}

// Handle returns the handle under which this operation's outcome appears in
// the commit result.
func (o Operation) Handle() Handle {
	return o.handle
}

func copyFields(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

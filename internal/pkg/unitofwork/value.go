package unitofwork

import "strconv"

// Kind enumerates the value kinds a record field can carry on the wire.
type Kind int

const (
	// KindString is a plain string value.
	KindString Kind = iota + 1

	// KindDecimal is an exact decimal carried as a string (e.g. "19.99").
	// Drivers serialize it as a bare number so precision survives the wire.
	KindDecimal

	// KindNumber is a floating-point number.
	KindNumber

	// KindBool is a boolean.
	KindBool

	// KindNull is an explicit null (clears the field on update).
	KindNull

	// KindReference is a pending reference to a record created earlier in the
	// same batch. Drivers substitute it with the store's cross-reference
	// syntax (or the resolved identifier) at commit time.
	KindReference
)

// Value is a tagged union of the field value kinds. Keeping the kinds closed
// lets drivers switch exhaustively when serializing, so a reference can never
// slip through as a literal string.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	ref  Ref
}

// String returns a string field value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Decimal returns an exact decimal field value from its string form.
func Decimal(s string) Value {
	return Value{kind: KindDecimal, str: s}
}

// Number returns a numeric field value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean field value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Null returns an explicit null field value.
func Null() Value {
	return Value{kind: KindNull}
}

// Reference embeds a pending reference as a field value. The committer
// substitutes it with the referenced record's identifier at commit time.
func Reference(r Ref) Value {
	return Value{kind: KindReference, ref: r}
}

// Kind returns the value's kind tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsReference reports whether the value embeds a pending reference.
func (v Value) IsReference() bool {
	return v.kind == KindReference
}

// AsString returns the string form for KindString and KindDecimal values.
func (v Value) AsString() string {
	return v.str
}

// AsNumber returns the numeric form for KindNumber values.
func (v Value) AsNumber() float64 {
	return v.num
}

// AsBool returns the boolean form for KindBool values.
func (v Value) AsBool() bool {
	return v.b
}

// AsRef returns the embedded reference for KindReference values.
func (v Value) AsRef() Ref {
	return v.ref
}

// GoString renders the value for diagnostics. Reference values render as
// their token so log lines never look like real identifiers.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindDecimal:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNull:
		return "null"
	case KindReference:
		return "@" + v.ref.token
	}
	return "<invalid>"
}

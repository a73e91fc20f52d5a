package jsontree

// Kind identifies the JSON type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON type name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Field is a single object member.
type Field struct {
	Name  string
	Value Value
}

// Value is a JSON value. The zero Value is null.
//
// Values are treated as immutable: helpers that change an object or array
// return a copy and never modify the receiver's backing slices.
type Value struct {
	kind   Kind
	b      bool
	s      string // string content or number literal
	items  []Value
	fields []Field
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number from its literal text, e.g. "1", "-2.5e3".
// The literal is kept as-is.
func Number(literal string) Value { return Value{kind: KindNumber, s: literal} }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns a JSON array holding items. A nil or empty argument list
// produces an empty array, never null.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Object returns a JSON object with fields in the given order.
func Object(fields ...Field) Value {
	if fields == nil {
		fields = []Field{}
	}
	return Value{kind: KindObject, fields: fields}
}

// Kind reports the value's JSON type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool { return v.kind == KindArray || v.kind == KindObject }

// IsScalar reports whether v is null, a boolean, a number or a string.
func (v Value) IsScalar() bool { return !v.IsContainer() }

// BoolValue returns the boolean content. It is false for non-booleans.
func (v Value) BoolValue() bool { return v.kind == KindBool && v.b }

// Str returns the content of a string or the literal of a number.
func (v Value) Str() string { return v.s }

// Len returns the number of array items or object fields.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.fields)
	default:
		return 0
	}
}

// Items returns the array items. The returned slice must not be modified.
func (v Value) Items() []Value { return v.items }

// Fields returns the object fields in order. The returned slice must not be
// modified.
func (v Value) Fields() []Field { return v.fields }

// Get returns the value of the named field and whether it exists.
func (v Value) Get(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether an object has the named field.
func (v Value) Has(name string) bool {
	_, ok := v.Get(name)
	return ok
}

// With returns a copy of the object with the field appended, or with the
// existing field's value replaced in place. Non-objects are returned as-is.
func (v Value) With(name string, val Value) Value {
	if v.kind != KindObject {
		return v
	}
	fields := make([]Field, len(v.fields), len(v.fields)+1)
	copy(fields, v.fields)
	for i := range fields {
		if fields[i].Name == name {
			fields[i].Value = val
			return Object(fields...)
		}
	}
	return Object(append(fields, Field{Name: name, Value: val})...)
}

// Equal reports whether a and b are structurally identical, including object
// field order and number literals.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber, KindString:
		return a.s == b.s
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Name != b.fields[i].Name || !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

package distill

import (
	"sort"
	"strings"
)

// Primitive type names used in structural keys.
const (
	TypeBool  = "bool"
	TypeStr   = "str"
	TypeInt   = "int"
	TypeFloat = "float"
	TypeNull  = "NoneType"
	// TypeValue replaces every scalar type name when strict typing is off.
	TypeValue = "value"
)

// KeyKind is the variant of a structural key.
type KeyKind uint8

const (
	KeyPrimitive KeyKind = iota
	KeyEmptyList
	KeyList
	KeyDict
)

// KeyField is one (field name, shape) pair of a dict key.
type KeyField struct {
	Name string
	Key  *Key
}

// Key is the value-independent shape of a JSON node. Keys are immutable and
// may be shared between nodes.
//
// The canonical text form is computed once at construction; it is the
// identity of the key, its sort order, and the input to Fingerprint.
type Key struct {
	kind     KeyKind
	typeName string
	elems    []*Key
	fields   []KeyField
	repr     string
}

// PrimitiveKey returns the key of a scalar of the named type.
func PrimitiveKey(typeName string) *Key {
	return &Key{
		kind:     KeyPrimitive,
		typeName: typeName,
		repr:     "('primitive', '" + typeName + "')",
	}
}

var emptyListKey = &Key{kind: KeyEmptyList, repr: "('list', 'empty')"}

// EmptyListKey returns the key shared by all empty arrays.
func EmptyListKey() *Key { return emptyListKey }

// ListKey returns the key of a non-empty array whose elements have the given
// keys. Duplicates are removed and the rest sorted by canonical text, so
// element order and repetition do not affect the result. An empty argument
// yields EmptyListKey.
func ListKey(elems []*Key) *Key {
	if len(elems) == 0 {
		return emptyListKey
	}
	seen := make(map[string]struct{}, len(elems))
	unique := make([]*Key, 0, len(elems))
	for _, e := range elems {
		if _, ok := seen[e.repr]; ok {
			continue
		}
		seen[e.repr] = struct{}{}
		unique = append(unique, e)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].repr < unique[j].repr })

	parts := make([]string, len(unique))
	for i, e := range unique {
		parts[i] = e.repr
	}
	return &Key{kind: KeyList, elems: unique, repr: "('list', " + tupleRepr(parts) + ")"}
}

// DictKey returns the key of an object whose fields, in document order, have
// the given shapes.
func DictKey(fields []KeyField) *Key {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = "('" + f.Name + "', " + f.Key.repr + ")"
	}
	return &Key{kind: KeyDict, fields: fields, repr: "('dict', " + tupleRepr(parts) + ")"}
}

// tupleRepr renders parts as a tuple literal, with the trailing comma a
// one-element tuple requires.
func tupleRepr(parts []string) string {
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Kind returns the key variant.
func (k *Key) Kind() KeyKind { return k.kind }

// TypeName returns the primitive type name, or "" for other variants.
func (k *Key) TypeName() string { return k.typeName }

// Elems returns the sorted unique element keys of a list key.
func (k *Key) Elems() []*Key { return k.elems }

// Fields returns the ordered fields of a dict key.
func (k *Key) Fields() []KeyField { return k.fields }

// Repr returns the canonical text form, e.g. ('dict', (('id', ('primitive', 'int')),)).
func (k *Key) Repr() string { return k.repr }

// String implements fmt.Stringer.
func (k *Key) String() string { return k.repr }

// Equal reports whether two keys describe the same shape.
func (k *Key) Equal(other *Key) bool {
	if k == other {
		return true
	}
	if k == nil || other == nil {
		return false
	}
	return k.repr == other.repr
}

// Compare orders keys by canonical text. It returns -1, 0 or +1.
func (k *Key) Compare(other *Key) int {
	return strings.Compare(k.repr, other.repr)
}

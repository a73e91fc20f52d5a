package jsontree

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/pretty"
)

// indentOptions pretty prints every container over multiple lines with a
// two-space indent, keeping field order.
var indentOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Encode returns the compact JSON encoding of v. HTML characters are not
// escaped.
func Encode(v Value) []byte {
	var buf bytes.Buffer
	enc := newStringEncoder(&buf)
	encodeValue(&buf, enc, v)
	return buf.Bytes()
}

// EncodeIndent returns the JSON encoding of v indented by two spaces and
// terminated by a newline.
func EncodeIndent(v Value) []byte {
	return pretty.PrettyOptions(Encode(v), indentOptions)
}

// String returns the compact JSON encoding of v.
func (v Value) String() string {
	return string(Encode(v))
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return Encode(v), nil
}

// UnmarshalJSON implements json.Unmarshaler without size limits.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data, Limits{})
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func encodeValue(buf *bytes.Buffer, enc *stringEncoder, v Value) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		enc.write(v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeValue(buf, enc, item)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			enc.write(f.Name)
			buf.WriteByte(':')
			encodeValue(buf, enc, f.Value)
		}
		buf.WriteByte('}')
	}
}

// stringEncoder quotes strings through encoding/json with HTML escaping
// disabled, dropping the newline json.Encoder appends.
type stringEncoder struct {
	out     *bytes.Buffer
	scratch bytes.Buffer
	enc     *json.Encoder
}

func newStringEncoder(out *bytes.Buffer) *stringEncoder {
	se := &stringEncoder{out: out}
	se.enc = json.NewEncoder(&se.scratch)
	se.enc.SetEscapeHTML(false)
	return se
}

func (se *stringEncoder) write(s string) {
	se.scratch.Reset()
	// Encoding a string cannot fail.
	_ = se.enc.Encode(s)
	se.out.Write(bytes.TrimSuffix(se.scratch.Bytes(), []byte{'\n'}))
}

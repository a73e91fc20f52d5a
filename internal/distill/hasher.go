package distill

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
)

// Content tags written before every node.
const (
	tagNull byte = iota
	tagBool
	tagNumber
	tagString
	tagArray
	tagObject
)

// contentHash returns a 64-bit hash of v's full content. It is a lookup
// accelerator for the structure cache, not a shape identity: collisions are
// not detected. Object fields are hashed in document order since field order
// is part of a shape.
func contentHash(v jsontree.Value, strict bool) uint64 {
	h := contentHasher{d: xxhash.New()}
	if strict {
		h.writeByte(1)
	} else {
		h.writeByte(0)
	}
	h.value(v)
	return h.d.Sum64()
}

type contentHasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (h *contentHasher) writeByte(b byte) {
	h.buf[0] = b
	_, _ = h.d.Write(h.buf[:1])
}

func (h *contentHasher) writeLen(n int) {
	binary.LittleEndian.PutUint64(h.buf[:], uint64(n))
	_, _ = h.d.Write(h.buf[:])
}

func (h *contentHasher) writeString(s string) {
	h.writeLen(len(s))
	_, _ = h.d.WriteString(s)
}

func (h *contentHasher) value(v jsontree.Value) {
	switch v.Kind() {
	case jsontree.KindNull:
		h.writeByte(tagNull)
	case jsontree.KindBool:
		h.writeByte(tagBool)
		if v.BoolValue() {
			h.writeByte(1)
		} else {
			h.writeByte(0)
		}
	case jsontree.KindNumber:
		h.writeByte(tagNumber)
		h.writeString(v.Str())
	case jsontree.KindString:
		h.writeByte(tagString)
		h.writeString(v.Str())
	case jsontree.KindArray:
		h.writeByte(tagArray)
		h.writeLen(v.Len())
		for _, item := range v.Items() {
			h.value(item)
		}
	case jsontree.KindObject:
		h.writeByte(tagObject)
		h.writeLen(v.Len())
		for _, f := range v.Fields() {
			h.writeString(f.Name)
			h.value(f.Value)
		}
	}
}

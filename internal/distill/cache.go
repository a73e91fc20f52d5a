package distill

import "github.com/fyrsmithlabs/jsondistill/internal/jsontree"

// structureCache memoizes structural keys of container nodes by content
// hash, and fingerprints by key. It lives for a single run.
type structureCache struct {
	keys         map[uint64]*Key
	fingerprints map[*Key]string
	hits         int
	misses       int
}

func newStructureCache() *structureCache {
	return &structureCache{
		keys:         make(map[uint64]*Key),
		fingerprints: make(map[*Key]string),
	}
}

// canonicalizer computes structural keys through a structureCache.
type canonicalizer struct {
	strict bool
	cache  *structureCache
}

func newCanonicalizer(strict bool) *canonicalizer {
	return &canonicalizer{strict: strict, cache: newStructureCache()}
}

// key returns the structural key of v. Scalars are computed directly;
// containers are looked up by content hash first.
func (c *canonicalizer) key(v jsontree.Value) (*Key, error) {
	if v.IsScalar() {
		return c.compute(v)
	}
	h := contentHash(v, c.strict)
	if k, ok := c.cache.keys[h]; ok {
		c.cache.hits++
		return k, nil
	}
	c.cache.misses++
	k, err := c.compute(v)
	if err != nil {
		return nil, err
	}
	c.cache.keys[h] = k
	return k, nil
}

// fingerprint returns the fingerprint of v's structural key.
func (c *canonicalizer) fingerprint(v jsontree.Value) (string, error) {
	k, err := c.key(v)
	if err != nil {
		return "", err
	}
	if fp, ok := c.cache.fingerprints[k]; ok {
		return fp, nil
	}
	fp := Fingerprint(k)
	c.cache.fingerprints[k] = fp
	return fp, nil
}

func (c *canonicalizer) compute(v jsontree.Value) (*Key, error) {
	switch v.Kind() {
	case jsontree.KindObject:
		fields := make([]KeyField, 0, v.Len())
		for _, f := range v.Fields() {
			k, err := c.key(f.Value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, KeyField{Name: f.Name, Key: k})
		}
		return DictKey(fields), nil
	case jsontree.KindArray:
		if v.Len() == 0 {
			return EmptyListKey(), nil
		}
		elems := make([]*Key, 0, v.Len())
		for _, item := range v.Items() {
			k, err := c.key(item)
			if err != nil {
				return nil, err
			}
			elems = append(elems, k)
		}
		return ListKey(elems), nil
	case jsontree.KindNull, jsontree.KindBool, jsontree.KindNumber, jsontree.KindString:
		return c.primitive(v), nil
	default:
		return nil, invalidInput("canonicalize", "unsupported value kind %s", v.Kind())
	}
}

var primitiveKeys = map[string]*Key{
	TypeBool:  PrimitiveKey(TypeBool),
	TypeStr:   PrimitiveKey(TypeStr),
	TypeInt:   PrimitiveKey(TypeInt),
	TypeFloat: PrimitiveKey(TypeFloat),
	TypeNull:  PrimitiveKey(TypeNull),
	TypeValue: PrimitiveKey(TypeValue),
}

func (c *canonicalizer) primitive(v jsontree.Value) *Key {
	if !c.strict {
		return primitiveKeys[TypeValue]
	}
	return primitiveKeys[ScalarTypeName(v)]
}

// ScalarTypeName returns the strict type name of a scalar: bool, str, int,
// float or NoneType. It returns "" for containers.
func ScalarTypeName(v jsontree.Value) string {
	switch v.Kind() {
	case jsontree.KindNull:
		return TypeNull
	case jsontree.KindBool:
		return TypeBool
	case jsontree.KindString:
		return TypeStr
	case jsontree.KindNumber:
		if isFloatLiteral(v.Str()) {
			return TypeFloat
		}
		return TypeInt
	default:
		return ""
	}
}

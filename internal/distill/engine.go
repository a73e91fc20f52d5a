package distill

import (
	"math"
	"strconv"

	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
)

// StructureHashField is added to an inlined object example whose fingerprint
// is also referenced by a summary record in the same list.
const StructureHashField = "_structure_hash"

// Summary record field names.
const (
	ItemCountField         = "item_count"
	SummarizedPatternField = "summarized_pattern"
)

// memoKey identifies a distilled example: its fingerprint and the depth of
// the list it was taken from.
type memoKey struct {
	fingerprint string
	depth       int
}

// engine holds the mutable state of one run. It is not safe for concurrent
// use and is discarded when the run ends.
type engine struct {
	opts      Options
	canon     *canonicalizer
	minDepths map[string]int
	shown     map[string]int
	memo      map[memoKey]jsontree.Value
	shapes    map[string]struct{}
	stats     Stats
}

func newEngine(opts Options) *engine {
	return &engine{
		opts:      opts,
		canon:     newCanonicalizer(opts.StrictTyping),
		minDepths: make(map[string]int),
		shown:     make(map[string]int),
		memo:      make(map[memoKey]jsontree.Value),
		shapes:    make(map[string]struct{}),
	}
}

func (e *engine) run(root jsontree.Value) (jsontree.Value, error) {
	if !e.opts.PositionDependent && root.IsContainer() {
		if err := e.scanDepths(root, 0); err != nil {
			return jsontree.Value{}, err
		}
	}
	out, err := e.distill(root, 0)
	if err != nil {
		return jsontree.Value{}, err
	}
	e.stats.UniqueShapes = len(e.shapes)
	e.stats.CacheHits = e.canon.cache.hits
	e.stats.CacheMisses = e.canon.cache.misses
	return out, nil
}

func (e *engine) distill(v jsontree.Value, depth int) (jsontree.Value, error) {
	switch v.Kind() {
	case jsontree.KindObject:
		fields := make([]jsontree.Field, 0, v.Len())
		for _, f := range v.Fields() {
			d, err := e.distill(f.Value, depth+1)
			if err != nil {
				return jsontree.Value{}, err
			}
			fields = append(fields, jsontree.Field{Name: f.Name, Value: d})
		}
		return jsontree.Object(fields...), nil
	case jsontree.KindArray:
		return e.distillList(v.Items(), depth)
	default:
		return v, nil
	}
}

func (e *engine) distillList(items []jsontree.Value, depth int) (jsontree.Value, error) {
	if len(items) == 0 {
		return jsontree.Array(), nil
	}
	if allScalars(items) {
		e.stats.ScalarLists++
		return distillScalars(items), nil
	}
	e.stats.Lists++

	fps := make([]string, len(items))
	firstIndex := make(map[string]int)
	order := make([]string, 0)
	for i, item := range items {
		fp, err := e.canon.fingerprint(item)
		if err != nil {
			return jsontree.Value{}, err
		}
		fps[i] = fp
		if _, ok := firstIndex[fp]; !ok {
			firstIndex[fp] = i
			order = append(order, fp)
			e.shapes[fp] = struct{}{}
		}
	}

	// Every distinct shape is distilled, shown or not, so nested lists
	// inside it register with the global shown counter in document order.
	examples := make(map[string]jsontree.Value, len(order))
	for _, fp := range order {
		key := memoKey{fingerprint: fp, depth: depth}
		if cached, ok := e.memo[key]; ok {
			e.stats.MemoHits++
			examples[fp] = cached
			continue
		}
		d, err := e.distill(items[firstIndex[fp]], depth+1)
		if err != nil {
			return jsontree.Value{}, err
		}
		e.memo[key] = d
		examples[fp] = d
	}

	var (
		out        = make([]jsontree.Value, 0, len(order)+1)
		pending    []string
		referenced = make(map[string]struct{})
		positions  = make(map[string]int)
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		entries := CompressPattern(pending)
		for _, entry := range entries {
			for _, fp := range entry.Pattern {
				referenced[fp] = struct{}{}
			}
		}
		out = append(out, summaryRecord(len(pending), FormatPattern(entries)))
		e.stats.Summaries++
		e.stats.FoldedItems += len(pending)
		pending = nil
	}

	for i, fp := range fps {
		if !e.shouldShow(fp, i == firstIndex[fp], depth) {
			pending = append(pending, fp)
			continue
		}
		flush()
		example, ok := examples[fp]
		if !ok {
			return jsontree.Value{}, internal("distill", "distilled example missing for fingerprint %s", fp)
		}
		positions[fp] = len(out)
		out = append(out, example)
		e.shown[fp]++
		e.stats.Representatives++
	}
	flush()

	for fp, pos := range positions {
		if _, ok := referenced[fp]; !ok {
			continue
		}
		if example := out[pos]; example.Kind() == jsontree.KindObject && !example.Has(StructureHashField) {
			out[pos] = example.With(StructureHashField, jsontree.String(fp))
		}
	}
	return jsontree.Array(out...), nil
}

// shouldShow decides whether a list position is inlined. Position-dependent
// runs show every first occurrence within a list. Otherwise a shape is shown
// once per document, in the first list at its minimum depth.
func (e *engine) shouldShow(fp string, first bool, depth int) bool {
	if !first {
		return false
	}
	if e.opts.PositionDependent {
		return true
	}
	minDepth, ok := e.minDepths[fp]
	if !ok {
		minDepth = math.MaxInt
	}
	return depth == minDepth && e.shown[fp] < 1
}

func summaryRecord(count int, pattern string) jsontree.Value {
	return jsontree.Object(
		jsontree.Field{Name: ItemCountField, Value: jsontree.Number(strconv.Itoa(count))},
		jsontree.Field{Name: SummarizedPatternField, Value: jsontree.String(pattern)},
	)
}

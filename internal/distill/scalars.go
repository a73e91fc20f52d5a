package distill

import (
	"sort"
	"strings"

	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
)

// scalarRank orders scalar kinds in a mixed list.
var scalarRank = map[jsontree.Kind]int{
	jsontree.KindNumber: 0,
	jsontree.KindString: 1,
	jsontree.KindBool:   2,
}

// distillScalars returns the distinct non-null values of an all-scalar list
// in sorted order, followed by every null of the input.
//
// Numbers compare by literal text, strings lexically, booleans false before
// true. Across kinds, numbers precede strings and strings precede booleans.
func distillScalars(items []jsontree.Value) jsontree.Value {
	type scalarID struct {
		kind jsontree.Kind
		text string
	}

	seen := make(map[scalarID]struct{}, len(items))
	unique := make([]jsontree.Value, 0, len(items))
	nulls := 0
	for _, item := range items {
		if item.IsNull() {
			nulls++
			continue
		}
		id := scalarID{kind: item.Kind(), text: item.Str()}
		if item.Kind() == jsontree.KindBool && item.BoolValue() {
			id.text = "true"
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, item)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return compareScalars(unique[i], unique[j]) < 0
	})
	for ; nulls > 0; nulls-- {
		unique = append(unique, jsontree.Null())
	}
	return jsontree.Array(unique...)
}

func compareScalars(a, b jsontree.Value) int {
	if a.Kind() != b.Kind() {
		return scalarRank[a.Kind()] - scalarRank[b.Kind()]
	}
	switch a.Kind() {
	case jsontree.KindBool:
		switch {
		case a.BoolValue() == b.BoolValue():
			return 0
		case b.BoolValue():
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(a.Str(), b.Str())
	}
}

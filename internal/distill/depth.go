package distill

import "github.com/fyrsmithlabs/jsondistill/internal/jsontree"

// scanDepths records, for every fingerprint of a composite-list element, the
// smallest depth of a list containing it. Object members are one level below
// the object; list elements one level below the list.
func (e *engine) scanDepths(v jsontree.Value, depth int) error {
	switch v.Kind() {
	case jsontree.KindObject:
		for _, f := range v.Fields() {
			if err := e.scanDepths(f.Value, depth+1); err != nil {
				return err
			}
		}
	case jsontree.KindArray:
		if v.Len() == 0 || allScalars(v.Items()) {
			return nil
		}
		for _, item := range v.Items() {
			fp, err := e.canon.fingerprint(item)
			if err != nil {
				return err
			}
			if d, ok := e.minDepths[fp]; !ok || depth < d {
				e.minDepths[fp] = depth
			}
			if err := e.scanDepths(item, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func allScalars(items []jsontree.Value) bool {
	for _, item := range items {
		if item.IsContainer() {
			return false
		}
	}
	return true
}

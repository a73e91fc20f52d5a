// Package distill shrinks a JSON document to a representative skeleton.
//
// Repeated substructures inside lists are replaced by one example of each
// shape plus a summary record describing how the remaining items repeat.
// The output keeps enough information for a reader to see which shapes
// exist and how they are sequenced, at a fraction of the size.
//
// # Shapes
//
// Every JSON node has a structural Key that ignores scalar content:
//   - scalars map to a primitive type name (bool, str, int, float,
//     NoneType), or to the single name "value" when strict typing is off
//   - an empty list has its own key, distinct from every non-empty list
//   - a non-empty list maps to the sorted set of its element shapes
//   - an object maps to its field names and their shapes, in field order
//
// A key's canonical text, e.g. ('dict', (('id', ('primitive', 'int')),)),
// is digested with MD5 and the first four bytes become an 8-character
// fingerprint. Fingerprints are stable across runs and processes.
//
// # Lists
//
// Lists of scalars are reduced to their sorted distinct values with nulls
// last. Lists of containers are grouped by fingerprint: the first element
// of each shape is distilled recursively and may be shown inline; other
// positions are folded into summary records:
//
//	{"item_count": 7, "summarized_pattern": "a1b2c3d4(x3) [e5f6a7b8 a1b2c3d4](x2)"}
//
// With Options.PositionDependent the first element of each shape is shown
// in every list. Without it a shape is shown once per document, in the first
// list at the shallowest depth where it occurs.
//
// # Usage
//
//	doc, err := jsontree.Parse(data, jsontree.DefaultLimits())
//	if err != nil {
//	    return err
//	}
//	out, err := distill.Distill(doc, distill.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(jsontree.EncodeIndent(out))
//
// Service wraps Distill with parsing limits, secret scrubbing, tracing,
// metrics and logging for the CLI, HTTP and MCP front ends.
//
// # Concurrency
//
// A run owns all of its caches and is single-threaded. Separate calls to
// Distill share nothing and may run concurrently.
package distill

// Package jsontree provides an ordered, immutable JSON value tree.
//
// encoding/json decodes objects into maps and loses field order, which the
// distiller treats as part of an object's shape. jsontree keeps fields in
// document order and numbers as their literal text so that a parse and
// re-encode of a document does not reorder or reformat anything.
//
// Parsing is backed by github.com/tidwall/gjson and pretty printing by
// github.com/tidwall/pretty.
package jsontree

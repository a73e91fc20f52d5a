// Package secrets redacts credentials from JSON documents before they are
// distilled.
//
// Two mechanisms apply to every string leaf of a jsontree.Value. Regex rules
// match self-identifying tokens (cloud keys, VCS tokens, JWTs, private key
// headers) anywhere in a string. Sensitive field names (password, token,
// api_key, ...) cause the whole string value under that field to be
// replaced. Reports name the JSON path and rule of each finding, never the
// matched text.
//
// Scrubbing replaces strings with strings, so a document's shape and every
// fingerprint derived from it are unchanged.
package secrets

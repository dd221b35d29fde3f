// Package match ranks known names by similarity to a name that failed to
// resolve, so lookup misses can say "did you mean ...".
//
// Names are compared both as written and after normalization: the package
// path is dropped, '$' and '.' separators are removed and everything is
// lowercased. The better of the two scores counts.
//
// Key functions:
//   - NormalizeName: normalizes a JVM class or member name for fuzzy matching
//   - Similarity: scores two names between 0 and 1
//   - Suggest: ranks a pool of names against a query
package match

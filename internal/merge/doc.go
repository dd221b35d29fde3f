// Package merge combines two mapping sets into one under a caller supplied
// conflict policy.
//
// # Shapes of a merge
//
// The right set is keyed either by the same namespace as the left set
// (left a -> b, right a -> c; a "shared" merge) or by the left set's target
// namespace (left a -> b, right b -> c; a "chained" merge). The shape follows
// from the namespace names: equal from-namespaces make a shared merge, a
// right from-namespace equal to the left to-namespace makes a chained one.
// The result is keyed by the left from-namespace in both cases.
//
// # Matching
//
// For every left node the engine looks for two right nodes:
//
//   - the duplicate, keyed by the same from-name (and signature)
//   - the continuation, keyed by the left node's to-name; member
//     descriptors are mapped through the left set first
//
// Fields additionally match loosely by name when one side has no type. The
// policy sees both candidates and decides what ends up in the result and
// which right nodes the children of the result continue into. Right nodes
// that were never matched are offered to the policy afterwards.
//
// Descriptors of right nodes keyed by the left to-namespace are mapped back
// into the result's from-namespace before the policy sees them.
//
// # Traversal
//
// Top-level classes are visited in from-name order, left first, then the
// right-only ones. Within a class: fields, then methods with their
// parameters, then inner classes, recursively. The order is fixed, so the
// same inputs and policy always produce the same result.
//
// # Failure
//
// A policy fails by returning an error, usually a *ConflictError. The first
// error aborts the merge and no partial result is returned.
package merge

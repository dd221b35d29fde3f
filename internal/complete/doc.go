// Package complete fills in and cleans up a mapping set against a class
// hierarchy.
//
// A Chain is an ordered list of links, each holding one or more
// Contributors. Every link is one pass over the classes: the program classes
// of the hierarchy plus every mapped class the hierarchy does not know. For
// each class the link's contributors look at the hierarchy data and the
// current mappings and submit Changes. Nothing is applied while a pass
// runs; once every class is done the collected changes are applied in a
// fixed order, and the next link starts on the updated set.
//
// Classes of one pass are processed in parallel. Contributors only read
// the set and the hierarchy, and submit through ClassContext.Submit.
//
// # Collisions
//
// Two changes for the same target are folded before they are applied:
//
//   - identical changes collapse into one
//   - changes implementing Mergeable are merged, in the order of the
//     classes that submitted them
//   - anything else fails the pass with a *ChangeConflictError
//
// # Contributors
//
//	RemoveUnused                      drop members the hierarchy does not declare
//	RemoveLambdas                     drop methods renamed to lambda$...
//	PropagateUp                       copy renames onto overridden methods
//	CopyDown                          copy renames onto overriding methods, bridges
//	                                  and pass-through constructor parameters
//	ParamIndexesForSource             LVT slots to source parameter positions
//	CaseOnlyNameChanges               record Foo -> foo style class renames
//	AnonymousClassRenames             undo renames between anonymous classes
//	PropagateOuterClassMappings       give unmapped inner classes an identity entry
//	RemoveRecompiledSyntheticMembers  drop synthetic members of recompiled classes
package complete

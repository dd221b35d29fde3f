// Package mapping provides the in-memory model of a name mapping set.
//
// A Set translates identifiers from one namespace into another (for example
// "obf" -> "named") at four levels of granularity:
//
//   - classes, top-level and inner, keyed by their from-name
//   - fields, keyed by (name, type); the type may be empty when the source
//     format does not carry it
//   - methods, keyed by (name, descriptor)
//   - method parameters, keyed by local variable table index
//
// # Storage
//
// Class mappings live in a flat arena owned by the Set and are addressed by
// ClassID. A class refers to its parent by id only; children are indexed by
// from-name. No class mapping holds a pointer back to its Set or its parent,
// so a Set is an acyclic value that can be copied and reversed freely.
//
// # Explicit and implicit classes
//
// Looking up "a$b$c" with GetOrCreateClass creates the missing outer classes
// "a" and "a$b" as identity mappings. Such classes are implicit: writers skip
// them unless they carry members, so reading and writing a file does not
// invent class lines that were never there.
//
// # Reversal
//
// Reverse swaps from and to at every level. Field types and method
// descriptors are written in the from-namespace, so reversing re-expresses
// them through the set's own class mappings. Every class name in a
// descriptor is substituted exactly once; return types are no exception.
//
// # Concurrency
//
// A Set is not safe for concurrent mutation. Concurrent reads are safe as
// long as no goroutine mutates the Set at the same time.
package mapping

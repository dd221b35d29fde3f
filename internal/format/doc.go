// Package format reads and writes mapping sets in their textual formats.
//
// Three formats are supported:
//
//   - Tiny v2, a tab separated two-namespace format with a header naming both
//     namespaces. Readable and writable.
//   - CSRG, a whitespace separated flat rename list without a header. The
//     namespace pair is supplied by the caller. Readable and writable.
//   - Proguard, the one-directional "named -> obf" list. Read-only. A set read
//     from it maps named names to obfuscated ones and must be reversed before
//     it is merged with anything keyed by obfuscated names.
//
// Comments (a '#' and everything after it, plus the whitespace before it)
// are stripped from every line before parsing and are never written back.
//
// Writers are canonical: classes are sorted by full from-name and members by
// from-name then signature, so writing the same set twice yields identical
// bytes. Implicit classes without members are skipped.
//
// Every malformed line produces a *FormatError carrying the file name, the
// 1-based line number and the offending text.
package format

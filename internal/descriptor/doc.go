// Package descriptor models JVM field and method descriptors.
//
// Descriptors appear in every mapping format: field types ("I", "[J",
// "Lnet/minecraft/A;") and method descriptors ("(IJLjava/lang/String;)V").
// The package parses them into Type and Method values, reports local
// variable slot widths (long and double take two slots), and rewrites the
// class names they reference through a caller-supplied name mapper.
package descriptor

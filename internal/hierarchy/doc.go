// Package hierarchy supplies the class structure that mapping completion
// runs against.
//
// A Provider answers two questions: what does class X look like (its
// superclass, interfaces, declared members and their access flags), and
// which classes belong to the program being mapped. Graph is the in-memory
// Provider; it is filled from YAML class dumps found with doublestar globs.
// Every class in a Graph belongs to one of three roots:
//
//   - RootProgram: the classes being mapped
//   - RootLibrary: their dependencies
//   - RootPlatform: the platform library; java/lang/Object is always present
//
// # Class dump format
//
//	classes:
//	  - name: a/Child
//	    super: a/Base
//	    interfaces: [a/Tickable]
//	    access: [public]
//	    methods:
//	      - name: a
//	        desc: ()V
//	        access: [public]
//	      - name: <init>
//	        desc: (I)V
//	        superCall:
//	          desc: (I)V
//	          args: {1: 1}
//
// Access flags are written as lists of lowercase modifier names. A method
// may carry a bridgeTarget (the method a bridge forwards to) and a
// constructor may carry a superCall; both are inferred when absent.
//
// # Hydration
//
// Hydrate walks every program class once and produces a View. The View
// answers the questions completion needs beyond raw structure: which method
// a bridge forwards to, which superclass constructor a constructor calls and
// how its arguments pass through, the transitive supertypes of a class and
// which supertype methods a method overrides. Hydrate also rejects
// inheritance cycles.
//
// Missing classes surface as *LookupMissError. With RequireFullClasspath a
// missing supertype is fatal; without it the missing branch is skipped.
//
// Graph and View are safe for concurrent reads once loading has finished.
package hierarchy

// Package tangle builds a tree of named text chunks from a literate source
// document and expands its roots into flat output files.
//
// # Document syntax
//
// Chunks are enclosed between a line beginning with two backticks and a line
// holding only two backticks. Everything outside a chunk is prose.
//
//	Some prose describing the program.
//
//	``//hello.go:
//	package main
//
//	``imports``
//
//	func main() {
//		``body``
//	}
//	``
//
//	``imports:
//	import "fmt"
//	``
//
//	``body:
//	fmt.Println("hello")
//	``
//
// The opener may carry a path. A path ending in ':' declares the chunk it
// names; a path without it appends to a chunk that is already declared. An
// opener without a path appends to the chunk last written.
//
// Inside a chunk body, a token enclosed in double backticks is a reference.
// The reference line is replaced, during assembly, by the expansion of the
// named child chunk, indented by the reference line's own indentation.
//
// # Paths
//
//	//file[: alias]   switch to root file, registering alias
//	/                 return to the current root
//	.                 stay
//	..                move to the parent
//	name              move to child name, creating it if absent
//	*name             search the subtree for exactly one node name
//	a/b/c             segments applied in order
//
// Once declared, an alias may begin a relative path in place of "//file".
//
// # Ghost chunks
//
// The reference token "." opens a ghost chunk: an anonymous slot filled by
// the next chunk whose path is empty. Ghosts let text be inserted in the
// middle of a chunk rather than at its end. When navigation leaves a ghost,
// its named children move to the ghost's parent.
//
// # Line map
//
// Every assembled line records the document line it came from, so a line of
// a generated file can be traced back with [LineMap.Lookup].
package tangle

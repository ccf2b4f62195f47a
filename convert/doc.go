// Package convert rewrites literate documents between ct, org-mode and
// noweb notation.
//
// Conversions are plain line filters. In org-mode, a named source block
//
//	#+begin_src go <<//main.go:>>=
//	  package main
//	#+end_src
//
// becomes the ct chunk
//
//	``//main.go: #go
//	package main
//	``
//
// Unnamed org source blocks are treated as documentation and lose their
// begin and end lines. Org-mode's two-space block indentation is removed on
// the way in and restored on the way out. References are rewritten between
// <<name>> and ``name``. Noweb is an output-only format.
package convert

// Package profile starts optional runtime profiling with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o ct .
//	ct --pprof-mode cpu tangle book.ct
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper]. Profiles are written to [Profiler.Path] with names matching the
// mode, such as cpu.pprof or mem.pprof, and can be inspected with
// "go tool pprof".
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

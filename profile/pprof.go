//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"
)

// Modes returns the supported profiling modes in sorted order.
var Modes = sync.OnceValue(
	func() []string { return slices.Sorted(maps.Keys(mode)) },
)

var mode = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

type option func([]func(*profile.Profile)) []func(*profile.Profile)

func withMode(m string) option {
	return func(o []func(*profile.Profile)) []func(*profile.Profile) {
		if fn, ok := mode[m]; ok {
			o = append(o, fn)
		}

		return o
	}
}

func withPath(p string) option {
	return func(o []func(*profile.Profile)) []func(*profile.Profile) {
		if p != "" {
			o = append(o, profile.ProfilePath(p))
		}

		return o
	}
}

func withQuiet(q bool) option {
	return func(o []func(*profile.Profile)) []func(*profile.Profile) {
		if q {
			o = append(o, profile.Quiet)
		}

		return o
	}
}

func start(p Profiler) Stopper {
	opts := withMode(p.Mode)(nil)
	if len(opts) == 0 {
		return ignore{}
	}

	for _, opt := range []option{withPath(p.Path), withQuiet(p.Quiet)} {
		opts = opt(opts)
	}

	return profile.Start(opts...)
}

package profile

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the output directory. Empty means the current directory.
	Path string
	// Quiet suppresses the messages printed by the profiler.
	Quiet bool
}

// Start begins profiling and returns the means of stopping it.
//
// Both Start and the returned Stop are always safe to call, whether or not
// the binary was built with the pprof tag.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}

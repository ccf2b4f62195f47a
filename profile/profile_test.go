//go:build !pprof

package profile

import "testing"

func TestProfiler_Start_Disabled(t *testing.T) {
	tests := []struct {
		name string
		p    Profiler
	}{
		{"empty", Profiler{}},
		{"cpu", Profiler{Mode: "cpu", Path: t.TempDir(), Quiet: true}},
		{"unknown", Profiler{Mode: "bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.p.Start()
			if _, ok := s.(ignore); !ok {
				t.Errorf("expected no-op stopper, got %T", s)
			}

			s.Stop()
		})
	}

	if len(Modes()) != 0 {
		t.Errorf("expected no modes without the %s tag, got %v", Tag, Modes())
	}
}

package cli

import (
	"os"
	"testing"

	"github.com/ardnew/ct/log"
)

func TestScan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantPretty bool
		wantCaller bool
	}{
		{"separate values", []string{"--log-level", "debug", "--log-format", "json"}, "debug", "json", false, false},
		{"assigned values", []string{"--log-level=info", "x.ct"}, "info", "", false, false},
		{"booleans", []string{"--log-pretty", "--log-caller"}, "", "", true, true},
		{"negated", []string{"--log-pretty", "--no-log-pretty"}, "", "", false, false},
		{"explicit bool", []string{"--log-caller=true", "--log-pretty=false"}, "", "", false, true},
		{"end of flags", []string{"--", "--log-level=debug"}, "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f logConfig

			f.scan(tt.args)

			if f.Level != tt.wantLevel || f.Format != tt.wantFormat ||
				f.Pretty != tt.wantPretty || f.Caller != tt.wantCaller {
				t.Errorf("scan(%q) = %+v", tt.args, f)
			}
		})
	}
}

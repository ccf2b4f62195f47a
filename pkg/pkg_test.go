package pkg

import (
	"regexp"
	"testing"
)

func TestVersion(t *testing.T) {
	semver := regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	if !semver.MatchString(Version()) {
		t.Errorf("Version() = %q, want semantic version", Version())
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := EnvPrefix(); got != "CT_" {
		t.Errorf("EnvPrefix() = %q, want %q", got, "CT_")
	}
}

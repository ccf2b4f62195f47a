package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfig_ReplacesDefault(t *testing.T) {
	saved := Default()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = saved
		defaultMu.Unlock()
	})

	var buf bytes.Buffer

	logger := Config(WithOutput(&buf), WithLevel(LevelInfo), WithPretty(false))

	if Default().Level() != LevelInfo || logger.Level() != LevelInfo {
		t.Fatalf("expected default level info, got %v", Default().Level())
	}

	Info("from package")
	Debug("hidden")

	out := buf.String()

	if !strings.Contains(out, "from package") {
		t.Errorf("expected package-level message in %q", out)
	}

	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
}

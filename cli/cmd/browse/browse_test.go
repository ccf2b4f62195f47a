package browse

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/ct/log"
	"github.com/ardnew/ct/tangle"
)

const sample = "``//a.go: A\n" +
	"``alpha``\n" +
	"``beta``\n" +
	"``\n" +
	"``alpha:\n" +
	"``gamma``\n" +
	"``\n" +
	"``../beta:\n" +
	"b\n" +
	"``\n" +
	"``/alpha/gamma:\n" +
	"g\n" +
	"``\n"

func testModel(t *testing.T) model {
	t.Helper()

	ctx := context.Background()

	doc, err := tangle.ParseString(ctx, sample)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	res, err := doc.Tangle(ctx)
	if err != nil {
		t.Fatalf("Tangle() error: %v", err)
	}

	return newModel(ctx, doc, res, NewHistory(""), log.Make(io.Discard))
}

func TestNewModelStartsAtFirstRoot(t *testing.T) {
	m := testModel(t)

	if got := m.where(); got != "//a.go" {
		t.Errorf("where() = %q, want %q", got, "//a.go")
	}
}

func TestExecutePath(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("alpha/gamma")
	m, _ = m.executeInput()

	if got := m.where(); got != "//a.go/alpha/gamma" {
		t.Fatalf("where() = %q, want %q", got, "//a.go/alpha/gamma")
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	want := []Entry{{Line: "alpha/gamma", Mode: modePath}}
	if diff := cmp.Diff(want, m.history.Entries()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	out := m.show(m.cur)
	if !strings.Contains(out, "//a.go/alpha/gamma") || !strings.Contains(out, "12 g") {
		t.Errorf("show() = %q", out)
	}

	m.input.SetValue("../../nothing")
	m, _ = m.executeInput()

	if got := m.where(); got != "//a.go/alpha/gamma" {
		t.Errorf("failed path moved cursor to %q", got)
	}
}

func TestExecuteCommand(t *testing.T) {
	m := testModel(t)

	list := m.list()
	for _, name := range []string{"alpha", "beta"} {
		if !strings.Contains(list, name) {
			t.Errorf("list() = %q, missing %q", list, name)
		}
	}

	roots := m.roots()
	if !strings.Contains(roots, "//a.go") || !strings.Contains(roots, "A") {
		t.Errorf("roots() = %q", roots)
	}

	m.mode = modeCtrl
	m.input.SetValue("quit")
	m, _ = m.executeInput()

	if !m.quitting {
		t.Error("quit did not stop the session")
	}
}

func TestLookup(t *testing.T) {
	m := testModel(t)

	out, owner, err := m.lookup("a.go:1")
	if err != nil {
		t.Fatalf("lookup() error: %v", err)
	}

	if got := m.doc.Path(owner); got != "//a.go/alpha/gamma" {
		t.Errorf("owner = %q, want %q", got, "//a.go/alpha/gamma")
	}

	if !strings.Contains(out, "12 g") {
		t.Errorf("lookup() = %q", out)
	}

	for _, loc := range []string{"a.go", "a.go:x", ":3", "b.go:1", "a.go:9"} {
		if _, _, err := m.lookup(loc); err == nil {
			t.Errorf("lookup(%q) expected error", loc)
		}
	}

	m.mode = modeCtrl
	m.input.SetValue("lookup a.go:2")
	m, _ = m.executeInput()

	if got := m.where(); got != "//a.go/beta" {
		t.Errorf("lookup moved cursor to %q, want %q", got, "//a.go/beta")
	}
}

func TestSwitchToModeKeepsText(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("alp")
	m = m.switchToMode(modeCtrl)

	if m.input.Value() != "" {
		t.Errorf("ctrl input = %q, want empty", m.input.Value())
	}

	m.input.SetValue("ls")
	m = m.switchToMode(modePath)

	if m.input.Value() != "alp" {
		t.Errorf("path input = %q, want %q", m.input.Value(), "alp")
	}
}

func TestCycle(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("alpha/")
	m.input.CursorEnd()
	refreshMatches(&m, false)

	// A single candidate is accepted at once.
	m = m.cycle(1)

	if got := m.input.Value(); got != "alpha/gamma" {
		t.Errorf("input = %q, want %q", got, "alpha/gamma")
	}

	m.input.SetValue("//")
	m.input.CursorEnd()
	refreshMatches(&m, false)

	m = m.cycle(1)
	if !m.tabActive || m.input.Value() != "//a.go" {
		t.Errorf("first cycle: active=%v input=%q", m.tabActive, m.input.Value())
	}

	m = m.cycle(1)
	if m.input.Value() != "//A" {
		t.Errorf("second cycle: input=%q", m.input.Value())
	}
}

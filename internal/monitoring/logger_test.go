package monitoring

import (
	"fmt"
	"testing"
)

// capture installs a recording logger and restores the previous one when the
// test ends.
func capture(t *testing.T) *[]string {
	t.Helper()
	original := Logf
	t.Cleanup(func() { Logf = original; SetVerbose(false) })

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	return &lines
}

func TestSetLogger(t *testing.T) {
	lines := capture(t)

	Logf("loaded %d vertices", 4)
	if len(*lines) != 1 || (*lines)[0] != "loaded 4 vertices" {
		t.Fatalf("unexpected log lines: %q", *lines)
	}

	SetLogger(nil)
	Logf("dropped")
	if len(*lines) != 1 {
		t.Errorf("no-op logger forwarded a line: %q", *lines)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}

func TestDebugf(t *testing.T) {
	lines := capture(t)

	Debugf("hidden")
	if len(*lines) != 0 {
		t.Fatalf("Debugf logged while quiet: %q", *lines)
	}

	SetVerbose(true)
	if !Verbose() {
		t.Fatal("Verbose() = false after SetVerbose(true)")
	}
	Debugf("segment %d", 2)
	if len(*lines) != 1 || (*lines)[0] != "segment 2" {
		t.Errorf("unexpected log lines: %q", *lines)
	}
}

func TestNewPrefixLogger(t *testing.T) {
	logf := NewPrefixLogger("pathstore")
	lines := capture(t)

	logf("inserted %s", "loop")
	if len(*lines) != 1 || (*lines)[0] != "[pathstore] inserted loop" {
		t.Errorf("unexpected log lines: %q", *lines)
	}
}

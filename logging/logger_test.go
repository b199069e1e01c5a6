package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func withBroker(t *testing.T) *bytes.Buffer {
	buf := &bytes.Buffer{}
	old := defaultBroker
	defaultBroker = newBroker(buf)
	clock := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	defaultBroker.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	t.Cleanup(func() { defaultBroker = old })
	return buf
}

func TestLoggerComponentAndLevel(t *testing.T) {
	buf := withBroker(t)
	log := NewLogger("reader")

	log.Printf("opened %s", "foo.osm")
	log.Warnf("skipping %d", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", buf.String())
	}
	if !strings.HasSuffix(lines[0], "[reader] opened foo.osm") {
		t.Error("unexpected info line", lines[0])
	}
	if !strings.HasSuffix(lines[1], "[warn] [reader] skipping 3") {
		t.Error("unexpected warn line", lines[1])
	}
}

func TestSteps(t *testing.T) {
	buf := withBroker(t)
	log := NewLogger("")

	step := log.StartStep("Converting")
	log.StopStep(step)

	out := buf.String()
	if !strings.Contains(out, "[step] Starting: Converting") {
		t.Error("missing step start", out)
	}
	if !strings.Contains(out, "[step] Finished: Converting in 2s") {
		t.Error("missing step duration", out)
	}
}

func TestProgressQuiet(t *testing.T) {
	buf := withBroker(t)

	Progress("Elements: 1")
	if !strings.Contains(buf.String(), "Elements: 1\r") {
		t.Error("progress not printed", buf.String())
	}

	buf.Reset()
	SetQuiet(true)
	Progress("Elements: 2")
	if buf.Len() != 0 {
		t.Error("progress printed in quiet mode", buf.String())
	}
}

func TestRecordRepeatsProgress(t *testing.T) {
	buf := withBroker(t)
	log := NewLogger("")

	Progress("Elements: 1")
	log.Print("hello")
	out := buf.String()

	if !strings.Contains(out, CLEARLINE) {
		t.Error("progress line not cleared", out)
	}
	if strings.Count(out, "Elements: 1\r") != 2 {
		t.Error("progress not repeated after record", out)
	}

	buf.Reset()
	Shutdown()
	if buf.String() != "\n" {
		t.Errorf("shutdown did not terminate progress line: %q", buf.String())
	}
}

package debug

import (
	"strings"
	"testing"
)

func TestTextHiddenByDefault(t *testing.T) {
	d := New()
	if got := d.Text(); len(got) != 0 {
		t.Fatalf("Text() = %v, want nothing", got)
	}
}

func TestTextOrderAndRefresh(t *testing.T) {
	d := New()
	fps := int32(59)
	d.fps = func() int32 { return fps }
	d.SetShowFPS(true)
	d.SetShowMemAlloc(true)
	d.SetShowStats(true)
	d.SetStats(Stats{Bodies: 3, Objects: 2, Sounds: 7, SimTime: 1.25})

	got := d.Text()
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(got), got)
	}
	if got[0] != "FPS: 59" || !strings.HasPrefix(got[1], "Mem: ") {
		t.Errorf("lines = %v", got)
	}
	if got[2] != "Bodies: 3  Objects: 2  Sounds: 7  t=1.2s" && got[2] != "Bodies: 3  Objects: 2  Sounds: 7  t=1.3s" {
		t.Errorf("stats line = %q", got[2])
	}

	// Cached until the next refresh frame.
	fps = 30
	d.SetStats(Stats{Bodies: 4})
	if got := d.Text(); got[0] != "FPS: 59" {
		t.Errorf("FPS refreshed early: %q", got[0])
	}
	for i := 3; i < updateInterval; i++ {
		d.Text()
	}
	got = d.Text()
	if got[0] != "FPS: 30" || !strings.HasPrefix(got[2], "Bodies: 4 ") {
		t.Errorf("after refresh: %v", got)
	}
}

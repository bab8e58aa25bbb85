package graphics

import "testing"

func TestFramePacerReportsSkippedFrames(t *testing.T) {
	var p framePacer
	if p.next() {
		t.Fatal("first frame reported as missed")
	}
	p.markDrawn()
	if p.next() {
		t.Fatal("drawn frame reported as missed")
	}
	// Physics failed: nothing drawn for this frame.
	if !p.next() {
		t.Fatal("undrawn frame not reported")
	}
	if !p.next() {
		t.Fatal("second undrawn frame in a row not reported")
	}
	p.markDrawn()
	if p.next() {
		t.Fatal("recovered frame reported as missed")
	}
}

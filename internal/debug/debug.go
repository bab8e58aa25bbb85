package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh overlay text every N frames to reduce allocations.
	updateInterval = 30
)

// Stats is the simulation summary shown by the stats overlay.
type Stats struct {
	Bodies  int
	Objects int
	Sounds  int // collision sounds played
	SimTime float32
}

// Debug holds runtime debugging overlays (FPS, heap, simulation stats). All are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	font         rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount   uint32
	stats        Stats
	lastFpsText  string
	lastMemText  string
	lastStatText string
	lastMemStats runtime.MemStats
	fps          func() int32
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{fps: rl.GetFPS}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetShowStats sets whether body count and simulated time are drawn.
func (d *Debug) SetShowStats(show bool) {
	d.ShowStats = show
}

// SetFont sets the font used to draw the overlays. Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// SetStats records the numbers for the stats overlay. Call once per frame.
func (d *Debug) SetStats(s Stats) {
	d.stats = s
}

// Text advances the frame counter and returns the enabled overlay lines, top to bottom.
// Text is only recomputed every updateInterval frames.
func (d *Debug) Text() []string {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	var out []string
	if d.ShowFPS {
		if update || d.lastFpsText == "" {
			d.lastFpsText = fmt.Sprintf("FPS: %d", d.fps())
		}
		out = append(out, d.lastFpsText)
	}
	if d.ShowMemAlloc {
		if update || d.lastMemText == "" {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		out = append(out, d.lastMemText)
	}
	if d.ShowStats {
		if update || d.lastStatText == "" {
			d.lastStatText = fmt.Sprintf("Bodies: %d  Objects: %d  Sounds: %d  t=%.1fs",
				d.stats.Bodies, d.stats.Objects, d.stats.Sounds, d.stats.SimTime)
		}
		out = append(out, d.lastStatText)
	}
	return out
}

// Draw renders the enabled overlays right-aligned at the top of the screen. Call after the
// 3D pass and the terminal.
func (d *Debug) Draw() {
	screenW := float32(rl.GetScreenWidth())
	y := float32(fpsPadding)
	for _, text := range d.Text() {
		if d.font.Texture.ID != 0 {
			sz := float32(fpsFontSize)
			pos := rl.NewVector2(screenW-rl.MeasureTextEx(d.font, text, sz, 1).X-fpsPadding, y)
			rl.DrawTextEx(d.font, text, pos, sz, 1, rl.Green)
		} else {
			w := rl.MeasureText(text, fpsFontSize)
			rl.DrawText(text, int32(screenW)-w-fpsPadding, int32(y), fpsFontSize, rl.Green)
		}
		y += fpsLineHeight
	}
}

// Package audio plays the collision sound through the system speaker.
package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"physics-playground/internal/assets"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const (
	sampleRate = beep.SampleRate(44100)
	// maxVoices caps overlapping hits so a pile of boxes does not clip.
	maxVoices = 8
	// fullVolumeSpeed is the impact speed that plays the clip at the base volume.
	fullVolumeSpeed = 8.0
	// quietest is the volume (log2 units) of the softest hit above the threshold.
	quietest = -3.0
)

var clipFormat = beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}

// Player plays one clip per Play call, louder for faster impacts. Until Init succeeds every
// Play is a no-op, so headless runs and machines without audio keep working.
type Player struct {
	mu          sync.Mutex
	clip        *beep.Buffer
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	played      int
}

// NewPlayer returns a player with the synthesized knock as its clip. volume is in log2 units
// (0 = unchanged, -1 = half).
func NewPlayer(volume float64) *Player {
	buf := beep.NewBuffer(clipFormat)
	buf.Append(NewKnock(sampleRate))
	return &Player{clip: buf, mixer: &beep.Mixer{}, volume: volume}
}

// LoadClip replaces the knock with a WAV file. On failure the knock stays and the error is
// an *assets.ResourceLoadError.
func (p *Player) LoadClip(path string) error {
	found, err := assets.Find("audio", path)
	if err != nil {
		return err
	}
	f, err := os.Open(found)
	if err != nil {
		return &assets.ResourceLoadError{Kind: "audio", Path: found, Err: err}
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return &assets.ResourceLoadError{Kind: "audio", Path: found, Err: err}
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		s = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	buf := beep.NewBuffer(clipFormat)
	buf.Append(s)
	if buf.Len() == 0 {
		return &assets.ResourceLoadError{Kind: "audio", Path: found, Err: fmt.Errorf("clip is empty")}
	}

	p.mu.Lock()
	p.clip = buf
	p.mu.Unlock()
	return nil
}

// ClipLen returns the clip length in samples.
func (p *Player) ClipLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clip.Len()
}

// Init opens the speaker and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*50)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play starts the clip with a volume scaled by impactSpeed.
func (p *Player) Play(impactSpeed float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	voice := &effects.Volume{
		Streamer: p.clip.Streamer(0, p.clip.Len()),
		Base:     2,
		Volume:   p.volume + volumeFor(impactSpeed),
	}
	speaker.Lock()
	if p.mixer.Len() < maxVoices {
		p.mixer.Add(voice)
		p.played++
	}
	speaker.Unlock()
}

// Played returns how many hits were sent to the speaker.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Close silences the mixer.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// volumeFor maps impact speed onto a log2 volume offset in [quietest, 0].
func volumeFor(speed float32) float64 {
	if speed <= 0 || math.IsNaN(float64(speed)) {
		return quietest
	}
	ratio := math.Min(float64(speed)/fullVolumeSpeed, 1)
	return math.Max(math.Log2(ratio), quietest)
}

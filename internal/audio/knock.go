package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

const (
	knockFreq     = 170.0
	knockDuration = 120 * time.Millisecond
	knockDecay    = 38.0 // per second
)

// knock is a short decaying sine with a pitch drop, used when no hit clip is available.
type knock struct {
	rate     beep.SampleRate
	phase    float64
	position int
	duration int
}

// NewKnock returns the synthesized hit sound.
func NewKnock(rate beep.SampleRate) beep.Streamer {
	return &knock{rate: rate, duration: rate.N(knockDuration)}
}

func (k *knock) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if k.position >= k.duration {
			return i, i > 0
		}
		t := float64(k.position) / float64(k.rate)
		env := math.Exp(-knockDecay * t)
		val := env * math.Sin(2*math.Pi*k.phase)
		samples[i][0] = val
		samples[i][1] = val

		freq := knockFreq * (1 - 0.4*t/knockDuration.Seconds())
		k.phase += freq / float64(k.rate)
		k.phase -= math.Floor(k.phase)
		k.position++
	}
	return len(samples), true
}

func (k *knock) Err() error { return nil }

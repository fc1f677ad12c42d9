// Package sound plays short click tones for UI feedback and exposes how loud
// the output currently is, which the demo uses to pulse the ring outline.
package sound

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	ringSize   = 4096

	clickFreq    = 880.0
	clickLength  = 60 * time.Millisecond
	clickDecay   = 40.0
	clickVolume  = 0.35
	levelWindow  = 1024
	levelCeiling = 0.25
)

// Player mixes click tones into a single speaker stream. A zero Player (or
// one whose speaker failed to start) is silent but safe to call.
type Player struct {
	mixer *beep.Mixer
	tap   *levelTap
}

// NewPlayer initializes the speaker and starts streaming silence through the
// mixer. The returned error means no audio device; the caller should go on
// with a silent player.
func NewPlayer() (*Player, error) {
	mixer := &beep.Mixer{}
	tap := newLevelTap(mixer, ringSize)

	bufferSize := sampleRate.N(time.Second / 20)
	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return &Player{}, fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(tap)

	return &Player{mixer: mixer, tap: tap}, nil
}

// Click plays one short tone. Pitch scales the base frequency so different
// actions sound apart.
func (p *Player) Click(pitch float64) {
	if p == nil || p.mixer == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(tone(sampleRate, clickFreq*pitch, sampleRate.N(clickLength)))
	speaker.Unlock()
}

// Level is the recent output loudness scaled into [0,1].
func (p *Player) Level() float64 {
	if p == nil || p.tap == nil {
		return 0
	}
	return clamp01(p.tap.rms(levelWindow) / levelCeiling)
}

func (p *Player) Close() {
	if p == nil || p.mixer == nil {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.mixer = nil
}

// tone is an exponentially decaying sine of n samples.
func tone(sr beep.SampleRate, freq float64, n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		i := 0
		for ; i < len(samples) && pos < n; i++ {
			t := float64(pos) / float64(sr)
			v := clickVolume * math.Exp(-clickDecay*t) * math.Sin(2*math.Pi*freq*t)
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return i, true
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

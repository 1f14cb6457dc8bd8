package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

// SampleRate is the PCM rate the ambience renders at.
const SampleRate = 48000

// InitialGain is the master level before any tracking has happened.
const InitialGain = 0.25

type waveform int

const (
	sine waveform = iota
	sawtooth
)

type voice struct {
	freq     float64
	cents    float64
	level    float64
	wave     waveform
	vibRate  float64
	vibDepth float64

	phase    float64
	vibPhase float64
}

// Ambience renders the exhibit's background music: a vibrato flute melody
// over a detuned sawtooth string pad. It is an io.Reader of 16-bit
// little-endian stereo PCM scaled by a master Param.
type Ambience struct {
	gain *Param

	mu     sync.Mutex
	voices []voice
}

// NewAmbience builds the oscillator bank. gain is applied per Read call.
func NewAmbience(gain *Param) *Ambience {
	a := &Ambience{gain: gain}

	for i, freq := range []float64{293.66, 369.99, 440, 587.33} {
		a.voices = append(a.voices, voice{
			freq:     freq,
			level:    0.06 - float64(i)*0.01,
			wave:     sine,
			vibRate:  5 + float64(i),
			vibDepth: 3,
		})
	}
	for _, freq := range []float64{146.83, 220, 329.63} {
		for _, cents := range []float64{-5, 5} {
			a.voices = append(a.voices, voice{
				freq:     freq,
				cents:    cents,
				level:    0.015,
				wave:     sawtooth,
				vibRate:  4,
				vibDepth: 4,
			})
		}
	}
	return a
}

// Gain exposes the master param so controllers can drive it.
func (a *Ambience) Gain() *Param {
	return a.gain
}

// Read fills p with whole stereo frames.
func (a *Ambience) Read(p []byte) (int, error) {
	frameBytes := len(p) - len(p)%4
	if frameBytes == 0 {
		return 0, nil
	}
	g := a.gain.Value()

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < frameBytes; i += 4 {
		s := a.nextSampleLocked() * g
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := uint16(int16(s * 32767))
		binary.LittleEndian.PutUint16(p[i:], v)
		binary.LittleEndian.PutUint16(p[i+2:], v)
	}
	return frameBytes, nil
}

func (a *Ambience) nextSampleLocked() float64 {
	var sum float64
	for i := range a.voices {
		v := &a.voices[i]
		f := v.freq*math.Pow(2, v.cents/1200) + v.vibDepth*math.Sin(v.vibPhase)
		switch v.wave {
		case sawtooth:
			sum += v.level * 2 * (v.phase - math.Floor(v.phase+0.5))
		default:
			sum += v.level * math.Sin(2*math.Pi*v.phase)
		}
		v.phase += f / SampleRate
		v.phase -= math.Floor(v.phase)
		v.vibPhase += 2 * math.Pi * v.vibRate / SampleRate
		if v.vibPhase > 2*math.Pi {
			v.vibPhase -= 2 * math.Pi
		}
	}
	return sum
}

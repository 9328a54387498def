// Package audio plays decoded clips through the system speaker.
package audio

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/hubastard/clickrace/engine/logx"
)

// Sink receives the streamers to mix. Lock and Unlock guard changes to a
// streamer that is already playing.
type Sink interface {
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerSink struct{}

func (speakerSink) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerSink) Lock()                   { speaker.Lock() }
func (speakerSink) Unlock()                 { speaker.Unlock() }

// Buffer is a fully decoded clip.
type Buffer struct {
	buf *beep.Buffer
}

// Decode reads a WAV clip into memory and closes rc.
func Decode(rc io.ReadCloser) (*Buffer, error) {
	s, format, err := wav.Decode(rc)
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer s.Close()
	return FromStreamer(format, s), nil
}

// FromStreamer drains s into a Buffer.
func FromStreamer(format beep.Format, s beep.Streamer) *Buffer {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	return &Buffer{buf: buf}
}

func (b *Buffer) Len() int { return b.buf.Len() }

func (b *Buffer) Duration() time.Duration {
	return b.buf.Format().SampleRate.D(b.buf.Len())
}

// Handle identifies a playing clip.
type Handle uint64

type track struct {
	ctrl *beep.Ctrl
	vol  *effects.Volume
	gain float64
}

// Player owns the output device and the clips playing on it.
type Player struct {
	sink Sink
	rate beep.SampleRate

	mu     sync.Mutex
	next   Handle
	tracks map[Handle]*track
}

// New opens the default output device.
func New(sampleRate int) (*Player, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	logx.Logger().Info("audio device opened", "sample_rate", sampleRate)
	return NewWithSink(sampleRate, speakerSink{}), nil
}

// NewWithSink builds a Player that mixes into sink.
func NewWithSink(sampleRate int, sink Sink) *Player {
	return &Player{
		sink:   sink,
		rate:   beep.SampleRate(sampleRate),
		tracks: map[Handle]*track{},
	}
}

// Play starts b once.
func (p *Player) Play(b *Buffer) Handle {
	return p.start(b, 1)
}

// PlayLooping starts b and repeats it until stopped.
func (p *Player) PlayLooping(b *Buffer) Handle {
	return p.start(b, -1)
}

func (p *Player) start(b *Buffer, loops int) Handle {
	var s beep.Streamer = beep.Loop(loops, b.buf.Streamer(0, b.buf.Len()))
	if src := b.buf.Format().SampleRate; src != p.rate {
		s = beep.Resample(4, src, p.rate, s)
	}
	t := &track{ctrl: &beep.Ctrl{Streamer: s}, gain: 1}
	t.vol = &effects.Volume{Streamer: t.ctrl, Base: 2}

	p.mu.Lock()
	p.next++
	h := p.next
	p.tracks[h] = t
	p.mu.Unlock()

	p.sink.Play(t.vol)
	return h
}

// SetGain sets the linear gain of h; 1 is unchanged, 0 is silent.
func (p *Player) SetGain(h Handle, gain float64) {
	t := p.track(h)
	if t == nil {
		return
	}
	volume, silent := VolumeFor(gain)
	p.sink.Lock()
	t.gain = gain
	t.vol.Volume = volume
	t.vol.Silent = silent
	p.sink.Unlock()
}

// Gain returns the last gain set on h, or 0 when h is not playing.
func (p *Player) Gain(h Handle) float64 {
	t := p.track(h)
	if t == nil {
		return 0
	}
	p.sink.Lock()
	defer p.sink.Unlock()
	return t.gain
}

// Stop ends h. Unknown handles are ignored.
func (p *Player) Stop(h Handle) {
	p.mu.Lock()
	t := p.tracks[h]
	delete(p.tracks, h)
	p.mu.Unlock()
	if t == nil {
		return
	}
	p.sink.Lock()
	t.ctrl.Streamer = nil
	p.sink.Unlock()
}

// StopAll ends every clip.
func (p *Player) StopAll() {
	p.mu.Lock()
	hs := make([]Handle, 0, len(p.tracks))
	for h := range p.tracks {
		hs = append(hs, h)
	}
	p.mu.Unlock()
	for _, h := range hs {
		p.Stop(h)
	}
}

// Playing reports whether h has not been stopped.
func (p *Player) Playing(h Handle) bool { return p.track(h) != nil }

func (p *Player) track(h Handle) *track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracks[h]
}

// VolumeFor maps a linear gain to a base-2 volume.
func VolumeFor(gain float64) (volume float64, silent bool) {
	if gain <= 0 || math.IsNaN(gain) {
		return 0, true
	}
	return math.Log2(gain), false
}

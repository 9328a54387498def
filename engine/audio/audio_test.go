package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	played []beep.Streamer
}

func (f *fakeSink) Play(s ...beep.Streamer) { f.played = append(f.played, s...) }
func (f *fakeSink) Lock()                   {}
func (f *fakeSink) Unlock()                 {}

var testFormat = beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}

// constant produces n frames of value v.
func constant(n int, v float64) beep.Streamer {
	left := n
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if left == 0 {
			return 0, false
		}
		k := min(len(samples), left)
		for i := range samples[:k] {
			samples[i] = [2]float64{v, v}
		}
		left -= k
		return k, true
	})
}

func drain(s beep.Streamer, n int) ([][2]float64, bool) {
	buf := make([][2]float64, n)
	got, ok := s.Stream(buf)
	return buf[:got], ok
}

func TestVolumeFor(t *testing.T) {
	tests := []struct {
		gain   float64
		volume float64
		silent bool
	}{
		{gain: 1, volume: 0},
		{gain: 0.5, volume: -1},
		{gain: 2, volume: 1},
		{gain: 0, silent: true},
		{gain: -1, silent: true},
	}
	for _, tt := range tests {
		v, s := VolumeFor(tt.gain)
		assert.Equal(t, tt.silent, s, "gain %v", tt.gain)
		assert.InDelta(t, tt.volume, v, 1e-9, "gain %v", tt.gain)
	}
}

func TestPlayLoopingRepeats(t *testing.T) {
	sink := &fakeSink{}
	p := NewWithSink(8000, sink)
	buf := FromStreamer(testFormat, constant(4, 1))
	require.Equal(t, 4, buf.Len())

	h := p.PlayLooping(buf)
	require.Len(t, sink.played, 1)
	assert.True(t, p.Playing(h))

	out, ok := drain(sink.played[0], 10)
	assert.True(t, ok)
	assert.Len(t, out, 10, "a looping clip never runs dry")
}

func TestPlayOnceEnds(t *testing.T) {
	sink := &fakeSink{}
	p := NewWithSink(8000, sink)
	p.Play(FromStreamer(testFormat, constant(4, 1)))

	out, _ := drain(sink.played[0], 10)
	assert.Len(t, out, 4)
}

func TestSetGainScalesSamples(t *testing.T) {
	sink := &fakeSink{}
	p := NewWithSink(8000, sink)
	h := p.PlayLooping(FromStreamer(testFormat, constant(4, 1)))

	p.SetGain(h, 0.5)
	out, _ := drain(sink.played[0], 4)
	assert.InDelta(t, 0.5, out[0][0], 1e-9)

	p.SetGain(h, 0)
	out, _ = drain(sink.played[0], 4)
	assert.Equal(t, 0.0, out[0][0])
}

func TestStop(t *testing.T) {
	sink := &fakeSink{}
	p := NewWithSink(8000, sink)
	h := p.PlayLooping(FromStreamer(testFormat, constant(4, 1)))

	p.Stop(h)
	assert.False(t, p.Playing(h))
	_, ok := drain(sink.played[0], 4)
	assert.False(t, ok)

	// unknown handles are ignored
	p.Stop(h)
	p.SetGain(h, 1)
}

func TestStopAll(t *testing.T) {
	sink := &fakeSink{}
	p := NewWithSink(8000, sink)
	a := p.PlayLooping(FromStreamer(testFormat, constant(4, 1)))
	b := p.Play(FromStreamer(testFormat, constant(4, 1)))
	p.StopAll()
	assert.False(t, p.Playing(a))
	assert.False(t, p.Playing(b))
}

func TestDecodeWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, constant(800, 0.25), testFormat))
	require.NoError(t, f.Close())

	rc, err := os.Open(path)
	require.NoError(t, err)
	buf, err := Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 800, buf.Len())
	assert.InDelta(t, 0.1, buf.Duration().Seconds(), 1e-6)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0o644))
	rc, err := os.Open(path)
	require.NoError(t, err)
	_, err = Decode(rc)
	assert.Error(t, err)
}

func TestGain(t *testing.T) {
	p := NewWithSink(int(testFormat.SampleRate), &fakeSink{})
	h := p.PlayLooping(FromStreamer(testFormat, constant(16, 0.5)))

	assert.Equal(t, 1.0, p.Gain(h))
	p.SetGain(h, 0.25)
	assert.Equal(t, 0.25, p.Gain(h))

	p.Stop(h)
	assert.Zero(t, p.Gain(h))
}

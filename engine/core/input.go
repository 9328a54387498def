package core

// KeySet is a set of keys.
type KeySet map[Key]struct{}

func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s KeySet) Has(k Key) bool { _, ok := s[k]; return ok }
func (s KeySet) Add(k Key)      { s[k] = struct{}{} }
func (s KeySet) Remove(k Key)   { delete(s, k) }

func (s KeySet) Clone() KeySet {
	out := make(KeySet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// RawInput is one generation of input: pointer position and held keys.
type RawInput struct {
	X, Y     float32
	Pressing KeySet
}

func (r RawInput) clone() RawInput {
	return RawInput{X: r.X, Y: r.Y, Pressing: r.Pressing.Clone()}
}

// Pointer is the last known state of one touch point.
type Pointer struct {
	ID    uint64
	X, Y  float32
	Phase TouchPhase
}

// Input bakes raw key transitions into per-frame snapshots.
//
// Process feeds the temp accumulator between frames; SwapFrame promotes it
// once per loop iteration. Queries only ever read the promoted snapshots.
type Input struct {
	temp RawInput
	cur  RawInput
	last RawInput

	// releases of keys that were pressed and released before the current
	// frame saw them; applied to temp after the next promotion.
	pendingRelease KeySet

	pressedAny bool
	points     map[uint64]Pointer
}

func NewInput() *Input {
	return &Input{
		temp:           RawInput{Pressing: KeySet{}},
		cur:            RawInput{Pressing: KeySet{}},
		last:           RawInput{Pressing: KeySet{}},
		pendingRelease: KeySet{},
		points:         map[uint64]Pointer{},
	}
}

// Process merges newly observed key transitions into the temp accumulator.
func (in *Input) Process(pressed, released KeySet) {
	for k := range pressed {
		in.temp.Pressing.Add(k)
	}
	for k := range released {
		if in.cur.Pressing.Has(k) {
			in.temp.Pressing.Remove(k)
			continue
		}
		// pressed and released inside one window: keep it for a frame
		if in.temp.Pressing.Has(k) {
			in.pendingRelease.Add(k)
		}
	}
}

// SwapFrame moves current to last and promotes temp to current. Temp is
// kept, so held keys stay visible on the next frame.
func (in *Input) SwapFrame() {
	in.last, in.cur = in.cur, in.temp.clone()
	for k := range in.pendingRelease {
		in.temp.Pressing.Remove(k)
	}
	clear(in.pendingRelease)

	in.pressedAny = false
	for k := range in.cur.Pressing {
		if !in.last.Pressing.Has(k) {
			in.pressedAny = true
			break
		}
	}
}

// IsPressed reports whether every key is held now and at least one of them
// was not held last frame.
func (in *Input) IsPressed(keys ...Key) bool {
	if len(keys) == 0 {
		return false
	}
	edge := false
	for _, k := range keys {
		if !in.cur.Pressing.Has(k) {
			return false
		}
		if !in.last.Pressing.Has(k) {
			edge = true
		}
	}
	return edge
}

// IsHeld reports whether k is held in the current frame.
func (in *Input) IsHeld(k Key) bool { return in.cur.Pressing.Has(k) }

// WasHeld reports whether k was held in the previous frame.
func (in *Input) WasHeld(k Key) bool { return in.last.Pressing.Has(k) }

// Released reports the falling edge of k.
func (in *Input) Released(k Key) bool {
	return in.last.Pressing.Has(k) && !in.cur.Pressing.Has(k)
}

// PressedAnyThisFrame reports whether the current frame holds a key that
// the previous frame did not.
func (in *Input) PressedAnyThisFrame() bool { return in.pressedAny }

// ConsumePressedAny clears the flag so later states in the same frame do
// not react to the same press.
func (in *Input) ConsumePressedAny() bool {
	was := in.pressedAny
	in.pressedAny = false
	return was
}

// Current returns a copy of the current frame snapshot.
func (in *Input) Current() RawInput { return in.cur.clone() }

// Last returns a copy of the previous frame snapshot.
func (in *Input) Last() RawInput { return in.last.clone() }

// SetPointer records the pointer position; it becomes visible at the next swap.
func (in *Input) SetPointer(x, y float32) {
	in.temp.X, in.temp.Y = x, y
}

// Pointer returns the pointer position of the current frame.
func (in *Input) Pointer() (x, y float32) { return in.cur.X, in.cur.Y }

// SetTouch updates a touch point. Ended and cancelled points are dropped.
func (in *Input) SetTouch(id uint64, x, y float32, phase TouchPhase) {
	switch phase {
	case TouchEnded, TouchCancelled:
		delete(in.points, id)
	default:
		in.points[id] = Pointer{ID: id, X: x, Y: y, Phase: phase}
	}
}

// Touches returns the active touch points.
func (in *Input) Touches() []Pointer {
	out := make([]Pointer, 0, len(in.points))
	for _, p := range in.points {
		out = append(out, p)
	}
	return out
}

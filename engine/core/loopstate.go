package core

import (
	"fmt"
	"time"
)

// WaitKind says how the platform event wait should block.
type WaitKind int

const (
	// Wait blocks until the next platform event.
	Wait WaitKind = iota
	// WaitUntil blocks until an event or the deadline, whichever is first.
	WaitUntil
	// Poll does not block.
	Poll
)

func (k WaitKind) String() string {
	switch k {
	case Wait:
		return "Wait"
	case WaitUntil:
		return "WaitUntil"
	case Poll:
		return "Poll"
	}
	return "Unknown"
}

// WaitPolicy is a WaitKind plus the deadline used by WaitUntil.
type WaitPolicy struct {
	Kind     WaitKind
	Deadline time.Time
}

func (p WaitPolicy) String() string {
	if p.Kind == WaitUntil {
		return fmt.Sprintf("WaitUntil(%s)", p.Deadline.Format(time.StampMicro))
	}
	return p.Kind.String()
}

// Timeout returns how long a WaitUntil policy should block from now.
// Non-positive means the deadline already passed.
func (p WaitPolicy) Timeout(now time.Time) time.Duration {
	return p.Deadline.Sub(now)
}

// Merge returns the more eager of two policies: Poll over WaitUntil over
// Wait, and the earlier deadline of two WaitUntils.
func (p WaitPolicy) Merge(o WaitPolicy) WaitPolicy {
	if p.Kind != o.Kind {
		if p.Kind > o.Kind {
			return p
		}
		return o
	}
	if p.Kind == WaitUntil {
		switch {
		case o.Deadline.Before(p.Deadline):
			return o
		case p.Deadline.Before(o.Deadline):
			return p
		}
		// same instant: drop the monotonic reading and location so the
		// result does not depend on the order
		return WaitPolicy{Kind: WaitUntil, Deadline: p.Deadline.Round(0).UTC()}
	}
	return WaitPolicy{Kind: p.Kind}
}

// LoopState is the scheduling directive of one tick: how to wait for the
// next one and whether a frame should be rendered.
type LoopState struct {
	Wait   WaitPolicy
	Render bool
}

var (
	// WaitIdle waits for events and does not render.
	WaitIdle = LoopState{}
	// WaitRender waits for events and renders this tick.
	WaitRender = LoopState{Render: true}
	// PollRender keeps the loop spinning and renders every tick.
	PollRender = LoopState{Wait: WaitPolicy{Kind: Poll}, Render: true}
	// PollIdle keeps the loop spinning without rendering.
	PollIdle = LoopState{Wait: WaitPolicy{Kind: Poll}}
)

// WaitFor wakes the loop after d from now.
func WaitFor(d time.Duration, render bool) LoopState {
	return WaitUntilTime(time.Now().Add(d), render)
}

// WaitUntilTime wakes the loop at t.
func WaitUntilTime(t time.Time, render bool) LoopState {
	return LoopState{Wait: WaitPolicy{Kind: WaitUntil, Deadline: t}, Render: render}
}

// Merge combines two contributions. It is commutative and associative, so
// folding contributions in any order or grouping yields the same result.
func (l LoopState) Merge(o LoopState) LoopState {
	return LoopState{
		Wait:   l.Wait.Merge(o.Wait),
		Render: l.Render || o.Render,
	}
}

// MergeAll folds contributions starting from WaitIdle.
func MergeAll(states ...LoopState) LoopState {
	out := WaitIdle
	for _, s := range states {
		out = out.Merge(s)
	}
	return out
}

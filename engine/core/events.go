package core

import "strconv"

// Event is a platform event delivered by a Window.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
	// Repeat marks auto-repeat while held; Synthetic marks events the
	// platform made up (e.g. on focus change). Neither feeds the baker.
	Repeat    bool
	Synthetic bool
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventMouseButton struct {
	Button Key // KeyMouseLeft or KeyMouseRight
	Down   bool
	Mods   Mod
}

func (EventMouseButton) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

type TouchPhase int

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)

type EventTouch struct {
	ID    uint64
	X, Y  float64
	Phase TouchPhase
}

func (EventTouch) isEvent() {}

// EventRedrawRequested is the platform asking for a frame (expose/refresh).
type EventRedrawRequested struct{}

func (EventRedrawRequested) isEvent() {}

// EventSuspended means the drawable went away (minimized, app backgrounded).
type EventSuspended struct{}

func (EventSuspended) isEvent() {}

// EventResumed means a drawable may be available again.
type EventResumed struct{}

func (EventResumed) isEvent() {}

// Key/mod enums. Letters and digits are contiguous so platforms can map them
// arithmetically.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyTab
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyF11
	KeyMouseLeft
	KeyMouseRight
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

var keyNames = map[Key]string{
	KeyUnknown:    "Unknown",
	KeyEscape:     "Escape",
	KeyEnter:      "Enter",
	KeySpace:      "Space",
	KeyTab:        "Tab",
	KeyBackspace:  "Backspace",
	KeyLeft:       "Left",
	KeyRight:      "Right",
	KeyUp:         "Up",
	KeyDown:       "Down",
	KeyF11:        "F11",
	KeyMouseLeft:  "MouseLeft",
	KeyMouseRight: "MouseRight",
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + int(k-KeyA)))
	case k >= Key0 && k <= Key9:
		return strconv.Itoa(int(k - Key0))
	}
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

// StateEventKind tags what a StateEvent carries.
type StateEventKind int

const (
	// EventWindow forwards a platform event; Window is set.
	EventWindow StateEventKind = iota
	// EventGPUAvailable follows surface creation or resize. Size-dependent
	// and registry-backed resources must be fetched again.
	EventGPUAvailable
	// EventGPULost follows surface teardown.
	EventGPULost
	// EventPostUIRender fires after the UI pass was drawn, before present.
	EventPostUIRender
)

func (k StateEventKind) String() string {
	switch k {
	case EventWindow:
		return "Window"
	case EventGPUAvailable:
		return "GPUAvailable"
	case EventGPULost:
		return "GPULost"
	case EventPostUIRender:
		return "PostUIRender"
	}
	return "Unknown"
}

// StateEvent is what the driver broadcasts to every state on the stack.
type StateEvent struct {
	Kind   StateEventKind
	Window Event
}

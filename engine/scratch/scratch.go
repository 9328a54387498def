// Package scratch is a per-frame byte arena for label text. Strings built
// here alias the arena and stay valid until the next Reset.
package scratch

import (
	"strconv"
	"unsafe"
)

type Buffer struct {
	buf []byte
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// Reset drops every string handed out since the last Reset. Call it once
// per frame, before any text of the frame is built.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

func (b *Buffer) Len() int { return len(b.buf) }
func (b *Buffer) Cap() int { return cap(b.buf) }

// Begin starts a new string at the end of the arena.
func (b *Buffer) Begin() Builder { return Builder{b: b, mark: len(b.buf)} }

// Builder appends to one string in the arena. Growing the arena moves
// later writes to a new array, so views taken earlier stay intact.
type Builder struct {
	b    *Buffer
	mark int
}

func (w Builder) S(s string) Builder {
	w.b.buf = append(w.b.buf, s...)
	return w
}

func (w Builder) C(c byte) Builder {
	w.b.buf = append(w.b.buf, c)
	return w
}

// I appends a base-10 integer.
func (w Builder) I(v int) Builder {
	w.b.buf = strconv.AppendInt(w.b.buf, int64(v), 10)
	return w
}

// F appends v with prec digits after the decimal point.
func (w Builder) F(v float64, prec int) Builder {
	w.b.buf = strconv.AppendFloat(w.b.buf, v, 'f', prec, 64)
	return w
}

// Pad appends n copies of c.
func (w Builder) Pad(n int, c byte) Builder {
	for i := 0; i < n; i++ {
		w.b.buf = append(w.b.buf, c)
	}
	return w
}

func (w Builder) Len() int { return len(w.b.buf) - w.mark }

// View returns the built text without copying. Do not keep it past the
// next Reset.
func (w Builder) View() string {
	s := w.b.buf[w.mark:]
	if len(s) == 0 {
		return ""
	}
	return unsafe.String(&s[0], len(s))
}

// String returns a copy of the built text.
func (w Builder) String() string { return string(w.b.buf[w.mark:]) }

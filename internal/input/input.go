// Package input turns a raw terminal byte stream into per-frame input.
package input

import (
	"bufio"
	"time"
	"unicode"
	"unicode/utf8"
)

// Terminals send no key-up events, so a hold is inferred from key repeat.
// A fresh press stays held long enough to bridge the auto-repeat delay;
// after that each repeat extends it by a shorter window.
const (
	pressHoldDuration  = 550 * time.Millisecond
	repeatHoldDuration = 90 * time.Millisecond
)

const (
	keyCtrlC     = 0x03
	keyBackspace = '\b'
	keyDelete    = 0x7f
	keyEscape    = 0x1b
)

// Input represents the current frame's input state.
type Input struct {
	Quit      bool   // q outside name entry, or Ctrl-C
	Interrupt bool   // Ctrl-C only
	Hold      bool   // Lift held (space, w, k, up arrow)
	Press     bool   // Lift went from released to held this frame
	Enter     bool   // Enter pressed this frame
	Backspace bool   // Backspace or delete pressed this frame
	Escape    bool   // A lone escape pressed this frame
	Runes     []rune // Printable characters typed this frame
	Pressed   []byte // Raw bytes read this frame
}

// Stream delivers input bytes via a channel and tracks lift hold state.
type Stream struct {
	ch      chan byte
	closed  bool
	now     func() time.Time
	latch   HoldLatch
	pending []byte // incomplete UTF-8 sequence
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream(time.Now)
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream(now func() time.Time) *Stream {
	return &Stream{ch: make(chan byte, 128), now: now}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool { return s.closed }

// Reset forgets any held key, e.g. after a round restarts.
func (s *Stream) Reset() {
	s.latch.Reset()
}

// ReadInput drains all available bytes from the stream (non-blocking).
// naming selects name-entry parsing, where letters are text rather than
// controls.
func ReadInput(s *Stream, naming bool) Input {
	now := s.now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Pressed: buf}
	lift := false
	text := append(s.pending, buf...)
	s.pending = nil

	for i := 0; i < len(text); {
		b := text[i]

		// CSI sequence: ESC [ <code>
		if b == keyEscape && i+2 < len(text) && text[i+1] == '[' {
			if text[i+2] == 'A' && !naming {
				lift = true
			}
			i += 3
			continue
		}

		switch {
		case b == keyCtrlC:
			in.Quit = true
			in.Interrupt = true
		case b == '\r' || b == '\n':
			in.Enter = true
		case b == keyBackspace || b == keyDelete:
			in.Backspace = true
		case b == keyEscape:
			in.Escape = true
		case naming:
			if !utf8.FullRune(text[i:]) {
				s.pending = append(s.pending, text[i:]...)
				i = len(text)
				continue
			}
			r, size := utf8.DecodeRune(text[i:])
			if r != utf8.RuneError && unicode.IsPrint(r) {
				in.Runes = append(in.Runes, r)
			}
			i += size
			continue
		case b == 'q' || b == 'Q':
			in.Quit = true
		case b == ' ' || b == 'w' || b == 'W' || b == 'k' || b == 'K':
			lift = true
		}
		i++
	}

	in.Hold, in.Press = s.latch.Update(now, lift)
	return in
}

// HoldLatch infers a held key from key-down events alone.
type HoldLatch struct {
	holdUntil time.Time
	held      bool
}

// Update is called once per frame with whether the key fired since the last
// frame. It returns the hold state and whether this frame started the hold.
func (l *HoldLatch) Update(now time.Time, fired bool) (hold, press bool) {
	if fired {
		if now.Before(l.holdUntil) {
			l.holdUntil = now.Add(repeatHoldDuration)
		} else {
			l.holdUntil = now.Add(pressHoldDuration)
		}
	}
	hold = now.Before(l.holdUntil)
	press = hold && !l.held
	l.held = hold
	return hold, press
}

// Reset releases the key.
func (l *HoldLatch) Reset() {
	*l = HoldLatch{}
}

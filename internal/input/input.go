// Package input decodes raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report repeats, so movement keys stay active in between.
const keyHoldDuration = 90 * time.Millisecond

// Input represents the current frame's input state.
// Held fields stay true for keyHoldDuration after the last byte; the *Tap
// fields and Pressed only report what arrived since the previous read, which
// is what toggles (pause, menu choices) need.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Space  bool
	Enter  bool
	Escape bool

	EscapeTap bool
	EnterTap  bool
	SpaceTap  bool
	UpTap     bool
	DownTap   bool
	Number    int // Digit pressed this read, -1 if none
	Pressed   []byte
}

// Tapped reports whether b arrived in this read (case-insensitive for letters).
func (in Input) Tapped(b byte) bool {
	lower := b | 0x20
	for _, p := range in.Pressed {
		if p == b || (isLetter(b) && p|0x20 == lower) {
			return true
		}
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	up     time.Time
	down   time.Time
	space  time.Time
	enter  time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
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

// ResetKeyInput forgets held keys, so a key used to confirm a menu does not
// leak into the next screen.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream without blocking.
// A closed stream (disconnected terminal) reports Quit.
func ReadInput(s *Stream) Input {
	return readInputAt(s, time.Now())
}

func readInputAt(s *Stream, now time.Time) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				s.ch = nil
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Number: -1}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			// CSI sequence: ESC [ <code>
			if i+2 < len(buf) && buf[i+1] == '[' {
				switch buf[i+2] {
				case 'A':
					s.state.up = now
					in.UpTap = true
					i += 2
					continue
				case 'B':
					s.state.down = now
					in.DownTap = true
					i += 2
					continue
				case 'C':
					s.state.right = now
					i += 2
					continue
				case 'D':
					s.state.left = now
					i += 2
					continue
				}
			}
			s.state.escape = now
			in.EscapeTap = true
			continue
		}

		applyByte(&s.state, &in, b, now)
	}

	in.Quit = s.closed || now.Sub(s.state.quit) < keyHoldDuration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.Space = now.Sub(s.state.space) < keyHoldDuration
	in.Enter = now.Sub(s.state.enter) < keyHoldDuration
	in.Escape = now.Sub(s.state.escape) < keyHoldDuration
	in.Pressed = buf
	return in
}

func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl-C arrives as a byte in raw mode
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
		in.UpTap = true
	case 's', 'S', 'j', 'J':
		state.down = now
		in.DownTap = true
	case ' ':
		state.space = now
		in.SpaceTap = true
	case '\n', '\r':
		state.enter = now
		in.EnterTap = true
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Number = int(b - '0')
	}
}

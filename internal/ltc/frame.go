package ltc

import (
	"errors"
	"fmt"
)

// FrameBits is the length of one LTC frame including the sync word.
const FrameBits = 80

// SyncWord is the fixed 16-bit pattern that terminates every LTC frame,
// in bit arrival order. The pattern is asymmetric so hardware can detect
// playback direction; this decoder is forward-only.
const SyncWord = 0x3FFD // 0011111111111101

var (
	// ErrFrameLength is returned when ParseFrame is given anything other
	// than exactly 80 bits.
	ErrFrameLength = errors.New("ltc: frame must be exactly 80 bits")

	// ErrMalformedFrame is returned in strict mode when a cut frame has
	// digit values outside their natural BCD range or a corrupt trailing
	// sync word. It indicates a mis-detected frame boundary or a damaged
	// signal, as opposed to no frame having been found at all.
	ErrMalformedFrame = errors.New("ltc: malformed frame")
)

// Timecode is one decoded HH:MM:SS:FF value.
type Timecode struct {
	Hours   int
	Minutes int
	Seconds int
	Frames  int
}

// String formats the timecode as zero-padded "HH:MM:SS:FF".
func (tc Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", tc.Hours, tc.Minutes, tc.Seconds, tc.Frames)
}

// IsZero reports whether the timecode is 00:00:00:00.
func (tc Timecode) IsZero() bool {
	return tc == Timecode{}
}

// ParseTimecode parses a zero-padded "HH:MM:SS:FF" string.
func ParseTimecode(s string) (Timecode, error) {
	var tc Timecode
	if _, err := fmt.Sscanf(s, "%02d:%02d:%02d:%02d", &tc.Hours, &tc.Minutes, &tc.Seconds, &tc.Frames); err != nil {
		return Timecode{}, fmt.Errorf("ltc: invalid timecode %q: %w", s, err)
	}
	return tc, nil
}

// Frame is one parsed 80-bit LTC frame.
//
// The flag and user bits are passed through uninterpreted; what they
// mean depends on the frame rate family (SMPTE 12M vs EBU), which the
// signal itself does not carry.
type Frame struct {
	TC         Timecode
	DropFrame  bool     // bit 10
	ColorFrame bool     // bit 11
	Flags      [4]bool  // bits 27, 43, 58, 59
	UserBits   [8]uint8 // eight 4-bit groups, low nibble used
}

// Fixed bit positions within an 80-bit frame, per the SMPTE assignment.
// All multi-bit fields are least-significant-bit first.
const (
	frameUnitsOff, frameUnitsLen = 0, 4
	frameTensOff, frameTensLen   = 8, 2
	secUnitsOff, secUnitsLen     = 16, 4
	secTensOff, secTensLen       = 24, 3
	minUnitsOff, minUnitsLen     = 32, 4
	minTensOff, minTensLen       = 40, 3
	hourUnitsOff, hourUnitsLen   = 48, 4
	hourTensOff, hourTensLen     = 56, 2
)

var userBitOffsets = [8]int{4, 12, 20, 28, 36, 44, 52, 60}

// ParseFrame interprets exactly 80 bits (arrival order) as an LTC frame.
//
// In strict mode a frame whose trailing sync word is corrupt, whose
// units digits exceed 9, or whose combined fields exceed their natural
// range (23 hours, 59 minutes/seconds) fails with ErrMalformedFrame.
// Permissive mode reproduces the legacy behaviour of formatting whatever
// digits were decoded; frames are never range-checked against a nominal
// frame rate, which the parser does not know.
func ParseFrame(bits []bool, permissive bool) (Frame, error) {
	if len(bits) != FrameBits {
		return Frame{}, ErrFrameLength
	}

	f := Frame{
		TC: Timecode{
			Hours:   field(bits, hourTensOff, hourTensLen)*10 + field(bits, hourUnitsOff, hourUnitsLen),
			Minutes: field(bits, minTensOff, minTensLen)*10 + field(bits, minUnitsOff, minUnitsLen),
			Seconds: field(bits, secTensOff, secTensLen)*10 + field(bits, secUnitsOff, secUnitsLen),
			Frames:  field(bits, frameTensOff, frameTensLen)*10 + field(bits, frameUnitsOff, frameUnitsLen),
		},
		DropFrame:  bits[10],
		ColorFrame: bits[11],
		Flags:      [4]bool{bits[27], bits[43], bits[58], bits[59]},
	}
	for i, off := range userBitOffsets {
		f.UserBits[i] = uint8(field(bits, off, 4))
	}

	if permissive {
		return f, nil
	}

	if trailingWord(bits) != SyncWord {
		return Frame{}, fmt.Errorf("%w: bad sync word", ErrMalformedFrame)
	}
	for _, off := range [4]int{frameUnitsOff, secUnitsOff, minUnitsOff, hourUnitsOff} {
		if field(bits, off, 4) > 9 {
			return Frame{}, fmt.Errorf("%w: units digit out of range", ErrMalformedFrame)
		}
	}
	if f.TC.Hours > 23 || f.TC.Minutes > 59 || f.TC.Seconds > 59 {
		return Frame{}, fmt.Errorf("%w: field value out of range", ErrMalformedFrame)
	}
	return f, nil
}

// field extracts an LSB-first unsigned value from bits[off:off+n].
func field(bits []bool, off, n int) int {
	v := 0
	for i := 0; i < n; i++ {
		if bits[off+i] {
			v |= 1 << i
		}
	}
	return v
}

// trailingWord packs the last 16 bits in arrival order, first bit in the
// most significant position, matching the rolling register in Decoder.
func trailingWord(bits []bool) uint16 {
	var w uint16
	for _, b := range bits[len(bits)-16:] {
		w <<= 1
		if b {
			w |= 1
		}
	}
	return w
}

package ltc

import "testing"

// Synthetic signal parameters. 48 kHz at 25 fps puts a full bit cell at
// 24 samples and a half cell at 12, the geometry the decoder's estimate
// is seeded for.
const (
	testHalfCell  = 12
	testAmplitude = 8000
)

// syncWordBits is the sync pattern in bit arrival order.
var syncWordBits = [16]bool{
	false, false, true, true, true, true, true, true,
	true, true, true, true, true, true, false, true,
}

// frameBits builds the 80 bits of an LTC frame carrying tc, in arrival
// order, with flags and user bits zero and the sync word appended.
func frameBits(t *testing.T, tc Timecode) []bool {
	t.Helper()

	bits := make([]bool, FrameBits)
	setField := func(off, n, v int) {
		for i := 0; i < n; i++ {
			bits[off+i] = v&(1<<i) != 0
		}
	}
	setField(frameUnitsOff, frameUnitsLen, tc.Frames%10)
	setField(frameTensOff, frameTensLen, tc.Frames/10)
	setField(secUnitsOff, secUnitsLen, tc.Seconds%10)
	setField(secTensOff, secTensLen, tc.Seconds/10)
	setField(minUnitsOff, minUnitsLen, tc.Minutes%10)
	setField(minTensOff, minTensLen, tc.Minutes/10)
	setField(hourUnitsOff, hourUnitsLen, tc.Hours%10)
	setField(hourTensOff, hourTensLen, tc.Hours/10)
	copy(bits[64:], syncWordBits[:])
	return bits
}

// biphaseSignal renders a bit sequence as biphase-mark PCM samples: a
// polarity flip at every cell boundary, plus a mid-cell flip for ones.
// A short tail run follows the last bit so its final half cell is
// terminated by a transition and gets classified.
func biphaseSignal(t *testing.T, bits []bool) []int16 {
	t.Helper()

	samples := make([]int16, 0, len(bits)*2*testHalfCell+testHalfCell)
	level := int16(testAmplitude)
	writeRun := func(n int) {
		for i := 0; i < n; i++ {
			samples = append(samples, level)
		}
	}
	flip := func() { level = -level }

	for _, bit := range bits {
		flip() // cell boundary
		if bit {
			writeRun(testHalfCell)
			flip() // mid-cell transition
			writeRun(testHalfCell)
		} else {
			writeRun(2 * testHalfCell)
		}
	}
	flip()
	writeRun(testHalfCell)
	flip()
	writeRun(2) // final edge so the tail run itself completes
	return samples
}

// pcmBytes converts samples to the little-endian byte stream Feed takes.
func pcmBytes(t *testing.T, samples []int16) []byte {
	t.Helper()

	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		buf[2*i] = byte(uint16(s))
		buf[2*i+1] = byte(uint16(s) >> 8)
	}
	return buf
}

// leadIn returns n zero bits, used ahead of a frame so the accumulator
// holds more than 80 bits when the sync word lands.
func leadIn(n int) []bool {
	return make([]bool, n)
}

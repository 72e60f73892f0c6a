// Package ltc decodes SMPTE/EBU Linear Timecode from 16-bit PCM audio.
package ltc

// Polarity is the sign classification of a PCM sample.
type Polarity int8

// Polarity values. The demodulator only cares about zero crossings, so
// amplitude is discarded as early as possible.
const (
	Negative Polarity = iota
	Positive
)

func classifySample(sample int16) Polarity {
	if sample < 0 {
		return Negative
	}
	return Positive
}

// Cell-tracking constants for the self-clocking biphase-mark decode.
//
// LTC carries one transition at every bit-cell boundary and an extra
// mid-cell transition for a "1". At 48 kHz and 25 fps the bit rate is
// 80*25 = 2000 b/s, so a full cell spans 24 samples and a half cell 12.
// Rather than hardcoding run-length thresholds for that one combination,
// the decoder keeps a running estimate of the half-cell width and
// classifies each run relative to it. The ratios below reproduce the
// classic 7/14 sample boundaries when the estimate sits at 12.
const (
	// nominalBitsPerSecond seeds the half-cell estimate before any
	// signal has been seen (80-bit frames at 25 fps).
	nominalBitsPerSecond = 80 * 25

	// runNoiseRatio is the fraction of a half cell below which a run is
	// treated as noise and debounced.
	runNoiseRatio = 7.0 / 12.0

	// runHalfCellRatio is the fraction of a half cell up to which a run
	// counts as one half cell; anything longer is a full cell.
	runHalfCellRatio = 14.0 / 12.0

	// cellEMAWeight is the exponential moving average weight applied to
	// each accepted run when updating the half-cell estimate.
	cellEMAWeight = 0.125

	// runDropoutRatio is the multiple of the half-cell estimate beyond
	// which a run is a signal dropout (silence, tape stop) rather than
	// a slow clock. Dropout runs still decode as "0" but are kept out
	// of the estimate so the clock survives gaps in the signal.
	runDropoutRatio = 4.0

	// Half-cell estimate clamp. Keeps a burst of garbage from dragging
	// the clock estimate somewhere it cannot recover from.
	minHalfCell = 4.0
	maxHalfCell = 64.0
)

type runClass int8

const (
	runNoise runClass = iota
	runHalfCell
	runFullCell
)

// cellTracker holds the running half-cell width estimate.
type cellTracker struct {
	halfCell float64
}

func newCellTracker(sampleRate int) cellTracker {
	return cellTracker{
		halfCell: float64(sampleRate) / float64(nominalBitsPerSecond) / 2,
	}
}

// classify buckets a completed polarity run and folds its observed width
// back into the estimate. Full-cell runs contribute half their width.
func (t *cellTracker) classify(run int) runClass {
	w := float64(run)
	switch {
	case w < t.halfCell*runNoiseRatio:
		return runNoise
	case w <= t.halfCell*runHalfCellRatio:
		t.update(w)
		return runHalfCell
	default:
		if w <= t.halfCell*runDropoutRatio {
			t.update(w / 2)
		}
		return runFullCell
	}
}

func (t *cellTracker) update(observed float64) {
	t.halfCell += (observed - t.halfCell) * cellEMAWeight
	if t.halfCell < minHalfCell {
		t.halfCell = minHalfCell
	} else if t.halfCell > maxHalfCell {
		t.halfCell = maxHalfCell
	}
}

// biphaseDecoder turns a polarity stream into demodulated bits.
//
// Every bit cell ends with a transition. A half-cell run means the cell
// has a mid-point transition too: the pair of half runs encodes a "1",
// emitted on the first half with the second swallowed by the toggle. A
// full-cell run is a "0". Sub-threshold runs reset the counter without
// emitting anything, which debounces glitches around zero crossings.
type biphaseDecoder struct {
	cells    cellTracker
	last     Polarity
	haveLast bool
	runLen   int
	toggle   bool
	emit     func(bit bool)
}

func newBiphaseDecoder(sampleRate int, emit func(bit bool)) biphaseDecoder {
	return biphaseDecoder{
		cells:  newCellTracker(sampleRate),
		runLen: 1,
		toggle: true,
		emit:   emit,
	}
}

// sample consumes one polarity observation.
func (d *biphaseDecoder) sample(p Polarity) {
	if d.haveLast && p == d.last {
		d.runLen++
		return
	}
	if d.haveLast {
		switch d.cells.classify(d.runLen) {
		case runFullCell:
			d.emit(false)
		case runHalfCell:
			if d.toggle {
				d.emit(true)
				d.toggle = false
			} else {
				d.toggle = true
			}
		}
	}
	d.haveLast = true
	d.last = p
	d.runLen = 1
}

package ltc

import "encoding/binary"

// Decoder configuration defaults.
const (
	// DefaultSampleRate is the capture rate the half-cell estimate is
	// seeded from. The estimate adapts once signal arrives, so other
	// rates work too; the seed only has to be in the right ballpark.
	DefaultSampleRate = 48000

	// maxAccumBits bounds the bit accumulator during sync loss. Frames
	// are 80 bits, so anything beyond a few frames of history can never
	// contribute to a future cut and is discarded oldest-first.
	maxAccumBits = 4096
)

// Config controls a Decoder.
type Config struct {
	// SampleRate of the incoming PCM stream. Zero means DefaultSampleRate.
	SampleRate int

	// Permissive disables strict frame validation, formatting whatever
	// digits were decoded (the legacy behaviour). Leave false unless a
	// downstream consumer depends on best-effort timecodes.
	Permissive bool

	// OnFrame receives every successfully parsed frame, in stream order.
	OnFrame func(Frame)
}

// Stats counts decode outcomes since the Decoder was created.
type Stats struct {
	Frames    int // frames cut and parsed successfully
	Malformed int // frames cut but rejected by strict validation
}

// Decoder demodulates an LTC audio stream into frames.
//
// It is a single composable core: feed it PCM in blocks of any size and
// it delivers frames to the configured callback. State persists across
// blocks, so frames that straddle block boundaries decode normally.
// Wire the callback to a Latch for live use or to a timeline.Aggregator
// for batch segment extraction.
//
// A Decoder is not safe for concurrent use; it is owned by whichever
// single goroutine feeds it.
type Decoder struct {
	cfg     Config
	biphase biphaseDecoder
	bits    []bool
	reg     uint16
	stats   Stats
}

// NewDecoder returns a Decoder ready to consume PCM.
func NewDecoder(cfg Config) *Decoder {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	d := &Decoder{
		cfg:  cfg,
		bits: make([]bool, 0, 2*FrameBits),
	}
	d.biphase = newBiphaseDecoder(cfg.SampleRate, d.pushBit)
	return d
}

// Feed consumes a block of little-endian signed 16-bit mono PCM. An odd
// trailing byte is ignored; an empty block is a no-op.
func (d *Decoder) Feed(pcm []byte) {
	for i := 0; i+1 < len(pcm); i += 2 {
		d.biphase.sample(classifySample(int16(binary.LittleEndian.Uint16(pcm[i:]))))
	}
}

// FeedSamples consumes a block of decoded 16-bit samples directly.
func (d *Decoder) FeedSamples(samples []int16) {
	for _, s := range samples {
		d.biphase.sample(classifySample(s))
	}
}

// Stats returns decode counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// pushBit appends one demodulated bit and cuts a frame when the rolling
// 16-bit register matches the sync word with more than 80 bits banked.
func (d *Decoder) pushBit(bit bool) {
	d.bits = append(d.bits, bit)
	d.reg <<= 1
	if bit {
		d.reg |= 1
	}

	if len(d.bits) > FrameBits && d.reg == SyncWord {
		d.cutFrame()
		return
	}

	if len(d.bits) > maxAccumBits {
		n := copy(d.bits, d.bits[len(d.bits)-maxAccumBits:])
		d.bits = d.bits[:n]
	}
}

func (d *Decoder) cutFrame() {
	frame, err := ParseFrame(d.bits[len(d.bits)-FrameBits:], d.cfg.Permissive)
	d.bits = d.bits[:0]
	if err != nil {
		d.stats.Malformed++
		return
	}
	d.stats.Frames++
	if d.cfg.OnFrame != nil {
		d.cfg.OnFrame(frame)
	}
}

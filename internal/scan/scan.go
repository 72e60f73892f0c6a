// Package scan composes the decode core with the segment aggregator
// for batch sources. One decoder core serves both the LTC and QR paths;
// only the observation source differs.
package scan

import (
	"errors"
	"fmt"
	"io"

	"github.com/linuxmatters/tcgrab/internal/ltc"
	"github.com/linuxmatters/tcgrab/internal/qr"
	"github.com/linuxmatters/tcgrab/internal/timeline"
)

// BlockReader supplies fixed-size blocks of mono 16-bit PCM.
// internal/audio implements it over a media file; tests implement it
// over synthetic buffers.
type BlockReader interface {
	// ReadBlock returns the next PCM block, or io.EOF when the stream
	// ends. The final block may be shorter than the configured size.
	ReadBlock() ([]byte, error)

	// SampleRate of the PCM stream in Hz.
	SampleRate() int
}

// Result is the outcome of a batch scan.
type Result struct {
	Segments []timeline.Segment
	Stats    ltc.Stats
}

// LTCSegments decodes an entire PCM stream and aggregates the latched
// timecode into segments, one observation per block. Frame indices are
// derived from the sample offset of each block and the clip's nominal
// frame rate. Observations while the latch has never synced are
// skipped, so leading silence produces no segments.
func LTCSegments(r BlockReader, clip timeline.Clip, permissive bool) (Result, error) {
	if clip.FrameRate <= 0 {
		return Result{}, fmt.Errorf("scan: clip frame rate must be positive, got %d", clip.FrameRate)
	}
	sampleRate := r.SampleRate()
	if sampleRate <= 0 {
		return Result{}, fmt.Errorf("scan: source sample rate must be positive, got %d", sampleRate)
	}

	var latch ltc.Latch
	dec := ltc.NewDecoder(ltc.Config{
		SampleRate: sampleRate,
		Permissive: permissive,
		OnFrame:    func(f ltc.Frame) { latch.Update(f.TC) },
	})
	agg := timeline.NewAggregator(clip)

	sampleOffset := int64(0)
	for {
		block, err := r.ReadBlock()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Result{}, fmt.Errorf("scan: reading PCM block: %w", err)
		}
		frame := frameIndex(sampleOffset, sampleRate, clip.FrameRate)
		dec.Feed(block)
		if tc, synced := latch.Read(); synced {
			agg.Observe(tc, frame)
		}
		sampleOffset += int64(len(block) / 2)
	}

	last := frameIndex(sampleOffset, sampleRate, clip.FrameRate) - 1
	if last < 0 {
		last = 0
	}
	return Result{
		Segments: agg.Finish(last),
		Stats:    dec.Stats(),
	}, nil
}

// QRSegments aggregates pre-validated QR observations into segments.
// totalFrames, when positive, closes the final segment at the source's
// last frame; otherwise the last observed index is used.
func QRSegments(obs []qr.Observation, clip timeline.Clip, totalFrames int) Result {
	agg := timeline.NewAggregator(clip)
	last := 0
	for _, o := range obs {
		agg.Observe(o.TC, o.FrameIndex)
		last = o.FrameIndex
	}
	if totalFrames > 0 {
		last = totalFrames - 1
	}
	return Result{Segments: agg.Finish(last)}
}

// frameIndex maps a sample offset to a video frame index.
func frameIndex(sampleOffset int64, sampleRate, frameRate int) int {
	return int(sampleOffset * int64(frameRate) / int64(sampleRate))
}

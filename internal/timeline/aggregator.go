package timeline

import "github.com/linuxmatters/tcgrab/internal/ltc"

// Aggregator run-length-compresses an ordered stream of (timecode,
// frame index) observations for one source into segments.
//
// An all-zero timecode is treated as "no detection" and skipped: it
// never opens or closes a segment. Pipelines that can tell a genuine
// zero jam from no signal (via the latch's sync state) simply do not
// call Observe while unsynced, so the skip only guards the legacy path.
//
// One segment is open at a time. It closes when the observed timecode
// changes, or at Finish.
type Aggregator struct {
	clip       Clip
	prev       ltc.Timecode
	startFrame int
	open       bool
	segments   []Segment
}

// NewAggregator returns an Aggregator for one source.
func NewAggregator(clip Clip) *Aggregator {
	return &Aggregator{clip: clip}
}

// Observe records one timecode observation at the given frame index.
// Observations must arrive in frame order.
func (a *Aggregator) Observe(tc ltc.Timecode, frame int) {
	if tc.IsZero() {
		return
	}
	if !a.open {
		a.prev = tc
		a.startFrame = frame
		a.open = true
		return
	}
	if tc == a.prev {
		return
	}
	a.close(frame - 1)
	a.prev = tc
	a.startFrame = frame
	a.open = true
}

// Finish closes any open segment at lastFrame and returns all segments.
// For file sources lastFrame is the source's total frame count minus
// one; for open-ended streams, the last observed index. A stream with
// no detections yields no segments.
func (a *Aggregator) Finish(lastFrame int) []Segment {
	if a.open {
		a.close(lastFrame)
	}
	return a.segments
}

func (a *Aggregator) close(endFrame int) {
	a.segments = append(a.segments, Segment{
		Clip:       a.clip,
		TC:         a.prev,
		StartFrame: a.startFrame,
		EndFrame:   endFrame,
	})
	a.open = false
}

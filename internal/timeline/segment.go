// Package timeline compresses per-frame timecode observations into
// contiguous editorial segments and exports them in the DaVinci Resolve
// CSV metadata format.
package timeline

import "github.com/linuxmatters/tcgrab/internal/ltc"

// Clip carries the per-source metadata that rides along on every
// segment. The aggregator computes nothing from these fields except
// FrameRate; the rest are caller-supplied constants copied straight
// into the CSV columns.
type Clip struct {
	FileName      string
	ClipDirectory string
	DurationTC    string
	FrameRate     int

	AudioSampleRate string
	AudioChannels   string
	Resolution      string
	VideoCodec      string
	AudioCodec      string
	BitDepth        string
	FieldDominance  string
	DataLevel       string
	AudioBitDepth   string
	DateModified    string
}

// Segment is a contiguous run of frames sharing one timecode value.
//
// For a given source, segments are ordered by StartFrame and their
// frame ranges are contiguous and non-overlapping.
type Segment struct {
	Clip Clip

	// TC is the timecode observed throughout the run. It fills both the
	// Start TC and End TC columns of the export schema.
	TC ltc.Timecode

	StartFrame int
	EndFrame   int
}

// Frames is the number of frames the segment spans.
func (s Segment) Frames() int {
	return s.EndFrame - s.StartFrame + 1
}

package scan

import (
	"io"
	"testing"

	"github.com/linuxmatters/tcgrab/internal/ltc"
	"github.com/linuxmatters/tcgrab/internal/qr"
	"github.com/linuxmatters/tcgrab/internal/timeline"
)

// fakeBlockReader serves a prepared PCM buffer in fixed-size blocks.
type fakeBlockReader struct {
	pcm        []byte
	off        int
	blockBytes int
	rate       int
}

func (r *fakeBlockReader) ReadBlock() ([]byte, error) {
	if r.off >= len(r.pcm) {
		return nil, io.EOF
	}
	end := r.off + r.blockBytes
	if end > len(r.pcm) {
		end = len(r.pcm)
	}
	block := r.pcm[r.off:end]
	r.off = end
	return block, nil
}

func (r *fakeBlockReader) SampleRate() int { return r.rate }

// ltcPCM renders frames as biphase-mark PCM at 48kHz/25fps geometry
// (12-sample half cells), with a zero-bit lead-in and a terminating
// edge. Each timecode is rendered repeat times in a row.
func ltcPCM(t *testing.T, repeat int, tcs ...ltc.Timecode) []byte {
	t.Helper()

	const halfCell = 12
	var bits []bool
	bits = append(bits, make([]bool, 8)...) // lead-in zeros
	for _, tc := range tcs {
		for r := 0; r < repeat; r++ {
			bits = append(bits, encodeFrame(tc)...)
		}
	}

	var samples []int16
	level := int16(8000)
	emit := func(n int) {
		for i := 0; i < n; i++ {
			samples = append(samples, level)
		}
	}
	for _, bit := range bits {
		level = -level
		if bit {
			emit(halfCell)
			level = -level
			emit(halfCell)
		} else {
			emit(2 * halfCell)
		}
	}
	level = -level
	emit(2)

	pcm := make([]byte, 2*len(samples))
	for i, s := range samples {
		pcm[2*i] = byte(uint16(s))
		pcm[2*i+1] = byte(uint16(s) >> 8)
	}
	return pcm
}

// encodeFrame lays out the 80 bits of an LTC frame, LSB-first fields
// and the trailing sync word.
func encodeFrame(tc ltc.Timecode) []bool {
	bits := make([]bool, ltc.FrameBits)
	set := func(off, n, v int) {
		for i := 0; i < n; i++ {
			bits[off+i] = v&(1<<i) != 0
		}
	}
	set(0, 4, tc.Frames%10)
	set(8, 2, tc.Frames/10)
	set(16, 4, tc.Seconds%10)
	set(24, 3, tc.Seconds/10)
	set(32, 4, tc.Minutes%10)
	set(40, 3, tc.Minutes/10)
	set(48, 4, tc.Hours%10)
	set(56, 2, tc.Hours/10)
	for i := uint16(0); i < 16; i++ {
		bits[64+i] = ltc.SyncWord&(1<<(15-i)) != 0
	}
	return bits
}

func TestLTCSegmentsTwoValues(t *testing.T) {
	a := ltc.Timecode{Hours: 1}
	b := ltc.Timecode{Hours: 1, Seconds: 30}
	pcm := ltcPCM(t, 6, a, b)

	r := &fakeBlockReader{pcm: pcm, blockBytes: 4096, rate: 48000}
	res, err := LTCSegments(r, timeline.Clip{FrameRate: 25}, false)
	if err != nil {
		t.Fatalf("LTCSegments: %v", err)
	}

	if len(res.Segments) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(res.Segments), res.Segments)
	}
	if res.Segments[0].TC != a || res.Segments[1].TC != b {
		t.Errorf("segment timecodes = %v, %v, want %v, %v",
			res.Segments[0].TC, res.Segments[1].TC, a, b)
	}
	if res.Segments[1].StartFrame != res.Segments[0].EndFrame+1 {
		t.Errorf("segments not contiguous: %+v", res.Segments)
	}
	totalSamples := len(pcm) / 2
	wantLast := totalSamples*25/48000 - 1
	if got := res.Segments[1].EndFrame; got != wantLast {
		t.Errorf("final segment ends at %d, want %d", got, wantLast)
	}
	if res.Stats.Frames == 0 {
		t.Error("no frames decoded")
	}
}

func TestLTCSegmentsSilenceOnly(t *testing.T) {
	r := &fakeBlockReader{pcm: make([]byte, 256*1024), blockBytes: 4096, rate: 48000}
	res, err := LTCSegments(r, timeline.Clip{FrameRate: 25}, false)
	if err != nil {
		t.Fatalf("LTCSegments: %v", err)
	}
	if len(res.Segments) != 0 {
		t.Errorf("silence produced %d segments", len(res.Segments))
	}
}

func TestLTCSegmentsRejectsBadConfig(t *testing.T) {
	r := &fakeBlockReader{rate: 48000}
	if _, err := LTCSegments(r, timeline.Clip{}, false); err == nil {
		t.Error("expected error for zero frame rate")
	}
	if _, err := LTCSegments(&fakeBlockReader{}, timeline.Clip{FrameRate: 25}, false); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestQRSegments(t *testing.T) {
	a := ltc.Timecode{Hours: 2}
	b := ltc.Timecode{Hours: 2, Minutes: 1}
	obs := []qr.Observation{
		{FrameIndex: 0, TC: a},
		{FrameIndex: 1, TC: a},
		{FrameIndex: 2, TC: b},
	}

	res := QRSegments(obs, timeline.Clip{FrameRate: 25}, 100)
	if len(res.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(res.Segments))
	}
	if res.Segments[0].EndFrame != 1 {
		t.Errorf("first segment ends at %d, want 1", res.Segments[0].EndFrame)
	}
	if res.Segments[1].EndFrame != 99 {
		t.Errorf("final segment ends at %d, want totalFrames-1 = 99", res.Segments[1].EndFrame)
	}
}

func TestQRSegmentsNoTotal(t *testing.T) {
	obs := []qr.Observation{
		{FrameIndex: 10, TC: ltc.Timecode{Hours: 3}},
		{FrameIndex: 11, TC: ltc.Timecode{Hours: 3}},
	}
	res := QRSegments(obs, timeline.Clip{FrameRate: 25}, 0)
	if len(res.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(res.Segments))
	}
	if res.Segments[0].EndFrame != 11 {
		t.Errorf("segment ends at %d, want last observed index 11", res.Segments[0].EndFrame)
	}
}

func TestQRSegmentsEmpty(t *testing.T) {
	res := QRSegments(nil, timeline.Clip{FrameRate: 25}, 500)
	if len(res.Segments) != 0 {
		t.Errorf("empty observations produced %d segments", len(res.Segments))
	}
}

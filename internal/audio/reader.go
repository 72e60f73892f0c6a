// Package audio extracts a conditioned PCM stream from a media file
// using ffmpeg-go. The LTC decoder wants mono 16-bit samples at a known
// rate; whatever the container holds is decoded and resampled to that.
package audio

import (
	"errors"
	"fmt"
	"io"
	"unsafe"

	ffmpeg "github.com/csnewman/ffmpeg-go"
)

// Output format of every Reader. 48kHz matches the usual LTC capture
// chain and keeps the decoder's clock seed accurate.
const (
	OutputSampleRate = 48000
	outputFilterSpec = "aresample=48000,aformat=sample_fmts=s16:channel_layouts=mono"
)

// Metadata describes the source audio stream before conditioning.
type Metadata struct {
	Duration   float64 // seconds
	SampleRate int
	Channels   int
}

// Reader decodes the first audio stream of a media file and serves it
// as fixed-size blocks of mono 48kHz little-endian s16 PCM.
type Reader struct {
	fmtCtx    *ffmpeg.AVFormatContext
	decCtx    *ffmpeg.AVCodecContext
	streamIdx int

	graph   *ffmpeg.AVFilterGraph
	srcCtx  *ffmpeg.AVFilterContext
	sinkCtx *ffmpeg.AVFilterContext

	frame    *ffmpeg.AVFrame
	filtered *ffmpeg.AVFrame
	packet   *ffmpeg.AVPacket

	blockBytes int
	pending    []byte
	demuxDone  bool
	flushed    bool
}

// Open opens a media file and prepares the conditioning chain.
// blockSamples is the number of samples per ReadBlock.
func Open(filename string, blockSamples int) (*Reader, *Metadata, error) {
	if blockSamples <= 0 {
		return nil, nil, fmt.Errorf("audio: block size must be positive, got %d", blockSamples)
	}

	var fmtCtx *ffmpeg.AVFormatContext
	filenameC := ffmpeg.ToCStr(filename)
	defer filenameC.Free()

	if _, err := ffmpeg.AVFormatOpenInput(&fmtCtx, filenameC, nil, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	if _, err := ffmpeg.AVFormatFindStreamInfo(fmtCtx, nil); err != nil {
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, nil, fmt.Errorf("failed to find stream info: %w", err)
	}

	// Find the first audio stream.
	streamIdx := -1
	var audioStream *ffmpeg.AVStream
	streams := fmtCtx.Streams()
	for i := 0; i < int(fmtCtx.NbStreams()); i++ {
		stream := streams.Get(uintptr(i))
		if stream.Codecpar().CodecType() == ffmpeg.AVMediaTypeAudio {
			streamIdx = i
			audioStream = stream
			break
		}
	}
	if streamIdx == -1 {
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, nil, fmt.Errorf("no audio stream found in file: %s", filename)
	}

	codecPar := audioStream.Codecpar()
	decoder := ffmpeg.AVCodecFindDecoder(codecPar.CodecId())
	if decoder == nil {
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, nil, fmt.Errorf("decoder not found for codec ID %d in file: %s", codecPar.CodecId(), filename)
	}

	decCtx := ffmpeg.AVCodecAllocContext3(decoder)
	if decCtx == nil {
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, nil, fmt.Errorf("failed to allocate decoder context for file: %s", filename)
	}
	if _, err := ffmpeg.AVCodecParametersToContext(decCtx, codecPar); err != nil {
		ffmpeg.AVCodecFreeContext(&decCtx)
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, nil, fmt.Errorf("failed to copy codec parameters: %w", err)
	}
	if _, err := ffmpeg.AVCodecOpen2(decCtx, decoder, nil); err != nil {
		ffmpeg.AVCodecFreeContext(&decCtx)
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, nil, fmt.Errorf("failed to open decoder: %w", err)
	}

	graph, srcCtx, sinkCtx, err := setupFilterGraph(decCtx, outputFilterSpec)
	if err != nil {
		ffmpeg.AVCodecFreeContext(&decCtx)
		ffmpeg.AVFormatCloseInput(&fmtCtx)
		return nil, nil, err
	}

	metadata := &Metadata{
		Duration:   float64(fmtCtx.Duration()) / float64(ffmpeg.AVTimeBase),
		SampleRate: decCtx.SampleRate(),
		Channels:   decCtx.ChLayout().NbChannels(),
	}

	return &Reader{
		fmtCtx:     fmtCtx,
		decCtx:     decCtx,
		streamIdx:  streamIdx,
		graph:      graph,
		srcCtx:     srcCtx,
		sinkCtx:    sinkCtx,
		frame:      ffmpeg.AVFrameAlloc(),
		filtered:   ffmpeg.AVFrameAlloc(),
		packet:     ffmpeg.AVPacketAlloc(),
		blockBytes: blockSamples * 2,
	}, metadata, nil
}

// SampleRate of the conditioned output stream.
func (r *Reader) SampleRate() int {
	return OutputSampleRate
}

// ReadBlock returns the next PCM block. The final block may be short;
// io.EOF follows once the stream is drained.
func (r *Reader) ReadBlock() ([]byte, error) {
	for len(r.pending) < r.blockBytes && !r.flushed {
		if err := r.fill(); err != nil {
			return nil, err
		}
	}
	if len(r.pending) == 0 {
		return nil, io.EOF
	}
	n := r.blockBytes
	if n > len(r.pending) {
		n = len(r.pending)
	}
	block := r.pending[:n]
	r.pending = r.pending[n:]
	return block, nil
}

// fill pushes one more decoded frame through the filter graph (or the
// flush sentinel at EOF) and drains the sink into the pending buffer.
func (r *Reader) fill() error {
	frame, err := r.readFrame()
	if err != nil {
		return err
	}
	if _, err := ffmpeg.AVBuffersrcAddFrameFlags(r.srcCtx, frame, 0); err != nil {
		return fmt.Errorf("failed to add frame to filter: %w", err)
	}
	if frame == nil {
		r.flushed = true
	}

	for {
		if _, err := ffmpeg.AVBuffersinkGetFrame(r.sinkCtx, r.filtered); err != nil {
			if errors.Is(err, ffmpeg.EAgain) || errors.Is(err, ffmpeg.AVErrorEOF) {
				return nil
			}
			return fmt.Errorf("failed to get filtered frame: %w", err)
		}
		r.appendSamples(r.filtered)
		ffmpeg.AVFrameUnref(r.filtered)
	}
}

// readFrame returns the next decoded audio frame, or nil at EOF.
func (r *Reader) readFrame() (*ffmpeg.AVFrame, error) {
	for {
		if _, err := ffmpeg.AVCodecReceiveFrame(r.decCtx, r.frame); err == nil {
			r.frame.SetPts(r.frame.BestEffortTimestamp())
			return r.frame, nil
		} else if !errors.Is(err, ffmpeg.EAgain) {
			if errors.Is(err, ffmpeg.AVErrorEOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to receive frame: %w", err)
		}

		if _, err := ffmpeg.AVReadFrame(r.fmtCtx, r.packet); err != nil {
			if errors.Is(err, ffmpeg.AVErrorEOF) {
				if r.demuxDone {
					return nil, nil
				}
				r.demuxDone = true
				if _, err := ffmpeg.AVCodecSendPacket(r.decCtx, nil); err != nil {
					return nil, fmt.Errorf("failed to flush decoder: %w", err)
				}
				continue
			}
			return nil, fmt.Errorf("failed to read frame: %w", err)
		}

		if r.packet.StreamIndex() != r.streamIdx {
			ffmpeg.AVPacketUnref(r.packet)
			continue
		}
		if _, err := ffmpeg.AVCodecSendPacket(r.decCtx, r.packet); err != nil {
			ffmpeg.AVPacketUnref(r.packet)
			return nil, fmt.Errorf("failed to send packet: %w", err)
		}
		ffmpeg.AVPacketUnref(r.packet)
	}
}

// appendSamples copies a filtered s16 mono frame into the pending
// buffer as little-endian bytes.
func (r *Reader) appendSamples(frame *ffmpeg.AVFrame) {
	nb := int(frame.NbSamples())
	if nb == 0 {
		return
	}
	dataPtr := frame.Data().Get(0)
	if dataPtr == nil {
		return
	}
	samples := unsafe.Slice((*int16)(dataPtr), nb)
	for _, s := range samples {
		r.pending = append(r.pending, byte(uint16(s)), byte(uint16(s)>>8))
	}
}

// Close releases all resources.
func (r *Reader) Close() {
	if r.frame != nil {
		ffmpeg.AVFrameFree(&r.frame)
	}
	if r.filtered != nil {
		ffmpeg.AVFrameFree(&r.filtered)
	}
	if r.packet != nil {
		ffmpeg.AVPacketFree(&r.packet)
	}
	if r.graph != nil {
		ffmpeg.AVFilterGraphFree(&r.graph)
	}
	if r.decCtx != nil {
		ffmpeg.AVCodecFreeContext(&r.decCtx)
	}
	if r.fmtCtx != nil {
		ffmpeg.AVFormatCloseInput(&r.fmtCtx)
	}
}

// Package capture runs the LTC decoder against a live PCM source. The
// listener owns a worker goroutine that pulls blocks from the source and
// feeds them to the decoder; readers observe progress through the shared
// timecode latch and atomic counters.
package capture

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/linuxmatters/tcgrab/internal/ltc"
)

// BlockSource supplies raw PCM bytes. Implementations wrap audio
// devices, pipes, or files.
type BlockSource interface {
	// ReadBlock fills buf with PCM bytes and returns the count read.
	// io.EOF ends the stream.
	ReadBlock(buf []byte) (int, error)

	// Close releases the source. Called exactly once by the listener.
	Close() error
}

// readerSource adapts an io.ReadCloser into a BlockSource.
type readerSource struct {
	rc io.ReadCloser
}

// NewReaderSource wraps a stream such as stdin or an open file.
func NewReaderSource(rc io.ReadCloser) BlockSource {
	return &readerSource{rc: rc}
}

func (s *readerSource) ReadBlock(buf []byte) (int, error) {
	return s.rc.Read(buf)
}

func (s *readerSource) Close() error {
	return s.rc.Close()
}

// Config for a Listener.
type Config struct {
	// SampleRate of the incoming PCM stream in Hz.
	SampleRate int

	// BlockSize is the number of samples read per block.
	BlockSize int

	// Permissive passes malformed frames through instead of dropping
	// them.
	Permissive bool

	Logger zerolog.Logger
}

// Stats is a snapshot of listener progress.
type Stats struct {
	Blocks    uint64
	Samples   uint64
	Frames    uint64
	Malformed uint64
}

// Listener decodes a live PCM stream on a background goroutine and
// publishes the most recent timecode through a latch.
type Listener struct {
	cfg    Config
	source BlockSource
	latch  *ltc.Latch
	log    zerolog.Logger

	blocks    atomic.Uint64
	samples   atomic.Uint64
	frames    atomic.Uint64
	malformed atomic.Uint64

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once
	closeErr  error
	stop      chan struct{}
	done      chan struct{}
	err       error
}

// NewListener builds a listener over a source. The source is owned by
// the listener from this point and closed during Stop.
func NewListener(source BlockSource, cfg Config) (*Listener, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("capture: sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("capture: block size must be positive, got %d", cfg.BlockSize)
	}
	return &Listener{
		cfg:    cfg,
		source: source,
		latch:  &ltc.Latch{},
		log:    cfg.Logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Latch returns the shared timecode latch. Safe to read from any
// goroutine while the listener runs.
func (l *Listener) Latch() *ltc.Latch {
	return l.latch
}

// Stats returns a snapshot of the listener's counters.
func (l *Listener) Stats() Stats {
	return Stats{
		Blocks:    l.blocks.Load(),
		Samples:   l.samples.Load(),
		Frames:    l.frames.Load(),
		Malformed: l.malformed.Load(),
	}
}

// Start launches the decode worker. Calling Start again on a running or
// stopped listener is a no-op.
func (l *Listener) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.stopped {
		return
	}
	l.started = true
	go l.run()
}

// Stop asks the worker to finish and waits for it. Closing the source
// also unblocks a worker stuck in a read. The source is closed exactly
// once; Stop is safe to call multiple times and without a prior Start.
// Returns the first error the worker hit, if any.
func (l *Listener) Stop() error {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		close(l.stop)
	}
	started := l.started
	l.mu.Unlock()

	l.closeSource()
	if started {
		<-l.done
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Listener) closeSource() {
	l.closeOnce.Do(func() {
		l.closeErr = l.source.Close()
		if l.closeErr != nil {
			l.log.Warn().Err(l.closeErr).Msg("closing source")
		}
	})
}

func (l *Listener) run() {
	defer close(l.done)

	dec := ltc.NewDecoder(ltc.Config{
		SampleRate: l.cfg.SampleRate,
		Permissive: l.cfg.Permissive,
		OnFrame: func(f ltc.Frame) {
			l.latch.Update(f.TC)
			l.log.Debug().Stringer("timecode", f.TC).Msg("frame decoded")
		},
	})

	l.log.Info().
		Int("sample_rate", l.cfg.SampleRate).
		Int("block_size", l.cfg.BlockSize).
		Msg("listener started")

	buf := make([]byte, l.cfg.BlockSize*2)
	for {
		select {
		case <-l.stop:
			l.finish(dec)
			return
		default:
		}

		n, err := l.source.ReadBlock(buf)
		if n > 0 {
			dec.Feed(buf[:n])
			l.blocks.Add(1)
			l.samples.Add(uint64(n / 2))
			stats := dec.Stats()
			l.frames.Store(uint64(stats.Frames))
			l.malformed.Store(uint64(stats.Malformed))
		}
		if err != nil {
			// Reads failing after Stop closed the source are the
			// shutdown path, not a fault.
			stopping := false
			select {
			case <-l.stop:
				stopping = true
			default:
			}
			if !stopping && !errors.Is(err, io.EOF) {
				l.setErr(fmt.Errorf("capture: reading block: %w", err))
				l.log.Error().Err(err).Msg("source read failed")
			}
			l.finish(dec)
			return
		}
	}
}

func (l *Listener) finish(dec *ltc.Decoder) {
	stats := dec.Stats()
	l.frames.Store(uint64(stats.Frames))
	l.malformed.Store(uint64(stats.Malformed))
	l.log.Info().
		Uint64("blocks", l.blocks.Load()).
		Int("frames", stats.Frames).
		Int("malformed", stats.Malformed).
		Msg("listener finished")
}

func (l *Listener) setErr(err error) {
	l.mu.Lock()
	if l.err == nil {
		l.err = err
	}
	l.mu.Unlock()
}

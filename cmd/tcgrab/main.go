package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	ffmpeg "github.com/csnewman/ffmpeg-go"
	"github.com/rs/zerolog"

	"github.com/linuxmatters/tcgrab/internal/audio"
	"github.com/linuxmatters/tcgrab/internal/capture"
	"github.com/linuxmatters/tcgrab/internal/cli"
	"github.com/linuxmatters/tcgrab/internal/config"
	"github.com/linuxmatters/tcgrab/internal/logging"
	"github.com/linuxmatters/tcgrab/internal/ltc"
	"github.com/linuxmatters/tcgrab/internal/qr"
	"github.com/linuxmatters/tcgrab/internal/region"
	"github.com/linuxmatters/tcgrab/internal/scan"
	"github.com/linuxmatters/tcgrab/internal/timeline"
	"github.com/linuxmatters/tcgrab/internal/ui"
)

var (
	version = "0.0.1"
)

// blockSamples is the PCM block size for batch scans. Small enough for
// roughly one observation per video frame at 48kHz/25fps.
const blockSamples = 2048

// CLI defines the command-line interface
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version information"`

	Ltc    LtcCmd    `cmd:"" help:"Extract LTC timecode segments from a media file's audio track"`
	Qr     QrCmd     `cmd:"" help:"Aggregate QR timecode observations into segments"`
	Listen ListenCmd `cmd:"" help:"Monitor a live PCM stream for LTC timecode"`
}

func main() {
	// Suppress FFmpeg info/verbose logging to keep console clean
	ffmpeg.AVLogSetLevel(ffmpeg.AVLogError)

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("tcgrab"),
		kong.Description("Timecode extraction for video and audio captures"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if err := ctx.Run(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// LtcCmd scans a media file's audio track for LTC.
type LtcCmd struct {
	Input      string `arg:"" name:"input" help:"Media file with an LTC audio track" type:"existingfile"`
	Output     string `short:"o" help:"CSV output path (default: input with .csv extension)" type:"path"`
	Fps        int    `help:"Video frame rate (default: detected from timezone)"`
	Permissive bool   `help:"Keep frames that fail strict validation"`
}

func (c *LtcCmd) Run() error {
	fps := c.Fps
	if fps <= 0 {
		fps = region.DefaultFrameRate()
	}

	reader, meta, err := audio.Open(c.Input, blockSamples)
	if err != nil {
		return err
	}
	defer reader.Close()

	clip := timeline.Clip{
		FileName:      filepath.Base(c.Input),
		ClipDirectory: clipDirectory(c.Input),
		DurationTC:    durationTC(meta.Duration, fps),
		FrameRate:     fps,

		// The capture chain these clips come from records uncompressed
		// PCM alongside the video.
		AudioSampleRate: "48000",
		AudioChannels:   "2",
		AudioCodec:      "PCM",
		BitDepth:        "16",
		AudioBitDepth:   "16",
		DateModified:    dateModified(c.Input),
	}

	result, err := scan.LTCSegments(reader, clip, c.Permissive)
	if err != nil {
		return err
	}

	output := c.Output
	if output == "" {
		output = csvPath(c.Input)
	}
	if err := timeline.WriteCSVFile(output, result.Segments); err != nil {
		return err
	}

	fmt.Print(logging.Summary(result, fps))
	fmt.Printf("Wrote %s\n", output)
	return nil
}

// QrCmd aggregates timecode observations from an external QR decoder.
type QrCmd struct {
	Observations string `arg:"" name:"observations" help:"CSV of frame_index,payload rows" type:"existingfile"`
	Output       string `short:"o" help:"CSV output path (default: input with .csv extension)" type:"path"`
	Fps          int    `help:"Video frame rate (default: detected from timezone)"`
	TotalFrames  int    `help:"Total frames in the source, closes the final segment"`
	Name         string `help:"Clip file name recorded in the CSV"`
}

func (c *QrCmd) Run() error {
	fps := c.Fps
	if fps <= 0 {
		fps = region.DefaultFrameRate()
	}

	f, err := os.Open(c.Observations)
	if err != nil {
		return err
	}
	obs, err := qr.ReadObservations(f)
	f.Close()
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = filepath.Base(c.Observations)
	}
	clip := timeline.Clip{
		FileName:      name,
		ClipDirectory: clipDirectory(c.Observations),
		FrameRate:     fps,

		// Screen-recorded QR sources are compressed captures.
		VideoCodec:    "H.264",
		AudioCodec:    "AAC",
		BitDepth:      "8",
		DataLevel:     "Legal",
		AudioBitDepth: "16",
		DateModified:  dateModified(c.Observations),
	}

	result := scan.QRSegments(obs, clip, c.TotalFrames)

	output := c.Output
	if output == "" {
		output = csvPath(c.Observations)
	}
	if err := timeline.WriteCSVFile(output, result.Segments); err != nil {
		return err
	}

	fmt.Print(logging.Summary(result, fps))
	fmt.Printf("Wrote %s\n", output)
	return nil
}

// ListenCmd monitors a live PCM stream and shows the latched timecode.
type ListenCmd struct {
	Input string `arg:"" name:"input" optional:"" help:"Raw PCM file to monitor (default: stdin)" type:"existingfile"`
}

func (c *ListenCmd) Run() error {
	cfg, err := config.LoadListen()
	if err != nil {
		return err
	}

	debugLog, err := os.Create("tcgrab-debug.log")
	if err != nil {
		return err
	}
	defer debugLog.Close()
	logger := zerolog.New(debugLog).With().Timestamp().Logger()

	var source capture.BlockSource
	if c.Input == "" {
		source = capture.NewReaderSource(os.Stdin)
	} else {
		f, err := os.Open(c.Input)
		if err != nil {
			return err
		}
		source = capture.NewReaderSource(f)
	}

	listener, err := capture.NewListener(source, capture.Config{
		SampleRate: cfg.SampleRate,
		BlockSize:  cfg.BlockSize,
		Permissive: cfg.Permissive,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	listener.Start()

	p := tea.NewProgram(ui.NewModel(listener), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		listener.Stop()
		return fmt.Errorf("UI error: %w", err)
	}
	return listener.Stop()
}

// csvPath swaps the input's extension for .csv.
func csvPath(input string) string {
	ext := filepath.Ext(input)
	return input[:len(input)-len(ext)] + ".csv"
}

// clipDirectory is the absolute directory of the input file, or the
// relative one if resolution fails.
func clipDirectory(input string) string {
	dir := filepath.Dir(input)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// dateModified formats the file's mtime for the CSV, empty on error.
func dateModified(input string) string {
	info, err := os.Stat(input)
	if err != nil {
		return ""
	}
	return info.ModTime().Format("Mon Jan 2 2006 15:04:05")
}

// durationTC renders a duration in seconds as HH:MM:SS:FF at the clip
// frame rate.
func durationTC(seconds float64, fps int) string {
	if seconds <= 0 || fps <= 0 {
		return ""
	}
	totalFrames := int(seconds * float64(fps))
	tc := ltc.Timecode{
		Hours:   totalFrames / (3600 * fps),
		Minutes: totalFrames / (60 * fps) % 60,
		Seconds: totalFrames / fps % 60,
		Frames:  totalFrames % fps,
	}
	return tc.String()
}

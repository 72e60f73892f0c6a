package timeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// csvHeader is the fixed 19-column DaVinci Resolve media pool schema.
// Column order matters; Resolve matches by position on import.
var csvHeader = []string{
	"File Name", "Clip Directory", "Duration TC", "Frame Rate",
	"Audio Sample Rate", "Audio Channels", "Resolution", "Video Codec",
	"Audio Codec", "Start TC", "End TC", "Start Frame", "End Frame",
	"Frames", "Bit Depth", "Field Dominance", "Data Level",
	"Audio Bit Depth", "Date Modified",
}

// WriteCSV writes segments in the DaVinci Resolve CSV format.
func WriteCSV(w io.Writer, segments []Segment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, s := range segments {
		tc := s.TC.String()
		row := []string{
			s.Clip.FileName,
			s.Clip.ClipDirectory,
			s.Clip.DurationTC,
			strconv.Itoa(s.Clip.FrameRate),
			s.Clip.AudioSampleRate,
			s.Clip.AudioChannels,
			s.Clip.Resolution,
			s.Clip.VideoCodec,
			s.Clip.AudioCodec,
			tc,
			tc,
			strconv.Itoa(s.StartFrame),
			strconv.Itoa(s.EndFrame),
			strconv.Itoa(s.Frames()),
			s.Clip.BitDepth,
			s.Clip.FieldDominance,
			s.Clip.DataLevel,
			s.Clip.AudioBitDepth,
			s.Clip.DateModified,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes segments to a new file at path.
func WriteCSVFile(path string, segments []Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, segments); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

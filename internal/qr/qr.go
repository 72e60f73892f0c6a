// Package qr validates timecode payloads recovered from QR codes and
// parses pre-decoded observation lists.
//
// Decoding QR images is a collaborator's job; this package takes the
// text payloads an external decoder produced, one per video frame, and
// turns the valid ones into timecode observations for the segment
// aggregator.
package qr

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/linuxmatters/tcgrab/internal/ltc"
)

// Generators sometimes wrap the timecode in brackets or quotes
// ("[01:00:00:00]", "\"01:00:00:00\""); both layers are stripped before
// validation.
var timecodePattern = regexp.MustCompile(`^\d\d:\d\d:\d\d:\d\d`)

// Observation is one validated timecode seen at a video frame.
type Observation struct {
	FrameIndex int
	TC         ltc.Timecode
}

// Normalize strips bracket and quote wrapping from a payload and
// validates it against the HH:MM:SS:FF pattern. It returns the
// timecode text and whether the payload was a timecode at all.
func Normalize(payload string) (string, bool) {
	s := strings.TrimSpace(payload)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") && len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	m := timecodePattern.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}

// ParsePayload normalizes a payload and parses it into a Timecode.
func ParsePayload(payload string) (ltc.Timecode, bool) {
	s, ok := Normalize(payload)
	if !ok {
		return ltc.Timecode{}, false
	}
	tc, err := ltc.ParseTimecode(s)
	if err != nil {
		return ltc.Timecode{}, false
	}
	return tc, true
}

// ReadObservations parses a "frame_index,payload" CSV stream produced
// by an external QR decoder. Rows whose payload fails validation are
// skipped; a frame with no readable code is normal, not an error.
// A malformed frame index is an error: it means the file is not an
// observation list at all.
func ReadObservations(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var obs []Observation
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read observation list: %w", err)
		}
		line++
		if len(record) < 2 {
			continue
		}
		frame, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: bad frame index %q: %w", line, record[0], err)
		}
		tc, ok := ParsePayload(record[1])
		if !ok {
			continue
		}
		obs = append(obs, Observation{FrameIndex: frame, TC: tc})
	}
	return obs, nil
}

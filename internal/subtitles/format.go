package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Style selects the millisecond separator used by FormatTimestamp.
type Style int

const (
	// StyleVTT renders HH:MM:SS.mmm.
	StyleVTT Style = iota
	// StyleSRT renders HH:MM:SS,mmm.
	StyleSRT
)

const (
	vttHeader = "WEBVTT"
	cueArrow  = " --> "
)

// Cue is one timed span of text. Start and End are offsets in seconds.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// FormatTimestamp renders seconds as a fixed-width subtitle timestamp. Hours
// are not wrapped at 24. The value is rounded to the nearest millisecond
// before it is split into fields, so 59.9996 renders as 00:01:00.000.
// Negative or non-finite input is a programming error and panics.
func FormatTimestamp(seconds float64, style Style) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		panic(fmt.Sprintf("subtitles: invalid timestamp %v", seconds))
	}
	total := int64(math.Round(seconds * 1000))
	hours := total / 3_600_000
	minutes := (total % 3_600_000) / 60_000
	secs := (total % 60_000) / 1000
	millis := total % 1000

	sep := '.'
	if style == StyleSRT {
		sep = ','
	}

	var b strings.Builder
	b.Grow(12)
	writePadded(&b, hours)
	b.WriteByte(':')
	writePadded(&b, minutes)
	b.WriteByte(':')
	writePadded(&b, secs)
	b.WriteRune(sep)
	if millis < 100 {
		b.WriteByte('0')
	}
	if millis < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(millis, 10))
	return b.String()
}

func writePadded(b *strings.Builder, value int64) {
	if value < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(value, 10))
}

// ToSRT renders cues as SubRip: a 1-based index line, the timing line, the
// trimmed text and a blank separator line per cue.
func ToSRT(cues []Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		writeTiming(&b, cue, StyleSRT)
		b.WriteString(strings.TrimSpace(cue.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// ToVTT renders cues as WebVTT: the WEBVTT header and a blank line, then the
// timing line, trimmed text and a blank separator per cue. WebVTT output
// carries no index lines.
func ToVTT(cues []Cue) string {
	var b strings.Builder
	b.WriteString(vttHeader)
	b.WriteString("\n\n")
	for _, cue := range cues {
		writeTiming(&b, cue, StyleVTT)
		b.WriteString(strings.TrimSpace(cue.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

func writeTiming(b *strings.Builder, cue Cue, style Style) {
	b.WriteString(FormatTimestamp(cue.Start, style))
	b.WriteString(cueArrow)
	b.WriteString(FormatTimestamp(cue.End, style))
	b.WriteByte('\n')
}

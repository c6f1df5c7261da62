package transcription

import (
	"context"
	"fmt"
	"strings"

	"scribe/internal/project"
	"scribe/internal/services"
	"scribe/internal/subtitles"
)

// Segment is one timed utterance returned by a Transcriber.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is the full output of one transcription call.
type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Transcriber converts an audio file into a Result.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (Result, error)
	Model() string
}

// Format selects which representations are written.
type Format string

const (
	FormatText Format = "text"
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatJSON Format = "json"
	FormatAll  Format = "all"
)

// ParseFormat validates a format selector. Empty input selects all formats.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return FormatAll, nil
	case FormatText, FormatSRT, FormatVTT, FormatJSON, FormatAll:
		return f, nil
	default:
		return "", services.Wrap(services.ErrValidation, "transcription", "parse format", fmt.Sprintf("unsupported output format %q", value), nil)
	}
}

// Includes reports whether the selector requests the given representation.
func (f Format) Includes(target project.Format) bool {
	if f == FormatAll {
		return true
	}
	return string(f) == string(target)
}

func (r Result) cues() []subtitles.Cue {
	cues := make([]subtitles.Cue, 0, len(r.Segments))
	for _, seg := range r.Segments {
		cues = append(cues, subtitles.Cue{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return cues
}

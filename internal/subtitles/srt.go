package subtitles

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Summary describes the timing of a subtitle file on disk.
type Summary struct {
	Cues  int
	First float64
	Last  float64
}

// Inspect reads an SRT or WebVTT file and reports its cue count and the
// earliest start and latest end offsets.
func Inspect(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read subtitles: %w", err)
	}
	return summarize(string(data)), nil
}

func summarize(content string) Summary {
	var summary Summary
	first := math.Inf(1)
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		start, errStart := ParseTimestamp(parts[0])
		end, errEnd := ParseTimestamp(parts[1])
		if errStart != nil || errEnd != nil {
			continue
		}
		summary.Cues++
		if start < first {
			first = start
		}
		if end > summary.Last {
			summary.Last = end
		}
	}
	if summary.Cues > 0 {
		summary.First = first
	}
	return summary
}

// ParseTimestamp parses HH:MM:SS,mmm or HH:MM:SS.mmm into seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("negative timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

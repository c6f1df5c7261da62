package subtitles

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		style   Style
		want    string
	}{
		{0, StyleVTT, "00:00:00.000"},
		{0, StyleSRT, "00:00:00,000"},
		{1.5, StyleVTT, "00:00:01.500"},
		{3.25, StyleSRT, "00:00:03,250"},
		{61.001, StyleVTT, "00:01:01.001"},
		{3599.999, StyleSRT, "00:59:59,999"},
		{3600, StyleVTT, "01:00:00.000"},
		{59.9996, StyleVTT, "00:01:00.000"},
		{12.0004, StyleSRT, "00:00:12,000"},
		{90000.5, StyleVTT, "25:00:00.500"},
		{360000, StyleSRT, "100:00:00,000"},
	}
	for _, tc := range tests {
		if got := FormatTimestamp(tc.seconds, tc.style); got != tc.want {
			t.Fatalf("FormatTimestamp(%v, %v) = %q, want %q", tc.seconds, tc.style, got, tc.want)
		}
	}
}

func TestFormatTimestampShape(t *testing.T) {
	pattern := regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})[.,](\d{3})$`)
	for i := 0; i < 5000; i++ {
		seconds := float64(i) * 7.3127
		for _, style := range []Style{StyleSRT, StyleVTT} {
			got := FormatTimestamp(seconds, style)
			m := pattern.FindStringSubmatch(got)
			if m == nil {
				t.Fatalf("FormatTimestamp(%v) = %q does not match HH:MM:SS[.,]mmm", seconds, got)
			}
			wantSep := "."
			if style == StyleSRT {
				wantSep = ","
			}
			if got[len(got)-4:len(got)-3] != wantSep {
				t.Fatalf("unexpected separator in %q", got)
			}
			totalMillis := int64(math.Round(seconds * 1000))
			hours, _ := strconv.ParseInt(m[1], 10, 64)
			minutes, _ := strconv.ParseInt(m[2], 10, 64)
			secs, _ := strconv.ParseInt(m[3], 10, 64)
			millis, _ := strconv.ParseInt(m[4], 10, 64)
			if minutes > 59 || secs > 59 {
				t.Fatalf("field overflow in %q", got)
			}
			if hours*3_600_000+minutes*60_000+secs*1000+millis != totalMillis {
				t.Fatalf("FormatTimestamp(%v) = %q, fields do not sum to %d ms", seconds, got, totalMillis)
			}
		}
	}
}

func TestFormatTimestampPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative input")
		}
	}()
	FormatTimestamp(-0.5, StyleSRT)
}

func TestToVTTExample(t *testing.T) {
	cues := []Cue{{Start: 0, End: 1.5, Text: "hello "}, {Start: 1.5, End: 3.25, Text: "world"}}
	want := "WEBVTT\n\n00:00:00.000 --> 00:00:01.500\nhello\n\n00:00:01.500 --> 00:00:03.250\nworld\n\n"
	if got := ToVTT(cues); got != want {
		t.Fatalf("ToVTT mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestToSRTExample(t *testing.T) {
	cues := []Cue{{Start: 0, End: 1.5, Text: "  hello "}, {Start: 1.5, End: 3.25, Text: "world\n"}}
	want := "1\n00:00:00,000 --> 00:00:01,500\nhello\n\n2\n00:00:01,500 --> 00:00:03,250\nworld\n\n"
	if got := ToSRT(cues); got != want {
		t.Fatalf("ToSRT mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestToSRTIndexLines(t *testing.T) {
	cues := make([]Cue, 0, 25)
	for i := 0; i < 25; i++ {
		cues = append(cues, Cue{Start: float64(i), End: float64(i) + 0.9, Text: "line " + strconv.Itoa(i)})
	}
	out := ToSRT(cues)
	blocks := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")
	if len(blocks) != len(cues) {
		t.Fatalf("expected %d blocks, got %d", len(cues), len(blocks))
	}
	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		if len(lines) != 3 {
			t.Fatalf("block %d has %d lines: %q", i, len(lines), block)
		}
		if lines[0] != strconv.Itoa(i+1) {
			t.Fatalf("block %d index = %q, want %d", i, lines[0], i+1)
		}
		if lines[2] != "line "+strconv.Itoa(i) {
			t.Fatalf("block %d out of order: %q", i, lines[2])
		}
	}
}

func TestToVTTHasNoIndexLines(t *testing.T) {
	cues := []Cue{{Start: 0, End: 1, Text: "a"}, {Start: 1, End: 2, Text: "b"}, {Start: 2, End: 3, Text: "c"}}
	out := ToVTT(cues)
	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Fatalf("missing header: %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if _, err := strconv.Atoi(line); err == nil {
			t.Fatalf("unexpected index line %q in %q", line, out)
		}
	}
}

func TestEmptyCues(t *testing.T) {
	if got := ToSRT(nil); got != "" {
		t.Fatalf("expected empty SRT, got %q", got)
	}
	if got := ToVTT(nil); got != "WEBVTT\n\n" {
		t.Fatalf("expected header only, got %q", got)
	}
}

func TestFormattingIsDeterministic(t *testing.T) {
	cues := []Cue{{Start: 0.333, End: 1.777, Text: "x"}, {Start: 4000.1, End: 4001.25, Text: " y "}}
	if ToSRT(cues) != ToSRT(cues) || ToVTT(cues) != ToVTT(cues) {
		t.Fatal("expected byte-identical output across calls")
	}
}

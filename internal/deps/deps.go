package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement is an external program scribe runs.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports whether a requirement was found on PATH. Path is the
// resolved executable when Available is true.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// Requirements returns the external tools scribe runs. uvx launches
// WhisperX, yt-dlp downloads remote audio and ffmpeg is used by both for
// decoding and transcoding.
func Requirements(ytdlpBinary string) []Requirement {
	ytdlpBinary = strings.TrimSpace(ytdlpBinary)
	if ytdlpBinary == "" {
		ytdlpBinary = "yt-dlp"
	}
	return []Requirement{
		{Name: "uvx", Command: "uvx", Description: "Runs WhisperX for transcription"},
		{Name: "yt-dlp", Command: ytdlpBinary, Description: "Downloads audio from video URLs", Optional: true},
		{Name: "FFmpeg", Command: "ffmpeg", Description: "Decodes and transcodes audio"},
	}
}

// CheckBinaries resolves each requirement's command on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		switch path, err := exec.LookPath(req.Command); {
		case req.Command == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		default:
			status.Available = true
			status.Path = path
		}
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable non-optional tools.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}

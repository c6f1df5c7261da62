package project

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Type distinguishes local audio files from downloaded sources.
type Type int

const (
	TypeLocal Type = iota + 1
	TypeYouTube
)

// ParseType converts a textual project type into a Type.
func ParseType(value string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "local":
		return TypeLocal, nil
	case "youtube":
		return TypeYouTube, nil
	default:
		return 0, fmt.Errorf("unknown project type %q", value)
	}
}

// Prefix returns the folder prefix for the type.
func (t Type) Prefix() string {
	switch t {
	case TypeLocal:
		return "local"
	case TypeYouTube:
		return "youtube"
	default:
		return ""
	}
}

// Valid reports whether t is a known project type.
func (t Type) Valid() bool {
	return t.Prefix() != ""
}

func (t Type) String() string {
	if p := t.Prefix(); p != "" {
		return p
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

var knownTypes = []Type{TypeLocal, TypeYouTube}

// TypeOfFolder returns the project type encoded in a folder name.
func TypeOfFolder(folder string) (Type, bool) {
	for _, t := range knownTypes {
		if strings.HasPrefix(folder, t.Prefix()+"_") {
			return t, true
		}
	}
	return 0, false
}

// Format is a transcript representation persisted by the store.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
)

// Formats lists every persisted representation in write order.
var Formats = []Format{FormatText, FormatJSON, FormatSRT, FormatVTT}

// Extension returns the file extension (without dot) for the format.
func (f Format) Extension() (string, bool) {
	switch f {
	case FormatText:
		return "txt", true
	case FormatJSON:
		return "json", true
	case FormatSRT:
		return "srt", true
	case FormatVTT:
		return "vtt", true
	default:
		return "", false
	}
}

// Paths holds the resolved directories of one project.
type Paths struct {
	Root       string
	Audio      string
	Transcript string
}

// Folder returns the project folder name.
func (p Paths) Folder() string {
	return filepath.Base(p.Root)
}

// Metadata is the free-form source description stored in metadata.json.
type Metadata map[string]any

// String returns the string value stored under key, if any.
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Float returns the numeric value stored under key, if any.
func (m Metadata) Float(key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Settings records the parameters of a transcription run.
type Settings struct {
	Model        string
	Language     string
	OutputFormat string
	AudioFile    string
	ProcessedAt  string
}

// Info describes an existing project on disk.
type Info struct {
	Name             string
	Path             string
	HasAudio         bool
	HasTranscription bool
	Metadata         Metadata
	Settings         *Settings
}

// TranscriptFile returns the path the default transcript of the given format
// would have. The file may not exist.
func (i *Info) TranscriptFile(format Format) string {
	ext, ok := format.Extension()
	if !ok {
		return ""
	}
	return filepath.Join(i.Path, transcriptDirName, defaultBaseName+"."+ext)
}

// OutputFileSet maps each written format to its file path.
type OutputFileSet map[Format]string

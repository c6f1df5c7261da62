package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"scribe/internal/fileutil"
	"scribe/internal/logging"
	"scribe/internal/services"
)

const (
	audioDirName      = "src_audio"
	transcriptDirName = "transcription"
	metadataFileName  = "metadata.json"
	settingsFileName  = "settings.json"
	defaultBaseName   = "transcript"
	locksDirName      = ".locks"
)

// Store manages project directories beneath a single base directory.
type Store struct {
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore returns a store rooted at baseDir. The directory is created lazily
// by CreateProject.
func NewStore(baseDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		baseDir: baseDir,
		logger:  logging.NewComponentLogger(logger, "project"),
		now:     time.Now,
	}
}

// BaseDir returns the directory holding all projects.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// FolderName returns the on-disk folder name for a project.
func FolderName(name string, typ Type) string {
	return typ.Prefix() + "_" + name
}

// PathsFor resolves the directories of a project without touching disk.
func (s *Store) PathsFor(name string, typ Type) Paths {
	root := filepath.Join(s.baseDir, FolderName(name, typ))
	return Paths{
		Root:       root,
		Audio:      filepath.Join(root, audioDirName),
		Transcript: filepath.Join(root, transcriptDirName),
	}
}

// CreateProject ensures the project directories exist and, when meta is
// non-empty, writes metadata.json with created_at and project_type added.
// An existing metadata.json is replaced.
func (s *Store) CreateProject(name string, typ Type, meta Metadata) (Paths, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Paths{}, services.Wrap(services.ErrValidation, "project", "create", "project name is empty", nil)
	}
	if !typ.Valid() {
		return Paths{}, services.Wrap(services.ErrValidation, "project", "create", fmt.Sprintf("unknown project type %d", int(typ)), nil)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return Paths{}, services.Wrap(services.ErrValidation, "project", "create", fmt.Sprintf("invalid project name %q", name), nil)
	}

	paths := s.PathsFor(name, typ)
	for _, dir := range []string{paths.Root, paths.Audio, paths.Transcript} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, services.Wrap(services.ErrPersistence, "project", "create", "create directory "+dir, err)
		}
	}

	if len(meta) > 0 {
		record := make(map[string]any, len(meta)+2)
		for k, v := range meta {
			record[k] = v
		}
		record["created_at"] = s.now().Format(time.RFC3339)
		record["project_type"] = typ.Prefix()
		if err := writeJSON(filepath.Join(paths.Root, metadataFileName), record); err != nil {
			return Paths{}, services.Wrap(services.ErrPersistence, "project", "write metadata", paths.Folder(), err)
		}
	}

	s.logger.Debug("project ready",
		logging.String("project", paths.Folder()),
		logging.Bool("metadata_written", len(meta) > 0),
	)
	return paths, nil
}

// PlaceAudio copies (keepOriginal) or moves the source file into the
// project's audio directory and returns the new path.
func (s *Store) PlaceAudio(source string, paths Paths, keepOriginal bool) (string, error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "project", "place audio", "audio file not found: "+source, err)
		}
		return "", services.Wrap(services.ErrPersistence, "project", "place audio", "stat "+source, err)
	}
	if info.IsDir() {
		return "", services.Wrap(services.ErrValidation, "project", "place audio", source+" is a directory", nil)
	}
	if err := os.MkdirAll(paths.Audio, 0o755); err != nil {
		return "", services.Wrap(services.ErrPersistence, "project", "place audio", "create audio directory", err)
	}

	dest := filepath.Join(paths.Audio, filepath.Base(source))
	if keepOriginal {
		err = fileutil.CopyFile(source, dest)
	} else {
		err = fileutil.MoveFile(source, dest)
	}
	if err != nil {
		return "", services.Wrap(services.ErrPersistence, "project", "place audio", "transfer "+filepath.Base(source), err)
	}

	s.logger.Info("audio placed",
		logging.String("project", paths.Folder()),
		logging.String("file", filepath.Base(dest)),
		logging.Bool("copied", keepOriginal),
	)
	return dest, nil
}

// RemoveAudio deletes a file from the project's audio directory. A missing
// file is not an error.
func (s *Store) RemoveAudio(paths Paths, file string) error {
	target := filepath.Join(paths.Audio, filepath.Base(file))
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrPersistence, "project", "remove audio", filepath.Base(file), err)
	}
	return nil
}

type settingsRecord struct {
	Model        string  `json:"model_size"`
	Language     *string `json:"language"`
	OutputFormat string  `json:"output_format"`
	AudioFile    string  `json:"audio_file"`
	ProcessedAt  string  `json:"processed_at,omitempty"`
}

// SaveTranscriptionSettings writes transcription/settings.json beneath the
// project root, stamping processed_at. Earlier settings are replaced.
func (s *Store) SaveTranscriptionSettings(projectRoot string, settings Settings) error {
	dir := filepath.Join(projectRoot, transcriptDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrPersistence, "project", "save settings", "create transcription directory", err)
	}
	record := settingsRecord{
		Model:        settings.Model,
		OutputFormat: settings.OutputFormat,
		AudioFile:    settings.AudioFile,
		ProcessedAt:  s.now().Format(time.RFC3339),
	}
	if lang := strings.TrimSpace(settings.Language); lang != "" {
		record.Language = &lang
	}
	if err := writeJSON(filepath.Join(dir, settingsFileName), record); err != nil {
		return services.Wrap(services.ErrPersistence, "project", "save settings", filepath.Base(projectRoot), err)
	}
	return nil
}

// PersistOutputs writes each representation to
// {transcript dir}/{baseName}.{ext}. Formats without a known extension are
// skipped. JSON values are written indented; other values must be strings.
func (s *Store) PersistOutputs(paths Paths, outputs map[Format]any, baseName string) (OutputFileSet, error) {
	if strings.TrimSpace(baseName) == "" {
		baseName = defaultBaseName
	}
	if err := os.MkdirAll(paths.Transcript, 0o755); err != nil {
		return nil, services.Wrap(services.ErrPersistence, "project", "persist outputs", "create transcription directory", err)
	}

	written := make(OutputFileSet, len(outputs))
	for _, format := range Formats {
		content, ok := outputs[format]
		if !ok {
			continue
		}
		ext, _ := format.Extension()
		target := filepath.Join(paths.Transcript, baseName+"."+ext)
		var err error
		if format == FormatJSON {
			err = writeJSON(target, content)
		} else {
			err = writeText(target, content)
		}
		if err != nil {
			return written, services.Wrap(services.ErrPersistence, "project", "persist outputs", string(format), err)
		}
		written[format] = target
	}
	for format := range outputs {
		if _, ok := format.Extension(); !ok {
			s.logger.Debug("ignoring unknown output format", logging.String("format", string(format)))
		}
	}
	return written, nil
}

// ListProjects returns the sorted folder names of every project in the base
// directory. A missing base directory yields an empty list.
func (s *Store) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, services.Wrap(services.ErrPersistence, "project", "list", s.baseDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := TypeOfFolder(entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// GetProjectInfo inspects a project folder. It returns ok=false when the
// folder does not exist.
func (s *Store) GetProjectInfo(folder string) (*Info, bool, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" || strings.ContainsAny(folder, `/\`) {
		return nil, false, nil
	}
	root := filepath.Join(s.baseDir, folder)
	stat, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, services.Wrap(services.ErrPersistence, "project", "info", folder, err)
	}
	if !stat.IsDir() {
		return nil, false, nil
	}

	info := &Info{
		Name:             folder,
		Path:             root,
		HasAudio:         hasEntries(filepath.Join(root, audioDirName)),
		HasTranscription: hasEntries(filepath.Join(root, transcriptDirName)),
	}

	var meta Metadata
	found, err := readJSON(filepath.Join(root, metadataFileName), &meta)
	if err != nil {
		return nil, false, services.Wrap(services.ErrPersistence, "project", "read metadata", folder, err)
	}
	if found {
		info.Metadata = meta
	}

	var record settingsRecord
	found, err = readJSON(filepath.Join(root, transcriptDirName, settingsFileName), &record)
	if err != nil {
		return nil, false, services.Wrap(services.ErrPersistence, "project", "read settings", folder, err)
	}
	if found {
		settings := Settings{
			Model:        record.Model,
			OutputFormat: record.OutputFormat,
			AudioFile:    record.AudioFile,
			ProcessedAt:  record.ProcessedAt,
		}
		if record.Language != nil {
			settings.Language = *record.Language
		}
		info.Settings = &settings
	}
	return info, true, nil
}

func hasEntries(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func writeJSON(path string, value any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, buf.Bytes())
}

func writeText(path string, value any) error {
	switch v := value.(type) {
	case string:
		return writeAtomic(path, []byte(v))
	case []byte:
		return writeAtomic(path, v)
	default:
		return fmt.Errorf("unsupported content type %T for %s", value, filepath.Base(path))
	}
}

// writeAtomic stages content next to the target and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func readJSON(path string, target any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

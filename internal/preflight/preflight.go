package preflight

import (
	"scribe/internal/config"
	"scribe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Directories checks every configured directory. The projects and state
// directories must exist; the download and fallback output directories only
// need to be creatable.
func Directories(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Projects", cfg.Paths.ProjectsDir),
		CheckDirectoryAccess("State", cfg.Paths.StateDir),
		CheckCreatableDirectory("Downloads", cfg.Paths.TempDir),
		CheckCreatableDirectory("Output", cfg.Paths.OutputDir),
	}
}

// Tools reports the availability of the external programs scribe runs.
func Tools(cfg *config.Config) []deps.Status {
	binary := ""
	if cfg != nil {
		binary = cfg.Download.YtDlpBinary
	}
	return deps.CheckBinaries(deps.Requirements(binary))
}

package whisperx

// Config selects the model and hardware for WhisperX runs.
type Config struct {
	Model       string
	CUDAEnabled bool
	// VADMethod is "silero" (default) or "pyannote".
	VADMethod string
	// HFToken is only forwarded when VADMethod is pyannote.
	HFToken string
	// WorkDir is the parent of per-run output directories; empty means os.TempDir().
	WorkDir string
}

const (
	DefaultModel = "base"

	VADSilero   = "silero"
	VADPyannote = "pyannote"

	// Launcher runs WhisperX in an isolated Python environment.
	Launcher = "uvx"

	pypiIndex = "https://pypi.org/simple"
	cudaIndex = "https://download.pytorch.org/whl/cu128"
)

// decodeFlags produce sentence-level JSON segments with a conservative VAD.
var decodeFlags = []string{
	"--output_format", "json",
	"--segment_resolution", "sentence",
	"--batch_size", "4",
	"--chunk_size", "15",
	"--vad_onset", "0.08",
	"--vad_offset", "0.07",
	"--beam_size", "10",
	"--best_of", "10",
	"--temperature", "0.0",
	"--patience", "1.0",
}

func (c Config) model() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

func (c Config) vadMethod() string {
	if c.VADMethod == "" {
		return VADSilero
	}
	return c.VADMethod
}

// indexArgs point uvx at the CUDA wheel index when GPU support is enabled.
func (c Config) indexArgs() []string {
	if c.CUDAEnabled {
		return []string{"--index-url", cudaIndex, "--extra-index-url", pypiIndex}
	}
	return []string{"--index-url", pypiIndex}
}

func (c Config) deviceArgs() []string {
	if c.CUDAEnabled {
		return []string{"--device", "cuda"}
	}
	return []string{"--device", "cpu", "--compute_type", "float32"}
}

func (c Config) vadArgs() []string {
	method := c.vadMethod()
	args := []string{"--vad_method", method}
	if method == VADPyannote && c.HFToken != "" {
		args = append(args, "--hf_token", c.HFToken)
	}
	return args
}

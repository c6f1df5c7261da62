package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// audioHeader makes fixture files look like MP3 data to casual inspection.
var audioHeader = []byte("ID3\x04\x00\x00\x00\x00\x00\x00")

// WriteAudio creates a small fake audio file named name in dir and returns
// its path.
func WriteAudio(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	payload := append(append([]byte(nil), audioHeader...), bytes.Repeat([]byte{0x42}, 1024)...)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

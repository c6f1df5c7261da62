package acquisition

import (
	"regexp"
	"strings"

	"scribe/internal/services"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:watch\?v=)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:live/)([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID returns the 11 character video identifier embedded in url.
func ExtractVideoID(url string) (string, error) {
	url = strings.TrimSpace(url)
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", services.Wrap(services.ErrInvalidReference, "acquisition", "parse url", "no video id in "+url, nil)
}

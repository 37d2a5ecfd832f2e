package youtube

import (
	"errors"
	"regexp"
)

var ErrInvalidURL = errors.New("invalid YouTube URL")

var videoIDRE = regexp.MustCompile(`(?:v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID returns the 11 character video ID from a watch or youtu.be URL.
func ExtractVideoID(url string) (string, bool) {
	m := videoIDRE.FindStringSubmatch(url)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

package plan

import "strings"

// Track categories mkvmerge distinguishes.
const (
	CategoryVideo     = "video"
	CategoryAudio     = "audio"
	CategorySubtitles = "subtitles"
	CategoryButtons   = "buttons"
)

// Categories lists the valid track categories in mkvmerge's order.
var Categories = []string{CategoryVideo, CategoryAudio, CategorySubtitles, CategoryButtons}

// CopyCategory interprets a sentinel option key of the form
// "_copy-<category>-tracks". It returns the category and true when the key
// is a copy directive for a known category.
func CopyCategory(name string) (string, bool) {
	if !IsSentinel(name) {
		return "", false
	}
	body, ok := strings.CutPrefix(name, SentinelPrefix+"copy-")
	if !ok {
		return "", false
	}
	category, ok := strings.CutSuffix(body, "-tracks")
	if !ok {
		return "", false
	}
	for _, known := range Categories {
		if category == known {
			return category, true
		}
	}
	return "", false
}

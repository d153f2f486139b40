package identify

import (
	"strings"

	"mkvplan/internal/language"
)

// Filter returns the tracks matching the type and/or language constraints,
// preserving reported order. Empty constraints match everything.
func Filter(tracks []Track, trackType, lang string) []Track {
	trackType = strings.ToLower(strings.TrimSpace(trackType))
	lang = strings.TrimSpace(lang)
	if trackType == "" && lang == "" {
		return tracks
	}

	var out []Track
	for _, trk := range tracks {
		if trackType != "" && !strings.EqualFold(trk.Type, trackType) {
			continue
		}
		if lang != "" && !language.Match(lang, trk.Language) {
			continue
		}
		out = append(out, trk)
	}
	return out
}

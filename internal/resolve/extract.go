package resolve

import (
	"context"
	"fmt"

	"mkvplan/internal/identify"
	"mkvplan/internal/plan"
)

// ExtractTracks resolves extraction track requests against the single
// extraction source. Unfiltered requests use their id verbatim; filtered
// requests query the provider and index into the filtered subset, so the
// returned pairs always carry physical track ids.
func ExtractTracks(ctx context.Context, source string, reqs []plan.ExtractTrackRequest, provider identify.Provider) ([]plan.ExtractRequest, error) {
	var (
		tracks []identify.Track
		loaded bool
	)

	out := make([]plan.ExtractRequest, 0, len(reqs))
	for _, req := range reqs {
		id := req.ID
		if req.Filtered() {
			if !loaded {
				var err error
				tracks, err = provider.Tracks(ctx, source)
				if err != nil {
					return nil, fmt.Errorf("identify %s: %w", source, err)
				}
				loaded = true
			}
			subset := identify.Filter(tracks, req.Type, req.Language)
			if req.ID < 0 || req.ID >= len(subset) {
				return nil, &TrackNotFoundError{
					Selector: plan.Selector{Ordinal: req.ID, Type: req.Type, Language: req.Language},
				}
			}
			id = subset[req.ID].ID
		}
		out = append(out, plan.ExtractRequest{ID: id, Filename: req.Filename})
	}
	return out, nil
}

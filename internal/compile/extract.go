package compile

import (
	"context"
	"strconv"

	"mkvplan/internal/identify"
	"mkvplan/internal/plan"
	"mkvplan/internal/resolve"
)

// Extract assembles the mkvextract argument list (binary name excluded):
// the source file first, then each requested category as its mode keyword
// followed by id:filename pairs, or a bare filename for chapters and tags.
// Category order is fixed regardless of document order.
func Extract(ctx context.Context, xp *plan.ExtractPlan, provider identify.Provider) ([]string, error) {
	if err := xp.Validate(); err != nil {
		return nil, err
	}

	args := []string{xp.Source}

	if len(xp.Tracks) > 0 {
		resolved, err := resolve.ExtractTracks(ctx, xp.Source, xp.Tracks, provider)
		if err != nil {
			return nil, err
		}
		args = append(args, "tracks")
		args = appendPairs(args, resolved)
	}
	if len(xp.Attachments) > 0 {
		args = append(args, "attachments")
		args = appendPairs(args, xp.Attachments)
	}
	if xp.Chapters != "" {
		args = append(args, "chapters", xp.Chapters)
	}
	if xp.Tags != "" {
		args = append(args, "tags", xp.Tags)
	}
	if len(xp.Timestamps) > 0 {
		args = append(args, "timestamps_v2")
		args = appendPairs(args, xp.Timestamps)
	}
	if len(xp.Cues) > 0 {
		args = append(args, "cues")
		args = appendPairs(args, xp.Cues)
	}

	return args, nil
}

func appendPairs(args []string, reqs []plan.ExtractRequest) []string {
	for _, req := range reqs {
		args = append(args, strconv.Itoa(req.ID)+":"+req.Filename)
	}
	return args
}

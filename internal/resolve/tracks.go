package resolve

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mkvplan/internal/identify"
	"mkvplan/internal/plan"
)

// ResolvedTrack is one concrete track selection: a physical track id
// within a source, plus the options to emit for it.
type ResolvedTrack struct {
	Source  int
	Track   int
	Options plan.OptionMap
}

// Resolution is the output of track resolution: the concrete track list in
// final order, and each source's option map with sentinels stripped. The
// input plan is never mutated.
type Resolution struct {
	Tracks        []ResolvedTrack
	SourceOptions []plan.OptionMap
}

// TrackOrder returns the value for the track-order flag: the resolved
// tracks as "source:track" joined with commas, unless an override order is
// supplied, which is used verbatim.
func (r Resolution) TrackOrder(override []string) string {
	if len(override) > 0 {
		return strings.Join(override, ",")
	}
	parts := make([]string, 0, len(r.Tracks))
	for _, trk := range r.Tracks {
		parts = append(parts, strconv.Itoa(trk.Source)+":"+strconv.Itoa(trk.Track))
	}
	return strings.Join(parts, ",")
}

type claim struct {
	index    int
	explicit bool
}

type trackResolver struct {
	plan     *plan.Plan
	provider identify.Provider
	memo     map[int][]identify.Track

	out     []ResolvedTrack
	claimed map[[2]int]claim
}

// Tracks expands category-copy sentinels and filtered selectors into
// concrete track selections, deduplicates them, and computes the final
// track order. Explicit ordinals are used verbatim; the metadata provider
// is queried only for sentinel and filter resolution.
func Tracks(ctx context.Context, p *plan.Plan, provider identify.Provider) (Resolution, error) {
	for _, ref := range p.Tracks {
		if ref.Source < 0 || ref.Source >= len(p.Sources) {
			return Resolution{}, &SourceNotFoundError{Source: ref.Source, Sources: len(p.Sources)}
		}
	}

	res := Resolution{SourceOptions: make([]plan.OptionMap, len(p.Sources))}
	for i := range p.Sources {
		if err := checkSentinels(p.Sources[i].Options); err != nil {
			return Resolution{}, err
		}
		res.SourceOptions[i] = p.Sources[i].Options.WithoutSentinels()
	}

	r := &trackResolver{
		plan:     p,
		provider: provider,
		memo:     make(map[int][]identify.Track),
		claimed:  make(map[[2]int]claim),
	}

	// Sentinel expansions for a source are anchored where that source's
	// first explicit track reference appears; sources referenced only by
	// sentinels expand at the end, in source order.
	expanded := make(map[int]bool)
	for _, ref := range p.Tracks {
		if !expanded[ref.Source] {
			expanded[ref.Source] = true
			if err := r.expandSentinels(ctx, ref.Source); err != nil {
				return Resolution{}, err
			}
		}
		if err := r.addExplicit(ctx, ref); err != nil {
			return Resolution{}, err
		}
	}
	for i := range p.Sources {
		if expanded[i] {
			continue
		}
		if err := r.expandSentinels(ctx, i); err != nil {
			return Resolution{}, err
		}
	}

	res.Tracks = r.out
	return res, nil
}

func (r *trackResolver) tracksFor(ctx context.Context, source int) ([]identify.Track, error) {
	if tracks, ok := r.memo[source]; ok {
		return tracks, nil
	}
	tracks, err := r.provider.Tracks(ctx, r.plan.Sources[source].Filename)
	if err != nil {
		return nil, fmt.Errorf("identify source %d (%s): %w", source, r.plan.Sources[source].Filename, err)
	}
	r.memo[source] = tracks
	return tracks, nil
}

func (r *trackResolver) expandSentinels(ctx context.Context, source int) error {
	src := r.plan.Sources[source]
	carried := src.Options.WithoutSentinels()

	for _, opt := range src.Options.All() {
		category, ok := plan.CopyCategory(opt.Name)
		if !ok {
			continue
		}
		tracks, err := r.tracksFor(ctx, source)
		if err != nil {
			return err
		}
		for _, trk := range identify.Filter(tracks, category, "") {
			key := [2]int{source, trk.ID}
			if _, exists := r.claimed[key]; exists {
				continue
			}
			r.out = append(r.out, ResolvedTrack{
				Source:  source,
				Track:   trk.ID,
				Options: carried.Clone(),
			})
			r.claimed[key] = claim{index: len(r.out) - 1}
		}
	}
	return nil
}

func (r *trackResolver) addExplicit(ctx context.Context, ref plan.TrackRef) error {
	physical := ref.Selector.Ordinal
	if ref.Selector.Filtered() {
		tracks, err := r.tracksFor(ctx, ref.Source)
		if err != nil {
			return err
		}
		subset := identify.Filter(tracks, ref.Selector.Type, ref.Selector.Language)
		if ref.Selector.Ordinal < 0 || ref.Selector.Ordinal >= len(subset) {
			return &TrackNotFoundError{Source: ref.Source, Selector: ref.Selector}
		}
		physical = subset[ref.Selector.Ordinal].ID
	}

	key := [2]int{ref.Source, physical}
	if existing, ok := r.claimed[key]; ok {
		if existing.explicit {
			return &DuplicateTrackError{Source: ref.Source, Track: physical}
		}
		// A sentinel expansion already emitted this track: fold the
		// explicit options in, explicit keys winning.
		r.out[existing.index].Options = r.out[existing.index].Options.MergeOver(ref.Options)
		r.claimed[key] = claim{index: existing.index, explicit: true}
		return nil
	}

	r.out = append(r.out, ResolvedTrack{
		Source:  ref.Source,
		Track:   physical,
		Options: ref.Options.Clone(),
	})
	r.claimed[key] = claim{index: len(r.out) - 1, explicit: true}
	return nil
}

func checkSentinels(opts plan.OptionMap) error {
	for _, opt := range opts.All() {
		if !plan.IsSentinel(opt.Name) {
			continue
		}
		if _, ok := plan.CopyCategory(opt.Name); !ok {
			return &plan.ValidationError{Details: []string{
				fmt.Sprintf("unknown sentinel option %q", opt.Name),
			}}
		}
	}
	return nil
}

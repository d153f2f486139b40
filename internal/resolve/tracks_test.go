package resolve

import (
	"context"
	"errors"
	"testing"

	"mkvplan/internal/identify"
	"mkvplan/internal/plan"
	"mkvplan/internal/testsupport"
)

func opts(pairs ...string) plan.OptionMap {
	var m plan.OptionMap
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func twoSourcePlan(t *testing.T) *plan.Plan {
	t.Helper()
	b := plan.NewBuilder()
	b.AddSource("test1.mkv", plan.OptionMap{})
	b.AddSource("test2.mkv", plan.OptionMap{})
	b.AddTrack(0, plan.ByOrdinal(0), opts("language", "und"))
	b.AddTrack(1, plan.ByOrdinal(1), opts("language", "jpn"))
	b.AddTrack(0, plan.ByOrdinal(2), opts("language", "eng"))
	b.AddTrack(1, plan.ByOrdinal(3), opts("language", "eng"))
	b.SetOutput("output.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	return p
}

func TestResolvePreservesLiteralOrder(t *testing.T) {
	p := twoSourcePlan(t)
	provider := testsupport.NewFakeProvider(nil)

	res, err := Tracks(context.Background(), p, provider)
	if err != nil {
		t.Fatalf("Tracks returned error: %v", err)
	}

	want := []ResolvedTrack{
		{Source: 0, Track: 0},
		{Source: 1, Track: 1},
		{Source: 0, Track: 2},
		{Source: 1, Track: 3},
	}
	if len(res.Tracks) != len(want) {
		t.Fatalf("expected %d tracks, got %d", len(want), len(res.Tracks))
	}
	for i, trk := range res.Tracks {
		if trk.Source != want[i].Source || trk.Track != want[i].Track {
			t.Fatalf("track %d = (%d,%d), want (%d,%d)", i, trk.Source, trk.Track, want[i].Source, want[i].Track)
		}
	}
	if len(provider.Calls) != 0 {
		t.Fatalf("bare ordinals must not query the provider: %v", provider.Calls)
	}
}

func TestResolveTrackOrderRoundTrip(t *testing.T) {
	p := twoSourcePlan(t)
	res, err := Tracks(context.Background(), p, testsupport.NewFakeProvider(nil))
	if err != nil {
		t.Fatalf("Tracks returned error: %v", err)
	}
	if got := res.TrackOrder(nil); got != "0:0,1:1,0:2,1:3" {
		t.Fatalf("track order = %q", got)
	}
	if got := res.TrackOrder([]string{"1:3", "0:0"}); got != "1:3,0:0" {
		t.Fatalf("override order = %q", got)
	}
}

func TestResolveSourceNotFound(t *testing.T) {
	b := plan.NewBuilder()
	b.AddSource("a.mkv", plan.OptionMap{})
	b.AddSource("b.mkv", plan.OptionMap{})
	b.AddTrack(5, plan.ByOrdinal(0), plan.OptionMap{})
	b.SetOutput("out.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	_, err = Tracks(context.Background(), p, testsupport.NewFakeProvider(nil))
	var snf *SourceNotFoundError
	if !errors.As(err, &snf) || snf.Source != 5 {
		t.Fatalf("expected SourceNotFoundError for source 5, got %v", err)
	}
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatal("error not classified as ErrSourceNotFound")
	}
}

func TestResolveDuplicateTrack(t *testing.T) {
	b := plan.NewBuilder()
	b.AddSource("a.mkv", plan.OptionMap{})
	b.AddTrack(0, plan.ByOrdinal(1), plan.OptionMap{})
	b.AddTrack(0, plan.ByOrdinal(1), opts("language", "eng"))
	b.SetOutput("out.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	_, err = Tracks(context.Background(), p, testsupport.NewFakeProvider(nil))
	var dup *DuplicateTrackError
	if !errors.As(err, &dup) || dup.Source != 0 || dup.Track != 1 {
		t.Fatalf("expected DuplicateTrackError for (0,1), got %v", err)
	}
}

func TestResolveSentinelExpansionWithoutExplicitTracks(t *testing.T) {
	var srcOpts plan.OptionMap
	srcOpts.SetFlag("_copy-audio-tracks")
	srcOpts.Set("track-name", "carried")

	b := plan.NewBuilder()
	b.AddSource("main.mkv", plan.OptionMap{})
	b.AddSource("dub.mkv", srcOpts)
	b.AddTrack(0, plan.ByOrdinal(0), plan.OptionMap{})
	b.SetOutput("out.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	provider := testsupport.NewFakeProvider(map[string][]identify.Track{
		"dub.mkv": {
			{ID: 0, Type: "video", Language: "und"},
			{ID: 1, Type: "audio", Language: "jpn"},
			{ID: 2, Type: "audio", Language: "eng"},
			{ID: 3, Type: "subtitles", Language: "eng"},
		},
	})

	res, err := Tracks(context.Background(), p, provider)
	if err != nil {
		t.Fatalf("Tracks returned error: %v", err)
	}

	// The explicit track first, then the expansion appended at the end in
	// provider order.
	want := [][2]int{{0, 0}, {1, 1}, {1, 2}}
	if len(res.Tracks) != len(want) {
		t.Fatalf("expected %d tracks, got %d: %+v", len(want), len(res.Tracks), res.Tracks)
	}
	for i, w := range want {
		if res.Tracks[i].Source != w[0] || res.Tracks[i].Track != w[1] {
			t.Fatalf("track %d = (%d,%d), want (%d,%d)", i, res.Tracks[i].Source, res.Tracks[i].Track, w[0], w[1])
		}
	}

	// Non-sentinel source options are carried onto expanded tracks.
	if v, ok := res.Tracks[1].Options.Get("track-name"); !ok || v.Value() != "carried" {
		t.Fatalf("carried option missing: %+v", res.Tracks[1].Options)
	}
	// Sentinels are stripped from the per-source option maps.
	if _, ok := res.SourceOptions[1].Get("_copy-audio-tracks"); ok {
		t.Fatal("sentinel survived in source options")
	}
	if _, ok := res.SourceOptions[1].Get("track-name"); !ok {
		t.Fatal("non-sentinel source option lost")
	}
}

func TestResolveSentinelAnchoredAtFirstExplicitReference(t *testing.T) {
	var srcOpts plan.OptionMap
	srcOpts.SetFlag("_copy-video-tracks")

	b := plan.NewBuilder()
	b.AddSource("a.mkv", srcOpts)
	b.AddSource("b.mkv", plan.OptionMap{})
	b.AddTrack(1, plan.ByOrdinal(0), plan.OptionMap{})
	b.AddTrack(0, plan.ByOrdinal(5), plan.OptionMap{})
	b.SetOutput("out.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	provider := testsupport.NewFakeProvider(map[string][]identify.Track{
		"a.mkv": {
			{ID: 0, Type: "video", Language: "und"},
			{ID: 1, Type: "audio", Language: "jpn"},
		},
	})

	res, err := Tracks(context.Background(), p, provider)
	if err != nil {
		t.Fatalf("Tracks returned error: %v", err)
	}

	// Source 0's expansion lands where its first explicit reference
	// appears, after source 1's track.
	want := [][2]int{{1, 0}, {0, 0}, {0, 5}}
	for i, w := range want {
		if res.Tracks[i].Source != w[0] || res.Tracks[i].Track != w[1] {
			t.Fatalf("track %d = (%d,%d), want (%d,%d)", i, res.Tracks[i].Source, res.Tracks[i].Track, w[0], w[1])
		}
	}
}

func TestResolveExplicitOptionsWinOverSentinelExpansion(t *testing.T) {
	var srcOpts plan.OptionMap
	srcOpts.SetFlag("_copy-audio-tracks")
	srcOpts.Set("language", "und")
	srcOpts.Set("track-name", "carried")

	b := plan.NewBuilder()
	b.AddSource("a.mkv", srcOpts)
	b.AddTrack(0, plan.ByOrdinal(1), opts("language", "eng"))
	b.SetOutput("out.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	provider := testsupport.NewFakeProvider(map[string][]identify.Track{
		"a.mkv": {
			{ID: 1, Type: "audio", Language: "eng"},
			{ID: 2, Type: "audio", Language: "jpn"},
		},
	})

	res, err := Tracks(context.Background(), p, provider)
	if err != nil {
		t.Fatalf("Tracks returned error: %v", err)
	}
	if len(res.Tracks) != 2 {
		t.Fatalf("expected collapse to 2 tracks, got %+v", res.Tracks)
	}
	merged := res.Tracks[0]
	if merged.Track != 1 {
		t.Fatalf("first track should be physical 1, got %d", merged.Track)
	}
	if v, _ := merged.Options.Get("language"); v.Value() != "eng" {
		t.Fatalf("explicit option should win: %q", v.Value())
	}
	if v, _ := merged.Options.Get("track-name"); v.Value() != "carried" {
		t.Fatalf("carried option lost: %q", v.Value())
	}
}

func TestResolveFilteredSelector(t *testing.T) {
	b := plan.NewBuilder()
	b.AddSource("a.mkv", plan.OptionMap{})
	b.AddTrack(0, plan.Selector{Type: "subtitles", Language: "eng", Ordinal: 1}, plan.OptionMap{})
	b.SetOutput("out.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	provider := testsupport.NewFakeProvider(map[string][]identify.Track{
		"a.mkv": {
			{ID: 0, Type: "video", Language: "und"},
			{ID: 3, Type: "subtitles", Language: "fra"},
			{ID: 4, Type: "subtitles", Language: "eng"},
			{ID: 5, Type: "subtitles", Language: "eng"},
		},
	})

	res, err := Tracks(context.Background(), p, provider)
	if err != nil {
		t.Fatalf("Tracks returned error: %v", err)
	}
	// Ordinal 1 of the filtered subset [4, 5] is physical track 5.
	if len(res.Tracks) != 1 || res.Tracks[0].Track != 5 {
		t.Fatalf("expected physical track 5, got %+v", res.Tracks)
	}
}

func TestResolveFilteredSelectorOutOfRange(t *testing.T) {
	b := plan.NewBuilder()
	b.AddSource("a.mkv", plan.OptionMap{})
	b.AddTrack(0, plan.Selector{Type: "audio", Language: "ko", Ordinal: 0}, plan.OptionMap{})
	b.SetOutput("out.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	provider := testsupport.NewFakeProvider(map[string][]identify.Track{
		"a.mkv": {{ID: 0, Type: "audio", Language: "jpn"}},
	})

	_, err = Tracks(context.Background(), p, provider)
	var tnf *TrackNotFoundError
	if !errors.As(err, &tnf) {
		t.Fatalf("expected TrackNotFoundError, got %v", err)
	}
	if !errors.Is(err, ErrTrackNotFound) {
		t.Fatal("error not classified as ErrTrackNotFound")
	}
}

func TestResolveRejectsUnknownSentinel(t *testing.T) {
	var srcOpts plan.OptionMap
	srcOpts.SetFlag("_copy-widgets-tracks")

	b := plan.NewBuilder()
	b.AddSource("a.mkv", srcOpts)
	b.AddTrack(0, plan.ByOrdinal(0), plan.OptionMap{})
	b.SetOutput("out.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	_, err = Tracks(context.Background(), p, testsupport.NewFakeProvider(nil))
	var verr *plan.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown sentinel, got %v", err)
	}
}

func TestResolveProviderErrorPropagates(t *testing.T) {
	var srcOpts plan.OptionMap
	srcOpts.SetFlag("_copy-video-tracks")

	b := plan.NewBuilder()
	b.AddSource("missing.mkv", srcOpts)
	b.AddTrack(0, plan.ByOrdinal(0), plan.OptionMap{})
	b.SetOutput("out.mkv")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	if _, err := Tracks(context.Background(), p, testsupport.NewFakeProvider(nil)); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}

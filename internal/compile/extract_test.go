package compile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"mkvplan/internal/identify"
	"mkvplan/internal/plan"
	"mkvplan/internal/resolve"
	"mkvplan/internal/testsupport"
)

func TestExtractCategoryLayout(t *testing.T) {
	xp := &plan.ExtractPlan{
		Source: "movie.mkv",
		Tracks: []plan.ExtractTrackRequest{
			{ID: 0, Filename: "video.h264"},
			{ID: 2, Filename: "subs.srt"},
		},
		Attachments: []plan.ExtractRequest{{ID: 1, Filename: "cover.png"}},
		Chapters:    "chapters.xml",
		Tags:        "tags.xml",
		Timestamps:  []plan.ExtractRequest{{ID: 0, Filename: "ts.txt"}},
		Cues:        []plan.ExtractRequest{{ID: 0, Filename: "cues.txt"}},
	}

	provider := testsupport.NewFakeProvider(nil)
	args, err := Extract(context.Background(), xp, provider)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	want := []string{
		"movie.mkv",
		"tracks", "0:video.h264", "2:subs.srt",
		"attachments", "1:cover.png",
		"chapters", "chapters.xml",
		"tags", "tags.xml",
		"timestamps_v2", "0:ts.txt",
		"cues", "0:cues.txt",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("argv mismatch\n got: %v\nwant: %v", args, want)
	}
	if len(provider.Calls) != 0 {
		t.Fatalf("unfiltered requests must not query the provider: %v", provider.Calls)
	}
}

func TestExtractFilteredOrdinal(t *testing.T) {
	xp := &plan.ExtractPlan{
		Source: "movie.mkv",
		Tracks: []plan.ExtractTrackRequest{
			{ID: 1, Filename: "eng2.srt", Type: "subtitles", Language: "eng"},
		},
	}

	provider := testsupport.NewFakeProvider(map[string][]identify.Track{
		"movie.mkv": {
			{ID: 0, Type: "video"},
			{ID: 3, Type: "subtitles", Language: "fra"},
			{ID: 4, Type: "subtitles", Language: "eng"},
			{ID: 6, Type: "subtitles", Language: "eng"},
		},
	})

	args, err := Extract(context.Background(), xp, provider)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	want := []string{"movie.mkv", "tracks", "6:eng2.srt"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("argv mismatch\n got: %v\nwant: %v", args, want)
	}
}

func TestExtractFilteredOrdinalOutOfRange(t *testing.T) {
	xp := &plan.ExtractPlan{
		Source: "movie.mkv",
		Tracks: []plan.ExtractTrackRequest{
			{ID: 5, Filename: "subs.srt", Type: "subtitles"},
		},
	}

	provider := testsupport.NewFakeProvider(map[string][]identify.Track{
		"movie.mkv": {{ID: 1, Type: "subtitles", Language: "eng"}},
	})

	_, err := Extract(context.Background(), xp, provider)
	if !errors.Is(err, resolve.ErrTrackNotFound) {
		t.Fatalf("expected ErrTrackNotFound, got %v", err)
	}
}

func TestExtractRejectsEmptyPlan(t *testing.T) {
	xp := &plan.ExtractPlan{Source: "movie.mkv"}
	_, err := Extract(context.Background(), xp, testsupport.NewFakeProvider(nil))
	var verr *plan.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

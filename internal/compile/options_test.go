package compile

import (
	"errors"
	"reflect"
	"testing"

	"mkvplan/internal/plan"
)

func TestOptionsTokenForms(t *testing.T) {
	var m plan.OptionMap
	m.Set("language", "eng")
	m.SetFlag("no-chapters")
	m.Set("default-track", "yes")

	got, err := Options(m)
	if err != nil {
		t.Fatalf("Options returned error: %v", err)
	}
	want := []string{"--language", "eng", "--no-chapters", "--default-track", "yes"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
}

func TestOptionsPreservesInsertionOrder(t *testing.T) {
	var m plan.OptionMap
	m.Set("title", "z")
	m.Set("a-flag", "1")
	m.Set("b-flag", "2")

	got, err := Options(m)
	if err != nil {
		t.Fatalf("Options returned error: %v", err)
	}
	want := []string{"--title", "z", "--a-flag", "1", "--b-flag", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
}

func TestOptionsEmpty(t *testing.T) {
	got, err := Options(plan.OptionMap{})
	if err != nil {
		t.Fatalf("Options returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
}

func TestOptionsSentinelLeak(t *testing.T) {
	var m plan.OptionMap
	m.SetFlag("_copy-audio-tracks")

	if _, err := Options(m); !errors.Is(err, ErrSentinelLeak) {
		t.Fatalf("expected ErrSentinelLeak, got %v", err)
	}
	if _, err := TrackOptions(0, m); !errors.Is(err, ErrSentinelLeak) {
		t.Fatalf("expected ErrSentinelLeak from TrackOptions, got %v", err)
	}
}

func TestTrackOptionsPinValues(t *testing.T) {
	var m plan.OptionMap
	m.Set("language", "eng")
	m.SetFlag("forced-track")
	m.Set("track-name", "Director Commentary")

	got, err := TrackOptions(2, m)
	if err != nil {
		t.Fatalf("TrackOptions returned error: %v", err)
	}
	want := []string{"--language", "2:eng", "--forced-track", "--track-name", "2:Director Commentary"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
}

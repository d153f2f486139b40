package plan

import (
	"errors"
	"testing"
)

const validMuxDocument = `{
  "sources": [
    {"filename": "test1.mkv", "options": {"_copy-video-tracks": null}},
    {"filename": "test2.mkv"}
  ],
  "tracks": [
    {"source": 0, "track": 0, "options": {"language": "und", "default-track": "yes"}},
    {"source": 1, "track": 1, "options": {"language": "jpn"}}
  ],
  "output_file": "output.mkv",
  "options": {"no-global-tags": null, "title": "Muxed"},
  "attachments": [
    {"filename": "font.otf", "name": "font.otf", "mimetype": "font/otf"},
    {"directory": "fonts"}
  ],
  "track_order": ["0:0", "1:1"]
}`

func TestParseValidDocument(t *testing.T) {
	p, err := Parse([]byte(validMuxDocument))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(p.Sources) != 2 || len(p.Tracks) != 2 {
		t.Fatalf("unexpected shape: %d sources, %d tracks", len(p.Sources), len(p.Tracks))
	}
	if p.OutputFile != "output.mkv" {
		t.Fatalf("output_file = %q", p.OutputFile)
	}
	if _, ok := p.Sources[0].Options.Get("_copy-video-tracks"); !ok {
		t.Fatal("sentinel option lost during parse")
	}
	if p.Tracks[1].Selector.Ordinal != 1 || p.Tracks[1].Selector.Filtered() {
		t.Fatalf("unexpected selector: %+v", p.Tracks[1].Selector)
	}
	if len(p.Attachments) != 2 {
		t.Fatalf("expected 2 attachment entries, got %d", len(p.Attachments))
	}
	if p.Attachments[0].File == nil || p.Attachments[0].File.MIMEType != "font/otf" {
		t.Fatalf("unexpected explicit attachment: %+v", p.Attachments[0])
	}
	if p.Attachments[1].Dir == nil || p.Attachments[1].Dir.Path != "fonts" {
		t.Fatalf("unexpected directory attachment: %+v", p.Attachments[1])
	}
	if len(p.TrackOrder) != 2 {
		t.Fatalf("track order override not parsed: %v", p.TrackOrder)
	}
	if v, _ := p.GlobalOptions.Get("no-global-tags"); v.HasValue() {
		t.Fatal("no-global-tags should be presence-only")
	}
}

func TestParseRejectsMissingRequiredFields(t *testing.T) {
	docs := []string{
		`{"tracks": [{"source":0,"track":0}], "output_file": "o.mkv"}`,
		`{"sources": [{"filename":"a.mkv"}], "output_file": "o.mkv"}`,
		`{"sources": [{"filename":"a.mkv"}], "tracks": [{"source":0,"track":0}]}`,
		`{"sources": [], "tracks": [{"source":0,"track":0}], "output_file": "o.mkv"}`,
	}
	for _, doc := range docs {
		_, err := Parse([]byte(doc))
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %s, got %v", doc, err)
		}
	}
}

func TestParseRejectsExtraTrackKeys(t *testing.T) {
	doc := `{
  "sources": [{"filename": "a.mkv"}],
  "tracks": [{"source": 0, "track": 0, "surprise": true}],
  "output_file": "o.mkv"
}`
	var verr *ValidationError
	if _, err := Parse([]byte(doc)); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for extra track key, got %v", err)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	var verr *ValidationError
	if _, err := Parse([]byte(`{"sources": `)); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for malformed JSON, got %v", err)
	}
}

package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ExtractRequest asks for one item of a category to be written to Filename.
// ID is a raw track/attachment id unless the owning request carries filters.
type ExtractRequest struct {
	ID       int
	Filename string
}

// ExtractTrackRequest is a track extraction request. When Type or Language
// is set, ID is reinterpreted as a zero-based ordinal into the filtered
// track subset instead of a raw track id.
type ExtractTrackRequest struct {
	ID       int
	Filename string
	Type     string
	Language string
}

// Filtered reports whether the request needs metadata to resolve.
func (r ExtractTrackRequest) Filtered() bool {
	return r.Type != "" || r.Language != ""
}

// ExtractPlan describes what to pull out of a single container. At least
// one category must be populated.
type ExtractPlan struct {
	Source      string
	Tracks      []ExtractTrackRequest
	Attachments []ExtractRequest
	Chapters    string
	Tags        string
	Timestamps  []ExtractRequest
	Cues        []ExtractRequest
}

// Validate rejects extraction plans that request nothing.
func (p *ExtractPlan) Validate() error {
	var details []string
	if strings.TrimSpace(p.Source) == "" {
		details = append(details, "source must not be empty")
	}
	if len(p.Tracks) == 0 && len(p.Attachments) == 0 && p.Chapters == "" &&
		p.Tags == "" && len(p.Timestamps) == 0 && len(p.Cues) == 0 {
		details = append(details, "at least one extraction category is required")
	}
	if len(details) > 0 {
		return newValidationError(details...)
	}
	return nil
}

type extractDocument struct {
	Source string `json:"source"`
	Tracks []struct {
		ID       int    `json:"id"`
		Filename string `json:"filename"`
		Type     string `json:"track_type"`
		Language string `json:"language"`
	} `json:"tracks"`
	Attachments []extractRequestDocument `json:"attachments"`
	Chapters    string                   `json:"chapters"`
	Tags        string                   `json:"tags"`
	Timestamps  []extractRequestDocument `json:"timestamps"`
	Cues        []extractRequestDocument `json:"cues"`
}

type extractRequestDocument struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
}

// LoadExtract reads and parses an extraction request document from disk.
func LoadExtract(path string) (*ExtractPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extract document: %w", err)
	}
	return ParseExtract(data)
}

// ParseExtract validates an extraction request document against the
// embedded schema and builds the internal model.
func ParseExtract(data []byte) (*ExtractPlan, error) {
	if err := validateDocument(extractSchema, data); err != nil {
		return nil, err
	}

	var doc extractDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, newValidationError(err.Error())
	}

	p := &ExtractPlan{
		Source:   doc.Source,
		Chapters: doc.Chapters,
		Tags:     doc.Tags,
	}
	for _, trk := range doc.Tracks {
		p.Tracks = append(p.Tracks, ExtractTrackRequest{
			ID:       trk.ID,
			Filename: trk.Filename,
			Type:     trk.Type,
			Language: trk.Language,
		})
	}
	p.Attachments = convertRequests(doc.Attachments)
	p.Timestamps = convertRequests(doc.Timestamps)
	p.Cues = convertRequests(doc.Cues)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func convertRequests(docs []extractRequestDocument) []ExtractRequest {
	if len(docs) == 0 {
		return nil
	}
	out := make([]ExtractRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, ExtractRequest{ID: d.ID, Filename: d.Filename})
	}
	return out
}

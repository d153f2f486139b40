package plan

import (
	"strconv"
	"strings"
)

// Source is one input file plus its source-level options. Sources are
// identified by zero-based position in the plan's source list.
type Source struct {
	Filename string
	Options  OptionMap
}

// Selector picks a track within a source: either a bare physical ordinal,
// or the Ordinal-th track of the subset matching the type and/or language
// filters.
type Selector struct {
	Ordinal  int
	Type     string
	Language string
}

// Filtered reports whether the selector needs metadata to resolve.
func (s Selector) Filtered() bool {
	return s.Type != "" || s.Language != ""
}

// ByOrdinal builds a selector for an explicit physical track id.
func ByOrdinal(ordinal int) Selector {
	return Selector{Ordinal: ordinal}
}

// TrackRef ties a selector to a source, with per-track options.
type TrackRef struct {
	Source   int
	Selector Selector
	Options  OptionMap
}

// Attachment is an explicit file to attach. MIMEType, when set, is
// authoritative; when empty the external tool auto-detects.
type Attachment struct {
	Name     string
	Filename string
	MIMEType string
}

// AttachmentDir expands at resolution time to one attachment per regular
// file directly inside Path. Expansion never recurses.
type AttachmentDir struct {
	Path string
}

// AttachmentEntry is either an explicit attachment or a directory to
// expand; exactly one field is set.
type AttachmentEntry struct {
	File *Attachment
	Dir  *AttachmentDir
}

// Plan is the immutable mux plan: populated once from a document or
// builder, read-only during compilation.
type Plan struct {
	Sources       []Source
	Tracks        []TrackRef
	OutputFile    string
	GlobalOptions OptionMap
	Attachments   []AttachmentEntry
	// TrackOrder, when non-empty, overrides the document-derived track
	// order outright ("source:track" entries, used verbatim).
	TrackOrder []string
}

// Validate checks the structural invariants a compilable plan must hold.
func (p *Plan) Validate() error {
	var details []string
	if len(p.Sources) == 0 {
		details = append(details, "sources must not be empty")
	}
	for i, src := range p.Sources {
		if strings.TrimSpace(src.Filename) == "" {
			details = append(details, "sources["+itoa(i)+"].filename must not be empty")
		}
	}
	if len(p.Tracks) == 0 {
		details = append(details, "tracks must not be empty")
	}
	if strings.TrimSpace(p.OutputFile) == "" {
		details = append(details, "output_file must not be empty")
	}
	for i, entry := range p.Attachments {
		switch {
		case entry.File == nil && entry.Dir == nil:
			details = append(details, "attachments["+itoa(i)+"] must name a file or a directory")
		case entry.File != nil && entry.Dir != nil:
			details = append(details, "attachments["+itoa(i)+"] must not name both a file and a directory")
		case entry.File != nil && strings.TrimSpace(entry.File.Filename) == "":
			details = append(details, "attachments["+itoa(i)+"].filename must not be empty")
		case entry.Dir != nil && strings.TrimSpace(entry.Dir.Path) == "":
			details = append(details, "attachments["+itoa(i)+"].directory must not be empty")
		}
	}
	if len(details) > 0 {
		return newValidationError(details...)
	}
	return nil
}

func itoa(i int) string { return strconv.Itoa(i) }

package resolve

import (
	"errors"
	"fmt"

	"mkvplan/internal/plan"
)

// Sentinel errors for errors.Is classification of resolution failures.
var (
	ErrSourceNotFound = errors.New("source not found")
	ErrTrackNotFound  = errors.New("track not found")
	ErrDuplicateTrack = errors.New("duplicate track")
	ErrAttachment     = errors.New("attachment resolution failed")
)

// SourceNotFoundError reports a track reference naming a source index
// outside the plan's source list.
type SourceNotFoundError struct {
	Source  int
	Sources int
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source %d not found: plan has %d sources", e.Source, e.Sources)
}

func (e *SourceNotFoundError) Unwrap() error { return ErrSourceNotFound }

// TrackNotFoundError reports a selector that resolved to nothing: a
// filtered ordinal past the end of the filtered subset, or filters with
// zero matches.
type TrackNotFoundError struct {
	Source   int
	Selector plan.Selector
}

func (e *TrackNotFoundError) Error() string {
	sel := e.Selector
	if !sel.Filtered() {
		return fmt.Sprintf("source %d has no track %d", e.Source, sel.Ordinal)
	}
	desc := ""
	if sel.Type != "" {
		desc += " type=" + sel.Type
	}
	if sel.Language != "" {
		desc += " language=" + sel.Language
	}
	return fmt.Sprintf("source %d has no track matching%s at ordinal %d", e.Source, desc, sel.Ordinal)
}

func (e *TrackNotFoundError) Unwrap() error { return ErrTrackNotFound }

// DuplicateTrackError reports two explicit references claiming the same
// physical track, which would produce two attribute sets for one track.
type DuplicateTrackError struct {
	Source int
	Track  int
}

func (e *DuplicateTrackError) Error() string {
	return fmt.Sprintf("track %d of source %d referenced more than once", e.Track, e.Source)
}

func (e *DuplicateTrackError) Unwrap() error { return ErrDuplicateTrack }

// AttachmentResolutionError reports an attachment directory that could not
// be read. Individual undetectable files are skipped, not errors.
type AttachmentResolutionError struct {
	Path string
	Err  error
}

func (e *AttachmentResolutionError) Error() string {
	return fmt.Sprintf("attachment directory %s: %v", e.Path, e.Err)
}

func (e *AttachmentResolutionError) Unwrap() []error {
	return []error{ErrAttachment, e.Err}
}

package resolve

import (
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"mkvplan/internal/plan"
)

// ResolvedAttachment is one file to attach. MIMEType is set only for
// explicit attachments that declared one; directory expansions leave it
// empty so mkvmerge performs its own detection.
type ResolvedAttachment struct {
	Filename string
	Name     string
	MIMEType string
}

const undetectableMIME = "application/octet-stream"

// Attachments normalizes explicit entries and expands directories.
// Explicit attachments come first in document order, then each directory's
// files in listing order. Files inside a directory whose content type
// cannot be determined are silently dropped; expansion never recurses.
func Attachments(entries []plan.AttachmentEntry) ([]ResolvedAttachment, error) {
	var out []ResolvedAttachment

	for _, entry := range entries {
		if entry.File == nil {
			continue
		}
		out = append(out, ResolvedAttachment{
			Filename: entry.File.Filename,
			Name:     entry.File.Name,
			MIMEType: entry.File.MIMEType,
		})
	}

	for _, entry := range entries {
		if entry.Dir == nil {
			continue
		}
		expanded, err := expandDirectory(entry.Dir.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}

	return out, nil
}

func expandDirectory(dir string) ([]ResolvedAttachment, error) {
	listing, err := os.ReadDir(dir)
	if err != nil {
		return nil, &AttachmentResolutionError{Path: dir, Err: err}
	}

	var out []ResolvedAttachment
	for _, entry := range listing {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		detected, err := mimetype.DetectFile(path)
		if err != nil || detected.Is(undetectableMIME) {
			continue
		}
		out = append(out, ResolvedAttachment{Filename: path})
	}
	return out, nil
}

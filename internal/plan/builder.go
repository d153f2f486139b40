package plan

// Builder accumulates sources, tracks, and attachments incrementally and
// snapshots them into an immutable Plan. It mirrors the document loader
// for callers that assemble plans programmatically; filtered selectors are
// only reachable through this path.
type Builder struct {
	plan Plan
}

// NewBuilder returns an empty mux plan builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddSource appends a source and returns its index for track references.
func (b *Builder) AddSource(filename string, options OptionMap) int {
	b.plan.Sources = append(b.plan.Sources, Source{Filename: filename, Options: options.Clone()})
	return len(b.plan.Sources) - 1
}

// AddTrack appends a track reference for the given source index.
func (b *Builder) AddTrack(source int, selector Selector, options OptionMap) *Builder {
	b.plan.Tracks = append(b.plan.Tracks, TrackRef{
		Source:   source,
		Selector: selector,
		Options:  options.Clone(),
	})
	return b
}

// AddAttachment appends an explicit attachment.
func (b *Builder) AddAttachment(att Attachment) *Builder {
	b.plan.Attachments = append(b.plan.Attachments, AttachmentEntry{File: &att})
	return b
}

// AddAttachmentDir appends a directory to expand at resolution time.
func (b *Builder) AddAttachmentDir(path string) *Builder {
	b.plan.Attachments = append(b.plan.Attachments, AttachmentEntry{Dir: &AttachmentDir{Path: path}})
	return b
}

// SetOutput sets the output container filename.
func (b *Builder) SetOutput(filename string) *Builder {
	b.plan.OutputFile = filename
	return b
}

// SetGlobalOptions replaces the plan-level option map.
func (b *Builder) SetGlobalOptions(options OptionMap) *Builder {
	b.plan.GlobalOptions = options.Clone()
	return b
}

// SetTrackOrder supplies an explicit track-order override, used verbatim.
func (b *Builder) SetTrackOrder(order []string) *Builder {
	b.plan.TrackOrder = append([]string(nil), order...)
	return b
}

// Build validates and snapshots the accumulated plan. The builder can keep
// accumulating afterwards; the returned Plan is independent.
func (b *Builder) Build() (*Plan, error) {
	snapshot := Plan{
		Sources:       make([]Source, len(b.plan.Sources)),
		Tracks:        make([]TrackRef, len(b.plan.Tracks)),
		OutputFile:    b.plan.OutputFile,
		GlobalOptions: b.plan.GlobalOptions.Clone(),
		Attachments:   make([]AttachmentEntry, 0, len(b.plan.Attachments)),
		TrackOrder:    append([]string(nil), b.plan.TrackOrder...),
	}
	for i, src := range b.plan.Sources {
		snapshot.Sources[i] = Source{Filename: src.Filename, Options: src.Options.Clone()}
	}
	for i, trk := range b.plan.Tracks {
		snapshot.Tracks[i] = TrackRef{
			Source:   trk.Source,
			Selector: trk.Selector,
			Options:  trk.Options.Clone(),
		}
	}
	for _, entry := range b.plan.Attachments {
		cp := AttachmentEntry{}
		if entry.File != nil {
			file := *entry.File
			cp.File = &file
		}
		if entry.Dir != nil {
			dir := *entry.Dir
			cp.Dir = &dir
		}
		snapshot.Attachments = append(snapshot.Attachments, cp)
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Package testsupport provides shared helpers for package tests: a fake
// metadata provider and file fixture helpers.
package testsupport

import (
	"context"
	"fmt"
	"sync"

	"mkvplan/internal/identify"
)

// FakeProvider serves canned track metadata keyed by source filename and
// records how often each source was queried.
type FakeProvider struct {
	mu     sync.Mutex
	tracks map[string][]identify.Track
	Calls  map[string]int
}

// NewFakeProvider builds a provider serving the given metadata.
func NewFakeProvider(tracks map[string][]identify.Track) *FakeProvider {
	return &FakeProvider{tracks: tracks, Calls: make(map[string]int)}
}

// Tracks implements identify.Provider.
func (p *FakeProvider) Tracks(ctx context.Context, source string) ([]identify.Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls[source]++
	tracks, ok := p.tracks[source]
	if !ok {
		return nil, fmt.Errorf("no metadata for %s", source)
	}
	return tracks, nil
}

package compile

import (
	"errors"
	"fmt"
	"strconv"

	"mkvplan/internal/plan"
)

// ErrSentinelLeak reports a sentinel option key reaching serialization.
// Resolution must consume sentinels first; hitting this is a programming
// error, not bad input.
var ErrSentinelLeak = errors.New("sentinel option reached serialization")

// Options serializes an option map into argument tokens in insertion
// order. A valued option emits "--name" followed by the value; a
// presence-only option emits "--name" alone.
func Options(m plan.OptionMap) ([]string, error) {
	var out []string
	for _, opt := range m.All() {
		if plan.IsSentinel(opt.Name) {
			return nil, fmt.Errorf("%w: %q", ErrSentinelLeak, opt.Name)
		}
		out = append(out, "--"+opt.Name)
		if opt.Value.HasValue() {
			out = append(out, opt.Value.Value())
		}
	}
	return out, nil
}

// TrackOptions serializes a per-track option map, pinning every value to
// the physical track id the way mkvmerge expects: "--language", "2:eng".
// Presence-only options emit the bare flag.
func TrackOptions(track int, m plan.OptionMap) ([]string, error) {
	var out []string
	for _, opt := range m.All() {
		if plan.IsSentinel(opt.Name) {
			return nil, fmt.Errorf("%w: %q", ErrSentinelLeak, opt.Name)
		}
		out = append(out, "--"+opt.Name)
		if opt.Value.HasValue() {
			out = append(out, strconv.Itoa(track)+":"+opt.Value.Value())
		}
	}
	return out, nil
}

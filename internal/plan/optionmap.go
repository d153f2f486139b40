package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SentinelPrefix marks option keys that are resolver directives rather than
// pass-through mkvmerge flags.
const SentinelPrefix = "_"

// OptionValue is either a string value or a presence-only flag.
type OptionValue struct {
	value    string
	hasValue bool
}

// StringValue builds an option value carrying a value token.
func StringValue(v string) OptionValue {
	return OptionValue{value: v, hasValue: true}
}

// PresenceOnly builds an option value that emits the flag name alone.
func PresenceOnly() OptionValue {
	return OptionValue{}
}

// HasValue reports whether the option carries a value token.
func (v OptionValue) HasValue() bool { return v.hasValue }

// Value returns the value token; empty for presence-only options.
func (v OptionValue) Value() string { return v.value }

// Option is a single named entry in an OptionMap.
type Option struct {
	Name  string
	Value OptionValue
}

// OptionMap is an insertion-ordered mapping of option names to values.
// Order is significant: mkvmerge pins per-track flags to the track
// selection flags that follow them.
type OptionMap struct {
	opts []Option
}

// IsSentinel reports whether an option name is a resolver directive.
func IsSentinel(name string) bool {
	return strings.HasPrefix(name, SentinelPrefix)
}

// Set adds or replaces a string-valued option. Replacing keeps the
// original position (last write wins on the value only).
func (m *OptionMap) Set(name, value string) {
	m.put(name, StringValue(value))
}

// SetFlag adds or replaces a presence-only option.
func (m *OptionMap) SetFlag(name string) {
	m.put(name, PresenceOnly())
}

func (m *OptionMap) put(name string, value OptionValue) {
	for i := range m.opts {
		if m.opts[i].Name == name {
			m.opts[i].Value = value
			return
		}
	}
	m.opts = append(m.opts, Option{Name: name, Value: value})
}

// Get returns the value for name and whether it is present.
func (m *OptionMap) Get(name string) (OptionValue, bool) {
	for i := range m.opts {
		if m.opts[i].Name == name {
			return m.opts[i].Value, true
		}
	}
	return OptionValue{}, false
}

// Delete removes name, reporting whether it was present.
func (m *OptionMap) Delete(name string) bool {
	for i := range m.opts {
		if m.opts[i].Name == name {
			m.opts = append(m.opts[:i], m.opts[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of options.
func (m *OptionMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.opts)
}

// All returns the options in insertion order. The slice is shared; callers
// must not mutate it.
func (m *OptionMap) All() []Option {
	if m == nil {
		return nil
	}
	return m.opts
}

// Clone returns an independent copy.
func (m *OptionMap) Clone() OptionMap {
	if m == nil || len(m.opts) == 0 {
		return OptionMap{}
	}
	cp := make([]Option, len(m.opts))
	copy(cp, m.opts)
	return OptionMap{opts: cp}
}

// WithoutSentinels returns a copy with all sentinel-prefixed keys removed.
func (m *OptionMap) WithoutSentinels() OptionMap {
	var out OptionMap
	for _, opt := range m.All() {
		if IsSentinel(opt.Name) {
			continue
		}
		out.put(opt.Name, opt.Value)
	}
	return out
}

// MergeOver layers overlay on top of the receiver: the result starts from
// the receiver's entries and overlay entries win on conflicting names.
func (m *OptionMap) MergeOver(overlay OptionMap) OptionMap {
	out := m.Clone()
	for _, opt := range overlay.All() {
		out.put(opt.Name, opt.Value)
	}
	return out
}

// UnmarshalJSON decodes a JSON object while preserving key order. Values
// may be strings, booleans (rendered as yes/no), numbers, or null
// (presence-only).
func (m *OptionMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options: expected object, got %v", tok)
	}

	var opts []Option
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("options: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("options: non-string key %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("options %q: %w", key, err)
		}
		var value OptionValue
		switch v := valTok.(type) {
		case nil:
			value = PresenceOnly()
		case string:
			value = StringValue(v)
		case bool:
			if v {
				value = StringValue("yes")
			} else {
				value = StringValue("no")
			}
		case json.Number:
			value = StringValue(v.String())
		default:
			return fmt.Errorf("options %q: unsupported value %v", key, valTok)
		}
		opts = append(opts, Option{Name: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	m.opts = nil
	for _, opt := range opts {
		m.put(opt.Name, opt.Value)
	}
	return nil
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m OptionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range m.opts {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if !opt.Value.HasValue() {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(opt.Value.Value())
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

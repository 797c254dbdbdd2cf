package event

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLEvent is the canonical trace schema of spec.md §6: id, thread, kind,
// addr, val, mode, one record per event. Grounded on core/program.go's
// YAMLEntry/YAMLOperation shape — a flat, tag-per-field record type kept
// separate from the runtime Event so the wire format can evolve
// independently of the in-memory representation.
type YAMLEvent struct {
	ID     int    `yaml:"id"`
	Thread int    `yaml:"thread"`
	Kind   string `yaml:"kind"`
	Addr   int    `yaml:"addr"`
	Val    int    `yaml:"val"`
	Mode   string `yaml:"mode"`
}

// YAMLTrace is the top-level document: an ordered array of events.
type YAMLTrace struct {
	Events []YAMLEvent `yaml:"events"`
}

// LoadTraceFromYAML reads and validates a trace from path, mirroring
// core/program.go's LoadProgramFileFromYAML (read file, unmarshal, build
// the validated in-memory type, fatal-log-free — errors are returned, not
// logged, since this is a library function rather than a CLI entry point).
func LoadTraceFromYAML(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace file %s: %w", path, err)
	}
	return LoadTraceFromYAMLBytes(data)
}

// LoadTraceFromYAMLBytes parses and validates a trace from raw YAML bytes.
func LoadTraceFromYAMLBytes(data []byte) (*Trace, error) {
	var doc YAMLTrace
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse trace YAML: %w", err)
	}

	events := make([]Event, len(doc.Events))
	for i, ye := range doc.Events {
		events[i] = Event{
			ID:     ye.ID,
			Thread: ye.Thread,
			Kind:   Kind(ye.Kind),
			Addr:   ye.Addr,
			Val:    ye.Val,
			Mode:   Mode(ye.Mode),
		}
	}

	return BuildTrace(events)
}

// MarshalTraceToYAML renders t back into the canonical schema, in id order.
func MarshalTraceToYAML(t *Trace) ([]byte, error) {
	doc := YAMLTrace{}
	for _, e := range t.Events() {
		doc.Events = append(doc.Events, YAMLEvent{
			ID:     e.ID,
			Thread: e.Thread,
			Kind:   string(e.Kind),
			Addr:   e.Addr,
			Val:    e.Val,
			Mode:   string(e.Mode),
		})
	}
	return yaml.Marshal(doc)
}

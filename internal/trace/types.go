// Package trace provides types for trace event collection and analysis.
// Grounded on the teacher's internal/trace/types.go (Tag/Tags/Annotations/
// Event, DefaultEnricher) with the tag set and enrichment rules
// regeneralized from Android/Cocos2d reverse-engineering categories
// (setter, key, xor-neon, jni-call, lua, tolua, cxxabi, android) to the
// categories this orchestrator's own components actually emit: hook
// activity, syscalls, patch application, memory-map changes and the
// debugger bridge.
package trace

import "time"

// Tag represents a trace event category.
// Tags are stored without # prefix; the prefix is added on rendering.
type Tag string

// Standard tags for trace events.
const (
	Hook     Tag = "hook"
	Syscall  Tag = "syscall"
	Patch    Tag = "patch"
	Mmap     Tag = "mmap"
	Debugger Tag = "debugger"
	Thread   Tag = "thread"
	Stop     Tag = "stop"
	Script   Tag = "script"
)

// Tags is a collection of tags with helper methods.
type Tags []Tag

// Has returns true if the tag collection contains the given tag.
func (t Tags) Has(tag Tag) bool {
	for _, x := range t {
		if x == tag {
			return true
		}
	}
	return false
}

// Add adds a tag if not already present.
func (t *Tags) Add(tag Tag) {
	if !t.Has(tag) {
		*t = append(*t, tag)
	}
}

// Strings returns tags as strings with # prefix for display.
func (t Tags) Strings() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = "#" + string(tag)
	}
	return out
}

// Raw returns tags as strings without # prefix.
func (t Tags) Raw() []string {
	out := make([]string, len(t))
	for i, tag := range t {
		out[i] = string(tag)
	}
	return out
}

// Primary returns the first tag or empty string if none.
func (t Tags) Primary() Tag {
	if len(t) > 0 {
		return t[0]
	}
	return ""
}

// Annotations holds key-value metadata for trace events.
type Annotations map[string]string

// Set adds or updates an annotation.
func (a Annotations) Set(k, v string) {
	a[k] = v
}

// Get retrieves an annotation value.
func (a Annotations) Get(k string) string {
	return a[k]
}

// Has returns true if the annotation exists.
func (a Annotations) Has(k string) bool {
	_, ok := a[k]
	return ok
}

// Event represents a trace event with rich metadata.
type Event struct {
	PC          uint64      // Program counter the event fired at
	Tags        Tags        // Multiple hashtags, first is primary
	Name        string      // Event name (e.g. "mem_write", "execve", "hook_address")
	Detail      string      // Additional detail (e.g. "size=24", "addr=0x1000")
	Annotations Annotations // Key-value metadata
	Timestamp   time.Time   // When the event occurred
}

// NewEvent creates a new trace event with the given parameters.
func NewEvent(pc uint64, category, name, detail string) *Event {
	return &Event{
		PC:          pc,
		Tags:        Tags{Tag(category)},
		Name:        name,
		Detail:      detail,
		Annotations: make(Annotations),
		Timestamp:   time.Now(),
	}
}

// AddTag adds a tag to the event.
func (e *Event) AddTag(tag Tag) {
	e.Tags.Add(tag)
}

// Annotate sets an annotation on the event.
func (e *Event) Annotate(k, v string) {
	if e.Annotations == nil {
		e.Annotations = make(Annotations)
	}
	e.Annotations.Set(k, v)
}

// PrimaryTag returns the primary (first) tag with # prefix.
func (e *Event) PrimaryTag() string {
	if len(e.Tags) > 0 {
		return "#" + string(e.Tags[0])
	}
	return ""
}

// Enricher enriches trace events based on category and name.
type Enricher func(e *Event)

// DefaultEnricher adds a second tag for the handful of syscalls worth
// calling out specially in a trace view: address-space changes and
// process teardown.
func DefaultEnricher(e *Event) {
	if len(e.Tags) == 0 {
		return
	}

	if e.Tags[0] != Syscall {
		return
	}

	switch e.Name {
	case "mmap", "mmap2", "munmap", "brk", "mprotect":
		e.AddTag(Mmap)
	case "exit", "exit_group":
		e.AddTag(Stop)
	case "clone", "fork", "pthread_create":
		e.AddTag(Thread)
	}
}

// Package observability provides structured diagnostic tracing for pipeline
// operations, keyed by the entity being processed and gated by a debug flag.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Tracer writes structured key=value event lines. A disabled tracer is a
// no-op, so call sites never need to guard their trace calls.
type Tracer struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
}

// NewTracer creates a Tracer writing to out when enabled is true.
func NewTracer(out io.Writer, enabled bool) *Tracer {
	return &Tracer{out: out, enabled: enabled}
}

// Nop returns a disabled tracer.
func Nop() *Tracer {
	return &Tracer{}
}

// Enabled reports whether the tracer emits events.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Event writes one trace line: timestamp, event name, entity ID, then the
// remaining fields sorted by key for stable output.
func (t *Tracer) Event(event, entityID string, fields map[string]any) {
	if !t.Enabled() {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().UTC().Format(time.RFC3339))
	sb.WriteString(" event=")
	sb.WriteString(event)
	if entityID != "" {
		sb.WriteString(" id=")
		sb.WriteString(entityID)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(formatValue(fields[k]))
	}
	sb.WriteString("\n")

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, sb.String())
}

func formatValue(v any) string {
	s := fmt.Sprintf("%v", v)
	if strings.ContainsAny(s, " \t\n") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

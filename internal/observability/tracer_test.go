package observability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracer_Event(t *testing.T) {
	var buf strings.Builder
	tracer := NewTracer(&buf, true)

	tracer.Event("resume_evaluated", "cand-1", map[string]any{
		"score":    8,
		"fallback": false,
	})

	line := buf.String()
	assert.Contains(t, line, "event=resume_evaluated")
	assert.Contains(t, line, "id=cand-1")
	assert.Contains(t, line, "score=8")
	assert.Contains(t, line, "fallback=false")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestTracer_FieldsSortedByKey(t *testing.T) {
	var buf strings.Builder
	tracer := NewTracer(&buf, true)

	tracer.Event("e", "x", map[string]any{"zeta": 1, "alpha": 2, "mid": 3})

	line := buf.String()
	require.Less(t, strings.Index(line, "alpha="), strings.Index(line, "mid="))
	require.Less(t, strings.Index(line, "mid="), strings.Index(line, "zeta="))
}

func TestTracer_QuotesValuesWithSpaces(t *testing.T) {
	var buf strings.Builder
	tracer := NewTracer(&buf, true)

	tracer.Event("e", "x", map[string]any{"error": "connection refused"})
	assert.Contains(t, buf.String(), `error="connection refused"`)
}

func TestTracer_DisabledWritesNothing(t *testing.T) {
	var buf strings.Builder
	tracer := NewTracer(&buf, false)
	tracer.Event("e", "x", nil)
	assert.Empty(t, buf.String())
}

func TestTracer_NopAndNilSafe(t *testing.T) {
	assert.False(t, Nop().Enabled())

	var tracer *Tracer
	assert.False(t, tracer.Enabled())
	assert.NotPanics(t, func() { tracer.Event("e", "x", nil) })
}

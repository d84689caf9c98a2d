package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanIndex_Innermost(t *testing.T) {
	idx := NewSpanIndex([]Span{
		{ID: "inner", Start: 3, End: 8},
		{ID: "outer", Start: 1, End: 20},
		{ID: "sibling", Start: 10, End: 15},
		{ID: "same-start-narrow", Start: 10, End: 12},
	})

	tests := []struct {
		line int
		want string
		ok   bool
	}{
		{line: 1, ok: false},
		{line: 2, want: "outer", ok: true},
		{line: 5, want: "inner", ok: true},
		{line: 8, want: "outer", ok: true},
		{line: 11, want: "same-start-narrow", ok: true},
		{line: 13, want: "sibling", ok: true},
		{line: 20, ok: false},
		{line: 25, ok: false},
	}
	for _, tt := range tests {
		got, ok := idx.Innermost(tt.line)
		assert.Equal(t, tt.ok, ok, "line %d", tt.line)
		if tt.ok {
			assert.Equal(t, tt.want, got.ID, "line %d", tt.line)
		}
	}
}

func TestSpanIndex_Enclosing(t *testing.T) {
	idx := NewSpanIndex([]Span{
		{ID: "b", Start: 2, End: 9},
		{ID: "a", Start: 1, End: 10},
		{ID: "c", Start: 3, End: 4},
	})

	var ids []string
	for _, s := range idx.Enclosing(5) {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Empty(t, idx.Enclosing(1))
}

func TestSpan_Contains(t *testing.T) {
	s := Span{Start: 3, End: 5}
	assert.False(t, s.Contains(3))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5), "closing bracket line")

	s.Inclusive = true
	assert.False(t, s.Contains(3))
	assert.True(t, s.Contains(5), "last body line")
	assert.False(t, s.Contains(6))
}

func TestSpanIndex_InclusiveEnd(t *testing.T) {
	idx := NewSpanIndex([]Span{
		{ID: "outer", Start: 1, End: 3, Inclusive: true},
		{ID: "inner", Start: 3, End: 3, Inclusive: true},
	})

	got, ok := idx.Innermost(3)
	require.True(t, ok)
	assert.Equal(t, "outer", got.ID)

	_, ok = idx.Innermost(4)
	assert.False(t, ok)
}

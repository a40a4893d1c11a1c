package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bugType  string
		category string
		known    bool
	}{
		{bugType: "memory leak", category: "memory-safety", known: true},
		{bugType: "race condition", category: "concurrency", known: true},
		{bugType: "null-pointer dereference", category: "system", known: true},
		{bugType: "integer overflow", category: "logic", known: true},
		{bugType: "input validation", category: "security", known: true},
		{bugType: "algorithmic efficiency", category: "performance", known: true},
		{bugType: "not-a-bug-fix", category: "other", known: true},
		{bugType: "quantum flux", known: false},
		{bugType: "", known: false},
	}
	for _, tt := range tests {
		category, ok := CategoryOf(tt.bugType)
		assert.Equal(t, tt.known, ok, tt.bugType)
		assert.Equal(t, tt.category, category, tt.bugType)
	}
}

func TestFallback(t *testing.T) {
	t.Parallel()

	f := Fallback("something went wrong")
	assert.False(t, f.HasBugFix)
	assert.Equal(t, CategoryOther, f.Category)
	assert.Equal(t, TypeNotBugFix, f.Type)
	assert.Zero(t, f.Confidence)
	assert.Equal(t, "something went wrong", f.Reasoning)
}

package classify

import "github.com/NOVAZHOU2/GithubAnalyzer/internal/app"

// Downgrade values used when an answer can't be trusted.
const (
	CategoryOther = "other"
	TypeNotBugFix = "not-a-bug-fix"
)

// taxonomy is the fixed set of bug types the classifier may answer with,
// grouped by category. Anything outside it is downgraded.
var taxonomy = map[string][]string{
	"memory-safety": {"memory leak", "buffer overflow", "dangling pointer"},
	"concurrency":   {"race condition", "deadlock"},
	"system":        {"null-pointer dereference", "resource leak"},
	"logic":         {"incorrect condition", "loop boundary", "integer overflow"},
	"security":      {"format string", "input validation"},
	"performance":   {"algorithmic efficiency"},
	CategoryOther:   {"configuration error", TypeNotBugFix},
}

// CategoryOf returns the category given bug type belongs to.
func CategoryOf(bugType string) (string, bool) {
	for category, types := range taxonomy {
		for _, t := range types {
			if t == bugType {
				return category, true
			}
		}
	}

	return "", false
}

// Fallback returns the downgraded classification used for malformed or
// out-of-taxonomy upstream answers.
func Fallback(reason string) app.BugClassification {
	return app.BugClassification{
		HasBugFix:  false,
		Category:   CategoryOther,
		Type:       TypeNotBugFix,
		Confidence: 0,
		Reasoning:  reason,
	}
}

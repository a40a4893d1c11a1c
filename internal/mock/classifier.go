package mock

import (
	"context"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

// Classifier mocks app.Classifier.
type Classifier struct {
	ClassifyMessageFunc func(ctx context.Context, message string) (app.BugClassification, error)

	Calls int
}

// ClassifyMessage returns a classification for given commit message.
func (m *Classifier) ClassifyMessage(ctx context.Context, message string) (app.BugClassification, error) {
	m.Calls++
	if m.ClassifyMessageFunc != nil {
		return m.ClassifyMessageFunc(ctx, message)
	}

	return app.BugClassification{}, nil
}

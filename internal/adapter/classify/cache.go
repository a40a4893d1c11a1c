package classify

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
)

// CachedClassifier wraps a classifier with an in-memory cache, so identical
// commit messages inside one batch cost a single api call.
type CachedClassifier struct {
	classifier app.Classifier
	cache      *lru.Cache
}

// NewCachedClassifier creates new CachedClassifier instance.
func NewCachedClassifier(classifier app.Classifier, size int) (*CachedClassifier, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}

	return &CachedClassifier{
		classifier: classifier,
		cache:      cache,
	}, nil
}

// ClassifyMessage returns a classification for given commit message.
func (c *CachedClassifier) ClassifyMessage(ctx context.Context, message string) (app.BugClassification, error) {
	if v, ok := c.cache.Get(message); ok {
		return v.(app.BugClassification), nil
	}

	result, err := c.classifier.ClassifyMessage(ctx, message)
	if err != nil {
		return result, err
	}
	c.cache.Add(message, result)

	return result, nil
}

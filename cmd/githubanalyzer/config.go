package main

import "time"

// Config is the container for app configuration
type Config struct {
	// GithubAPIAddress - address for rest api with protocol
	GithubAPIAddress string `default:"https://api.github.com"`

	// GithubAPIToken - auth token for rest github api (optional, rate limit is lower without this token)
	GithubAPIToken string `default:""`

	// GithubAPIUserAgent - user agent header sent with every api request
	GithubAPIUserAgent string `default:"GithubAnalyzer"`

	// GithubAPIRateLimit - max frequency for github rest api calls
	GithubAPIRateLimit float64 `default:"2"`

	// HTTPTimeout - timeout for outbound http requests
	HTTPTimeout time.Duration `default:"30s"`

	// CachePath - filepath for the bolt db holding cached api responses. If empty, the cache is disabled
	CachePath string `default:""`

	// CacheBucketName - bolt db bucket name
	CacheBucketName string `default:"responses"`

	// CacheTTL - maximum lifetime for cached api responses
	CacheTTL time.Duration `default:"1h"`

	// ClassifyAPIAddress - address of the chat-completions api used for bug classification
	ClassifyAPIAddress string `default:"https://api.openai.com"`

	// ClassifyAPIKey - api key for the classification api
	ClassifyAPIKey string `default:""`

	// ClassifyModel - model used for classification
	ClassifyModel string `default:"gpt-3.5-turbo"`

	// ClassifyDelay - pause between classification api calls
	ClassifyDelay time.Duration `default:"2s"`

	// ClassifyCacheSize - maximum number of classifications kept in memory
	ClassifyCacheSize int `default:"1024"`
}

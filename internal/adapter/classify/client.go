package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
	"github.com/sirupsen/logrus"
)

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client labels commit messages through a chat-completions API.
// This struct is an adapter for app.Classifier.
//
// Every failure mode degrades to the fallback classification instead of
// poisoning the batch: the returned value is always usable, the error is
// informational.
type Client struct {
	doer    HTTPDoer
	address string
	apiKey  string
	model   string
	l       logrus.FieldLogger

	temperature     float64
	maxTokens       int
	responseMaxSize int
}

var _ app.Classifier = &Client{}

// NewClient creates new classification client.
func NewClient(doer HTTPDoer, address string, apiKey string, model string, l logrus.FieldLogger) *Client {
	return &Client{
		doer:    doer,
		address: address,
		apiKey:  apiKey,
		model:   model,
		l:       l,

		temperature:     0.3,
		maxTokens:       500,
		responseMaxSize: 1024 * 1024,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type classificationPayload struct {
	HasBugFix   bool    `json:"has_bug_fix"`
	BugCategory string  `json:"bug_category"`
	BugType     string  `json:"bug_type"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

const systemPrompt = "You are a software engineering analyst who identifies what kind of bug a code commit fixes."

// ClassifyMessage asks the model to label one commit message.
func (c *Client) ClassifyMessage(ctx context.Context, message string) (app.BugClassification, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(message)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return Fallback("building classification request failed"), fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.address+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Fallback("building classification request failed"), fmt.Errorf("creating http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.doer.Do(req.WithContext(ctx))
	if err != nil {
		return Fallback("classification api call failed"), fmt.Errorf("doing http request: %w", err)
	}
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Fallback("classification api call failed"), fmt.Errorf("classification api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(c.responseMaxSize)))
	if err != nil {
		return Fallback("classification api call failed"), fmt.Errorf("reading http response body: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return Fallback("classification response unparseable"), fmt.Errorf("unmarshalling chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Fallback("classification response empty"), errors.New("chat response has no choices")
	}

	var result classificationPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(chat.Choices[0].Message.Content)), &result); err != nil {
		c.l.Warnf("classifier answer is not valid json: %v", err)
		return Fallback("classification response unparseable"), nil
	}

	return c.validate(result), nil
}

// validate enforces the taxonomy: an affirmative answer with an unknown bug
// type is downgraded, and the category is normalized to the taxonomy's own.
func (c *Client) validate(result classificationPayload) app.BugClassification {
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	if result.HasBugFix && result.BugType != TypeNotBugFix {
		category, ok := CategoryOf(result.BugType)
		if !ok {
			c.l.Warnf("classifier answered with unknown bug type %q", result.BugType)
			return Fallback("bug type outside the known taxonomy")
		}
		result.BugCategory = category
	}

	return app.BugClassification{
		HasBugFix:  result.HasBugFix,
		Category:   result.BugCategory,
		Type:       result.BugType,
		Confidence: result.Confidence,
		Reasoning:  result.Reasoning,
	}
}

func buildPrompt(message string) string {
	var b strings.Builder

	b.WriteString("Analyze the following commit message and identify the kind of bug it fixes.\n\n")
	fmt.Fprintf(&b, "Commit message: %q\n\n", message)
	b.WriteString("Pick the single best matching bug type from this list (pick \"" + TypeNotBugFix + "\" when the commit does not fix a bug):\n")
	for _, types := range [][]string{
		taxonomy["memory-safety"],
		taxonomy["concurrency"],
		taxonomy["system"],
		taxonomy["logic"],
		taxonomy["security"],
		taxonomy["performance"],
		taxonomy[CategoryOther],
	} {
		fmt.Fprintf(&b, "- %s\n", strings.Join(types, ", "))
	}
	b.WriteString("\nReply with JSON only, no other content:\n")
	b.WriteString(`{"has_bug_fix": true/false, "bug_category": "category", "bug_type": "type", "confidence": 0.0-1.0, "reasoning": "short explanation"}`)

	return b.String()
}

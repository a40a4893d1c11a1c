package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// KVStore provides simple kv data storage.
type KVStore interface {
	ReadKey(key []byte) ([]byte, error)
	UpdateKey(key []byte, data []byte) error
}

// CachingDoer wraps HTTPDoer and replays successful GET responses recorded
// in a kv store, so repeated runs don't spend API budget on identical
// requests. Only 200 responses are recorded; error statuses always reach the
// upstream so pagination stop conditions keep working.
//
// Replayed responses carry no rate-limit headers, which leaves the budget
// tracker's state untouched.
type CachingDoer struct {
	doer  HTTPDoer
	store KVStore
	ttl   time.Duration
	now   func() time.Time
	l     logrus.FieldLogger
}

// NewCachingDoer creates new CachingDoer instance.
func NewCachingDoer(doer HTTPDoer, store KVStore, ttl time.Duration, l logrus.FieldLogger) *CachingDoer {
	return &CachingDoer{
		doer:  doer,
		store: store,
		ttl:   ttl,
		now:   time.Now,
		l:     l,
	}
}

type cacheEntry struct {
	Created int64  `json:"created"`
	Status  int    `json:"status"`
	Body    []byte `json:"body"`
}

// Do executes http request, serving a stored response when a fresh one exists.
func (d *CachingDoer) Do(r *http.Request) (*http.Response, error) {
	if r.Method != http.MethodGet || d.ttl <= 0 {
		return d.doer.Do(r)
	}

	key := []byte(r.URL.String())

	if data, err := d.store.ReadKey(key); err != nil {
		d.l.Warnf("reading response cache: %v", err)
	} else if data != nil {
		var entry cacheEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			d.l.Warnf("unmarshalling cached response: %v", err)
		} else if time.Unix(entry.Created, 0).Add(d.ttl).After(d.now()) {
			return &http.Response{
				StatusCode: entry.Status,
				Header:     http.Header{},
				Body:       io.NopCloser(bytes.NewReader(entry.Body)),
				Request:    r,
			}, nil
		}
	}

	resp, err := d.doer.Do(r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body for cache: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	data, err := json.Marshal(cacheEntry{
		Created: d.now().Unix(),
		Status:  resp.StatusCode,
		Body:    body,
	})
	if err != nil {
		return resp, nil
	}
	if err := d.store.UpdateKey(key, data); err != nil {
		d.l.Warnf("updating response cache: %v", err)
	}

	return resp, nil
}

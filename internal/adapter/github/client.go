package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
	"github.com/sirupsen/logrus"
)

// Maximum number of items the API returns per page.
const maxPageSize = 100

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client retrieves repositories and commit histories from the GitHub REST API.
// This struct is an adapter for app.GithubClient.
type Client struct {
	doer      HTTPDoer
	address   string
	authToken string
	userAgent string
	limits    *RateLimit
	l         logrus.FieldLogger

	sleep            SleepFunc
	searchPageDelay  time.Duration
	commitsPageDelay time.Duration
	commitsPageLimit int

	searchResponseMaxSize  int
	commitsResponseMaxSize int
}

var _ app.GithubClient = &Client{}

// NewClient creates new github client.
// authToken is optional, anonymous access works with a lower rate limit.
func NewClient(doer HTTPDoer, address string, authToken string, userAgent string, limits *RateLimit, l logrus.FieldLogger) *Client {
	c := Client{
		doer:      doer,
		address:   address,
		authToken: authToken,
		userAgent: userAgent,
		limits:    limits,
		l:         l,

		sleep:            Sleep,
		searchPageDelay:  time.Second,
		commitsPageDelay: 500 * time.Millisecond,
		commitsPageLimit: 10,

		searchResponseMaxSize:  1024 * 1024 * 10,
		commitsResponseMaxSize: 1024 * 1024 * 10,
	}

	return &c
}

// SearchRepositories returns repositories matching given criteria, at most
// criteria.MaxProjects of them, most-starred first.
//
// Any stop condition (403, other non-200 status, transport failure) ends the
// search immediately; whatever was collected so far is returned alongside the
// error. There is no empty-page check here: the search endpoint gives no
// last-page signal worth trusting, the stop conditions are the only exits.
func (c *Client) SearchRepositories(ctx context.Context, criteria app.Criteria) ([]app.Project, error) {
	if criteria.Language == "" {
		return nil, app.InvalidRequestError("language cannot be empty")
	}
	if criteria.MaxProjects < 1 {
		return nil, app.InvalidRequestError("max projects must be greater than zero")
	}

	sortKey := criteria.Sort
	if sortKey == "" {
		sortKey = "stars"
	}
	order := criteria.Order
	if order == "" {
		order = "desc"
	}

	projects := make([]app.Project, 0, criteria.MaxProjects)
	page := 1
	for len(projects) < criteria.MaxProjects {
		u, err := url.Parse(c.address + "/search/repositories")
		if err != nil {
			return projects, fmt.Errorf("invalid url: %w", err)
		}

		v := make(url.Values)
		v.Set("q", fmt.Sprintf("language:%s stars:>=%d", criteria.Language, criteria.MinStars))
		v.Set("sort", sortKey)
		v.Set("order", order)
		v.Set("per_page", strconv.Itoa(pageSize(criteria.MaxProjects-len(projects))))
		v.Set("page", strconv.Itoa(page))
		u.RawQuery = v.Encode()

		body, status, err := c.get(ctx, u.String(), c.searchResponseMaxSize)
		if err != nil {
			return projects, fmt.Errorf("searching repositories: %w", err)
		}

		switch status {
		case http.StatusOK:
			var resp searchResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return projects, fmt.Errorf("unmarshalling search response: %w", err)
			}
			for _, p := range resp.ToProjects() {
				if len(projects) >= criteria.MaxProjects {
					break
				}
				projects = append(projects, p)
				c.l.Infof("found project %s (stars: %d)", p.FullName, p.Stars)
			}
		case http.StatusForbidden:
			return projects, app.RateLimitedError("repository search blocked by api rate limit")
		default:
			return projects, fmt.Errorf("repository search returned status %d", status)
		}

		page++
		if err := c.sleep(ctx, c.searchPageDelay); err != nil {
			return projects, err
		}
	}

	return projects, nil
}

// fetchBudget tracks pagination progress for one repository's commit fetch.
type fetchBudget struct {
	requested int
	obtained  int
	page      int
	attempts  int
	ceiling   int
}

// Commits returns up to count commits of given repository, newest first.
//
// The fetch is best-effort and never fails: every terminal condition is
// reported through the result's stop reason, and any commits obtained before
// it fired are kept. At most commitsPageLimit page requests are issued no
// matter how large count is.
func (c *Client) Commits(ctx context.Context, owner string, name string, count int) app.CommitsResult {
	res := app.CommitsResult{Commits: []app.Commit{}, Stop: app.StopSatisfied}
	if count <= 0 {
		return res
	}

	requested := count
	// The size field is kilobytes, not commits, so it is only an upper-bound
	// hint for tiny repositories. Never grow the request from it.
	if hint := c.repositorySizeHint(ctx, owner, name); hint > 0 && hint < requested {
		c.l.Debugf("%s/%s: size hint %d below requested %d, shrinking request", owner, name, hint, requested)
		requested = hint
	}

	budget := fetchBudget{
		requested: requested,
		page:      1,
		ceiling:   c.commitsPageLimit,
	}

	for budget.obtained < budget.requested {
		if budget.attempts >= budget.ceiling {
			res.Stop = app.StopAttemptsExhausted
			return res
		}
		budget.attempts++

		perPage := pageSize(budget.requested - budget.obtained)

		u, err := url.Parse(c.address + fmt.Sprintf("/repos/%s/%s/commits", owner, name))
		if err != nil {
			c.l.Warnf("%s/%s: invalid url: %v", owner, name, err)
			res.Stop = app.StopTransportError
			return res
		}
		v := make(url.Values)
		v.Set("per_page", strconv.Itoa(perPage))
		v.Set("page", strconv.Itoa(budget.page))
		u.RawQuery = v.Encode()

		body, status, err := c.get(ctx, u.String(), c.commitsResponseMaxSize)
		if err != nil {
			c.l.Warnf("%s/%s: fetching commits: %v", owner, name, err)
			res.Stop = app.StopTransportError
			return res
		}

		switch status {
		case http.StatusOK:
			var resp commitsResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				c.l.Warnf("%s/%s: unmarshalling commits response: %v", owner, name, err)
				res.Stop = app.StopTransportError
				return res
			}
			if len(resp) == 0 {
				res.Stop = app.StopEmptyPage
				return res
			}
			for _, commit := range resp.ToCommits() {
				if budget.obtained >= budget.requested {
					break
				}
				res.Commits = append(res.Commits, commit)
				budget.obtained++
			}
			if len(resp) < perPage {
				// A short page is the implicit last-page signal.
				res.Stop = app.StopShortPage
				return res
			}
		case http.StatusNotFound:
			c.l.Warnf("%s/%s: repository not found or inaccessible", owner, name)
			res.Stop = app.StopNotFound
			return res
		case http.StatusConflict:
			c.l.Warnf("%s/%s: repository has no commits", owner, name)
			// An empty repository yields an empty sequence, whatever an
			// earlier page claimed.
			res.Commits = []app.Commit{}
			res.Stop = app.StopEmptyRepository
			return res
		case http.StatusUnprocessableEntity:
			res.Stop = app.StopPaginationExhausted
			return res
		default:
			c.l.Warnf("%s/%s: fetching commits returned status %d", owner, name, status)
			res.Stop = app.StopUnexpectedStatus
			return res
		}

		budget.page++
		if err := c.sleep(ctx, c.commitsPageDelay); err != nil {
			res.Stop = app.StopTransportError
			return res
		}
	}

	return res
}

// repositorySizeHint asks the repository metadata endpoint for its size.
// Returns 0 when the hint is unavailable for any reason.
func (c *Client) repositorySizeHint(ctx context.Context, owner string, name string) int {
	body, status, err := c.get(ctx, c.address+fmt.Sprintf("/repos/%s/%s", owner, name), c.commitsResponseMaxSize)
	if err != nil || status != http.StatusOK {
		return 0
	}

	var resp repositoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0
	}

	return resp.Size
}

func (c *Client) get(ctx context.Context, rawURL string, maxBytes int) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating http request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.authToken != "" {
		req.Header.Set("Authorization", "token "+c.authToken)
	}

	resp, err := c.doer.Do(req.WithContext(ctx))
	if err != nil {
		return nil, 0, fmt.Errorf("doing http request: %w", err)
	}
	// Always drain body before close to allow connection reuse.
	// See: http://tleyden.github.io/blog/2016/11/21/tuning-the-go-http-client-library-for-load-testing/
	defer func() {
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
		resp.Body.Close()
	}()

	// The budget is consulted after every response regardless of status.
	c.limits.Observe(resp.Header)

	b, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading http response body: %w", err)
	}

	if err := c.limits.Throttle(ctx); err != nil {
		return b, resp.StatusCode, fmt.Errorf("waiting out rate limit: %w", err)
	}

	return b, resp.StatusCode, nil
}

func pageSize(remaining int) int {
	if remaining > maxPageSize {
		return maxPageSize
	}
	return remaining
}

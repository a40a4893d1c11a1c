package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Every emitted file is UTF-8 with a BOM and comma-separated. This is the
// single declared encoding contract for all report artifacts.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Titles longer than this are truncated in display views.
const titleDisplayLimit = 80

var messageFlattener = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Renderer writes every report view into a directory.
// This struct is an adapter for app.Reporter.
type Renderer struct {
	dir string
	now func() time.Time
	l   logrus.FieldLogger
}

var _ app.Reporter = &Renderer{}

// NewRenderer creates new Renderer writing into given directory.
func NewRenderer(dir string, l logrus.FieldLogger) *Renderer {
	return &Renderer{
		dir: dir,
		now: time.Now,
		l:   l,
	}
}

// Write renders all report views for given entries.
// Rendering is a pure function of the entries and the clock; writing the
// same data twice produces byte-identical files.
func (r *Renderer) Write(entries []app.ProjectCommits) error {
	agg := NewAggregate()
	for _, e := range entries {
		agg.Add(e.Project, e.Commits)
	}
	now := r.now()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := RenderProjectsCSV(agg)
	if err != nil {
		return fmt.Errorf("rendering project listing: %w", err)
	}
	if err := r.writeFile("projects.csv", data); err != nil {
		return err
	}

	for _, e := range agg.Entries() {
		data, err := RenderProjectCommitsCSV(e)
		if err != nil {
			return fmt.Errorf("rendering commits of %s: %w", e.Project.FullName, err)
		}
		if err := r.writeFile(commitsFileName(e.Project.FullName), data); err != nil {
			return err
		}
	}

	data, err = RenderPictureCSV(agg, now)
	if err != nil {
		return fmt.Errorf("rendering chronological listing: %w", err)
	}
	if err := r.writeFile("recent_commits.csv", data); err != nil {
		return err
	}

	data, err = RenderCombinedCSV(agg, now)
	if err != nil {
		return fmt.Errorf("rendering combined table: %w", err)
	}
	if err := r.writeFile("all_commits.csv", data); err != nil {
		return err
	}

	if err := r.writeFile("all_commits.md", RenderMarkdown(agg, now)); err != nil {
		return err
	}

	return nil
}

func (r *Renderer) writeFile(name string, data []byte) error {
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	r.l.Infof("wrote %s", path)

	return nil
}

// RenderProjectsCSV renders the repository listing, one row per repository
// in discovery order.
func RenderProjectsCSV(agg *Aggregate) ([]byte, error) {
	rows := [][]string{
		{"#", "full_name", "url", "stars", "description", "created_at", "updated_at"},
	}
	for i, e := range agg.Entries() {
		p := e.Project
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.FullName,
			p.URL,
			strconv.Itoa(p.Stars),
			p.Description,
			p.CreatedAt,
			p.UpdatedAt,
		})
	}

	return renderCSV(rows)
}

// RenderProjectCommitsCSV renders one repository's commits in fetch order.
// Commit messages are flattened to a single line.
func RenderProjectCommitsCSV(e *Entry) ([]byte, error) {
	rows := [][]string{
		{"full_name", "project_url", "sha", "author", "date", "message", "commit_url"},
	}
	for _, c := range e.Commits {
		rows = append(rows, []string{
			e.Project.FullName,
			e.Project.URL,
			c.ShortID,
			c.AuthorName,
			c.AuthorDate,
			messageFlattener.Replace(c.Message),
			c.URL,
		})
	}

	return renderCSV(rows)
}

// RenderPictureCSV renders the flattened cross-repository commit listing,
// newest first. Commits with unparseable timestamps sort last, keeping their
// fetch order.
func RenderPictureCSV(agg *Aggregate, now time.Time) ([]byte, error) {
	type row struct {
		title     string
		committed string
		url       string
		ts        time.Time
		parsed    bool
	}

	var entries []row
	for _, e := range agg.Entries() {
		for _, c := range e.Commits {
			r := row{
				title:     c.Title(),
				committed: fmt.Sprintf("%s committed %s", c.AuthorName, RelativeTime(c.AuthorDate, now)),
				url:       c.URL,
			}
			if t, err := time.Parse(time.RFC3339, c.AuthorDate); err == nil {
				r.ts = t
				r.parsed = true
			}
			entries = append(entries, r)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].parsed != entries[j].parsed {
			return entries[i].parsed
		}
		return entries[i].ts.After(entries[j].ts)
	})

	rows := [][]string{{"title", "committed", "url"}}
	for _, r := range entries {
		rows = append(rows, []string{r.title, r.committed, r.url})
	}

	return renderCSV(rows)
}

// RenderCombinedCSV renders one row per commit, grouped by repository in
// discovery order.
func RenderCombinedCSV(agg *Aggregate, now time.Time) ([]byte, error) {
	rows := [][]string{{"project", "committed", "title", "commit_url"}}
	for _, e := range agg.Entries() {
		for _, c := range e.Commits {
			rows = append(rows, []string{
				fmt.Sprintf("%s (%s)", e.Project.FullName, e.Project.URL),
				fmt.Sprintf("%s committed %s", c.AuthorName, RelativeTime(c.AuthorDate, now)),
				c.Title(),
				c.URL,
			})
		}
	}

	return renderCSV(rows)
}

// RenderMarkdown renders the Markdown narrative, one section per repository
// with stars and commit count as section metadata.
func RenderMarkdown(agg *Aggregate, now time.Time) []byte {
	var b strings.Builder

	b.WriteString("# GitHub Commit Report\n\n")
	b.WriteString("> Generated: " + now.Format("2006-01-02 15:04:05") + "\n\n")

	for _, e := range agg.Entries() {
		p := e.Project
		fmt.Fprintf(&b, "## %s\n", p.FullName)
		fmt.Fprintf(&b, "- **URL**: %s\n", p.URL)
		fmt.Fprintf(&b, "- **Stars**: %s\n", humanize.Comma(int64(p.Stars)))
		fmt.Fprintf(&b, "- **Commits**: %d\n\n", len(e.Commits))

		b.WriteString("| Committed | Author | Title | Link |\n")
		b.WriteString("|-----------|--------|-------|------|\n")
		for _, c := range e.Commits {
			fmt.Fprintf(&b, "| %s | %s | %s | [view](%s) |\n",
				RelativeTime(c.AuthorDate, now),
				c.AuthorName,
				truncateTitle(c.Title()),
				c.URL,
			)
		}

		b.WriteString("\n---\n\n")
	}

	return []byte(b.String())
}

func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= titleDisplayLimit {
		return s
	}

	return string(runes[:titleDisplayLimit-3]) + "..."
}

func commitsFileName(fullName string) string {
	return strings.ReplaceAll(fullName, "/", "_") + "_commits.csv"
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv rows: %w", err)
	}

	return buf.Bytes(), nil
}

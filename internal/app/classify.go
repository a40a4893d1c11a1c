package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Classifier labels a commit message with a bug classification.
type Classifier interface {
	ClassifyMessage(ctx context.Context, message string) (BugClassification, error)
}

// Column names tried when the configured message column is absent.
var messageColumnCandidates = []string{"message", "commit_message", "msg", "description"}

// Columns appended to every classified row.
var classificationColumns = []string{"has_bug_fix", "bug_category", "bug_type", "confidence", "analysis_reasoning"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ClassifyStats summarizes one classification batch.
type ClassifyStats struct {
	Total      int
	BugFixes   int
	Skipped    int
	TypeCounts map[string]int
}

// BugFixRate returns the share of classified commits that fix a bug, in percent.
func (s ClassifyStats) BugFixRate() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.BugFixes) / float64(s.Total) * 100
}

// ClassifyService annotates a commits CSV with per-message bug
// classifications and emits a plain-text statistics report next to it.
//
// Input and output use one declared contract: UTF-8 (optionally with BOM),
// comma-separated, first row is the header.
type ClassifyService struct {
	classifier Classifier
	l          logrus.FieldLogger

	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	saveEvery int
}

// NewClassifyService creates new ClassifyService instance.
// delay is the pause between api calls.
func NewClassifyService(classifier Classifier, delay time.Duration, l logrus.FieldLogger) *ClassifyService {
	return &ClassifyService{
		classifier: classifier,
		l:          l,

		delay:     delay,
		sleep:     sleepCtx,
		saveEvery: 5,
	}
}

// Run classifies up to maxRows rows of the input CSV (0 means all rows) and
// writes the augmented CSV to outputPath. Progress is flushed to disk
// periodically, so an interrupted batch still leaves usable output.
func (s *ClassifyService) Run(ctx context.Context, inputPath string, outputPath string, column string, maxRows int) (ClassifyStats, error) {
	stats := ClassifyStats{TypeCounts: make(map[string]int)}

	header, rows, err := readCSVFile(inputPath)
	if err != nil {
		return stats, errors.Wrap(err, "reading input csv")
	}
	if len(rows) == 0 {
		return stats, errors.New("input csv has no data rows")
	}

	colIdx, colName, err := findMessageColumn(header, column)
	if err != nil {
		return stats, err
	}
	if colName != column {
		s.l.Warnf("column %q not found, using %q", column, colName)
	}

	if maxRows > 0 && maxRows < len(rows) {
		rows = rows[:maxRows]
	}
	s.l.Infof("classifying %d commit messages from column %q", len(rows), colName)

	outHeader := append(append([]string{}, header...), classificationColumns...)
	outRows := [][]string{outHeader}

	for i, row := range rows {
		if ctx.Err() != nil {
			s.l.Warnf("classification interrupted after %d rows", i)
			break
		}

		var message string
		if colIdx < len(row) {
			message = strings.TrimSpace(row[colIdx])
		}

		var result BugClassification
		if message == "" {
			result = BugClassification{Reasoning: "empty message"}
			stats.Skipped++
		} else {
			s.l.Infof("[%d/%d] classifying: %.60s", i+1, len(rows), message)

			var err error
			result, err = s.classifier.ClassifyMessage(ctx, message)
			if err != nil {
				s.l.Warnf("classification degraded for row %d: %v", i+1, err)
			}

			if err := s.sleep(ctx, s.delay); err != nil && ctx.Err() == nil {
				return stats, errors.Wrap(err, "pacing classification calls")
			}
		}

		outRows = append(outRows, append(append([]string{}, row...),
			strconv.FormatBool(result.HasBugFix),
			result.Category,
			result.Type,
			strconv.FormatFloat(result.Confidence, 'f', 2, 64),
			result.Reasoning,
		))

		stats.Total++
		if result.HasBugFix {
			stats.BugFixes++
			stats.TypeCounts[result.Type]++
		}

		if (i+1)%s.saveEvery == 0 {
			if err := writeCSVFile(outputPath, outRows); err != nil {
				return stats, errors.Wrap(err, "saving progress")
			}
		}
	}

	if err := writeCSVFile(outputPath, outRows); err != nil {
		return stats, errors.Wrap(err, "writing output csv")
	}

	reportPath := statsReportPath(outputPath)
	if err := os.WriteFile(reportPath, []byte(renderStatsReport(stats)), 0o644); err != nil {
		return stats, errors.Wrap(err, "writing statistics report")
	}
	s.l.Infof("wrote %s and %s", outputPath, reportPath)

	return stats, nil
}

func readCSVFile(path string) ([]string, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("file %s is empty", path)
	}

	return records[0], records[1:], nil
}

func writeCSVFile(path string, rows [][]string) error {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func findMessageColumn(header []string, column string) (int, string, error) {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	if idx := find(column); idx >= 0 {
		return idx, column, nil
	}
	for _, candidate := range messageColumnCandidates {
		if idx := find(candidate); idx >= 0 {
			return idx, candidate, nil
		}
	}

	return 0, "", fmt.Errorf("message column %q not found, available columns: %s", column, strings.Join(header, ", "))
}

func statsReportPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, ".csv") + "_report.txt"
}

func renderStatsReport(stats ClassifyStats) string {
	var b strings.Builder

	b.WriteString("Commit bug classification report\n")
	b.WriteString("================================\n\n")
	fmt.Fprintf(&b, "Total commits: %d\n", stats.Total)
	fmt.Fprintf(&b, "Bug-fix commits: %d\n", stats.BugFixes)
	fmt.Fprintf(&b, "Bug-fix rate: %.2f%%\n", stats.BugFixRate())
	if stats.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped (empty message): %d\n", stats.Skipped)
	}

	if len(stats.TypeCounts) > 0 {
		b.WriteString("\nBug type distribution:\n")

		types := make([]string, 0, len(stats.TypeCounts))
		for t := range stats.TypeCounts {
			types = append(types, t)
		}
		sort.Strings(types)

		for _, t := range types {
			count := stats.TypeCounts[t]
			fmt.Fprintf(&b, "- %s: %d (%.2f%%)\n", t, count, float64(count)/float64(stats.BugFixes)*100)
		}
	}

	return b.String()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxReportedErrors caps the row errors surfaced in an ImportSummary.
const MaxReportedErrors = 5

// ImportKind selects which collection a spreadsheet batch targets.
type ImportKind string

const (
	ImportMainCategories ImportKind = "main-categories"
	ImportSubCategories  ImportKind = "sub-categories"
	ImportQuestions      ImportKind = "questions"
)

// ImportKinds lists the supported kinds.
var ImportKinds = []ImportKind{ImportMainCategories, ImportSubCategories, ImportQuestions}

// ParseImportKind validates a kind coming from a URL or flag.
func ParseImportKind(raw string) (ImportKind, error) {
	for _, k := range ImportKinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownImportKind, raw)
}

// RowOutcome is the result of reconciling one row.
type RowOutcome string

const (
	RowCreated RowOutcome = "created"
	RowSkipped RowOutcome = "skipped"
	RowErrored RowOutcome = "errored"
)

// RowResult describes what happened to one input row. Row is 1-based within the batch.
type RowResult struct {
	Row     int        `json:"row"`
	Outcome RowOutcome `json:"outcome"`
	ID      string     `json:"id,omitempty"`
	Message string     `json:"message,omitempty"`
}

// ImportSummary aggregates a finished batch.
type ImportSummary struct {
	Kind         ImportKind  `json:"kind"`
	DryRun       bool        `json:"dryRun,omitempty"`
	SuccessCount int         `json:"successCount"`
	SkippedCount int         `json:"skippedCount"`
	ErrorCount   int         `json:"errorCount"`
	Errors       []string    `json:"errors"`
	TotalErrors  int         `json:"totalErrors"`
	Rows         []RowResult `json:"rows,omitempty"`
	StartedAt    time.Time   `json:"startedAt"`
	FinishedAt   time.Time   `json:"finishedAt"`
}

// Record adds a row result to the counters. Only the first MaxReportedErrors messages are kept.
func (s *ImportSummary) Record(res RowResult) {
	s.Rows = append(s.Rows, res)
	switch res.Outcome {
	case RowCreated:
		s.SuccessCount++
	case RowSkipped:
		s.SkippedCount++
	case RowErrored:
		s.ErrorCount++
		s.TotalErrors++
		if len(s.Errors) < MaxReportedErrors {
			s.Errors = append(s.Errors, fmt.Sprintf("row %d: %s", res.Row, res.Message))
		}
	}
}

// WithoutRows returns a copy suitable for history storage.
func (s ImportSummary) WithoutRows() ImportSummary {
	s.Rows = nil
	return s
}

// Message renders the summary the way the console reports it to staff.
func (s ImportSummary) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Import complete!\n\nCreated: %d\nSkipped: %d\nErrors: %d", s.SuccessCount, s.SkippedCount, s.ErrorCount)
	if s.TotalErrors > MaxReportedErrors {
		b.WriteString("\n\nShowing first 5 errors:\n")
		b.WriteString(strings.Join(s.Errors, "\n"))
	} else if len(s.Errors) > 0 {
		b.WriteString("\n\nErrors:\n")
		b.WriteString(strings.Join(s.Errors, "\n"))
	}
	return b.String()
}

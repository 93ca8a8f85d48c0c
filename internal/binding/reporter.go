package binding

import (
	"go.uber.org/zap"

	"github.com/BakaI9/excalidraw/internal/metrics"
)

// IssueKind classifies a binding relation the synchronizer skipped.
type IssueKind string

// Issue kinds.
const (
	// IssueMissingText: a text entry names an element that does not exist or
	// is not text.
	IssueMissingText IssueKind = "missing_text"
	// IssueArrowEntry: a shape-side write listed a connector. Connectors own
	// that relation, so no cascade is queued.
	IssueArrowEntry IssueKind = "arrow_entry"
	// IssueUnknownEntry: a bound element entry with an unrecognized type.
	IssueUnknownEntry IssueKind = "unknown_entry"
	// IssueTextOwnsText: a text element was given a bound text label.
	IssueTextOwnsText IssueKind = "text_owns_text"
	// IssueDanglingBinding: a connector binds to an element that is not in
	// the store.
	IssueDanglingBinding IssueKind = "dangling_binding"
)

// Issue is one skipped relation.
type Issue struct {
	Kind      IssueKind
	ElementID string
	RelatedID string
}

// Informational reports whether the issue is expected traffic rather than a
// broken reference.
func (i Issue) Informational() bool {
	return i.Kind == IssueArrowEntry
}

// Reporter receives the relations the synchronizer skipped. Reporting never
// stops the operation.
type Reporter interface {
	Report(issue Issue)
}

// LogReporter writes issues to a zap logger and counts the warnings.
type LogReporter struct {
	Logger  *zap.Logger
	Metrics *metrics.Collector
}

// NewLogReporter returns a reporter on logger. A nil logger discards output.
func NewLogReporter(logger *zap.Logger, m *metrics.Collector) *LogReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogReporter{Logger: logger, Metrics: m}
}

// Report implements Reporter.
func (r *LogReporter) Report(issue Issue) {
	fields := []zap.Field{
		zap.String("kind", string(issue.Kind)),
		zap.String("elementId", issue.ElementID),
		zap.String("relatedId", issue.RelatedID),
	}
	if issue.Informational() {
		r.Logger.Debug("binding entry ignored", fields...)
		return
	}
	r.Logger.Warn("binding relation skipped", fields...)
	r.Metrics.BindingWarning()
}

// Recorder collects issues in memory.
type Recorder struct {
	Issues []Issue
}

// Report implements Reporter.
func (r *Recorder) Report(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Kinds returns the recorded issue kinds in order.
func (r *Recorder) Kinds() []IssueKind {
	out := make([]IssueKind, len(r.Issues))
	for i, is := range r.Issues {
		out[i] = is.Kind
	}
	return out
}

type nopReporter struct{}

func (nopReporter) Report(Issue) {}

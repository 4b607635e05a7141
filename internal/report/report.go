// Package report prints the human-readable summary of a batch run.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/zephyrtronium/answerkey"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#8A94A6")
	warn   = lipgloss.Color("#E5A50A")
)

// Writer prints reports. Styles degrade to plain text when the destination is
// not a terminal.
type Writer struct {
	w       io.Writer
	heading lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	skipped lipgloss.Style
}

// New creates a report writer.
func New(w io.Writer) *Writer {
	r := lipgloss.NewRenderer(w)
	return &Writer{
		w:       w,
		heading: r.NewStyle().Bold(true).Foreground(accent),
		label:   r.NewStyle().Foreground(muted),
		value:   r.NewStyle().Bold(true),
		skipped: r.NewStyle().Foreground(warn),
	}
}

// Summary prints the counts of a run and where its results went.
func (r *Writer) Summary(s answerkey.Summary, output string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.heading.Render("Done."))
	r.count("Questions", s.Total, r.value)
	r.count("Processed", s.Processed, r.value)
	st := r.value
	if s.Skipped > 0 {
		st = r.skipped
	}
	r.count("Skipped", s.Skipped, st)
	r.count("Answers", s.Answers, r.value)
	dt := r.value
	if s.Dropped > 0 {
		dt = r.skipped
	}
	r.count("Dropped", s.Dropped, dt)
	if output != "" {
		fmt.Fprintf(r.w, "%s %s\n", r.label.Render("Results written to"), output)
	}
}

func (r *Writer) count(name string, n int, style lipgloss.Style) {
	fmt.Fprintf(r.w, "%s %s\n", r.label.Render(fmt.Sprintf("%-10s", name+":")), style.Render(strconv.Itoa(n)))
}

// Listing prints every computed answer of each question as
// display_index: rounded_value.
func (r *Writer) Listing(results []answerkey.QuestionResult) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.heading.Render("=== Results ==="))
	for _, q := range results {
		fmt.Fprintln(r.w)
		fmt.Fprintf(r.w, "%s %s\n", r.label.Render("Question"), r.value.Render(q.ID.String()))
		for _, a := range q.Answers {
			fmt.Fprintf(r.w, "  %s: %s\n", a.DisplayIndex, FormatValue(a.RoundedValue))
		}
	}
}

// FormatValue formats a rounded value in the shortest decimal form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

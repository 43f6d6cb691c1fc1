package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/patterntool/patterntool/pkg/linefilter"
)

// Reporter tells the user how a run went. The filter itself never writes
// to the terminal.
type Reporter interface {
	Banner()
	ReportSuccess(sum linefilter.Summary)
	// ReportError reports a failed run. KindNone means the run never
	// started because of a configuration or usage problem.
	ReportError(kind linefilter.Kind, err error)
}

// newReporter returns the reporter for format ("pretty" or "json").
// quiet suppresses all status output.
func newReporter(out io.Writer, format string, quiet bool) Reporter {
	switch {
	case quiet:
		return nopReporter{}
	case format == "json":
		return &jsonReporter{out: out}
	default:
		return newPrettyReporter(out)
	}
}

const bannerTitle = "Pattern Recognition Tool"

// headline returns the one-line summary for a failure kind.
func headline(kind linefilter.Kind) string {
	switch kind {
	case linefilter.KindNone:
		return "Configuration is not valid."
	case linefilter.KindSourceMissing:
		return "Input file does not exist."
	case linefilter.KindPatternFileMissing:
		return "Pattern file does not exist."
	case linefilter.KindSourceEmpty:
		return "Input file is empty."
	case linefilter.KindEmptyPattern:
		return "Pattern is empty."
	case linefilter.KindEmptyPatternSet:
		return "Pattern file holds no patterns."
	case linefilter.KindInvalidPattern:
		return "Pattern is not valid."
	default:
		return "An error occurred."
	}
}

// hasDetail reports whether the error text adds anything to the headline.
func hasDetail(kind linefilter.Kind) bool {
	switch kind {
	case linefilter.KindNone, linefilter.KindInvalidPattern, linefilter.KindIOFailure:
		return true
	}
	return false
}

type prettyReporter struct {
	out     io.Writer
	title   lipgloss.Style
	rule    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newPrettyReporter(out io.Writer) *prettyReporter {
	r := lipgloss.NewRenderer(out)
	return &prettyReporter{
		out:     out,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA")),
		rule:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F87171")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
}

func (p *prettyReporter) Banner() {
	fmt.Fprintln(p.out, p.title.Render(bannerTitle))
	fmt.Fprintln(p.out, p.rule.Render("============================================"))
}

func (p *prettyReporter) ReportSuccess(sum linefilter.Summary) {
	fmt.Fprintln(p.out, p.success.Render("Pattern recognition completed successfully."))
	fmt.Fprintln(p.out, p.muted.Render(fmt.Sprintf(
		"  %d of %d lines written (strategy %s, %s, %s, %s)",
		sum.LinesEmitted, sum.LinesRead, sum.Strategy,
		plural(sum.Patterns, "pattern"), plural(sum.Passes, "pass"),
		sum.Duration.Round(time.Microsecond),
	)))
}

func (p *prettyReporter) ReportError(kind linefilter.Kind, err error) {
	fmt.Fprintln(p.out, p.failure.Render(headline(kind)))
	if err != nil && hasDetail(kind) {
		fmt.Fprintln(p.out, p.muted.Render("  "+err.Error()))
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	if noun == "pass" {
		return fmt.Sprintf("%d passes", n)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// statusLine is the JSON form of a report.
type statusLine struct {
	Status  string              `json:"status"`
	Kind    string              `json:"kind,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Summary *linefilter.Summary `json:"summary,omitempty"`
}

// jsonReporter writes one JSON object per report. The banner is omitted.
type jsonReporter struct {
	out io.Writer
}

func (j *jsonReporter) Banner() {}

func (j *jsonReporter) ReportSuccess(sum linefilter.Summary) {
	j.write(statusLine{Status: "ok", Summary: &sum})
}

func (j *jsonReporter) ReportError(kind linefilter.Kind, err error) {
	line := statusLine{
		Status:  "error",
		Kind:    kind.String(),
		Message: headline(kind),
	}
	if kind == linefilter.KindNone {
		line.Kind = "config"
	}
	if err != nil {
		line.Error = err.Error()
	}
	j.write(line)
}

func (j *jsonReporter) write(line statusLine) {
	data, err := json.Marshal(line)
	if err != nil {
		return
	}
	fmt.Fprintln(j.out, string(data))
}

type nopReporter struct{}

func (nopReporter) Banner() {}
func (nopReporter) ReportSuccess(linefilter.Summary) {}
func (nopReporter) ReportError(linefilter.Kind, error) {}

var (
	_ Reporter = (*prettyReporter)(nil)
	_ Reporter = (*jsonReporter)(nil)
	_ Reporter = nopReporter{}
)

package evaluation

import (
	"fmt"
	"strings"

	"github.com/giantswarm/prompt-lab/internal/generator"
)

// Delimiter separates sample blocks in the printed report.
var Delimiter = strings.Repeat("-", 50)

func formatSample(r SampleResult, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Delimiter)
	fmt.Fprintf(&b, "SAMPLE %d/%d (ID %s)\n", r.Index+1, total, r.Sample.ID)
	fmt.Fprintf(&b, "QUERY: %s\n", r.Sample.Input)
	fmt.Fprintf(&b, "EXPECTED: %s\n", r.Sample.Expected)
	if r.Answered {
		fmt.Fprintf(&b, "MODEL ANSWER: %s\n", r.Answer)
		fmt.Fprintf(&b, "%s\n", generator.FormatUsage(r.Usage))
	} else {
		fmt.Fprintf(&b, "MODEL ANSWER: <unavailable>\n")
	}
	if r.Verdict != nil {
		fmt.Fprintf(&b, "VERDICT: %s\n", r.Verdict)
	} else {
		fmt.Fprintf(&b, "VERDICT: <unavailable>\n")
	}
	if r.Failed() {
		fmt.Fprintf(&b, "ERROR: %s\n", r.Error)
	}
	return b.String()
}

func formatSummary(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Delimiter)
	fmt.Fprintf(&b, "SUMMARY: %d samples, %d match, %d no match, %d indeterminate, %d errors",
		s.Total, s.Match, s.NoMatch, s.Indeterminate, s.Errors)
	if s.Accuracy != nil {
		fmt.Fprintf(&b, " (accuracy %.2f%%)", *s.Accuracy)
	}
	b.WriteString("\n")
	return b.String()
}

// FormatReport renders the same text the evaluator prints while running.
func FormatReport(r *Report) string {
	var b strings.Builder
	for _, s := range r.Samples {
		b.WriteString(formatSample(s, len(r.Samples)))
	}
	b.WriteString(formatSummary(r.Summary))
	return b.String()
}

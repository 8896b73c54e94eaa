package evaluation

import (
	"time"

	"github.com/giantswarm/prompt-lab/internal/dataset"
	"github.com/giantswarm/prompt-lab/internal/judge"
	"github.com/giantswarm/prompt-lab/internal/llm"
)

// SampleResult holds the outcome of one sample: the answer call and the
// judge call that followed it.
type SampleResult struct {
	Index    int            `json:"index"`
	Sample   dataset.Sample `json:"sample"`
	Answer   string         `json:"answer"`
	Answered bool           `json:"answered"` // the answer call succeeded, even if its text is empty
	Usage    *llm.Usage     `json:"usage,omitempty"`
	Verdict  *judge.Verdict `json:"verdict,omitempty"`
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// Failed reports whether either call for this sample failed.
func (r SampleResult) Failed() bool {
	return r.Error != ""
}

// Summary holds aggregate counts over a report.
type Summary struct {
	Total         int      `json:"total"`
	Match         int      `json:"match"`
	NoMatch       int      `json:"no_match"`
	Indeterminate int      `json:"indeterminate"`
	Errors        int      `json:"errors"`
	Accuracy      *float64 `json:"accuracy,omitempty"` // percentage of judged samples that matched
}

// Report is the full record of an evaluation run.
type Report struct {
	ID          string         `json:"id"`
	Dataset     string         `json:"dataset"`
	Model       string         `json:"model,omitempty"`
	JudgeMode   judge.Mode     `json:"judge_mode"`
	Timestamp   time.Time      `json:"timestamp"`
	Duration    time.Duration  `json:"duration"`
	Aborted     bool           `json:"aborted"`
	Samples     []SampleResult `json:"samples"`
	Summary     Summary        `json:"summary"`
	ResultsFile string         `json:"results_file,omitempty"`
	ReportFile  string         `json:"report_file,omitempty"`
}

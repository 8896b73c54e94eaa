// Package evaluation runs the answer-then-judge loop over a dataset.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/giantswarm/prompt-lab/internal/dataset"
	"github.com/giantswarm/prompt-lab/internal/judge"
	"github.com/giantswarm/prompt-lab/internal/llm"
)

// ProgressFunc is called before each sample is processed.
type ProgressFunc func(sampleIndex, totalSamples int)

// Options configures an Evaluator.
type Options struct {
	// Model overrides the client's default model for answer calls.
	Model string
	// Config is applied to every answer call.
	Config llm.GenerationConfig
	// JudgeClient is used for judge calls; the answer client when nil.
	JudgeClient llm.Client
	// JudgeModel overrides the model used for judge calls.
	JudgeModel string
	// JudgeMode overrides the dataset's judge mode.
	JudgeMode string
	// PassThreshold is the lowest passing score in score mode.
	PassThreshold int
	// FailFast aborts the run on the first failed sample.
	FailFast bool
	// OutputDir, when set, receives results.txt and report.json per run.
	OutputDir string
}

// Evaluator orchestrates the evaluation of a dataset.
type Evaluator struct {
	client   llm.Client
	out      io.Writer
	opts     Options
	progress ProgressFunc
}

// NewEvaluator creates an Evaluator printing sample blocks to out.
func NewEvaluator(client llm.Client, out io.Writer, opts Options) *Evaluator {
	if out == nil {
		out = io.Discard
	}
	if opts.JudgeClient == nil {
		opts.JudgeClient = client
	}
	return &Evaluator{client: client, out: out, opts: opts}
}

// SetProgressFunc sets the progress callback.
func (e *Evaluator) SetProgressFunc(fn ProgressFunc) {
	e.progress = fn
}

// Run evaluates every sample in list order. Each sample makes one answer call
// followed by one judge call; nothing runs concurrently. A failed sample is
// recorded and the loop moves on unless FailFast is set. The returned report
// is non-nil whenever the dataset could be started, including on error.
func (e *Evaluator) Run(ctx context.Context, ds *dataset.Dataset) (*Report, error) {
	if ds == nil || len(ds.Samples) == 0 {
		return nil, fmt.Errorf("dataset has no samples")
	}

	modeName := ds.JudgeMode
	if e.opts.JudgeMode != "" {
		modeName = e.opts.JudgeMode
	}
	mode, err := judge.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	j := judge.New(e.opts.JudgeClient, judge.Config{
		Mode:          mode,
		Model:         e.opts.JudgeModel,
		PassThreshold: e.opts.PassThreshold,
	})

	timestamp := time.Now()
	report := &Report{
		ID:        runID(ds.Name, timestamp),
		Dataset:   ds.Name,
		Model:     e.opts.Model,
		JudgeMode: mode,
		Timestamp: timestamp,
		Samples:   make([]SampleResult, 0, len(ds.Samples)),
	}

	slog.Info("running evaluation",
		"dataset", ds.Name,
		"samples", len(ds.Samples),
		"judge_mode", mode,
	)

	var runErr error
	total := len(ds.Samples)
	for i, sample := range ds.Samples {
		if err := ctx.Err(); err != nil {
			slog.Warn("evaluation cancelled", "completed", i, "total", total)
			report.Aborted = true
			runErr = fmt.Errorf("evaluation cancelled: %w", err)
			break
		}

		if e.progress != nil {
			e.progress(i+1, total)
		}

		result := e.evaluateSample(ctx, j, ds.Prompt.SystemMessage, i, sample)
		report.Samples = append(report.Samples, result)
		fmt.Fprint(e.out, formatSample(result, total))

		if result.Failed() {
			slog.Error("sample evaluation failed", "sample_id", sample.ID, "error", result.Error)
			if e.opts.FailFast {
				report.Aborted = true
				runErr = fmt.Errorf("sample %s failed: %s", sample.ID, result.Error)
				break
			}
		}
	}

	report.Duration = time.Since(timestamp)
	report.Summary = summarize(report.Samples)
	fmt.Fprint(e.out, formatSummary(report.Summary))

	if e.opts.OutputDir != "" {
		if err := writeReport(e.opts.OutputDir, report); err != nil {
			return report, errors.Join(runErr, fmt.Errorf("failed to write report: %w", err))
		}
	}

	slog.Info("evaluation complete",
		"dataset", ds.Name,
		"match", report.Summary.Match,
		"errors", report.Summary.Errors,
		"duration", report.Duration,
	)

	return report, runErr
}

func (e *Evaluator) evaluateSample(ctx context.Context, j *judge.Judge, systemMessage string, idx int, sample dataset.Sample) SampleResult {
	start := time.Now()
	result := SampleResult{Index: idx, Sample: sample}

	resp, err := e.client.Generate(ctx, llm.Request{
		Model:         e.opts.Model,
		SystemMessage: systemMessage,
		Prompt:        sample.Input,
		Config:        e.opts.Config,
	})
	if err != nil {
		result.Error = fmt.Sprintf("answer call failed: %v", err)
		result.Duration = time.Since(start)
		return result
	}
	result.Answered = true
	result.Answer = strings.TrimSpace(resp.Text)
	result.Usage = resp.Usage

	verdict, err := j.Evaluate(ctx, sample.Input, sample.Expected, result.Answer)
	if err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}
	result.Verdict = &verdict
	result.Duration = time.Since(start)
	return result
}

func summarize(results []SampleResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Failed():
			s.Errors++
		case r.Verdict.Outcome == judge.OutcomeMatch:
			s.Match++
		case r.Verdict.Outcome == judge.OutcomeNoMatch:
			s.NoMatch++
		default:
			s.Indeterminate++
		}
	}
	if judged := s.Total - s.Errors; judged > 0 {
		acc := math.Round(float64(s.Match)/float64(judged)*10000) / 100
		s.Accuracy = &acc
	}
	return s
}

func runID(name string, ts time.Time) string {
	return fmt.Sprintf("%s_%s", sanitizeFilename(strings.ReplaceAll(name, " ", "_")), ts.Format("20060102-150405.000"))
}

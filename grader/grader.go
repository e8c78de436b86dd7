package grader

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-autograding/process"
	"github.com/bitrise-steplib/steps-autograding/score"
	"github.com/bitrise-steplib/steps-autograding/testspec"
)

// Grader ...
type Grader interface {
	// RunAll executes the tests one after the other in cwd. A failing test is
	// recorded in the Report; an error is only returned for an invalid test
	// list or a cancelled ctx.
	RunAll(ctx context.Context, tests []testspec.TestSpec, cwd string) (Report, error)
}

type grader struct {
	logger log.Logger
	runner process.Runner
	now    func() time.Time
}

// NewGrader ...
func NewGrader(logger log.Logger, runner process.Runner) Grader {
	return grader{
		logger: logger,
		runner: runner,
		now:    time.Now,
	}
}

func (g grader) RunAll(ctx context.Context, tests []testspec.TestSpec, cwd string) (Report, error) {
	report := Report{Results: []TestResult{}}
	if len(tests) == 0 {
		g.logger.Warnf("No tests to run")
		return report, nil
	}
	if err := testspec.Validate(tests); err != nil {
		return report, fmt.Errorf("invalid tests: %w", err)
	}

	for _, test := range tests {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if test.Points != nil {
			report.AvailablePoints += *test.Points
		}

		result := g.runTest(ctx, test, cwd)
		report.Results = append(report.Results, result)
		report.TotalPoints += result.Score
		if !result.Passed {
			report.AnyFailed = true
		}
	}

	// Halves round up, towards positive infinity: -2.5 becomes -2.
	report.TotalPoints = math.Floor(report.TotalPoints + 0.5)

	g.logger.Println()
	if report.AnyFailed {
		g.logger.Errorf("Some tests failed")
	} else {
		g.logger.Donef("All tests passed")
	}

	return report, nil
}

func (g grader) runTest(ctx context.Context, test testspec.TestSpec, cwd string) TestResult {
	g.logger.Println()
	g.logger.Infof("📝 %s", test.Name)

	start := g.now()
	result := TestResult{Name: test.Name, Points: test.Points}

	value, err := g.execute(ctx, test, cwd)
	result.Duration = g.now().Sub(start)
	if err != nil {
		g.logger.Errorf("❌ %s: %s", test.Name, err)
		result.Error = err.Error()
		return result
	}

	result.Score = value
	result.Passed = test.Points != nil && value == *test.Points
	if result.Passed {
		g.logger.Donef("✅ %s", test.Name)
	} else {
		g.logger.Errorf("❌ %s: scored %s of %s", test.Name, FormatPoints(value), FormatPoints(test.DeclaredPoints()))
	}

	return result
}

// execute runs the setup and run phases of a test under one time budget and
// returns the score reported by the run phase.
func (g grader) execute(ctx context.Context, test testspec.TestSpec, cwd string) (float64, error) {
	budget := testspec.ResolveTimeout(test.Timeout)

	if test.Setup != "" {
		setupStart := g.now()
		if _, err := g.runner.Execute(ctx, process.Params{
			Command: test.Setup,
			Dir:     cwd,
			Timeout: budget,
		}); err != nil {
			return 0, fmt.Errorf("setup failed: %w", err)
		}
		budget -= g.now().Sub(setupStart).Truncate(time.Millisecond)
	}

	result, err := g.runner.Execute(ctx, process.Params{
		Command: test.Run,
		Dir:     cwd,
		Timeout: budget,
		Input:   test.Input,
	})
	if err != nil {
		return 0, err
	}

	return score.Extract(result.Stdout), nil
}

package grader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-autograding/grader/mocks"
	"github.com/bitrise-steplib/steps-autograding/process"
	"github.com/bitrise-steplib/steps-autograding/testspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const workDir = "/work"

func Test_GivenSlowSetup_WhenRunAll_ThenRunGetsTheRemainingBudget(t *testing.T) {
	// Given
	g, runner, clock := createGraderAndMocks(t)
	runner.On("Execute", mock.Anything, process.Params{Command: "make deps", Dir: workDir, Timeout: time.Minute}).
		Run(func(mock.Arguments) { clock.Advance(20*time.Second + 700*time.Microsecond) }).
		Return(process.Result{}, nil).Once()
	runner.On("Execute", mock.Anything, process.Params{Command: "make grade", Dir: workDir, Timeout: 40 * time.Second, Input: "42"}).
		Return(process.Result{Stdout: "[overall score: 10]\n"}, nil).Once()

	// When
	report, err := g.RunAll(context.Background(), []testspec.TestSpec{
		{Name: "build", Setup: "make deps", Run: "make grade", Input: "42", Timeout: 1, Points: points(10)},
	}, workDir)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 10.0, report.TotalPoints)
	assert.False(t, report.AnyFailed)
}

func Test_GivenSetupExceedingTheBudget_WhenRunAll_ThenPassesNonPositiveBudgetThrough(t *testing.T) {
	// Given
	g, runner, clock := createGraderAndMocks(t)
	runner.On("Execute", mock.Anything, process.Params{Command: "setup", Dir: workDir, Timeout: 30 * time.Second}).
		Run(func(mock.Arguments) { clock.Advance(45 * time.Second) }).
		Return(process.Result{}, nil).Once()
	runner.On("Execute", mock.Anything, process.Params{Command: "run", Dir: workDir, Timeout: -15 * time.Second}).
		Return(process.Result{}, &process.TimeoutError{Timeout: -15 * time.Second}).Once()

	// When
	report, err := g.RunAll(context.Background(), []testspec.TestSpec{
		{Name: "slow", Setup: "setup", Run: "run", Timeout: 0.5, Points: points(1)},
	}, workDir)

	// Then
	require.NoError(t, err)
	assert.True(t, report.AnyFailed)
	require.Len(t, report.Results, 1)
	assert.Contains(t, report.Results[0].Error, "timed out")
}

func Test_GivenFailingSetup_WhenRunAll_ThenSkipsRunAndContinues(t *testing.T) {
	// Given
	g, runner, _ := createGraderAndMocks(t)
	runner.On("Execute", mock.Anything, process.Params{Command: "broken", Dir: workDir, Timeout: time.Minute}).
		Return(process.Result{}, &process.ProcessError{ExitCode: 2}).Once()
	runner.On("Execute", mock.Anything, process.Params{Command: "second", Dir: workDir, Timeout: time.Minute}).
		Return(process.Result{Stdout: "[overall score: 5]"}, nil).Once()

	// When
	report, err := g.RunAll(context.Background(), []testspec.TestSpec{
		{Name: "first", Setup: "broken", Run: "never", Points: points(5)},
		{Name: "second", Run: "second", Points: points(5)},
	}, workDir)

	// Then
	require.NoError(t, err)
	runner.AssertNotCalled(t, "Execute", mock.Anything, mock.MatchedBy(func(p process.Params) bool { return p.Command == "never" }))
	assert.Equal(t, 5.0, report.TotalPoints)
	assert.Equal(t, 10.0, report.AvailablePoints)
	assert.True(t, report.AnyFailed)
	assert.Equal(t, "setup failed: command failed with exit code 2", report.Results[0].Error)
	assert.True(t, report.Results[1].Passed)
}

func Test_GivenMiddleTestTimesOut_WhenRunAll_ThenOtherResultsAreKept(t *testing.T) {
	// Given
	g, runner, _ := createGraderAndMocks(t)
	runner.On("Execute", mock.Anything, mock.MatchedBy(func(p process.Params) bool { return p.Command == "one" })).
		Return(process.Result{Stdout: "[overall score: 3]\n"}, nil).Once()
	runner.On("Execute", mock.Anything, mock.MatchedBy(func(p process.Params) bool { return p.Command == "two" })).
		Return(process.Result{Stdout: "[overall score: 9]\n"}, &process.TimeoutError{Timeout: time.Minute}).Once()
	runner.On("Execute", mock.Anything, mock.MatchedBy(func(p process.Params) bool { return p.Command == "three" })).
		Return(process.Result{Stdout: "[overall score: 4]\n"}, nil).Once()

	// When
	report, err := g.RunAll(context.Background(), []testspec.TestSpec{
		{Name: "one", Run: "one", Points: points(3)},
		{Name: "two", Run: "two", Points: points(9)},
		{Name: "three", Run: "three", Points: points(4)},
	}, workDir)

	// Then
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 7.0, report.TotalPoints)
	assert.Equal(t, 16.0, report.AvailablePoints)
	assert.True(t, report.AnyFailed)
	assert.True(t, report.Results[0].Passed)
	assert.False(t, report.Results[1].Passed)
	assert.Equal(t, 0.0, report.Results[1].Score)
	assert.True(t, report.Results[2].Passed)
}

func TestRunAll_Aggregation(t *testing.T) {
	tests := []struct {
		name          string
		scores        []string
		wantTotal     float64
		wantAvailable float64
		wantFailed    bool
	}{
		{
			name:          "all points earned",
			scores:        []string{"[overall score: 10]", "[overall score: 5]"},
			wantTotal:     15,
			wantAvailable: 15,
			wantFailed:    false,
		},
		{
			name:          "partial score",
			scores:        []string{"[overall score: 10]", "[overall score: 3]"},
			wantTotal:     13,
			wantAvailable: 15,
			wantFailed:    true,
		},
		{
			name:          "total is rounded",
			scores:        []string{"[overall score: 2.25]", "[overall score: 2.5]"},
			wantTotal:     5,
			wantAvailable: 15,
			wantFailed:    true,
		},
		{
			name:          "negative half rounds towards positive infinity",
			scores:        []string{"[overall score: -1]", "[overall score: -1.5]"},
			wantTotal:     -2,
			wantAvailable: 15,
			wantFailed:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, runner, _ := createGraderAndMocks(t)
			runner.On("Execute", mock.Anything, mock.MatchedBy(func(p process.Params) bool { return p.Command == "a" })).
				Return(process.Result{Stdout: tt.scores[0]}, nil).Once()
			runner.On("Execute", mock.Anything, mock.MatchedBy(func(p process.Params) bool { return p.Command == "b" })).
				Return(process.Result{Stdout: tt.scores[1]}, nil).Once()

			report, err := g.RunAll(context.Background(), []testspec.TestSpec{
				{Name: "a", Run: "a", Points: points(10)},
				{Name: "b", Run: "b", Points: points(5)},
			}, workDir)

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, report.TotalPoints)
			assert.Equal(t, tt.wantAvailable, report.AvailablePoints)
			assert.Equal(t, tt.wantFailed, report.AnyFailed)
		})
	}
}

func Test_GivenTestWithoutPoints_WhenRunAll_ThenItCountsAsFailed(t *testing.T) {
	// Given
	g, runner, _ := createGraderAndMocks(t)
	runner.On("Execute", mock.Anything, mock.Anything).Return(process.Result{Stdout: "ok\n"}, nil).Once()

	// When
	report, err := g.RunAll(context.Background(), []testspec.TestSpec{{Name: "ungraded", Run: "true"}}, workDir)

	// Then
	require.NoError(t, err)
	assert.True(t, report.AnyFailed)
	assert.Equal(t, 0.0, report.AvailablePoints)
	assert.Equal(t, "0/0", report.Summary())
}

func Test_GivenInvalidTests_WhenRunAll_ThenFailsBeforeRunningAnything(t *testing.T) {
	// Given
	g, runner, _ := createGraderAndMocks(t)

	// When
	_, err := g.RunAll(context.Background(), []testspec.TestSpec{
		{Name: "ok", Run: "true"},
		{Name: "missing"},
	}, workDir)

	// Then
	require.Error(t, err)
	runner.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func Test_GivenCancelledContext_WhenRunAll_ThenStopsBetweenTests(t *testing.T) {
	// Given
	g, runner, _ := createGraderAndMocks(t)
	ctx, cancel := context.WithCancel(context.Background())
	runner.On("Execute", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(process.Result{Stdout: "[overall score: 1]"}, nil).Once()

	// When
	report, err := g.RunAll(ctx, []testspec.TestSpec{
		{Name: "first", Run: "first", Points: points(1)},
		{Name: "second", Run: "second", Points: points(1)},
	}, workDir)

	// Then
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, report.Results, 1)
}

func TestReport_Details(t *testing.T) {
	report := Report{Results: []TestResult{
		{Name: "a|b", Score: 1, Points: points(1), Passed: true},
		{Name: "c", Score: 0.5},
	}}

	assert.Equal(t, "| Test | Score | Points | Result |\n"+
		"|------|-------|--------|--------|\n"+
		"| a\\|b | 1 | 1 | ✅ |\n"+
		"| c | 0.5 | - | ❌ |\n", report.Details())
}

// Helpers

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func createGraderAndMocks(t *testing.T) (grader, *mocks.Runner, *fakeClock) {
	runner := mocks.NewRunner(t)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	return grader{
		logger: log.NewLogger(),
		runner: runner,
		now:    clock.Now,
	}, runner, clock
}

func points(value float64) *float64 {
	return &value
}

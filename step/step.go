package step

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-autograding/checkrun"
	"github.com/bitrise-steplib/steps-autograding/grader"
	"github.com/bitrise-steplib/steps-autograding/output"
	"github.com/bitrise-steplib/steps-autograding/process"
	"github.com/bitrise-steplib/steps-autograding/testspec"
	"github.com/kballard/go-shellquote"
)

// Input ...
type Input struct {
	// Tests
	TestsPath  string `env:"tests_path,required"`
	WorkingDir string `env:"working_dir,dir"`

	// Command execution
	Shell        string `env:"shell"`
	EnvAllowlist string `env:"env_allowlist"`

	// Reporting
	ExportTestResults bool            `env:"export_test_results,opt[yes,no]"`
	GithubToken       stepconf.Secret `env:"github_token"`
	GithubAPIURL      string          `env:"github_api_url"`
	GithubRepository  string          `env:"github_repository"`
	CheckRunID        string          `env:"check_run_id"`

	// Debug
	Verbose bool `env:"verbose,opt[yes,no]"`

	// Output export
	DeployDir string `env:"BITRISE_DEPLOY_DIR"`
}

// Config ...
type Config struct {
	Tests      []testspec.TestSpec
	WorkingDir string

	Shell        []string
	EnvAllowlist []string

	ExportTestResults bool
	CheckRun          checkrun.Config

	DeployDir string
}

// PathModifier ...
type PathModifier interface {
	AbsPath(pth string) (string, error)
}

// AutogradingConfigParser ...
type AutogradingConfigParser struct {
	inputParser  stepconf.InputParser
	logger       log.Logger
	loader       testspec.Loader
	pathModifier PathModifier
}

// NewAutogradingConfigParser ...
func NewAutogradingConfigParser(inputParser stepconf.InputParser, logger log.Logger, loader testspec.Loader, pathModifier PathModifier) AutogradingConfigParser {
	return AutogradingConfigParser{
		inputParser:  inputParser,
		logger:       logger,
		loader:       loader,
		pathModifier: pathModifier,
	}
}

// ProcessConfig ...
func (s AutogradingConfigParser) ProcessConfig() (Config, error) {
	var input Input
	if err := s.inputParser.Parse(&input); err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	s.logger.Println()

	s.logger.EnableDebugLog(input.Verbose)

	shell, err := parseShell(input.Shell)
	if err != nil {
		return Config{}, err
	}

	workingDir, err := s.pathModifier.AbsPath(input.WorkingDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand working dir (%s): %w", input.WorkingDir, err)
	}

	testsPath, err := s.pathModifier.AbsPath(input.TestsPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand tests path (%s): %w", input.TestsPath, err)
	}

	file, err := s.loader.Load(testsPath)
	if err != nil {
		return Config{}, err
	}
	s.logger.Printf("- tests: %d (version %s)", len(file.Tests), file.Version)

	return Config{
		Tests:             file.Tests,
		WorkingDir:        workingDir,
		Shell:             shell,
		EnvAllowlist:      parseList(input.EnvAllowlist),
		ExportTestResults: input.ExportTestResults,
		CheckRun: checkrun.Config{
			APIURL:     input.GithubAPIURL,
			Repository: input.GithubRepository,
			CheckRunID: input.CheckRunID,
			Token:      string(input.GithubToken),
		},
		DeployDir: input.DeployDir,
	}, nil
}

// AutogradingRunner ...
type AutogradingRunner struct {
	logger         log.Logger
	envRepository  env.Repository
	outputExporter output.Exporter
	reporter       checkrun.Reporter
	stdout         io.Writer
	stderr         io.Writer
}

// NewAutogradingRunner ...
func NewAutogradingRunner(logger log.Logger, envRepository env.Repository, outputExporter output.Exporter, reporter checkrun.Reporter, stdout, stderr io.Writer) AutogradingRunner {
	return AutogradingRunner{
		logger:         logger,
		envRepository:  envRepository,
		outputExporter: outputExporter,
		reporter:       reporter,
		stdout:         stdout,
		stderr:         stderr,
	}
}

// Result ...
type Result struct {
	Report grader.Report
}

// Run ...
func (s AutogradingRunner) Run(ctx context.Context, cfg Config) (Result, error) {
	restrictedEnv := process.NewRestrictedEnvRepository(s.envRepository, cfg.EnvAllowlist...)
	runner := process.NewRunner(s.logger, restrictedEnv, cfg.Shell, s.stdout, s.stderr)

	report, err := grader.NewGrader(s.logger, runner).RunAll(ctx, cfg.Tests, cfg.WorkingDir)
	if err != nil {
		return Result{Report: report}, fmt.Errorf("failed to run tests: %w", err)
	}

	if report.AnyFailed {
		printFailedTests(s.logger, report)
	}
	if report.TotalPoints > 0 {
		printPoints(s.logger, report)
	}

	return Result{Report: report}, nil
}

// ExportOpts ...
type ExportOpts struct {
	TestFailed bool

	DeployDir         string
	ExportTestResults bool

	Report grader.Report
}

// Export ...
func (s AutogradingRunner) Export(ctx context.Context, opts ExportOpts) error {
	s.outputExporter.ExportTestRunResult(opts.TestFailed)

	if err := s.outputExporter.ExportPoints(opts.Report); err != nil {
		return err
	}

	if opts.DeployDir != "" {
		if err := s.outputExporter.ExportReport(opts.DeployDir, opts.Report); err != nil {
			return err
		}
	}

	if opts.ExportTestResults {
		s.outputExporter.ExportTestResults(opts.Report)
	}

	if opts.Report.TotalPoints > 0 {
		summary := fmt.Sprintf("Points %s\n\n%s", opts.Report.Summary(), opts.Report.Details())
		if err := s.reporter.Report(ctx, summary); err != nil {
			s.logger.Warnf("Failed to report to check run: %s", err)
		}
	}

	return nil
}

// parseShell splits the shell input, an empty input selects process.DefaultShell.
func parseShell(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return process.DefaultShell, nil
	}
	shell, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("invalid shell (%s): %w", s, err)
	}
	if len(shell) < 2 {
		return nil, fmt.Errorf("invalid shell (%s): expected an interpreter followed by its command flag, e.g. sh -c", s)
	}
	return shell, nil
}

func parseList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == ' ' || r == '\t' || r == '|'
	})
}

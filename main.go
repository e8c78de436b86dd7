package main

import (
	"context"
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-steputils/v2/stepenv"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-autograding/checkrun"
	"github.com/bitrise-steplib/steps-autograding/output"
	"github.com/bitrise-steplib/steps-autograding/step"
	"github.com/bitrise-steplib/steps-autograding/testaddon"
	"github.com/bitrise-steplib/steps-autograding/testspec"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()
	envRepository := env.NewRepository()
	ctx := context.Background()

	configParser := step.NewAutogradingConfigParser(
		stepconf.NewInputParser(envRepository),
		logger,
		testspec.NewLoader(logger),
		pathutil.NewPathModifier(),
	)
	config, err := configParser.ProcessConfig()
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return 1
	}

	runner := createRunner(logger, envRepository, config)
	result, runErr := runner.Run(ctx, config)
	if runErr != nil {
		logger.Errorf("Run: %s", runErr)
	}

	failed := runErr != nil || result.Report.AnyFailed
	if err := runner.Export(ctx, step.ExportOpts{
		TestFailed:        failed,
		DeployDir:         config.DeployDir,
		ExportTestResults: config.ExportTestResults,
		Report:            result.Report,
	}); err != nil {
		logger.Errorf("Export outputs: %s", err)
		return 1
	}

	if failed {
		return 1
	}
	return 0
}

func createRunner(logger log.Logger, envRepository env.Repository, config step.Config) step.AutogradingRunner {
	commandFactory := command.NewFactory(envRepository)
	fileManager := fileutil.NewFileManager()
	outputExporter := export.NewExporter(commandFactory, fileManager)

	exporter := output.NewExporter(
		stepenv.NewRepository(envRepository),
		logger,
		&outputExporter,
		fileManager,
		pathutil.NewPathProvider(),
		testaddon.NewExporter(testaddon.NewTestAddon(logger, fileManager)),
	)
	reporter := checkrun.NewReporter(logger, checkrun.NewClient(logger), config.CheckRun)

	return step.NewAutogradingRunner(logger, envRepository, exporter, reporter, os.Stdout, os.Stderr)
}

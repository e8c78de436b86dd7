package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-autograding/grader"
	"github.com/bitrise-steplib/steps-autograding/testaddon"
)

// Output keys ...
const (
	TestResultKey = "AUTOGRADING_RESULT"
	PointsKey     = "AUTOGRADING_POINTS"
	ReportPathKey = "AUTOGRADING_REPORT_PATH"

	reportFileName = "autograding-report.json"
	addonBundle    = "autograding"
)

// OutputExporter ...
type OutputExporter interface {
	ExportOutputFile(key, sourcePath, destinationPath string) error
}

// Exporter ...
type Exporter interface {
	ExportTestRunResult(failed bool)
	ExportPoints(report grader.Report) error
	ExportReport(deployDir string, report grader.Report) error
	ExportTestResults(report grader.Report)
}

type exporter struct {
	envRepository     env.Repository
	logger            log.Logger
	outputExporter    OutputExporter
	fileManager       fileutil.FileManager
	pathProvider      pathutil.PathProvider
	testAddonExporter testaddon.Exporter
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, outputExporter OutputExporter, fileManager fileutil.FileManager, pathProvider pathutil.PathProvider, testAddonExporter testaddon.Exporter) Exporter {
	return &exporter{
		envRepository:     envRepository,
		logger:            logger,
		outputExporter:    outputExporter,
		fileManager:       fileManager,
		pathProvider:      pathProvider,
		testAddonExporter: testAddonExporter,
	}
}

func (e exporter) ExportTestRunResult(failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.envRepository.Set(TestResultKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", TestResultKey, err)
	}
}

// ExportPoints exports the points summary, unless no points were earned.
func (e exporter) ExportPoints(report grader.Report) error {
	if report.TotalPoints <= 0 {
		return nil
	}
	if err := e.envRepository.Set(PointsKey, report.Summary()); err != nil {
		return fmt.Errorf("failed to export %s: %w", PointsKey, err)
	}
	return nil
}

func (e exporter) ExportReport(deployDir string, report grader.Report) error {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	tmpDir, err := e.pathProvider.CreateTempDir("autograding-report")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	pth := filepath.Join(tmpDir, reportFileName)
	if err := e.fileManager.Write(pth, string(content), 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	deployPth := filepath.Join(deployDir, reportFileName)
	if err := e.outputExporter.ExportOutputFile(ReportPathKey, pth, deployPth); err != nil {
		return fmt.Errorf("failed to export report from (%s) to (%s): %w", pth, deployPth, err)
	}

	return nil
}

func (e exporter) ExportTestResults(report grader.Report) {
	addonResultPath := e.envRepository.Get(configs.BitrisePerStepTestResultDirEnvKey)
	if addonResultPath == "" {
		e.logger.Debugf("%s is not set, skipping test result export", configs.BitrisePerStepTestResultDirEnvKey)
		return
	}

	e.logger.Println()
	e.logger.Infof("Exporting test results")

	if err := e.testAddonExporter.Export(testaddon.AddonExport{
		Report:                report,
		TargetAddonPath:       addonResultPath,
		TargetAddonBundleName: addonBundle,
	}); err != nil {
		e.logger.Warnf("Failed to export test results: %s", err)
	}
}

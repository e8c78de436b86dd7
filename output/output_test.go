package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-autograding/grader"
	"github.com/bitrise-steplib/steps-autograding/output/mocks"
	"github.com/bitrise-steplib/steps-autograding/testaddon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testingMocks struct {
	envRepository     *mocks.Repository
	outputExporter    *mocks.OutputExporter
	testAddonExporter *mocks.TestAddonExporter
}

func Test_GivenSuccessfulTest_WhenExportingTestRunResults_ThenSetsEnvVariableToSuccess(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)

	// When
	exporter.ExportTestRunResult(false)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", TestResultKey, "succeeded")
}

func Test_GivenFailedTest_WhenExportingTestRunResults_ThenSetsEnvVariableToFailure(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)

	// When
	exporter.ExportTestRunResult(true)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", TestResultKey, "failed")
}

func Test_GivenEarnedPoints_WhenExportingPoints_ThenSetsSummary(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)

	// When
	err := exporter.ExportPoints(grader.Report{TotalPoints: 13, AvailablePoints: 15})

	// Then
	require.NoError(t, err)
	mocks.envRepository.AssertCalled(t, "Set", PointsKey, "13/15")
}

func Test_GivenNoPoints_WhenExportingPoints_ThenSkipsExport(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)

	// When
	err := exporter.ExportPoints(grader.Report{TotalPoints: 0, AvailablePoints: 15})

	// Then
	require.NoError(t, err)
	mocks.envRepository.AssertNotCalled(t, "Set", PointsKey, mock.Anything)
}

func Test_GivenReport_WhenExporting_ThenWritesJSONAndExportsItsPath(t *testing.T) {
	// Given
	deployDir := t.TempDir()
	exporter, mocks := createSutAndMocks(t)

	var exported grader.Report
	mocks.outputExporter.On("ExportOutputFile", ReportPathKey, mock.Anything, filepath.Join(deployDir, reportFileName)).
		Run(func(args mock.Arguments) {
			content, err := os.ReadFile(args.String(1))
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(content, &exported))
		}).
		Return(nil).Once()

	// When
	err := exporter.ExportReport(deployDir, grader.Report{
		TotalPoints:     1,
		AvailablePoints: 1,
		Results:         []grader.TestResult{{Name: "echo", Score: 1, Passed: true}},
	})

	// Then
	require.NoError(t, err)
	assert.Equal(t, 1.0, exported.TotalPoints)
	require.Len(t, exported.Results, 1)
	assert.Equal(t, "echo", exported.Results[0].Name)
}

func Test_GivenTestResultDir_WhenExportingTestResults_ThenExportsToAddon(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)
	report := grader.Report{TotalPoints: 2}
	mocks.envRepository.On("Get", configs.BitrisePerStepTestResultDirEnvKey).Return("/results")
	mocks.testAddonExporter.On("Export", testaddon.AddonExport{
		Report:                report,
		TargetAddonPath:       "/results",
		TargetAddonBundleName: "autograding",
	}).Return(nil).Once()

	// When
	exporter.ExportTestResults(report)

	// Then
	mocks.testAddonExporter.AssertExpectations(t)
}

func Test_GivenNoTestResultDir_WhenExportingTestResults_ThenSkips(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)
	mocks.envRepository.On("Get", configs.BitrisePerStepTestResultDirEnvKey).Return("")

	// When
	exporter.ExportTestResults(grader.Report{})

	// Then
	mocks.testAddonExporter.AssertNotCalled(t, "Export", mock.Anything)
}

// Helpers

func createSutAndMocks(t *testing.T) (Exporter, testingMocks) {
	envRepository := new(mocks.Repository)
	envRepository.On("Set", mock.Anything, mock.Anything).Return(nil)
	outputExporter := mocks.NewOutputExporter(t)
	testAddonExporter := mocks.NewTestAddonExporter(t)

	exporter := NewExporter(envRepository, log.NewLogger(), outputExporter, fileutil.NewFileManager(), pathutil.NewPathProvider(), testAddonExporter)

	return exporter, testingMocks{
		envRepository:     envRepository,
		outputExporter:    outputExporter,
		testAddonExporter: testAddonExporter,
	}
}

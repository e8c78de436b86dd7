package testaddon

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-autograding/grader"
)

// TestAddon ...
type TestAddon interface {
	ReplaceUnsupportedFilenameCharacters(s string) string
	WriteJUnitReport(outputDir string, suiteName string, report grader.Report) error
	SaveBundleMetadata(outputDir string, bundleName string) error
}

type testAddon struct {
	logger      log.Logger
	fileManager fileutil.FileManager
}

// NewTestAddon ...
func NewTestAddon(logger log.Logger, fileManager fileutil.FileManager) TestAddon {
	return &testAddon{
		logger:      logger,
		fileManager: fileManager,
	}
}

// ReplaceUnsupportedFilenameCharacters Replaces characters '/' and ':', which are unsupported in filnenames on macOS
func (t testAddon) ReplaceUnsupportedFilenameCharacters(s string) string {
	s = strings.Replace(s, "/", "-", -1)
	s = strings.Replace(s, ":", "-", -1)
	return s
}

type junitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	TestSuites []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Value   string `xml:",chardata"`
}

func (t testAddon) WriteJUnitReport(outputDir string, suiteName string, report grader.Report) error {
	suite := junitTestSuite{Name: suiteName}
	for _, result := range report.Results {
		testCase := junitTestCase{
			Name:      result.Name,
			ClassName: suiteName,
			Time:      result.Duration.Seconds(),
		}
		if !result.Passed {
			testCase.Failure = &junitFailure{
				Message: failureMessage(result),
				Value:   result.Error,
			}
			suite.Failures++
		}
		suite.Tests++
		suite.Time += testCase.Time
		suite.TestCases = append(suite.TestCases, testCase)
	}

	content, err := xml.MarshalIndent(junitTestSuites{TestSuites: []junitTestSuite{suite}}, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode test results: %w", err)
	}

	pth := filepath.Join(outputDir, "TEST-"+suiteName+".xml")
	if err := t.fileManager.Write(pth, xml.Header+string(content), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	t.logger.Debugf("Test results written to %s", pth)

	return nil
}

func (t testAddon) SaveBundleMetadata(outputDir string, bundleName string) error {
	// Save test bundle metadata
	type testBundle struct {
		BundleName string `json:"test-name"`
	}
	bytes, err := json.Marshal(testBundle{
		BundleName: bundleName,
	})
	if err != nil {
		return fmt.Errorf("could not encode metadata: %w", err)
	}
	if err = t.fileManager.Write(filepath.Join(outputDir, "test-info.json"), string(bytes), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func failureMessage(result grader.TestResult) string {
	if result.Error != "" {
		return result.Error
	}
	points := "-"
	if result.Points != nil {
		points = fmt.Sprintf("%g", *result.Points)
	}
	return fmt.Sprintf("scored %g of %s", result.Score, points)
}

package testaddon

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-steplib/steps-autograding/grader"
)

// Exporter ...
type Exporter interface {
	Export(info AddonExport) error
}

type exporter struct {
	testAddon TestAddon
}

// NewExporter ...
func NewExporter(testAddon TestAddon) Exporter {
	return &exporter{
		testAddon: testAddon,
	}
}

// AddonExport ...
type AddonExport struct {
	Report                grader.Report
	TargetAddonPath       string
	TargetAddonBundleName string
}

// Export writes the report as a JUnit result into its own bundle directory
// under the per step test result dir, next to the bundle metadata.
func (e exporter) Export(info AddonExport) error {
	bundleName := e.testAddon.ReplaceUnsupportedFilenameCharacters(info.TargetAddonBundleName)
	addonPerStepOutputDir := filepath.Join(info.TargetAddonPath, bundleName)

	if err := e.testAddon.WriteJUnitReport(addonPerStepOutputDir, bundleName, info.Report); err != nil {
		return fmt.Errorf("failed to write test results: %w", err)
	}
	if err := e.testAddon.SaveBundleMetadata(addonPerStepOutputDir, bundleName); err != nil {
		return err
	}
	return nil
}

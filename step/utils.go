package step

import (
	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-autograding/grader"
)

func printFailedTests(logger log.Logger, report grader.Report) {
	logger.Println()
	logger.Errorf("Failed tests:")
	for _, result := range report.Results {
		if result.Passed {
			continue
		}
		if result.Error != "" {
			logger.Printf("- %s: %s", result.Name, result.Error)
		} else {
			logger.Printf("- %s: scored %s", result.Name, grader.FormatPoints(result.Score))
		}
	}

	logger.Infof("%s", colorstring.Magenta(`
The report is stored in $BITRISE_DEPLOY_DIR, and its full path
is available in the $AUTOGRADING_REPORT_PATH environment variable.

If you have the Deploy to Bitrise.io step (after this step),
that will attach the file to your build as an artifact!`))
}

func printPoints(logger log.Logger, report grader.Report) {
	logger.Println()
	logger.Printf("%s", colorstring.Magenta("Points "+report.Summary()))
}

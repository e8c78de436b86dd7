// Package score reads the score a test command reports about itself.
//
// A command reports its score by printing a line of the form
//
//	[overall score: 7.5]
//
// on stdout. Surrounding whitespace on the line is allowed.
package score

import (
	"regexp"
	"strconv"
)

var markerPattern = regexp.MustCompile(`(?m)^[ \t]*\[overall score:[ \t]*([-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?)\][ \t]*\r?$`)

// Find returns the score of the last marker line in output.
func Find(output string) (float64, bool) {
	matches := markerPattern.FindAllStringSubmatch(output, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		value, err := strconv.ParseFloat(matches[i][1], 64)
		if err == nil {
			return value, true
		}
	}
	return 0, false
}

// Extract returns the reported score, or 0 if output has no marker line.
func Extract(output string) float64 {
	value, _ := Find(output)
	return value
}

package testspec

import (
	"math"
	"time"
)

// DefaultTimeout is used when a test does not declare a timeout, or declares 0.
const DefaultTimeout = time.Minute

// MaxTimeout is the exclusive upper bound of a declared timeout, in minutes.
// Larger values do not fit into a time.Duration.
const MaxTimeout = math.MaxInt64 / float64(time.Minute)

// Comparison modes ...
const (
	ComparisonExact    = "exact"
	ComparisonIncluded = "included"
	ComparisonRegex    = "regex"
)

// TestSpec describes one gradable check.
//
// Output and Comparison are parsed and validated but not evaluated; scoring only
// looks at the score marker printed by Run.
type TestSpec struct {
	Name       string   `yaml:"name" json:"name"`
	Setup      string   `yaml:"setup" json:"setup,omitempty"`
	Run        string   `yaml:"run" json:"run"`
	Input      string   `yaml:"input" json:"input,omitempty"`
	Output     string   `yaml:"output" json:"output,omitempty"`
	Comparison string   `yaml:"comparison" json:"comparison,omitempty"`
	Timeout    float64  `yaml:"timeout" json:"timeout,omitempty"`
	Points     *float64 `yaml:"points" json:"points,omitempty"`
}

// File ...
type File struct {
	Version string     `yaml:"version"`
	Tests   []TestSpec `yaml:"tests"`
}

// ResolveTimeout converts the declared timeout (in minutes) into a duration.
// A zero timeout falls back to DefaultTimeout, the same as a missing one.
func ResolveTimeout(minutes float64) time.Duration {
	if minutes == 0 {
		return DefaultTimeout
	}
	return time.Duration(minutes * float64(time.Minute))
}

// DeclaredPoints returns the declared points, treating missing points as 0.
func (t TestSpec) DeclaredPoints() float64 {
	if t.Points == nil {
		return 0
	}
	return *t.Points
}

package testspec

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

const (
	defaultFileVersion   = "1.0.0"
	supportedFileVersion = ">= 1.0, < 2.0"
)

// Loader ...
type Loader interface {
	Load(pth string) (File, error)
}

type loader struct {
	logger log.Logger
}

// NewLoader ...
func NewLoader(logger log.Logger) Loader {
	return loader{logger: logger}
}

// Load reads a test spec file. JSON files are accepted as they are valid YAML.
func (l loader) Load(pth string) (File, error) {
	data, err := os.ReadFile(pth)
	if err != nil {
		return File{}, fmt.Errorf("failed to read test spec file (%s): %w", pth, err)
	}

	file, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("invalid test spec file (%s): %w", pth, err)
	}

	l.logger.Debugf("Loaded %d test(s) from %s (version %s)", len(file.Tests), pth, file.Version)

	return file, nil
}

// Parse decodes and validates the content of a test spec file.
func Parse(data []byte) (File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("failed to parse: %w", err)
	}

	if file.Version == "" {
		file.Version = defaultFileVersion
	}
	if err := checkVersion(file.Version); err != nil {
		return File{}, err
	}

	for i := range file.Tests {
		t := &file.Tests[i]
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			t.Name = strings.TrimSpace(t.Run)
		}
	}

	if err := Validate(file.Tests); err != nil {
		return File{}, err
	}

	return file, nil
}

// Validate checks that every test can be executed.
func Validate(tests []TestSpec) error {
	if len(tests) == 0 {
		return errors.New("no tests defined")
	}

	for i, t := range tests {
		if strings.TrimSpace(t.Run) == "" {
			return fmt.Errorf("test %d (%s): run is required", i, t.Name)
		}
		if math.IsNaN(t.Timeout) || math.IsInf(t.Timeout, 0) {
			return fmt.Errorf("test %d (%s): timeout must be a finite number, got %v", i, t.Name, t.Timeout)
		}
		if t.Timeout < 0 {
			return fmt.Errorf("test %d (%s): timeout must not be negative, got %v", i, t.Name, t.Timeout)
		}
		if t.Timeout >= MaxTimeout {
			return fmt.Errorf("test %d (%s): timeout must be less than %v minutes, got %v", i, t.Name, MaxTimeout, t.Timeout)
		}
		if t.Points != nil && (math.IsNaN(*t.Points) || math.IsInf(*t.Points, 0)) {
			return fmt.Errorf("test %d (%s): points must be a finite number, got %v", i, t.Name, *t.Points)
		}
		if t.Points != nil && *t.Points < 0 {
			return fmt.Errorf("test %d (%s): points must not be negative, got %v", i, t.Name, *t.Points)
		}
		switch t.Comparison {
		case "", ComparisonExact, ComparisonIncluded, ComparisonRegex:
		default:
			return fmt.Errorf("test %d (%s): unknown comparison: %s", i, t.Name, t.Comparison)
		}
	}

	return nil
}

func checkVersion(raw string) error {
	ver, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("invalid version (%s): %w", raw, err)
	}

	constraints, err := version.NewConstraint(supportedFileVersion)
	if err != nil {
		return err
	}
	if !constraints.Check(ver) {
		return fmt.Errorf("unsupported version: %s, supported: %s", ver, supportedFileVersion)
	}

	return nil
}

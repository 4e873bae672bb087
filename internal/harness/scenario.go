package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/minicheck/internal/loader"
	"github.com/roach88/minicheck/internal/verifier"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ProgramFile is a program document path, relative to the scenario file.
	ProgramFile string `yaml:"program_file,omitempty"`

	// Program is an inline program document.
	Program *loader.ProgramDoc `yaml:"program,omitempty"`

	// Target names a preset target. Defaults to x86_64.
	Target string `yaml:"target,omitempty"`

	// PtrSize overrides Target with a generic target of this pointer size.
	PtrSize uint64 `yaml:"ptr_size,omitempty"`

	// Expect is the expected verdict.
	Expect Expectation `yaml:"expect"`
}

// Expectation is the expected outcome of a scenario.
type Expectation struct {
	// WellFormed is required unless LoadError is set.
	WellFormed *bool `yaml:"well_formed,omitempty"`

	// Kind is the expected error kind of an ill-formed program.
	Kind string `yaml:"kind,omitempty"`

	// Message must be a substring of the diagnostic message.
	Message string `yaml:"message,omitempty"`

	// Path is the exact expected location, outermost first.
	Path []string `yaml:"path,omitempty"`

	// LoadError is the expected loader code (e.g. "E101") of a program that
	// must fail to load.
	LoadError string `yaml:"load_error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// program_file is resolved relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.ProgramFile != "" && !filepath.IsAbs(scenario.ProgramFile) {
		scenario.ProgramFile = filepath.Join(filepath.Dir(path), scenario.ProgramFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml/.yml scenario in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	scenarios := make([]*Scenario, 0, len(files))
	for _, name := range files {
		sc, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.ProgramFile == "" && s.Program == nil:
		return fmt.Errorf("one of program_file or program is required")
	case s.ProgramFile != "" && s.Program != nil:
		return fmt.Errorf("program_file and program are mutually exclusive")
	}

	if s.ProgramFile != "" {
		if _, err := os.Stat(s.ProgramFile); os.IsNotExist(err) {
			return fmt.Errorf("program file not found: %s", s.ProgramFile)
		}
	}

	return validateExpectation(&s.Expect)
}

func validateExpectation(e *Expectation) error {
	if e.LoadError != "" {
		if e.WellFormed != nil || e.Kind != "" || e.Message != "" || len(e.Path) > 0 {
			return fmt.Errorf("expect: load_error cannot be combined with a verdict")
		}
		return nil
	}

	if e.WellFormed == nil {
		return fmt.Errorf("expect: well_formed is required")
	}

	if *e.WellFormed {
		if e.Kind != "" || e.Message != "" || len(e.Path) > 0 {
			return fmt.Errorf("expect: a well-formed program has no kind, message or path")
		}
		return nil
	}

	if e.Kind != "" && !slices.Contains(verifier.Kinds(), verifier.ErrorKind(e.Kind)) {
		return fmt.Errorf("expect: unknown error kind %q", e.Kind)
	}
	return nil
}

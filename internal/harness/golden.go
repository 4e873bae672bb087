package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/minicheck/internal/ir"
)

// toCanonicalMap converts a result's verdict to a map[string]any for
// canonical JSON serialization. The program hash is left out so golden
// files survive document reformatting.
func (r *Result) toCanonicalMap() map[string]any {
	m := map[string]any{
		"scenario":    r.Scenario,
		"target":      r.Target,
		"well_formed": r.Verdict.WellFormed,
	}
	if r.Verdict.Kind != "" {
		m["kind"] = r.Verdict.Kind
	}
	if r.Verdict.Message != "" {
		m["message"] = r.Verdict.Message
	}
	if len(r.Verdict.Path) > 0 {
		path := make([]any, len(r.Verdict.Path))
		for i, p := range r.Verdict.Path {
			path[i] = p
		}
		m["path"] = path
	}
	if r.Verdict.LoadError != "" {
		m["load_error"] = r.Verdict.LoadError
	}
	return m
}

// Snapshot renders the verdict of a result as canonical JSON.
func (r *Result) Snapshot() ([]byte, error) {
	return ir.MarshalCanonical(r.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its verdict against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the verdict doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, result *Result) error {
	t.Helper()

	snapshot, err := result.Snapshot()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, result.Scenario, snapshot)

	return nil
}

package harness

import (
	"fmt"
	"slices"
	"strings"
)

// CompareVerdict returns one message per way the observed verdict differs
// from the expectation. An empty slice means the scenario passes.
func CompareVerdict(exp Expectation, got Verdict) []string {
	var errs []string

	if exp.LoadError != "" {
		if got.LoadError != exp.LoadError {
			errs = append(errs, fmt.Sprintf("expected load error %s, got %s", exp.LoadError, describe(got)))
		}
		return errs
	}
	if got.LoadError != "" {
		return append(errs, fmt.Sprintf("program failed to load: %s: %s", got.LoadError, got.Message))
	}

	if exp.WellFormed != nil && *exp.WellFormed != got.WellFormed {
		errs = append(errs, fmt.Sprintf("expected well_formed=%t, got %s", *exp.WellFormed, describe(got)))
		return errs
	}

	if exp.Kind != "" && exp.Kind != got.Kind {
		errs = append(errs, fmt.Sprintf("kind mismatch: expected %s, got %s", exp.Kind, got.Kind))
	}
	if exp.Message != "" && !strings.Contains(got.Message, exp.Message) {
		errs = append(errs, fmt.Sprintf("message mismatch: %q does not contain %q", got.Message, exp.Message))
	}
	if len(exp.Path) > 0 && !slices.Equal(exp.Path, got.Path) {
		errs = append(errs, fmt.Sprintf("path mismatch: expected [%s], got [%s]",
			strings.Join(exp.Path, " / "), strings.Join(got.Path, " / ")))
	}
	return errs
}

func describe(v Verdict) string {
	switch {
	case v.LoadError != "":
		return "load error " + v.LoadError
	case v.WellFormed:
		return "well-formed"
	default:
		return fmt.Sprintf("%s: %s", v.Kind, v.Message)
	}
}

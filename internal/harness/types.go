package harness

// Verdict is the observed outcome of a scenario's program.
type Verdict struct {
	WellFormed bool     `json:"well_formed"`
	Kind       string   `json:"kind,omitempty"`
	Message    string   `json:"message,omitempty"`
	Path       []string `json:"path,omitempty"`

	// LoadError is the loader code when the program failed to load.
	LoadError string `json:"load_error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass indicates overall test success.
	// True if the observed verdict matches the expectation.
	Pass bool `json:"pass"`

	// Target is the name of the target the program was checked against.
	Target string `json:"target"`

	// ProgramHash is the content hash of the loaded program, empty if it
	// failed to load.
	ProgramHash string `json:"program_hash,omitempty"`

	// Verdict is what the loader and verifier reported.
	Verdict Verdict `json:"verdict"`

	// Errors contains expectation mismatches.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Scenario: name,
		Pass:     true,
		Errors:   []string{},
	}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

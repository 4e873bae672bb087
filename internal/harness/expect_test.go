package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestCompareVerdict(t *testing.T) {
	ill := Verdict{
		Kind:    "STATEMENT",
		Message: "Statement::StorageDead: local already dead",
		Path:    []string{"function main", "block bb0", "statement 2"},
	}

	tests := []struct {
		name    string
		exp     Expectation
		got     Verdict
		wantErr []string
	}{
		{
			name: "well-formed match",
			exp:  Expectation{WellFormed: boolPtr(true)},
			got:  Verdict{WellFormed: true},
		},
		{
			name:    "expected well-formed",
			exp:     Expectation{WellFormed: boolPtr(true)},
			got:     ill,
			wantErr: []string{"expected well_formed=true, got STATEMENT: Statement::StorageDead: local already dead"},
		},
		{
			name: "full match",
			exp:  Expectation{WellFormed: boolPtr(false), Kind: "STATEMENT", Message: "already dead", Path: ill.Path},
			got:  ill,
		},
		{
			name: "kind and message only",
			exp:  Expectation{WellFormed: boolPtr(false), Kind: "TYPE", Message: "alignment"},
			got:  ill,
			wantErr: []string{
				"kind mismatch: expected TYPE, got STATEMENT",
				`message mismatch: "Statement::StorageDead: local already dead" does not contain "alignment"`,
			},
		},
		{
			name:    "path mismatch",
			exp:     Expectation{WellFormed: boolPtr(false), Path: []string{"function main"}},
			got:     ill,
			wantErr: []string{"path mismatch: expected [function main], got [function main / block bb0 / statement 2]"},
		},
		{
			name: "load error match",
			exp:  Expectation{LoadError: "E101"},
			got:  Verdict{LoadError: "E101", Message: "unknown kind"},
		},
		{
			name:    "expected load error",
			exp:     Expectation{LoadError: "E101"},
			got:     Verdict{WellFormed: true},
			wantErr: []string{"expected load error E101, got well-formed"},
		},
		{
			name:    "unexpected load error",
			exp:     Expectation{WellFormed: boolPtr(true)},
			got:     Verdict{LoadError: "E104", Message: "terminator is required"},
			wantErr: []string{"program failed to load: E104: terminator is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareVerdict(tt.exp, tt.got)
			if len(tt.wantErr) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.wantErr, got)
		})
	}
}

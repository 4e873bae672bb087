package loader

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/minicheck/internal/ir"
)

// IntLit is an arbitrary-precision integer literal. Documents may write it
// as a number or as a decimal string; it is always re-encoded as a string so
// values beyond 64 bits survive every format.
type IntLit struct {
	ir.Int
}

// Lit wraps an int64 as an IntLit.
func Lit(v int64) IntLit {
	return IntLit{ir.NewInt(v)}
}

// LitPtr returns a pointer to Lit(v), for optional document fields.
func LitPtr(v int64) *IntLit {
	l := Lit(v)
	return &l
}

// MarshalJSON implements json.Marshaler.
func (l IntLit) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Int.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *IntLit) UnmarshalJSON(data []byte) error {
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(text)
		if err != nil {
			return fmt.Errorf("invalid integer literal %s", text)
		}
		text = s
	}
	return l.parse(text)
}

// MarshalYAML implements yaml.Marshaler.
func (l IntLit) MarshalYAML() (any, error) {
	return l.Int.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *IntLit) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: integer literal must be a scalar", node.Line)
	}
	if err := l.parse(node.Value); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

func (l *IntLit) parse(text string) error {
	v, ok := ir.ParseInt(text)
	if !ok {
		return fmt.Errorf("invalid integer literal %q", text)
	}
	l.Int = v
	return nil
}

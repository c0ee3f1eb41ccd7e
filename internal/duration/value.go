package duration

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Value is a duration string as written in configuration ("15m", "7d").
type Value string

// Duration parses v strictly.
func (v Value) Duration() (time.Duration, error) {
	return (&Parser{}).Parse(string(v))
}

// Ms parses v strictly and returns milliseconds.
func (v Value) Ms() (int64, error) {
	return (&Parser{}).ParseMs(string(v))
}

// UnmarshalYAML rejects values that do not parse, so a bad lifetime in a
// config file is reported at load time with its line number.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: expected duration string: %w", node.Line, err)
	}
	if _, err := (&Parser{}).ParseMs(s); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = Value(s)
	return nil
}

package types

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jslinters/jlin/internal/ast"
)

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule       string
	Category   string
	Filename   string
	Message    string
	Suggestion string
	Note       string
	Start      ast.Position
	End        ast.Position
	Severity   Severity
	Confidence float64 // 0.0 to 1.0
	// Fixable marks issues whose Suggestion can replace the [Start, End)
	// span mechanically.
	Fixable bool
}

// Severity of an issue.
type Severity int

const (
	// SeverityUnset is the zero value of a config block that omits the
	// severity key; the rule keeps its default severity.
	SeverityUnset Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityOff:
		return "off"
	}
	return "unknown"
}

// UnmarshalYAML parses a severity from its config spelling.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch raw {
	case "error":
		*s = SeverityError
	case "warning", "warn":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	case "off":
		*s = SeverityOff
	default:
		return fmt.Errorf("unknown severity: %q", raw)
	}
	return nil
}

// ConfigRule is the per-rule configuration block.
type ConfigRule struct {
	Severity Severity       `yaml:"severity"`
	Options  map[string]any `yaml:"options,omitempty"`
}

package pairing

import (
	"errors"
	"fmt"

	"github.com/roach88/santa/internal/ir"
)

// Rule list errors returned by ValidateRules.
var (
	ErrMultipleMustRules = errors.New("multiple MUST rules")
	ErrConflictingRules  = errors.New("MUST and MUST NOT rules on the same participant")
	ErrUnknownRuleType   = errors.New("unknown rule type")
)

// ValidateRules checks one participant's rule list.
// It returns nil when the list is usable. Repeated MUST_NOT targets are fine.
// Consistency between different participants is not checked here; conflicts
// of that kind surface as a failed draw.
func ValidateRules(rules []ir.Rule) error {
	var must *ir.Rule
	for i := range rules {
		r := &rules[i]
		switch r.Type {
		case ir.RuleMust:
			if must != nil {
				return ErrMultipleMustRules
			}
			must = r
		case ir.RuleMustNot:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownRuleType, r.Type)
		}
	}

	if must == nil {
		return nil
	}
	for _, r := range rules {
		if r.Type == ir.RuleMustNot && r.Target == must.Target {
			return ErrConflictingRules
		}
	}
	return nil
}

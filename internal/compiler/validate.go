package compiler

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/santa/internal/ir"
	"github.com/roach88/santa/internal/pairing"
)

// Validation error codes (E100-E199)
const (
	ErrRosterEmpty        = "E100" // roster has no participants
	ErrNameEmpty          = "E101" // participant name is required
	ErrDuplicateName      = "E102" // two participants share a name
	ErrUnknownParticipant = "E103" // rule names someone not in the roster
	ErrMultipleMust       = "E104" // more than one MUST rule
	ErrConflictingRules   = "E105" // MUST and MUST NOT on the same person
	ErrDuplicateID        = "E106" // two participants share an explicit id
)

// ValidationError represents a roster validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is returned by Compile when Validate finds problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// NameKey normalizes a display name for comparison: surrounding whitespace
// is dropped and the result is NFC normalized.
func NameKey(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Validate checks a roster before compilation.
// Returns all errors found (does not fail-fast).
func Validate(spec *RosterSpec) []ValidationError {
	if spec == nil || len(spec.Participants) == 0 {
		return []ValidationError{{
			Field:   "participants",
			Message: "roster has no participants",
			Code:    ErrRosterEmpty,
		}}
	}

	var errs []ValidationError

	names := make(map[string]int, len(spec.Participants))
	ids := make(map[string]int)
	for i, p := range spec.Participants {
		key := NameKey(p.Name)
		if key == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("participants[%d].name", i),
				Message: "name is required and must be non-empty",
				Code:    ErrNameEmpty,
				Line:    p.Line,
			})
		} else if first, dup := names[key]; dup {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("participants[%d].name", i),
				Message: fmt.Sprintf("duplicate name %q (first used by participants[%d])", key, first),
				Code:    ErrDuplicateName,
				Line:    p.Line,
			})
		} else {
			names[key] = i
		}

		if p.ID != "" {
			if first, dup := ids[p.ID]; dup {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("participants[%d].id", i),
					Message: fmt.Sprintf("duplicate id %q (first used by participants[%d])", p.ID, first),
					Code:    ErrDuplicateID,
					Line:    p.Line,
				})
			} else {
				ids[p.ID] = i
			}
		}
	}

	for i, p := range spec.Participants {
		errs = append(errs, validateRuleNames(i, p, "must", p.Must, names)...)
		errs = append(errs, validateRuleNames(i, p, "must_not", p.MustNot, names)...)

		if err := pairing.ValidateRules(specRules(p)); err != nil {
			errs = append(errs, ruleError(i, p, err))
		}
	}

	return errs
}

func validateRuleNames(i int, p ParticipantSpec, field string, list NameList, names map[string]int) []ValidationError {
	var errs []ValidationError
	for j, name := range list {
		if _, ok := names[NameKey(name)]; !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("participants[%d].%s[%d]", i, field, j),
				Message: fmt.Sprintf("%q is not in the roster", name),
				Code:    ErrUnknownParticipant,
				Line:    p.Line,
			})
		}
	}
	return errs
}

// specRules expresses a participant's rules with name keys as targets, which
// is enough for the per-participant checks.
func specRules(p ParticipantSpec) []ir.Rule {
	rules := make([]ir.Rule, 0, len(p.Must)+len(p.MustNot))
	for _, name := range p.Must {
		rules = append(rules, ir.Must(NameKey(name)))
	}
	for _, name := range p.MustNot {
		rules = append(rules, ir.MustNot(NameKey(name)))
	}
	return rules
}

func ruleError(i int, p ParticipantSpec, err error) ValidationError {
	ve := ValidationError{
		Field:   fmt.Sprintf("participants[%d]", i),
		Message: fmt.Sprintf("%s: %v", strings.TrimSpace(p.Name), err),
		Line:    p.Line,
	}
	switch {
	case errors.Is(err, pairing.ErrMultipleMustRules):
		ve.Field += ".must"
		ve.Message = fmt.Sprintf("%s can only have one person they must give to", strings.TrimSpace(p.Name))
		ve.Code = ErrMultipleMust
	case errors.Is(err, pairing.ErrConflictingRules):
		ve.Message = fmt.Sprintf("%s cannot both have to and not be allowed to give to the same person", strings.TrimSpace(p.Name))
		ve.Code = ErrConflictingRules
	}
	return ve
}

package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

// RosterSpec is a roster as people write it: participants refer to each
// other by display name.
type RosterSpec struct {
	Name         string            `yaml:"name" json:"name"`
	Participants []ParticipantSpec `yaml:"participants" json:"participants"`
}

// ParticipantSpec is one roster entry.
// ID is optional; Compile derives a stable id from the name when it is empty.
type ParticipantSpec struct {
	ID      string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name    string   `yaml:"name" json:"name"`
	Hint    string   `yaml:"hint,omitempty" json:"hint,omitempty"`
	Must    NameList `yaml:"must,omitempty" json:"must,omitempty"`
	MustNot NameList `yaml:"must_not,omitempty" json:"must_not,omitempty"`

	// Line is the source line of the entry, when known.
	Line int `yaml:"-" json:"-"`
}

// NameList is a list of participant names. In YAML and CUE it may be
// written as a single string or a list of strings.
type NameList []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (l *NameList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = NameList{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	default:
		return fmt.Errorf("line %d: expected a name or a list of names", value.Line)
	}
}

// DecodeCUE reads a RosterSpec from a CUE value.
//
// The value is the roster struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`roster: { name: "Family", participants: [...] }`)
//	spec, err := DecodeCUE(v.LookupPath(cue.ParsePath("roster")))
func DecodeCUE(v cue.Value) (*RosterSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &RosterSpec{}

	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Name = name
	}

	listVal := v.LookupPath(cue.ParsePath("participants"))
	if !listVal.Exists() {
		return nil, &CompileError{
			Field:   "participants",
			Message: "participants is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		p, err := decodeParticipant(iter.Value())
		if err != nil {
			return nil, err
		}
		spec.Participants = append(spec.Participants, p)
	}

	return spec, nil
}

func decodeParticipant(v cue.Value) (ParticipantSpec, error) {
	p := ParticipantSpec{Line: v.Pos().Line()}

	fields, err := v.Fields()
	if err != nil {
		return p, formatCUEError(err)
	}
	for fields.Next() {
		label := fields.Selector().Unquoted()
		val := fields.Value()

		switch label {
		case "id":
			p.ID, err = val.String()
		case "name":
			p.Name, err = val.String()
		case "hint":
			p.Hint, err = val.String()
		case "must":
			p.Must, err = decodeNameList(val)
		case "must_not":
			p.MustNot, err = decodeNameList(val)
		default:
			return p, &CompileError{
				Field:   label,
				Message: fmt.Sprintf("unknown participant field %q", label),
				Pos:     val.Pos(),
			}
		}
		if err != nil {
			return p, formatCUEError(err)
		}
	}

	if p.Name == "" && !v.LookupPath(cue.ParsePath("name")).Exists() {
		return p, &CompileError{
			Field:   "name",
			Message: "name is required",
			Pos:     v.Pos(),
		}
	}
	return p, nil
}

// decodeNameList accepts a string or a list of strings.
func decodeNameList(v cue.Value) (NameList, error) {
	if s, err := v.String(); err == nil {
		return NameList{s}, nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "rule",
			Message: "expected a name or a list of names",
			Pos:     v.Pos(),
		}
	}
	var names NameList
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, err
		}
		names = append(names, s)
	}
	return names, nil
}

// CompileError is a decoding error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

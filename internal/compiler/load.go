package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by LoadFile for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported roster format: use .yaml, .yml or .cue")

// LoadFile reads a roster file. The format is chosen by extension:
// .yaml and .yml are decoded strictly (unknown fields are errors), .cue is
// evaluated with the CUE SDK and read from its top-level roster field, or
// from the top level when there is none.
func LoadFile(path string) (*RosterSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".cue":
		ctx := cuecontext.New()
		v := ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		if roster := v.LookupPath(cue.ParsePath("roster")); roster.Exists() {
			v = roster
		}
		return DecodeCUE(v)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// DecodeYAML parses a YAML roster, rejecting unknown fields.
func DecodeYAML(data []byte) (*RosterSpec, error) {
	var spec RosterSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &spec, nil
}

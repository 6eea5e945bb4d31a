package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/santa/internal/compiler"
	"github.com/roach88/santa/internal/ir"
)

// LoadResult is a roster that loaded, validated and compiled.
type LoadResult struct {
	Name string               // roster name, or the file name without extension
	Spec *compiler.RosterSpec // the roster as written
	Set  *ir.ParticipantSet   // the compiled participant set
	Path string               // the file the roster was read from
}

// LoadError represents an error that occurred while reading a roster.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Located())
}

// Located returns the message prefixed with its source position, if any.
func (e *LoadError) Located() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// Error code constants, unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeParseFailed  = "E004" // Roster file could not be parsed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeUnsupported  = "E006" // Unknown roster file extension
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeDatabase     = "E008" // Database open/read/write error
	ErrCodeInvalidFlags = "E009" // Invalid flag value

	// Draw errors
	ErrCodeTooFew     = "E200" // fewer than two participants
	ErrCodeImpossible = "E201" // rules made the draw impossible

	// Store errors
	ErrCodeNoDraw        = "E300" // no draw stored for the roster
	ErrCodeTokenNotFound = "E301" // reveal token unknown
	ErrCodeTokenUsed     = "E302" // reveal token already used
)

// LoadRoster reads, validates and compiles a roster file.
//
// Read and parse failures are returned as *LoadError. Validation failures
// are returned as compiler.ValidationErrors so callers can list all of them.
func LoadRoster(path string) (*LoadResult, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("roster file not found: %s", path)}
	}

	spec, err := compiler.LoadFile(path)
	if err != nil {
		return nil, convertLoadError(err)
	}

	if errs := compiler.Validate(spec); len(errs) > 0 {
		return nil, compiler.ValidationErrors(errs)
	}

	set, err := compiler.Compile(spec)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}

	return &LoadResult{
		Name: rosterName(spec, path),
		Spec: spec,
		Set:  set,
		Path: path,
	}, nil
}

// rosterName is the key draws are stored under.
func rosterName(spec *compiler.RosterSpec, path string) string {
	if name := strings.TrimSpace(spec.Name); name != "" {
		return name
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// convertLoadError converts a compiler loading error to a LoadError with
// position info.
func convertLoadError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeParseFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	if errors.Is(err, compiler.ErrUnsupportedFormat) {
		return &LoadError{Code: ErrCodeUnsupported, Message: err.Error()}
	}
	if errors.Is(err, os.ErrNotExist) {
		return &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}
	return &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
}

// loadRosterOrFail loads a roster and reports failures through the
// formatter. Read errors exit 2; validation errors exit 1.
func loadRosterOrFail(formatter *OutputFormatter, path string) (*LoadResult, error) {
	result, err := LoadRoster(path)
	if err == nil {
		return result, nil
	}

	var verrs compiler.ValidationErrors
	if errors.As(err, &verrs) {
		return nil, outputValidationErrors(formatter, verrs)
	}

	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return nil, formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Located(), nil)
	}
	return nil, formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

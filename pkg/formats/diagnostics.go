package formats

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Conditions absorbed while parsing. None of them abort a load.
var (
	ErrShortFace         = errors.New("face has fewer than 3 corners")
	ErrMalformedIndex    = errors.New("malformed face index")
	ErrTokenParse        = errors.New("malformed token")
	ErrLibraryOpen       = errors.New("material library unavailable")
	ErrNoCurrentMaterial = errors.New("material statement before newmtl")
	ErrMissingArgument   = errors.New("missing argument")
)

// Diagnostic records one condition that was absorbed with a default.
type Diagnostic struct {
	File    string // Source document
	Line    int    // 1-based line number, 0 when not tied to a line
	Keyword string // Statement keyword (v, f, Kd, ...)
	Err     error
}

// Error implements error.
func (d Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %v", d.File, d.Line, d.Keyword, d.Err)
	}
	return fmt.Sprintf("%s: %s: %v", d.File, d.Keyword, d.Err)
}

// Unwrap returns the underlying condition.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics is an ordered list of absorbed conditions.
type Diagnostics []Diagnostic

func (ds *Diagnostics) add(file string, line int, keyword string, err error) {
	*ds = append(*ds, Diagnostic{File: file, Line: line, Keyword: keyword, Err: err})
}

// Err combines all diagnostics into a single error, or nil if there are none.
func (ds Diagnostics) Err() error {
	var err error
	for _, d := range ds {
		err = multierr.Append(err, d)
	}
	return err
}

// Count returns how many diagnostics match target.
func (ds Diagnostics) Count(target error) int {
	n := 0
	for _, d := range ds {
		if errors.Is(d, target) {
			n++
		}
	}
	return n
}

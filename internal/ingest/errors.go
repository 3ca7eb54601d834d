package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDataAccess = errors.New("data access")
	ErrSchema     = errors.New("schema")
)

type LoadError struct {
	Kind   error
	Path   string
	Row    int // línea desde 1; 0 si no aplica
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	b.WriteString(" error: ")
	b.WriteString(e.Path)
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func accessErr(path string, err error) error {
	return &LoadError{Kind: ErrDataAccess, Path: path, Err: err}
}

func schemaErr(path string, row int, col string, err error) error {
	return &LoadError{Kind: ErrSchema, Path: path, Row: row, Column: col, Err: err}
}

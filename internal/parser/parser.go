// Package parser defines the seam between the harness and the HTML parsing
// engine under test. The harness only ever talks to an Engine; everything
// about tokenization and tree construction lives on the far side of it.
package parser

import (
	"github.com/roach88/htmlconf/internal/dom"
)

// Options configures a single parse call. It is an immutable value passed
// at the call site; there is no global configuration.
type Options struct {
	// ScriptingEnabled toggles the scripting flag of the parsing algorithm,
	// which changes how noscript and template-adjacent content is treated.
	ScriptingEnabled bool
	// IframeSrcdoc marks the input as an iframe srcdoc document.
	IframeSrcdoc bool
	// CollectErrors asks the engine to report parse errors; when false the
	// engine may skip error bookkeeping entirely.
	CollectErrors bool
}

// FragmentContext names the synthetic context element for fragment parsing.
// Namespace is "", "svg", or "math".
type FragmentContext struct {
	Namespace string
	TagName   string
}

// ParseError is one error reported by the engine, located in the input.
type ParseError struct {
	Code string
	Line int
	Col  int
}

// Engine is the external parsing capability. Implementations must be safe
// for concurrent use by multiple harness workers, and every call is assumed
// to terminate.
type Engine interface {
	// ParseDocument parses input as a complete document.
	ParseDocument(input string, opts Options) (*dom.Tree, []ParseError)
	// ParseFragment parses input as a fragment under the given context.
	ParseFragment(ctx FragmentContext, input string, opts Options) (*dom.Tree, []ParseError)
}

// Unimplemented is the placeholder engine used until a real one is plugged
// in: every parse returns an empty tree, plus a single synthetic error when
// error collection is requested. It exists so the harness pipeline can be
// exercised end to end (every comparison fails, which is the honest answer).
type Unimplemented struct{}

var _ Engine = Unimplemented{}

// ParseDocument implements Engine.
func (Unimplemented) ParseDocument(input string, opts Options) (*dom.Tree, []ParseError) {
	return dom.NewDocument(), unimplementedErrors(opts)
}

// ParseFragment implements Engine.
func (Unimplemented) ParseFragment(ctx FragmentContext, input string, opts Options) (*dom.Tree, []ParseError) {
	return dom.NewFragment(), unimplementedErrors(opts)
}

func unimplementedErrors(opts Options) []ParseError {
	if !opts.CollectErrors {
		return nil
	}
	return []ParseError{{Code: "unimplemented", Line: 1, Col: 1}}
}

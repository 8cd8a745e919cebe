package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/htmlconf/internal/runner"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // All suites passed
	ExitFailure      = 1 // At least one suite recorded a failure
	ExitCommandError = 2 // Command error (bad flags, unreadable paths, ...)
)

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure for plain errors and ExitSuccess for nil.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// reportPrinter renders suite results as plain lines. Counts go through an
// x/text message printer so the multi-thousand-case totals of the full
// corpus print with digit grouping.
type reportPrinter struct {
	w io.Writer
	p *message.Printer
}

func newReportPrinter(w io.Writer) *reportPrinter {
	return &reportPrinter{w: w, p: message.NewPrinter(language.English)}
}

// Suite prints the one-line pass/total/failed summary for a suite.
func (r *reportPrinter) Suite(name string, s runner.Summary) {
	r.p.Fprintf(r.w, "%s: %d/%d passed (%d failed)\n", name, s.Passed, s.Total, s.Failed)
}

// Failures prints the capped failure triples, if any.
func (r *reportPrinter) Failures(failures []runner.Failure, max int) {
	if len(failures) == 0 {
		return
	}
	r.p.Fprintf(r.w, "failures (showing up to %d):\n", max)
	for _, f := range failures {
		fmt.Fprintf(r.w, "- %s case=%d mode=%s\n", f.File, f.CaseIndex, f.Label)
	}
}

// runReport is the machine-readable form of a run, emitted with --json.
type runReport struct {
	Suites   []suiteReport   `json:"suites"`
	Failures []failureReport `json:"failures,omitempty"`
}

type suiteReport struct {
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Passed int    `json:"passed"`
	Failed int    `json:"failed"`
}

type failureReport struct {
	File      string `json:"file"`
	CaseIndex int    `json:"case_index"`
	Mode      string `json:"mode"`
	Expected  string `json:"expected,omitempty"`
	Actual    string `json:"actual,omitempty"`
}

func toFailureReports(failures []runner.Failure) []failureReport {
	out := make([]failureReport, 0, len(failures))
	for _, f := range failures {
		out = append(out, failureReport{
			File:      f.File,
			CaseIndex: f.CaseIndex,
			Mode:      f.Label,
			Expected:  f.Expected,
			Actual:    f.Actual,
		})
	}
	return out
}

func writeJSONReport(w io.Writer, report runReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

package fixture

import (
	"log/slog"
	"os"
	"strings"
)

// ScriptDirective says which scripting modes a tree-construction case must
// run under.
type ScriptDirective int

const (
	// ScriptBoth runs the case twice, once with scripting enabled and once
	// disabled. This is the default when a case carries no directive.
	ScriptBoth ScriptDirective = iota
	// ScriptOn runs the case with scripting enabled only.
	ScriptOn
	// ScriptOff runs the case with scripting disabled only.
	ScriptOff
)

// String returns the directive name used in reports.
func (d ScriptDirective) String() string {
	switch d {
	case ScriptOn:
		return "on"
	case ScriptOff:
		return "off"
	default:
		return "both"
	}
}

// FragmentContext names the synthetic parent element for a fragment-parsing
// case. Namespace is "", "svg", or "math"; TagName is never empty for an
// emitted case.
type FragmentContext struct {
	Namespace string
	TagName   string
}

// TreeCase is one tree-construction test extracted from a .dat fixture.
type TreeCase struct {
	// Data is the raw input markup, exactly as authored (not trimmed).
	Data string
	// ErrorCount is the number of non-blank lines across the #errors and
	// #new-errors sections combined.
	ErrorCount int
	// Fragment is non-nil when the case exercises fragment parsing.
	Fragment *FragmentContext
	// Script selects the scripting mode(s) to run under.
	Script ScriptDirective
	// Expected is the canonical expected serialization, trimmed of
	// surrounding blank lines with per-line trailing whitespace stripped.
	Expected string
}

// Section markers are full-line literals. Any of them terminates the
// accumulation currently in progress.
var sectionMarkers = map[string]bool{
	"#data":              true,
	"#errors":            true,
	"#new-errors":        true,
	"#document-fragment": true,
	"#script-on":         true,
	"#script-off":        true,
	"#document":          true,
}

// DecodeTreeFile reads a .dat fixture and decodes its cases.
func DecodeTreeFile(path string) ([]TreeCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeTreeCases(string(data)), nil
}

// DecodeTreeCases scans the multi-section .dat format and returns the cases
// it contains, in file order. A case begins at a line that is exactly
// "#data" and must reach "#errors" and later "#document" to be emitted;
// cases that do not are dropped and scanning resumes at the next "#data".
// The drop is deliberate (it matches the established corpus behavior) but
// is logged at debug level so fixture corruption is not completely silent.
func DecodeTreeCases(content string) []TreeCase {
	lines := strings.Split(content, "\n")
	cur := &lineCursor{lines: lines}
	var cases []TreeCase

	for {
		line, ok := cur.next()
		if !ok {
			return cases
		}
		if line != "#data" {
			continue
		}
		caseStart := cur.pos - 1

		var dataLines []string
		for {
			peeked, ok := cur.peek()
			if !ok || peeked == "#errors" {
				break
			}
			dataLines = append(dataLines, peeked)
			cur.next()
		}
		if got, ok := cur.next(); !ok || got != "#errors" {
			slog.Debug("dropping malformed fixture case", "reason", "missing #errors", "line", caseStart+1)
			continue
		}
		data := strings.Join(dataLines, "\n")

		errorCount := countErrorLines(cur)
		if peeked, ok := cur.peek(); ok && peeked == "#new-errors" {
			cur.next()
			errorCount += countErrorLines(cur)
		}

		var fragment *FragmentContext
		if peeked, ok := cur.peek(); ok && peeked == "#document-fragment" {
			cur.next()
			ctxLine, _ := cur.next()
			fragment = parseFragmentContext(ctxLine)
		}

		script := ScriptBoth
		if peeked, ok := cur.peek(); ok {
			switch peeked {
			case "#script-on":
				script = ScriptOn
				cur.next()
			case "#script-off":
				script = ScriptOff
				cur.next()
			}
		}

		if got, ok := cur.next(); !ok || got != "#document" {
			slog.Debug("dropping malformed fixture case", "reason", "missing #document", "line", caseStart+1)
			continue
		}

		var expectedLines []string
		for {
			peeked, ok := cur.peek()
			if !ok || peeked == "#data" {
				break
			}
			expectedLines = append(expectedLines, peeked)
			cur.next()
		}

		cases = append(cases, TreeCase{
			Data:       data,
			ErrorCount: errorCount,
			Fragment:   fragment,
			Script:     script,
			Expected:   trimExpected(strings.Join(expectedLines, "\n")),
		})
	}
}

// countErrorLines consumes lines until the next section marker and counts
// the non-blank ones.
func countErrorLines(cur *lineCursor) int {
	n := 0
	for {
		peeked, ok := cur.peek()
		if !ok || sectionMarkers[peeked] {
			return n
		}
		cur.next()
		if strings.TrimSpace(peeked) != "" {
			n++
		}
	}
}

// parseFragmentContext interprets the single line after #document-fragment.
// An "svg " or "math " prefix selects the namespace; the rest is the tag
// name. A tag name that itself begins with "svg " would be misread as
// namespaced; the corpus never contains one.
func parseFragmentContext(line string) *FragmentContext {
	s := strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(s, "svg "); ok {
		return &FragmentContext{Namespace: "svg", TagName: rest}
	}
	if rest, ok := strings.CutPrefix(s, "math "); ok {
		return &FragmentContext{Namespace: "math", TagName: rest}
	}
	return &FragmentContext{TagName: s}
}

// trimExpected strips leading/trailing blank lines from the expected block
// and trailing whitespace from every retained line.
func trimExpected(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// lineCursor is a forward scanner with one line of lookahead.
type lineCursor struct {
	lines []string
	pos   int
}

func (c *lineCursor) peek() (string, bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	return c.lines[c.pos], true
}

func (c *lineCursor) next() (string, bool) {
	line, ok := c.peek()
	if ok {
		c.pos++
	}
	return line, ok
}

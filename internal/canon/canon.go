// Package canon renders document trees into the indented text form that
// tree-construction fixtures author their expected output in. Both sides of
// every comparison — fixture text and live parser output — go through this
// package, so its formatting rules are the harness's single source of truth
// for equality.
package canon

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/roach88/htmlconf/internal/dom"
)

// Format serializes the subtree under root as canonical lines joined by
// "\n". Document and fragment nodes contribute no line of their own.
func Format(t *dom.Tree, root dom.NodeID) string {
	var lines []string
	writeNode(t, root, 0, &lines)
	return strings.Join(lines, "\n")
}

func writeNode(t *dom.Tree, id dom.NodeID, indent int, lines *[]string) {
	node := t.Node(id)
	switch data := node.Data.(type) {
	case dom.DocumentData, dom.FragmentData:
		for _, child := range node.Children {
			writeNode(t, child, indent, lines)
		}
	case *dom.DoctypeData:
		*lines = append(*lines, line(indent, formatDoctype(data)))
	case *dom.CommentData:
		*lines = append(*lines, line(indent, fmt.Sprintf("<!-- %s -->", data.Text)))
	case *dom.TextData:
		// Raw content between the quotes, never escaped.
		*lines = append(*lines, line(indent, `"`+data.Text+`"`))
	case *dom.ElementData:
		*lines = append(*lines, line(indent, fmt.Sprintf("<%s>", data.Name.Display())))
		for _, attr := range sortedAttrs(data.Attrs) {
			*lines = append(*lines, line(indent+2, attr.Name.Display()+`="`+attr.Value+`"`))
		}

		if isHTMLTemplate(data) && data.TemplateContents != dom.NoNode {
			*lines = append(*lines, line(indent+2, "content"))
			for _, child := range t.Node(data.TemplateContents).Children {
				writeNode(t, child, indent+4, lines)
			}
			return
		}

		for _, child := range node.Children {
			writeNode(t, child, indent+2, lines)
		}
	}
}

func line(indent int, text string) string {
	return "| " + strings.Repeat(" ", indent) + text
}

func formatDoctype(dt *dom.DoctypeData) string {
	if dt.PublicID == "" && dt.SystemID == "" {
		return fmt.Sprintf("<!DOCTYPE %s>", dt.Name)
	}
	return fmt.Sprintf(`<!DOCTYPE %s "%s" "%s">`, dt.Name, dt.PublicID, dt.SystemID)
}

func isHTMLTemplate(el *dom.ElementData) bool {
	return el.Name.NS.IsHTML() && el.Name.Local == "template"
}

// sortedAttrs orders attributes by the UTF-16 code-unit sequence of their
// displayed qualified name. Go's native string ordering compares UTF-8
// bytes, which diverges for names containing code points past the BMP, so
// the comparison works on encoded UTF-16 units.
func sortedAttrs(attrs []dom.Attr) []dom.Attr {
	out := make([]dom.Attr, len(attrs))
	copy(out, attrs)
	sort.SliceStable(out, func(i, j int) bool {
		return compareUTF16(out[i].Name.Display(), out[j].Name.Display()) < 0
	})
	return out
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// Normalize makes two canonical blocks comparable regardless of incidental
// trailing whitespace: the whole block is trimmed, then every remaining
// line loses its trailing whitespace.
func Normalize(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

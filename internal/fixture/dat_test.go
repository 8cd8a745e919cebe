package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoCaseFixture = `#data
<p>Hello
#errors
1:1: some-error
#document
| <html>
|   <head>
|   <body>
|     <p>
|       "Hello"

#data
<svg><title>X</title></svg>
#errors
#document-fragment
svg svg
#script-on
#document
| <svg svg>
|   <svg svg>
|     <svg title>
|       "X"
`

func TestDecodeTreeCasesTwoCaseFixture(t *testing.T) {
	cases := DecodeTreeCases(twoCaseFixture)
	require.Len(t, cases, 2)

	first := cases[0]
	assert.Equal(t, "<p>Hello", first.Data)
	assert.Equal(t, 1, first.ErrorCount)
	assert.Equal(t, ScriptBoth, first.Script)
	assert.Nil(t, first.Fragment)
	assert.Contains(t, first.Expected, "| <html>")
	assert.False(t, len(first.Expected) > 0 && first.Expected[len(first.Expected)-1] == '\n',
		"expected block must not keep trailing blank lines")

	second := cases[1]
	assert.Equal(t, ScriptOn, second.Script)
	require.NotNil(t, second.Fragment)
	assert.Equal(t, "svg", second.Fragment.Namespace)
	assert.Equal(t, "svg", second.Fragment.TagName)
	assert.Equal(t, 0, second.ErrorCount)
}

func TestDecodeTreeCasesMissingErrorsMarkerSkipsCase(t *testing.T) {
	content := "#data\n<p>\n#document\n| <html>\n"
	assert.Empty(t, DecodeTreeCases(content))
}

func TestDecodeTreeCasesMissingDocumentMarkerSkipsCase(t *testing.T) {
	content := "#data\n<p>\n#errors\n#errors\n#data\n<b>\n#errors\n#document\n| <b>\n"
	cases := DecodeTreeCases(content)
	require.Len(t, cases, 1)
	assert.Equal(t, "<b>", cases[0].Data)
}

func TestDecodeTreeCasesLeadingGarbageIgnored(t *testing.T) {
	content := "some preamble\nnot a marker\n#data\n<i>\n#errors\n#document\n| <i>\n"
	cases := DecodeTreeCases(content)
	require.Len(t, cases, 1)
	assert.Equal(t, "<i>", cases[0].Data)
}

func TestDecodeTreeCasesNewErrorsAddsToCount(t *testing.T) {
	content := "#data\n<p>\n#errors\nerr one\n\nerr two\n#new-errors\nerr three\n#document\n| <p>\n"
	cases := DecodeTreeCases(content)
	require.Len(t, cases, 1)
	assert.Equal(t, 3, cases[0].ErrorCount, "blank error lines are not counted")
}

func TestDecodeTreeCasesScriptOffDirective(t *testing.T) {
	content := "#data\nx\n#errors\n#script-off\n#document\n| \"x\"\n"
	cases := DecodeTreeCases(content)
	require.Len(t, cases, 1)
	assert.Equal(t, ScriptOff, cases[0].Script)
}

func TestDecodeTreeCasesEmptyData(t *testing.T) {
	content := "#data\n#errors\n#document\n| <html>\n"
	cases := DecodeTreeCases(content)
	require.Len(t, cases, 1)
	assert.Equal(t, "", cases[0].Data)
}

func TestDecodeTreeCasesDataNotTrimmed(t *testing.T) {
	content := "#data\n  <p>  \n#errors\n#document\n| <p>\n"
	cases := DecodeTreeCases(content)
	require.Len(t, cases, 1)
	assert.Equal(t, "  <p>  ", cases[0].Data, "input markup is preserved exactly as authored")
}

func TestDecodeTreeCasesFragmentContextWithoutNamespace(t *testing.T) {
	content := "#data\n<td>\n#errors\n#document-fragment\ntbody\n#document\n| <td>\n"
	cases := DecodeTreeCases(content)
	require.Len(t, cases, 1)
	require.NotNil(t, cases[0].Fragment)
	assert.Equal(t, "", cases[0].Fragment.Namespace)
	assert.Equal(t, "tbody", cases[0].Fragment.TagName)
}

func TestDecodeTreeCasesMathFragmentContext(t *testing.T) {
	content := "#data\n<mi>\n#errors\n#document-fragment\nmath ms\n#document\n| <math ms>\n"
	cases := DecodeTreeCases(content)
	require.Len(t, cases, 1)
	require.NotNil(t, cases[0].Fragment)
	assert.Equal(t, "math", cases[0].Fragment.Namespace)
	assert.Equal(t, "ms", cases[0].Fragment.TagName)
}

func TestDecodeTreeCasesExpectedTrailingWhitespaceStripped(t *testing.T) {
	content := "#data\nx\n#errors\n#document\n| \"x\"   \n\n\n"
	cases := DecodeTreeCases(content)
	require.Len(t, cases, 1)
	assert.Equal(t, `| "x"`, cases[0].Expected)
}

func TestDecodeTreeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.dat")
	require.NoError(t, os.WriteFile(path, []byte(twoCaseFixture), 0o644))

	cases, err := DecodeTreeFile(path)
	require.NoError(t, err)
	assert.Len(t, cases, 2)

	_, err = DecodeTreeFile(filepath.Join(t.TempDir(), "absent.dat"))
	assert.Error(t, err)
}

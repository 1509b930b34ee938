package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"plain":         "plain",
		"a*b":           `a\*b`,
		"line1\nline2":  "line1  \nline2",
		"**bold**\n*x*": `\*\*bold\*\*` + "  \n" + `\*x\*`,
		`a \*b\* c`:     `a \\\*b\\\* c`,
		"`x*y`":         "\\`x\\*y\\`",
	}
	for in, want := range cases {
		assert.Equal(t, want, Escape(in), "input %q", in)
	}
}

func TestLiteralAsteriskNeverEmphasis(t *testing.T) {
	r := New()
	stored := Escape("a *b* and **c**")

	first := string(r.HTML(stored))
	second := string(r.HTML(stored))

	assert.Equal(t, first, second)
	assert.NotContains(t, first, "<em>")
	assert.NotContains(t, first, "<strong>")
	assert.Contains(t, first, "a *b* and **c**")
}

func TestBackslashBeforeAsteriskStaysLiteral(t *testing.T) {
	r := New()
	out := string(r.HTML(Escape(`a \*b\* c`)))
	assert.NotContains(t, out, "<em>")
	assert.Contains(t, out, `a \*b\* c`)

	// a backslash ending one fragment must not cancel the next fragment's escape
	split := string(r.HTML(Escape(`a \`) + Escape("*b*")))
	assert.NotContains(t, split, "<em>")
	assert.Contains(t, split, `a \*b*`)
}

func TestBackticksStayLiteral(t *testing.T) {
	out := string(New().HTML(Escape("`x*y`")))
	assert.NotContains(t, out, "<code>")
	assert.Contains(t, out, "`x*y`")
}

func TestNewlineBecomesLineBreak(t *testing.T) {
	out := string(New().HTML(Escape("one\ntwo")))
	assert.Contains(t, out, "<br")
	assert.True(t, strings.Contains(out, "one") && strings.Contains(out, "two"))
}

func TestHTMLIsSanitized(t *testing.T) {
	out := string(New().HTML(`<script>alert(1)</script> [x](javascript:alert(1))`))
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

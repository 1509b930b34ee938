// Package render turns model output into HTML for the chat page.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Backslashes and backticks are escaped too: an unescaped backslash would
// cancel the asterisk escape, and inside a code span the escape would show.
var escaper = strings.NewReplacer(
	"\n", "  \n",
	"*", `\*`,
	`\`, `\\`,
	"`", "\\`",
)

// Escape prepares one streamed fragment for Markdown display: newlines
// become hard breaks; asterisks, backslashes and backticks stay literal.
func Escape(fragment string) string {
	return escaper.Replace(fragment)
}

// Renderer converts Markdown to sanitized HTML. Raw HTML in the input is
// dropped by goldmark and the result is filtered through a UGC policy.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	return &Renderer{
		md:     goldmark.New(),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *Renderer) HTML(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(markdown))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

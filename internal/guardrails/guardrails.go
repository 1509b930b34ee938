package guardrails

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrTooLong = errors.New("input too long")
	ErrBanned  = errors.New("input violates guardrails")
)

// Guardrails performs simple input validation.
type Guardrails struct {
	maxLen int
	banned []string
}

// New builds guardrails. maxLen <= 0 disables the length check.
func New(maxLen int, banned []string) *Guardrails {
	g := &Guardrails{maxLen: maxLen}
	for _, w := range banned {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			g.banned = append(g.banned, w)
		}
	}
	return g
}

// Blank reports whether the input carries no text. Blank input is not an
// error; it simply never reaches the model.
func Blank(input string) bool {
	return strings.TrimSpace(input) == ""
}

// CheckInput returns an error if input is too long or contains banned words.
func (g *Guardrails) CheckInput(input string) error {
	if g.maxLen > 0 {
		if n := utf8.RuneCountInString(input); n > g.maxLen {
			return fmt.Errorf("%w: %d characters, limit %d", ErrTooLong, n, g.maxLen)
		}
	}
	lower := strings.ToLower(input)
	for _, w := range g.banned {
		if strings.Contains(lower, w) {
			return ErrBanned
		}
	}
	return nil
}

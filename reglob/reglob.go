// Package reglob translates shell-style wildcard patterns into regular
// expressions.  It is the only place names and key values are matched
// against wildcards.
//
// A pattern may contain
//
//	*       any run of characters, possibly empty
//	?       any single character
//	[set]   one character of set; ranges like a-z are allowed and a
//	        leading ^ or ! negates the set
//	\c      the character c taken literally
package reglob

import (
	"regexp"
	"strings"
)

// Reglob returns an anchored regular expression equivalent to pattern.
// Wildcards match any character, newline included.
func Reglob(pattern string) string {
	var b strings.Builder
	b.WriteString("(?s)^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '\\':
			if i+1 < len(pattern) {
				i++
				b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			} else {
				b.WriteString(`\\`)
			}
		case '[':
			end := classEnd(pattern, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(class(pattern[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		}
	}
	b.WriteByte('$')
	return b.String()
}

// classEnd returns the index of the bracket closing the class opened at
// pattern[start], or -1.  A ] right after the opening bracket (or after a
// negation) is literal.
func classEnd(pattern string, start int) int {
	i := start + 1
	if i < len(pattern) && (pattern[i] == '^' || pattern[i] == '!') {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for ; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case ']':
			return i
		}
	}
	return -1
}

func class(body string) string {
	var b strings.Builder
	b.WriteByte('[')
	if len(body) > 0 && (body[0] == '^' || body[0] == '!') {
		b.WriteByte('^')
		body = body[1:]
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			b.WriteByte('\\')
			b.WriteByte(body[i])
		case c == '-' && i > 0 && i < len(body)-1:
			b.WriteByte('-')
		case c == '[' || c == ']' || c == '^' || c == '-' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// HasWildcards reports whether pattern contains an unescaped wildcard
// character.
func HasWildcards(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '*', '?':
			return true
		case '[':
			if classEnd(pattern, i) >= 0 {
				return true
			}
		}
	}
	return false
}

// Unescape removes the backslashes of a pattern without wildcards.
func Unescape(pattern string) string {
	if !strings.Contains(pattern, `\`) {
		return pattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '\\' && i+1 < len(pattern) {
			i++
		}
		b.WriteByte(pattern[i])
	}
	return b.String()
}

func Compile(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(Reglob(pattern))
}

// Match reports whether s matches pattern.
func Match(pattern, s string) bool {
	if !HasWildcards(pattern) {
		return Unescape(pattern) == s
	}
	re, err := Compile(pattern)
	return err == nil && re.MatchString(s)
}

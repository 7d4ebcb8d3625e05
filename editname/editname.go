// Package editname implements the small edit-command language used to
// derive new entity names from old ones.
//
// An edit expression is a sequence of commands applied to the name with a
// cursor that starts at the beginning of the name.  Each command may be
// preceded by a decimal repeat count.
//
//	a        move the cursor to the start
//	e        move the cursor to the end
//	f        move forward one character
//	b        move back one character
//	d        delete the character under the cursor
//	D        delete the character before the cursor
//	k        delete from the cursor to the end
//	K        delete from the start to the cursor
//	i/text/  insert text at the cursor and move past it
//	s/text/  move past the next occurrence of text
//	S/text/  move to the start of the previous occurrence of text
//	%/o/n/   replace the next occurrence of o after the cursor with n
//	%g/o/n/  replace every occurrence of o after the cursor with n
//
// The delimiter following i, s, S and % may be any character not used in
// the text.  For example "ei/2/" appends "2" and "%/Old/New/" replaces the
// first "Old".
package editname

import (
	"fmt"
	"strconv"
	"strings"
)

type Error struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("edit %q at offset %d: %s", e.Expr, e.Pos, e.Msg)
}

type opcode byte

type command struct {
	op     opcode
	count  int
	global bool
	text   string
	repl   string
}

// Program is a compiled edit expression.
type Program struct {
	expr     string
	commands []command
}

func (p *Program) String() string {
	return p.expr
}

// Compile parses expr.
func Compile(expr string) (*Program, error) {
	prog := &Program{expr: expr}
	for i := 0; i < len(expr); {
		start := i
		for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
			i++
		}
		count := 1
		if i > start {
			n, err := strconv.Atoi(expr[start:i])
			if err != nil {
				return nil, &Error{expr, start, "bad repeat count"}
			}
			count = n
		}
		if i == len(expr) {
			return nil, &Error{expr, start, "repeat count without command"}
		}
		cmd := command{op: opcode(expr[i]), count: count}
		i++
		switch cmd.op {
		case 'a', 'e', 'f', 'b', 'd', 'D', 'k', 'K':
		case 'i', 's', 'S':
			text, next, err := delimited(expr, i, 1)
			if err != nil {
				return nil, err
			}
			cmd.text = text[0]
			i = next
		case '%':
			if i < len(expr) && expr[i] == 'g' {
				cmd.global = true
				i++
			}
			text, next, err := delimited(expr, i, 2)
			if err != nil {
				return nil, err
			}
			cmd.text, cmd.repl = text[0], text[1]
			if cmd.text == "" {
				return nil, &Error{expr, i, "empty replacement target"}
			}
			i = next
		case ' ', '\t':
			continue
		default:
			return nil, &Error{expr, i - 1, fmt.Sprintf("unknown command %q", expr[i-1])}
		}
		prog.commands = append(prog.commands, cmd)
	}
	return prog, nil
}

// delimited reads n fields separated by the delimiter found at expr[i].
func delimited(expr string, i, n int) ([]string, int, error) {
	if i >= len(expr) {
		return nil, i, &Error{expr, i, "missing delimiter"}
	}
	delim := expr[i]
	i++
	fields := make([]string, 0, n)
	for len(fields) < n {
		end := strings.IndexByte(expr[i:], delim)
		if end < 0 {
			return nil, i, &Error{expr, i, fmt.Sprintf("unterminated text (missing %q)", delim)}
		}
		fields = append(fields, expr[i:i+end])
		i += end + 1
	}
	return fields, i, nil
}

// Apply runs the program on name.
func (p *Program) Apply(name string) string {
	text := name
	cursor := 0
	for _, cmd := range p.commands {
		for k := 0; k < cmd.count; k++ {
			switch cmd.op {
			case 'a':
				cursor = 0
			case 'e':
				cursor = len(text)
			case 'f':
				if cursor < len(text) {
					cursor++
				}
			case 'b':
				if cursor > 0 {
					cursor--
				}
			case 'd':
				if cursor < len(text) {
					text = text[:cursor] + text[cursor+1:]
				}
			case 'D':
				if cursor > 0 {
					text = text[:cursor-1] + text[cursor:]
					cursor--
				}
			case 'k':
				text = text[:cursor]
			case 'K':
				text = text[cursor:]
				cursor = 0
			case 'i':
				text = text[:cursor] + cmd.text + text[cursor:]
				cursor += len(cmd.text)
			case 's':
				if off := strings.Index(text[cursor:], cmd.text); off >= 0 {
					cursor += off + len(cmd.text)
				}
			case 'S':
				if off := strings.LastIndex(text[:cursor], cmd.text); off >= 0 {
					cursor = off
				}
			case '%':
				if cmd.global {
					text = text[:cursor] + strings.ReplaceAll(text[cursor:], cmd.text, cmd.repl)
				} else if off := strings.Index(text[cursor:], cmd.text); off >= 0 {
					at := cursor + off
					text = text[:at] + cmd.repl + text[at+len(cmd.text):]
				}
			}
		}
	}
	return text
}

// Edit compiles expr and applies it to name.
func Edit(name, expr string) (string, error) {
	p, err := Compile(expr)
	if err != nil {
		return "", err
	}
	return p.Apply(name), nil
}

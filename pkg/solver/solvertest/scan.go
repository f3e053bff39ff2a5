package solvertest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rhuss/alloyrpc/pkg/solver"
)

var topLevelKeywords = map[string]bool{
	"module": true, "open": true, "sig": true, "abstract": true, "one": true,
	"lone": true, "some": true, "fact": true, "pred": true, "fun": true,
	"assert": true, "run": true, "check": true, "enum": true, "private": true,
	"var": true,
}

// Scan extracts the commands declared in model text. It understands just
// enough of the language to find top-level run and check commands: it
// strips comments, checks that braces balance, and requires every
// top-level statement to start with a known keyword. When no command is
// declared, a single run command labeled "Default" is synthesized.
func Scan(text string) ([]solver.Command, error) {
	src := stripComments(text)

	var (
		cmds    []solver.Command
		depth   int
		line    = 1
		col     = 0
		anon    int
		pending string // label seen before ':'
		started bool   // a top-level keyword has been seen
	)

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		col++
		switch {
		case r == '\n':
			line++
			col = 0
		case r == '{':
			depth++
		case r == '}':
			depth--
			if depth < 0 {
				return nil, &solver.ParseError{Message: "syntax error: unexpected '}'", Line: line, Column: col}
			}
		case depth == 0 && (unicode.IsLetter(r) || r == '_'):
			start := i
			for i < len(runes) && isIdent(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			col += i - start - 1
			i--

			j := skipSpace(runes, i+1)
			if j < len(runes) && runes[j] == ':' && !topLevelKeywords[word] {
				pending = word
				continue
			}
			if !topLevelKeywords[word] {
				if !started {
					return nil, &solver.ParseError{
						Message: fmt.Sprintf("syntax error: unexpected %q", word),
						Line:    line,
						Column:  col - len(word) + 1,
					}
				}
				continue
			}
			started = true
			if word != "run" && word != "check" {
				pending = ""
				continue
			}

			kind := solver.KindRun
			if word == "check" {
				kind = solver.KindCheck
			}
			label := pending
			pending = ""

			k := skipSpace(runes, i+1)
			if k < len(runes) && runes[k] != '{' && isIdent(runes[k]) {
				end := k
				for end < len(runes) && isIdent(runes[end]) {
					end++
				}
				if name := string(runes[k:end]); name != "for" && name != "expect" {
					if label == "" {
						label = name
					}
				}
			}
			if label == "" {
				anon++
				label = fmt.Sprintf("%s$%d", word, anon)
			}

			cmds = append(cmds, solver.Command{
				Index:   len(cmds),
				Kind:    kind,
				Label:   label,
				Display: display(kind, label, scopeText(runes, i+1)),
			})
		}
	}
	if depth != 0 {
		return nil, &solver.ParseError{Message: "syntax error: missing '}'", Line: line, Column: col}
	}

	if len(cmds) == 0 {
		cmds = append(cmds, solver.Command{
			Index:   0,
			Kind:    solver.KindRun,
			Label:   "Default",
			Display: "Run Default for 4 but 4 int, 4 seq",
		})
	}
	return cmds, nil
}

func display(kind solver.CommandKind, label, scope string) string {
	verb := "Run"
	if kind == solver.KindCheck {
		verb = "Check"
	}
	if scope == "" {
		scope = "for 3"
	}
	return verb + " " + label + " " + scope
}

// scopeText returns the "for ..." clause that follows a command on the
// same line, if any.
func scopeText(runes []rune, from int) string {
	end := from
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	rest := string(runes[from:end])
	idx := strings.Index(rest, "for ")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(rest[idx:])
}

func skipSpace(runes []rune, i int) int {
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return i
}

func isIdent(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}

// stripComments removes //, -- and /* */ comments, keeping newlines so
// positions stay meaningful.
func stripComments(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch {
		case i+1 < len(runes) && runes[i] == '/' && runes[i+1] == '*':
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				if runes[i] == '\n' {
					b.WriteRune('\n')
				}
				i++
			}
			i++
		case i+1 < len(runes) && ((runes[i] == '/' && runes[i+1] == '/') || (runes[i] == '-' && runes[i+1] == '-')):
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			if i < len(runes) {
				b.WriteRune('\n')
			}
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

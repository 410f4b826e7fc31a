package shaderembed

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// glslSymbols holds the characters around which a space is never needed to separate two tokens.
// The space itself is part of the set, so runs of spaces collapse as well.
const glslSymbols = "!+-/*%^&|.,;=<>()[]{} "

// ErrMalformedInput is returned when the shader source cannot be decoded as text.
var ErrMalformedInput = errors.New("shader source is not valid UTF-8 text")

// MinifyBytes validates the raw shader source and returns its minified form.
func MinifyBytes(src []byte) (string, error) {
	if !utf8.Valid(src) {
		return "", ErrMalformedInput
	}
	return Minify(string(src)), nil
}

// Minify removes the whitespace which is not required to separate GLSL tokens.
//
// Lines starting with '#' are preprocessor directives: they are copied verbatim,
// including their line terminator, and always start a new output line. Every other line
// loses its terminator, its tabs and every space which is adjacent to an operator,
// a punctuation sign or another space. The only spaces which survive are the ones
// separating two identifiers or keywords.
func Minify(src string) string {
	src = normalizeNewlines(src)

	var b strings.Builder
	b.Grow(len(src))

	for len(src) > 0 {
		var line string
		line, src = cutLine(src)
		if line[0] == '#' {
			if out := b.String(); out != "" && out[len(out)-1] != '\n' {
				b.WriteByte('\n')
			}
			b.WriteString(line)
			continue
		}
		minifyLine(&b, line)
	}
	return b.String()
}

// minifyLine writes the minified non-directive line into b.
// The line may contain its trailing newline, which counts as the line's last character.
func minifyLine(b *strings.Builder, line string) {
	last := len(line) - 1
	for i := 0; i <= last; i++ {
		c := line[i]
		if c == '\n' || c == '\t' {
			continue
		}
		if i == 0 || i == last {
			if c != ' ' {
				b.WriteByte(c)
			}
			continue
		}
		if c == ' ' && (isGLSLSymbol(line[i-1]) || isGLSLSymbol(line[i+1])) {
			continue
		}
		b.WriteByte(c)
	}
}

// cutLine splits off the first line of src, keeping its terminator.
func cutLine(src string) (line, rest string) {
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		return src[:i+1], src[i+1:]
	}
	return src, ""
}

// UnindentDirectives removes the spaces and tabs preceding the '#' of indented
// preprocessor directives, which Minify would otherwise treat as code.
func UnindentDirectives(src string) string {
	src = normalizeNewlines(src)

	var b strings.Builder
	b.Grow(len(src))

	for len(src) > 0 {
		var line string
		line, src = cutLine(src)
		if t := strings.TrimLeft(line, " \t"); strings.HasPrefix(t, "#") {
			line = t
		}
		b.WriteString(line)
	}
	return b.String()
}

func isGLSLSymbol(c byte) bool {
	return strings.IndexByte(glslSymbols, c) >= 0
}

// normalizeNewlines converts the "\r\n" and "\r" line endings into "\n".
func normalizeNewlines(s string) string {
	if strings.IndexByte(s, '\r') < 0 {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// StripComments removes the line (//) and block (/* */) comments from the GLSL source.
// A block comment is replaced by a single space so that the tokens around it stay apart;
// the newlines it spans are kept to preserve the directive line boundaries.
// An unterminated block comment swallows the remainder of the source.
func StripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '/' || i+1 == len(src) {
			b.WriteByte(c)
			continue
		}
		switch src[i+1] {
		case '/':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return b.String()
			}
			i += end - 1
		case '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				end = len(src) - i - 2
			}
			b.WriteByte(' ')
			b.WriteString(strings.Repeat("\n", strings.Count(src[i+2:i+2+end], "\n")))
			i += end + 3
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

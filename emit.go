package shaderembed

import (
	"bytes"
	"fmt"
	"io"
)

// includeGuard is the directive heading the declarations artifact.
const includeGuard = "#pragma once\n\n"

// Unit is a processed shader ready to be embedded.
type Unit struct {
	// Name is the shader file name, e.g. "basic.frag".
	Name string
	// Path is the location where the shader has been discovered.
	Path string
	// Symbol is the name of the generated constant.
	Symbol string
	// Source is the minified shader source.
	Source string
}

// NewUnit creates a unit for the named shader, deriving its symbol from the file name.
func NewUnit(name, path, source string) Unit {
	return Unit{
		Name:   name,
		Path:   path,
		Symbol: SymbolName(name),
		Source: source,
	}
}

// Emitter generates the C definitions and declarations embedding the shader sources.
type Emitter struct {
	// Legacy escapes only the line breaks, leaving quotes and backslashes untouched.
	// Sources containing those characters then produce broken literals.
	Legacy bool
}

// Emit generates the definitions and the declarations with the default emitter.
func Emit(units []Unit) (defs, decls string) {
	var e Emitter
	return e.Emit(units)
}

// Emit returns the definitions and declarations text for the units, in the units order.
func (e *Emitter) Emit(units []Unit) (defs, decls string) {
	var d, h bytes.Buffer
	// Writing into a bytes.Buffer never fails.
	e.WriteDefinitions(&d, units)
	e.WriteDeclarations(&h, units)
	return d.String(), h.String()
}

// WriteDefinitions writes one constant definition per unit into w.
func (e *Emitter) WriteDefinitions(w io.Writer, units []Unit) (n int, err error) {
	var buf []byte
	for _, u := range units {
		buf = append(buf[:0], "const char *"...)
		buf = append(buf, u.Symbol...)
		buf = append(buf, " = \""...)
		buf = appendEscaped(buf, u.Source, e.Legacy)
		buf = append(buf, "\";\n"...)
		ngot, err := w.Write(buf)
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteDeclarations writes the include guard followed by one extern declaration per unit into w.
func (e *Emitter) WriteDeclarations(w io.Writer, units []Unit) (n int, err error) {
	n, err = io.WriteString(w, includeGuard)
	if err != nil {
		return n, err
	}
	for _, u := range units {
		ngot, err := fmt.Fprintf(w, "extern const char *%s;\n", u.Symbol)
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// GoEmitter generates a single Go source file holding the shader sources as string constants.
type GoEmitter struct {
	// Package is the package clause of the generated file.
	Package string
	// Legacy has the same meaning as for Emitter.
	Legacy bool
}

// WriteSource writes the Go file embedding the units into w.
func (g *GoEmitter) WriteSource(w io.Writer, units []Unit) (n int, err error) {
	n, err = fmt.Fprintf(w, "// Code generated by shaderembed. DO NOT EDIT.\n\npackage %s\n", g.Package)
	if err != nil {
		return n, err
	}
	var buf []byte
	for _, u := range units {
		buf = append(buf[:0], "\n// "...)
		buf = append(buf, u.Symbol...)
		buf = append(buf, " is the minified source of "...)
		buf = append(buf, u.Name...)
		buf = append(buf, ".\nconst "...)
		buf = append(buf, u.Symbol...)
		buf = append(buf, " = \""...)
		buf = appendEscaped(buf, u.Source, g.Legacy)
		buf = append(buf, "\"\n"...)
		ngot, err := w.Write(buf)
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// appendEscaped appends the source as the body of a double quoted string literal.
// Every line of the source is terminated by the two character sequence `\n`,
// the last one included, even if the source does not end with a line break.
func appendEscaped(dst []byte, src string, legacy bool) []byte {
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '\n':
			dst = append(dst, '\\', 'n')
		case '"', '\\':
			if !legacy {
				dst = append(dst, '\\')
			}
			dst = append(dst, c)
		default:
			dst = append(dst, c)
		}
	}
	if len(src) > 0 && src[len(src)-1] != '\n' {
		dst = append(dst, '\\', 'n')
	}
	return dst
}

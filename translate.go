package shaderembed

import (
	"context"
	"os"
	"strconv"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/pkg/errors"
)

// WGSLExt is the extension of the shaders translated in process, without the external tools.
const WGSLExt = ".wgsl"

// Translator is a Stage translating WGSL shaders straight into desktop GLSL.
type Translator struct {
	// Version is the GLSL version of the generated source.
	Version glsl.Version
	// EntryPoint selects the entry point to translate. The first one is used when empty.
	EntryPoint string
}

// Run translates the WGSL file at the in path and writes the GLSL source to the out path.
func (t Translator) Run(ctx context.Context, in, out string) error {
	src, err := os.ReadFile(in)
	if err != nil {
		return errors.Wrap(err, "unable to read the WGSL source")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ast, err := naga.Parse(string(src))
	if err != nil {
		return err
	}
	module, err := naga.LowerWithSource(ast, string(src))
	if err != nil {
		return err
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return err
	}
	if len(verrs) > 0 {
		return errors.Wrap(&verrs[0], "validation failed")
	}

	opts := glsl.DefaultOptions()
	if t.Version.Major != 0 {
		opts.LangVersion = t.Version
	}
	opts.EntryPoint = t.EntryPoint
	code, _, err := glsl.Compile(module, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(out, []byte(code), 0644)
}

// ParseGLSLVersion converts a version number as accepted by the "#version" directive,
// like "430" or "300 es", into a glsl.Version.
func ParseGLSLVersion(s string) (glsl.Version, error) {
	var v glsl.Version
	if n := len(s); n > 3 && s[n-3:] == " es" {
		v.ES = true
		s = s[:n-3]
	}
	num, err := strconv.Atoi(s)
	if err != nil || num < 100 || num > 999 {
		return glsl.Version{}, errors.Errorf("invalid GLSL version %q", s)
	}
	v.Major = uint8(num / 100)
	v.Minor = uint8(num % 100)
	return v, nil
}

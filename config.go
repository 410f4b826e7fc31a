package shaderembed

import (
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/esimov/shaderembed/utils"
	"github.com/gogpu/naga/glsl"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// MaxWorkers sets the maximum number of concurrently processed shaders.
const MaxWorkers = 20

// PipeName is the output file name that indicates stdout is being used.
const PipeName = "-"

// Placeholders substituted in the Command arguments.
const (
	InputPlaceholder  = "{in}"
	OutputPlaceholder = "{out}"
)

// Output formats.
const (
	FormatC  = "c"
	FormatGo = "go"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultExtensions are the shader file extensions picked up by default.
var DefaultExtensions = []string{".vert", ".frag", ".comp"}

// Config holds the pipeline options.
type Config struct {
	// ShaderDir is the directory where the shaders are looked up.
	ShaderDir string
	// SourceOut is the path of the definitions file (or the Go file).
	SourceOut string
	// HeaderOut is the path of the declarations file. It is skipped when empty.
	HeaderOut string
	// Extensions lists the recognized shader file extensions.
	Extensions []string
	// Recursive makes the discovery descend into the sub directories of ShaderDir.
	Recursive bool
	// Workers is the number of shaders processed concurrently.
	Workers int
	// Compiler optimizes the GLSL source into SPIR-V.
	Compiler Command
	// Decompiler turns the SPIR-V back into GLSL.
	Decompiler Command
	// Translator converts the WGSL shaders, which bypass the external tools.
	Translator Translator
	// SkipCompile minifies the shader sources as they are, without running the external tools.
	SkipCompile bool
	// StripComments removes the comments of the decompiled shaders before minifying.
	// Sources which skip the decompiler are always stripped.
	StripComments bool
	// Format selects the generated artifacts: FormatC or FormatGo.
	Format string
	// Package is the package clause used by FormatGo.
	Package string
	// Legacy escapes only the line breaks of the embedded sources.
	Legacy bool
}

// DefaultConfig returns the default configuration:
// glslang and spirv-cross targeting GLSL 430 core.
func DefaultConfig() Config {
	compiler, decompiler := GlslangPreset()
	return Config{
		ShaderDir:  "shaders",
		SourceOut:  filepath.Join("src", "shader_sources.c"),
		HeaderOut:  filepath.Join("src", "shader_sources.h"),
		Extensions: slices.Clone(DefaultExtensions),
		Workers:    runtime.NumCPU(),
		Compiler:   compiler,
		Decompiler: decompiler,
		Translator: Translator{Version: glsl.Version430},
		Format:     FormatC,
		Package:    "shaders",
	}
}

// GlslangPreset returns the glslang based compiler and the spirv-cross decompiler.
func GlslangPreset() (compiler, decompiler Command) {
	compiler = Command{
		Bin: "glslang",
		Args: []string{
			"-G100", "-Os",
			"-o", OutputPlaceholder, InputPlaceholder,
			"-P#extension GL_GOOGLE_include_directive : enable",
		},
	}
	return compiler, SpirvCross("430")
}

// GlslcPreset returns the shaderc glslc based compiler and the spirv-cross decompiler.
func GlslcPreset() (compiler, decompiler Command) {
	compiler = Command{
		Bin:  "glslc",
		Args: []string{"--target-env=opengl", "-O", "-o" + OutputPlaceholder, InputPlaceholder},
	}
	return compiler, SpirvCross("430")
}

// SpirvCross returns the decompiler emitting GLSL of the provided version.
// Versions carrying the " es" suffix, like "310 es", target OpenGL ES.
func SpirvCross(glslVersion string) Command {
	profile := "--no-es"
	if v, ok := strings.CutSuffix(glslVersion, " es"); ok {
		glslVersion, profile = v, "--es"
	}
	return Command{
		Bin:  "spirv-cross",
		Args: []string{"--version", glslVersion, profile, "--output", OutputPlaceholder, InputPlaceholder},
	}
}

// Validate checks the configuration and normalizes the number of workers.
func (c *Config) Validate() error {
	if c.ShaderDir == "" {
		return errors.Wrap(ErrInvalidConfig, "missing shader directory")
	}
	if c.SourceOut == "" {
		return errors.Wrap(ErrInvalidConfig, "missing source output")
	}
	if len(c.Extensions) == 0 {
		return errors.Wrap(ErrInvalidConfig, "no shader extension provided")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.Wrapf(ErrInvalidConfig, "malformed extension %q", ext)
		}
	}
	switch c.Format {
	case "", FormatC:
		c.Format = FormatC
	case FormatGo:
		if !token.IsIdentifier(c.Package) || c.Package == "_" {
			return errors.Wrapf(ErrInvalidConfig, "invalid package name %q", c.Package)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown output format %q", c.Format)
	}
	if c.SourceOut == PipeName && c.HeaderOut == PipeName && c.Format == FormatC {
		return errors.Wrap(ErrInvalidConfig, "only one of the outputs can be written to stdout")
	}
	if !c.SkipCompile {
		for _, cmd := range []Command{c.Compiler, c.Decompiler} {
			if err := cmd.validate(); err != nil {
				return err
			}
		}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	c.Workers = utils.Clamp(c.Workers, 1, MaxWorkers)
	return nil
}

// isShaderFile reports whether the file name ends with one of the recognized extensions.
// Multi-part extensions, like ".frag.glsl", are supported.
func (c *Config) isShaderFile(name string) bool {
	return slices.IndexFunc(c.Extensions, func(ext string) bool {
		return strings.HasSuffix(name, ext)
	}) >= 0
}

func (cmd Command) validate() error {
	if cmd.Bin == "" {
		return errors.Wrap(ErrInvalidConfig, "missing tool executable")
	}
	args := strings.Join(cmd.Args, " ")
	if !strings.Contains(args, InputPlaceholder) || !strings.Contains(args, OutputPlaceholder) {
		return errors.Wrapf(ErrInvalidConfig, "%s: arguments should reference both %s and %s",
			cmd.Bin, InputPlaceholder, OutputPlaceholder)
	}
	return nil
}

// resolveBin looks up bare executable names in the Vulkan SDK, when one is installed.
func resolveBin(bin string) string {
	sdk := os.Getenv("VULKAN_SDK")
	if sdk == "" || strings.ContainsRune(bin, filepath.Separator) || strings.ContainsRune(bin, '/') {
		return bin
	}
	path := filepath.Join(sdk, "bin", bin)
	if runtime.GOOS == "windows" && filepath.Ext(path) == "" {
		path += ".exe"
	}
	if _, err := os.Stat(path); err != nil {
		return bin
	}
	return path
}

package shaderembed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/esimov/shaderembed/utils"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// processShader runs the shader found at path through the configured stages and
// returns the unit holding its minified source. Every shader gets its own temporary
// directory, so that the stages of concurrent workers never share a file.
func (p *Pipeline) processShader(ctx context.Context, path string) (Unit, error) {
	name := filepath.Base(path)
	symbol := SymbolName(name)
	if !ValidSymbol(symbol) {
		return Unit{}, errors.Wrapf(ErrInvalidSymbol, "%s: %q", path, symbol)
	}

	// Only the decompiler output is known to be free of comments and indented directives.
	glslPath, decompiled := path, false
	if filepath.Ext(name) == WGSLExt || !p.cfg.SkipCompile {
		tmpDir, err := os.MkdirTemp("", "shaderembed-")
		if err != nil {
			return Unit{}, errors.Wrap(err, "unable to create the temporary directory")
		}
		defer os.RemoveAll(tmpDir)

		glslPath = filepath.Join(tmpDir, name+".glsl")
		if filepath.Ext(name) == WGSLExt {
			if err := p.Translator.Run(ctx, path, glslPath); err != nil {
				return Unit{}, errors.Wrapf(err, "unable to translate %s", path)
			}
		} else {
			spvPath := filepath.Join(tmpDir, name+".spv")
			if err := p.Compiler.Run(ctx, path, spvPath); err != nil {
				return Unit{}, errors.Wrapf(err, "unable to compile %s", path)
			}
			if err := p.Decompiler.Run(ctx, spvPath, glslPath); err != nil {
				return Unit{}, errors.Wrapf(err, "unable to decompile %s", path)
			}
			decompiled = true
		}
	}

	data, err := os.ReadFile(glslPath)
	if err != nil {
		return Unit{}, errors.Wrapf(err, "unable to read the GLSL source of %s", path)
	}
	if p.cfg.StripComments || !decompiled {
		data = []byte(StripComments(string(data)))
	}
	if !decompiled {
		data = []byte(UnindentDirectives(string(data)))
	}
	src, err := MinifyBytes(data)
	if err != nil {
		return Unit{}, errors.Wrapf(err, "%s", path)
	}
	return Unit{
		Name:   name,
		Path:   path,
		Symbol: symbol,
		Source: src,
	}, nil
}

// Render generates the artifacts content: the definitions (or the Go file) and the declarations.
// The declarations are nil for the Go format.
func (p *Pipeline) Render(units []Unit) (source, header []byte) {
	var src, hdr bytes.Buffer
	switch p.cfg.Format {
	case FormatGo:
		g := GoEmitter{Package: p.cfg.Package, Legacy: p.cfg.Legacy}
		g.WriteSource(&src, units)
		return src.Bytes(), nil
	default:
		e := Emitter{Legacy: p.cfg.Legacy}
		e.WriteDefinitions(&src, units)
		e.WriteDeclarations(&hdr, units)
		return src.Bytes(), hdr.Bytes()
	}
}

// WriteArtifacts renders the units and writes the generated files.
// Regular files are replaced atomically.
func (p *Pipeline) WriteArtifacts(units []Unit) error {
	source, header := p.Render(units)
	if err := p.writeOutput(p.cfg.SourceOut, source); err != nil {
		return err
	}
	if header == nil || p.cfg.HeaderOut == "" {
		return nil
	}
	return p.writeOutput(p.cfg.HeaderOut, header)
}

func (p *Pipeline) writeOutput(path string, data []byte) error {
	if path != PipeName {
		if err := utils.WriteFileAtomic(path, data, 0644); err != nil {
			return errors.Wrapf(err, "unable to write %s", path)
		}
		return nil
	}
	if f, ok := p.Stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errors.New("`-` should be used with a pipe for stdout")
	}
	_, err := p.Stdout.Write(data)
	return err
}

package shaderembed

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Pipeline discovers the shaders, runs them through the compiler, the decompiler and the minifier,
// then generates the artifacts embedding them.
type Pipeline struct {
	cfg Config

	// Compiler, Decompiler and Translator are the stages applied to every shader.
	// They default to the stages described by the configuration.
	Compiler   Stage
	Decompiler Stage
	Translator Stage

	// Log receives the diagnostics of the external tools.
	Log io.Writer
	// Stdout receives the artifacts written to the PipeName output.
	Stdout io.Writer
	// Progress is called after each shader has been processed. It must be safe for concurrent use.
	Progress func(path string, err error)
}

// Result holds the relevant information about a completed run.
type Result struct {
	// Units are the processed shaders, in emission order.
	Units   []Unit
	Elapsed time.Duration
}

// result holds the outcome of a single shader processing.
type result struct {
	path string
	unit Unit
	err  error
}

// NewPipeline creates a pipeline using the stages and outputs described by cfg.
func NewPipeline(cfg Config) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		Log:    os.Stderr,
		Stdout: os.Stdout,
	}
	// The tools output is forwarded to whatever Log points to at run time.
	log := &syncWriter{w: &p.Log}
	cfg.Compiler.Output = log
	cfg.Decompiler.Output = log

	p.Compiler = cfg.Compiler
	p.Decompiler = cfg.Decompiler
	p.Translator = cfg.Translator
	return p
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Run processes every discovered shader and writes the artifacts.
// The run is aborted on the first failure, in which case no artifact is written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	now := time.Now()
	units, err := p.Process(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.WriteArtifacts(units); err != nil {
		return nil, err
	}
	return &Result{Units: units, Elapsed: time.Since(now)}, nil
}

// Process runs the stages over the discovered shaders concurrently and returns the
// resulting units sorted by file name. It returns the first encountered error.
func (p *Pipeline) Process(ctx context.Context) ([]Unit, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paths, errc := walkDir(ctx, p.cfg.ShaderDir, p.cfg.Recursive, p.cfg.isShaderFile)

	ch := make(chan result)
	var wg sync.WaitGroup
	wg.Add(p.cfg.Workers)
	for i := 0; i < p.cfg.Workers; i++ {
		go func() {
			defer wg.Done()
			p.consumer(ctx, paths, ch)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var (
		units    []Unit
		firstErr error
	)
	for res := range ch {
		if p.Progress != nil {
			p.Progress(res.path, res.err)
		}
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		units = append(units, res.unit)
	}
	if err := <-errc; err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "unable to read the shader directory")
	}
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(units, func(i, j int) bool {
		if units[i].Name != units[j].Name {
			return units[i].Name < units[j].Name
		}
		return units[i].Path < units[j].Path
	})
	seen := make(map[string]string, len(units))
	for _, u := range units {
		if prev, ok := seen[u.Symbol]; ok {
			return nil, errors.Wrapf(ErrSymbolCollision, "%s: %s and %s", u.Symbol, prev, u.Path)
		}
		seen[u.Symbol] = u.Path
	}
	return units, nil
}

// consumer reads the path names from the paths channel and processes the shaders,
// sending the results on the res channel. Once the context is cancelled the
// remaining paths are drained without being processed.
func (p *Pipeline) consumer(ctx context.Context, paths <-chan string, res chan<- result) {
	for path := range paths {
		if ctx.Err() != nil {
			continue
		}
		unit, err := p.processShader(ctx, path)
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			// Another worker failed first.
			continue
		}
		res <- result{path: path, unit: unit, err: err}
	}
}

// walkDir starts a new goroutine to walk the shader directory and sends the path
// of each matching regular file to a new channel. Sub directories are visited only
// in recursive mode. It finishes once the context is cancelled.
func walkDir(
	ctx context.Context,
	src string,
	recursive bool,
	match func(name string) bool,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != src && !recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if !match(d.Name()) || !isRegular(path, d) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isRegular reports whether the entry is a regular file, following symbolic links.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

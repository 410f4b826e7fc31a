package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/esimov/shaderembed"
	"github.com/esimov/shaderembed/utils"
)

const HelpBanner = `
┌─┐┬ ┬┌─┐┌┬┐┌─┐┬─┐┌─┐┌┬┐┌┐ ┌─┐┌┬┐
└─┐├─┤├─┤ ││├┤ ├┬┘├┤ │││├┴┐├┤  ││
└─┘┴ ┴┴ ┴─┴┘└─┘┴└─└─┘┴ ┴└─┘└─┘─┴┘

Embeds optimized and minified GLSL shaders into C or Go sources.
    Version: %s

`

// Version indicates the current build version.
var Version string

var (
	// Flags
	source        = flag.String("in", "shaders", "Shader source directory")
	srcOut        = flag.String("src", filepath.Join("src", "shader_sources.c"), "Generated definitions file (`-` for stdout)")
	headerOut     = flag.String("header", filepath.Join("src", "shader_sources.h"), "Generated declarations file (empty to skip)")
	extensions    = flag.String("ext", strings.Join(shaderembed.DefaultExtensions, ","), "Comma separated shader file extensions")
	recursive     = flag.Bool("r", false, "Walk the sub directories of the shader directory")
	workers       = flag.Int("conc", runtime.NumCPU(), "Number of shaders to process concurrently")
	preset        = flag.String("preset", "glslang", "Compiler preset: glslang or glslc")
	compilerBin   = flag.String("compiler", "", "Override the compiler executable")
	decompilerBin = flag.String("decompiler", "", "Override the decompiler executable")
	glslVersion   = flag.String("glsl-version", "430", "GLSL version of the decompiled shaders")
	skipCompile   = flag.Bool("skip-compile", false, "Minify the sources without running the external tools")
	stripComments = flag.Bool("strip-comments", false, "Remove comments from the decompiled shaders before minifying")
	format        = flag.String("format", shaderembed.FormatC, "Output format: c or go")
	pkgName       = flag.String("pkg", "shaders", "Package name of the generated Go file")
	legacy        = flag.Bool("legacy-escape", false, "Escape only the line breaks of the embedded sources")
	version       = flag.Bool("version", false, "Print the version")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Printf("shaderembed version %s\n", Version)
		return
	}

	cfg, err := buildConfig()
	if err != nil {
		flag.Usage()
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	spinner := utils.NewSpinner(fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ SHADEREMBED", utils.StatusMessage),
		utils.DecorateText("⇢ processing shaders...", utils.DefaultMessage),
	), time.Millisecond*80)

	// Capture CTRL-C signal and cancel the running tools.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var done atomic.Int64
	pipeline := shaderembed.NewPipeline(cfg)
	pipeline.Progress = func(path string, err error) {
		if err == nil {
			spinner.SetMessage(fmt.Sprintf("%s %s",
				utils.DecorateText("⚡ SHADEREMBED", utils.StatusMessage),
				utils.DecorateText(fmt.Sprintf("⇢ %d shaders processed, last: %s", done.Add(1), filepath.Base(path)), utils.DefaultMessage),
			))
		}
	}

	spinner.Start()
	res, err := pipeline.Run(ctx)
	if err != nil {
		spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ SHADEREMBED", utils.StatusMessage),
			utils.DecorateText("embedding shaders failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
		spinner.Stop()
		log.Fatalf(
			utils.DecorateText("\nError embedding the shaders: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
	}
	spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
		utils.DecorateText("⚡ SHADEREMBED", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText(fmt.Sprintf("%d shaders embedded successfully ✔", len(res.Units)), utils.SuccessMessage),
	)
	spinner.Stop()
	printStatus(cfg)

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(res.Elapsed), utils.SuccessMessage))
}

// buildConfig converts the command line flags into the pipeline configuration.
func buildConfig() (shaderembed.Config, error) {
	cfg := shaderembed.DefaultConfig()
	cfg.ShaderDir = *source
	cfg.SourceOut = *srcOut
	cfg.HeaderOut = *headerOut
	cfg.Recursive = *recursive
	cfg.Workers = *workers
	cfg.SkipCompile = *skipCompile
	cfg.StripComments = *stripComments
	cfg.Format = *format
	cfg.Package = *pkgName
	cfg.Legacy = *legacy

	cfg.Extensions = cfg.Extensions[:0]
	for _, ext := range strings.Split(*extensions, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			cfg.Extensions = append(cfg.Extensions, ext)
		}
	}

	switch *preset {
	case "glslang":
		cfg.Compiler, cfg.Decompiler = shaderembed.GlslangPreset()
	case "glslc":
		cfg.Compiler, cfg.Decompiler = shaderembed.GlslcPreset()
	default:
		return cfg, fmt.Errorf("unknown compiler preset %q", *preset)
	}

	tv, err := shaderembed.ParseGLSLVersion(*glslVersion)
	if err != nil {
		return cfg, err
	}
	cfg.Translator.Version = tv
	cfg.Decompiler = shaderembed.SpirvCross(*glslVersion)

	if *compilerBin != "" {
		cfg.Compiler.Bin = *compilerBin
	}
	if *decompilerBin != "" {
		cfg.Decompiler.Bin = *decompilerBin
	}
	return cfg, cfg.Validate()
}

// printStatus displays the generated files.
func printStatus(cfg shaderembed.Config) {
	outputs := []string{cfg.SourceOut}
	if cfg.Format == shaderembed.FormatC && cfg.HeaderOut != "" {
		outputs = append(outputs, cfg.HeaderOut)
	}
	for _, out := range outputs {
		if out == shaderembed.PipeName {
			continue
		}
		fmt.Fprintf(os.Stderr, "The generated source has been saved as: %s\n",
			utils.DecorateText(out, utils.SuccessMessage),
		)
	}
}

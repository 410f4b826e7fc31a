//go:build mage

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/esimov/shaderembed"
	"github.com/esimov/shaderembed/utils"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace

// Shaders regenerates the embedded shader sources of the host application.
// The SHADER_DIR, SHADER_SRC and SHADER_HEADER environment variables override the default locations.
func (Build) Shaders(ctx context.Context) error {
	cfg := shaderembed.DefaultConfig()
	if dir := os.Getenv("SHADER_DIR"); dir != "" {
		cfg.ShaderDir = dir
	}
	if src := os.Getenv("SHADER_SRC"); src != "" {
		cfg.SourceOut = src
	}
	if hdr := os.Getenv("SHADER_HEADER"); hdr != "" {
		cfg.HeaderOut = hdr
	}
	if mg.Verbose() {
		fmt.Printf("Embedding shaders from %s...\n", cfg.ShaderDir)
	}

	res, err := shaderembed.NewPipeline(cfg).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d shaders embedded in %s\n", len(res.Units), utils.FormatTime(res.Elapsed))
	return nil
}

// Cli installs the shaderembed command.
func (Build) Cli() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/shaderembed")
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

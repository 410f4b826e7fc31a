/*
Package shaderembed is a build time shader pipeline, which optimizes GLSL shaders and embeds
their minified sources into generated C (or Go) files, ready to be statically linked into the host application.

Every shader found in the source directory is compiled to SPIR-V by an optimizing compiler (glslang or glslc),
decompiled back to GLSL by spirv-cross, then minified. The result is a definitions file holding one
string constant per shader and a header declaring them:

	const char *BASIC_FRAG_SRC = "#version 430\nlayout(location=0)out vec4 color;void main(){color=vec4(1.0);}\n";

	extern const char *BASIC_FRAG_SRC;

The package provides a command line interface. To check the supported flags type:

	$ shaderembed --help

In case you wish to run the pipeline from your own build tool, here is a simple example:

	package main

	import (
		"context"
		"log"

		"github.com/esimov/shaderembed"
	)

	func main() {
		cfg := shaderembed.DefaultConfig()
		cfg.ShaderDir = "assets/shaders"

		if _, err := shaderembed.NewPipeline(cfg).Run(context.Background()); err != nil {
			log.Fatalf("Error embedding shaders: %v", err)
		}
	}
*/
package shaderembed

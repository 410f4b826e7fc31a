package shaderembed

import (
	"runtime"
	"testing"

	"github.com/esimov/shaderembed/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultShouldBeValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, FormatC, cfg.Format)
	assert.Equal(t, utils.Clamp(runtime.NumCPU(), 1, MaxWorkers), cfg.Workers)
	assert.Equal(t, []string{".vert", ".frag", ".comp"}, cfg.Extensions)
	assert.Equal(t, "glslang", cfg.Compiler.Bin)
	assert.Equal(t, "spirv-cross", cfg.Decompiler.Bin)
}

func TestConfig_DefaultExtensionsShouldNotBeShared(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extensions[0] = ".wgsl"
	assert.Equal(t, ".vert", DefaultExtensions[0])
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{name: "default", modify: func(c *Config) {}, valid: true},
		{name: "missing shader dir", modify: func(c *Config) { c.ShaderDir = "" }},
		{name: "missing source output", modify: func(c *Config) { c.SourceOut = "" }},
		{name: "missing header output", modify: func(c *Config) { c.HeaderOut = "" }, valid: true},
		{name: "no extensions", modify: func(c *Config) { c.Extensions = nil }},
		{name: "extension without dot", modify: func(c *Config) { c.Extensions = []string{"frag"} }},
		{name: "bare dot extension", modify: func(c *Config) { c.Extensions = []string{"."} }},
		{name: "unknown format", modify: func(c *Config) { c.Format = "rust" }},
		{name: "empty format", modify: func(c *Config) { c.Format = "" }, valid: true},
		{name: "go format", modify: func(c *Config) { c.Format = FormatGo }, valid: true},
		{name: "invalid package", modify: func(c *Config) { c.Format, c.Package = FormatGo, "my-shaders" }},
		{name: "blank package", modify: func(c *Config) { c.Format, c.Package = FormatGo, "_" }},
		{name: "both outputs on stdout", modify: func(c *Config) { c.SourceOut, c.HeaderOut = PipeName, PipeName }},
		{name: "single output on stdout", modify: func(c *Config) { c.SourceOut, c.HeaderOut = PipeName, "" }, valid: true},
		{name: "go format on stdout", modify: func(c *Config) {
			c.Format, c.SourceOut, c.HeaderOut = FormatGo, PipeName, PipeName
		}, valid: true},
		{name: "missing compiler", modify: func(c *Config) { c.Compiler.Bin = "" }},
		{name: "missing placeholder", modify: func(c *Config) { c.Decompiler.Args = []string{"--output", "{out}"} }},
		{name: "skip compile ignores tools", modify: func(c *Config) {
			c.SkipCompile = true
			c.Compiler = Command{}
		}, valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_ValidateShouldClampWorkers(t *testing.T) {
	testCases := map[int]int{
		-3:  utils.Clamp(runtime.NumCPU(), 1, MaxWorkers),
		0:   utils.Clamp(runtime.NumCPU(), 1, MaxWorkers),
		1:   1,
		5:   5,
		100: MaxWorkers,
	}
	for workers, want := range testCases {
		cfg := DefaultConfig()
		cfg.Workers = workers
		require.NoError(t, cfg.Validate())
		assert.Equal(t, want, cfg.Workers, "workers: %d", workers)
	}
}

func TestConfig_Presets(t *testing.T) {
	assert := assert.New(t)

	compiler, decompiler := GlslangPreset()
	assert.Equal([]string{
		"-G100", "-Os", "-o", "/tmp/a.spv", "shaders/a.frag",
		"-P#extension GL_GOOGLE_include_directive : enable",
	}, compiler.expandArgs("shaders/a.frag", "/tmp/a.spv"))
	assert.Equal([]string{"--version", "430", "--no-es", "--output", "a.glsl", "a.spv"},
		decompiler.expandArgs("a.spv", "a.glsl"))

	compiler, _ = GlslcPreset()
	assert.Equal("glslc", compiler.Bin)
	assert.Equal([]string{"--target-env=opengl", "-O", "-oa.spv", "a.frag"},
		compiler.expandArgs("a.frag", "a.spv"))

	es := SpirvCross("310 es")
	assert.Equal([]string{"--version", "310", "--es", "--output", "{out}", "{in}"}, es.Args)
}

func TestConfig_IsShaderFile(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.isShaderFile("basic.frag"))
	assert.True(t, cfg.isShaderFile("sdf.comp"))
	assert.False(t, cfg.isShaderFile("basic.frag.bak"))
	assert.False(t, cfg.isShaderFile("README.md"))
	assert.False(t, cfg.isShaderFile("frag"))
}

func TestConfig_IsShaderFileShouldMatchMultiPartExtensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extensions = []string{".frag.glsl", ".comp"}
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.isShaderFile("blur.frag.glsl"))
	assert.True(t, cfg.isShaderFile("sdf.comp"))
	assert.False(t, cfg.isShaderFile("blur.glsl"))
	assert.False(t, cfg.isShaderFile("blur.frag"))
}

func TestResolveBin_ShouldLookupVulkanSDK(t *testing.T) {
	sdk := t.TempDir()
	t.Setenv("VULKAN_SDK", sdk)

	// Missing from the SDK: the name is kept for the PATH lookup.
	assert.Equal(t, "spirv-cross", resolveBin("spirv-cross"))
	assert.Equal(t, "/usr/bin/spirv-cross", resolveBin("/usr/bin/spirv-cross"))

	t.Setenv("VULKAN_SDK", "")
	assert.Equal(t, "glslang", resolveBin("glslang"))
}

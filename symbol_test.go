package shaderembed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolName_ShouldDeriveConstantName(t *testing.T) {
	testCases := map[string]string{
		"basic.frag":        "BASIC_FRAG_SRC",
		"compute_sdf.comp":  "COMPUTE_SDF_COMP_SRC",
		"raymarch.vert":     "RAYMARCH_VERT_SRC",
		"skybox.main.frag":  "SKYBOX_MAIN_FRAG_SRC",
		"CamelCase.Vert":    "CAMELCASE_VERT_SRC",
		"noextension":       "NOEXTENSION_SRC",
		"terrain.frag.wgsl": "TERRAIN_FRAG_WGSL_SRC",
	}
	for name, want := range testCases {
		assert.Equal(t, want, SymbolName(name), name)
	}
}

func TestSymbolName_CaseOnlyDifferencesCollide(t *testing.T) {
	assert.Equal(t, SymbolName("Blur.frag"), SymbolName("blur.frag"))
	assert.Equal(t, SymbolName("blur_h.frag"), SymbolName("blur.h.frag"))
}

func TestValidSymbol(t *testing.T) {
	assert := assert.New(t)

	assert.True(ValidSymbol("BASIC_FRAG_SRC"))
	assert.True(ValidSymbol("_X1"))
	assert.False(ValidSymbol(""))
	assert.False(ValidSymbol("2D_FRAG_SRC"))
	assert.False(ValidSymbol("MY-SHADER_FRAG_SRC"))
	assert.False(ValidSymbol("MY SHADER_FRAG_SRC"))
	assert.False(ValidSymbol("ÜBER_FRAG_SRC"))
}

package shaderembed

import (
	"strings"

	"github.com/pkg/errors"
)

// SymbolSuffix is appended to every derived symbol name.
const SymbolSuffix = "_SRC"

var (
	// ErrInvalidSymbol is returned when a shader file name does not map to a valid C identifier.
	ErrInvalidSymbol = errors.New("derived symbol is not a valid identifier")
	// ErrSymbolCollision is returned when two shader files derive the same symbol name.
	ErrSymbolCollision = errors.New("derived symbol already in use")
)

// SymbolName maps a shader file name to the name of its generated constant,
// e.g. "basic.frag" becomes "BASIC_FRAG_SRC".
func SymbolName(filename string) string {
	return strings.ToUpper(strings.ReplaceAll(filename, ".", "_")) + SymbolSuffix
}

// ValidSymbol reports whether the symbol is usable as an identifier in the generated sources:
// it has to consist of ASCII letters, digits and underscores and must not start with a digit.
func ValidSymbol(symbol string) bool {
	if symbol == "" {
		return false
	}
	for i := 0; i < len(symbol); i++ {
		c := symbol[i]
		switch {
		case c == '_', 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

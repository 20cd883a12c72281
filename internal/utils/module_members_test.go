package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleMemberFallbackName(t *testing.T) {
	assert.Equal(t, "stringToUpper", ModuleMemberFallbackName("string", "toUpper"))
	assert.Equal(t, "mathSqrt", ModuleMemberFallbackName("math", "sqrt"))
	assert.Equal(t, "", ModuleMemberFallbackName("", "toUpper"))
	assert.Equal(t, "", ModuleMemberFallbackName("string", ""))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveImportPath(t *testing.T) {
	assert.Equal(t, "lib/strings.fgast", ResolveImportPath("lib", "./strings.fgast"))
	assert.Equal(t, "./strings.fgast", ResolveImportPath(".", "./strings.fgast"))
	assert.Equal(t, "./strings.fgast", ResolveImportPath("", "./strings.fgast"))
	assert.Equal(t, "forge.math", ResolveImportPath("lib", "forge.math"))
}

func TestExtractModuleName(t *testing.T) {
	assert.Equal(t, "strings", ExtractModuleName("lib/strings.fgast"))
	assert.Equal(t, "strings", ExtractModuleName("strings.fgjson"))
	assert.Equal(t, "readme.txt", ExtractModuleName("readme.txt"))
}

func TestGetModuleDir(t *testing.T) {
	assert.Equal(t, "lib", GetModuleDir("lib/strings.fgast"))
	assert.Equal(t, "lib/strings", GetModuleDir("lib/strings"))
}

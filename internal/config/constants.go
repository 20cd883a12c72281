package config

// Version is the current Forge interpreter version.
var Version = "0.1.0"

// SourceFileExt is the on-disk suffix for a pre-parsed module program
// (spec §4.3's module loader never lexes/parses — it reads an
// already-built ast.Program handed to it by the host, typically
// JSON-decoded from one of these files).
const SourceFileExt = ".fgast"

// SourceFileExtensions are all recognized source program extensions.
var SourceFileExtensions = []string{".fgast", ".fgjson"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates if the program is running in test mode. It
// defaults to false; cmd/forge has no test subcommand and never sets it.
var IsTestMode = false

// Built-in trait and method names
const (
	IterTraitName  = "Iter"
	IterMethodName = "iter"
)

// EntryFuncName is the function every run invokes after registering
// top-level declarations (spec §6 "Entry point").
const EntryFuncName = "apex"

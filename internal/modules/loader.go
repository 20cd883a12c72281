package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/values"
)

// ProgramSource loads and decodes one module source file's already-
// parsed tree. spec.md places lexing/parsing out of scope for the
// Evaluator, so the host supplies the parsed program here — in
// practice a JSON-decoded ast.Program sitting next to a manifest on
// disk, mirroring how cmd/forge itself receives its entry program.
type ProgramSource func(path string) (*ast.Program, error)

// RunProgram evaluates a module's top-level declarations against a
// fresh frame sharing the host Evaluator's schema registry,
// scheduler, and built-ins, returning the bindings visible to an
// importer. The runtime package supplies this as a closure over its
// own *eval.Evaluator so this package never imports internal/eval.
type RunProgram func(prog *ast.Program) (map[string]values.Value, error)

// Loader implements eval.ModuleLoader (spec §4.3 "Module & binding
// loader"): built-in path first, then a source-directory search, then
// an export-manifest fallback to native/managed bindings, and
// finally a failing stub — caching every resolution by dotted path
// and rejecting import cycles.
type Loader struct {
	Builtins   map[string]values.Module
	SourceDirs []string
	ReadSource ProgramSource
	Run        RunProgram

	mu      sync.Mutex
	cache   map[string]values.Value
	loading map[string]bool
}

func NewLoader(builtins map[string]values.Module, sourceDirs []string, read ProgramSource, run RunProgram) *Loader {
	return &Loader{
		Builtins:   builtins,
		SourceDirs: sourceDirs,
		ReadSource: read,
		Run:        run,
		cache:      make(map[string]values.Value),
		loading:    make(map[string]bool),
	}
}

// SourceFileExt is the on-disk suffix for an already-parsed module
// program (see ProgramSource).
const SourceFileExt = ".fgast"

// ManifestExt is the on-disk suffix for an export manifest (spec §6
// "Export manifest format").
const ManifestExt = ".manifest.yaml"

func (l *Loader) Resolve(path []string) (values.Value, error) {
	key := strings.Join(path, ".")

	l.mu.Lock()
	if v, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return v, nil
	}
	if l.loading[key] {
		l.mu.Unlock()
		return nil, fmt.Errorf("circular import: %s", key)
	}
	l.mu.Unlock()

	if mod, ok := l.Builtins[key]; ok {
		l.store(key, mod)
		return mod, nil
	}

	l.mu.Lock()
	l.loading[key] = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		delete(l.loading, key)
		l.mu.Unlock()
	}()

	v, found, err := l.loadSource(path)
	if err != nil {
		return nil, err
	}
	if !found {
		v, found, err = l.loadManifest(path)
		if err != nil {
			return nil, err
		}
	}
	if !found {
		v = stubModule(key)
	}
	l.store(key, v)
	return v, nil
}

func (l *Loader) store(key string, v values.Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[key] = v
}

// loadSource searches SourceDirs for a file matching the dotted
// import path and, when found, evaluates it into a Module (spec §4.3
// rule 2).
func (l *Loader) loadSource(path []string) (values.Value, bool, error) {
	if l.ReadSource == nil || l.Run == nil {
		return nil, false, nil
	}
	rel := filepath.Join(path...) + SourceFileExt
	for _, dir := range l.SourceDirs {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		prog, err := l.ReadSource(candidate)
		if err != nil {
			return nil, true, fmt.Errorf("load module %s: %w", candidate, err)
		}
		fields, err := l.Run(prog)
		if err != nil {
			return nil, true, fmt.Errorf("evaluate module %s: %w", candidate, err)
		}
		mod := values.Module{Name: path[len(path)-1], Fields: fields}
		return mod, true, nil
	}
	return nil, false, nil
}

// loadManifest searches SourceDirs for an export manifest describing
// the package and binds its native/managed exports (spec §4.3 rule
// 3).
func (l *Loader) loadManifest(path []string) (values.Value, bool, error) {
	rel := filepath.Join(path...) + ManifestExt
	for _, dir := range l.SourceDirs {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		m, err := loadManifestFile(candidate)
		if err != nil {
			return nil, true, err
		}
		fields := make(map[string]values.Value)
		if m.hasRuntime("native") && m.NativeLib != "" {
			native, err := loadNative(resolveLibPath(dir, m.NativeLib), m.Exports)
			if err != nil {
				return nil, true, err
			}
			for k, v := range native {
				fields[k] = v
			}
		}
		if m.hasRuntime("java") && m.ManagedLib != "" {
			managed, err := loadManaged(resolveLibPath(dir, m.ManagedLib), m.Exports)
			if err != nil {
				return nil, true, err
			}
			for k, v := range managed {
				if _, exists := fields[k]; !exists {
					fields[k] = v
				}
			}
		}
		name := path[len(path)-1]
		if m.Package != "" {
			name = m.Package
		}
		return values.Module{Name: name, Fields: fields}, true, nil
	}
	return nil, false, nil
}

func resolveLibPath(dir, lib string) string {
	if filepath.IsAbs(lib) {
		return lib
	}
	return filepath.Join(dir, lib)
}

// stubModule backs an import path that resolved to neither a
// built-in, a source file, nor a manifest. The stub is an empty
// Module with no placeholder operations: every member access fails
// with the evaluator's ordinary "module has no member" error, not a
// stub-specific one.
func stubModule(key string) values.Module {
	return values.Module{Name: key, Fields: map[string]values.Value{}}
}

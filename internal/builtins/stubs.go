package builtins

import "github.com/forgelang/forge/internal/values"

// registerStubs wires the standard modules spec §6 lists but whose
// concrete operations are explicitly out of scope here (CLI/web/LSP/
// Android/GUI surfaces, plain filesystem access): each gets one
// operation that fails descriptively, per spec §6 "any operation not
// explicitly listed may be stubbed with a failing implementation".
func (r *Registry) registerStubs() {
	stub := func(module string) {
		r.def(module, "unsupported", func(_ values.Invoker, _ []values.Value) (values.Value, error) {
			return nil, values.NewRuntimeError("%s: not supported by this host", module)
		})
	}
	stub("ui")
	stub("android")
	stub("web")
	stub("gui")
	stub("fs")
}

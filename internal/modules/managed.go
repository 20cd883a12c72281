package modules

import (
	"fmt"

	"github.com/forgelang/forge/internal/values"
)

// loadManaged binds each manifest export with a declared managed
// class to a ManagedBinding. No JVM bridge library appears anywhere
// in the example pack (the teacher's own managed-runtime support is
// the LSP/Android surface spec.md places out of scope), so there is
// no real invocation shim to wire here; every ManagedBinding.Call
// fails with a dedicated error instead, matching spec §4.3's "if
// neither works, stub with placeholder operations that fail on
// invocation" for the managed half specifically.
func loadManaged(libPath string, exports []ExportRecord) (map[string]values.Value, error) {
	out := make(map[string]values.Value, len(exports))
	for _, rec := range exports {
		if rec.ManagedName == "" {
			continue
		}
		params, ret, err := parseSignature(rec.Signature)
		if err != nil {
			return nil, err
		}
		class, method := rec.ManagedName, rec.Name
		out[rec.Name] = values.ManagedBinding{
			Class:  class,
			Method: method,
			Params: params,
			Return: ret,
			Call: func(args []values.Value) (values.Value, error) {
				return nil, fmt.Errorf("managed runtime invocation unavailable: %s.%s (library %s)", class, method, libPath)
			},
		}
	}
	return out, nil
}

package guest

import (
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/loomui/celbridge/errors"
)

// Lifecycle export names. Underscore aliases cover toolchains that cannot
// emit hyphenated export names.
const (
	ExportConnected        = "connected"
	ExportDisconnected     = "disconnected"
	ExportAdopted          = "adopted"
	ExportAttributeChanged = "attribute-changed"
	ExportObservedAttrs    = "observed-attributes"
	ExportObservedAttrsLen = "observed-attributes-len"
)

// contractFunc describes one required export with its WIT-typed signature.
type contractFunc struct {
	name    string
	params  []wit.Type
	results []wit.Type
}

// contract is the full export surface a guest module must provide.
var contract = []contractFunc{
	{
		name:    ExportConnected,
		params:  []wit.Type{wit.U32{}},
		results: []wit.Type{wit.U32{}},
	},
	{
		name:   ExportDisconnected,
		params: []wit.Type{wit.U32{}, wit.U32{}},
	},
	{
		name:   ExportAdopted,
		params: []wit.Type{wit.U32{}},
	},
	{
		name:   ExportAttributeChanged,
		params: []wit.Type{wit.U32{}, wit.U32{}},
	},
	{
		name:    ExportObservedAttrs,
		results: []wit.Type{wit.U32{}},
	},
	{
		name:    ExportObservedAttrsLen,
		results: []wit.Type{wit.U32{}},
	},
}

// witValueType lowers a WIT type to its core value type. The contract only
// uses types that lower to a single i32/i64.
func witValueType(t wit.Type) api.ValueType {
	switch t.(type) {
	case wit.U64, wit.S64:
		return api.ValueTypeI64
	case wit.F32:
		return api.ValueTypeF32
	case wit.F64:
		return api.ValueTypeF64
	default:
		return api.ValueTypeI32
	}
}

func witTypeStr(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.String:
		return "string"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func witSignature(params, results []wit.Type) string {
	ps := make([]string, len(params))
	for i, p := range params {
		ps[i] = witTypeStr(p)
	}
	rs := make([]string, len(results))
	for i, r := range results {
		rs[i] = witTypeStr(r)
	}
	sig := "(" + strings.Join(ps, ", ") + ")"
	if len(rs) > 0 {
		sig += " -> " + strings.Join(rs, ", ")
	}
	return sig
}

func coreSignature(params, results []api.ValueType) string {
	name := func(v api.ValueType) string {
		switch v {
		case api.ValueTypeI32:
			return "i32"
		case api.ValueTypeI64:
			return "i64"
		case api.ValueTypeF32:
			return "f32"
		case api.ValueTypeF64:
			return "f64"
		default:
			return "?"
		}
	}
	ps := make([]string, len(params))
	for i, p := range params {
		ps[i] = name(p)
	}
	rs := make([]string, len(results))
	for i, r := range results {
		rs[i] = name(r)
	}
	sig := "(" + strings.Join(ps, ", ") + ")"
	if len(rs) > 0 {
		sig += " -> " + strings.Join(rs, ", ")
	}
	return sig
}

// checkSignature validates one export's core types against the contract's
// WIT signature.
func checkSignature(fn contractFunc, params, results []api.ValueType) error {
	ok := len(params) == len(fn.params) && len(results) == len(fn.results)
	if ok {
		for i, p := range fn.params {
			if params[i] != witValueType(p) {
				ok = false
				break
			}
		}
	}
	if ok {
		for i, r := range fn.results {
			if results[i] != witValueType(r) {
				ok = false
				break
			}
		}
	}
	if !ok {
		return errors.TypeMismatch(fn.name,
			witSignature(fn.params, fn.results),
			coreSignature(params, results))
	}
	return nil
}

// resolveExports validates the compiled module against the contract and
// returns the concrete export name chosen for each contract function.
func resolveExports(compiled wazero.CompiledModule) (map[string]string, error) {
	defs := compiled.ExportedFunctions()
	resolved := make(map[string]string, len(contract))

	for _, fn := range contract {
		def, name := findExport(defs, fn)
		if def == nil {
			return nil, errors.MissingExport(fn.name)
		}
		if err := checkSignature(fn, def.ParamTypes(), def.ResultTypes()); err != nil {
			return nil, err
		}
		resolved[fn.name] = name
	}
	return resolved, nil
}

func findExport(defs map[string]api.FunctionDefinition, fn contractFunc) (api.FunctionDefinition, string) {
	if def, ok := defs[fn.name]; ok {
		return def, fn.name
	}
	// Underscore spellings are interchangeable for every contract name.
	alt := strings.ReplaceAll(fn.name, "-", "_")
	if def, ok := defs[alt]; ok {
		return def, alt
	}
	return nil, ""
}

package guest

import (
	"context"
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	celbridge "github.com/loomui/celbridge"
	"github.com/loomui/celbridge/errors"
	"github.com/loomui/celbridge/handle"
)

// HostModule is the import namespace the loader provides to guests.
const HostModule = "celbridge"

// Options configures guest loading.
type Options struct {
	// Logger receives guest log lines and load tracing. Nop by default.
	Logger *zap.Logger

	// MemoryLimitPages caps guest memory in 64KB pages. 0 means the
	// wazero default.
	MemoryLimitPages uint32
}

// Guest is a WASM-backed Implementation. One Guest instance backs every
// element of the classes defined from it; per-element state lives inside
// guest memory behind the handles the guest returns.
//
// Guest is not safe for concurrent use, matching the single-threaded
// dispatch model.
type Guest struct {
	runtime  wazero.Runtime
	module   api.Module
	logger   *zap.Logger
	observed []string

	// elems names elements to the guest by u32 id for the duration the
	// guest needs them.
	elems *handle.Table[celbridge.Element]
	ids   map[string]handle.Handle

	connected   api.Function
	disconnect  api.Function
	adopted     api.Function
	attrChanged api.Function
}

// Load compiles and instantiates a guest module, validates its lifecycle
// export contract, and reads the observed-attribute list. Contract
// violations fail here, not at first dispatch.
func Load(ctx context.Context, wasmBytes []byte, opts Options) (*Guest, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := wazero.NewRuntimeConfig()
	if opts.MemoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(opts.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, cfg)

	g := &Guest{
		runtime: r,
		logger:  logger,
		elems:   handle.NewTable[celbridge.Element](),
		ids:     make(map[string]handle.Handle),
	}

	if err := g.instantiateHostModule(ctx); err != nil {
		r.Close(ctx)
		return nil, errors.Load("instantiate host module", err)
	}

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		r.Close(ctx)
		return nil, errors.Load("compile guest module", err)
	}

	resolved, err := resolveExports(compiled)
	if err != nil {
		r.Close(ctx)
		return nil, err
	}

	// Reactor-style instantiation: no start function, explicit
	// _initialize when the toolchain emits one.
	modCfg := wazero.NewModuleConfig().WithStartFunctions()
	mod, err := r.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		r.Close(ctx)
		return nil, errors.Load("instantiate guest module", err)
	}
	g.module = mod

	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			r.Close(ctx)
			return nil, errors.Load("run _initialize", err)
		}
	}

	g.connected = mod.ExportedFunction(resolved[ExportConnected])
	g.disconnect = mod.ExportedFunction(resolved[ExportDisconnected])
	g.adopted = mod.ExportedFunction(resolved[ExportAdopted])
	g.attrChanged = mod.ExportedFunction(resolved[ExportAttributeChanged])

	observed, err := g.readObservedAttributes(ctx,
		mod.ExportedFunction(resolved[ExportObservedAttrs]),
		mod.ExportedFunction(resolved[ExportObservedAttrsLen]))
	if err != nil {
		r.Close(ctx)
		return nil, err
	}
	g.observed = observed

	logger.Debug("guest loaded",
		zap.Strings("observed_attributes", observed),
		zap.Int("exports", len(resolved)))
	return g, nil
}

// Close releases the guest runtime. All documents using classes backed by
// this guest must be done dispatching first.
func (g *Guest) Close(ctx context.Context) error {
	g.elems.Close()
	return g.runtime.Close(ctx)
}

// ObservedAttributes returns the list read from guest memory at load time.
func (g *Guest) ObservedAttributes() []string {
	return g.observed
}

// Connected forwards to the guest's connected export. The returned u32 is
// the element's handle, passed through untouched.
func (g *Guest) Connected(ctx context.Context, el celbridge.Element) (handle.Handle, error) {
	id, err := g.elemID(el)
	if err != nil {
		return handle.Empty, err
	}
	results, err := g.connected.Call(ctx, uint64(id))
	if err != nil {
		return handle.Empty, err
	}
	return handle.Handle(uint32(results[0])), nil
}

// Disconnected forwards to the guest's disconnected export and releases
// the element's guest-side id.
func (g *Guest) Disconnected(ctx context.Context, el celbridge.Element, h handle.Handle) error {
	id, err := g.elemID(el)
	if err != nil {
		return err
	}
	_, callErr := g.disconnect.Call(ctx, uint64(id), uint64(h))

	// The id is released even when the guest traps; a reconnection names
	// the element afresh.
	g.elems.Remove(id)
	delete(g.ids, el.ID())
	return callErr
}

// Adopted forwards to the guest's adopted export. No handle is carried.
func (g *Guest) Adopted(ctx context.Context, el celbridge.Element) error {
	id, err := g.elemID(el)
	if err != nil {
		return err
	}
	_, callErr := g.adopted.Call(ctx, uint64(id))
	return callErr
}

// AttributeChanged forwards to the guest's attribute-changed export.
func (g *Guest) AttributeChanged(ctx context.Context, el celbridge.Element, h handle.Handle) error {
	id, err := g.elemID(el)
	if err != nil {
		return err
	}
	_, callErr := g.attrChanged.Call(ctx, uint64(id), uint64(h))
	return callErr
}

// elemID returns the guest-side id for el, allocating one on first use.
func (g *Guest) elemID(el celbridge.Element) (handle.Handle, error) {
	if id, ok := g.ids[el.ID()]; ok {
		return id, nil
	}
	id := g.elems.Insert(el)
	if id == handle.Empty {
		return handle.Empty, errors.Closed(errors.PhaseDispatch, "guest")
	}
	g.ids[el.ID()] = id
	return id, nil
}

func (g *Guest) readObservedAttributes(ctx context.Context, ptrFn, lenFn api.Function) ([]string, error) {
	lenRes, err := lenFn.Call(ctx)
	if err != nil {
		return nil, errors.Load("call observed-attributes-len", err)
	}
	length := uint32(lenRes[0])
	if length == 0 {
		return nil, nil
	}

	ptrRes, err := ptrFn.Call(ctx)
	if err != nil {
		return nil, errors.Load("call observed-attributes", err)
	}
	ptr := uint32(ptrRes[0])

	mem := g.module.Memory()
	if mem == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Detail("guest module exports no memory").
			Build()
	}
	data, ok := mem.Read(ptr, length)
	if !ok {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Export(ExportObservedAttrs).
			Detail("attribute list %d+%d out of memory bounds", ptr, length).
			Build()
	}

	return strings.Split(string(data), "\n"), nil
}

// instantiateHostModule provides the "celbridge" imports: log and attr.
func (g *Guest) instantiateHostModule(ctx context.Context) error {
	builder := g.runtime.NewHostModuleBuilder(HostModule)

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			ptr, length := uint32(stack[0]), uint32(stack[1])
			if msg, ok := mod.Memory().Read(ptr, length); ok {
				g.logger.Info("guest", zap.ByteString("msg", msg))
			}
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil).
		Export("log")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			elem := handle.Handle(uint32(stack[0]))
			namePtr, nameLen := uint32(stack[1]), uint32(stack[2])
			dst, capacity := uint32(stack[3]), uint32(stack[4])

			stack[0] = api.EncodeI32(attrAbsent)
			el, ok := g.elems.Get(elem)
			if !ok {
				return
			}
			name, ok := mod.Memory().Read(namePtr, nameLen)
			if !ok {
				return
			}
			value, ok := el.Attribute(string(name))
			if !ok {
				return
			}
			if uint32(len(value)) > capacity {
				stack[0] = api.EncodeI32(attrTooSmall)
				return
			}
			if !mod.Memory().Write(dst, []byte(value)) {
				return
			}
			stack[0] = api.EncodeI32(int32(len(value)))
		}), []api.ValueType{
			api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32,
			api.ValueTypeI32, api.ValueTypeI32,
		}, []api.ValueType{api.ValueTypeI32}).
		Export("attr")

	_, err := builder.Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("instantiate %s: %w", HostModule, err)
	}
	return nil
}

// attr host-call result codes.
const (
	attrAbsent   = int32(-1)
	attrTooSmall = int32(-2)
)

package interp

import (
	"database/sql"
	"net/http"
	"strings"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"go.uber.org/zap"

	"github.com/emberlang/ember/internal/config"
)

// BuiltinFunc is the uniform signature of every standard library function:
// a list of dynamically typed arguments in, one Value or one error out.
type BuiltinFunc func(rt *Runtime, args []Value) (Value, error)

// Builtin is one registered standard library function.
type Builtin struct {
	Fn   BuiltinFunc
	Name string
}

// Module is a named group of builtins. Module names are matched
// case-insensitively at the call boundary.
type Module struct {
	Name  string
	Funcs map[string]*Builtin
}

// Runtime owns every per-kind resource registry and the module table.
// Each Runtime is fully independent: two Runtimes in one process share no
// handle space and no resources.
type Runtime struct {
	log     *zap.Logger
	limits  config.Limits
	modules map[string]*Module

	files   *Registry[*openFile]
	procs   *Registry[*process]
	threads *Registry[*thread]
	mutexes *Registry[*scriptMutex]
	buffers *Registry[*buffer]
	nodes   *Registry[*astNode]
	symtabs *Registry[*symbolTable]
	dbs     *Registry[*sql.DB]
	grpcs   *Registry[*grpcConn]

	protoMu sync.RWMutex
	protos  map[string]*desc.FileDescriptor

	httpClient *http.Client

	memStats memoryStats
	started  int64 // unix seconds, for system.uptime
}

// Option configures a Runtime at construction time.
type Option func(*Runtime)

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(rt *Runtime) { rt.log = log }
}

// WithLimits overrides the default resource limits.
func WithLimits(limits config.Limits) Option {
	return func(rt *Runtime) { rt.limits = limits }
}

// NewRuntime builds a Runtime with all standard modules registered.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		log:     zap.NewNop(),
		limits:  config.DefaultLimits(),
		modules: make(map[string]*Module),

		files:   NewRegistry[*openFile](config.KindFile),
		procs:   NewRegistry[*process](config.KindProcess),
		threads: NewRegistry[*thread](config.KindThread),
		mutexes: NewRegistry[*scriptMutex](config.KindMutex),
		buffers: NewRegistry[*buffer](config.KindBuffer),
		nodes:   NewRegistry[*astNode](config.KindNode),
		symtabs: NewRegistry[*symbolTable](config.KindSymtab),
		dbs:     NewRegistry[*sql.DB](config.KindDB),
		grpcs:   NewRegistry[*grpcConn](config.KindGrpc),

		protos: make(map[string]*desc.FileDescriptor),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.httpClient = &http.Client{Timeout: rt.limits.HTTPTimeout}
	rt.started = nowUnix()
	rt.registerStandardModules()
	return rt
}

// Register adds (or replaces) a module.
func (rt *Runtime) Register(m *Module) {
	rt.modules[strings.ToLower(m.Name)] = m
}

// Call dispatches one builtin invocation.
func (rt *Runtime) Call(module, fn string, args []Value) (Value, error) {
	m, ok := rt.modules[strings.ToLower(module)]
	if !ok {
		return nil, domainErrorf("module '%s' not found", module)
	}
	b, ok := m.Funcs[fn]
	if !ok {
		return nil, domainErrorf("function '%s' not found in module '%s'", fn, m.Name)
	}
	return b.Fn(rt, args)
}

// Modules lists the registered module names.
func (rt *Runtime) Modules() []string {
	names := make([]string, 0, len(rt.modules))
	for name := range rt.modules {
		names = append(names, name)
	}
	return names
}

// Functions lists the function names of one module.
func (rt *Runtime) Functions(module string) ([]string, error) {
	m, ok := rt.modules[strings.ToLower(module)]
	if !ok {
		return nil, domainErrorf("module '%s' not found", module)
	}
	names := make([]string, 0, len(m.Funcs))
	for name := range m.Funcs {
		names = append(names, name)
	}
	return names, nil
}

func (rt *Runtime) registerStandardModules() {
	rt.Register(mathModule())
	rt.Register(stringsModule())
	rt.Register(arrayModule())
	rt.Register(bitwiseModule())
	rt.Register(jsonModule())
	rt.Register(yamlModule())
	rt.Register(randomModule())
	rt.Register(uuidModule())
	rt.Register(regexModule())
	rt.Register(cryptoModule())
	rt.Register(dateModule())
	rt.Register(validationModule())
	rt.Register(colorModule())
	rt.Register(logModule())
	rt.Register(systemModule())
	rt.Register(fileModule())
	rt.Register(filesystemModule())
	rt.Register(binaryModule())
	rt.Register(memoryModule())
	rt.Register(processModule())
	rt.Register(threadModule())
	rt.Register(compilerModule())
	rt.Register(httpModule())
	rt.Register(dbModule())
	rt.Register(grpcModule())
}

// wantExact validates an exact arity with no side effects on mismatch.
func wantExact(fn string, args []Value, n int) error {
	if len(args) != n {
		return arityErrorf("%s requires exactly %d argument(s), got %d", fn, n, len(args))
	}
	return nil
}

// wantRange validates a ranged arity.
func wantRange(fn string, args []Value, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		return arityErrorf("%s requires %d to %d arguments, got %d", fn, lo, hi, len(args))
	}
	return nil
}

// wantNone validates a zero arity.
func wantNone(fn string, args []Value) error {
	if len(args) != 0 {
		return arityErrorf("%s takes no arguments", fn)
	}
	return nil
}

func argInt(fn string, args []Value, i int) (int64, error) {
	n, err := AsInt(args[i])
	if err != nil {
		return 0, typeErrorf("%s: argument %d: %v", fn, i+1, err)
	}
	return n, nil
}

func argFloat(fn string, args []Value, i int) (float64, error) {
	f, err := AsFloat(args[i])
	if err != nil {
		return 0, typeErrorf("%s: argument %d: %v", fn, i+1, err)
	}
	return f, nil
}

func argBool(fn string, args []Value, i int) (bool, error) {
	b, err := AsBool(args[i])
	if err != nil {
		return false, typeErrorf("%s: argument %d: %v", fn, i+1, err)
	}
	return b, nil
}

func argString(fn string, args []Value, i int) (string, error) {
	if i >= len(args) {
		return "", arityErrorf("%s: missing argument %d", fn, i+1)
	}
	return AsString(args[i]), nil
}

func argArray(fn string, args []Value, i int) ([]Value, error) {
	a, err := AsArray(args[i])
	if err != nil {
		return nil, typeErrorf("%s: argument %d: %v", fn, i+1, err)
	}
	return a, nil
}

func argHandle(fn string, args []Value, i int) (int64, error) {
	return argInt(fn, args, i)
}

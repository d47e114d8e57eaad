package interp

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

func nowUnix() int64 { return time.Now().Unix() }

func systemModule() *Module {
	return &Module{
		Name: "system",
		Funcs: map[string]*Builtin{
			"exec":         {Name: "exec", Fn: systemExec},
			"getpid":       {Name: "getpid", Fn: systemGetpid},
			"getcwd":       {Name: "getcwd", Fn: systemGetcwd},
			"getenv":       {Name: "getenv", Fn: systemGetenv},
			"setenv":       {Name: "setenv", Fn: systemSetenv},
			"environ":      {Name: "environ", Fn: systemEnviron},
			"args":         {Name: "args", Fn: systemArgs},
			"hostname":     {Name: "hostname", Fn: systemHostname},
			"platform":     {Name: "platform", Fn: systemPlatform},
			"current_time": {Name: "current_time", Fn: systemCurrentTime},
			"uptime":       {Name: "uptime", Fn: systemUptime},
			"sleep":        {Name: "sleep", Fn: systemSleep},
			"path_exists":  {Name: "path_exists", Fn: systemPathExists},
			"realpath":     {Name: "realpath", Fn: systemRealpath},
		},
	}
}

// systemExec runs a whitespace-split command to completion and returns its
// combined output. A nonzero exit is an IO error carrying the output.
func systemExec(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("system.exec", args, 1); err != nil {
		return nil, err
	}
	command, err := argString("system.exec", args, 0)
	if err != nil {
		return nil, err
	}
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, domainErrorf("empty command")
	}
	out, runErr := exec.Command(parts[0], parts[1:]...).CombinedOutput()
	if runErr != nil {
		return nil, ioErrorf("command '%s' failed: %v: %s", command, runErr, strings.TrimSpace(string(out)))
	}
	return String{string(out)}, nil
}

func systemGetpid(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("system.getpid", args); err != nil {
		return nil, err
	}
	return Int{int64(os.Getpid())}, nil
}

func systemGetcwd(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("system.getcwd", args); err != nil {
		return nil, err
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, ioErrorf("cannot determine working directory: %v", err)
	}
	return String{dir}, nil
}

func systemGetenv(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("system.getenv", args, 1); err != nil {
		return nil, err
	}
	name, err := argString("system.getenv", args, 0)
	if err != nil {
		return nil, err
	}
	val, ok := os.LookupEnv(name)
	if !ok {
		return Null{}, nil
	}
	return String{val}, nil
}

func systemSetenv(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("system.setenv", args, 2); err != nil {
		return nil, err
	}
	name, err := argString("system.setenv", args, 0)
	if err != nil {
		return nil, err
	}
	val, err := argString("system.setenv", args, 1)
	if err != nil {
		return nil, err
	}
	if err := os.Setenv(name, val); err != nil {
		return nil, ioErrorf("cannot set environment variable '%s': %v", name, err)
	}
	return Null{}, nil
}

func systemEnviron(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("system.environ", args); err != nil {
		return nil, err
	}
	entries := make(map[string]Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			entries[k] = String{v}
		}
	}
	return Map{entries}, nil
}

func systemArgs(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("system.args", args); err != nil {
		return nil, err
	}
	elems := make([]Value, len(os.Args))
	for i, a := range os.Args {
		elems[i] = String{a}
	}
	return Array{elems}, nil
}

func systemHostname(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("system.hostname", args); err != nil {
		return nil, err
	}
	name, err := os.Hostname()
	if err != nil {
		return nil, ioErrorf("cannot determine hostname: %v", err)
	}
	return String{name}, nil
}

func systemPlatform(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("system.platform", args); err != nil {
		return nil, err
	}
	return Map{map[string]Value{
		"os":   String{runtime.GOOS},
		"arch": String{runtime.GOARCH},
		"cpus": Int{int64(runtime.NumCPU())},
	}}, nil
}

func systemCurrentTime(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("system.current_time", args); err != nil {
		return nil, err
	}
	return Int{time.Now().UnixMilli()}, nil
}

func systemUptime(rt *Runtime, args []Value) (Value, error) {
	if err := wantNone("system.uptime", args); err != nil {
		return nil, err
	}
	return Int{nowUnix() - rt.started}, nil
}

func systemSleep(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("system.sleep", args, 1); err != nil {
		return nil, err
	}
	ms, err := argInt("system.sleep", args, 0)
	if err != nil {
		return nil, err
	}
	if ms < 0 {
		return nil, domainErrorf("sleep duration cannot be negative")
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return Null{}, nil
}

func systemPathExists(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("system.path_exists", args, 1); err != nil {
		return nil, err
	}
	path, err := argString("system.path_exists", args, 0)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return Bool{statErr == nil}, nil
}

func systemRealpath(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("system.realpath", args, 1); err != nil {
		return nil, err
	}
	path, err := argString("system.realpath", args, 0)
	if err != nil {
		return nil, err
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, ioErrorf("cannot resolve path '%s': %v", path, err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return nil, ioErrorf("cannot resolve path '%s': %v", path, err)
	}
	return String{abs}, nil
}

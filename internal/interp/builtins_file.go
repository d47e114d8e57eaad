package interp

import "os"

// fileModule is the path-level convenience surface; handle-based binary
// I/O lives in the binary module.
func fileModule() *Module {
	return &Module{
		Name: "file",
		Funcs: map[string]*Builtin{
			"read":   {Name: "read", Fn: fileRead},
			"write":  {Name: "write", Fn: fileWrite},
			"append": {Name: "append", Fn: fileAppend},
			"exists": {Name: "exists", Fn: fileExists},
			"delete": {Name: "delete", Fn: fileDelete},
		},
	}
}

func fileRead(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("file.read", args, 1); err != nil {
		return nil, err
	}
	path, err := argString("file.read", args, 0)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(path)
	if statErr == nil && info.Size() > rt.limits.MaxReadBytes {
		return nil, domainErrorf("file '%s' exceeds the read limit of %d bytes", path, rt.limits.MaxReadBytes)
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, ioErrorf("cannot read file '%s': %v", path, readErr)
	}
	return String{string(data)}, nil
}

func fileWrite(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("file.write", args, 2); err != nil {
		return nil, err
	}
	path, err := argString("file.write", args, 0)
	if err != nil {
		return nil, err
	}
	content, err := argString("file.write", args, 1)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, ioErrorf("cannot write file '%s': %v", path, err)
	}
	return Null{}, nil
}

func fileAppend(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("file.append", args, 2); err != nil {
		return nil, err
	}
	path, err := argString("file.append", args, 0)
	if err != nil {
		return nil, err
	}
	content, err := argString("file.append", args, 1)
	if err != nil {
		return nil, err
	}
	f, openErr := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if openErr != nil {
		return nil, ioErrorf("cannot open file '%s': %v", path, openErr)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return nil, ioErrorf("cannot append to file '%s': %v", path, err)
	}
	return Null{}, nil
}

func fileExists(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("file.exists", args, 1); err != nil {
		return nil, err
	}
	path, err := argString("file.exists", args, 0)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return Bool{statErr == nil}, nil
}

func fileDelete(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("file.delete", args, 1); err != nil {
		return nil, err
	}
	path, err := argString("file.delete", args, 0)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return nil, ioErrorf("cannot delete '%s': %v", path, err)
	}
	return Null{}, nil
}

package interp

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

func filesystemModule() *Module {
	return &Module{
		Name: "filesystem",
		Funcs: map[string]*Builtin{
			"exists":        {Name: "exists", Fn: fsExists},
			"is_file":       {Name: "is_file", Fn: fsIsFile},
			"is_dir":        {Name: "is_dir", Fn: fsIsDir},
			"create_dir":    {Name: "create_dir", Fn: fsCreateDir},
			"remove":        {Name: "remove", Fn: fsRemove},
			"read_file":     {Name: "read_file", Fn: fsReadFile},
			"write_file":    {Name: "write_file", Fn: fsWriteFile},
			"list_dir":      {Name: "list_dir", Fn: fsListDir},
			"metadata":      {Name: "metadata", Fn: fsMetadata},
			"absolute_path": {Name: "absolute_path", Fn: fsAbsolutePath},
			"copy":          {Name: "copy", Fn: fsCopy},
			"move":          {Name: "move", Fn: fsMove},
			"extension":     {Name: "extension", Fn: fsExtension},
			"file_stem":     {Name: "file_stem", Fn: fsFileStem},
			"parent_dir":    {Name: "parent_dir", Fn: fsParentDir},
			"join_path":     {Name: "join_path", Fn: fsJoinPath},
			"change_dir":    {Name: "change_dir", Fn: fsChangeDir},
			"current_dir":   {Name: "current_dir", Fn: fsCurrentDir},
			"temp_file":     {Name: "temp_file", Fn: fsTempFile},
			"temp_dir":      {Name: "temp_dir", Fn: fsTempDir},
		},
	}
}

func pathArg(fn string, args []Value) (string, error) {
	if err := wantExact(fn, args, 1); err != nil {
		return "", err
	}
	return argString(fn, args, 0)
}

func fsExists(_ *Runtime, args []Value) (Value, error) {
	path, err := pathArg("filesystem.exists", args)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return Bool{statErr == nil}, nil
}

func fsIsFile(_ *Runtime, args []Value) (Value, error) {
	path, err := pathArg("filesystem.is_file", args)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(path)
	return Bool{statErr == nil && info.Mode().IsRegular()}, nil
}

func fsIsDir(_ *Runtime, args []Value) (Value, error) {
	path, err := pathArg("filesystem.is_dir", args)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(path)
	return Bool{statErr == nil && info.IsDir()}, nil
}

// fsCreateDir makes the directory and any missing parents. An optional
// second argument sets the permission bits, default 0755.
func fsCreateDir(_ *Runtime, args []Value) (Value, error) {
	if err := wantRange("filesystem.create_dir", args, 1, 2); err != nil {
		return nil, err
	}
	path, err := argString("filesystem.create_dir", args, 0)
	if err != nil {
		return nil, err
	}
	mode := int64(0o755)
	if len(args) == 2 {
		mode, err = argInt("filesystem.create_dir", args, 1)
		if err != nil {
			return nil, err
		}
		if mode < 0 || mode > 0o777 {
			return nil, domainErrorf("invalid permission bits %o", mode)
		}
	}
	if err := os.MkdirAll(path, os.FileMode(mode)); err != nil {
		return nil, ioErrorf("cannot create directory '%s': %v", path, err)
	}
	return Null{}, nil
}

// fsRemove deletes a file, or a directory when the recursive flag is set.
// A non-empty directory without the flag is refused.
func fsRemove(_ *Runtime, args []Value) (Value, error) {
	if err := wantRange("filesystem.remove", args, 1, 2); err != nil {
		return nil, err
	}
	path, err := argString("filesystem.remove", args, 0)
	if err != nil {
		return nil, err
	}
	recursive := false
	if len(args) == 2 {
		recursive, err = argBool("filesystem.remove", args, 1)
		if err != nil {
			return nil, err
		}
	}
	if recursive {
		if err := os.RemoveAll(path); err != nil {
			return nil, ioErrorf("cannot remove '%s': %v", path, err)
		}
		return Null{}, nil
	}
	if err := os.Remove(path); err != nil {
		return nil, ioErrorf("cannot remove '%s': %v", path, err)
	}
	return Null{}, nil
}

func fsReadFile(rt *Runtime, args []Value) (Value, error) {
	return fileRead(rt, args)
}

func fsWriteFile(rt *Runtime, args []Value) (Value, error) {
	return fileWrite(rt, args)
}

// fsListDir returns entry names, or detailed maps when the second
// argument is true.
func fsListDir(_ *Runtime, args []Value) (Value, error) {
	if err := wantRange("filesystem.list_dir", args, 1, 2); err != nil {
		return nil, err
	}
	path, err := argString("filesystem.list_dir", args, 0)
	if err != nil {
		return nil, err
	}
	detailed := false
	if len(args) == 2 {
		detailed, err = argBool("filesystem.list_dir", args, 1)
		if err != nil {
			return nil, err
		}
	}
	entries, readErr := os.ReadDir(path)
	if readErr != nil {
		return nil, ioErrorf("cannot list directory '%s': %v", path, readErr)
	}
	out := make([]Value, 0, len(entries))
	for _, e := range entries {
		if !detailed {
			out = append(out, String{e.Name()})
			continue
		}
		info, infoErr := e.Info()
		if infoErr != nil {
			return nil, ioErrorf("cannot stat '%s': %v", e.Name(), infoErr)
		}
		out = append(out, Map{map[string]Value{
			"name":     String{e.Name()},
			"is_dir":   Bool{e.IsDir()},
			"size":     Int{info.Size()},
			"modified": Int{info.ModTime().Unix()},
		}})
	}
	return Array{out}, nil
}

func fsMetadata(_ *Runtime, args []Value) (Value, error) {
	path, err := pathArg("filesystem.metadata", args)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return nil, ioErrorf("cannot stat '%s': %v", path, statErr)
	}
	return Map{map[string]Value{
		"name":     String{info.Name()},
		"size":     Int{info.Size()},
		"is_dir":   Bool{info.IsDir()},
		"mode":     Int{int64(info.Mode().Perm())},
		"modified": Int{info.ModTime().Unix()},
	}}, nil
}

func fsAbsolutePath(_ *Runtime, args []Value) (Value, error) {
	path, err := pathArg("filesystem.absolute_path", args)
	if err != nil {
		return nil, err
	}
	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		return nil, ioErrorf("cannot resolve path '%s': %v", path, absErr)
	}
	return String{abs}, nil
}

func fsCopy(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("filesystem.copy", args, 2); err != nil {
		return nil, err
	}
	src, err := argString("filesystem.copy", args, 0)
	if err != nil {
		return nil, err
	}
	dst, err := argString("filesystem.copy", args, 1)
	if err != nil {
		return nil, err
	}
	in, openErr := os.Open(src)
	if openErr != nil {
		return nil, ioErrorf("cannot open '%s': %v", src, openErr)
	}
	defer in.Close()
	info, statErr := in.Stat()
	if statErr != nil {
		return nil, ioErrorf("cannot stat '%s': %v", src, statErr)
	}
	if info.IsDir() {
		return nil, domainErrorf("cannot copy directory '%s'", src)
	}
	out, createErr := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if createErr != nil {
		return nil, ioErrorf("cannot create '%s': %v", dst, createErr)
	}
	defer out.Close()
	n, copyErr := io.Copy(out, in)
	if copyErr != nil {
		return nil, ioErrorf("cannot copy '%s' to '%s': %v", src, dst, copyErr)
	}
	return Int{n}, nil
}

func fsMove(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("filesystem.move", args, 2); err != nil {
		return nil, err
	}
	src, err := argString("filesystem.move", args, 0)
	if err != nil {
		return nil, err
	}
	dst, err := argString("filesystem.move", args, 1)
	if err != nil {
		return nil, err
	}
	if err := os.Rename(src, dst); err != nil {
		return nil, ioErrorf("cannot move '%s' to '%s': %v", src, dst, err)
	}
	return Null{}, nil
}

func fsExtension(_ *Runtime, args []Value) (Value, error) {
	path, err := pathArg("filesystem.extension", args)
	if err != nil {
		return nil, err
	}
	return String{strings.TrimPrefix(filepath.Ext(path), ".")}, nil
}

func fsFileStem(_ *Runtime, args []Value) (Value, error) {
	path, err := pathArg("filesystem.file_stem", args)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	return String{strings.TrimSuffix(base, filepath.Ext(base))}, nil
}

func fsParentDir(_ *Runtime, args []Value) (Value, error) {
	path, err := pathArg("filesystem.parent_dir", args)
	if err != nil {
		return nil, err
	}
	return String{filepath.Dir(path)}, nil
}

func fsJoinPath(_ *Runtime, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, arityErrorf("filesystem.join_path requires at least one argument")
	}
	parts := make([]string, len(args))
	for i := range args {
		p, err := argString("filesystem.join_path", args, i)
		if err != nil {
			return nil, err
		}
		parts[i] = p
	}
	return String{filepath.Join(parts...)}, nil
}

func fsChangeDir(_ *Runtime, args []Value) (Value, error) {
	path, err := pathArg("filesystem.change_dir", args)
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(path); err != nil {
		return nil, ioErrorf("cannot change directory to '%s': %v", path, err)
	}
	return Null{}, nil
}

func fsCurrentDir(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("filesystem.current_dir", args); err != nil {
		return nil, err
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, ioErrorf("cannot determine working directory: %v", err)
	}
	return String{dir}, nil
}

func fsTempFile(_ *Runtime, args []Value) (Value, error) {
	if err := wantRange("filesystem.temp_file", args, 0, 1); err != nil {
		return nil, err
	}
	pattern := "ember-*"
	if len(args) == 1 {
		p, err := argString("filesystem.temp_file", args, 0)
		if err != nil {
			return nil, err
		}
		pattern = p
	}
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, ioErrorf("cannot create temp file: %v", err)
	}
	path := f.Name()
	f.Close()
	return String{path}, nil
}

func fsTempDir(_ *Runtime, args []Value) (Value, error) {
	if err := wantRange("filesystem.temp_dir", args, 0, 1); err != nil {
		return nil, err
	}
	pattern := "ember-*"
	if len(args) == 1 {
		p, err := argString("filesystem.temp_dir", args, 0)
		if err != nil {
			return nil, err
		}
		pattern = p
	}
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return nil, ioErrorf("cannot create temp directory: %v", err)
	}
	return String{dir}, nil
}

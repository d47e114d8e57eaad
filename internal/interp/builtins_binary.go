package interp

import (
	"io"
	"os"
	"sync"
)

// openFile is one registered binary file handle. The registry lock only
// guards the handle table; per-file state has its own mutex so slow I/O on
// one handle never blocks the others.
type openFile struct {
	mu           sync.Mutex
	file         *os.File
	path         string
	mode         string
	bytesRead    int64
	bytesWritten int64
	seeks        int64
}

var fileModes = map[string]struct {
	flag     int
	writable bool
}{
	"rb":  {os.O_RDONLY, false},
	"wb":  {os.O_WRONLY | os.O_CREATE | os.O_TRUNC, true},
	"ab":  {os.O_WRONLY | os.O_CREATE | os.O_APPEND, true},
	"r+b": {os.O_RDWR, true},
	"w+b": {os.O_RDWR | os.O_CREATE | os.O_TRUNC, true},
	"a+b": {os.O_RDWR | os.O_CREATE | os.O_APPEND, true},
}

// Short mode names accepted as aliases of the binary forms.
var fileModeAliases = map[string]string{
	"r": "rb", "w": "wb", "a": "ab",
	"r+": "r+b", "w+": "w+b", "a+": "a+b",
}

func binaryModule() *Module {
	return &Module{
		Name: "binary",
		Funcs: map[string]*Builtin{
			"create":          {Name: "create", Fn: binaryCreate},
			"open":            {Name: "open", Fn: binaryOpen},
			"close":           {Name: "close", Fn: binaryClose},
			"read_bytes":      {Name: "read_bytes", Fn: binaryReadBytes},
			"write_bytes":     {Name: "write_bytes", Fn: binaryWriteBytes},
			"seek":            {Name: "seek", Fn: binarySeek},
			"tell":            {Name: "tell", Fn: binaryTell},
			"bytes_to_string": {Name: "bytes_to_string", Fn: binaryBytesToString},
			"string_to_bytes": {Name: "string_to_bytes", Fn: binaryStringToBytes},
			"stats":           {Name: "stats", Fn: binaryStats},
		},
	}
}

func binaryCreate(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("binary.create", args, 1); err != nil {
		return nil, err
	}
	path, err := argString("binary.create", args, 0)
	if err != nil {
		return nil, err
	}
	f, createErr := os.Create(path)
	if createErr != nil {
		return nil, ioErrorf("cannot create file '%s': %v", path, createErr)
	}
	f.Close()
	return Null{}, nil
}

func binaryOpen(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("binary.open", args, 2); err != nil {
		return nil, err
	}
	path, err := argString("binary.open", args, 0)
	if err != nil {
		return nil, err
	}
	mode, err := argString("binary.open", args, 1)
	if err != nil {
		return nil, err
	}
	if full, ok := fileModeAliases[mode]; ok {
		mode = full
	}
	fm, ok := fileModes[mode]
	if !ok {
		return nil, domainErrorf("invalid file mode '%s'", mode)
	}
	f, openErr := os.OpenFile(path, fm.flag, 0o644)
	if openErr != nil {
		return nil, ioErrorf("cannot open file '%s': %v", path, openErr)
	}
	id := rt.files.Create(&openFile{file: f, path: path, mode: mode})
	return Int{id}, nil
}

func binaryClose(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("binary.close", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("binary.close", args, 0)
	if err != nil {
		return nil, err
	}
	of, err := rt.files.Remove(id)
	if err != nil {
		return nil, err
	}
	if err := of.file.Close(); err != nil {
		return nil, ioErrorf("cannot close file '%s': %v", of.path, err)
	}
	return Null{}, nil
}

func binaryReadBytes(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("binary.read_bytes", args, 2); err != nil {
		return nil, err
	}
	id, err := argHandle("binary.read_bytes", args, 0)
	if err != nil {
		return nil, err
	}
	count, err := argInt("binary.read_bytes", args, 1)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, domainErrorf("read count cannot be negative")
	}
	if count > rt.limits.MaxReadBytes {
		return nil, domainErrorf("read count %d exceeds the limit of %d bytes", count, rt.limits.MaxReadBytes)
	}
	of, err := rt.files.Get(id)
	if err != nil {
		return nil, err
	}
	of.mu.Lock()
	defer of.mu.Unlock()
	buf := make([]byte, count)
	n, readErr := io.ReadFull(of.file, buf)
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return nil, ioErrorf("cannot read from file '%s': %v", of.path, readErr)
	}
	of.bytesRead += int64(n)
	elems := make([]Value, n)
	for i := 0; i < n; i++ {
		elems[i] = Int{int64(buf[i])}
	}
	return Array{elems}, nil
}

func binaryWriteBytes(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("binary.write_bytes", args, 2); err != nil {
		return nil, err
	}
	id, err := argHandle("binary.write_bytes", args, 0)
	if err != nil {
		return nil, err
	}
	elems, err := argArray("binary.write_bytes", args, 1)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(elems))
	for i, e := range elems {
		b, convErr := AsInt(e)
		if convErr != nil {
			return nil, typeErrorf("binary.write_bytes: byte %d: %v", i, convErr)
		}
		if b < 0 || b > 255 {
			return nil, domainErrorf("byte value %d out of range [0, 255]", b)
		}
		buf[i] = byte(b)
	}
	of, err := rt.files.Get(id)
	if err != nil {
		return nil, err
	}
	of.mu.Lock()
	defer of.mu.Unlock()
	n, writeErr := of.file.Write(buf)
	of.bytesWritten += int64(n)
	if writeErr != nil {
		return nil, ioErrorf("cannot write to file '%s': %v", of.path, writeErr)
	}
	return Int{int64(n)}, nil
}

var seekWhence = map[string]int{
	"start":   io.SeekStart,
	"current": io.SeekCurrent,
	"end":     io.SeekEnd,
}

func binarySeek(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("binary.seek", args, 3); err != nil {
		return nil, err
	}
	id, err := argHandle("binary.seek", args, 0)
	if err != nil {
		return nil, err
	}
	offset, err := argInt("binary.seek", args, 1)
	if err != nil {
		return nil, err
	}
	origin, err := argString("binary.seek", args, 2)
	if err != nil {
		return nil, err
	}
	whence, ok := seekWhence[origin]
	if !ok {
		return nil, domainErrorf("invalid seek origin '%s'", origin)
	}
	of, err := rt.files.Get(id)
	if err != nil {
		return nil, err
	}
	of.mu.Lock()
	defer of.mu.Unlock()
	pos, seekErr := of.file.Seek(offset, whence)
	if seekErr != nil {
		return nil, ioErrorf("cannot seek in file '%s': %v", of.path, seekErr)
	}
	of.seeks++
	return Int{pos}, nil
}

func binaryTell(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("binary.tell", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("binary.tell", args, 0)
	if err != nil {
		return nil, err
	}
	of, err := rt.files.Get(id)
	if err != nil {
		return nil, err
	}
	of.mu.Lock()
	defer of.mu.Unlock()
	pos, seekErr := of.file.Seek(0, io.SeekCurrent)
	if seekErr != nil {
		return nil, ioErrorf("cannot tell position in file '%s': %v", of.path, seekErr)
	}
	return Int{pos}, nil
}

func binaryBytesToString(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("binary.bytes_to_string", args, 1); err != nil {
		return nil, err
	}
	elems, err := argArray("binary.bytes_to_string", args, 0)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(elems))
	for i, e := range elems {
		b, convErr := AsInt(e)
		if convErr != nil {
			return nil, typeErrorf("binary.bytes_to_string: byte %d: %v", i, convErr)
		}
		if b < 0 || b > 255 {
			return nil, domainErrorf("byte value %d out of range [0, 255]", b)
		}
		buf[i] = byte(b)
	}
	return String{string(buf)}, nil
}

func binaryStringToBytes(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("binary.string_to_bytes", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("binary.string_to_bytes", args, 0)
	if err != nil {
		return nil, err
	}
	elems := make([]Value, len(s))
	for i := 0; i < len(s); i++ {
		elems[i] = Int{int64(s[i])}
	}
	return Array{elems}, nil
}

func binaryStats(rt *Runtime, args []Value) (Value, error) {
	if err := wantNone("binary.stats", args); err != nil {
		return nil, err
	}
	var open, read, written, seeks int64
	files := make([]Value, 0)
	rt.files.Each(func(id int64, of *openFile) {
		of.mu.Lock()
		open++
		read += of.bytesRead
		written += of.bytesWritten
		seeks += of.seeks
		files = append(files, Map{map[string]Value{
			"handle":        Int{id},
			"path":          String{of.path},
			"mode":          String{of.mode},
			"bytes_read":    Int{of.bytesRead},
			"bytes_written": Int{of.bytesWritten},
			"seeks":         Int{of.seeks},
		}})
		of.mu.Unlock()
	})
	return Map{map[string]Value{
		"open_files":          Int{open},
		"total_bytes_read":    Int{read},
		"total_bytes_written": Int{written},
		"total_seeks":         Int{seeks},
		"files":               Array{files},
	}}, nil
}

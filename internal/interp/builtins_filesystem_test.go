package interp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemFileLifecycle(t *testing.T) {
	rt := NewRuntime()
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")

	if _, err := rt.Call("filesystem", "write_file", []Value{String{path}, String{"line one"}}); err != nil {
		t.Fatalf("write_file: %v", err)
	}

	exists, err := rt.Call("filesystem", "exists", []Value{String{path}})
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !Equal(exists, Bool{true}) {
		t.Error("file should exist")
	}
	isFile, _ := rt.Call("filesystem", "is_file", []Value{String{path}})
	if !Equal(isFile, Bool{true}) {
		t.Error("is_file should be true")
	}
	isDir, _ := rt.Call("filesystem", "is_dir", []Value{String{path}})
	if !Equal(isDir, Bool{false}) {
		t.Error("is_dir should be false")
	}

	content, err := rt.Call("filesystem", "read_file", []Value{String{path}})
	if err != nil {
		t.Fatalf("read_file: %v", err)
	}
	if !Equal(content, String{"line one"}) {
		t.Errorf("read_file = %v, want line one", content)
	}

	meta, err := rt.Call("filesystem", "metadata", []Value{String{path}})
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	entries := meta.(Map).Entries
	if !Equal(entries["name"], String{"notes.txt"}) {
		t.Errorf("name = %v", entries["name"])
	}
	if !Equal(entries["size"], Int{8}) {
		t.Errorf("size = %v, want 8", entries["size"])
	}

	if _, err := rt.Call("filesystem", "remove", []Value{String{path}}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	exists, _ = rt.Call("filesystem", "exists", []Value{String{path}})
	if !Equal(exists, Bool{false}) {
		t.Error("file should be gone")
	}
}

func TestFilesystemDirectories(t *testing.T) {
	rt := NewRuntime()
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")

	if _, err := rt.Call("filesystem", "create_dir", []Value{String{nested}}); err != nil {
		t.Fatalf("create_dir: %v", err)
	}
	isDir, _ := rt.Call("filesystem", "is_dir", []Value{String{nested}})
	if !Equal(isDir, Bool{true}) {
		t.Error("nested directory should exist")
	}

	if err := os.WriteFile(filepath.Join(nested, "x.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Non-recursive removal of a non-empty directory is refused.
	if _, err := rt.Call("filesystem", "remove", []Value{String{nested}}); err == nil {
		t.Error("removing non-empty directory should fail")
	} else if KindOf(err) != IOError {
		t.Errorf("expected IO error, got %v", KindOf(err))
	}

	if _, err := rt.Call("filesystem", "remove", []Value{String{filepath.Join(dir, "a")}, Bool{true}}); err != nil {
		t.Fatalf("recursive remove: %v", err)
	}
}

func TestFilesystemListDir(t *testing.T) {
	rt := NewRuntime()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "one.txt"), []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := rt.Call("filesystem", "list_dir", []Value{String{dir}})
	if err != nil {
		t.Fatalf("list_dir: %v", err)
	}
	if len(names.(Array).Elements) != 2 {
		t.Fatalf("got %d entries, want 2", len(names.(Array).Elements))
	}

	detailed, err := rt.Call("filesystem", "list_dir", []Value{String{dir}, Bool{true}})
	if err != nil {
		t.Fatalf("detailed list_dir: %v", err)
	}
	for _, e := range detailed.(Array).Elements {
		entries := e.(Map).Entries
		name := AsString(entries["name"])
		wantDir := name == "sub"
		if !Equal(entries["is_dir"], Bool{wantDir}) {
			t.Errorf("is_dir for %s = %v, want %v", name, entries["is_dir"], wantDir)
		}
	}
}

func TestFilesystemCopyAndMove(t *testing.T) {
	rt := NewRuntime()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	copied, err := rt.Call("filesystem", "copy", []Value{String{src}, String{filepath.Join(dir, "dst.txt")}})
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if !Equal(copied, Int{7}) {
		t.Errorf("copied = %v, want 7 bytes", copied)
	}

	if _, err := rt.Call("filesystem", "copy", []Value{String{dir}, String{filepath.Join(dir, "nope")}}); err == nil {
		t.Error("copying a directory should fail")
	} else if KindOf(err) != DomainError {
		t.Errorf("expected domain error, got %v", KindOf(err))
	}

	moved := filepath.Join(dir, "moved.txt")
	if _, err := rt.Call("filesystem", "move", []Value{String{src}, String{moved}}); err != nil {
		t.Fatalf("move: %v", err)
	}
	exists, _ := rt.Call("filesystem", "exists", []Value{String{src}})
	if !Equal(exists, Bool{false}) {
		t.Error("source should be gone after move")
	}
	exists, _ = rt.Call("filesystem", "exists", []Value{String{moved}})
	if !Equal(exists, Bool{true}) {
		t.Error("destination should exist after move")
	}
}

func TestFilesystemPathHelpers(t *testing.T) {
	rt := NewRuntime()

	tests := []struct {
		fn   string
		args []Value
		want Value
	}{
		{"extension", []Value{String{"/tmp/archive.tar.gz"}}, String{"gz"}},
		{"extension", []Value{String{"/tmp/noext"}}, String{""}},
		{"file_stem", []Value{String{"/tmp/archive.tar.gz"}}, String{"archive.tar"}},
		{"parent_dir", []Value{String{"/tmp/a/b.txt"}}, String{"/tmp/a"}},
		{"join_path", []Value{String{"/tmp"}, String{"a"}, String{"b.txt"}}, String{"/tmp/a/b.txt"}},
	}
	for _, tt := range tests {
		got, err := rt.Call("filesystem", tt.fn, tt.args)
		if err != nil {
			t.Errorf("%s(%v): %v", tt.fn, tt.args, err)
			continue
		}
		if !Equal(got, tt.want) {
			t.Errorf("%s(%v) = %v, want %v", tt.fn, tt.args, got, tt.want)
		}
	}
}

func TestFilesystemTemp(t *testing.T) {
	rt := NewRuntime()

	file, err := rt.Call("filesystem", "temp_file", nil)
	if err != nil {
		t.Fatalf("temp_file: %v", err)
	}
	defer os.Remove(AsString(file))
	isFile, _ := rt.Call("filesystem", "is_file", []Value{file})
	if !Equal(isFile, Bool{true}) {
		t.Error("temp_file should create a file")
	}

	dir, err := rt.Call("filesystem", "temp_dir", []Value{String{"ember-test-*"}})
	if err != nil {
		t.Fatalf("temp_dir: %v", err)
	}
	defer os.RemoveAll(AsString(dir))
	isDir, _ := rt.Call("filesystem", "is_dir", []Value{dir})
	if !Equal(isDir, Bool{true}) {
		t.Error("temp_dir should create a directory")
	}
}

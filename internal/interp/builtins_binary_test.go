package interp

import (
	"path/filepath"
	"testing"
)

func TestBinaryWriteSeekRead(t *testing.T) {
	rt := NewRuntime()
	path := filepath.Join(t.TempDir(), "data.bin")

	if _, err := rt.Call("binary", "create", []Value{String{path}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	handle, err := rt.Call("binary", "open", []Value{String{path}, String{"r+b"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	payload := Array{Elements: []Value{Int{0xde}, Int{0xad}, Int{0xbe}, Int{0xef}}}
	n, err := rt.Call("binary", "write_bytes", []Value{handle, payload})
	if err != nil {
		t.Fatalf("write_bytes: %v", err)
	}
	if !Equal(n, Int{4}) {
		t.Errorf("written = %v, want 4", n)
	}

	pos, err := rt.Call("binary", "seek", []Value{handle, Int{1}, String{"start"}})
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if !Equal(pos, Int{1}) {
		t.Errorf("seek pos = %v, want 1", pos)
	}
	if pos, err = rt.Call("binary", "tell", []Value{handle}); err != nil {
		t.Fatalf("tell: %v", err)
	} else if !Equal(pos, Int{1}) {
		t.Errorf("tell = %v, want 1", pos)
	}

	got, err := rt.Call("binary", "read_bytes", []Value{handle, Int{2}})
	if err != nil {
		t.Fatalf("read_bytes: %v", err)
	}
	want := Array{Elements: []Value{Int{0xad}, Int{0xbe}}}
	if !Equal(got, want) {
		t.Errorf("read_bytes = %v, want %v", got, want)
	}

	if _, err := rt.Call("binary", "close", []Value{handle}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := rt.Call("binary", "read_bytes", []Value{handle, Int{1}}); err == nil {
		t.Error("read after close should fail")
	} else if KindOf(err) != InvalidHandle {
		t.Errorf("expected invalid handle, got %v", KindOf(err))
	}
}

// Reading past the end returns the bytes that exist, not an error.
func TestBinaryShortRead(t *testing.T) {
	rt := NewRuntime()
	path := filepath.Join(t.TempDir(), "short.bin")

	handle, err := rt.Call("binary", "open", []Value{String{path}, String{"w+b"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := rt.Call("binary", "write_bytes", []Value{handle, Array{Elements: []Value{Int{1}, Int{2}}}}); err != nil {
		t.Fatalf("write_bytes: %v", err)
	}
	if _, err := rt.Call("binary", "seek", []Value{handle, Int{0}, String{"start"}}); err != nil {
		t.Fatalf("seek: %v", err)
	}
	got, err := rt.Call("binary", "read_bytes", []Value{handle, Int{100}})
	if err != nil {
		t.Fatalf("read_bytes: %v", err)
	}
	if len(got.(Array).Elements) != 2 {
		t.Errorf("got %d bytes, want 2", len(got.(Array).Elements))
	}
	if _, err := rt.Call("binary", "close", []Value{handle}); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestBinaryModeAliases(t *testing.T) {
	rt := NewRuntime()
	path := filepath.Join(t.TempDir(), "alias.bin")

	handle, err := rt.Call("binary", "open", []Value{String{path}, String{"w"}})
	if err != nil {
		t.Fatalf("open with alias: %v", err)
	}
	if _, err := rt.Call("binary", "close", []Value{handle}); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err = rt.Call("binary", "open", []Value{String{path}, String{"z"}})
	if err == nil {
		t.Fatal("invalid mode should fail")
	}
	if KindOf(err) != DomainError {
		t.Errorf("expected domain error, got %v", KindOf(err))
	}
}

func TestBinaryWriteBytesValidation(t *testing.T) {
	rt := NewRuntime()
	path := filepath.Join(t.TempDir(), "bad.bin")
	handle, err := rt.Call("binary", "open", []Value{String{path}, String{"wb"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Call("binary", "close", []Value{handle})

	for _, bad := range []Value{Int{256}, Int{-1}} {
		_, err := rt.Call("binary", "write_bytes", []Value{handle, Array{Elements: []Value{bad}}})
		if err == nil {
			t.Errorf("write_bytes(%v) should fail", bad)
			continue
		}
		if KindOf(err) != DomainError {
			t.Errorf("write_bytes(%v) kind = %v, want domain error", bad, KindOf(err))
		}
	}
}

func TestBinaryStringConversions(t *testing.T) {
	rt := NewRuntime()

	bytesVal, err := rt.Call("binary", "string_to_bytes", []Value{String{"Go"}})
	if err != nil {
		t.Fatalf("string_to_bytes: %v", err)
	}
	want := Array{Elements: []Value{Int{'G'}, Int{'o'}}}
	if !Equal(bytesVal, want) {
		t.Errorf("string_to_bytes = %v, want %v", bytesVal, want)
	}

	back, err := rt.Call("binary", "bytes_to_string", []Value{bytesVal})
	if err != nil {
		t.Fatalf("bytes_to_string: %v", err)
	}
	if !Equal(back, String{"Go"}) {
		t.Errorf("bytes_to_string = %v, want Go", back)
	}
}

func TestBinaryStats(t *testing.T) {
	rt := NewRuntime()
	path := filepath.Join(t.TempDir(), "stats.bin")

	handle, err := rt.Call("binary", "open", []Value{String{path}, String{"w+b"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := rt.Call("binary", "write_bytes", []Value{handle, Array{Elements: []Value{Int{1}, Int{2}, Int{3}}}}); err != nil {
		t.Fatalf("write_bytes: %v", err)
	}
	if _, err := rt.Call("binary", "seek", []Value{handle, Int{0}, String{"start"}}); err != nil {
		t.Fatalf("seek: %v", err)
	}

	stats, err := rt.Call("binary", "stats", nil)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	entries := stats.(Map).Entries
	if !Equal(entries["open_files"], Int{1}) {
		t.Errorf("open_files = %v, want 1", entries["open_files"])
	}
	if !Equal(entries["total_bytes_written"], Int{3}) {
		t.Errorf("total_bytes_written = %v, want 3", entries["total_bytes_written"])
	}
	if !Equal(entries["total_seeks"], Int{1}) {
		t.Errorf("total_seeks = %v, want 1", entries["total_seeks"])
	}
	if _, err := rt.Call("binary", "close", []Value{handle}); err != nil {
		t.Fatalf("close: %v", err)
	}
}

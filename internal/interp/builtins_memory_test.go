package interp

import (
	"math"
	"testing"
)

func TestBufferRoundTrip(t *testing.T) {
	rt := NewRuntime()

	handle, err := rt.Call("memory", "create_buffer", []Value{Int{64}})
	if err != nil {
		t.Fatalf("create_buffer: %v", err)
	}

	n, err := rt.Call("memory", "buffer_write_string", []Value{handle, Int{8}, String{"hello"}})
	if err != nil {
		t.Fatalf("buffer_write_string: %v", err)
	}
	if !Equal(n, Int{5}) {
		t.Errorf("wrote %v bytes, want 5", n)
	}

	got, err := rt.Call("memory", "buffer_read_string", []Value{handle, Int{8}, Int{5}})
	if err != nil {
		t.Fatalf("buffer_read_string: %v", err)
	}
	if !Equal(got, String{"hello"}) {
		t.Errorf("read %v, want hello", got)
	}

	if _, err := rt.Call("memory", "free_buffer", []Value{handle}); err != nil {
		t.Fatalf("free_buffer: %v", err)
	}
	if _, err := rt.Call("memory", "buffer_read_string", []Value{handle, Int{0}, Int{1}}); err == nil {
		t.Error("read after free should fail")
	} else if KindOf(err) != InvalidHandle {
		t.Errorf("expected invalid handle, got %v", KindOf(err))
	}
}

func TestBufferBoundsChecks(t *testing.T) {
	rt := NewRuntime()
	handle, err := rt.Call("memory", "create_buffer", []Value{Int{8}})
	if err != nil {
		t.Fatalf("create_buffer: %v", err)
	}
	testCases := []struct {
		name string
		fn   string
		args []Value
	}{
		{"write_overflow", "buffer_write_string", []Value{handle, Int{5}, String{"toolong"}}},
		{"write_negative_offset", "buffer_write_string", []Value{handle, Int{-1}, String{"x"}}},
		{"read_overflow", "buffer_read_string", []Value{handle, Int{4}, Int{5}}},
		{"read_negative_length", "buffer_read_string", []Value{handle, Int{0}, Int{-1}}},
		// Offsets near MaxInt64 would wrap an offset+length sum negative.
		{"read_wrapping_offset", "buffer_read_string", []Value{handle, Int{math.MaxInt64}, Int{1}}},
		{"read_wrapping_length", "buffer_read_string", []Value{handle, Int{1}, Int{math.MaxInt64}}},
		{"write_wrapping_offset", "buffer_write_string", []Value{handle, Int{math.MaxInt64}, String{"x"}}},
		{"copy_wrapping_src_offset", "buffer_copy", []Value{handle, Int{math.MaxInt64}, handle, Int{0}, Int{1}}},
		{"copy_wrapping_dst_offset", "buffer_copy", []Value{handle, Int{0}, handle, Int{math.MaxInt64}, Int{1}}},
		{"copy_wrapping_length", "buffer_copy", []Value{handle, Int{1}, handle, Int{0}, Int{math.MaxInt64}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rt.Call("memory", tc.fn, tc.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if KindOf(err) != DomainError {
				t.Errorf("expected domain error, got %v", KindOf(err))
			}
		})
	}
}

func TestBufferSizeLimits(t *testing.T) {
	rt := NewRuntime()
	if _, err := rt.Call("memory", "create_buffer", []Value{Int{0}}); err == nil {
		t.Error("zero-size buffer should fail")
	}
	if _, err := rt.Call("memory", "create_buffer", []Value{Int{-1}}); err == nil {
		t.Error("negative-size buffer should fail")
	}
	huge := rt.limits.MaxAllocBytes + 1
	if _, err := rt.Call("memory", "create_buffer", []Value{Int{huge}}); err == nil {
		t.Error("over-limit buffer should fail")
	}
}

func TestBufferCopyBetweenBuffers(t *testing.T) {
	rt := NewRuntime()
	src, _ := rt.Call("memory", "create_buffer", []Value{Int{16}})
	dst, _ := rt.Call("memory", "create_buffer", []Value{Int{16}})

	if _, err := rt.Call("memory", "buffer_write_string", []Value{src, Int{0}, String{"payload"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := rt.Call("memory", "buffer_copy", []Value{src, Int{0}, dst, Int{4}, Int{7}}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	got, err := rt.Call("memory", "buffer_read_string", []Value{dst, Int{4}, Int{7}})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !Equal(got, String{"payload"}) {
		t.Errorf("copied %v, want payload", got)
	}
}

func TestBufferCopyOverlappingSameBuffer(t *testing.T) {
	rt := NewRuntime()
	handle, _ := rt.Call("memory", "create_buffer", []Value{Int{16}})

	if _, err := rt.Call("memory", "buffer_write_string", []Value{handle, Int{0}, String{"abcdef"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Overlapping forward copy within one buffer.
	if _, err := rt.Call("memory", "buffer_copy", []Value{handle, Int{0}, handle, Int{2}, Int{6}}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	got, err := rt.Call("memory", "buffer_read_string", []Value{handle, Int{2}, Int{6}})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !Equal(got, String{"abcdef"}) {
		t.Errorf("overlap copy produced %v, want abcdef", got)
	}
}

func TestMemoryStatsTracksLifecycle(t *testing.T) {
	rt := NewRuntime()
	h1, _ := rt.Call("memory", "create_buffer", []Value{Int{100}})
	h2, _ := rt.Call("memory", "create_buffer", []Value{Int{50}})

	stats, err := rt.Call("memory", "stats", nil)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	entries := stats.(Map).Entries
	if !Equal(entries["live_buffers"], Int{2}) {
		t.Errorf("live_buffers = %v, want 2", entries["live_buffers"])
	}
	if !Equal(entries["allocated_bytes"], Int{150}) {
		t.Errorf("allocated_bytes = %v, want 150", entries["allocated_bytes"])
	}

	rt.Call("memory", "free_buffer", []Value{h1})
	rt.Call("memory", "free_buffer", []Value{h2})

	stats, _ = rt.Call("memory", "stats", nil)
	entries = stats.(Map).Entries
	if !Equal(entries["allocated_bytes"], Int{0}) {
		t.Errorf("allocated_bytes = %v after frees, want 0", entries["allocated_bytes"])
	}
	if !Equal(entries["peak_bytes"], Int{150}) {
		t.Errorf("peak_bytes = %v, want 150", entries["peak_bytes"])
	}
}

func TestPointerFunctionsAreUnsupported(t *testing.T) {
	rt := NewRuntime()
	for _, fn := range []string{"addressof", "deref", "add_offset", "alloc", "free", "write_byte", "read_byte"} {
		_, err := rt.Call("memory", fn, nil)
		if err == nil {
			t.Errorf("memory.%s should fail", fn)
			continue
		}
		if KindOf(err) != DomainError {
			t.Errorf("memory.%s: expected domain error, got %v", fn, KindOf(err))
		}
	}
}

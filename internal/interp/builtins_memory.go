package interp

import (
	"sync"
	"sync/atomic"
)

// buffer is one fixed-size allocation. Reads and writes lock the buffer,
// not the registry, so concurrent access to different buffers is free.
type buffer struct {
	mu   sync.Mutex
	data []byte
}

// memoryStats tracks allocation totals across the life of a Runtime.
type memoryStats struct {
	allocated int64 // bytes currently held by live buffers
	peak      int64
	allocs    int64
	frees     int64
}

func (s *memoryStats) onAlloc(size int64) {
	now := atomic.AddInt64(&s.allocated, size)
	atomic.AddInt64(&s.allocs, 1)
	for {
		peak := atomic.LoadInt64(&s.peak)
		if now <= peak || atomic.CompareAndSwapInt64(&s.peak, peak, now) {
			return
		}
	}
}

func (s *memoryStats) onFree(size int64) {
	atomic.AddInt64(&s.allocated, -size)
	atomic.AddInt64(&s.frees, 1)
}

func memoryModule() *Module {
	unsupported := func(name string) *Builtin {
		full := "memory." + name
		return &Builtin{Name: name, Fn: func(_ *Runtime, _ []Value) (Value, error) {
			return nil, domainErrorf("%s is not supported: raw pointer access is unavailable", full)
		}}
	}
	return &Module{
		Name: "memory",
		Funcs: map[string]*Builtin{
			"create_buffer":       {Name: "create_buffer", Fn: memoryCreateBuffer},
			"free_buffer":         {Name: "free_buffer", Fn: memoryFreeBuffer},
			"buffer_write_string": {Name: "buffer_write_string", Fn: memoryBufferWriteString},
			"buffer_read_string":  {Name: "buffer_read_string", Fn: memoryBufferReadString},
			"buffer_copy":         {Name: "buffer_copy", Fn: memoryBufferCopy},
			"stats":               {Name: "stats", Fn: memoryStatsFn},

			// Raw pointer arithmetic has no safe rendering here, so these
			// fail loudly instead of fabricating addresses.
			"addressof":  unsupported("addressof"),
			"deref":      unsupported("deref"),
			"add_offset": unsupported("add_offset"),
			"alloc":      unsupported("alloc"),
			"free":       unsupported("free"),
			"write_byte": unsupported("write_byte"),
			"read_byte":  unsupported("read_byte"),
		},
	}
}

func memoryCreateBuffer(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("memory.create_buffer", args, 1); err != nil {
		return nil, err
	}
	size, err := argInt("memory.create_buffer", args, 0)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, domainErrorf("buffer size must be positive, got %d", size)
	}
	if size > rt.limits.MaxAllocBytes {
		return nil, domainErrorf("buffer size %d exceeds the limit of %d bytes", size, rt.limits.MaxAllocBytes)
	}
	id := rt.buffers.Create(&buffer{data: make([]byte, size)})
	rt.memStats.onAlloc(size)
	return Int{id}, nil
}

func memoryFreeBuffer(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("memory.free_buffer", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("memory.free_buffer", args, 0)
	if err != nil {
		return nil, err
	}
	buf, err := rt.buffers.Remove(id)
	if err != nil {
		return nil, err
	}
	rt.memStats.onFree(int64(len(buf.data)))
	return Null{}, nil
}

func memoryBufferWriteString(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("memory.buffer_write_string", args, 3); err != nil {
		return nil, err
	}
	id, err := argHandle("memory.buffer_write_string", args, 0)
	if err != nil {
		return nil, err
	}
	offset, err := argInt("memory.buffer_write_string", args, 1)
	if err != nil {
		return nil, err
	}
	text, err := argString("memory.buffer_write_string", args, 2)
	if err != nil {
		return nil, err
	}
	buf, err := rt.buffers.Get(id)
	if err != nil {
		return nil, err
	}
	buf.mu.Lock()
	defer buf.mu.Unlock()
	// Compare against size-offset rather than offset+length so a huge
	// offset cannot wrap the sum negative and slip past the check.
	if offset < 0 || offset > int64(len(buf.data)) || int64(len(text)) > int64(len(buf.data))-offset {
		return nil, domainErrorf("write of %d byte(s) at offset %d overflows buffer of size %d", len(text), offset, len(buf.data))
	}
	copy(buf.data[offset:], text)
	return Int{int64(len(text))}, nil
}

func memoryBufferReadString(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("memory.buffer_read_string", args, 3); err != nil {
		return nil, err
	}
	id, err := argHandle("memory.buffer_read_string", args, 0)
	if err != nil {
		return nil, err
	}
	offset, err := argInt("memory.buffer_read_string", args, 1)
	if err != nil {
		return nil, err
	}
	length, err := argInt("memory.buffer_read_string", args, 2)
	if err != nil {
		return nil, err
	}
	buf, err := rt.buffers.Get(id)
	if err != nil {
		return nil, err
	}
	buf.mu.Lock()
	defer buf.mu.Unlock()
	if offset < 0 || length < 0 || offset > int64(len(buf.data)) || length > int64(len(buf.data))-offset {
		return nil, domainErrorf("read of %d byte(s) at offset %d overflows buffer of size %d", length, offset, len(buf.data))
	}
	return String{string(buf.data[offset : offset+length])}, nil
}

// memoryBufferCopy copies length bytes between buffers. Source and
// destination may be the same handle with overlapping ranges; the copy
// goes through an intermediate slice so the overlap is safe.
func memoryBufferCopy(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("memory.buffer_copy", args, 5); err != nil {
		return nil, err
	}
	srcID, err := argHandle("memory.buffer_copy", args, 0)
	if err != nil {
		return nil, err
	}
	srcOff, err := argInt("memory.buffer_copy", args, 1)
	if err != nil {
		return nil, err
	}
	dstID, err := argHandle("memory.buffer_copy", args, 2)
	if err != nil {
		return nil, err
	}
	dstOff, err := argInt("memory.buffer_copy", args, 3)
	if err != nil {
		return nil, err
	}
	length, err := argInt("memory.buffer_copy", args, 4)
	if err != nil {
		return nil, err
	}
	src, err := rt.buffers.Get(srcID)
	if err != nil {
		return nil, err
	}
	dst := src
	if dstID != srcID {
		dst, err = rt.buffers.Get(dstID)
		if err != nil {
			return nil, err
		}
	}
	// Lock in handle order so two concurrent copies between the same pair
	// of buffers cannot deadlock.
	if srcID == dstID {
		src.mu.Lock()
		defer src.mu.Unlock()
	} else if srcID < dstID {
		src.mu.Lock()
		defer src.mu.Unlock()
		dst.mu.Lock()
		defer dst.mu.Unlock()
	} else {
		dst.mu.Lock()
		defer dst.mu.Unlock()
		src.mu.Lock()
		defer src.mu.Unlock()
	}
	if srcOff < 0 || length < 0 || srcOff > int64(len(src.data)) || length > int64(len(src.data))-srcOff {
		return nil, domainErrorf("copy of %d byte(s) at offset %d overflows source buffer of size %d", length, srcOff, len(src.data))
	}
	if dstOff < 0 || dstOff > int64(len(dst.data)) || length > int64(len(dst.data))-dstOff {
		return nil, domainErrorf("copy of %d byte(s) at offset %d overflows destination buffer of size %d", length, dstOff, len(dst.data))
	}
	tmp := make([]byte, length)
	copy(tmp, src.data[srcOff:srcOff+length])
	copy(dst.data[dstOff:], tmp)
	return Int{length}, nil
}

func memoryStatsFn(rt *Runtime, args []Value) (Value, error) {
	if err := wantNone("memory.stats", args); err != nil {
		return nil, err
	}
	return Map{map[string]Value{
		"live_buffers":    Int{int64(rt.buffers.Len())},
		"allocated_bytes": Int{atomic.LoadInt64(&rt.memStats.allocated)},
		"peak_bytes":      Int{atomic.LoadInt64(&rt.memStats.peak)},
		"allocations":     Int{atomic.LoadInt64(&rt.memStats.allocs)},
		"frees":           Int{atomic.LoadInt64(&rt.memStats.frees)},
	}}, nil
}

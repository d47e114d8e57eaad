package interp

import (
	"runtime"
	"strconv"
	"strings"
	"time"
)

// thread is one spawned unit of work. The goroutine closes done when the
// work finishes; join consumes the registry entry and blocks on done
// outside the registry lock.
type thread struct {
	name    string
	started time.Time
	done    chan struct{}
}

// scriptMutex is a script-visible lock. A channel of capacity one instead
// of sync.Mutex because a script may lock in one builtin call and unlock
// in another, and unlocking an unlocked mutex must be a reportable error
// rather than undefined behavior.
type scriptMutex struct {
	ch chan struct{}
}

func threadModule() *Module {
	return &Module{
		Name: "thread",
		Funcs: map[string]*Builtin{
			"create":        {Name: "create", Fn: threadCreate},
			"join":          {Name: "join", Fn: threadJoin},
			"is_running":    {Name: "is_running", Fn: threadIsRunning},
			"sleep":         {Name: "sleep", Fn: threadSleep},
			"current":       {Name: "current", Fn: threadCurrent},
			"cpu_count":     {Name: "cpu_count", Fn: threadCPUCount},
			"mutex_create":  {Name: "mutex_create", Fn: threadMutexCreate},
			"mutex_lock":    {Name: "mutex_lock", Fn: threadMutexLock},
			"mutex_unlock":  {Name: "mutex_unlock", Fn: threadMutexUnlock},
			"mutex_destroy": {Name: "mutex_destroy", Fn: threadMutexDestroy},
		},
	}
}

// threadCreate spawns a named timed task. The optional second argument is
// the simulated workload duration in milliseconds, default zero.
func threadCreate(rt *Runtime, args []Value) (Value, error) {
	if err := wantRange("thread.create", args, 1, 2); err != nil {
		return nil, err
	}
	name, err := argString("thread.create", args, 0)
	if err != nil {
		return nil, err
	}
	var workMs int64
	if len(args) == 2 {
		workMs, err = argInt("thread.create", args, 1)
		if err != nil {
			return nil, err
		}
		if workMs < 0 {
			return nil, domainErrorf("work duration cannot be negative")
		}
	}
	t := &thread{name: name, started: time.Now(), done: make(chan struct{})}
	go func() {
		if workMs > 0 {
			time.Sleep(time.Duration(workMs) * time.Millisecond)
		}
		close(t.done)
	}()
	id := rt.threads.Create(t)
	return Int{id}, nil
}

// threadJoin consumes the handle and blocks until the task finishes.
// Returns the elapsed milliseconds since the task started.
func threadJoin(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("thread.join", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("thread.join", args, 0)
	if err != nil {
		return nil, err
	}
	t, err := rt.threads.Remove(id)
	if err != nil {
		return nil, err
	}
	<-t.done
	return Int{time.Since(t.started).Milliseconds()}, nil
}

func threadIsRunning(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("thread.is_running", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("thread.is_running", args, 0)
	if err != nil {
		return nil, err
	}
	t, err := rt.threads.Get(id)
	if err != nil {
		return nil, err
	}
	select {
	case <-t.done:
		return Bool{false}, nil
	default:
		return Bool{true}, nil
	}
}

func threadSleep(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("thread.sleep", args, 1); err != nil {
		return nil, err
	}
	ms, err := argInt("thread.sleep", args, 0)
	if err != nil {
		return nil, err
	}
	if ms < 0 {
		return nil, domainErrorf("sleep duration cannot be negative")
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return Null{}, nil
}

func threadCurrent(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("thread.current", args); err != nil {
		return nil, err
	}
	return Int{goroutineID()}, nil
}

// goroutineID parses the header line of the current goroutine's stack.
// There is no exported identity for goroutines; the id is informational
// only and never used as a handle.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func threadCPUCount(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("thread.cpu_count", args); err != nil {
		return nil, err
	}
	return Int{int64(runtime.NumCPU())}, nil
}

func threadMutexCreate(rt *Runtime, args []Value) (Value, error) {
	if err := wantNone("thread.mutex_create", args); err != nil {
		return nil, err
	}
	id := rt.mutexes.Create(&scriptMutex{ch: make(chan struct{}, 1)})
	return Int{id}, nil
}

func threadMutexLock(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("thread.mutex_lock", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("thread.mutex_lock", args, 0)
	if err != nil {
		return nil, err
	}
	m, err := rt.mutexes.Get(id)
	if err != nil {
		return nil, err
	}
	m.ch <- struct{}{}
	return Null{}, nil
}

func threadMutexUnlock(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("thread.mutex_unlock", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("thread.mutex_unlock", args, 0)
	if err != nil {
		return nil, err
	}
	m, err := rt.mutexes.Get(id)
	if err != nil {
		return nil, err
	}
	select {
	case <-m.ch:
		return Null{}, nil
	default:
		return nil, domainErrorf("mutex %d is not locked", id)
	}
}

func threadMutexDestroy(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("thread.mutex_destroy", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("thread.mutex_destroy", args, 0)
	if err != nil {
		return nil, err
	}
	if _, err := rt.mutexes.Remove(id); err != nil {
		return nil, err
	}
	return Null{}, nil
}

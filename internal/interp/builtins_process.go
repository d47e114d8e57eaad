package interp

import (
	"bytes"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// process is one spawned command with piped stdio. Two goroutines drain
// stdout and stderr into buffers so the child never blocks on a full pipe.
type process struct {
	command string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  outputBuffer
	stderr  outputBuffer

	drained sync.WaitGroup
}

type outputBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *outputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// take returns everything buffered so far and resets the buffer.
func (b *outputBuffer) take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.buf.String()
	b.buf.Reset()
	return out
}

func processModule() *Module {
	return &Module{
		Name: "process",
		Funcs: map[string]*Builtin{
			"create":      {Name: "create", Fn: processCreate},
			"wait":        {Name: "wait", Fn: processWait},
			"is_running":  {Name: "is_running", Fn: processIsRunning},
			"kill":        {Name: "kill", Fn: processKill},
			"signal":      {Name: "signal", Fn: processSignal},
			"info":        {Name: "info", Fn: processInfo},
			"read_stdout": {Name: "read_stdout", Fn: processReadStdout},
			"read_stderr": {Name: "read_stderr", Fn: processReadStderr},
			"write_stdin": {Name: "write_stdin", Fn: processWriteStdin},
		},
	}
}

// processCreate splits the command on whitespace; there is no shell
// interpretation of quotes or globs.
func processCreate(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("process.create", args, 1); err != nil {
		return nil, err
	}
	command, err := argString("process.create", args, 0)
	if err != nil {
		return nil, err
	}
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, domainErrorf("empty command")
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	stdin, pipeErr := cmd.StdinPipe()
	if pipeErr != nil {
		return nil, ioErrorf("cannot create stdin pipe: %v", pipeErr)
	}
	stdoutPipe, pipeErr := cmd.StdoutPipe()
	if pipeErr != nil {
		return nil, ioErrorf("cannot create stdout pipe: %v", pipeErr)
	}
	stderrPipe, pipeErr := cmd.StderrPipe()
	if pipeErr != nil {
		return nil, ioErrorf("cannot create stderr pipe: %v", pipeErr)
	}
	p := &process{command: command, cmd: cmd, stdin: stdin}
	if startErr := cmd.Start(); startErr != nil {
		return nil, ioErrorf("cannot start command '%s': %v", command, startErr)
	}
	p.drained.Add(2)
	go func() {
		defer p.drained.Done()
		io.Copy(&p.stdout, stdoutPipe)
	}()
	go func() {
		defer p.drained.Done()
		io.Copy(&p.stderr, stderrPipe)
	}()
	id := rt.procs.Create(p)
	rt.log.Debug("process started",
		zap.String("command", command),
		zap.Int64("handle", id),
		zap.Int("pid", cmd.Process.Pid))
	return Int{id}, nil
}

// processWait removes the entry first, then blocks outside the registry
// lock. The handle is dead afterwards whatever the exit status.
func processWait(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("process.wait", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("process.wait", args, 0)
	if err != nil {
		return nil, err
	}
	p, err := rt.procs.Remove(id)
	if err != nil {
		return nil, err
	}
	p.stdin.Close()
	p.drained.Wait()
	waitErr := p.cmd.Wait()
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, ioErrorf("cannot wait for command '%s': %v", p.command, waitErr)
		}
	}
	return Int{int64(p.cmd.ProcessState.ExitCode())}, nil
}

func processIsRunning(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("process.is_running", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("process.is_running", args, 0)
	if err != nil {
		return nil, err
	}
	p, err := rt.procs.Get(id)
	if err != nil {
		return nil, err
	}
	// Signal 0 probes liveness without delivering anything.
	alive := p.cmd.Process.Signal(syscall.Signal(0)) == nil
	return Bool{alive}, nil
}

func processKill(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("process.kill", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("process.kill", args, 0)
	if err != nil {
		return nil, err
	}
	p, err := rt.procs.Get(id)
	if err != nil {
		return nil, err
	}
	if killErr := p.cmd.Process.Kill(); killErr != nil {
		return nil, ioErrorf("cannot kill process: %v", killErr)
	}
	return Null{}, nil
}

func processSignal(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("process.signal", args, 2); err != nil {
		return nil, err
	}
	id, err := argHandle("process.signal", args, 0)
	if err != nil {
		return nil, err
	}
	signum, err := argInt("process.signal", args, 1)
	if err != nil {
		return nil, err
	}
	if signum < 0 {
		return nil, domainErrorf("invalid signal number %d", signum)
	}
	p, err := rt.procs.Get(id)
	if err != nil {
		return nil, err
	}
	if sigErr := p.cmd.Process.Signal(syscall.Signal(signum)); sigErr != nil {
		return nil, ioErrorf("cannot signal process: %v", sigErr)
	}
	return Null{}, nil
}

func processInfo(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("process.info", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("process.info", args, 0)
	if err != nil {
		return nil, err
	}
	p, err := rt.procs.Get(id)
	if err != nil {
		return nil, err
	}
	alive := p.cmd.Process.Signal(syscall.Signal(0)) == nil
	return Map{map[string]Value{
		"pid":     Int{int64(p.cmd.Process.Pid)},
		"command": String{p.command},
		"running": Bool{alive},
	}}, nil
}

func processReadStdout(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("process.read_stdout", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("process.read_stdout", args, 0)
	if err != nil {
		return nil, err
	}
	p, err := rt.procs.Get(id)
	if err != nil {
		return nil, err
	}
	return String{p.stdout.take()}, nil
}

func processReadStderr(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("process.read_stderr", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("process.read_stderr", args, 0)
	if err != nil {
		return nil, err
	}
	p, err := rt.procs.Get(id)
	if err != nil {
		return nil, err
	}
	return String{p.stderr.take()}, nil
}

func processWriteStdin(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("process.write_stdin", args, 2); err != nil {
		return nil, err
	}
	id, err := argHandle("process.write_stdin", args, 0)
	if err != nil {
		return nil, err
	}
	data, err := argString("process.write_stdin", args, 1)
	if err != nil {
		return nil, err
	}
	p, err := rt.procs.Get(id)
	if err != nil {
		return nil, err
	}
	n, writeErr := io.WriteString(p.stdin, data)
	if writeErr != nil {
		return nil, ioErrorf("cannot write to stdin: %v", writeErr)
	}
	return Int{int64(n)}, nil
}

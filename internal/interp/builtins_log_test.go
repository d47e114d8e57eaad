package interp

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogLevelsAndFields(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	rt := NewRuntime(WithLogger(zap.New(core)))

	if _, err := rt.Call("log", "infolog", []Value{String{"starting up"}}); err != nil {
		t.Fatalf("infolog: %v", err)
	}
	if _, err := rt.Call("log", "errorlog", []Value{String{"broken"}, Map{Entries: map[string]Value{
		"attempt": Int{3},
		"fatal":   Bool{false},
		"reason":  String{"timeout"},
	}}}); err != nil {
		t.Fatalf("errorlog: %v", err)
	}

	logs := recorded.All()
	if len(logs) != 2 {
		t.Fatalf("got %d entries, want 2", len(logs))
	}
	if logs[0].Level != zapcore.InfoLevel || logs[0].Message != "starting up" {
		t.Errorf("first entry = %v %q", logs[0].Level, logs[0].Message)
	}
	if logs[1].Level != zapcore.ErrorLevel {
		t.Errorf("second entry level = %v, want error", logs[1].Level)
	}
	fields := logs[1].ContextMap()
	if fields["attempt"] != int64(3) {
		t.Errorf("attempt = %v, want 3", fields["attempt"])
	}
	if fields["fatal"] != false {
		t.Errorf("fatal = %v, want false", fields["fatal"])
	}
	if fields["reason"] != "timeout" {
		t.Errorf("reason = %v, want timeout", fields["reason"])
	}
}

func TestLogArity(t *testing.T) {
	rt := NewRuntime()
	_, err := rt.Call("log", "debuglog", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != ArityError {
		t.Errorf("expected arity error, got %v", KindOf(err))
	}
}

package interp

import (
	"math"
	"testing"
)

func TestMathBinaryOps(t *testing.T) {
	rt := NewRuntime()

	tests := []struct {
		fn   string
		a, b Value
		want float64
	}{
		{"add", Int{1}, Int{2}, 3},
		{"add", Float{0.5}, Float{0.25}, 0.75},
		{"subtract", Int{5}, Int{7}, -2},
		{"multiply", Int{3}, Float{1.5}, 4.5},
		{"divide", Int{7}, Int{2}, 3.5},
		{"power", Int{2}, Int{10}, 1024},
		{"log", Int{8}, Int{2}, 3},
		{"modulo", Int{7}, Int{3}, 1},
	}
	for _, tt := range tests {
		got, err := rt.Call("math", tt.fn, []Value{tt.a, tt.b})
		if err != nil {
			t.Errorf("%s(%v, %v): %v", tt.fn, tt.a, tt.b, err)
			continue
		}
		if v := got.(Float).Value; math.Abs(v-tt.want) > 1e-9 {
			t.Errorf("%s(%v, %v) = %v, want %v", tt.fn, tt.a, tt.b, v, tt.want)
		}
	}
}

func TestMathUnaryOps(t *testing.T) {
	rt := NewRuntime()

	tests := []struct {
		fn   string
		arg  Value
		want float64
	}{
		{"sqrt", Int{16}, 4},
		{"abs", Float{-2.5}, 2.5},
		{"round", Float{2.4}, 2},
		{"round", Float{2.5}, 3},
		{"floor", Float{2.9}, 2},
		{"ceil", Float{2.1}, 3},
		{"sin", Int{0}, 0},
		{"cos", Int{0}, 1},
		{"exp", Int{0}, 1},
	}
	for _, tt := range tests {
		got, err := rt.Call("math", tt.fn, []Value{tt.arg})
		if err != nil {
			t.Errorf("%s(%v): %v", tt.fn, tt.arg, err)
			continue
		}
		if v := got.(Float).Value; math.Abs(v-tt.want) > 1e-9 {
			t.Errorf("%s(%v) = %v, want %v", tt.fn, tt.arg, v, tt.want)
		}
	}
}

func TestMathDomainErrors(t *testing.T) {
	rt := NewRuntime()

	tests := []struct {
		fn   string
		args []Value
	}{
		{"divide", []Value{Int{1}, Int{0}}},
		{"modulo", []Value{Int{1}, Int{0}}},
		{"sqrt", []Value{Int{-4}}},
		{"log", []Value{Int{-1}, Int{2}}},
		{"log", []Value{Int{8}, Int{1}}},
	}
	for _, tt := range tests {
		_, err := rt.Call("math", tt.fn, tt.args)
		if err == nil {
			t.Errorf("%s(%v) should fail", tt.fn, tt.args)
			continue
		}
		if KindOf(err) != DomainError {
			t.Errorf("%s(%v) kind = %v, want domain error", tt.fn, tt.args, KindOf(err))
		}
	}
}

func TestMathMaxMin(t *testing.T) {
	rt := NewRuntime()

	got, err := rt.Call("math", "max", []Value{Int{3}, Float{7.5}, Int{-2}})
	if err != nil {
		t.Fatalf("max: %v", err)
	}
	if !Equal(got, Float{7.5}) {
		t.Errorf("max = %v, want 7.5", got)
	}

	got, err = rt.Call("math", "min", []Value{Int{3}, Float{7.5}, Int{-2}})
	if err != nil {
		t.Fatalf("min: %v", err)
	}
	if !Equal(got, Float{-2}) {
		t.Errorf("min = %v, want -2", got)
	}

	if _, err := rt.Call("math", "max", nil); err == nil {
		t.Error("max with no arguments should fail")
	} else if KindOf(err) != ArityError {
		t.Errorf("expected arity error, got %v", KindOf(err))
	}
}

func TestMathRandomRange(t *testing.T) {
	rt := NewRuntime()
	for i := 0; i < 20; i++ {
		got, err := rt.Call("math", "random", nil)
		if err != nil {
			t.Fatalf("random: %v", err)
		}
		v := got.(Float).Value
		if v < 0 || v >= 1 {
			t.Fatalf("random = %v, want [0, 1)", v)
		}
	}
}

func TestMathStringCoercion(t *testing.T) {
	rt := NewRuntime()

	got, err := rt.Call("math", "add", []Value{String{"1.5"}, Int{1}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !Equal(got, Float{2.5}) {
		t.Errorf("add = %v, want 2.5", got)
	}

	_, err = rt.Call("math", "add", []Value{String{"nope"}, Int{1}})
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != TypeError {
		t.Errorf("expected type error, got %v", KindOf(err))
	}
}

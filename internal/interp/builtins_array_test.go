package interp

import "testing"

func arr(elems ...Value) Array { return Array{Elements: elems} }

func TestArrayBasics(t *testing.T) {
	rt := NewRuntime()

	tests := []struct {
		fn   string
		args []Value
		want Value
	}{
		{"length", []Value{arr(Int{1}, Int{2})}, Int{2}},
		{"push", []Value{arr(Int{1}), Int{2}}, arr(Int{1}, Int{2})},
		{"pop", []Value{arr(Int{1}, Int{2})}, Int{2}},
		{"get", []Value{arr(String{"a"}, String{"b"}), Int{1}}, String{"b"}},
		{"set", []Value{arr(Int{1}, Int{2}), Int{0}, Int{9}}, arr(Int{9}, Int{2})},
		{"slice", []Value{arr(Int{1}, Int{2}, Int{3}, Int{4}), Int{1}, Int{3}}, arr(Int{2}, Int{3})},
		{"concat", []Value{arr(Int{1}), arr(Int{2})}, arr(Int{1}, Int{2})},
		{"contains", []Value{arr(Int{1}, Float{2}), Int{2}}, Bool{true}},
		{"contains", []Value{arr(Int{1}), Int{2}}, Bool{false}},
		{"index_of", []Value{arr(String{"a"}, String{"b"}), String{"b"}}, Int{1}},
		{"index_of", []Value{arr(String{"a"}), String{"z"}}, Int{-1}},
		{"join", []Value{arr(Int{1}, String{"x"}), String{","}}, String{"1,x"}},
		{"reverse", []Value{arr(Int{1}, Int{2}, Int{3})}, arr(Int{3}, Int{2}, Int{1})},
		{"unique", []Value{arr(Int{1}, Float{1}, Int{2}, Int{1})}, arr(Int{1}, Int{2})},
		{"flatten", []Value{arr(Int{1}, arr(Int{2}, Int{3}), Int{4})}, arr(Int{1}, Int{2}, Int{3}, Int{4})},
	}
	for _, tt := range tests {
		got, err := rt.Call("array", tt.fn, tt.args)
		if err != nil {
			t.Errorf("%s(%v): %v", tt.fn, tt.args, err)
			continue
		}
		if !Equal(got, tt.want) {
			t.Errorf("%s(%v) = %v, want %v", tt.fn, tt.args, got, tt.want)
		}
	}
}

func TestArraySort(t *testing.T) {
	rt := NewRuntime()

	got, err := rt.Call("array", "sort", []Value{arr(Int{3}, Float{1.5}, Int{2})})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if !Equal(got, arr(Float{1.5}, Int{2}, Int{3})) {
		t.Errorf("numeric sort = %v", got)
	}

	got, err = rt.Call("array", "sort", []Value{arr(String{"pear"}, String{"apple"}, Int{10})})
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if !Equal(got, arr(Int{10}, String{"apple"}, String{"pear"})) {
		t.Errorf("lexical sort = %v", got)
	}
}

func TestArrayDomainErrors(t *testing.T) {
	rt := NewRuntime()

	tests := []struct {
		fn   string
		args []Value
	}{
		{"pop", []Value{arr()}},
		{"get", []Value{arr(Int{1}), Int{5}}},
		{"get", []Value{arr(Int{1}), Int{-1}}},
		{"set", []Value{arr(Int{1}), Int{1}, Int{0}}},
		{"slice", []Value{arr(Int{1}, Int{2}), Int{1}, Int{5}}},
	}
	for _, tt := range tests {
		_, err := rt.Call("array", tt.fn, tt.args)
		if err == nil {
			t.Errorf("%s(%v) should fail", tt.fn, tt.args)
			continue
		}
		if KindOf(err) != DomainError {
			t.Errorf("%s(%v) kind = %v, want domain error", tt.fn, tt.args, KindOf(err))
		}
	}
}

// Builtins return fresh arrays rather than mutating their input.
func TestArrayInputsUnchanged(t *testing.T) {
	rt := NewRuntime()

	input := arr(Int{1}, Int{2})
	if _, err := rt.Call("array", "push", []Value{input, Int{3}}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if _, err := rt.Call("array", "set", []Value{input, Int{0}, Int{9}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := rt.Call("array", "sort", []Value{arr(Int{2}, Int{1})}); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if !Equal(input, arr(Int{1}, Int{2})) {
		t.Errorf("input mutated: %v", input)
	}
}

package interp

import "testing"

func TestValidationPredicates(t *testing.T) {
	rt := NewRuntime()

	tests := []struct {
		fn    string
		input string
		want  bool
	}{
		{"email", "user@example.com", true},
		{"email", "not an email", false},
		{"email", "Name <user@example.com>", false},
		{"url", "https://example.com/path", true},
		{"url", "example.com", false},
		{"ip", "192.168.1.1", true},
		{"ip", "::1", true},
		{"ip", "999.0.0.1", false},
		{"phone", "+1 (555) 123-4567", true},
		{"phone", "hello", false},
		{"number", "3.14", true},
		{"number", "abc", false},
		{"integer", "42", true},
		{"integer", "4.2", false},
	}
	for _, tt := range tests {
		got, err := rt.Call("validation", tt.fn, []Value{String{tt.input}})
		if err != nil {
			t.Errorf("%s(%q): %v", tt.fn, tt.input, err)
			continue
		}
		if !Equal(got, Bool{tt.want}) {
			t.Errorf("%s(%q) = %v, want %v", tt.fn, tt.input, got, tt.want)
		}
	}
}

func TestValidationMatches(t *testing.T) {
	rt := NewRuntime()

	got, err := rt.Call("validation", "matches", []Value{String{"abc123"}, String{`^[a-z]+[0-9]+$`}})
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if !Equal(got, Bool{true}) {
		t.Errorf("matches = %v, want true", got)
	}

	_, err = rt.Call("validation", "matches", []Value{String{"x"}, String{"("}})
	if err == nil {
		t.Fatal("bad pattern should fail")
	}
	if KindOf(err) != ParseError {
		t.Errorf("expected parse error, got %v", KindOf(err))
	}
}

func TestValidationRequired(t *testing.T) {
	rt := NewRuntime()

	tests := []struct {
		input Value
		want  bool
	}{
		{Null{}, false},
		{String{""}, false},
		{String{"  \t "}, false},
		{String{"x"}, true},
		{Int{0}, true},
		{Bool{false}, true},
	}
	for _, tt := range tests {
		got, err := rt.Call("validation", "required", []Value{tt.input})
		if err != nil {
			t.Fatalf("required(%v): %v", tt.input, err)
		}
		if !Equal(got, Bool{tt.want}) {
			t.Errorf("required(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidationMinLength(t *testing.T) {
	rt := NewRuntime()

	got, err := rt.Call("validation", "min_length", []Value{String{"héllo"}, Int{5}})
	if err != nil {
		t.Fatalf("min_length: %v", err)
	}
	if !Equal(got, Bool{true}) {
		t.Errorf("min_length = %v, want true", got)
	}

	got, err = rt.Call("validation", "min_length", []Value{String{"hi"}, Int{3}})
	if err != nil {
		t.Fatalf("min_length: %v", err)
	}
	if !Equal(got, Bool{false}) {
		t.Errorf("min_length = %v, want false", got)
	}
}

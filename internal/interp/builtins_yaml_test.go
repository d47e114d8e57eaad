package interp

import "testing"

func TestYAMLParse(t *testing.T) {
	rt := NewRuntime()

	source := "name: ember\ncount: 3\nratio: 0.5\nenabled: true\nitems:\n  - a\n  - b\n"
	got, err := rt.Call("yaml", "parse", []Value{String{source}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Map{Entries: map[string]Value{
		"name":    String{"ember"},
		"count":   Int{3},
		"ratio":   Float{0.5},
		"enabled": Bool{true},
		"items":   Array{Elements: []Value{String{"a"}, String{"b"}}},
	}}
	if !Equal(got, want) {
		t.Errorf("parse = %v, want %v", got, want)
	}
}

func TestYAMLParseError(t *testing.T) {
	rt := NewRuntime()
	_, err := rt.Call("yaml", "parse", []Value{String{"key: [unclosed"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != ParseError {
		t.Errorf("expected parse error, got %v", KindOf(err))
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	rt := NewRuntime()

	original := Map{Entries: map[string]Value{
		"host":  String{"localhost"},
		"port":  Int{8080},
		"tags":  Array{Elements: []Value{String{"a"}, String{"b"}}},
		"debug": Bool{false},
	}}
	text, err := rt.Call("yaml", "stringify", []Value{original})
	if err != nil {
		t.Fatalf("stringify: %v", err)
	}
	back, err := rt.Call("yaml", "parse", []Value{text})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !Equal(back, original) {
		t.Errorf("round trip mismatch: %v vs %v", back, original)
	}
}

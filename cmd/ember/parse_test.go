package main

import (
	"testing"

	"github.com/emberlang/ember/internal/interp"
)

func TestParseCall(t *testing.T) {
	tests := []struct {
		input  string
		module string
		fn     string
		args   []interp.Value
	}{
		{`math.add(1, 2)`, "math", "add", []interp.Value{interp.Int{Value: 1}, interp.Int{Value: 2}}},
		{`date.now()`, "date", "now", nil},
		{`strings.upper("hi")`, "strings", "upper", []interp.Value{interp.String{Value: "hi"}}},
		{`math.add(-1.5, 2e3)`, "math", "add", []interp.Value{interp.Float{Value: -1.5}, interp.Float{Value: 2000}}},
		{`json.stringify([1, "two", null, true])`, "json", "stringify", []interp.Value{
			interp.Array{Elements: []interp.Value{
				interp.Int{Value: 1}, interp.String{Value: "two"}, interp.Null{}, interp.Bool{Value: true},
			}},
		}},
		{`log.infolog("msg", {count: 3, "label": "x"})`, "log", "infolog", []interp.Value{
			interp.String{Value: "msg"},
			interp.Map{Entries: map[string]interp.Value{
				"count": interp.Int{Value: 3},
				"label": interp.String{Value: "x"},
			}},
		}},
		{`strings.split("a\nb", "\n")`, "strings", "split", []interp.Value{
			interp.String{Value: "a\nb"}, interp.String{Value: "\n"},
		}},
		{`  math . add ( 1 , 2 )  `, "math", "add", []interp.Value{interp.Int{Value: 1}, interp.Int{Value: 2}}},
	}
	for _, tt := range tests {
		got, err := parseCall(tt.input)
		if err != nil {
			t.Errorf("parseCall(%q): %v", tt.input, err)
			continue
		}
		if got.module != tt.module || got.fn != tt.fn {
			t.Errorf("parseCall(%q) = %s.%s, want %s.%s", tt.input, got.module, got.fn, tt.module, tt.fn)
		}
		if len(got.args) != len(tt.args) {
			t.Errorf("parseCall(%q) arg count = %d, want %d", tt.input, len(got.args), len(tt.args))
			continue
		}
		for i := range tt.args {
			if !interp.Equal(got.args[i], tt.args[i]) {
				t.Errorf("parseCall(%q) arg %d = %v, want %v", tt.input, i, got.args[i], tt.args[i])
			}
		}
	}
}

func TestParseCallErrors(t *testing.T) {
	inputs := []string{
		``,
		`math`,
		`math.`,
		`math.add`,
		`math.add(`,
		`math.add(1`,
		`math.add(1,)`,
		`math.add(1) extra`,
		`math.add("open)`,
		`math.add(wat)`,
		`json.parse({key})`,
	}
	for _, input := range inputs {
		if _, err := parseCall(input); err == nil {
			t.Errorf("parseCall(%q) should fail", input)
		}
	}
}

func TestExecLines(t *testing.T) {
	rt := interp.NewRuntime()

	src := "# comment\n\nmath.add(1, 2)\nstrings.upper(\"hi\")\n"
	var results []interp.Value
	err := execLines(rt, src, func(v interp.Value) { results = append(results, v) })
	if err != nil {
		t.Fatalf("execLines: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !interp.Equal(results[0], interp.Float{Value: 3}) {
		t.Errorf("first result = %v, want 3", results[0])
	}
	if !interp.Equal(results[1], interp.String{Value: "HI"}) {
		t.Errorf("second result = %v, want HI", results[1])
	}
}

func TestExecLinesReportsLineNumbers(t *testing.T) {
	rt := interp.NewRuntime()
	err := execLines(rt, "math.add(1, 2)\nmath.divide(1, 0)\n", func(interp.Value) {})
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "line 2:"; len(err.Error()) < len(want) || err.Error()[:len(want)] != want {
		t.Errorf("error = %q, want it to start with %q", err.Error(), want)
	}
}

package interp

import (
	"sort"
	"strings"
)

func arrayModule() *Module {
	return &Module{
		Name: "array",
		Funcs: map[string]*Builtin{
			"length":   {Name: "length", Fn: arrayLength},
			"push":     {Name: "push", Fn: arrayPush},
			"pop":      {Name: "pop", Fn: arrayPop},
			"get":      {Name: "get", Fn: arrayGet},
			"set":      {Name: "set", Fn: arraySet},
			"slice":    {Name: "slice", Fn: arraySlice},
			"concat":   {Name: "concat", Fn: arrayConcat},
			"contains": {Name: "contains", Fn: arrayContains},
			"index_of": {Name: "index_of", Fn: arrayIndexOf},
			"join":     {Name: "join", Fn: arrayJoin},
			"reverse":  {Name: "reverse", Fn: arrayReverse},
			"sort":     {Name: "sort", Fn: arraySort},
			"unique":   {Name: "unique", Fn: arrayUnique},
			"flatten":  {Name: "flatten", Fn: arrayFlatten},
		},
	}
}

func arrayLength(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.length", args, 1); err != nil {
		return nil, err
	}
	elems, err := argArray("array.length", args, 0)
	if err != nil {
		return nil, err
	}
	return Int{int64(len(elems))}, nil
}

func arrayPush(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.push", args, 2); err != nil {
		return nil, err
	}
	elems, err := argArray("array.push", args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(elems)+1)
	out = append(out, elems...)
	out = append(out, args[1])
	return Array{out}, nil
}

func arrayPop(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.pop", args, 1); err != nil {
		return nil, err
	}
	elems, err := argArray("array.pop", args, 0)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, domainErrorf("cannot pop from empty array")
	}
	return elems[len(elems)-1], nil
}

func arrayGet(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.get", args, 2); err != nil {
		return nil, err
	}
	elems, err := argArray("array.get", args, 0)
	if err != nil {
		return nil, err
	}
	idx, err := argInt("array.get", args, 1)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= int64(len(elems)) {
		return nil, domainErrorf("array index %d out of bounds for length %d", idx, len(elems))
	}
	return elems[idx], nil
}

func arraySet(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.set", args, 3); err != nil {
		return nil, err
	}
	elems, err := argArray("array.set", args, 0)
	if err != nil {
		return nil, err
	}
	idx, err := argInt("array.set", args, 1)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= int64(len(elems)) {
		return nil, domainErrorf("array index %d out of bounds for length %d", idx, len(elems))
	}
	out := make([]Value, len(elems))
	copy(out, elems)
	out[idx] = args[2]
	return Array{out}, nil
}

func arraySlice(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.slice", args, 3); err != nil {
		return nil, err
	}
	elems, err := argArray("array.slice", args, 0)
	if err != nil {
		return nil, err
	}
	start, err := argInt("array.slice", args, 1)
	if err != nil {
		return nil, err
	}
	end, err := argInt("array.slice", args, 2)
	if err != nil {
		return nil, err
	}
	n := int64(len(elems))
	if start < 0 || end < start || end > n {
		return nil, domainErrorf("slice range [%d, %d) out of bounds for length %d", start, end, n)
	}
	out := make([]Value, end-start)
	copy(out, elems[start:end])
	return Array{out}, nil
}

func arrayConcat(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.concat", args, 2); err != nil {
		return nil, err
	}
	a, err := argArray("array.concat", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := argArray("array.concat", args, 1)
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return Array{out}, nil
}

func arrayContains(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.contains", args, 2); err != nil {
		return nil, err
	}
	elems, err := argArray("array.contains", args, 0)
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		if Equal(e, args[1]) {
			return Bool{true}, nil
		}
	}
	return Bool{false}, nil
}

func arrayIndexOf(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.index_of", args, 2); err != nil {
		return nil, err
	}
	elems, err := argArray("array.index_of", args, 0)
	if err != nil {
		return nil, err
	}
	for i, e := range elems {
		if Equal(e, args[1]) {
			return Int{int64(i)}, nil
		}
	}
	return Int{-1}, nil
}

func arrayJoin(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.join", args, 2); err != nil {
		return nil, err
	}
	elems, err := argArray("array.join", args, 0)
	if err != nil {
		return nil, err
	}
	sep, err := argString("array.join", args, 1)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = AsString(e)
	}
	return String{strings.Join(parts, sep)}, nil
}

func arrayReverse(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.reverse", args, 1); err != nil {
		return nil, err
	}
	elems, err := argArray("array.reverse", args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[len(elems)-1-i] = e
	}
	return Array{out}, nil
}

// arraySort orders by the canonical string rendering except when every
// element is numeric, in which case it sorts numerically.
func arraySort(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.sort", args, 1); err != nil {
		return nil, err
	}
	elems, err := argArray("array.sort", args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(elems))
	copy(out, elems)
	numeric := true
	for _, e := range out {
		if e.Kind() != IntKind && e.Kind() != FloatKind {
			numeric = false
			break
		}
	}
	if numeric {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := AsFloat(out[i])
			b, _ := AsFloat(out[j])
			return a < b
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return AsString(out[i]) < AsString(out[j])
		})
	}
	return Array{out}, nil
}

func arrayUnique(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.unique", args, 1); err != nil {
		return nil, err
	}
	elems, err := argArray("array.unique", args, 0)
	if err != nil {
		return nil, err
	}
	var out []Value
	for _, e := range elems {
		dup := false
		for _, seen := range out {
			if Equal(seen, e) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return Array{out}, nil
}

func arrayFlatten(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("array.flatten", args, 1); err != nil {
		return nil, err
	}
	elems, err := argArray("array.flatten", args, 0)
	if err != nil {
		return nil, err
	}
	var out []Value
	for _, e := range elems {
		if inner, ok := e.(Array); ok {
			out = append(out, inner.Elements...)
		} else {
			out = append(out, e)
		}
	}
	return Array{out}, nil
}

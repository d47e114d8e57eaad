package interp

import (
	"bytes"
	"encoding/json"
)

func jsonModule() *Module {
	return &Module{
		Name: "json",
		Funcs: map[string]*Builtin{
			"parse":     {Name: "parse", Fn: jsonParse},
			"stringify": {Name: "stringify", Fn: jsonStringify},
			"pretty":    {Name: "pretty", Fn: jsonPretty},
			"valid":     {Name: "valid", Fn: jsonValid},
		},
	}
}

// decodeJSON keeps integers as integers: the stock decoder would widen
// every number to float64, so numbers come in as json.Number and get
// split on the presence of a fraction or exponent.
func decodeJSON(text string) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, parseErrorf("invalid JSON: %v", err)
	}
	if dec.More() {
		return nil, parseErrorf("invalid JSON: trailing data")
	}
	return fromJSONNative(raw)
}

func fromJSONNative(v any) (Value, error) {
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return Int{n}, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, parseErrorf("invalid JSON number '%s'", v.String())
		}
		return Float{f}, nil
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			ev, err := fromJSONNative(e)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return Array{elems}, nil
	case map[string]any:
		entries := make(map[string]Value, len(v))
		for k, e := range v {
			ev, err := fromJSONNative(e)
			if err != nil {
				return nil, err
			}
			entries[k] = ev
		}
		return Map{entries}, nil
	default:
		return fromNative(v)
	}
}

func jsonParse(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("json.parse", args, 1); err != nil {
		return nil, err
	}
	text, err := argString("json.parse", args, 0)
	if err != nil {
		return nil, err
	}
	return decodeJSON(text)
}

func jsonStringify(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("json.stringify", args, 1); err != nil {
		return nil, err
	}
	data, err := json.Marshal(toNative(args[0]))
	if err != nil {
		return nil, ioErrorf("cannot serialize value: %v", err)
	}
	return String{string(data)}, nil
}

func jsonPretty(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("json.pretty", args, 1); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(toNative(args[0]), "", "  ")
	if err != nil {
		return nil, ioErrorf("cannot serialize value: %v", err)
	}
	return String{string(data)}, nil
}

func jsonValid(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("json.valid", args, 1); err != nil {
		return nil, err
	}
	text, err := argString("json.valid", args, 0)
	if err != nil {
		return nil, err
	}
	return Bool{json.Valid([]byte(text))}, nil
}

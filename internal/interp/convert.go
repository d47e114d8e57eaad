package interp

import "fmt"

// toNative lowers a Value into plain Go data for the encoders.
func toNative(v Value) any {
	switch v := v.(type) {
	case Null:
		return nil
	case Bool:
		return v.Value
	case Int:
		return v.Value
	case Float:
		return v.Value
	case String:
		return v.Value
	case Array:
		out := make([]any, len(v.Elements))
		for i, e := range v.Elements {
			out[i] = toNative(e)
		}
		return out
	case Map:
		out := make(map[string]any, len(v.Entries))
		for k, e := range v.Entries {
			out[k] = toNative(e)
		}
		return out
	default:
		return AsString(v)
	}
}

// fromNative lifts decoder output back into the Value model. Whole floats
// stay floats; the decoders decide the numeric type, not this function.
func fromNative(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool{v}, nil
	case int:
		return Int{int64(v)}, nil
	case int64:
		return Int{v}, nil
	case uint64:
		return Int{int64(v)}, nil
	case float64:
		return Float{v}, nil
	case string:
		return String{v}, nil
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			ev, err := fromNative(e)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return Array{elems}, nil
	case map[string]any:
		entries := make(map[string]Value, len(v))
		for k, e := range v {
			ev, err := fromNative(e)
			if err != nil {
				return nil, err
			}
			entries[k] = ev
		}
		return Map{entries}, nil
	case map[any]any:
		entries := make(map[string]Value, len(v))
		for k, e := range v {
			ev, err := fromNative(e)
			if err != nil {
				return nil, err
			}
			entries[fmt.Sprintf("%v", k)] = ev
		}
		return Map{entries}, nil
	default:
		return nil, typeErrorf("unsupported value of type %T", v)
	}
}

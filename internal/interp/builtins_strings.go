package interp

import (
	"strings"
	"unicode"
)

func stringsModule() *Module {
	return &Module{
		Name: "strings",
		Funcs: map[string]*Builtin{
			"upper":       {Name: "upper", Fn: stringsUpper},
			"lower":       {Name: "lower", Fn: stringsLower},
			"trim":        {Name: "trim", Fn: stringsTrim},
			"length":      {Name: "length", Fn: stringsLength},
			"contains":    {Name: "contains", Fn: stringsContains},
			"starts_with": {Name: "starts_with", Fn: stringsStartsWith},
			"ends_with":   {Name: "ends_with", Fn: stringsEndsWith},
			"replace":     {Name: "replace", Fn: stringsReplace},
			"split":       {Name: "split", Fn: stringsSplit},
			"join":        {Name: "join", Fn: stringsJoin},
			"substring":   {Name: "substring", Fn: stringsSubstring},
			"index_of":    {Name: "index_of", Fn: stringsIndexOf},
			"repeat":      {Name: "repeat", Fn: stringsRepeat},
			"reverse":     {Name: "reverse", Fn: stringsReverse},
			"capitalize":  {Name: "capitalize", Fn: stringsCapitalize},
			"pad_left":    {Name: "pad_left", Fn: stringsPadLeft},
			"pad_right":   {Name: "pad_right", Fn: stringsPadRight},
		},
	}
}

func unaryString(fn string, args []Value) (string, error) {
	if err := wantExact(fn, args, 1); err != nil {
		return "", err
	}
	return argString(fn, args, 0)
}

func stringsUpper(_ *Runtime, args []Value) (Value, error) {
	s, err := unaryString("strings.upper", args)
	if err != nil {
		return nil, err
	}
	return String{strings.ToUpper(s)}, nil
}

func stringsLower(_ *Runtime, args []Value) (Value, error) {
	s, err := unaryString("strings.lower", args)
	if err != nil {
		return nil, err
	}
	return String{strings.ToLower(s)}, nil
}

func stringsTrim(_ *Runtime, args []Value) (Value, error) {
	s, err := unaryString("strings.trim", args)
	if err != nil {
		return nil, err
	}
	return String{strings.TrimSpace(s)}, nil
}

func stringsLength(_ *Runtime, args []Value) (Value, error) {
	s, err := unaryString("strings.length", args)
	if err != nil {
		return nil, err
	}
	return Int{int64(len([]rune(s)))}, nil
}

func stringsContains(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("strings.contains", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("strings.contains", args, 0)
	if err != nil {
		return nil, err
	}
	sub, err := argString("strings.contains", args, 1)
	if err != nil {
		return nil, err
	}
	return Bool{strings.Contains(s, sub)}, nil
}

func stringsStartsWith(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("strings.starts_with", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("strings.starts_with", args, 0)
	if err != nil {
		return nil, err
	}
	prefix, err := argString("strings.starts_with", args, 1)
	if err != nil {
		return nil, err
	}
	return Bool{strings.HasPrefix(s, prefix)}, nil
}

func stringsEndsWith(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("strings.ends_with", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("strings.ends_with", args, 0)
	if err != nil {
		return nil, err
	}
	suffix, err := argString("strings.ends_with", args, 1)
	if err != nil {
		return nil, err
	}
	return Bool{strings.HasSuffix(s, suffix)}, nil
}

func stringsReplace(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("strings.replace", args, 3); err != nil {
		return nil, err
	}
	s, err := argString("strings.replace", args, 0)
	if err != nil {
		return nil, err
	}
	old, err := argString("strings.replace", args, 1)
	if err != nil {
		return nil, err
	}
	repl, err := argString("strings.replace", args, 2)
	if err != nil {
		return nil, err
	}
	return String{strings.ReplaceAll(s, old, repl)}, nil
}

func stringsSplit(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("strings.split", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("strings.split", args, 0)
	if err != nil {
		return nil, err
	}
	sep, err := argString("strings.split", args, 1)
	if err != nil {
		return nil, err
	}
	var parts []string
	if sep == "" {
		parts = strings.Fields(s)
	} else {
		parts = strings.Split(s, sep)
	}
	elems := make([]Value, len(parts))
	for i, p := range parts {
		elems[i] = String{p}
	}
	return Array{elems}, nil
}

func stringsJoin(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("strings.join", args, 2); err != nil {
		return nil, err
	}
	elems, err := argArray("strings.join", args, 0)
	if err != nil {
		return nil, err
	}
	sep, err := argString("strings.join", args, 1)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = AsString(e)
	}
	return String{strings.Join(parts, sep)}, nil
}

func stringsSubstring(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("strings.substring", args, 3); err != nil {
		return nil, err
	}
	s, err := argString("strings.substring", args, 0)
	if err != nil {
		return nil, err
	}
	start, err := argInt("strings.substring", args, 1)
	if err != nil {
		return nil, err
	}
	end, err := argInt("strings.substring", args, 2)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	n := int64(len(runes))
	if start < 0 || end < start || end > n {
		return nil, domainErrorf("substring range [%d, %d) out of bounds for string of length %d", start, end, n)
	}
	return String{string(runes[start:end])}, nil
}

func stringsIndexOf(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("strings.index_of", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("strings.index_of", args, 0)
	if err != nil {
		return nil, err
	}
	sub, err := argString("strings.index_of", args, 1)
	if err != nil {
		return nil, err
	}
	byteIdx := strings.Index(s, sub)
	if byteIdx < 0 {
		return Int{-1}, nil
	}
	return Int{int64(len([]rune(s[:byteIdx])))}, nil
}

func stringsRepeat(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("strings.repeat", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("strings.repeat", args, 0)
	if err != nil {
		return nil, err
	}
	count, err := argInt("strings.repeat", args, 1)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, domainErrorf("repeat count cannot be negative")
	}
	if count == 0 || len(s) == 0 {
		return String{""}, nil
	}
	// Bound the product before strings.Repeat can overflow on it.
	if int64(len(s)) > rt.limits.MaxAllocBytes/count {
		return nil, domainErrorf("repeat of %d byte(s) %d times exceeds the limit of %d bytes", len(s), count, rt.limits.MaxAllocBytes)
	}
	return String{strings.Repeat(s, int(count))}, nil
}

func stringsReverse(_ *Runtime, args []Value) (Value, error) {
	s, err := unaryString("strings.reverse", args)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return String{string(runes)}, nil
}

func stringsCapitalize(_ *Runtime, args []Value) (Value, error) {
	s, err := unaryString("strings.capitalize", args)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return String{string(runes)}, nil
}

func padString(fn string, args []Value, left bool) (Value, error) {
	if err := wantExact(fn, args, 3); err != nil {
		return nil, err
	}
	s, err := argString(fn, args, 0)
	if err != nil {
		return nil, err
	}
	width, err := argInt(fn, args, 1)
	if err != nil {
		return nil, err
	}
	pad, err := argString(fn, args, 2)
	if err != nil {
		return nil, err
	}
	if pad == "" {
		return nil, domainErrorf("%s: pad string cannot be empty", fn)
	}
	runes := []rune(s)
	for int64(len(runes)) < width {
		if left {
			runes = append([]rune(pad), runes...)
		} else {
			runes = append(runes, []rune(pad)...)
		}
	}
	return String{string(runes)}, nil
}

func stringsPadLeft(_ *Runtime, args []Value) (Value, error) {
	return padString("strings.pad_left", args, true)
}

func stringsPadRight(_ *Runtime, args []Value) (Value, error) {
	return padString("strings.pad_right", args, false)
}

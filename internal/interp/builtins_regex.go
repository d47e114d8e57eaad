package interp

import "regexp"

func regexModule() *Module {
	return &Module{
		Name: "regex",
		Funcs: map[string]*Builtin{
			"match":   {Name: "match", Fn: regexMatch},
			"search":  {Name: "search", Fn: regexSearch},
			"replace": {Name: "replace", Fn: regexReplace},
		},
	}
}

func regexCompile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, parseErrorf("invalid pattern '%s': %v", pattern, err)
	}
	return re, nil
}

func regexMatch(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("regex.match", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("regex.match", args, 0)
	if err != nil {
		return nil, err
	}
	pattern, err := argString("regex.match", args, 1)
	if err != nil {
		return nil, err
	}
	re, err := regexCompile(pattern)
	if err != nil {
		return nil, err
	}
	return Bool{re.MatchString(s)}, nil
}

// regexSearch returns the first match, or Null when nothing matches.
func regexSearch(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("regex.search", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("regex.search", args, 0)
	if err != nil {
		return nil, err
	}
	pattern, err := argString("regex.search", args, 1)
	if err != nil {
		return nil, err
	}
	re, err := regexCompile(pattern)
	if err != nil {
		return nil, err
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return Null{}, nil
	}
	return String{s[loc[0]:loc[1]]}, nil
}

func regexReplace(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("regex.replace", args, 3); err != nil {
		return nil, err
	}
	s, err := argString("regex.replace", args, 0)
	if err != nil {
		return nil, err
	}
	pattern, err := argString("regex.replace", args, 1)
	if err != nil {
		return nil, err
	}
	replacement, err := argString("regex.replace", args, 2)
	if err != nil {
		return nil, err
	}
	re, err := regexCompile(pattern)
	if err != nil {
		return nil, err
	}
	return String{re.ReplaceAllString(s, replacement)}, nil
}

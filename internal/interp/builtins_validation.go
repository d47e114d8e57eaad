package interp

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{6,20}$`)

func validationModule() *Module {
	return &Module{
		Name: "validation",
		Funcs: map[string]*Builtin{
			"email":      {Name: "email", Fn: validationEmail},
			"url":        {Name: "url", Fn: validationURL},
			"ip":         {Name: "ip", Fn: validationIP},
			"phone":      {Name: "phone", Fn: validationPhone},
			"number":     {Name: "number", Fn: validationNumber},
			"integer":    {Name: "integer", Fn: validationInteger},
			"matches":    {Name: "matches", Fn: validationMatches},
			"required":   {Name: "required", Fn: validationRequired},
			"min_length": {Name: "min_length", Fn: validationMinLength},
		},
	}
}

func validationArg(fn string, args []Value) (string, error) {
	if err := wantExact(fn, args, 1); err != nil {
		return "", err
	}
	return argString(fn, args, 0)
}

func validationEmail(_ *Runtime, args []Value) (Value, error) {
	s, err := validationArg("validation.email", args)
	if err != nil {
		return nil, err
	}
	addr, parseErr := mail.ParseAddress(s)
	ok := parseErr == nil && addr.Address == s && strings.Contains(s, "@")
	return Bool{ok}, nil
}

func validationURL(_ *Runtime, args []Value) (Value, error) {
	s, err := validationArg("validation.url", args)
	if err != nil {
		return nil, err
	}
	u, parseErr := url.Parse(s)
	ok := parseErr == nil && u.Scheme != "" && u.Host != ""
	return Bool{ok}, nil
}

func validationIP(_ *Runtime, args []Value) (Value, error) {
	s, err := validationArg("validation.ip", args)
	if err != nil {
		return nil, err
	}
	return Bool{net.ParseIP(s) != nil}, nil
}

func validationPhone(_ *Runtime, args []Value) (Value, error) {
	s, err := validationArg("validation.phone", args)
	if err != nil {
		return nil, err
	}
	return Bool{phonePattern.MatchString(s)}, nil
}

func validationNumber(_ *Runtime, args []Value) (Value, error) {
	s, err := validationArg("validation.number", args)
	if err != nil {
		return nil, err
	}
	_, parseErr := strconv.ParseFloat(s, 64)
	return Bool{parseErr == nil}, nil
}

func validationInteger(_ *Runtime, args []Value) (Value, error) {
	s, err := validationArg("validation.integer", args)
	if err != nil {
		return nil, err
	}
	_, parseErr := strconv.ParseInt(s, 10, 64)
	return Bool{parseErr == nil}, nil
}

// validationRequired rejects Null and whitespace-only strings; every other
// value counts as present.
func validationRequired(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("validation.required", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case Null:
		return Bool{false}, nil
	case String:
		return Bool{strings.TrimSpace(v.Value) != ""}, nil
	default:
		return Bool{true}, nil
	}
}

func validationMinLength(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("validation.min_length", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("validation.min_length", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := argInt("validation.min_length", args, 1)
	if err != nil {
		return nil, err
	}
	return Bool{int64(len([]rune(s))) >= n}, nil
}

func validationMatches(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("validation.matches", args, 2); err != nil {
		return nil, err
	}
	s, err := argString("validation.matches", args, 0)
	if err != nil {
		return nil, err
	}
	pattern, err := argString("validation.matches", args, 1)
	if err != nil {
		return nil, err
	}
	re, compileErr := regexp.Compile(pattern)
	if compileErr != nil {
		return nil, parseErrorf("invalid pattern '%s': %v", pattern, compileErr)
	}
	return Bool{re.MatchString(s)}, nil
}

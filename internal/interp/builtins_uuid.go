package interp

import "github.com/google/uuid"

func uuidModule() *Module {
	return &Module{
		Name: "uuid",
		Funcs: map[string]*Builtin{
			"generate": {Name: "generate", Fn: uuidGenerate},
			"parse":    {Name: "parse", Fn: uuidParse},
			"is_valid": {Name: "is_valid", Fn: uuidIsValid},
		},
	}
}

func uuidGenerate(_ *Runtime, args []Value) (Value, error) {
	if err := wantNone("uuid.generate", args); err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, ioErrorf("cannot generate UUID: %v", err)
	}
	return String{id.String()}, nil
}

// uuidParse decomposes a textual UUID into its canonical form plus the
// version and variant fields.
func uuidParse(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("uuid.parse", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("uuid.parse", args, 0)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, parseErrorf("invalid UUID '%s': %v", s, err)
	}
	return Map{map[string]Value{
		"canonical": String{id.String()},
		"version":   Int{int64(id.Version())},
		"variant":   String{id.Variant().String()},
		"urn":       String{id.URN()},
	}}, nil
}

func uuidIsValid(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("uuid.is_valid", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("uuid.is_valid", args, 0)
	if err != nil {
		return nil, err
	}
	_, parseErr := uuid.Parse(s)
	return Bool{parseErr == nil}, nil
}

package interp

import "gopkg.in/yaml.v3"

func yamlModule() *Module {
	return &Module{
		Name: "yaml",
		Funcs: map[string]*Builtin{
			"parse":     {Name: "parse", Fn: yamlParse},
			"stringify": {Name: "stringify", Fn: yamlStringify},
		},
	}
}

func yamlParse(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("yaml.parse", args, 1); err != nil {
		return nil, err
	}
	text, err := argString("yaml.parse", args, 0)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, parseErrorf("invalid YAML: %v", err)
	}
	return fromNative(raw)
}

func yamlStringify(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("yaml.stringify", args, 1); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(toNative(args[0]))
	if err != nil {
		return nil, ioErrorf("cannot serialize value: %v", err)
	}
	return String{string(data)}, nil
}

package interp

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// astNode is one node in the demonstration AST. Children are handles into
// the node registry rather than pointers, so scripts can build trees
// bottom-up with the same handle discipline as every other resource.
type astNode struct {
	mu       sync.Mutex
	nodeType string
	value    string
	children []int64
}

type symbolTable struct {
	mu   sync.Mutex
	syms map[string]string
}

var keywords = map[string]bool{
	"let": true, "fun": true, "if": true, "else": true,
	"while": true, "for": true, "return": true, "true": true,
	"false": true, "null": true,
}

func compilerModule() *Module {
	return &Module{
		Name: "compiler",
		Funcs: map[string]*Builtin{
			"create_node":         {Name: "create_node", Fn: compilerCreateNode},
			"add_child":           {Name: "add_child", Fn: compilerAddChild},
			"node_to_string":      {Name: "node_to_string", Fn: compilerNodeToString},
			"create_symbol_table": {Name: "create_symbol_table", Fn: compilerCreateSymbolTable},
			"add_symbol":          {Name: "add_symbol", Fn: compilerAddSymbol},
			"lookup_symbol":       {Name: "lookup_symbol", Fn: compilerLookupSymbol},
			"tokenize":            {Name: "tokenize", Fn: compilerTokenize},
			"parse":               {Name: "parse", Fn: compilerParse},
			"generate_ir":         {Name: "generate_ir", Fn: compilerGenerateIR},
			"optimize_ir":         {Name: "optimize_ir", Fn: compilerOptimizeIR},
			"generate_assembly":   {Name: "generate_assembly", Fn: compilerGenerateAssembly},
			"compile":             {Name: "compile", Fn: compilerCompile},
		},
	}
}

func compilerCreateNode(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.create_node", args, 2); err != nil {
		return nil, err
	}
	nodeType, err := argString("compiler.create_node", args, 0)
	if err != nil {
		return nil, err
	}
	value, err := argString("compiler.create_node", args, 1)
	if err != nil {
		return nil, err
	}
	id := rt.nodes.Create(&astNode{nodeType: nodeType, value: value})
	return Int{id}, nil
}

func compilerAddChild(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.add_child", args, 2); err != nil {
		return nil, err
	}
	parentID, err := argHandle("compiler.add_child", args, 0)
	if err != nil {
		return nil, err
	}
	childID, err := argHandle("compiler.add_child", args, 1)
	if err != nil {
		return nil, err
	}
	parent, err := rt.nodes.Get(parentID)
	if err != nil {
		return nil, err
	}
	if _, err := rt.nodes.Get(childID); err != nil {
		return nil, err
	}
	parent.mu.Lock()
	parent.children = append(parent.children, childID)
	parent.mu.Unlock()
	return Null{}, nil
}

func renderNode(rt *Runtime, id int64, depth int) (string, error) {
	if depth > 64 {
		return "", domainErrorf("node tree too deep")
	}
	n, err := rt.nodes.Get(id)
	if err != nil {
		return "", err
	}
	n.mu.Lock()
	nodeType, value := n.nodeType, n.value
	children := make([]int64, len(n.children))
	copy(children, n.children)
	n.mu.Unlock()

	var b strings.Builder
	if value == "" {
		b.WriteString(nodeType)
	} else {
		fmt.Fprintf(&b, "%s(%s)", nodeType, value)
	}
	if len(children) > 0 {
		b.WriteByte('[')
		for i, c := range children {
			if i > 0 {
				b.WriteString(", ")
			}
			s, err := renderNode(rt, c, depth+1)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		b.WriteByte(']')
	}
	return b.String(), nil
}

func compilerNodeToString(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.node_to_string", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("compiler.node_to_string", args, 0)
	if err != nil {
		return nil, err
	}
	s, err := renderNode(rt, id, 0)
	if err != nil {
		return nil, err
	}
	return String{s}, nil
}

func compilerCreateSymbolTable(rt *Runtime, args []Value) (Value, error) {
	if err := wantNone("compiler.create_symbol_table", args); err != nil {
		return nil, err
	}
	id := rt.symtabs.Create(&symbolTable{syms: make(map[string]string)})
	return Int{id}, nil
}

func compilerAddSymbol(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.add_symbol", args, 3); err != nil {
		return nil, err
	}
	id, err := argHandle("compiler.add_symbol", args, 0)
	if err != nil {
		return nil, err
	}
	name, err := argString("compiler.add_symbol", args, 1)
	if err != nil {
		return nil, err
	}
	symType, err := argString("compiler.add_symbol", args, 2)
	if err != nil {
		return nil, err
	}
	tab, err := rt.symtabs.Get(id)
	if err != nil {
		return nil, err
	}
	tab.mu.Lock()
	tab.syms[name] = symType
	tab.mu.Unlock()
	return Null{}, nil
}

func compilerLookupSymbol(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.lookup_symbol", args, 2); err != nil {
		return nil, err
	}
	id, err := argHandle("compiler.lookup_symbol", args, 0)
	if err != nil {
		return nil, err
	}
	name, err := argString("compiler.lookup_symbol", args, 1)
	if err != nil {
		return nil, err
	}
	tab, err := rt.symtabs.Get(id)
	if err != nil {
		return nil, err
	}
	tab.mu.Lock()
	symType, ok := tab.syms[name]
	tab.mu.Unlock()
	if !ok {
		return Null{}, nil
	}
	return String{symType}, nil
}

type token struct {
	kind  string
	value string
}

// lexSource is a small real scanner: numbers, identifiers/keywords,
// quoted strings, and single-character operators.
func lexSource(source string) ([]token, error) {
	var tokens []token
	runes := []rune(source)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			tokens = append(tokens, token{"number", string(runes[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			word := string(runes[i:j])
			kind := "identifier"
			if keywords[word] {
				kind = "keyword"
			}
			tokens = append(tokens, token{kind, word})
			i = j
		case r == '"':
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			if j >= len(runes) {
				return nil, parseErrorf("unterminated string literal at offset %d", i)
			}
			tokens = append(tokens, token{"string", string(runes[i+1 : j])})
			i = j + 1
		default:
			tokens = append(tokens, token{"operator", string(r)})
			i++
		}
	}
	return tokens, nil
}

func compilerTokenize(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.tokenize", args, 1); err != nil {
		return nil, err
	}
	source, err := argString("compiler.tokenize", args, 0)
	if err != nil {
		return nil, err
	}
	tokens, err := lexSource(source)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(tokens))
	for i, t := range tokens {
		out[i] = Map{map[string]Value{
			"type":  String{t.kind},
			"value": String{t.value},
		}}
	}
	return Array{out}, nil
}

// compilerParse builds a flat program node over the token stream. This is
// demonstration-level structure, not a real grammar.
func compilerParse(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.parse", args, 1); err != nil {
		return nil, err
	}
	source, err := argString("compiler.parse", args, 0)
	if err != nil {
		return nil, err
	}
	tokens, err := lexSource(source)
	if err != nil {
		return nil, err
	}
	root := &astNode{nodeType: "program"}
	rootID := rt.nodes.Create(root)
	for _, t := range tokens {
		childID := rt.nodes.Create(&astNode{nodeType: t.kind, value: t.value})
		root.mu.Lock()
		root.children = append(root.children, childID)
		root.mu.Unlock()
	}
	return Int{rootID}, nil
}

func compilerGenerateIR(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.generate_ir", args, 1); err != nil {
		return nil, err
	}
	id, err := argHandle("compiler.generate_ir", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := rt.nodes.Get(id)
	if err != nil {
		return nil, err
	}
	n.mu.Lock()
	children := make([]int64, len(n.children))
	copy(children, n.children)
	n.mu.Unlock()

	ir := []Value{String{"; generated ir"}}
	for _, c := range children {
		child, err := rt.nodes.Get(c)
		if err != nil {
			return nil, err
		}
		child.mu.Lock()
		switch child.nodeType {
		case "number":
			ir = append(ir, String{"push " + child.value})
		case "identifier":
			ir = append(ir, String{"load " + child.value})
		case "operator":
			ir = append(ir, String{"apply " + child.value})
		case "keyword":
			ir = append(ir, String{"nop ; " + child.value})
		default:
			ir = append(ir, String{"nop"})
		}
		child.mu.Unlock()
	}
	return Array{ir}, nil
}

// compilerOptimizeIR drops comment-only and nop lines.
func compilerOptimizeIR(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.optimize_ir", args, 1); err != nil {
		return nil, err
	}
	lines, err := argArray("compiler.optimize_ir", args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(lines))
	for _, l := range lines {
		text := strings.TrimSpace(AsString(l))
		if text == "" || strings.HasPrefix(text, ";") || strings.HasPrefix(text, "nop") {
			continue
		}
		out = append(out, String{text})
	}
	return Array{out}, nil
}

func compilerGenerateAssembly(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.generate_assembly", args, 1); err != nil {
		return nil, err
	}
	lines, err := argArray("compiler.generate_assembly", args, 0)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(".text\n")
	b.WriteString("main:\n")
	for _, l := range lines {
		fields := strings.Fields(AsString(l))
		if len(fields) == 0 {
			continue
		}
		op := fields[0]
		// The opcodes below take one operand; an operand-less line is
		// emitted as a nop like any other unknown instruction.
		if len(fields) < 2 {
			op = "nop"
		}
		switch op {
		case "push":
			fmt.Fprintf(&b, "\tmov rax, %s\n\tpush rax\n", fields[1])
		case "load":
			fmt.Fprintf(&b, "\tmov rax, [%s]\n\tpush rax\n", fields[1])
		case "apply":
			fmt.Fprintf(&b, "\tpop rbx\n\tpop rax\n\t; %s\n\tpush rax\n", fields[1])
		default:
			fmt.Fprintf(&b, "\tnop\n")
		}
	}
	b.WriteString("\tret\n")
	return String{b.String()}, nil
}

// compilerCompile runs the whole demonstration pipeline in one call and
// returns a stage summary.
func compilerCompile(rt *Runtime, args []Value) (Value, error) {
	if err := wantExact("compiler.compile", args, 1); err != nil {
		return nil, err
	}
	source, err := argString("compiler.compile", args, 0)
	if err != nil {
		return nil, err
	}
	tokens, err := compilerTokenize(rt, []Value{String{source}})
	if err != nil {
		return nil, err
	}
	rootID, err := compilerParse(rt, []Value{String{source}})
	if err != nil {
		return nil, err
	}
	ir, err := compilerGenerateIR(rt, []Value{rootID})
	if err != nil {
		return nil, err
	}
	optimized, err := compilerOptimizeIR(rt, []Value{ir})
	if err != nil {
		return nil, err
	}
	assembly, err := compilerGenerateAssembly(rt, []Value{optimized})
	if err != nil {
		return nil, err
	}
	return Map{map[string]Value{
		"tokens":   Int{int64(len(tokens.(Array).Elements))},
		"root":     rootID,
		"ir":       ir,
		"assembly": assembly,
	}}, nil
}

package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/emberlang/ember/internal/interp"
)

// call is one parsed "module.fn(arg, ...)" line.
type call struct {
	module string
	fn     string
	args   []interp.Value
}

type parser struct {
	input []rune
	pos   int
}

func parseCall(line string) (*call, error) {
	p := &parser{input: []rune(line)}
	p.skipSpace()
	module, err := p.ident()
	if err != nil {
		return nil, err
	}
	if !p.consume('.') {
		return nil, fmt.Errorf("expected '.' after module name")
	}
	fn, err := p.ident()
	if err != nil {
		return nil, err
	}
	if !p.consume('(') {
		return nil, fmt.Errorf("expected '(' after function name")
	}
	var args []interp.Value
	p.skipSpace()
	if !p.consume(')') {
		for {
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			p.skipSpace()
			if p.consume(',') {
				continue
			}
			if p.consume(')') {
				break
			}
			return nil, fmt.Errorf("expected ',' or ')' in argument list")
		}
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("trailing input after call")
	}
	return &call{module: module, fn: fn, args: args}, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) consume(r rune) bool {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == r {
		p.pos++
		return true
	}
	return false
}

func (p *parser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		r := p.input[p.pos]
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", fmt.Errorf("expected identifier at offset %d", start)
	}
	return string(p.input[start:p.pos]), nil
}

func (p *parser) value() (interp.Value, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch r := p.input[p.pos]; {
	case r == '"':
		return p.stringLit()
	case r == '[':
		return p.arrayLit()
	case r == '{':
		return p.mapLit()
	case r == '-' || unicode.IsDigit(r):
		return p.numberLit()
	default:
		word, err := p.ident()
		if err != nil {
			return nil, err
		}
		switch word {
		case "null":
			return interp.Null{}, nil
		case "true":
			return interp.Bool{Value: true}, nil
		case "false":
			return interp.Bool{Value: false}, nil
		}
		return nil, fmt.Errorf("unknown literal %q", word)
	}
}

func (p *parser) stringLit() (interp.Value, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.input) {
		r := p.input[p.pos]
		p.pos++
		switch r {
		case '"':
			return interp.String{Value: b.String()}, nil
		case '\\':
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("unterminated escape")
			}
			esc := p.input[p.pos]
			p.pos++
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteRune(esc)
			default:
				return nil, fmt.Errorf("unknown escape \\%c", esc)
			}
		default:
			b.WriteRune(r)
		}
	}
	return nil, fmt.Errorf("unterminated string literal")
}

func (p *parser) numberLit() (interp.Value, error) {
	start := p.pos
	if p.input[p.pos] == '-' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.input) {
		r := p.input[p.pos]
		if unicode.IsDigit(r) {
			p.pos++
			continue
		}
		if r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-' {
			if r == '.' || r == 'e' || r == 'E' {
				isFloat = true
			}
			if r == '+' || r == '-' {
				prev := p.input[p.pos-1]
				if prev != 'e' && prev != 'E' {
					break
				}
			}
			p.pos++
			continue
		}
		break
	}
	text := string(p.input[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", text)
		}
		return interp.Float{Value: f}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return interp.Int{Value: n}, nil
}

func (p *parser) arrayLit() (interp.Value, error) {
	p.pos++ // '['
	var elems []interp.Value
	p.skipSpace()
	if p.consume(']') {
		return interp.Array{Elements: elems}, nil
	}
	for {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return interp.Array{Elements: elems}, nil
		}
		return nil, fmt.Errorf("expected ',' or ']' in array")
	}
}

func (p *parser) mapLit() (interp.Value, error) {
	p.pos++ // '{'
	entries := make(map[string]interp.Value)
	p.skipSpace()
	if p.consume('}') {
		return interp.Map{Entries: entries}, nil
	}
	for {
		p.skipSpace()
		var key string
		if p.pos < len(p.input) && p.input[p.pos] == '"' {
			k, err := p.stringLit()
			if err != nil {
				return nil, err
			}
			key = k.(interp.String).Value
		} else {
			k, err := p.ident()
			if err != nil {
				return nil, err
			}
			key = k
		}
		if !p.consume(':') {
			return nil, fmt.Errorf("expected ':' after map key")
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		entries[key] = v
		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			return interp.Map{Entries: entries}, nil
		}
		return nil, fmt.Errorf("expected ',' or '}' in map")
	}
}

// execLines runs each non-empty, non-comment line of src as one call.
func execLines(rt *interp.Runtime, src string, report func(interp.Value)) error {
	for lineNo, line := range strings.Split(src, "\n") {
		text := strings.TrimSpace(line)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		c, err := parseCall(text)
		if err != nil {
			return fmt.Errorf("line %d: %v", lineNo+1, err)
		}
		result, err := rt.Call(c.module, c.fn, c.args)
		if err != nil {
			return fmt.Errorf("line %d: %v", lineNo+1, err)
		}
		report(result)
	}
	return nil
}

package interp

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

var ansiCodes = map[string]string{
	"black":   "30",
	"red":     "31",
	"green":   "32",
	"yellow":  "33",
	"blue":    "34",
	"magenta": "35",
	"cyan":    "36",
	"white":   "37",
	"bold":    "1",
	"dim":     "2",
	"reset":   "0",
}

func colorModule() *Module {
	return &Module{
		Name: "color",
		Funcs: map[string]*Builtin{
			"hex_to_rgb":     {Name: "hex_to_rgb", Fn: colorHexToRGB},
			"rgb_to_hex":     {Name: "rgb_to_hex", Fn: colorRGBToHex},
			"lighten":        {Name: "lighten", Fn: colorLighten},
			"darken":         {Name: "darken", Fn: colorDarken},
			"get_ansi_color": {Name: "get_ansi_color", Fn: colorGetANSI},
		},
	}
}

func parseHexColor(s string) (int64, int64, int64, error) {
	text := strings.TrimPrefix(s, "#")
	if len(text) != 6 {
		return 0, 0, 0, parseErrorf("invalid hex color '%s'", s)
	}
	v, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return 0, 0, 0, parseErrorf("invalid hex color '%s'", s)
	}
	return int64(v >> 16 & 0xff), int64(v >> 8 & 0xff), int64(v & 0xff), nil
}

func colorHexToRGB(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("color.hex_to_rgb", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("color.hex_to_rgb", args, 0)
	if err != nil {
		return nil, err
	}
	r, g, b, err := parseHexColor(s)
	if err != nil {
		return nil, err
	}
	return Array{[]Value{Int{r}, Int{g}, Int{b}}}, nil
}

func colorRGBToHex(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("color.rgb_to_hex", args, 3); err != nil {
		return nil, err
	}
	var ch [3]int64
	for i := range ch {
		c, err := argInt("color.rgb_to_hex", args, i)
		if err != nil {
			return nil, err
		}
		if c < 0 || c > 255 {
			return nil, domainErrorf("color component %d out of range [0, 255]", c)
		}
		ch[i] = c
	}
	return String{fmt.Sprintf("#%02x%02x%02x", ch[0], ch[1], ch[2])}, nil
}

// scaleColor moves each channel toward white (factor > 0) or black
// (factor < 0) by the given fraction.
func scaleColor(fn string, args []Value, toward func(c, amt float64) float64) (Value, error) {
	if err := wantExact(fn, args, 2); err != nil {
		return nil, err
	}
	s, err := argString(fn, args, 0)
	if err != nil {
		return nil, err
	}
	amt, err := argFloat(fn, args, 1)
	if err != nil {
		return nil, err
	}
	if amt < 0 || amt > 1 {
		return nil, domainErrorf("amount %g out of range [0, 1]", amt)
	}
	r, g, b, err := parseHexColor(s)
	if err != nil {
		return nil, err
	}
	clamp := func(f float64) int64 {
		if f < 0 {
			return 0
		}
		if f > 255 {
			return 255
		}
		return int64(f)
	}
	return String{fmt.Sprintf("#%02x%02x%02x",
		clamp(toward(float64(r), amt)),
		clamp(toward(float64(g), amt)),
		clamp(toward(float64(b), amt)))}, nil
}

func colorLighten(_ *Runtime, args []Value) (Value, error) {
	return scaleColor("color.lighten", args, func(c, amt float64) float64 {
		return c + (255-c)*amt
	})
}

func colorDarken(_ *Runtime, args []Value) (Value, error) {
	return scaleColor("color.darken", args, func(c, amt float64) float64 {
		return c * (1 - amt)
	})
}

// colorGetANSI returns the escape sequence for a named color, or the
// empty string when stdout is not a terminal so piped output stays clean.
func colorGetANSI(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("color.get_ansi_color", args, 1); err != nil {
		return nil, err
	}
	name, err := argString("color.get_ansi_color", args, 0)
	if err != nil {
		return nil, err
	}
	code, ok := ansiCodes[strings.ToLower(name)]
	if !ok {
		return nil, domainErrorf("unknown color '%s'", name)
	}
	if !stdoutIsTerminal() {
		return String{""}, nil
	}
	return String{"\x1b[" + code + "m"}, nil
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

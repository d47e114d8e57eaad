package interp

import (
	"math/bits"
	"strconv"
	"strings"
)

func bitwiseModule() *Module {
	return &Module{
		Name: "bitwise",
		Funcs: map[string]*Builtin{
			"and":                  {Name: "and", Fn: bitwiseAnd},
			"or":                   {Name: "or", Fn: bitwiseOr},
			"xor":                  {Name: "xor", Fn: bitwiseXor},
			"not":                  {Name: "not", Fn: bitwiseNot},
			"left_shift":           {Name: "left_shift", Fn: bitwiseLeftShift},
			"right_shift":          {Name: "right_shift", Fn: bitwiseRightShift},
			"unsigned_right_shift": {Name: "unsigned_right_shift", Fn: bitwiseUnsignedRightShift},
			"get_bit":              {Name: "get_bit", Fn: bitwiseGetBit},
			"set_bit":              {Name: "set_bit", Fn: bitwiseSetBit},
			"count_bits":           {Name: "count_bits", Fn: bitwiseCountBits},
			"to_binary":            {Name: "to_binary", Fn: bitwiseToBinary},
			"to_hex":               {Name: "to_hex", Fn: bitwiseToHex},
			"from_binary":          {Name: "from_binary", Fn: bitwiseFromBinary},
			"from_hex":             {Name: "from_hex", Fn: bitwiseFromHex},
		},
	}
}

func binaryInt(fn string, args []Value) (int64, int64, error) {
	if err := wantExact(fn, args, 2); err != nil {
		return 0, 0, err
	}
	a, err := argInt(fn, args, 0)
	if err != nil {
		return 0, 0, err
	}
	b, err := argInt(fn, args, 1)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func shiftArgs(fn string, args []Value) (int64, uint, error) {
	v, n, err := binaryInt(fn, args)
	if err != nil {
		return 0, 0, err
	}
	if n < 0 || n > 63 {
		return 0, 0, domainErrorf("shift amount %d out of range [0, 63]", n)
	}
	return v, uint(n), nil
}

func bitwiseAnd(_ *Runtime, args []Value) (Value, error) {
	a, b, err := binaryInt("bitwise.and", args)
	if err != nil {
		return nil, err
	}
	return Int{a & b}, nil
}

func bitwiseOr(_ *Runtime, args []Value) (Value, error) {
	a, b, err := binaryInt("bitwise.or", args)
	if err != nil {
		return nil, err
	}
	return Int{a | b}, nil
}

func bitwiseXor(_ *Runtime, args []Value) (Value, error) {
	a, b, err := binaryInt("bitwise.xor", args)
	if err != nil {
		return nil, err
	}
	return Int{a ^ b}, nil
}

// bitwiseNot complements value within a field of the given width, so
// not(0b1010, 4) is 0b0101 rather than a sign-extended negative.
func bitwiseNot(_ *Runtime, args []Value) (Value, error) {
	v, width, err := binaryInt("bitwise.not", args)
	if err != nil {
		return nil, err
	}
	if width < 1 || width > 64 {
		return nil, domainErrorf("bit width %d out of range [1, 64]", width)
	}
	mask := ^uint64(0)
	if width < 64 {
		mask = (uint64(1) << uint(width)) - 1
	}
	return Int{int64(^uint64(v) & mask)}, nil
}

func bitwiseLeftShift(_ *Runtime, args []Value) (Value, error) {
	v, n, err := shiftArgs("bitwise.left_shift", args)
	if err != nil {
		return nil, err
	}
	return Int{v << n}, nil
}

func bitwiseRightShift(_ *Runtime, args []Value) (Value, error) {
	v, n, err := shiftArgs("bitwise.right_shift", args)
	if err != nil {
		return nil, err
	}
	return Int{v >> n}, nil
}

func bitwiseUnsignedRightShift(_ *Runtime, args []Value) (Value, error) {
	v, n, err := shiftArgs("bitwise.unsigned_right_shift", args)
	if err != nil {
		return nil, err
	}
	return Int{int64(uint64(v) >> n)}, nil
}

func bitwiseGetBit(_ *Runtime, args []Value) (Value, error) {
	v, pos, err := binaryInt("bitwise.get_bit", args)
	if err != nil {
		return nil, err
	}
	if pos < 0 || pos > 63 {
		return nil, domainErrorf("bit position %d out of range [0, 63]", pos)
	}
	return Int{(v >> uint(pos)) & 1}, nil
}

func bitwiseSetBit(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("bitwise.set_bit", args, 3); err != nil {
		return nil, err
	}
	v, err := argInt("bitwise.set_bit", args, 0)
	if err != nil {
		return nil, err
	}
	pos, err := argInt("bitwise.set_bit", args, 1)
	if err != nil {
		return nil, err
	}
	bit, err := argInt("bitwise.set_bit", args, 2)
	if err != nil {
		return nil, err
	}
	if pos < 0 || pos > 63 {
		return nil, domainErrorf("bit position %d out of range [0, 63]", pos)
	}
	if bit != 0 && bit != 1 {
		return nil, domainErrorf("bit value must be 0 or 1, got %d", bit)
	}
	if bit == 1 {
		v |= 1 << uint(pos)
	} else {
		v &^= 1 << uint(pos)
	}
	return Int{v}, nil
}

func bitwiseCountBits(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("bitwise.count_bits", args, 1); err != nil {
		return nil, err
	}
	v, err := argInt("bitwise.count_bits", args, 0)
	if err != nil {
		return nil, err
	}
	return Int{int64(bits.OnesCount64(uint64(v)))}, nil
}

func bitwiseToBinary(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("bitwise.to_binary", args, 1); err != nil {
		return nil, err
	}
	v, err := argInt("bitwise.to_binary", args, 0)
	if err != nil {
		return nil, err
	}
	return String{"0b" + strconv.FormatUint(uint64(v), 2)}, nil
}

func bitwiseToHex(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("bitwise.to_hex", args, 1); err != nil {
		return nil, err
	}
	v, err := argInt("bitwise.to_hex", args, 0)
	if err != nil {
		return nil, err
	}
	return String{"0x" + strconv.FormatUint(uint64(v), 16)}, nil
}

func bitwiseFromBinary(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("bitwise.from_binary", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("bitwise.from_binary", args, 0)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(s, "0b")
	v, parseErr := strconv.ParseUint(text, 2, 64)
	if parseErr != nil {
		return nil, parseErrorf("invalid binary string '%s'", s)
	}
	return Int{int64(v)}, nil
}

func bitwiseFromHex(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("bitwise.from_hex", args, 1); err != nil {
		return nil, err
	}
	s, err := argString("bitwise.from_hex", args, 0)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, parseErr := strconv.ParseUint(text, 16, 64)
	if parseErr != nil {
		return nil, parseErrorf("invalid hex string '%s'", s)
	}
	return Int{int64(v)}, nil
}

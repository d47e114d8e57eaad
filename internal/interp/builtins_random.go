package interp

import (
	"math"
	"math/rand"
)

const randomAlphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomModule() *Module {
	return &Module{
		Name: "random",
		Funcs: map[string]*Builtin{
			"int":     {Name: "int", Fn: randomInt},
			"float":   {Name: "float", Fn: randomFloat},
			"choice":  {Name: "choice", Fn: randomChoice},
			"shuffle": {Name: "shuffle", Fn: randomShuffle},
			"string":  {Name: "string", Fn: randomString},
		},
	}
}

func randomInt(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("random.int", args, 2); err != nil {
		return nil, err
	}
	lo, err := argInt("random.int", args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := argInt("random.int", args, 1)
	if err != nil {
		return nil, err
	}
	if hi < lo {
		return nil, domainErrorf("empty range [%d, %d]", lo, hi)
	}
	// A span wider than int64 wraps hi-lo negative, and a span of exactly
	// MaxInt64 wraps the +1; neither can feed Int63n.
	width := hi - lo
	if width < 0 || width == math.MaxInt64 {
		return nil, domainErrorf("range [%d, %d] is too wide", lo, hi)
	}
	return Int{lo + rand.Int63n(width+1)}, nil
}

func randomFloat(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("random.float", args, 2); err != nil {
		return nil, err
	}
	lo, err := argFloat("random.float", args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := argFloat("random.float", args, 1)
	if err != nil {
		return nil, err
	}
	if hi < lo {
		return nil, domainErrorf("empty range [%g, %g]", lo, hi)
	}
	return Float{lo + rand.Float64()*(hi-lo)}, nil
}

func randomChoice(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("random.choice", args, 1); err != nil {
		return nil, err
	}
	elems, err := argArray("random.choice", args, 0)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, domainErrorf("cannot choose from empty array")
	}
	return elems[rand.Intn(len(elems))], nil
}

func randomShuffle(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("random.shuffle", args, 1); err != nil {
		return nil, err
	}
	elems, err := argArray("random.shuffle", args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(elems))
	copy(out, elems)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return Array{out}, nil
}

func randomString(_ *Runtime, args []Value) (Value, error) {
	if err := wantExact("random.string", args, 1); err != nil {
		return nil, err
	}
	n, err := argInt("random.string", args, 0)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, domainErrorf("length cannot be negative")
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = randomAlphanumeric[rand.Intn(len(randomAlphanumeric))]
	}
	return String{string(buf)}, nil
}

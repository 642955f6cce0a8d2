package sample

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// Element samples a uniform element of f by rejection sampling.
func Element(rand io.Reader, f field.Field) field.Element {
	var buf [8]byte
	bits := f.Bits()
	mask := uint64(1)<<bits - 1
	if bits == 64 {
		mask = ^uint64(0)
	}
	for i := 0; i < maxIterations; i++ {
		mustReadBits(rand, buf[:])
		x := binary.BigEndian.Uint64(buf[:]) & mask
		if x < f.Order() {
			return f.FromUint64(x)
		}
	}
	panic(ErrMaxIterations)
}

// Elements samples n uniform elements of f.
func Elements(rand io.Reader, f field.Field, n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = Element(rand, f)
	}
	return out
}

// NonZeroElement samples a uniform element of f \ {0}.
func NonZeroElement(rand io.Reader, f field.Field) field.Element {
	for i := 0; i < maxIterations; i++ {
		if x := Element(rand, f); !x.IsZero() {
			return x
		}
	}
	panic(ErrMaxIterations)
}

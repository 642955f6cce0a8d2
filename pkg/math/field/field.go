package field

import (
	"encoding"
	"fmt"

	"github.com/cronokirby/saferith"
)

// Field is a prime field ℤₚ in which every protocol quantity lives.
type Field interface {
	// Name identifies the field, and is used when encoding configurations.
	Name() string
	// Modulus returns p.
	Modulus() *saferith.Modulus
	// Bits is the bit length of p.
	Bits() int
	// ByteLen is the length of the canonical big-endian encoding of an Element.
	ByteLen() int
	// Order returns p as an integer.
	Order() uint64
	// NewElement returns a new Element set to 0.
	NewElement() Element
	// Zero returns the additive identity.
	Zero() Element
	// One returns the multiplicative identity.
	One() Element
	// FromUint64 returns x mod p.
	FromUint64(x uint64) Element
	// TryFromUint64 returns x as an Element, or an error if x ≥ p.
	TryFromUint64(x uint64) (Element, error)
}

// Element is a member of a Field.
//
// Arithmetic methods modify the receiver and return it, so that calls can be chained:
//
//	c := f.NewElement().Set(a).Mul(b).Add(d) // c = a⋅b + d
type Element interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	fmt.Stringer

	Field() Field
	// Add sets e = e + x.
	Add(x Element) Element
	// Sub sets e = e - x.
	Sub(x Element) Element
	// Mul sets e = e ⋅ x.
	Mul(x Element) Element
	// Negate sets e = -e.
	Negate() Element
	// Invert sets e = e⁻¹. The inverse of 0 is defined as 0, callers must check IsZero.
	Invert() Element
	// Set sets e = x.
	Set(x Element) Element
	// SetUint64 sets e = x mod p.
	SetUint64(x uint64) Element
	Equal(x Element) bool
	IsZero() bool
	// Uint64 returns the canonical integer representative in [0, p).
	Uint64() uint64
	// Clone returns a copy of e.
	Clone() Element
}

var registry = map[string]Field{}

func register(f Field) Field {
	registry[f.Name()] = f
	return f
}

// ByName returns the registered field with the given name.
func ByName(name string) (Field, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("field: unknown field %q", name)
	}
	return f, nil
}

// Names returns the names of all registered fields.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Sum returns the sum of all elements of xs, which must all belong to f.
func Sum(f Field, xs []Element) Element {
	out := f.NewElement()
	for _, x := range xs {
		out.Add(x)
	}
	return out
}

// InnerProduct returns Σ xᵢ⋅yᵢ. The slices must have the same length.
func InnerProduct(f Field, xs, ys []Element) (Element, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("field: inner product of vectors with lengths %d and %d", len(xs), len(ys))
	}
	out := f.NewElement()
	tmp := f.NewElement()
	for i := range xs {
		out.Add(tmp.Set(xs[i]).Mul(ys[i]))
	}
	return out, nil
}

// FromUint64s converts canonical integers into field elements, reducing them mod p.
func FromUint64s(f Field, xs ...uint64) []Element {
	out := make([]Element, len(xs))
	for i, x := range xs {
		out[i] = f.FromUint64(x)
	}
	return out
}

// Uint64s converts elements into their canonical integer representation.
func Uint64s(xs []Element) []uint64 {
	out := make([]uint64, len(xs))
	for i, x := range xs {
		out[i] = x.Uint64()
	}
	return out
}

// Zeros returns a slice of n zero elements.
func Zeros(f Field, n int) []Element {
	out := make([]Element, n)
	for i := range out {
		out[i] = f.NewElement()
	}
	return out
}

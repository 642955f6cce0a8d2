package field

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"strconv"

	"github.com/cronokirby/saferith"
)

var (
	// Fp31 is the toy field used in test vectors.
	Fp31 = register(mustPrimeField("Fp31", 31))
	// Fp32BitPrime is ℤₚ with p = 2³² - 5.
	Fp32BitPrime = register(mustPrimeField("Fp32BitPrime", 4_294_967_291))
	// Fp61BitPrime is ℤₚ with the Mersenne prime p = 2⁶¹ - 1.
	Fp61BitPrime = register(mustPrimeField("Fp61BitPrime", (1<<61)-1))
)

// ErrNotCanonical is returned when an integer or encoding is not in [0, p).
var ErrNotCanonical = errors.New("field: value is not reduced modulo p")

// PrimeField is a Field whose modulus fits in 64 bits.
type PrimeField struct {
	name      string
	p         uint64
	modulus   *saferith.Modulus
	pMinusTwo *saferith.Nat
	byteLen   int
}

// NewPrimeField returns the field ℤₚ. It fails if p is not prime.
func NewPrimeField(name string, p uint64) (*PrimeField, error) {
	if p < 2 || !new(big.Int).SetUint64(p).ProbablyPrime(20) {
		return nil, fmt.Errorf("field: %d is not prime", p)
	}
	return &PrimeField{
		name:      name,
		p:         p,
		modulus:   saferith.ModulusFromUint64(p),
		pMinusTwo: new(saferith.Nat).SetUint64(p - 2),
		byteLen:   (bits.Len64(p) + 7) / 8,
	}, nil
}

func mustPrimeField(name string, p uint64) *PrimeField {
	f, err := NewPrimeField(name, p)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *PrimeField) Name() string               { return f.name }
func (f *PrimeField) Modulus() *saferith.Modulus { return f.modulus }
func (f *PrimeField) Bits() int                  { return bits.Len64(f.p) }
func (f *PrimeField) ByteLen() int               { return f.byteLen }
func (f *PrimeField) Order() uint64              { return f.p }

func (f *PrimeField) NewElement() Element {
	return f.element(0)
}

func (f *PrimeField) Zero() Element { return f.element(0) }

func (f *PrimeField) One() Element { return f.element(1) }

func (f *PrimeField) FromUint64(x uint64) Element {
	return f.element(x)
}

func (f *PrimeField) TryFromUint64(x uint64) (Element, error) {
	if x >= f.p {
		return nil, fmt.Errorf("%w: %d ≥ %d", ErrNotCanonical, x, f.p)
	}
	return f.element(x), nil
}

func (f *PrimeField) element(x uint64) *element {
	e := &element{f: f}
	e.setUint64(x)
	return e
}

type element struct {
	f *PrimeField
	v saferith.Nat
}

func (e *element) cast(generic Element) *element {
	out, ok := generic.(*element)
	if !ok || out.f != e.f {
		panic(fmt.Sprintf("field: cannot combine %s element with %v", e.f.name, generic))
	}
	return out
}

func (e *element) setUint64(x uint64) {
	var n saferith.Nat
	n.SetUint64(x)
	e.v.Mod(&n, e.f.modulus)
}

func (e *element) Field() Field { return e.f }

func (e *element) Add(x Element) Element {
	other := e.cast(x)
	e.v.ModAdd(&e.v, &other.v, e.f.modulus)
	return e
}

func (e *element) Sub(x Element) Element {
	other := e.cast(x)
	e.v.ModSub(&e.v, &other.v, e.f.modulus)
	return e
}

func (e *element) Mul(x Element) Element {
	other := e.cast(x)
	e.v.ModMul(&e.v, &other.v, e.f.modulus)
	return e
}

func (e *element) Negate() Element {
	e.v.ModNeg(&e.v, e.f.modulus)
	return e
}

// Invert uses Fermat's little theorem, e⁻¹ = eᵖ⁻².
func (e *element) Invert() Element {
	e.v.Exp(&e.v, e.f.pMinusTwo, e.f.modulus)
	return e
}

func (e *element) Set(x Element) Element {
	other := e.cast(x)
	e.v.SetNat(&other.v)
	return e
}

func (e *element) SetUint64(x uint64) Element {
	e.setUint64(x)
	return e
}

func (e *element) Equal(x Element) bool {
	other := e.cast(x)
	return e.v.Eq(&other.v) == 1
}

func (e *element) IsZero() bool {
	return e.v.EqZero() == 1
}

func (e *element) Uint64() uint64 {
	return e.v.Uint64()
}

func (e *element) Clone() Element {
	out := &element{f: e.f}
	out.v.SetNat(&e.v)
	return out
}

func (e *element) String() string {
	return strconv.FormatUint(e.Uint64(), 10)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (e *element) MarshalBinary() ([]byte, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], e.Uint64())
	out := make([]byte, e.f.byteLen)
	copy(out, buf[8-e.f.byteLen:])
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *element) UnmarshalBinary(data []byte) error {
	if len(data) != e.f.byteLen {
		return fmt.Errorf("field: invalid length for %s element: %d", e.f.name, len(data))
	}
	var buf [8]byte
	copy(buf[8-len(data):], data)
	x := binary.BigEndian.Uint64(buf[:])
	if x >= e.f.p {
		return fmt.Errorf("%w: %d ≥ %d", ErrNotCanonical, x, e.f.p)
	}
	e.setUint64(x)
	return nil
}

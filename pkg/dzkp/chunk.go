package dzkp

import (
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/polynomial"
)

// Chunk is a block of λ values, interpreted as the values of a polynomial at 0, …, λ-1.
type Chunk []field.Element

// Chunks splits values into chunks of λ elements. The last chunk is padded with zeros.
func Chunks(f field.Field, values []field.Element, λ int) []Chunk {
	out := make([]Chunk, 0, (len(values)+λ-1)/λ)
	for start := 0; start < len(values); start += λ {
		c := make(Chunk, λ)
		for i := range c {
			if start+i < len(values) {
				c[i] = values[start+i].Clone()
			} else {
				c[i] = f.NewElement()
			}
		}
		out = append(out, c)
	}
	return out
}

// Clone returns a deep copy of c.
func (c Chunk) Clone() Chunk {
	out := make(Chunk, len(c))
	for i, x := range c {
		out[i] = x.Clone()
	}
	return out
}

// Flatten concatenates the chunks, padding included.
func Flatten(chunks []Chunk) []field.Element {
	if len(chunks) == 0 {
		return nil
	}
	out := make([]field.Element, 0, len(chunks)*len(chunks[0]))
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// vector is u or v as seen in some round: the values split into zero padded chunks,
// and the number of values before padding.
type vector struct {
	chunks []Chunk
	n      int
	λ      int
}

func newVector(f field.Field, values []field.Element, λ int) vector {
	return vector{
		chunks: Chunks(f, values, λ),
		n:      len(values),
		λ:      λ,
	}
}

// values returns the values without padding.
func (v vector) values() []field.Element {
	return Flatten(v.chunks)[:v.n]
}

// collapse replaces every chunk by the value of its polynomial at the point of t,
// and regroups the results into chunks of the same size.
func (v vector) collapse(f field.Field, t *polynomial.LagrangeTable) (vector, error) {
	collapsed := make([]field.Element, len(v.chunks))
	for i, c := range v.chunks {
		x, err := t.Evaluate(c)
		if err != nil {
			return vector{}, err
		}
		collapsed[i] = x
	}
	return newVector(f, collapsed, v.λ), nil
}

// resize regroups the values into a single chunk of size λ.
// Only padding may be dropped.
func (v vector) resize(f field.Field, λ int) (vector, error) {
	if v.n > λ {
		return vector{}, fmt.Errorf("dzkp: %w: cannot fit %d values in a chunk of %d", ErrLengthMismatch, v.n, λ)
	}
	values := v.values()
	if len(values) == 0 {
		values = []field.Element{f.NewElement()}
	}
	out := newVector(f, values, λ)
	out.n = v.n
	return out, nil
}

package dzkp

import (
	"fmt"
	"io"

	"github.com/taurusgroup/ipa-dzkp/pkg/hash"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/sample"
)

// Proof is the list of values of g = Σₖ pₖ⋅qₖ at the canonical points,
// or an additive share of it.
type Proof []field.Element

// NewProof wraps the given values.
func NewProof(values ...field.Element) Proof {
	return values
}

// Add returns the component-wise sum p + q.
func (p Proof) Add(q Proof) (Proof, error) {
	if len(p) != len(q) {
		return nil, fmt.Errorf("dzkp: %w: proofs of length %d and %d", ErrLengthMismatch, len(p), len(q))
	}
	out := make(Proof, len(p))
	for i := range p {
		out[i] = p[i].Clone().Add(q[i])
	}
	return out, nil
}

// Split returns two additive shares of p. The left share is read from rand,
// so a verifier holding the same stream can reproduce it without communication.
func (p Proof) Split(f field.Field, rand io.Reader) (left, right Proof) {
	left = LeftShare(f, rand, len(p))
	right = make(Proof, len(p))
	for i := range p {
		right[i] = p[i].Clone().Sub(left[i])
	}
	return left, right
}

// LeftShare returns the left share of a proof with n values, as produced by Split with the same stream.
func LeftShare(f field.Field, rand io.Reader, n int) Proof {
	return sample.Elements(rand, f, n)
}

// WriteTo implements io.WriterTo.
func (p Proof) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, x := range p {
		data, err := x.MarshalBinary()
		if err != nil {
			return total, err
		}
		n, err := w.Write(data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain.
func (Proof) Domain() string { return "DZKP Proof" }

// Digest returns the hash of the proof.
// Verifiers exchange the digests of their shares to agree on the challenge.
func (p Proof) Digest() []byte {
	return hash.New(p).Sum()
}

// Uint64s returns the canonical integers of the proof values.
func (p Proof) Uint64s() []uint64 {
	return field.Uint64s(p)
}

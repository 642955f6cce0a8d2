package dzkp

import (
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/secret"
)

// RecordLength is the number of (u, v) pairs contributed by one multiplication.
const RecordLength = 4

// Record holds the (u, v) pairs of one replicated multiplication computed by a prover Hᵢ, with
//
//	zᵢ = xᵢ⋅yᵢ + xᵢ⋅yᵢ₊₁ + xᵢ₊₁⋅yᵢ + sᵢ₊₁ - sᵢ,
//
// where sᵢ is shared with the left neighbour and sᵢ₊₁ with the right neighbour.
// The pairs are
//
//	(xᵢ, -yᵢ₊₁), (yᵢ, -xᵢ₊₁), (zᵢ - xᵢ⋅yᵢ + sᵢ, 1), (1, -sᵢ₊₁)
//
// so that Σ u⋅v = 0 exactly when zᵢ was computed honestly. The u side only uses values known to the
// left verifier Hᵢ₋₁, the v side only values known to the right verifier Hᵢ₊₁.
// Either side is nil when unknown to the holder of the record.
type Record struct {
	U, V []field.Element
}

// ProverRecord returns both sides of the record, as computed by the prover from its shares x and y,
// its product share z, and the masks shared with its left and right neighbours.
func ProverRecord(x, y secret.Replicated, z, left, right field.Element) Record {
	return Record{
		U: proverU(x.Left, y.Left, z, left),
		V: verifierV(x.Right, y.Right, right),
	}
}

func proverU(xLeft, yLeft, z, left field.Element) []field.Element {
	f := z.Field()
	third := z.Clone().Sub(xLeft.Clone().Mul(yLeft)).Add(left)
	return []field.Element{xLeft.Clone(), yLeft.Clone(), third, f.One()}
}

func verifierV(xRight, yRight, right field.Element) []field.Element {
	f := right.Field()
	return []field.Element{
		yRight.Clone().Negate(),
		xRight.Clone().Negate(),
		f.One(),
		right.Clone().Negate(),
	}
}

// LeftVerifierRecord returns the u side of the record of the right neighbour, as computed by its left
// verifier. x and y are the verifier's own shares, whose right halves are the prover's left halves.
// z is the product share received from the prover, and mask the value shared with it.
func LeftVerifierRecord(x, y secret.Replicated, z, mask field.Element) Record {
	return Record{U: proverU(x.Right, y.Right, z, mask)}
}

// RightVerifierRecord returns the v side of the record of the left neighbour, as computed by its right
// verifier. x and y are the verifier's own shares, whose left halves are the prover's right halves.
// mask is the value shared with the prover.
func RightVerifierRecord(x, y secret.Replicated, mask field.Element) Record {
	return Record{V: verifierV(x.Left, y.Left, mask)}
}

// Batch collects the records of one prover, as seen by one party.
type Batch struct {
	Field field.Field
	U, V  []field.Element
}

// NewBatch returns an empty batch.
func NewBatch(f field.Field) *Batch {
	return &Batch{Field: f}
}

// Append adds the known sides of r to the batch.
func (b *Batch) Append(r Record) error {
	if r.U != nil && len(r.U) != RecordLength || r.V != nil && len(r.V) != RecordLength {
		return fmt.Errorf("dzkp: batch: %w: record with %d and %d values", ErrLengthMismatch, len(r.U), len(r.V))
	}
	b.U = append(b.U, r.U...)
	b.V = append(b.V, r.V...)
	return nil
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	if len(b.U) > len(b.V) {
		return len(b.U) / RecordLength
	}
	return len(b.V) / RecordLength
}

// InnerProduct returns Σ uᵢ⋅vᵢ. It requires both sides, so only the prover can call it.
func (b *Batch) InnerProduct() (field.Element, error) {
	return field.InnerProduct(b.Field, b.U, b.V)
}

// Batches are the batches a helper holds after computing multiplications:
// its own records, and one side of each neighbour's records.
type Batches struct {
	// Own contains both sides of the helper's records, which it proves.
	Own *Batch
	// Left contains the v side of the left neighbour's records, which the helper verifies as right verifier.
	Left *Batch
	// Right contains the u side of the right neighbour's records, which the helper verifies as left verifier.
	Right *Batch
}

// NewBatches returns empty batches.
func NewBatches(f field.Field) *Batches {
	return &Batches{Own: NewBatch(f), Left: NewBatch(f), Right: NewBatch(f)}
}

// Merge appends the records of other to b.
func (b *Batches) Merge(other *Batches) {
	for _, pair := range [][2]*Batch{{b.Own, other.Own}, {b.Left, other.Left}, {b.Right, other.Right}} {
		pair[0].U = append(pair[0].U, pair[1].U...)
		pair[0].V = append(pair[0].V, pair[1].V...)
	}
}

// Package secret implements three party replicated secret sharing.
//
// A secret x is split into additive shares x₁ + x₂ + x₃ = x. Helper Hᵢ holds the pair (xᵢ, xᵢ₊₁),
// so that its right share is the left share of the next helper in the ring. Any two helpers can
// reconstruct x, and every pair of neighbours shares one component, which is what lets the
// cross terms of a multiplication be computed locally.
package secret

import (
	"errors"
	"fmt"
	"io"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/sample"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

// ErrInconsistentShares is returned when shares held by neighbouring helpers disagree.
var ErrInconsistentShares = errors.New("secret: inconsistent replicated shares")

// Replicated is the pair of additive shares held by one helper.
type Replicated struct {
	Left, Right field.Element
}

// NewReplicated returns the share (left, right).
func NewReplicated(left, right field.Element) Replicated {
	return Replicated{Left: left.Clone(), Right: right.Clone()}
}

// Zero returns a sharing of 0.
func Zero(f field.Field) Replicated {
	return Replicated{Left: f.NewElement(), Right: f.NewElement()}
}

// Add returns a sharing of x + y.
func (x Replicated) Add(y Replicated) Replicated {
	return Replicated{
		Left:  x.Left.Clone().Add(y.Left),
		Right: x.Right.Clone().Add(y.Right),
	}
}

// Sub returns a sharing of x - y.
func (x Replicated) Sub(y Replicated) Replicated {
	return Replicated{
		Left:  x.Left.Clone().Sub(y.Left),
		Right: x.Right.Clone().Sub(y.Right),
	}
}

// Neg returns a sharing of -x.
func (x Replicated) Neg() Replicated {
	return Replicated{
		Left:  x.Left.Clone().Negate(),
		Right: x.Right.Clone().Negate(),
	}
}

// MulConstant returns a sharing of c⋅x.
func (x Replicated) MulConstant(c field.Element) Replicated {
	return Replicated{
		Left:  x.Left.Clone().Mul(c),
		Right: x.Right.Clone().Mul(c),
	}
}

// AddConstant returns a sharing of x + c, as computed by the helper with the given role.
// The constant is added to the first additive share, held by H1 on the left and H3 on the right.
func (x Replicated) AddConstant(c field.Element, role party.Role) Replicated {
	out := NewReplicated(x.Left, x.Right)
	switch role {
	case party.H1:
		out.Left.Add(c)
	case party.H3:
		out.Right.Add(c)
	}
	return out
}

// Equal returns true if both components are equal.
func (x Replicated) Equal(y Replicated) bool {
	return x.Left.Equal(y.Left) && x.Right.Equal(y.Right)
}

// String implements fmt.Stringer.
func (x Replicated) String() string {
	return fmt.Sprintf("(%s, %s)", x.Left, x.Right)
}

// Share splits x into three replicated shares, indexed by party.Role.
func Share(f field.Field, x field.Element, rand io.Reader) [party.Helpers]Replicated {
	x1 := sample.Element(rand, f)
	x2 := sample.Element(rand, f)
	// x₃ = x - (x₁ + x₂)
	x3 := x.Clone().Sub(x1).Sub(x2)

	return [party.Helpers]Replicated{
		NewReplicated(x1, x2),
		NewReplicated(x2, x3),
		NewReplicated(x3, x1),
	}
}

// ShareAll shares every element of xs, returning one slice of shares per helper.
func ShareAll(f field.Field, xs []field.Element, rand io.Reader) [party.Helpers][]Replicated {
	var out [party.Helpers][]Replicated
	for role := range out {
		out[role] = make([]Replicated, len(xs))
	}
	for i, x := range xs {
		shares := Share(f, x, rand)
		for role := range out {
			out[role][i] = shares[role]
		}
	}
	return out
}

// Reconstruct checks that the three shares are consistent around the ring and returns the secret.
func Reconstruct(shares [party.Helpers]Replicated) (field.Element, error) {
	for role := range shares {
		next := (role + 1) % party.Helpers
		if !shares[role].Right.Equal(shares[next].Left) {
			return nil, fmt.Errorf("%w: right share of %s differs from left share of %s",
				ErrInconsistentShares, party.Role(role), party.Role(next))
		}
	}
	return shares[0].Left.Clone().Add(shares[1].Left).Add(shares[2].Left), nil
}

// ReconstructAll reconstructs a list of shared values.
func ReconstructAll(shares [party.Helpers][]Replicated) ([]field.Element, error) {
	n := len(shares[0])
	if len(shares[1]) != n || len(shares[2]) != n {
		return nil, fmt.Errorf("%w: helpers hold %d, %d and %d shares",
			ErrInconsistentShares, len(shares[0]), len(shares[1]), len(shares[2]))
	}
	out := make([]field.Element, n)
	for i := range out {
		x, err := Reconstruct([party.Helpers]Replicated{shares[0][i], shares[1][i], shares[2][i]})
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
		out[i] = x
	}
	return out, nil
}

// MultiplyLocal returns the helper's additive share of x⋅y,
//
//	zᵢ = xᵢ⋅yᵢ + xᵢ⋅yᵢ₊₁ + xᵢ₊₁⋅yᵢ + αᵢ,
//
// where α is a zero sharing (Σαᵢ = 0) that masks the result before it is sent to the left neighbour.
func MultiplyLocal(x, y Replicated, alpha field.Element) field.Element {
	f := x.Left.Field()
	z := f.NewElement().Set(x.Left).Mul(y.Left)
	z.Add(f.NewElement().Set(x.Left).Mul(y.Right))
	z.Add(f.NewElement().Set(x.Right).Mul(y.Left))
	return z.Add(alpha)
}

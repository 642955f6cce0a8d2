package polynomial

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
)

var (
	// ErrConfiguration indicates that the number of canonical points is incompatible with the field.
	ErrConfiguration = errors.New("configuration error")
	// ErrLengthMismatch indicates an input whose length differs from what a table or proof expects.
	ErrLengthMismatch = errors.New("length mismatch")
)

// CanonicalLagrangeDenominator holds, for the canonical points 0, 1, …, N-1, the inverses
//
//	dᵢ = 1 / ∏ⱼ≠ᵢ (i - j).
//
// The canonical points are fixed, so a denominator can be computed once and shared by every
// table of the same size.
type CanonicalLagrangeDenominator struct {
	field       field.Field
	denominator []field.Element
}

// NewCanonicalLagrangeDenominator computes the denominators for N canonical points.
// It fails if N is 0 or if two canonical points coincide in f, which happens whenever N > p.
func NewCanonicalLagrangeDenominator(f field.Field, n int) (*CanonicalLagrangeDenominator, error) {
	if n <= 0 {
		return nil, fmt.Errorf("polynomial: %w: %d canonical points", ErrConfiguration, n)
	}
	if uint64(n) > f.Order() {
		return nil, fmt.Errorf("polynomial: %w: %d canonical points exceed the order of %s", ErrConfiguration, n, f.Name())
	}

	points := canonicalPoints(f, n)
	denominator := make([]field.Element, n)
	diff := f.NewElement()
	for i := range points {
		d := f.One()
		for j := range points {
			if i == j {
				continue
			}
			// d *= i - j
			d.Mul(diff.Set(points[i]).Sub(points[j]))
		}
		if d.IsZero() {
			return nil, fmt.Errorf("polynomial: %w: canonical point %d is not distinct in %s", ErrConfiguration, i, f.Name())
		}
		denominator[i] = d.Invert()
	}
	return &CanonicalLagrangeDenominator{
		field:       f,
		denominator: denominator,
	}, nil
}

// Len returns the number of canonical points N.
func (d *CanonicalLagrangeDenominator) Len() int { return len(d.denominator) }

// Field returns the field the denominators live in.
func (d *CanonicalLagrangeDenominator) Field() field.Field { return d.field }

// LagrangeTable contains the Lagrange basis polynomials ℓ₀, …, ℓ_{N-1} for the canonical points,
// evaluated at one or more output points. For any values v₀, …, v_{N-1} of a polynomial f of degree
// less than N at the canonical points,
//
//	f(x) = Σᵢ vᵢ⋅ℓᵢ(x).
type LagrangeTable struct {
	field  field.Field
	points []field.Element
	// rows[k][i] = ℓᵢ(points[k])
	rows [][]field.Element
}

// NewLagrangeTable returns the table evaluating a polynomial at the single point x.
func NewLagrangeTable(d *CanonicalLagrangeDenominator, x field.Element) *LagrangeTable {
	return newLagrangeTable(d, []field.Element{x.Clone()})
}

// NewExtrapolationTable returns a table evaluating a polynomial at the M points N, N+1, …, N+M-1
// following the canonical points.
func NewExtrapolationTable(d *CanonicalLagrangeDenominator, m int) *LagrangeTable {
	points := make([]field.Element, m)
	for k := range points {
		points[k] = d.field.FromUint64(uint64(d.Len() + k))
	}
	return newLagrangeTable(d, points)
}

func newLagrangeTable(d *CanonicalLagrangeDenominator, points []field.Element) *LagrangeTable {
	rows := make([][]field.Element, len(points))
	for k, x := range points {
		rows[k] = tableRow(d, x)
	}
	return &LagrangeTable{
		field:  d.field,
		points: points,
		rows:   rows,
	}
}

// tableRow computes ℓᵢ(x) = dᵢ⋅∏ⱼ≠ᵢ (x - j) using prefix and suffix products of (x - j).
func tableRow(d *CanonicalLagrangeDenominator, x field.Element) []field.Element {
	f := d.field
	n := d.Len()

	diffs := make([]field.Element, n)
	for j := range diffs {
		diffs[j] = f.NewElement().Set(x).Sub(f.FromUint64(uint64(j)))
	}

	// prefix[i] = ∏ⱼ<ᵢ (x - j), suffix[i] = ∏ⱼ>ᵢ (x - j)
	prefix := make([]field.Element, n)
	suffix := make([]field.Element, n)
	prefix[0] = f.One()
	for i := 1; i < n; i++ {
		prefix[i] = prefix[i-1].Clone().Mul(diffs[i-1])
	}
	suffix[n-1] = f.One()
	for i := n - 2; i >= 0; i-- {
		suffix[i] = suffix[i+1].Clone().Mul(diffs[i+1])
	}

	row := make([]field.Element, n)
	for i := range row {
		row[i] = prefix[i].Mul(suffix[i]).Mul(d.denominator[i])
	}
	return row
}

// Len returns the number of canonical points N the table expects as input.
func (t *LagrangeTable) Len() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows[0])
}

// Points returns the output points of the table.
func (t *LagrangeTable) Points() []field.Element { return t.points }

// Eval returns the values at each output point of the polynomial given by its values at the
// canonical points. It fails if len(values) != N.
func (t *LagrangeTable) Eval(values []field.Element) ([]field.Element, error) {
	if len(values) != t.Len() {
		return nil, fmt.Errorf("polynomial: %w: table expects %d values, got %d", ErrLengthMismatch, t.Len(), len(values))
	}
	out := make([]field.Element, len(t.rows))
	tmp := t.field.NewElement()
	for k, row := range t.rows {
		acc := t.field.NewElement()
		for i, v := range values {
			acc.Add(tmp.Set(v).Mul(row[i]))
		}
		out[k] = acc
	}
	return out, nil
}

// Evaluate is Eval for a table with a single output point.
func (t *LagrangeTable) Evaluate(values []field.Element) (field.Element, error) {
	if len(t.rows) != 1 {
		return nil, fmt.Errorf("polynomial: %w: table has %d output points", ErrLengthMismatch, len(t.rows))
	}
	out, err := t.Eval(values)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func canonicalPoints(f field.Field, n int) []field.Element {
	points := make([]field.Element, n)
	for i := range points {
		points[i] = f.FromUint64(uint64(i))
	}
	return points
}

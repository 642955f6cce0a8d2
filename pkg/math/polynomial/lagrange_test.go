package polynomial

import (
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/sample"
)

func TestLagrangeTable_Evaluate(t *testing.T) {
	// f(X) = 5 + 2X + 3X³ over Fp31, known by its values at 0, 1, 2, 3
	values := field.FromUint64s(field.Fp31, 5, 10, 2, 30)
	d, err := NewCanonicalLagrangeDenominator(field.Fp31, 4)
	require.NoError(t, err)

	got, err := NewLagrangeTable(d, field.Fp31.FromUint64(22)).Evaluate(values)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Uint64())

	// evaluating at a canonical point returns the value at that point
	for i, v := range values {
		got, err = NewLagrangeTable(d, field.Fp31.FromUint64(uint64(i))).Evaluate(values)
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "f(%d)", i)
	}
}

func TestLagrangeTable_CoefficientsSumToOne(t *testing.T) {
	r := mrand.New(mrand.NewSource(1))
	for _, n := range []int{1, 2, 7, 9} {
		d, err := NewCanonicalLagrangeDenominator(field.Fp61BitPrime, n)
		require.NoError(t, err)
		table := NewLagrangeTable(d, sample.Element(r, field.Fp61BitPrime))
		ones := make([]field.Element, n)
		for i := range ones {
			ones[i] = field.Fp61BitPrime.One()
		}
		// interpolating the constant polynomial 1
		got, err := table.Evaluate(ones)
		require.NoError(t, err)
		assert.True(t, got.Equal(field.Fp61BitPrime.One()), "n = %d", n)
	}
}

func TestLagrangeTable_RandomPolynomial(t *testing.T) {
	r := mrand.New(mrand.NewSource(2))
	f := field.Fp32BitPrime
	for _, n := range []int{2, 4, 8, 17} {
		p := NewPolynomial(f, n-1, nil, r)
		d, err := NewCanonicalLagrangeDenominator(f, n)
		require.NoError(t, err)
		x := sample.Element(r, f)
		got, err := NewLagrangeTable(d, x).Evaluate(p.CanonicalValues(n))
		require.NoError(t, err)
		assert.True(t, p.Evaluate(x).Equal(got), "n = %d", n)
	}
}

func TestExtrapolationTable(t *testing.T) {
	d, err := NewCanonicalLagrangeDenominator(field.Fp31, 4)
	require.NoError(t, err)
	table := NewExtrapolationTable(d, 3)
	assert.Equal(t, 4, table.Len())
	assert.Equal(t, []uint64{4, 5, 6}, field.Uint64s(table.Points()))

	got, err := table.Eval(field.FromUint64s(field.Fp31, 5, 10, 2, 30))
	require.NoError(t, err)
	assert.Equal(t, []uint64{19, 18, 14}, field.Uint64s(got))

	_, err = table.Evaluate(field.FromUint64s(field.Fp31, 5, 10, 2, 30))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestNewCanonicalLagrangeDenominator_Configuration(t *testing.T) {
	_, err := NewCanonicalLagrangeDenominator(field.Fp31, 31)
	assert.NoError(t, err)
	_, err = NewCanonicalLagrangeDenominator(field.Fp31, 32)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewCanonicalLagrangeDenominator(field.Fp31, 0)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestLagrangeTable_LengthMismatch(t *testing.T) {
	d, err := NewCanonicalLagrangeDenominator(field.Fp31, 4)
	require.NoError(t, err)
	table := NewLagrangeTable(d, field.Fp31.FromUint64(3))
	_, err = table.Eval(field.FromUint64s(field.Fp31, 1, 2, 3))
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = table.Eval(field.FromUint64s(field.Fp31, 1, 2, 3, 4, 5))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

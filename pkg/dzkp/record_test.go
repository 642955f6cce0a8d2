package dzkp

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/sample"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/secret"
)

// multiplication returns the shares of x and y, and the honest product shares with the masks used.
type multiplication struct {
	x, y  [party.Helpers]secret.Replicated
	z     [party.Helpers]field.Element
	masks [party.Helpers]field.Element // masks[i] is shared by Hᵢ₋₁ and Hᵢ
}

func multiply(f field.Field) multiplication {
	var m multiplication
	m.x = secret.Share(f, sample.Element(rand.Reader, f), rand.Reader)
	m.y = secret.Share(f, sample.Element(rand.Reader, f), rand.Reader)
	for i := range m.masks {
		m.masks[i] = sample.Element(rand.Reader, f)
	}
	for i := range m.z {
		role := party.Role(i)
		alpha := m.masks[role.Right()].Clone().Sub(m.masks[role])
		m.z[i] = secret.MultiplyLocal(m.x[i], m.y[i], alpha)
	}
	return m
}

func TestRecord_Sides(t *testing.T) {
	f := field.Fp61BitPrime
	m := multiply(f)

	for i := range m.z {
		prover := party.Role(i)
		left, right := prover.Left(), prover.Right()

		full := ProverRecord(m.x[prover], m.y[prover], m.z[prover], m.masks[prover], m.masks[right])
		ip, err := field.InnerProduct(f, full.U, full.V)
		require.NoError(t, err)
		assert.True(t, ip.IsZero(), "honest record of %s", prover)

		u := LeftVerifierRecord(m.x[left], m.y[left], m.z[prover], m.masks[prover])
		v := RightVerifierRecord(m.x[right], m.y[right], m.masks[right])
		assert.Equal(t, field.Uint64s(full.U), field.Uint64s(u.U))
		assert.Equal(t, field.Uint64s(full.V), field.Uint64s(v.V))
		assert.Nil(t, u.V)
		assert.Nil(t, v.U)
	}
}

func TestRecord_DetectsWrongProduct(t *testing.T) {
	f := field.Fp61BitPrime
	m := multiply(f)
	z := m.z[party.H2].Clone().Add(f.One())
	r := ProverRecord(m.x[party.H2], m.y[party.H2], z, m.masks[party.H2], m.masks[party.H3])
	ip, err := field.InnerProduct(f, r.U, r.V)
	require.NoError(t, err)
	assert.False(t, ip.IsZero())
}

func TestBatch(t *testing.T) {
	cfg := Config{Field: field.Fp61BitPrime, BlockSize: 4, FinalBlockSize: 2}
	f := cfg.Field

	prover := NewBatch(f)
	leftBatch, rightBatch := NewBatch(f), NewBatch(f)
	for k := 0; k < 20; k++ {
		m := multiply(f)
		require.NoError(t, prover.Append(ProverRecord(m.x[party.H2], m.y[party.H2], m.z[party.H2], m.masks[party.H2], m.masks[party.H3])))
		require.NoError(t, leftBatch.Append(LeftVerifierRecord(m.x[party.H1], m.y[party.H1], m.z[party.H2], m.masks[party.H2])))
		require.NoError(t, rightBatch.Append(RightVerifierRecord(m.x[party.H3], m.y[party.H3], m.masks[party.H3])))
	}
	assert.Equal(t, 20, prover.Len())
	assert.Equal(t, 20, leftBatch.Len())
	assert.Equal(t, 20, rightBatch.Len())
	assert.Equal(t, field.Uint64s(prover.U), field.Uint64s(leftBatch.U))
	assert.Equal(t, field.Uint64s(prover.V), field.Uint64s(rightBatch.V))

	ip, err := prover.InnerProduct()
	require.NoError(t, err)
	assert.True(t, ip.IsZero())
	_, err = leftBatch.InnerProduct()
	assert.Error(t, err)

	assert.ErrorIs(t, prover.Append(Record{U: field.Zeros(f, 3)}), ErrLengthMismatch)

	s := prove(t, cfg, prover.U, prover.V)
	s.left.Data, s.right.Data = leftBatch.U, rightBatch.V
	shares, err := VerifyBatches(context.Background(), cfg, []*Job{s.left, s.right})
	require.NoError(t, err)
	assert.NoError(t, CheckShares(shares[0], shares[1]))
}

func TestVerifyBatches_Error(t *testing.T) {
	job := leftVector.job()
	job.Final = job.Final[:4]
	_, err := VerifyBatches(context.Background(), fp31Config, []*Job{rightVector.job(), job})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestTranscript(t *testing.T) {
	f := field.Fp61BitPrime
	left, right := []byte("left"), []byte("right")

	a := NewTranscript([]byte("ssid"), "a")
	b := NewTranscript([]byte("ssid"), "a")
	c := NewTranscript([]byte("ssid"), "b")

	ra := a.Challenge(f, 0, left, right)
	assert.True(t, ra.Equal(b.Challenge(f, 0, left, right)))
	assert.False(t, ra.Equal(c.Challenge(f, 0, left, right)), "prover is bound")

	// the next challenge depends on the previous rounds
	assert.False(t, a.Challenge(f, 1, left, right).Equal(NewTranscript([]byte("ssid"), "a").Challenge(f, 1, left, right)))
	assert.False(t, b.Challenge(f, 1, right, left).Equal(a.Challenge(f, 2, left, right)))
}

func TestBatches_Merge(t *testing.T) {
	f := field.Fp31
	a, b := NewBatches(f), NewBatches(f)
	m := multiply(f)
	require.NoError(t, a.Own.Append(ProverRecord(m.x[party.H1], m.y[party.H1], m.z[party.H1], m.masks[party.H1], m.masks[party.H2])))
	require.NoError(t, b.Own.Append(ProverRecord(m.x[party.H1], m.y[party.H1], m.z[party.H1], m.masks[party.H1], m.masks[party.H2])))
	require.NoError(t, b.Left.Append(RightVerifierRecord(m.x[party.H1], m.y[party.H1], m.masks[party.H1])))

	a.Merge(b)
	assert.Equal(t, 2, a.Own.Len())
	assert.Equal(t, 1, a.Left.Len())
	assert.Equal(t, 0, a.Right.Len())
}

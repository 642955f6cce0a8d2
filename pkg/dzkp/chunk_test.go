package dzkp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
)

func TestChunks(t *testing.T) {
	chunks := Chunks(field.Fp31, elements(1, 2, 3, 4, 5), 4)
	require.Len(t, chunks, 2)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 0, 0, 0}, field.Uint64s(Flatten(chunks)))
	assert.Empty(t, Chunks(field.Fp31, nil, 4))
	assert.Nil(t, Flatten(nil))
}

func TestVector_Resize(t *testing.T) {
	v := newVector(field.Fp31, elements(7, 8, 9), 4)

	resized, err := v.resize(field.Fp31, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 8, 9}, field.Uint64s(Flatten(resized.chunks)))

	resized, err = v.resize(field.Fp31, 6)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 8, 9, 0, 0, 0}, field.Uint64s(Flatten(resized.chunks)))
	assert.Equal(t, 3, resized.n)

	_, err = v.resize(field.Fp31, 2)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestProof_Split(t *testing.T) {
	p := Proof(elements(1, 2, 3, 4, 5, 6, 7))
	left, right := p.Split(field.Fp31, fixedReader{})
	sum, err := left.Add(right)
	require.NoError(t, err)
	assert.Equal(t, p.Uint64s(), sum.Uint64s())

	_, err = left.Add(right[:3])
	assert.ErrorIs(t, err, ErrLengthMismatch)

	assert.Equal(t, p.Digest(), Proof(elements(1, 2, 3, 4, 5, 6, 7)).Digest())
	assert.NotEqual(t, p.Digest(), left.Digest())
}

// fixedReader returns the bytes 0x01 forever.
type fixedReader struct{}

func (fixedReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 1
	}
	return len(p), nil
}

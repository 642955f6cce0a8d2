package prss

import (
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ipa-dzkp/internal/types"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

// ring returns endpoints where the right seed of i is the left seed of i+1.
func ring(t *testing.T) [party.Helpers]*Endpoint {
	var seeds [party.Helpers]types.RID
	for i := range seeds {
		rid, err := types.NewRID(rand.Reader)
		require.NoError(t, err)
		seeds[i] = rid
	}
	var out [party.Helpers]*Endpoint
	for i := range out {
		role := party.Role(i)
		e, err := NewEndpoint(seeds[role.Left()], seeds[role])
		require.NoError(t, err)
		out[i] = e
	}
	return out
}

func TestEndpoint_Shared(t *testing.T) {
	endpoints := ring(t)
	f := field.Fp61BitPrime
	for i, e := range endpoints {
		role := party.Role(i)
		right, err := e.RightElement(f, "shared", 3)
		require.NoError(t, err)
		left, err := endpoints[role.Right()].LeftElement(f, "shared", 3)
		require.NoError(t, err)
		assert.True(t, right.Equal(left), "%s and its right neighbour disagree", role)
	}
}

func TestEndpoint_Mask(t *testing.T) {
	endpoints := ring(t)
	f := field.Fp32BitPrime
	for index := uint64(0); index < 10; index++ {
		sum := f.NewElement()
		for _, e := range endpoints {
			m, err := e.Mask(f, "mask", index)
			require.NoError(t, err)
			sum.Add(m)
		}
		assert.True(t, sum.IsZero())
	}
}

func TestEndpoint_Stream(t *testing.T) {
	endpoints := ring(t)
	read := func(d Direction, label string, index uint64) []byte {
		s, err := endpoints[0].Stream(d, label, index)
		require.NoError(t, err)
		buf := make([]byte, 32)
		_, err = io.ReadFull(s, buf)
		require.NoError(t, err)
		return buf
	}

	assert.Equal(t, read(Left, "a", 0), read(Left, "a", 0))
	assert.NotEqual(t, read(Left, "a", 0), read(Left, "a", 1))
	assert.NotEqual(t, read(Left, "a", 0), read(Left, "b", 0))
	assert.NotEqual(t, read(Left, "a", 0), read(Right, "a", 0))
}

func TestNewEndpoint_Invalid(t *testing.T) {
	rid, err := types.NewRID(rand.Reader)
	require.NoError(t, err)
	_, err = NewEndpoint(types.EmptyRID(), rid)
	assert.Error(t, err)
	_, err = NewEndpoint(rid, rid[:4])
	assert.Error(t, err)
}

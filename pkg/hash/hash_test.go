package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nilWriter struct{}

func TestHash_WriteAny(t *testing.T) {
	var err error

	testFunc := func(vs ...interface{}) error {
		h := New()
		for _, v := range vs {
			err = h.WriteAny(v)
			if err != nil {
				return err
			}
		}
		return nil
	}

	assert.NoError(t, testFunc(uint64(35)))
	assert.NoError(t, testFunc([]byte{1, 4, 6}))
	assert.NoError(t, testFunc(&BytesWithDomain{"test", []byte{1}}))
	assert.Error(t, testFunc(&BytesWithDomain{"nil", nil}))
	assert.Panics(t, func() { _ = testFunc(nilWriter{}) })
	assert.NoError(t, testFunc(uint64(35), []byte{1, 4, 6}))
}

func TestHash_DomainSeparation(t *testing.T) {
	a := New(&BytesWithDomain{"A", []byte{1, 2}})
	b := New(&BytesWithDomain{"B", []byte{1, 2}})
	assert.NotEqual(t, a.Sum(), b.Sum())

	c := New()
	_ = c.WriteAny([]byte{1}, []byte{2})
	d := New()
	_ = d.WriteAny([]byte{1, 2})
	assert.NotEqual(t, c.Sum(), d.Sum())
}

func TestHash_Clone(t *testing.T) {
	h := New(&BytesWithDomain{"A", []byte{1, 2}})
	c := h.Clone()
	assert.Equal(t, h.Sum(), c.Sum())
	_ = c.WriteAny(uint64(1))
	assert.NotEqual(t, h.Sum(), c.Sum())
	assert.Len(t, h.Sum(), DigestLengthBytes)
}

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_IsFor(t *testing.T) {
	m := Message{From: "a", To: "b"}
	assert.True(t, m.IsFor("b"))
	assert.False(t, m.IsFor("a"))
	assert.False(t, m.IsFor("c"))

	m.To = ""
	assert.True(t, m.IsFor("b"))
	assert.True(t, m.IsFor("c"))
	assert.False(t, m.IsFor("a"))
}

func TestMessage_Hash(t *testing.T) {
	m := Message{SSID: []byte("ssid"), From: "a", To: "b", Protocol: "p", RoundNumber: 2, Data: []byte{1}}
	other := m
	other.Data = []byte{2}
	assert.Len(t, m.Hash(), 64)
	assert.Equal(t, m.Hash(), m.Hash())
	assert.NotEqual(t, m.Hash(), other.Hash())
}

// Package prss implements pseudo-random secret sharing between the three helpers of the ring.
//
// Every pair of neighbours holds a common seed. From these seeds a helper can derive, without any
// interaction, values known to itself and its left neighbour, values known to itself and its right
// neighbour, and additive shares of zero.
package prss

import (
	"fmt"
	"io"

	"github.com/taurusgroup/ipa-dzkp/internal/params"
	"github.com/taurusgroup/ipa-dzkp/internal/types"
	"github.com/taurusgroup/ipa-dzkp/pkg/hash"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/sample"
	"github.com/tuneinsight/lattigo/v4/utils"
)

// Direction selects the neighbour a derived value is shared with.
type Direction uint8

const (
	// Left is the seed shared with the left neighbour.
	Left Direction = iota
	// Right is the seed shared with the right neighbour.
	Right
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// Endpoint holds the two seeds of one helper.
// The right seed of Hᵢ is the left seed of Hᵢ₊₁.
type Endpoint struct {
	left, right types.RID
}

// NewEndpoint returns the endpoint for the given seeds.
func NewEndpoint(left, right types.RID) (*Endpoint, error) {
	if err := left.Validate(); err != nil {
		return nil, fmt.Errorf("prss: left seed: %w", err)
	}
	if err := right.Validate(); err != nil {
		return nil, fmt.Errorf("prss: right seed: %w", err)
	}
	return &Endpoint{left: left.Copy(), right: right.Copy()}, nil
}

func (e *Endpoint) seed(d Direction) types.RID {
	if d == Left {
		return e.left
	}
	return e.right
}

// Stream returns a deterministic stream of bytes identified by (label, index),
// which the neighbour in direction d can reproduce.
func (e *Endpoint) Stream(d Direction, label string, index uint64) (io.Reader, error) {
	h := hash.New(e.seed(d))
	if err := h.WriteAny(&hash.BytesWithDomain{TheDomain: "PRSS Label", Bytes: []byte(label)}, index); err != nil {
		return nil, fmt.Errorf("prss: %w", err)
	}
	key := h.Sum()[:params.SecBytes]
	prng, err := utils.NewKeyedPRNG(key)
	if err != nil {
		return nil, fmt.Errorf("prss: %s stream: %w", d, err)
	}
	return prng, nil
}

// Elements returns n field elements shared with the neighbour in direction d.
func (e *Endpoint) Elements(d Direction, f field.Field, label string, index uint64, n int) ([]field.Element, error) {
	stream, err := e.Stream(d, label, index)
	if err != nil {
		return nil, err
	}
	return sample.Elements(stream, f, n), nil
}

// LeftElement returns a field element shared with the left neighbour.
func (e *Endpoint) LeftElement(f field.Field, label string, index uint64) (field.Element, error) {
	xs, err := e.Elements(Left, f, label, index, 1)
	if err != nil {
		return nil, err
	}
	return xs[0], nil
}

// RightElement returns a field element shared with the right neighbour.
func (e *Endpoint) RightElement(f field.Field, label string, index uint64) (field.Element, error) {
	xs, err := e.Elements(Right, f, label, index, 1)
	if err != nil {
		return nil, err
	}
	return xs[0], nil
}

// Pair returns both the left and right elements for (label, index).
func (e *Endpoint) Pair(f field.Field, label string, index uint64) (left, right field.Element, err error) {
	if left, err = e.LeftElement(f, label, index); err != nil {
		return nil, nil, err
	}
	if right, err = e.RightElement(f, label, index); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// Mask returns right - left, so that the masks of the three helpers sum to zero.
func (e *Endpoint) Mask(f field.Field, label string, index uint64) (field.Element, error) {
	left, right, err := e.Pair(f, label, index)
	if err != nil {
		return nil, err
	}
	return right.Sub(left), nil
}

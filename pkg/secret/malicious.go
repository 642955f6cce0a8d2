package secret

import (
	"errors"
	"fmt"
	"io"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

// ErrMAC is returned when the message authentication share of a malicious sharing does not match.
var ErrMAC = errors.New("secret: MAC check failed")

// Malicious extends a replicated sharing of x with a sharing of r⋅x,
// where r is a secret MAC key shared by the helpers.
type Malicious struct {
	X, RX Replicated
}

// Add returns a sharing of x + y together with its MAC.
func (x Malicious) Add(y Malicious) Malicious {
	return Malicious{X: x.X.Add(y.X), RX: x.RX.Add(y.RX)}
}

// Sub returns a sharing of x - y together with its MAC.
func (x Malicious) Sub(y Malicious) Malicious {
	return Malicious{X: x.X.Sub(y.X), RX: x.RX.Sub(y.RX)}
}

// MulConstant returns a sharing of c⋅x together with its MAC.
func (x Malicious) MulConstant(c field.Element) Malicious {
	return Malicious{X: x.X.MulConstant(c), RX: x.RX.MulConstant(c)}
}

// ShareMalicious shares x together with r⋅x.
func ShareMalicious(f field.Field, x, r field.Element, rand io.Reader) [party.Helpers]Malicious {
	xs := Share(f, x, rand)
	rxs := Share(f, r.Clone().Mul(x), rand)
	var out [party.Helpers]Malicious
	for role := range out {
		out[role] = Malicious{X: xs[role], RX: rxs[role]}
	}
	return out
}

// ReconstructMalicious reconstructs x and checks that the MAC sharing opens to r⋅x.
func ReconstructMalicious(shares [party.Helpers]Malicious, r field.Element) (field.Element, error) {
	var xs, rxs [party.Helpers]Replicated
	for role, s := range shares {
		xs[role], rxs[role] = s.X, s.RX
	}
	x, err := Reconstruct(xs)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	rx, err := Reconstruct(rxs)
	if err != nil {
		return nil, fmt.Errorf("mac: %w", err)
	}
	if !r.Clone().Mul(x).Equal(rx) {
		return nil, ErrMAC
	}
	return x, nil
}

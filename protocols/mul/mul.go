// Package mul implements the multiplication of replicated secret shares.
//
// Each helper computes an additive share of every product, masks it with a zero sharing drawn from
// the PRSS, and sends it to its left neighbour. Besides the products, the output contains the
// records which the helpers later prove and verify with the distributed zero-knowledge proof.
package mul

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/protocol"
	"github.com/taurusgroup/ipa-dzkp/pkg/prss"
	"github.com/taurusgroup/ipa-dzkp/pkg/secret"
)

const (
	// Semi-honest multiplication with proof records.
	protocolID = "ipa/mul"
	// This protocol has 2 concrete rounds.
	protocolRounds round.Number = 2
)

// These assert that our rounds implement the round.Round interface.
var (
	_ round.Round        = (*round1)(nil)
	_ round.PartialRound = (*round2)(nil)
)

var errNoInputs = errors.New("mul: no inputs")

// Result is the output of a multiplication session.
type Result struct {
	// Products holds the helper's shares of xs[k]⋅ys[k].
	Products []secret.Replicated
	// Batches holds the records to be proven and verified.
	Batches *dzkp.Batches
}

// Start returns the multiplication of xs and ys element by element, for selfID in the ring of participants.
// The result is a *mul.Result.
func Start(selfID party.ID, participants []party.ID, endpoint *prss.Endpoint, f field.Field, xs, ys []secret.Replicated) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if endpoint == nil {
			return nil, errors.New("mul.Start: no PRSS endpoint")
		}
		if len(xs) == 0 {
			return nil, fmt.Errorf("mul.Start: %w", errNoInputs)
		}
		if len(xs) != len(ys) {
			return nil, fmt.Errorf("mul.Start: %w: %d and %d inputs", dzkp.ErrLengthMismatch, len(xs), len(ys))
		}
		ring, err := party.NewRing(participants)
		if err != nil {
			return nil, fmt.Errorf("mul.Start: %w", err)
		}
		helper, err := round.NewSession(round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolRounds,
			SelfID:           selfID,
			PartyIDs:         ring.IDs(),
			Field:            f,
		}, sessionID, nil)
		if err != nil {
			return nil, fmt.Errorf("mul.Start: %w", err)
		}
		return &round1{
			Helper:   helper,
			ring:     ring,
			endpoint: endpoint,
			xs:       xs,
			ys:       ys,
			label:    fmt.Sprintf("%s %x", protocolID, helper.SSID()),
		}, nil
	}
}

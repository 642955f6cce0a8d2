// Package prss implements the setup of the pseudo-random secret sharing seeds.
//
// Every helper samples one contribution per neighbour. The seed of a pair of neighbours is the
// XOR of both their contributions, so it is uniform as long as one of the two is honest.
package prss

import (
	"crypto/rand"
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/protocol"
)

const (
	// PRSS seed setup between the three helpers.
	protocolID = "ipa/prss-setup"
	// This protocol has 2 concrete rounds.
	protocolRounds round.Number = 2
)

// These assert that our rounds implement the round.Round interface.
var (
	_ round.Round        = (*round1)(nil)
	_ round.PartialRound = (*round2)(nil)
)

// Start returns the setup protocol for selfID in the ring of participants.
// The result is a *prss.Endpoint from pkg/prss.
func Start(f field.Field, selfID party.ID, participants []party.ID) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		ring, err := party.NewRing(participants)
		if err != nil {
			return nil, fmt.Errorf("prss.Start: %w", err)
		}
		helper, err := round.NewSession(round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolRounds,
			SelfID:           selfID,
			PartyIDs:         ring.IDs(),
			Field:            f,
		}, sessionID, nil)
		if err != nil {
			return nil, fmt.Errorf("prss.Start: %w", err)
		}
		return &round1{
			Helper: helper,
			ring:   ring,
			rand:   rand.Reader,
		}, nil
	}
}

// Package dzkp runs the distributed zero-knowledge proof of the multiplications of a session.
//
// Every helper proves its own batch of records, and verifies the batches of both neighbours:
// it is the left verifier of its right neighbour and the right verifier of its left neighbour.
// The two verifiers of a batch never see each other's data, they only exchange hashes of their
// proof shares to derive the challenges, and the shares of the values which must be zero.
package dzkp

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/internal/round"
	zkp "github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/pool"
	"github.com/taurusgroup/ipa-dzkp/pkg/protocol"
	"github.com/taurusgroup/ipa-dzkp/pkg/prss"
)

const (
	// Distributed proof of the multiplication records.
	protocolID = "ipa/dzkp"
	// This protocol has 4 concrete rounds.
	protocolRounds round.Number = 4
)

// These assert that our rounds implement the round.Round interface.
var (
	_ round.Round        = (*round1)(nil)
	_ round.PartialRound = (*round2)(nil)
	_ round.PartialRound = (*round3)(nil)
	_ round.PartialRound = (*round4)(nil)
)

var errEmptyBatch = errors.New("dzkp: empty batch")

// Result is the output of a successful verification.
type Result struct {
	// Verified holds the neighbours whose batches were accepted.
	Verified party.IDSlice
}

// Start returns the proof and verification of batches for selfID in the ring of participants.
// pl may be nil, in which case the proofs are computed on a single goroutine.
// The result is a *dzkp.Result. When a proof is rejected, the session aborts with the prover as culprit.
func Start(selfID party.ID, participants []party.ID, endpoint *prss.Endpoint, cfg zkp.Config, batches *zkp.Batches, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("dzkp.Start: %w", err)
		}
		if endpoint == nil {
			return nil, errors.New("dzkp.Start: no PRSS endpoint")
		}
		if batches == nil || batches.Own == nil || batches.Left == nil || batches.Right == nil {
			return nil, fmt.Errorf("dzkp.Start: %w", round.ErrNilFields)
		}
		for _, b := range []*zkp.Batch{batches.Own, batches.Left, batches.Right} {
			if b.Len() == 0 {
				return nil, fmt.Errorf("dzkp.Start: %w", errEmptyBatch)
			}
			if b.Field != cfg.Field {
				return nil, fmt.Errorf("dzkp.Start: batch over %s, expected %s", b.Field.Name(), cfg.Field.Name())
			}
		}
		ring, err := party.NewRing(participants)
		if err != nil {
			return nil, fmt.Errorf("dzkp.Start: %w", err)
		}
		helper, err := round.NewSession(round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolRounds,
			SelfID:           selfID,
			PartyIDs:         ring.IDs(),
			Field:            cfg.Field,
		}, sessionID, pl, cfg)
		if err != nil {
			return nil, fmt.Errorf("dzkp.Start: %w", err)
		}
		ssid := helper.SSID()
		return &round1{
			Helper:     helper,
			ring:       ring,
			endpoint:   endpoint,
			cfg:        cfg,
			batches:    batches,
			maskLabel:  fmt.Sprintf("%s mask %x", protocolID, ssid),
			proofLabel: fmt.Sprintf("%s proof %x", protocolID, ssid),
		}, nil
	}
}

// left and right return the neighbours of the helper.
func (r *round1) left() party.ID  { return r.ring.Left(r.SelfID()) }
func (r *round1) right() party.ID { return r.ring.Right(r.SelfID()) }

// proofLengths returns the expected lengths of the proofs of a batch with n values,
// the last one being the final proof.
func proofLengths(cfg zkp.Config, n int) []int {
	rounds := cfg.RoundCount(n)
	out := make([]int, rounds+1)
	for k := 0; k < rounds; k++ {
		out[k] = zkp.ProofLength(cfg.BlockSize)
	}
	out[rounds] = zkp.FinalProofLength(cfg.FinalBlockSize)
	return out
}

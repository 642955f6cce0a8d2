package dzkp

import (
	"github.com/taurusgroup/ipa-dzkp/internal/round"
	zkp "github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/prss"
)

type round1 struct {
	*round.Helper
	ring     party.Ring
	endpoint *prss.Endpoint
	cfg      zkp.Config
	batches  *zkp.Batches
	// maskLabel and proofLabel separate the PRSS values of different sessions.
	maskLabel, proofLabel string
}

// VerifyMessage implements round.Round.
func (r *round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
// - prove our own batch; the masks of the final proof are shared with the verifiers through the PRSS,
// - split every proof, the left share is generated from the seed shared with the left verifier,
// - send the right shares to the right verifier.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	f := r.cfg.Field
	p0, err := r.endpoint.LeftElement(f, r.maskLabel, 0)
	if err != nil {
		return r, err
	}
	q0, err := r.endpoint.RightElement(f, r.maskLabel, 0)
	if err != nil {
		return r, err
	}

	prover, err := zkp.NewProver(r.cfg, r.batches.Own.U, r.batches.Own.V, r.Pool)
	if err != nil {
		return r, err
	}
	transcript := zkp.NewTranscript(r.SSID(), r.SelfID())
	var rightShares []zkp.Proof
	_, err = prover.Prove(func(k int, proof zkp.Proof) (field.Element, error) {
		stream, err := r.endpoint.Stream(prss.Left, r.proofLabel, uint64(k))
		if err != nil {
			return nil, err
		}
		left, right := proof.Split(f, stream)
		rightShares = append(rightShares, right)
		return transcript.Challenge(f, k, left.Digest(), right.Digest()), nil
	}, p0, q0)
	if err != nil {
		return r, err
	}

	msg := &message2{Proofs: make([]field.Elements, len(rightShares))}
	for k, share := range rightShares {
		msg.Proofs[k] = field.NewElements(f, share)
	}
	if err = r.SendMessage(out, msg, r.right()); err != nil {
		return r, err
	}

	return &round2{round1: r}, nil
}

// MessageContent implements round.Round.
func (*round1) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (*round1) Number() round.Number { return 1 }

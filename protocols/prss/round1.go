package prss

import (
	"io"

	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/internal/types"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

type round1 struct {
	*round.Helper
	ring party.Ring
	rand io.Reader
}

// VerifyMessage implements round.Round.
func (r *round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
// - sample a contribution for each neighbour,
// - send each one to the corresponding neighbour.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	toLeft, err := types.NewRID(r.rand)
	if err != nil {
		return r, err
	}
	toRight, err := types.NewRID(r.rand)
	if err != nil {
		return r, err
	}

	if err = r.SendMessage(out, &message2{Seed: toLeft}, r.ring.Left(r.SelfID())); err != nil {
		return r, err
	}
	if err = r.SendMessage(out, &message2{Seed: toRight}, r.ring.Right(r.SelfID())); err != nil {
		return r, err
	}

	// the sent contributions must not change when the neighbours' ones are XOR'ed in
	return &round2{
		round1:    r,
		leftSeed:  toLeft.Copy(),
		rightSeed: toRight.Copy(),
	}, nil
}

// MessageContent implements round.Round.
func (*round1) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (*round1) Number() round.Number { return 1 }

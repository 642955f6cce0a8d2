package mul

import (
	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/prss"
	"github.com/taurusgroup/ipa-dzkp/pkg/secret"
)

type round1 struct {
	*round.Helper
	ring     party.Ring
	endpoint *prss.Endpoint
	xs, ys   []secret.Replicated
	// label separates the PRSS values of different sessions.
	label string
}

// VerifyMessage implements round.Round.
func (r *round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
// - compute the masked share zᵢ of each product,
// - record the values proving that zᵢ was computed correctly,
// - send all zᵢ to the left neighbour.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	f := r.Field()
	zs := make([]field.Element, len(r.xs))
	own := dzkp.NewBatch(f)
	for k := range r.xs {
		left, right, err := r.endpoint.Pair(f, r.label, uint64(k))
		if err != nil {
			return r, err
		}
		alpha := right.Clone().Sub(left)
		zs[k] = secret.MultiplyLocal(r.xs[k], r.ys[k], alpha)
		if err = own.Append(dzkp.ProverRecord(r.xs[k], r.ys[k], zs[k], left, right)); err != nil {
			return r, err
		}
	}

	if err := r.SendMessage(out, &message2{Z: field.NewElements(f, zs)}, r.ring.Left(r.SelfID())); err != nil {
		return r, err
	}

	return &round2{
		round1: r,
		zs:     zs,
		own:    own,
	}, nil
}

// MessageContent implements round.Round.
func (*round1) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (*round1) Number() round.Number { return 1 }

package mul

import (
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/secret"
)

type round2 struct {
	*round1
	// zs are our own product shares.
	zs []field.Element
	// own are the records of our multiplications.
	own *dzkp.Batch
	// rightZs are the product shares of the right neighbour.
	rightZs []field.Element
}

type message2 struct {
	Z field.Elements
}

// Senders implements round.PartialRound.
func (r *round2) Senders() party.IDSlice {
	return party.IDSlice{r.ring.Right(r.SelfID())}
}

// VerifyMessage implements round.Round.
//
// - check that one share was received for each product.
func (r *round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if body.Z.Field != r.Field() {
		return round.ErrInvalidContent
	}
	if body.Z.Len() != len(r.xs) {
		return fmt.Errorf("%w: got %d product shares, expected %d", dzkp.ErrLengthMismatch, body.Z.Len(), len(r.xs))
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *round2) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message2)
	r.rightZs = body.Z.Values
	return nil
}

// Finalize implements round.Round.
//
// - assemble the shares (zᵢ, zᵢ₊₁) of the products,
// - record the u side of the right neighbour's multiplications from zᵢ₊₁,
// - record the v side of the left neighbour's multiplications.
func (r *round2) Finalize(chan<- *round.Message) (round.Session, error) {
	f := r.Field()
	products := make([]secret.Replicated, len(r.xs))
	batches := &dzkp.Batches{
		Own:   r.own,
		Left:  dzkp.NewBatch(f),
		Right: dzkp.NewBatch(f),
	}
	for k := range r.xs {
		products[k] = secret.NewReplicated(r.zs[k], r.rightZs[k])

		left, right, err := r.endpoint.Pair(f, r.label, uint64(k))
		if err != nil {
			return r, err
		}
		if err = batches.Right.Append(dzkp.LeftVerifierRecord(r.xs[k], r.ys[k], r.rightZs[k], right)); err != nil {
			return r, err
		}
		if err = batches.Left.Append(dzkp.RightVerifierRecord(r.xs[k], r.ys[k], left)); err != nil {
			return r, err
		}
	}
	return r.ResultRound(&Result{
		Products: products,
		Batches:  batches,
	}), nil
}

// MessageContent implements round.Round.
func (*round2) MessageContent() round.Content { return &message2{} }

// Number implements round.Round.
func (*round2) Number() round.Number { return 2 }

// RoundNumber implements round.Content.
func (message2) RoundNumber() round.Number { return 2 }

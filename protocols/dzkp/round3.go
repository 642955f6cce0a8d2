package dzkp

import (
	"context"
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/internal/round"
	zkp "github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

type round3 struct {
	*round2
	// leftShares are the left shares of the right neighbour's proofs.
	leftShares []zkp.Proof
	// leftDigests are the hashes of leftShares, rightDigests those of round2.rightShares.
	leftDigests, rightDigests [][]byte
	// partnerRight are the hashes of the right neighbour's right shares, received from its right verifier.
	partnerRight [][]byte
	// partnerLeft are the hashes of the left neighbour's left shares, received from its left verifier.
	partnerLeft [][]byte
}

type message3 struct {
	// Prover is the helper whose proof shares were hashed.
	Prover  party.ID
	Digests [][]byte
}

// Senders implements round.PartialRound.
func (r *round3) Senders() party.IDSlice {
	return party.NewIDSlice([]party.ID{r.left(), r.right()})
}

// VerifyMessage implements round.Round.
//
// - check that the hashes concern the neighbour we verify together with the sender,
// - check that there is one hash per proof.
func (r *round3) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message3)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	// the left neighbour is the right verifier of our right neighbour, and vice versa
	var expected int
	switch {
	case msg.From == r.left() && body.Prover == r.right():
		expected = len(r.leftDigests)
	case msg.From == r.right() && body.Prover == r.left():
		expected = len(r.rightDigests)
	default:
		return fmt.Errorf("%w: hashes of %s from %s", round.ErrInvalidContent, body.Prover, msg.From)
	}
	if len(body.Digests) != expected {
		return fmt.Errorf("%w: got %d hashes, expected %d", zkp.ErrLengthMismatch, len(body.Digests), expected)
	}
	for _, d := range body.Digests {
		if len(d) == 0 {
			return round.ErrNilFields
		}
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *round3) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message3)
	if msg.From == r.left() {
		r.partnerRight = body.Digests
	} else {
		r.partnerLeft = body.Digests
	}
	return nil
}

// Finalize implements round.Round.
//
// - derive the challenges of both neighbours' proofs from the hashes of both shares,
// - verify our shares of both proofs,
// - send the resulting shares to the partner verifier of each proof.
func (r *round3) Finalize(out chan<- *round.Message) (round.Session, error) {
	f := r.cfg.Field
	// the right neighbour's p₀ and the left neighbour's q₀ are the values we share with them
	p0, err := r.endpoint.RightElement(f, r.maskLabel, 0)
	if err != nil {
		return r, err
	}
	q0, err := r.endpoint.LeftElement(f, r.maskLabel, 0)
	if err != nil {
		return r, err
	}

	asLeft := r.job(r.right(), r.batches.Right.U, r.leftShares, r.leftDigests, r.partnerRight, p0)
	asRight := r.job(r.left(), r.batches.Left.V, r.rightShares, r.partnerLeft, r.rightDigests, q0)
	shares, err := zkp.VerifyBatches(context.Background(), r.cfg, []*zkp.Job{asLeft, asRight})
	if err != nil {
		return r, err
	}

	if err = r.SendMessage(out, newMessage4(f, r.right(), shares[0]), r.left()); err != nil {
		return r, err
	}
	if err = r.SendMessage(out, newMessage4(f, r.left(), shares[1]), r.right()); err != nil {
		return r, err
	}

	return &round4{
		round3:  r,
		asLeft:  shares[0],
		asRight: shares[1],
	}, nil
}

// job returns the verification of prover's batch, given our data and proof shares,
// and the hashes of the left and right shares of each proof.
func (r *round3) job(prover party.ID, data []field.Element, proofs []zkp.Proof, left, right [][]byte, mask field.Element) *zkp.Job {
	transcript := zkp.NewTranscript(r.SSID(), prover)
	challenges := make([]field.Element, len(proofs))
	for k := range proofs {
		challenges[k] = transcript.Challenge(r.cfg.Field, k, left[k], right[k])
	}
	last := len(proofs) - 1
	return &zkp.Job{
		Data:       data,
		OutShare:   r.cfg.Field.Zero(),
		Proofs:     proofs[:last],
		Final:      proofs[last],
		Challenges: challenges,
		Mask:       mask,
	}
}

// MessageContent implements round.Round.
func (*round3) MessageContent() round.Content { return &message3{} }

// Number implements round.Round.
func (*round3) Number() round.Number { return 3 }

// RoundNumber implements round.Content.
func (message3) RoundNumber() round.Number { return 3 }

package dzkp

import (
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/internal/round"
	zkp "github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/prss"
)

type round2 struct {
	*round1
	// rightShares are the right shares of the left neighbour's proofs, which we verify as its right verifier.
	rightShares []zkp.Proof
}

type message2 struct {
	// Proofs holds the right share of every intermediate proof, followed by the right share of the final proof.
	Proofs []field.Elements
}

// Senders implements round.PartialRound.
func (r *round2) Senders() party.IDSlice {
	return party.IDSlice{r.left()}
}

// VerifyMessage implements round.Round.
//
// - check that the proof shares have the shape implied by the size of the batch.
func (r *round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	return checkLengths(r.cfg, r.batches.Left.Len(), body.Proofs)
}

// StoreMessage implements round.Round.
func (r *round2) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message2)
	r.rightShares = make([]zkp.Proof, len(body.Proofs))
	for k, p := range body.Proofs {
		r.rightShares[k] = p.Values
	}
	return nil
}

// Finalize implements round.Round.
//
// - regenerate the left shares of the right neighbour's proofs from the seed we share with it,
// - send the hashes of the left shares to the right neighbour's right verifier, our left neighbour,
// - send the hashes of the right shares to the left neighbour's left verifier, our right neighbour.
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	f := r.cfg.Field
	lengths := proofLengths(r.cfg, r.batches.Right.Len()*zkp.RecordLength)
	leftShares := make([]zkp.Proof, len(lengths))
	for k, n := range lengths {
		stream, err := r.endpoint.Stream(prss.Right, r.proofLabel, uint64(k))
		if err != nil {
			return r, err
		}
		leftShares[k] = zkp.LeftShare(f, stream, n)
	}

	leftDigests := digests(leftShares)
	rightDigests := digests(r.rightShares)
	if err := r.SendMessage(out, &message3{Prover: r.right(), Digests: leftDigests}, r.left()); err != nil {
		return r, err
	}
	if err := r.SendMessage(out, &message3{Prover: r.left(), Digests: rightDigests}, r.right()); err != nil {
		return r, err
	}

	return &round3{
		round2:       r,
		leftShares:   leftShares,
		leftDigests:  leftDigests,
		rightDigests: rightDigests,
	}, nil
}

// MessageContent implements round.Round.
func (*round2) MessageContent() round.Content { return &message2{} }

// Number implements round.Round.
func (*round2) Number() round.Number { return 2 }

// RoundNumber implements round.Content.
func (message2) RoundNumber() round.Number { return 2 }

// checkLengths verifies that proofs are the shares of the proofs of a batch with the given number of records.
func checkLengths(cfg zkp.Config, records int, proofs []field.Elements) error {
	lengths := proofLengths(cfg, records*zkp.RecordLength)
	if len(proofs) != len(lengths) {
		return fmt.Errorf("%w: got %d proofs, expected %d", zkp.ErrLengthMismatch, len(proofs), len(lengths))
	}
	for k, p := range proofs {
		if p.Field != cfg.Field {
			return round.ErrInvalidContent
		}
		if p.Len() != lengths[k] {
			return fmt.Errorf("%w: proof %d has %d values, expected %d", zkp.ErrLengthMismatch, k, p.Len(), lengths[k])
		}
	}
	return nil
}

func digests(proofs []zkp.Proof) [][]byte {
	out := make([][]byte, len(proofs))
	for k, p := range proofs {
		out[k] = p.Digest()
	}
	return out
}

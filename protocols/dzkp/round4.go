package dzkp

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/internal/round"
	zkp "github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

type round4 struct {
	*round3
	// asLeft are our shares as left verifier of the right neighbour,
	// asRight as right verifier of the left neighbour.
	asLeft, asRight *zkp.Shares
	// otherRight are the right verifier's shares for the right neighbour,
	// otherLeft the left verifier's shares for the left neighbour.
	otherRight, otherLeft *zkp.Shares
}

type message4 struct {
	// Prover is the helper whose proof the shares belong to.
	Prover party.ID
	// B holds the shares of every intermediate round.
	B field.Elements
	// Final holds the opened value, the out share and the b share of the final round.
	Final field.Elements
}

func newMessage4(f field.Field, prover party.ID, shares *zkp.Shares) *message4 {
	return &message4{
		Prover: prover,
		B:      field.NewElements(f, shares.B),
		Final:  field.NewElements(f, []field.Element{shares.Final.Opened, shares.Final.Out, shares.Final.B}),
	}
}

func (m *message4) shares() *zkp.Shares {
	return &zkp.Shares{
		B: m.B.Values,
		Final: zkp.FinalShares{
			Opened: m.Final.Values[0],
			Out:    m.Final.Values[1],
			B:      m.Final.Values[2],
		},
	}
}

// Senders implements round.PartialRound.
func (r *round4) Senders() party.IDSlice {
	return party.NewIDSlice([]party.ID{r.left(), r.right()})
}

// VerifyMessage implements round.Round.
//
// - check that the shares concern the neighbour we verify together with the sender,
// - check that there is one share per round.
func (r *round4) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message4)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	var expected int
	switch {
	case msg.From == r.left() && body.Prover == r.right():
		expected = len(r.asLeft.B)
	case msg.From == r.right() && body.Prover == r.left():
		expected = len(r.asRight.B)
	default:
		return fmt.Errorf("%w: shares of %s from %s", round.ErrInvalidContent, body.Prover, msg.From)
	}
	if body.B.Field != r.cfg.Field || body.Final.Field != r.cfg.Field {
		return round.ErrInvalidContent
	}
	if body.B.Len() != expected || body.Final.Len() != 3 {
		return fmt.Errorf("%w: got %d round shares and %d final shares", zkp.ErrLengthMismatch, body.B.Len(), body.Final.Len())
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *round4) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message4)
	if msg.From == r.left() {
		r.otherRight = body.shares()
	} else {
		r.otherLeft = body.shares()
	}
	return nil
}

// Finalize implements round.Round.
//
// - combine the shares of both verifiers of each neighbour's proof,
// - abort with every neighbour whose proof was rejected as culprit.
func (r *round4) Finalize(chan<- *round.Message) (round.Session, error) {
	var (
		culprits []party.ID
		errs     []error
	)
	if err := zkp.CheckShares(r.asLeft, r.otherRight); err != nil {
		culprits = append(culprits, r.right())
		errs = append(errs, fmt.Errorf("proof of %s: %w", r.right(), err))
	}
	if err := zkp.CheckShares(r.otherLeft, r.asRight); err != nil {
		culprits = append(culprits, r.left())
		errs = append(errs, fmt.Errorf("proof of %s: %w", r.left(), err))
	}
	if len(culprits) > 0 {
		return r.AbortRound(errors.Join(errs...), culprits...), nil
	}
	return r.ResultRound(&Result{
		Verified: party.NewIDSlice([]party.ID{r.left(), r.right()}),
	}), nil
}

// MessageContent implements round.Round.
func (*round4) MessageContent() round.Content { return &message4{} }

// Number implements round.Round.
func (*round4) Number() round.Number { return 4 }

// RoundNumber implements round.Content.
func (message4) RoundNumber() round.Number { return 4 }

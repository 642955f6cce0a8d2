package prss

import (
	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/internal/types"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/prss"
)

type round2 struct {
	*round1
	// leftSeed and rightSeed start as our own contributions, and become the shared seeds
	// once the neighbour's contribution is XOR'ed in.
	leftSeed, rightSeed types.RID
}

type message2 struct {
	Seed types.RID
}

// Senders implements round.PartialRound.
func (r *round2) Senders() party.IDSlice {
	return party.NewIDSlice([]party.ID{r.ring.Left(r.SelfID()), r.ring.Right(r.SelfID())})
}

// VerifyMessage implements round.Round.
func (r *round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	return body.Seed.Validate()
}

// StoreMessage implements round.Round.
func (r *round2) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message2)
	switch msg.From {
	case r.ring.Left(r.SelfID()):
		r.leftSeed.XOR(body.Seed)
	case r.ring.Right(r.SelfID()):
		r.rightSeed.XOR(body.Seed)
	default:
		return round.ErrInvalidContent
	}
	return nil
}

// Finalize implements round.Round.
func (r *round2) Finalize(chan<- *round.Message) (round.Session, error) {
	endpoint, err := prss.NewEndpoint(r.leftSeed, r.rightSeed)
	if err != nil {
		return r, err
	}
	return r.ResultRound(endpoint), nil
}

// MessageContent implements round.Round.
func (*round2) MessageContent() round.Content { return &message2{} }

// Number implements round.Round.
func (*round2) Number() round.Number { return 2 }

// RoundNumber implements round.Content.
func (message2) RoundNumber() round.Number { return 2 }

package round

import (
	"errors"

	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

var (
	// ErrOutChanFull is returned when the out channel cannot accept another message.
	ErrOutChanFull = errors.New("round: out channel is full")
	// ErrInvalidContent is returned when a message's content is not of the type expected by the round.
	ErrInvalidContent = errors.New("round: content is not the right type")
	// ErrNilFields is returned when a message's content is missing some of its fields.
	ErrNilFields = errors.New("round: message contained empty fields")
)

type Round interface {
	// VerifyMessage handles an incoming Message from j and validates its content with regard to the protocol specification.
	// The content argument can be cast to the appropriate type for this round without error check.
	// In the first round, this function returns nil.
	// This function should not modify any saved state as it may be be running concurrently.
	VerifyMessage(msg Message) error

	// StoreMessage should be called after VerifyMessage and should only store the appropriate fields from the
	// content.
	StoreMessage(msg Message) error

	// Finalize is called after all messages from the parties have been processed in the current round.
	// Messages for the next round are sent out through the out channel.
	// If a non-critical error occurs (like a failure to sample, hash, or send a message), the current round can be
	// returned so that the caller may try to finalize again.
	//
	// In the last round, Finalize should return
	//   r.ResultRound(result), nil
	// where result is the output of the protocol.
	// When misbehaviour is detected, it should return r.AbortRound(err, culprits...), nil.
	Finalize(out chan<- *Message) (Session, error)

	// MessageContent returns an uninitialized message.Content for this round.
	//
	// The first round of a protocol should return nil.
	MessageContent() Content

	// Number returns the current round number.
	Number() Number
}

// PartialRound is implemented by rounds which only expect messages from some of the other parties.
//
// In the replicated setting most messages travel to a single neighbour,
// so a round usually waits for the left or right helper only.
type PartialRound interface {
	Round
	// Senders returns the parties from which a message is expected in this round.
	Senders() party.IDSlice
}

// ExpectedSenders returns the parties whose messages r waits for before it can be finalized.
func ExpectedSenders(r Session) party.IDSlice {
	if r.MessageContent() == nil {
		return party.IDSlice{}
	}
	if p, ok := r.(PartialRound); ok {
		return p.Senders()
	}
	return r.OtherPartyIDs()
}

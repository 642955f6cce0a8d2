package protocol

import (
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

// Error is a custom error for protocols which contains information about the responsible round in which it occurred,
// and the parties responsible.
type Error struct {
	// RoundNumber where the error occurred
	RoundNumber round.Number
	// Culprits is empty if the identity of the misbehaving party cannot be known
	Culprits []party.ID
	// Err is the underlying error
	Err error
}

func (e Error) Error() string {
	if len(e.Culprits) == 0 {
		return fmt.Sprintf("round %d: %s", e.RoundNumber, e.Err)
	}
	return fmt.Sprintf("round %d: culprits: %v: %s", e.RoundNumber, e.Culprits, e.Err)
}

func (e Error) Unwrap() error {
	return e.Err
}

// messageError indicates that a message does not pass validation.
type messageError string

const (
	ErrDuplicate          messageError = "message was already handled"
	ErrUnknownSender      messageError = "unknown sender"
	ErrWrongSSID          messageError = "SSID mismatch"
	ErrWrongProtocolID    messageError = "wrong protocol ID"
	ErrWrongDestination   messageError = "message is not intended for selfID"
	ErrInvalidRoundNumber messageError = "round number is invalid for this protocol"
	ErrUnexpectedSender   messageError = "sender is not expected to send in this round"
	ErrNilFields          messageError = "message contained empty fields"
)

// Error implements error.
func (err messageError) Error() string {
	return "message: " + string(err)
}

package round

import (
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

// Content represents the message returned by a round during finalization.
type Content interface {
	RoundNumber() Number
}

// Message is a round's content together with its routing header.
// An empty To means the message is sent to all other parties.
type Message struct {
	From, To party.ID
	Content  Content
}

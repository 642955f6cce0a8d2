package protocol

import (
	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

// queue stores the messages received for every round, including those which arrive before
// the handler has reached their round.
type queue struct {
	messages  map[round.Number]map[party.ID]*Message
	processed map[round.Number]map[party.ID]bool
}

func newQueue() *queue {
	return &queue{
		messages:  map[round.Number]map[party.ID]*Message{},
		processed: map[round.Number]map[party.ID]bool{},
	}
}

// Store saves msg, returning ErrDuplicate if a message from the same sender and round is already known.
func (q *queue) Store(msg *Message) error {
	byRound, ok := q.messages[msg.RoundNumber]
	if !ok {
		byRound = map[party.ID]*Message{}
		q.messages[msg.RoundNumber] = byRound
	}
	if _, ok = byRound[msg.From]; ok {
		return ErrDuplicate
	}
	byRound[msg.From] = msg
	return nil
}

// Pending returns the stored messages of a round which were not yet processed.
func (q *queue) Pending(number round.Number) []*Message {
	out := make([]*Message, 0, len(q.messages[number]))
	for id, msg := range q.messages[number] {
		if !q.processed[number][id] {
			out = append(out, msg)
		}
	}
	return out
}

// MarkProcessed records that the message of id in the given round was verified and stored by the round.
func (q *queue) MarkProcessed(number round.Number, id party.ID) {
	byRound, ok := q.processed[number]
	if !ok {
		byRound = map[party.ID]bool{}
		q.processed[number] = byRound
	}
	byRound[id] = true
}

// ProcessedAll returns true if a message from every id was processed in the given round.
func (q *queue) ProcessedAll(number round.Number, ids party.IDSlice) bool {
	for _, id := range ids {
		if !q.processed[number][id] {
			return false
		}
	}
	return true
}

package test

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"golang.org/x/sync/errgroup"
)

// Rule describes various hooks that can be applied to a protocol execution.
type Rule interface {
	// ModifyBefore modifies r before r.Finalize() is called.
	ModifyBefore(r round.Session)
	// ModifyAfter modifies rNext, which is the round returned by r.Finalize().
	ModifyAfter(rNext round.Session)
	// ModifyContent modifies content for the message that is delivered in rNext.
	ModifyContent(rNext round.Session, to party.ID, content round.Content)
}

// Rounds finalizes every round, and delivers the resulting messages to the next rounds after a CBOR round trip.
// It returns true once all rounds are Output or Abort rounds.
func Rounds(rounds []round.Session, rule Rule) (error, bool) {
	var (
		err      error
		errGroup errgroup.Group
		N        = len(rounds)
		out      = make(chan *round.Message, 2*N*N)
	)

	if _, err = checkAllRoundsSame(rounds); err != nil {
		return err, false
	}
	for id := range rounds {
		idx := id
		r := rounds[idx]
		errGroup.Go(func() error {
			var rNew round.Session
			var err error
			if rule != nil {
				rule.ModifyBefore(r)
				outFake := make(chan *round.Message, 2*N)
				rNew, err = r.Finalize(outFake)
				close(outFake)
				if err != nil {
					return err
				}
				rule.ModifyAfter(rNew)
				for msg := range outFake {
					rule.ModifyContent(rNew, msg.To, msg.Content)
					out <- msg
				}
			} else {
				if rNew, err = r.Finalize(out); err != nil {
					return err
				}
			}

			if rNew != nil {
				rounds[idx] = rNew
			}
			return nil
		})
	}
	if err = errGroup.Wait(); err != nil {
		return err, false
	}
	close(out)

	// parties may finish differently, a prover does not learn that its proof was rejected
	if finished(rounds) {
		return nil, true
	}
	if _, err = checkAllRoundsSame(rounds); err != nil {
		return err, false
	}

	// a party handles its messages one at a time, as the protocol.Handler does
	received := make(map[party.ID]party.IDSlice, N)
	inboxes := make(map[party.ID][]round.Message, N)
	for msg := range out {
		msgBytes, err := cbor.Marshal(msg.Content)
		if err != nil {
			return err, false
		}
		for _, r := range rounds {
			if !isFor(msg, r.SelfID()) || msg.Content.RoundNumber() != r.Number() {
				continue
			}
			m := *msg
			m.Content = r.MessageContent()
			if err = cbor.Unmarshal(msgBytes, m.Content); err != nil {
				return err, false
			}
			received[r.SelfID()] = append(received[r.SelfID()], msg.From)
			inboxes[r.SelfID()] = append(inboxes[r.SelfID()], m)
		}
	}
	for _, r := range rounds {
		r := r
		inbox := inboxes[r.SelfID()]
		errGroup.Go(func() error {
			for _, m := range inbox {
				if err := r.VerifyMessage(m); err != nil {
					return err
				}
				if err := r.StoreMessage(m); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err = errGroup.Wait(); err != nil {
		return err, false
	}

	for _, r := range rounds {
		from := party.NewIDSlice(received[r.SelfID()])
		for _, id := range round.ExpectedSenders(r) {
			if !from.Contains(id) {
				return fmt.Errorf("round %d of %s: no message from %s", r.Number(), r.SelfID(), id), false
			}
		}
	}

	return nil, false
}

func isFor(msg *round.Message, id party.ID) bool {
	if msg.From == id {
		return false
	}
	return msg.To == "" || msg.To == id
}

func finished(rounds []round.Session) bool {
	for _, r := range rounds {
		switch r.(type) {
		case *round.Output, *round.Abort:
		default:
			return false
		}
	}
	return true
}

func checkAllRoundsSame(rounds []round.Session) (reflect.Type, error) {
	var t reflect.Type
	for _, r := range rounds {
		t2 := reflect.TypeOf(r)
		if t == nil {
			t = t2
		} else if t != t2 {
			return t, fmt.Errorf("two different rounds: %s %s", t, t2)
		}
	}
	return t, nil
}

// Run drives the rounds until all parties have finished.
func Run(rounds []round.Session, rule Rule) error {
	for {
		err, done := Rounds(rounds, rule)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

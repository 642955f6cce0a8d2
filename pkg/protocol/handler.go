package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

// StartFunc is function that creates the first round of a protocol.
// It returns the first round initialized with the session information.
// If the creation fails (likely due to misconfiguration), and error is returned.
//
// An optional sessionID can be provided, which should unique among all protocol executions.
type StartFunc func(sessionID []byte) (round.Session, error)

// Handler represents an execution of a given protocol.
// It provides a simple interface for the user to receive/deliver protocol messages.
type Handler struct {
	currentRound round.Session
	err          *Error
	result       interface{}
	queue        *queue
	out          chan *Message
	done         bool
	mtx          sync.Mutex

	// Log receives the progress of the execution.
	Log zerolog.Logger
}

// Option configures a Handler.
type Option func(h *Handler)

// WithLogger replaces the handler's logger, which discards everything by default.
// The protocol, party and round are added to the logger's context.
func WithLogger(log zerolog.Logger) Option {
	return func(h *Handler) {
		h.Log = log
	}
}

// NewHandler expects a StartFunc for the desired protocol. It returns a handler that the user can interact with.
func NewHandler(create StartFunc, sessionID []byte, opts ...Option) (*Handler, error) {
	r, err := create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to create round: %w", err)
	}
	h := &Handler{
		currentRound: r,
		queue:        newQueue(),
		out:          make(chan *Message, 2*r.N()*int(r.FinalRoundNumber())),
		Log:          zerolog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.Log = h.Log.With().
		Str("protocol", r.ProtocolID()).
		Str("party", string(r.SelfID())).
		Int("round", int(r.Number())).
		Logger()
	h.Log.Info().Msg("start")

	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.finalize()
	return h, nil
}

// Result returns the protocol result if the protocol completed successfully. Otherwise an error is returned.
func (h *Handler) Result() (interface{}, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, *h.err
	}
	return nil, errors.New("protocol: not finished")
}

// Listen returns a channel with outgoing messages that must be sent to other parties.
// The channel is closed when the protocol finishes, either successfully or with an error.
func (h *Handler) Listen() <-chan *Message {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.out
}

// CanAccept checks whether or not a message can be accepted at the current point in the protocol.
func (h *Handler) CanAccept(msg *Message) bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.validate(msg) == nil
}

func (h *Handler) validate(msg *Message) error {
	r := h.currentRound
	if msg == nil || msg.Data == nil {
		return ErrNilFields
	}
	if !msg.IsFor(r.SelfID()) {
		return ErrWrongDestination
	}
	if msg.Protocol != r.ProtocolID() {
		return ErrWrongProtocolID
	}
	if !bytes.Equal(msg.SSID, r.SSID()) {
		return ErrWrongSSID
	}
	if !r.PartyIDs().Contains(msg.From) {
		return ErrUnknownSender
	}
	// output rounds have number 0, after which no message is accepted
	if msg.RoundNumber <= 1 || msg.RoundNumber > r.FinalRoundNumber() || r.Number() == 0 {
		return ErrInvalidRoundNumber
	}
	if msg.RoundNumber < r.Number() {
		return ErrInvalidRoundNumber
	}
	if msg.RoundNumber == r.Number() && !round.ExpectedSenders(r).Contains(msg.From) {
		return ErrUnexpectedSender
	}
	return nil
}

// Accept tries to process the given message. If an abort occurs, the channel returned by Listen() is closed,
// and an error is returned by Result().
//
// This function may be called concurrently from different threads but may block until all previous calls have finished.
func (h *Handler) Accept(msg *Message) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	// exit early if the message is bad, or if we are already done
	if msg == nil || h.result != nil || h.err != nil {
		return
	}
	if err := h.validate(msg); err != nil {
		h.Log.Warn().Err(err).Stringer("msg", msg).Msg("rejected message")
		return
	}
	if err := h.queue.Store(msg); err != nil {
		h.Log.Warn().Err(err).Stringer("msg", msg).Msg("rejected message")
		return
	}
	h.Log.Debug().Str("from", string(msg.From)).Int("message round", int(msg.RoundNumber)).Msg("stored message")

	if msg.RoundNumber == h.currentRound.Number() {
		if err := h.process(msg); err != nil {
			return
		}
	}
	h.finalize()
}

// process decodes the content of msg and hands it to the current round.
// A message that fails verification aborts the protocol, with the sender as culprit.
func (h *Handler) process(msg *Message) error {
	r := h.currentRound
	content := r.MessageContent()
	if content == nil {
		return nil
	}
	// messages queued for a later round are only checked against its senders now
	if !round.ExpectedSenders(r).Contains(msg.From) {
		h.Log.Warn().Err(ErrUnexpectedSender).Stringer("msg", msg).Msg("dropped message")
		return nil
	}
	if err := cbor.Unmarshal(msg.Data, content); err != nil {
		h.abort(fmt.Errorf("failed to unmarshal: %w", err), msg.From)
		return h.err
	}
	roundMsg := round.Message{
		From:    msg.From,
		To:      msg.To,
		Content: content,
	}
	if err := r.VerifyMessage(roundMsg); err != nil {
		h.abort(err, msg.From)
		return h.err
	}
	if err := r.StoreMessage(roundMsg); err != nil {
		h.abort(err, msg.From)
		return h.err
	}
	h.queue.MarkProcessed(r.Number(), msg.From)
	return nil
}

// finalize advances the protocol for as long as the current round has all its messages.
func (h *Handler) finalize() {
	for h.result == nil && h.err == nil {
		r := h.currentRound
		if !h.queue.ProcessedAll(r.Number(), round.ExpectedSenders(r)) {
			return
		}

		out := make(chan *round.Message, 2*r.N())
		next, err := r.Finalize(out)
		close(out)
		if err != nil || next == nil {
			if err == nil {
				err = errors.New("round returned no next round")
			}
			h.abort(err)
			return
		}

		for roundMsg := range out {
			data, err := cbor.Marshal(roundMsg.Content)
			if err != nil {
				h.abort(fmt.Errorf("failed to marshal round message: %w", err))
				return
			}
			h.send(&Message{
				SSID:        r.SSID(),
				From:        r.SelfID(),
				To:          roundMsg.To,
				Protocol:    r.ProtocolID(),
				RoundNumber: roundMsg.Content.RoundNumber(),
				Data:        data,
			})
		}

		switch R := next.(type) {
		case *round.Output:
			h.result = R.Result
			h.Log.Info().Msg("done")
			h.stop()
			return
		case *round.Abort:
			h.abort(R.Err, R.Culprits...)
			return
		}

		h.currentRound = next
		h.Log = h.Log.With().Int("round", int(next.Number())).Logger()
		h.Log.Info().Msg("round advanced")

		for _, msg := range h.queue.Pending(next.Number()) {
			if err = h.process(msg); err != nil {
				return
			}
		}
	}
}

func (h *Handler) send(msg *Message) {
	select {
	case h.out <- msg:
	default:
		h.abort(round.ErrOutChanFull)
	}
}

func (h *Handler) abort(err error, culprits ...party.ID) {
	if h.err != nil {
		return
	}
	h.err = &Error{
		RoundNumber: h.currentRound.Number(),
		Culprits:    culprits,
		Err:         err,
	}
	h.Log.Error().Err(err).Strs("culprits", idStrings(culprits)).Msg("abort")
	h.stop()
}

// Stop cancels the current execution of the protocol, and alerts the other users.
func (h *Handler) Stop() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.err != nil || h.result != nil {
		return
	}
	h.abort(errors.New("aborted by user"))
}

func (h *Handler) stop() {
	if !h.done {
		h.done = true
		close(h.out)
	}
}

func idStrings(ids []party.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

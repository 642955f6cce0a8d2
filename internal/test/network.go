package test

import (
	"sync"

	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/protocol"
)

// Traffic counts the messages a party sent over a Network.
type Traffic struct {
	Messages int
	Bytes    int
}

// Network is an in-process network between the helpers of a session.
// Inboxes are created lazily, and removed once their owner is done, so that late messages are dropped.
type Network struct {
	parties party.IDSlice
	inboxes map[party.ID]chan *protocol.Message
	traffic map[party.ID]Traffic
	// closed is returned by Next for parties which are done or unknown.
	closed chan *protocol.Message
	done   chan struct{}
	mtx    sync.Mutex
}

// NewNetwork returns a network connecting parties.
func NewNetwork(parties party.IDSlice) *Network {
	closed := make(chan *protocol.Message)
	close(closed)
	return &Network{
		parties: parties,
		traffic: make(map[party.ID]Traffic, len(parties)),
		closed:  closed,
	}
}

// open creates the inboxes. Every party receives at most a few messages per round from each other party.
func (n *Network) open() {
	size := 4 * len(n.parties) * len(n.parties)
	n.inboxes = make(map[party.ID]chan *protocol.Message, len(n.parties))
	for _, id := range n.parties {
		n.inboxes[id] = make(chan *protocol.Message, size)
	}
	n.done = make(chan struct{})
}

// Next returns the inbox of id.
func (n *Network) Next(id party.ID) <-chan *protocol.Message {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if n.inboxes == nil {
		n.open()
	}
	if inbox, ok := n.inboxes[id]; ok {
		return inbox
	}
	return n.closed
}

// Send delivers msg to the inbox of every recipient which is not done yet, and accounts it to the sender.
func (n *Network) Send(msg *protocol.Message) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if n.inboxes == nil {
		n.open()
	}
	t := n.traffic[msg.From]
	t.Messages++
	t.Bytes += len(msg.Data)
	n.traffic[msg.From] = t
	for id, inbox := range n.inboxes {
		if msg.IsFor(id) {
			inbox <- msg
		}
	}
}

// Traffic returns what id sent so far.
func (n *Network) Traffic(id party.ID) Traffic {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.traffic[id]
}

// Done closes the inbox of id, and returns a channel which is closed once every party is done.
func (n *Network) Done(id party.ID) chan struct{} {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if n.inboxes == nil {
		n.open()
	}
	if inbox, ok := n.inboxes[id]; ok {
		close(inbox)
		delete(n.inboxes, id)
		if len(n.inboxes) == 0 {
			close(n.done)
		}
	}
	return n.done
}

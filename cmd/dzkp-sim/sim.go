package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/ipa-dzkp/internal/test"
	"github.com/taurusgroup/ipa-dzkp/internal/types"
	"github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/sample"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/pool"
	"github.com/taurusgroup/ipa-dzkp/pkg/protocol"
	"github.com/taurusgroup/ipa-dzkp/pkg/prss"
	"github.com/taurusgroup/ipa-dzkp/pkg/secret"
	protodzkp "github.com/taurusgroup/ipa-dzkp/protocols/dzkp"
	"github.com/taurusgroup/ipa-dzkp/protocols/mul"
	protoprss "github.com/taurusgroup/ipa-dzkp/protocols/prss"
)

// phases are the protocols run by every helper, in order.
var phases = []string{"Setup", "Multiply", "Verify"}

// Simulation runs the three helpers in-process.
type Simulation struct {
	Config dzkp.Config
	// Multiplications is the number of products computed and proven.
	Multiplications int
	// Sessions is the number of multiplication sessions the products are split into.
	// Their records are merged and proven at once. Zero means a single session.
	Sessions int
	// Cheater, when set, adds an error to its first product share.
	Cheater *party.Role
	Log     zerolog.Logger

	// sessionID is shared by the helpers of one run.
	sessionID []byte
}

// Report is the outcome of the simulation for one helper.
type Report struct {
	ID       party.ID
	Role     party.Role
	Rounds   int
	Timings  []time.Duration
	Sent     test.Traffic // over all phases
	Verified party.IDSlice
	// Consistent is false when the helper's own records do not satisfy Σ u⋅v = 0,
	// in which case its proof is bound to be rejected.
	Consistent bool
	Err        error
}

// Culprits returns the helpers blamed by the report's error, if any.
func (r *Report) Culprits() []party.ID {
	var protoErr protocol.Error
	if errors.As(r.Err, &protoErr) {
		return protoErr.Culprits
	}
	return nil
}

// networks connects the helpers for each protocol execution of a run.
type networks struct {
	setup    *test.Network
	multiply []*test.Network
	verify   *test.Network
}

func newNetworks(ids party.IDSlice, sessions int) *networks {
	n := &networks{
		setup:    test.NewNetwork(ids),
		multiply: make([]*test.Network, sessions),
		verify:   test.NewNetwork(ids),
	}
	for i := range n.multiply {
		n.multiply[i] = test.NewNetwork(ids)
	}
	return n
}

// traffic returns what id sent over all networks.
func (n *networks) traffic(id party.ID) test.Traffic {
	var out test.Traffic
	all := append([]*test.Network{n.setup, n.verify}, n.multiply...)
	for _, network := range all {
		t := network.Traffic(id)
		out.Messages += t.Messages
		out.Bytes += t.Bytes
	}
	return out
}

func (s *Simulation) sessions() int {
	if s.Sessions <= 0 {
		return 1
	}
	return s.Sessions
}

// Run executes the setup, multiplication and verification protocols for all helpers.
// The reports are ordered by role.
func (s *Simulation) Run(ids party.IDSlice) ([]*Report, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	if s.Multiplications <= 0 {
		return nil, fmt.Errorf("sim: %d multiplications", s.Multiplications)
	}
	if s.sessions() > s.Multiplications {
		return nil, fmt.Errorf("sim: %d sessions for %d multiplications", s.sessions(), s.Multiplications)
	}
	ring, err := party.NewRing(ids)
	if err != nil {
		return nil, err
	}
	f := s.Config.Field
	sessionID, err := types.NewRID(rand.Reader)
	if err != nil {
		return nil, err
	}
	s.sessionID = sessionID

	// a dealer shares the inputs
	xs := test.Share(ring, f, sample.Elements(rand.Reader, f, s.Multiplications), rand.Reader)
	ys := test.Share(ring, f, sample.Elements(rand.Reader, f, s.Multiplications), rand.Reader)

	nets := newNetworks(ring.IDs(), s.sessions())

	pl := pool.NewPool(0)
	defer pl.TearDown()

	reports := make([]*Report, party.Helpers)
	var wg sync.WaitGroup
	for i := range reports {
		role := party.Role(i)
		id := ring.ID(role)
		reports[i] = &Report{
			ID:     id,
			Role:   role,
			Rounds: s.Config.RoundCount(s.Multiplications * dzkp.RecordLength),
		}
		wg.Add(1)
		go func(report *Report) {
			defer wg.Done()
			report.Err = s.helper(ring, report, nets, xs[report.ID], ys[report.ID], pl)
		}(reports[i])
	}
	wg.Wait()

	for _, r := range reports {
		r.Sent = nets.traffic(r.ID)
	}
	return reports, nil
}

// multiplySessionID separates the multiplication sessions of a run.
func (s *Simulation) multiplySessionID(session int) []byte {
	return fmt.Appendf(append([]byte{}, s.sessionID...), "/multiply %d", session)
}

func (s *Simulation) helper(ring party.Ring, report *Report, nets *networks, xs, ys []secret.Replicated, pl *pool.Pool) error {
	id := report.ID
	ids := ring.IDs()
	f := s.Config.Field
	log := s.Log.With().Str("helper", report.Role.String()).Logger()

	start := time.Now()
	res, err := s.execute(log, id, nets.setup, s.sessionID, protoprss.Start(f, id, ids))
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	endpoint := res.(*prss.Endpoint)
	report.Timings = append(report.Timings, time.Since(start))

	start = time.Now()
	products := make([]secret.Replicated, 0, len(xs))
	batches := dzkp.NewBatches(f)
	sessions := len(nets.multiply)
	for k, network := range nets.multiply {
		lo, hi := k*len(xs)/sessions, (k+1)*len(xs)/sessions
		res, err = s.execute(log, id, network, s.multiplySessionID(k), mul.Start(id, ids, endpoint, f, xs[lo:hi], ys[lo:hi]))
		if err != nil {
			return fmt.Errorf("multiply: session %d: %w", k, err)
		}
		result := res.(*mul.Result)
		products = append(products, result.Products...)
		batches.Merge(result.Batches)
	}
	if s.Cheater != nil {
		s.cheat(ring, id, products, batches)
	}
	report.Timings = append(report.Timings, time.Since(start))

	report.Consistent, err = selfCheck(batches.Own)
	if err != nil {
		return fmt.Errorf("self check: %w", err)
	}
	if !report.Consistent {
		log.Warn().Msg("own multiplication records are inconsistent")
	}

	start = time.Now()
	res, err = s.execute(log, id, nets.verify, s.sessionID, protodzkp.Start(id, ids, endpoint, s.Config, batches, pl))
	report.Timings = append(report.Timings, time.Since(start))
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	report.Verified = res.(*protodzkp.Result).Verified
	return nil
}

// selfCheck returns true when the records a helper is about to prove are correct.
func selfCheck(own *dzkp.Batch) (bool, error) {
	ip, err := own.InnerProduct()
	if err != nil {
		return false, err
	}
	return ip.IsZero(), nil
}

// cheat adds one to the first product share of the cheater, consistently in every value derived from it.
// The records then no longer satisfy Σ u⋅v = 0, which the proof cannot hide.
func (s *Simulation) cheat(ring party.Ring, id party.ID, products []secret.Replicated, batches *dzkp.Batches) {
	cheater := ring.ID(*s.Cheater)
	one := s.Config.Field.One()
	// the third u value of a record contains the product share
	const z = 2
	switch cheater {
	case id:
		products[0].Left.Add(one)
		batches.Own.U[z].Add(one)
	case ring.Right(id):
		products[0].Right.Add(one)
		batches.Right.U[z].Add(one)
	}
}

// execute runs a single protocol for id over network.
func (s *Simulation) execute(log zerolog.Logger, id party.ID, network *test.Network, sessionID []byte, start protocol.StartFunc) (interface{}, error) {
	h, err := protocol.NewHandler(start, sessionID, protocol.WithLogger(log))
	if err != nil {
		return nil, err
	}
	test.HandlerLoop(id, h, network)
	return h.Result()
}

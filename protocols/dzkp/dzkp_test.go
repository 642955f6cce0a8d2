package dzkp

import (
	"crypto/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ipa-dzkp/internal/round"
	"github.com/taurusgroup/ipa-dzkp/internal/test"
	zkp "github.com/taurusgroup/ipa-dzkp/pkg/dzkp"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/sample"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
	"github.com/taurusgroup/ipa-dzkp/pkg/pool"
	"github.com/taurusgroup/ipa-dzkp/pkg/protocol"
	"github.com/taurusgroup/ipa-dzkp/pkg/prss"
	"github.com/taurusgroup/ipa-dzkp/protocols/mul"
)

type setup struct {
	ring      party.Ring
	endpoints map[party.ID]*prss.Endpoint
	batches   map[party.ID]*zkp.Batches
}

// multiply runs the multiplication of n random pairs and returns the resulting batches.
func multiply(t *testing.T, f field.Field, n int) setup {
	ids := test.HelperIDs()
	ring, err := party.NewRing(ids)
	require.NoError(t, err)
	endpoints := test.Endpoints(ring, rand.Reader)
	xs := test.Share(ring, f, sample.Elements(rand.Reader, f, n), rand.Reader)
	ys := test.Share(ring, f, sample.Elements(rand.Reader, f, n), rand.Reader)

	rounds := make([]round.Session, 0, len(ids))
	for _, id := range ids {
		r, err := mul.Start(id, ids, endpoints[id], f, xs[id], ys[id])([]byte("mul"))
		require.NoError(t, err)
		rounds = append(rounds, r)
	}
	require.NoError(t, test.Run(rounds, nil))

	batches := make(map[party.ID]*zkp.Batches, len(ids))
	for _, r := range rounds {
		out, ok := r.(*round.Output)
		require.True(t, ok)
		batches[r.SelfID()] = out.Result.(*mul.Result).Batches
	}
	return setup{ring: ring, endpoints: endpoints, batches: batches}
}

func (s setup) run(t *testing.T, cfg zkp.Config, rule test.Rule, pl *pool.Pool) map[party.ID]round.Session {
	ids := s.ring.IDs()
	rounds := make([]round.Session, 0, len(ids))
	for _, id := range ids {
		r, err := Start(id, ids, s.endpoints[id], cfg, s.batches[id], pl)([]byte("dzkp"))
		require.NoError(t, err)
		rounds = append(rounds, r)
	}
	require.NoError(t, test.Run(rounds, rule))

	out := make(map[party.ID]round.Session, len(ids))
	for _, r := range rounds {
		out[r.SelfID()] = r
	}
	return out
}

func checkVerified(t *testing.T, s setup, r round.Session) {
	out, ok := r.(*round.Output)
	require.True(t, ok, "%s did not finish: %T", r.SelfID(), r)
	res, ok := out.Result.(*Result)
	require.True(t, ok)
	id := r.SelfID()
	assert.Equal(t, party.NewIDSlice([]party.ID{s.ring.Left(id), s.ring.Right(id)}), res.Verified)
}

func checkAborted(t *testing.T, r round.Session, culprit party.ID) {
	abort, ok := r.(*round.Abort)
	require.True(t, ok, "%s did not abort: %T", r.SelfID(), r)
	assert.Equal(t, []party.ID{culprit}, abort.Culprits)
	assert.ErrorIs(t, abort.Err, zkp.ErrVerificationFailure)
}

func TestVerify(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	tests := []struct {
		name    string
		f       field.Field
		records int
		cfg     func(field.Field) zkp.Config
	}{
		{"single record", field.Fp61BitPrime, 1, zkp.DefaultConfig},
		{"several rounds", field.Fp61BitPrime, 50, zkp.DefaultConfig},
		{"small blocks", field.Fp32BitPrime, 33, func(f field.Field) zkp.Config {
			return zkp.Config{Field: f, BlockSize: 4, FinalBlockSize: 2}
		}},
		{"toy field", field.Fp31, 7, func(f field.Field) zkp.Config {
			return zkp.Config{Field: f, BlockSize: 4, FinalBlockSize: 2}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := multiply(t, tt.f, tt.records)
			for _, r := range s.run(t, tt.cfg(tt.f), nil, pl) {
				checkVerified(t, s, r)
			}
		})
	}
}

// tamperProof adds one to the first value of the proof share sent by the cheater.
type tamperProof struct {
	cheater party.ID
}

func (tamperProof) ModifyBefore(round.Session) {}
func (tamperProof) ModifyAfter(round.Session)  {}
func (m tamperProof) ModifyContent(rNext round.Session, _ party.ID, content round.Content) {
	body, ok := content.(*message2)
	if !ok || rNext.SelfID() != m.cheater {
		return
	}
	v := body.Proofs[0].Values[0]
	v.Add(v.Field().One())
}

func TestVerify_TamperedProof(t *testing.T) {
	f := field.Fp61BitPrime
	s := multiply(t, f, 20)
	cheater := s.ring.ID(party.H2)

	rounds := s.run(t, zkp.DefaultConfig(f), tamperProof{cheater: cheater}, nil)
	for id, r := range rounds {
		if id == cheater {
			// the cheater does not learn that its proof was rejected
			checkVerified(t, s, r)
			continue
		}
		checkAborted(t, r, cheater)
	}
}

func TestVerify_WrongProduct(t *testing.T) {
	f := field.Fp61BitPrime
	s := multiply(t, f, 20)
	cheater := s.ring.ID(party.H3)

	// a product share off by one, as received by the left verifier
	u := s.batches[s.ring.Left(cheater)].Right.U
	u[2*zkp.RecordLength+2].Add(f.One())

	rounds := s.run(t, zkp.DefaultConfig(f), nil, nil)
	for id, r := range rounds {
		if id == cheater {
			checkVerified(t, s, r)
			continue
		}
		checkAborted(t, r, cheater)
	}
}

func TestVerify_Handler(t *testing.T) {
	f := field.Fp32BitPrime
	s := multiply(t, f, 30)
	cfg := zkp.DefaultConfig(f)
	ids := s.ring.IDs()
	network := test.NewNetwork(ids)

	handlers := make(map[party.ID]*protocol.Handler, len(ids))
	for _, id := range ids {
		h, err := protocol.NewHandler(Start(id, ids, s.endpoints[id], cfg, s.batches[id], nil), []byte("handler"))
		require.NoError(t, err)
		handlers[id] = h
	}

	var wg sync.WaitGroup
	for id, h := range handlers {
		wg.Add(1)
		go func(id party.ID, h *protocol.Handler) {
			defer wg.Done()
			test.HandlerLoop(id, h, network)
		}(id, h)
	}
	wg.Wait()

	for id, h := range handlers {
		res, err := h.Result()
		require.NoError(t, err, id)
		require.IsType(t, &Result{}, res)
		assert.Len(t, res.(*Result).Verified, 2)
	}
}

func TestStart_Errors(t *testing.T) {
	f := field.Fp31
	s := multiply(t, f, 2)
	ids := s.ring.IDs()
	id := ids[0]
	cfg := zkp.Config{Field: f, BlockSize: 4, FinalBlockSize: 2}

	_, err := Start(id, ids, s.endpoints[id], zkp.Config{Field: f, BlockSize: 17, FinalBlockSize: 2}, s.batches[id], nil)(nil)
	assert.ErrorIs(t, err, zkp.ErrConfiguration, "λ = 17 needs 33 distinct points")

	_, err = Start(id, ids, nil, cfg, s.batches[id], nil)(nil)
	assert.Error(t, err)

	_, err = Start(id, ids, s.endpoints[id], cfg, nil, nil)(nil)
	assert.ErrorIs(t, err, round.ErrNilFields)

	_, err = Start(id, ids, s.endpoints[id], cfg, zkp.NewBatches(f), nil)(nil)
	assert.ErrorIs(t, err, errEmptyBatch)

	_, err = Start(id, ids, s.endpoints[id], zkp.DefaultConfig(field.Fp61BitPrime), s.batches[id], nil)(nil)
	assert.Error(t, err)

	_, err = Start(id, test.PartyIDs(2), s.endpoints[id], cfg, s.batches[id], nil)(nil)
	assert.ErrorIs(t, err, party.ErrInvalidRing)
}

func TestCheckLengths(t *testing.T) {
	f := field.Fp31
	cfg := zkp.Config{Field: f, BlockSize: 4, FinalBlockSize: 2}
	// 3 records = 12 values: 12 → 3 → 1, two intermediate rounds
	proofs := []field.Elements{
		field.NewElements(f, sample.Elements(rand.Reader, f, 7)),
		field.NewElements(f, sample.Elements(rand.Reader, f, 7)),
		field.NewElements(f, sample.Elements(rand.Reader, f, 5)),
	}
	assert.NoError(t, checkLengths(cfg, 3, proofs))
	assert.ErrorIs(t, checkLengths(cfg, 3, proofs[1:]), zkp.ErrLengthMismatch)
	assert.ErrorIs(t, checkLengths(cfg, 3, []field.Elements{proofs[0], proofs[2], proofs[2]}), zkp.ErrLengthMismatch)

	other := field.NewElements(field.Fp32BitPrime, sample.Elements(rand.Reader, field.Fp32BitPrime, 5))
	assert.ErrorIs(t, checkLengths(cfg, 3, []field.Elements{proofs[0], proofs[1], other}), round.ErrInvalidContent)
}

package dzkp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
)

var (
	fp31Config = Config{Field: field.Fp31, BlockSize: 4, FinalBlockSize: 2}

	sampleU = []uint64{
		0, 30, 0, 16, 0, 1, 0, 15, 0, 0, 0, 16, 0, 30, 0, 16,
		29, 1, 1, 15, 0, 0, 1, 15, 2, 30, 30, 16, 0, 0, 30, 16,
	}
	sampleV = []uint64{
		0, 0, 0, 30, 0, 0, 0, 1, 30, 30, 30, 30, 0, 0, 30, 30,
		0, 30, 0, 30, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 1,
	}
	sampleChallenges = []uint64{22, 17, 30}
)

type verifierVector struct {
	data   []uint64
	out    uint64
	proofs [][]uint64
	final  []uint64
	mask   uint64

	wantB      []uint64
	wantOut    []uint64
	wantData   [][]uint64
	wantOpened uint64
	wantFinal  uint64
	wantFinalB uint64
}

var (
	// left verifier, holding u
	leftVector = verifierVector{
		data:       sampleU,
		out:        27,
		proofs:     [][]uint64{{0, 0, 13, 17, 11, 25, 7}, {11, 25, 17, 9, 22, 23, 3}},
		final:      []uint64{21, 1, 6, 25, 1},
		mask:       12,
		wantB:      []uint64{3, 0},
		wantOut:    []uint64{0, 13},
		wantData:   [][]uint64{{0, 0, 26, 0, 7, 18, 24, 13}, {3, 3, 0, 0}},
		wantOpened: 30,
		wantFinal:  0,
		wantFinalB: 25,
	}
	// right verifier, holding v
	rightVector = verifierVector{
		data:       sampleV,
		out:        0,
		proofs:     [][]uint64{{0, 30, 16, 13, 25, 3, 6}, {1, 12, 29, 30, 7, 7, 3}},
		final:      []uint64{22, 14, 4, 20, 16},
		mask:       1,
		wantB:      []uint64{28, 0},
		wantOut:    []uint64{10, 12},
		wantData:   [][]uint64{{10, 21, 30, 28, 15, 21, 3, 3}, {5, 24, 0, 0}},
		wantOpened: 12,
		wantFinal:  19,
		wantFinalB: 6,
	}
)

func elements(xs ...uint64) []field.Element {
	return field.FromUint64s(field.Fp31, xs...)
}

func TestVerifier_SampleProof(t *testing.T) {
	for name, vec := range map[string]verifierVector{"u": leftVector, "v": rightVector} {
		t.Run(name, func(t *testing.T) {
			v, err := NewVerifier(fp31Config, elements(vec.data...), field.Fp31.FromUint64(vec.out))
			require.NoError(t, err)

			for i, proof := range vec.proofs {
				var b field.Element
				b, v, err = v.VerifyProof(elements(proof...), field.Fp31.FromUint64(sampleChallenges[i]))
				require.NoError(t, err)
				assert.Equal(t, vec.wantB[i], b.Uint64(), "b share of round %d", i)
				assert.Equal(t, vec.wantOut[i], v.OutShare().Uint64(), "g(r) share of round %d", i)
				assert.Equal(t, vec.wantData[i], field.Uint64s(Flatten(v.Chunks())), "data after round %d", i)
			}
			assert.Equal(t, 2, v.Len())

			v, err = v.Truncate(fp31Config.FinalBlockSize)
			require.NoError(t, err)
			assert.Equal(t, vec.wantData[1][:2], field.Uint64s(Flatten(v.Chunks())))

			final, err := v.VerifyFinalProof(elements(vec.final...), field.Fp31.FromUint64(sampleChallenges[2]), field.Fp31.FromUint64(vec.mask))
			require.NoError(t, err)
			assert.Equal(t, vec.wantOpened, final.Opened.Uint64())
			assert.Equal(t, vec.wantFinal, final.Out.Uint64())
			assert.Equal(t, vec.wantFinalB, final.B.Uint64())
		})
	}
}

func (vec verifierVector) job() *Job {
	proofs := make([]Proof, len(vec.proofs))
	for i := range proofs {
		proofs[i] = elements(vec.proofs[i]...)
	}
	return &Job{
		Data:       elements(vec.data...),
		OutShare:   field.Fp31.FromUint64(vec.out),
		Proofs:     proofs,
		Final:      elements(vec.final...),
		Challenges: elements(sampleChallenges...),
		Mask:       field.Fp31.FromUint64(vec.mask),
	}
}

func TestVerifier_Verify(t *testing.T) {
	left, err := leftVector.job().Verify(fp31Config)
	require.NoError(t, err)
	right, err := rightVector.job().Verify(fp31Config)
	require.NoError(t, err)

	assert.Equal(t, leftVector.wantB, field.Uint64s(left.B))
	assert.Equal(t, rightVector.wantB, field.Uint64s(right.B))
	assert.NoError(t, CheckShares(left, right))
}

func TestVerifier_LengthMismatch(t *testing.T) {
	v, err := NewVerifier(fp31Config, elements(sampleU...), field.Fp31.Zero())
	require.NoError(t, err)

	_, _, err = v.VerifyProof(elements(1, 2, 3), field.Fp31.One())
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = v.Truncate(2)
	assert.ErrorIs(t, err, ErrLengthMismatch, "truncating real values")

	_, err = v.VerifyFinalProof(elements(1, 2, 3, 4, 5), field.Fp31.One(), field.Fp31.One())
	assert.ErrorIs(t, err, ErrLengthMismatch, "more than one chunk")

	small, err := NewVerifier(fp31Config, elements(1, 2), field.Fp31.Zero())
	require.NoError(t, err)
	small, err = small.Truncate(2)
	require.NoError(t, err)
	_, err = small.VerifyFinalProof(elements(1, 2, 3), field.Fp31.One(), field.Fp31.One())
	assert.ErrorIs(t, err, ErrLengthMismatch)

	job := leftVector.job()
	job.Challenges = job.Challenges[:2]
	_, err = job.Verify(fp31Config)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = NewVerifier(fp31Config, nil, field.Fp31.Zero())
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestVerifier_ChunkCount(t *testing.T) {
	cfg := Config{Field: field.Fp61BitPrime, BlockSize: 4, FinalBlockSize: 1}
	r := cfg.Field.FromUint64(1234)
	for _, n := range []int{1, 3, 4, 5, 17, 32, 33} {
		v, err := NewVerifier(cfg, field.Zeros(cfg.Field, n), cfg.Field.Zero())
		require.NoError(t, err)
		_, next, err := v.VerifyProof(field.Zeros(cfg.Field, ProofLength(4)), r)
		require.NoError(t, err)
		assert.Equal(t, (n+3)/4, next.Len(), "n = %d", n)
		assert.Len(t, next.Chunks(), (n+15)/16)
	}
}

func TestCheckFinal(t *testing.T) {
	f := field.Fp31
	left := FinalShares{Opened: f.FromUint64(30), Out: f.FromUint64(0), B: f.FromUint64(25)}
	right := FinalShares{Opened: f.FromUint64(12), Out: f.FromUint64(19), B: f.FromUint64(6)}
	assert.NoError(t, CheckFinal(left, right))

	right.Out = f.FromUint64(20)
	assert.ErrorIs(t, CheckFinal(left, right), ErrVerificationFailure)

	right.Out = f.FromUint64(19)
	right.B = f.FromUint64(7)
	assert.ErrorIs(t, CheckFinal(left, right), ErrVerificationFailure)
}

func TestVerifier_AccessorsCopy(t *testing.T) {
	f := field.Fp31
	v, err := NewVerifier(fp31Config, elements(sampleU...), f.FromUint64(7))
	require.NoError(t, err)

	v.OutShare().Add(f.One())
	assert.Equal(t, uint64(7), v.OutShare().Uint64())

	chunks := v.Chunks()
	chunks[0][1].Add(f.One())
	chunks[1] = nil
	assert.Equal(t, sampleU, field.Uint64s(Flatten(v.Chunks())))
}

func TestNewDenominators(t *testing.T) {
	cfg := Config{Field: field.Fp61BitPrime, BlockSize: 8, FinalBlockSize: 4}
	d, err := newDenominators(cfg)
	require.NoError(t, err)
	for _, n := range []int{8, 15, 5, 9} {
		require.Contains(t, d.m, n)
		assert.Equal(t, n, d.m[n].Len())
	}
	assert.Len(t, d.m, 4)

	// other sizes are computed without being retained
	other, err := d.get(3)
	require.NoError(t, err)
	assert.Equal(t, 3, other.Len())
	assert.Len(t, d.m, 4)

	v1, err := NewVerifier(cfg, field.Zeros(cfg.Field, 16), cfg.Field.Zero())
	require.NoError(t, err)
	v2, err := NewVerifier(cfg, field.Zeros(cfg.Field, 16), cfg.Field.Zero())
	require.NoError(t, err)
	assert.NotSame(t, v1.d, v2.d)

	_, err = newDenominators(Config{Field: field.Fp31, BlockSize: 17, FinalBlockSize: 4})
	assert.ErrorIs(t, err, ErrConfiguration)
}

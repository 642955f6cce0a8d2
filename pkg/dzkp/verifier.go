package dzkp

import (
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
)

// Verifier is the state of one verifier: its own vector (u for the left verifier, v for the right)
// and its additive share of the value the current proof must sum to.
// A Verifier is never modified, every transition returns a new state.
type Verifier struct {
	cfg      Config
	d        *denominators
	data     vector
	outShare field.Element
}

// FinalShares are the values a verifier reveals to its partner after the final proof.
type FinalShares struct {
	// Opened is p(r) for the left verifier and q(r) for the right verifier.
	Opened field.Element
	// Out is the verifier's share of (p⋅q)(r).
	Out field.Element
	// B is the verifier's share of Σᵢ₌₁..λ (p⋅q)(i) - out, which is zero for an honest prover.
	B field.Element
}

// NewVerifier returns the initial state of a verifier holding data and a share of the claimed inner product.
func NewVerifier(cfg Config, data []field.Element, outShare field.Element) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("dzkp: verifier: %w: empty input", ErrLengthMismatch)
	}
	d, err := newDenominators(cfg)
	if err != nil {
		return nil, fmt.Errorf("dzkp: verifier: %w", err)
	}
	return &Verifier{
		cfg:      cfg,
		d:        d,
		data:     newVector(cfg.Field, data, cfg.BlockSize),
		outShare: outShare.Clone(),
	}, nil
}

// Len returns the number of values in the current round, padding excluded.
func (v *Verifier) Len() int { return v.data.n }

// Chunks returns a copy of the current chunks, padding included.
func (v *Verifier) Chunks() []Chunk {
	out := make([]Chunk, len(v.data.chunks))
	for i, c := range v.data.chunks {
		out[i] = c.Clone()
	}
	return out
}

// OutShare returns a copy of the share of the value the next proof must sum to.
func (v *Verifier) OutShare() field.Element { return v.outShare.Clone() }

// VerifyProof processes the verifier's share of an intermediate proof for the challenge r.
// It returns the share b of Σᵢ<λ g(i) - out, which is zero when combined with the partner's share,
// and the state for the next round, whose data has ⌈n/λ⌉ values.
func (v *Verifier) VerifyProof(proof Proof, r field.Element) (field.Element, *Verifier, error) {
	f := v.cfg.Field
	λ := v.data.λ
	if len(proof) != ProofLength(λ) {
		return nil, nil, fmt.Errorf("dzkp: verifier: %w: proof has %d values, expected %d",
			ErrLengthMismatch, len(proof), ProofLength(λ))
	}

	tG, err := v.d.table(ProofLength(λ), r)
	if err != nil {
		return nil, nil, err
	}
	gR, err := tG.Evaluate(proof)
	if err != nil {
		return nil, nil, err
	}

	b := field.Sum(f, proof[:λ]).Sub(v.outShare)

	tChunk, err := v.d.table(λ, r)
	if err != nil {
		return nil, nil, err
	}
	data, err := v.data.collapse(f, tChunk)
	if err != nil {
		return nil, nil, err
	}

	return b, &Verifier{
		cfg:      v.cfg,
		d:        v.d,
		data:     data,
		outShare: gR,
	}, nil
}

// Truncate regroups the remaining values into a single chunk of size λ for the final round.
// It fails if more than λ values remain, so only padding is ever dropped.
func (v *Verifier) Truncate(λ int) (*Verifier, error) {
	data, err := v.data.resize(v.cfg.Field, λ)
	if err != nil {
		return nil, err
	}
	return &Verifier{
		cfg:      v.cfg,
		d:        v.d,
		data:     data,
		outShare: v.outShare,
	}, nil
}

// VerifyFinalProof processes the verifier's share of the final proof for the challenge r.
// mask is the value at position 0 of the verifier's polynomial, shared with the prover.
// The verifier must hold a single chunk, see Truncate.
func (v *Verifier) VerifyFinalProof(proof Proof, r, mask field.Element) (FinalShares, error) {
	f := v.cfg.Field
	if len(v.data.chunks) != 1 {
		return FinalShares{}, fmt.Errorf("dzkp: verifier: %w: %d chunks remain, expected 1",
			ErrLengthMismatch, len(v.data.chunks))
	}
	λ := v.data.λ
	if len(proof) != FinalProofLength(λ) {
		return FinalShares{}, fmt.Errorf("dzkp: verifier: %w: final proof has %d values, expected %d",
			ErrLengthMismatch, len(proof), FinalProofLength(λ))
	}

	tP, err := v.d.table(λ+1, r)
	if err != nil {
		return FinalShares{}, err
	}
	values := append([]field.Element{mask}, v.data.chunks[0]...)
	opened, err := tP.Evaluate(values)
	if err != nil {
		return FinalShares{}, err
	}

	tG, err := v.d.table(FinalProofLength(λ), r)
	if err != nil {
		return FinalShares{}, err
	}
	out, err := tG.Evaluate(proof)
	if err != nil {
		return FinalShares{}, err
	}

	return FinalShares{
		Opened: opened,
		Out:    out,
		B:      field.Sum(f, proof[1:λ+1]).Sub(v.outShare),
	}, nil
}

// Shares are all values a verifier reveals to its partner for one batch.
type Shares struct {
	B     []field.Element
	Final FinalShares
}

// Verify runs every round of the verifier. challenges must contain one challenge per intermediate
// proof followed by the challenge of the final proof.
func (v *Verifier) Verify(proofs []Proof, final Proof, challenges []field.Element, mask field.Element) (*Shares, error) {
	rounds := v.cfg.RoundCount(v.data.n)
	if len(proofs) != rounds {
		return nil, fmt.Errorf("dzkp: verifier: %w: got %d proofs for %d rounds", ErrLengthMismatch, len(proofs), rounds)
	}
	if len(challenges) != rounds+1 {
		return nil, fmt.Errorf("dzkp: verifier: %w: got %d challenges for %d rounds", ErrLengthMismatch, len(challenges), rounds+1)
	}

	out := &Shares{B: make([]field.Element, 0, rounds)}
	current := v
	for i, proof := range proofs {
		b, next, err := current.VerifyProof(proof, challenges[i])
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i, err)
		}
		out.B = append(out.B, b)
		current = next
	}
	current, err := current.Truncate(v.cfg.FinalBlockSize)
	if err != nil {
		return nil, err
	}
	if out.Final, err = current.VerifyFinalProof(final, challenges[rounds], mask); err != nil {
		return nil, err
	}
	return out, nil
}

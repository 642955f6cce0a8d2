package dzkp

import (
	"errors"
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/pool"
)

// Prover holds the prover's u and v in the current round.
// A Prover is never modified, Recurse returns the state of the next round.
type Prover struct {
	cfg  Config
	d    *denominators
	u, v vector
	pool *pool.Pool
}

// NewProver returns the prover for the claim Σ uᵢ⋅vᵢ = 0.
// pl may be nil, in which case chunks are processed on the current goroutine.
func NewProver(cfg Config, u, v []field.Element, pl *pool.Pool) (*Prover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(u) != len(v) {
		return nil, fmt.Errorf("dzkp: prover: %w: len(u) = %d, len(v) = %d", ErrLengthMismatch, len(u), len(v))
	}
	if len(u) == 0 {
		return nil, fmt.Errorf("dzkp: prover: %w: empty input", ErrLengthMismatch)
	}
	d, err := newDenominators(cfg)
	if err != nil {
		return nil, fmt.Errorf("dzkp: prover: %w", err)
	}
	return &Prover{
		cfg:  cfg,
		d:    d,
		u:    newVector(cfg.Field, u, cfg.BlockSize),
		v:    newVector(cfg.Field, v, cfg.BlockSize),
		pool: pl,
	}, nil
}

// Len returns the number of values of u and v in the current round.
func (p *Prover) Len() int { return p.u.n }

// Final returns true once the remaining values fit in a final chunk.
func (p *Prover) Final() bool { return p.u.n <= p.cfg.FinalBlockSize }

// ComputeProof returns the proof of the current round: the values of g = Σₖ pₖ⋅qₖ at 0, …, 2λ-2.
// The first λ values are the inner products of the chunk columns,
// the others are obtained by extrapolating every pₖ and qₖ.
func (p *Prover) ComputeProof() (Proof, error) {
	f := p.cfg.Field
	λ := p.u.λ
	extrapolation, err := p.d.extrapolation(λ, λ-1)
	if err != nil {
		return nil, err
	}

	type result struct {
		g   Proof
		err error
	}
	results := p.pool.Parallelize(len(p.u.chunks), func(k int) interface{} {
		g := make(Proof, 0, ProofLength(λ))
		u, v := p.u.chunks[k], p.v.chunks[k]
		for i := 0; i < λ; i++ {
			g = append(g, u[i].Clone().Mul(v[i]))
		}
		uExt, err := extrapolation.Eval(u)
		if err != nil {
			return result{err: err}
		}
		vExt, err := extrapolation.Eval(v)
		if err != nil {
			return result{err: err}
		}
		for i := range uExt {
			g = append(g, uExt[i].Mul(vExt[i]))
		}
		return result{g: g}
	})

	proof := make(Proof, ProofLength(λ))
	for i := range proof {
		proof[i] = f.NewElement()
	}
	for _, r := range results {
		res := r.(result)
		if res.err != nil {
			return nil, fmt.Errorf("dzkp: prover: %w", res.err)
		}
		for i := range proof {
			proof[i].Add(res.g[i])
		}
	}
	return proof, nil
}

// Recurse returns the prover of the next round, where every chunk of u and v
// has been replaced by its value at the challenge r.
func (p *Prover) Recurse(r field.Element) (*Prover, error) {
	t, err := p.d.table(p.u.λ, r)
	if err != nil {
		return nil, err
	}
	u, err := p.u.collapse(p.cfg.Field, t)
	if err != nil {
		return nil, err
	}
	v, err := p.v.collapse(p.cfg.Field, t)
	if err != nil {
		return nil, err
	}
	return &Prover{cfg: p.cfg, d: p.d, u: u, v: v, pool: p.pool}, nil
}

// ComputeFinalProof returns the 2λ+1 values of p⋅q, where p and q interpolate
// (p0, u₀, …, u_{λ-1}) and (q0, v₀, …, v_{λ-1}) with λ = FinalBlockSize.
// The masks p0 and q0 are known to the left and right verifier respectively.
func (p *Prover) ComputeFinalProof(p0, q0 field.Element) (Proof, error) {
	if !p.Final() {
		return nil, fmt.Errorf("dzkp: prover: %w: %d values remain, final chunk holds %d",
			ErrLengthMismatch, p.u.n, p.cfg.FinalBlockSize)
	}
	λ := p.cfg.FinalBlockSize
	u, err := p.u.resize(p.cfg.Field, λ)
	if err != nil {
		return nil, err
	}
	v, err := p.v.resize(p.cfg.Field, λ)
	if err != nil {
		return nil, err
	}
	pValues := append([]field.Element{p0.Clone()}, u.chunks[0]...)
	qValues := append([]field.Element{q0.Clone()}, v.chunks[0]...)

	extrapolation, err := p.d.extrapolation(λ+1, λ)
	if err != nil {
		return nil, err
	}
	pExt, err := extrapolation.Eval(pValues)
	if err != nil {
		return nil, err
	}
	qExt, err := extrapolation.Eval(qValues)
	if err != nil {
		return nil, err
	}

	proof := make(Proof, 0, FinalProofLength(λ))
	for i := range pValues {
		proof = append(proof, pValues[i].Clone().Mul(qValues[i]))
	}
	for i := range pExt {
		proof = append(proof, pExt[i].Mul(qExt[i]))
	}
	return proof, nil
}

// Proofs contains every proof of a prover for one batch.
type Proofs struct {
	Rounds []Proof
	Final  Proof
}

// ChallengeFunc returns the challenge for the proof of the given round.
// The final proof is passed with round = len(Proofs.Rounds).
type ChallengeFunc func(round int, proof Proof) (field.Element, error)

var errNoChallenge = errors.New("dzkp: no challenge function")

// Prove runs every round of the prover, obtaining each challenge from challenge once the
// proof of the round is fixed.
func (p *Prover) Prove(challenge ChallengeFunc, p0, q0 field.Element) (*Proofs, error) {
	if challenge == nil {
		return nil, errNoChallenge
	}
	out := &Proofs{}
	current := p
	for round := 0; !current.Final(); round++ {
		proof, err := current.ComputeProof()
		if err != nil {
			return nil, err
		}
		r, err := challenge(round, proof)
		if err != nil {
			return nil, fmt.Errorf("dzkp: prover: round %d: %w", round, err)
		}
		if current, err = current.Recurse(r); err != nil {
			return nil, err
		}
		out.Rounds = append(out.Rounds, proof)
	}
	final, err := current.ComputeFinalProof(p0, q0)
	if err != nil {
		return nil, err
	}
	if _, err = challenge(len(out.Rounds), final); err != nil {
		return nil, fmt.Errorf("dzkp: prover: final round: %w", err)
	}
	out.Final = final
	return out, nil
}

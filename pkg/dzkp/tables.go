package dzkp

import (
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/polynomial"
)

// denominators holds the canonical Lagrange denominators of every table size a Config needs.
// It is computed once per prover or verifier and never modified afterwards.
type denominators struct {
	f field.Field
	m map[int]*polynomial.CanonicalLagrangeDenominator
}

// newDenominators computes the denominators for chunks of λ values and proofs of 2λ-1 values,
// and for the final chunk with its mask (λ_f+1 values) and the final proof (2λ_f+1 values).
func newDenominators(cfg Config) (*denominators, error) {
	sizes := []int{
		cfg.BlockSize,
		ProofLength(cfg.BlockSize),
		cfg.FinalBlockSize + 1,
		FinalProofLength(cfg.FinalBlockSize),
	}
	d := &denominators{
		f: cfg.Field,
		m: make(map[int]*polynomial.CanonicalLagrangeDenominator, len(sizes)),
	}
	for _, n := range sizes {
		if _, ok := d.m[n]; ok {
			continue
		}
		denominator, err := polynomial.NewCanonicalLagrangeDenominator(cfg.Field, n)
		if err != nil {
			return nil, err
		}
		d.m[n] = denominator
	}
	return d, nil
}

// get returns the denominator for n points, computing it when n is not a size of the Config.
func (d *denominators) get(n int) (*polynomial.CanonicalLagrangeDenominator, error) {
	if out, ok := d.m[n]; ok {
		return out, nil
	}
	return polynomial.NewCanonicalLagrangeDenominator(d.f, n)
}

// table returns the table evaluating polynomials given by n canonical values at r.
func (d *denominators) table(n int, r field.Element) (*polynomial.LagrangeTable, error) {
	denominator, err := d.get(n)
	if err != nil {
		return nil, err
	}
	return polynomial.NewLagrangeTable(denominator, r), nil
}

// extrapolation returns the table evaluating polynomials given by n canonical values at n, …, n+m-1.
func (d *denominators) extrapolation(n, m int) (*polynomial.LagrangeTable, error) {
	denominator, err := d.get(n)
	if err != nil {
		return nil, err
	}
	return polynomial.NewExtrapolationTable(denominator, m), nil
}

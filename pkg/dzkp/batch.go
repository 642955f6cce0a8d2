package dzkp

import (
	"context"
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"golang.org/x/sync/errgroup"
)

// Job is one verifier's view of a batch.
type Job struct {
	// Data is u for the left verifier and v for the right verifier.
	Data []field.Element
	// OutShare is the verifier's share of the claimed inner product.
	OutShare field.Element
	// Proofs are the verifier's shares of the intermediate proofs.
	Proofs []Proof
	// Final is the verifier's share of the final proof.
	Final Proof
	// Challenges holds one challenge per intermediate proof, followed by the final challenge.
	Challenges []field.Element
	// Mask is the value at position 0 of the verifier's final polynomial.
	Mask field.Element
}

// Verify runs the verifier over the job.
func (j *Job) Verify(cfg Config) (*Shares, error) {
	v, err := NewVerifier(cfg, j.Data, j.OutShare)
	if err != nil {
		return nil, err
	}
	return v.Verify(j.Proofs, j.Final, j.Challenges, j.Mask)
}

// VerifyBatches verifies independent jobs concurrently.
// The result at index i holds the shares of jobs[i].
func VerifyBatches(ctx context.Context, cfg Config, jobs []*Job) ([]*Shares, error) {
	out := make([]*Shares, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i := range jobs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			shares, err := jobs[i].Verify(cfg)
			if err != nil {
				return fmt.Errorf("dzkp: batch %d: %w", i, err)
			}
			out[i] = shares
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

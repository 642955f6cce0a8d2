package dzkp

import (
	"fmt"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
)

// CheckZero returns ErrVerificationFailure unless the shares sum to zero.
func CheckZero(shares ...field.Element) error {
	if len(shares) == 0 {
		return nil
	}
	if !field.Sum(shares[0].Field(), shares).IsZero() {
		return ErrVerificationFailure
	}
	return nil
}

// CheckFinal checks the shares of the left and right verifier after the final proof:
// the b shares must cancel, and out_left + out_right must equal p(r)⋅q(r).
func CheckFinal(left, right FinalShares) error {
	if err := CheckZero(left.B, right.B); err != nil {
		return fmt.Errorf("final sum: %w", err)
	}
	expected := left.Opened.Clone().Mul(right.Opened)
	if !left.Out.Clone().Add(right.Out).Equal(expected) {
		return fmt.Errorf("final evaluation: %w", ErrVerificationFailure)
	}
	return nil
}

// CheckShares combines the values revealed by both verifiers of a batch.
// The returned error wraps ErrVerificationFailure and names the failing round.
func CheckShares(left, right *Shares) error {
	if len(left.B) != len(right.B) {
		return fmt.Errorf("dzkp: %w: verifiers ran %d and %d rounds", ErrLengthMismatch, len(left.B), len(right.B))
	}
	for i := range left.B {
		if err := CheckZero(left.B[i], right.B[i]); err != nil {
			return fmt.Errorf("dzkp: round %d: %w", i, err)
		}
	}
	if err := CheckFinal(left.Final, right.Final); err != nil {
		return fmt.Errorf("dzkp: round %d: %w", len(left.B), err)
	}
	return nil
}

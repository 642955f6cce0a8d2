package dzkp

import (
	"errors"

	"github.com/taurusgroup/ipa-dzkp/pkg/math/polynomial"
)

var (
	// ErrConfiguration is returned when a block size cannot be used with the chosen field.
	ErrConfiguration = polynomial.ErrConfiguration
	// ErrLengthMismatch is returned when a proof or input vector does not have the expected length.
	ErrLengthMismatch = polynomial.ErrLengthMismatch
	// ErrVerificationFailure is returned when the opened values show that the prover cheated.
	ErrVerificationFailure = errors.New("dzkp: verification failure")
)

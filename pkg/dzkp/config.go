package dzkp

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/polynomial"
)

// Config holds the parameters shared by the prover and both verifiers.
type Config struct {
	// Field is the field all values live in.
	Field field.Field
	// BlockSize is the chunk size λ of the intermediate rounds.
	BlockSize int
	// FinalBlockSize is the chunk size of the final round.
	FinalBlockSize int
}

// DefaultConfig returns a configuration suitable for f.
func DefaultConfig(f field.Field) Config {
	return Config{
		Field:          f,
		BlockSize:      8,
		FinalBlockSize: 4,
	}
}

// ProofLength returns the number of values of an intermediate proof for chunks of size λ.
func ProofLength(λ int) int { return 2*λ - 1 }

// FinalProofLength returns the number of values of a final proof for chunks of size λ.
func FinalProofLength(λ int) int { return 2*λ + 1 }

// Validate checks that every Lagrange table used by the protocol can be built over the field.
func (c Config) Validate() error {
	if c.Field == nil {
		return errors.New("dzkp: config: no field")
	}
	if c.BlockSize < 2 {
		return fmt.Errorf("dzkp: config: %w: block size %d < 2", ErrConfiguration, c.BlockSize)
	}
	if c.FinalBlockSize < 1 {
		return fmt.Errorf("dzkp: config: %w: final block size %d < 1", ErrConfiguration, c.FinalBlockSize)
	}
	for _, n := range []int{ProofLength(c.BlockSize), FinalProofLength(c.FinalBlockSize)} {
		if _, err := polynomial.NewCanonicalLagrangeDenominator(c.Field, n); err != nil {
			return fmt.Errorf("dzkp: config: %w", err)
		}
	}
	return nil
}

// RoundCount returns the number of intermediate rounds needed to reduce n values
// to at most FinalBlockSize.
func (c Config) RoundCount(n int) int {
	rounds := 0
	for n > c.FinalBlockSize {
		n = (n + c.BlockSize - 1) / c.BlockSize
		rounds++
	}
	return rounds
}

type configCBOR struct {
	Field          string
	BlockSize      int
	FinalBlockSize int
}

// MarshalCBOR implements cbor.Marshaler.
func (c Config) MarshalCBOR() ([]byte, error) {
	if c.Field == nil {
		return nil, errors.New("dzkp: config: no field")
	}
	return cbor.Marshal(configCBOR{
		Field:          c.Field.Name(),
		BlockSize:      c.BlockSize,
		FinalBlockSize: c.FinalBlockSize,
	})
}

// UnmarshalCBOR implements cbor.Unmarshaler. The decoded config is validated.
func (c *Config) UnmarshalCBOR(data []byte) error {
	var raw configCBOR
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	f, err := field.ByName(raw.Field)
	if err != nil {
		return fmt.Errorf("dzkp: config: %w", err)
	}
	out := Config{
		Field:          f,
		BlockSize:      raw.BlockSize,
		FinalBlockSize: raw.FinalBlockSize,
	}
	if err = out.Validate(); err != nil {
		return err
	}
	*c = out
	return nil
}

// WriteTo implements io.WriterTo, so that the config can be bound to a session.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	data, err := c.MarshalCBOR()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (Config) Domain() string { return "DZKP Config" }

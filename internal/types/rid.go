package types

import (
	"errors"
	"fmt"
	"io"

	"github.com/taurusgroup/ipa-dzkp/internal/params"
)

// RID is a random identifier of params.SecBytes bytes.
// Helpers use it as a session identifier and as the seed of a PRSS stream shared with a neighbour.
// An all-zero RID is considered invalid.
type RID []byte

// EmptyRID returns a zeroed-out RID.
func EmptyRID() RID {
	return make(RID, params.SecBytes)
}

// NewRID samples a RID from r.
func NewRID(r io.Reader) (RID, error) {
	rid := EmptyRID()
	if _, err := io.ReadFull(r, rid); err != nil {
		return nil, fmt.Errorf("rid: %w", err)
	}
	return rid, nil
}

// XOR modifies the receiver by taking the XOR with the argument.
// A seed contributed by two parties is the XOR of both contributions.
func (rid RID) XOR(otherRID RID) {
	for b := 0; b < params.SecBytes && b < len(otherRID); b++ {
		rid[b] ^= otherRID[b]
	}
}

// WriteTo implements io.WriterTo interface.
func (rid RID) WriteTo(w io.Writer) (int64, error) {
	if rid == nil {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write(rid[:])
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (RID) Domain() string { return "RID" }

// Validate ensure that the RID is the correct length and is not identically 0.
func (rid RID) Validate() error {
	if l := len(rid); l != params.SecBytes {
		return fmt.Errorf("rid: incorrect length (got %d, expected %d)", l, params.SecBytes)
	}
	for _, b := range rid {
		if b != 0 {
			return nil
		}
	}
	return errors.New("rid: rid is 0")
}

// Copy returns a copy of rid.
func (rid RID) Copy() RID {
	other := EmptyRID()
	copy(other, rid)
	return other
}

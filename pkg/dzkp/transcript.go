package dzkp

import (
	"github.com/taurusgroup/ipa-dzkp/pkg/hash"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/field"
	"github.com/taurusgroup/ipa-dzkp/pkg/math/sample"
	"github.com/taurusgroup/ipa-dzkp/pkg/party"
)

// Transcript derives the challenges of a prover's batch.
//
// The challenge of a round depends on the digests of both shares of the round's proof,
// so neither verifier can compute it before the prover has committed to the proof,
// and the prover cannot choose a proof as a function of the challenge.
type Transcript struct {
	h *hash.Hash
}

// NewTranscript returns the transcript for the batch proven by prover in the session ssid.
func NewTranscript(ssid []byte, prover party.ID) *Transcript {
	return &Transcript{
		h: hash.New(&hash.BytesWithDomain{TheDomain: "DZKP Session", Bytes: ssid}, prover),
	}
}

// Challenge returns the challenge of round, given the digests of the left and right proof shares.
// The rounds of a batch must be processed in order.
func (t *Transcript) Challenge(f field.Field, round int, left, right []byte) field.Element {
	_ = t.h.WriteAny(
		uint64(round),
		&hash.BytesWithDomain{TheDomain: "Left Share", Bytes: left},
		&hash.BytesWithDomain{TheDomain: "Right Share", Bytes: right},
	)
	return sample.Element(t.h.Clone().Digest(), f)
}

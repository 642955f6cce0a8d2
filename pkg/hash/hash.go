package hash

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/taurusgroup/ipa-dzkp/internal/params"
	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the length of the slice returned by Sum.
const DigestLengthBytes = params.DigestLengthBytes

// Hash is the hash function we use for deriving challenges, hashing proof shares, and keying PRSS streams.
//
// Internally, this is a wrapper around blake3, whose extendable output lets us read as many bytes as needed.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash struct, and writes initialData to the hash state.
func New(initialData ...WriterToWithDomain) *Hash {
	hash := &Hash{h: blake3.New()}
	for _, d := range initialData {
		_ = hash.WriteAny(d)
	}
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - uint64
//   - hash.WriterToWithDomain
//
// This function will apply its own domain separation for the first two types.
// The last type already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var toBeWritten WriterToWithDomain
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			toBeWritten = &BytesWithDomain{"[]byte", t}
		case uint64:
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], t)
			toBeWritten = &BytesWithDomain{"uint64", buf[:]}
		case WriterToWithDomain:
			toBeWritten = t
		default:
			panic(fmt.Sprintf("hash.Hash: unsupported type %T", d))
		}

		// Write out `(<domain><data>)`, so that each domain separated piece of data
		// is distinguished from others.
		if _, err := hash.h.Write([]byte("(")); err != nil {
			return err
		}
		if _, err := hash.h.Write([]byte(toBeWritten.Domain())); err != nil {
			return err
		}
		if _, err := toBeWritten.WriteTo(hash.h); err != nil {
			return fmt.Errorf("hash.Hash: write %s: %w", toBeWritten.Domain(), err)
		}
		if _, err := hash.h.Write([]byte(")")); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
